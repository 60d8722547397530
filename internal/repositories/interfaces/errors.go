package interfaces

import "errors"

// State-conflict errors surface unchanged to callers so HTTP handlers
// can map them to 404/409 with a descriptive reason.
var (
	ErrNotFound              = errors.New("record not found")
	ErrSlotLocked            = errors.New("slot is locked")
	ErrCapacityExceeded      = errors.New("capacity exceeded")
	ErrBookingNotCancellable = errors.New("booking is not cancellable")
)
