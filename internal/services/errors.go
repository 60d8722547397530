package services

import "errors"

var (
	ErrIncidentResolved     = errors.New("incident is already resolved")
	ErrNoResourcesAvailable = errors.New("no resources available")
	ErrResourceUnavailable  = errors.New("resource is not available for dispatch")
	ErrLocationUnavailable  = errors.New("location not available")
	ErrInvalidStatus        = errors.New("invalid response status")
	ErrNotBookingOwner      = errors.New("booking belongs to another user")
	ErrResourceAssigned     = errors.New("resource has an active assignment")
)
