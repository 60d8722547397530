package validators

import (
	"yatraseva/internal/models"
)

const maxBookingMembers = 9

func ValidateCreateBooking(req *models.CreateBookingRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if !isObjectIDHex(req.SlotID) {
		errors = append(errors, ValidationError{
			Field:   "slot_id",
			Message: "Invalid ID format",
		})
	}

	if len(req.Members) > maxBookingMembers {
		errors = append(errors, ValidationError{
			Field:   "members",
			Message: "A booking covers at most ten pilgrims",
		})
	}

	for _, member := range req.Members {
		if member.Name == "" {
			errors = append(errors, ValidationError{
				Field:   "members",
				Message: "Every member needs a name",
			})
			break
		}
	}

	return errors
}

func ValidateCreateSlot(req *models.CreateSlotRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if req.StartTime != "" && !timeOfDayRegex.MatchString(req.StartTime) {
		errors = append(errors, ValidationError{
			Field:   "start_time",
			Message: "Time must be in HH:MM 24-hour format",
		})
	}
	if req.EndTime != "" && !timeOfDayRegex.MatchString(req.EndTime) {
		errors = append(errors, ValidationError{
			Field:   "end_time",
			Message: "Time must be in HH:MM 24-hour format",
		})
	}

	return errors
}
