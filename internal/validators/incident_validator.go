package validators

import (
	"yatraseva/internal/models"
	"yatraseva/internal/utils"

	"github.com/go-playground/validator/v10"
)

func validateIncidentType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ValidIncidentType(models.IncidentType(value))
}

func validateIncidentSeverity(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ValidSeverity(models.IncidentSeverity(value))
}

func ValidateReportIncident(req *models.ReportIncidentRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if !models.ValidIncidentType(req.Type) {
		errors = append(errors, ValidationError{
			Field:   "type",
			Message: "Invalid incident type",
		})
	}
	if !models.ValidSeverity(req.Severity) {
		errors = append(errors, ValidationError{
			Field:   "severity",
			Message: "Severity must be one of low, medium, high, critical",
		})
	}

	return errors
}

func ValidateDispatch(req *models.DispatchRequest) ValidationErrors {
	var errors ValidationErrors

	// manual dispatch names a resource; auto-route carries none
	if !req.AutoRoute && req.ResourceID == "" {
		errors = append(errors, ValidationError{
			Field:   "resource_id",
			Message: "resource_id is required unless auto_route is set",
		})
	}
	if req.ResourceID != "" && !isObjectIDHex(req.ResourceID) {
		errors = append(errors, ValidationError{
			Field:   "resource_id",
			Message: "Invalid ID format",
		})
	}

	return errors
}

func ValidateStatusUpdate(req *models.StatusUpdateRequest) ValidationErrors {
	errors := ValidateStruct(req)

	switch req.Status {
	case models.IncidentStatusEnRoute, models.IncidentStatusOnScene, models.IncidentStatusResolved:
	default:
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: "Status must be one of en_route, on_scene, resolved",
		})
	}

	if req.ResourceID != "" && !isObjectIDHex(req.ResourceID) {
		errors = append(errors, ValidationError{
			Field:   "resource_id",
			Message: "Invalid ID format",
		})
	}

	if req.Location != nil && !utils.IsValidCoordinates(req.Location.Lat, req.Location.Lng) {
		errors = append(errors, ValidationError{
			Field:   "location",
			Message: "Invalid GPS coordinates",
		})
	}

	return errors
}
