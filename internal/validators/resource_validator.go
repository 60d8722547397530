package validators

import (
	"yatraseva/internal/models"
	"yatraseva/internal/utils"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validateResourceType(fl validator.FieldLevel) bool {
	switch models.ResourceType(fl.Field().String()) {
	case models.ResourceTypeAmbulance, models.ResourceTypeFirstAidTeam, models.ResourceTypeMedicalBooth:
		return true
	}
	return false
}

func validateResourceStatus(fl validator.FieldLevel) bool {
	switch models.ResourceStatus(fl.Field().String()) {
	case models.ResourceStatusAvailable, models.ResourceStatusEnRoute,
		models.ResourceStatusBusy, models.ResourceStatusMaintenance:
		return true
	}
	return false
}

func ValidateCreateResource(req *models.CreateResourceRequest) ValidationErrors {
	errors := ValidateStruct(req)

	switch req.Type {
	case models.ResourceTypeAmbulance, models.ResourceTypeFirstAidTeam, models.ResourceTypeMedicalBooth:
	default:
		errors = append(errors, ValidationError{
			Field:   "type",
			Message: "Resource type must be one of ambulance, first_aid_team, medical_booth",
		})
	}

	if !utils.IsValidCoordinates(req.Lat, req.Lng) {
		errors = append(errors, ValidationError{
			Field:   "lat",
			Message: "Invalid GPS coordinates",
		})
	}

	return errors
}

func isObjectIDHex(value string) bool {
	_, err := primitive.ObjectIDFromHex(value)
	return err == nil
}
