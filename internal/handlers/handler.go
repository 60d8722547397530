package handlers

import (
	"errors"
	"net/http"

	"yatraseva/internal/repositories/interfaces"
	"yatraseva/internal/services"
	"yatraseva/internal/utils"
	"yatraseva/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// currentUserID reads the authenticated user id set by the auth
// middleware. A miss means the route is wired without auth.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		utils.UnauthorizedResponse(c)
		return primitive.NilObjectID, false
	}

	userID, ok := value.(primitive.ObjectID)
	if !ok {
		utils.BadRequestResponse(c, "Invalid user ID")
		return primitive.NilObjectID, false
	}

	return userID, true
}

func isAdmin(c *gin.Context) bool {
	userType, _ := c.Get("user_type")
	role, ok := userType.(string)
	return ok && role == "admin"
}

func pathObjectID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}

func validationDetails(errs validators.ValidationErrors) map[string]string {
	details := make(map[string]string, len(errs))
	for _, err := range errs {
		details[err.Field] = err.Message
	}
	return details
}

// writeServiceError maps domain sentinels onto HTTP statuses; anything
// unrecognized is a 500 with the given code.
func writeServiceError(c *gin.Context, err error, code string) {
	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		utils.NotFoundResponse(c, "Record")
	case errors.Is(err, interfaces.ErrSlotLocked),
		errors.Is(err, interfaces.ErrCapacityExceeded),
		errors.Is(err, interfaces.ErrBookingNotCancellable),
		errors.Is(err, services.ErrIncidentResolved),
		errors.Is(err, services.ErrResourceUnavailable),
		errors.Is(err, services.ErrResourceAssigned):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrNoResourcesAvailable),
		errors.Is(err, services.ErrLocationUnavailable),
		errors.Is(err, services.ErrInvalidStatus):
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, code, err.Error())
	case errors.Is(err, services.ErrNotBookingOwner):
		utils.ForbiddenResponse(c)
	default:
		utils.ErrorResponse(c, http.StatusInternalServerError, code, err.Error())
	}
}
