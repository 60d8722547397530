package handlers

import (
	"yatraseva/internal/models"
	"yatraseva/internal/services"
	"yatraseva/internal/utils"
	"yatraseva/internal/validators"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingService services.BookingService
}

func NewBookingHandler(bookingService services.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

// Create reserves seats on a slot for the authenticated user
func (h *BookingHandler) Create(c *gin.Context) {
	var request models.CreateBookingRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateCreateBooking(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, validationDetails(errs))
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.Reserve(c.Request.Context(), userID, &request)
	if err != nil {
		writeServiceError(c, err, "BOOKING_FAILED")
		return
	}

	utils.CreatedResponse(c, "Booking created successfully", booking)
}

// Cancel releases a booking's seats back to the slot
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.Release(c.Request.Context(), id, userID, isAdmin(c))
	if err != nil {
		writeServiceError(c, err, "CANCELLATION_FAILED")
		return
	}

	utils.SuccessResponse(c, "Booking cancelled successfully", booking)
}

// Get retrieves one booking; owners and admins only
func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "BOOKING_FETCH_FAILED")
		return
	}

	if booking.UserID != userID && !isAdmin(c) {
		utils.ForbiddenResponse(c)
		return
	}

	utils.SuccessResponse(c, "Booking retrieved successfully", booking)
}

// ListMine retrieves the authenticated user's bookings
func (h *BookingHandler) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	bookings, total, err := h.bookingService.ListByUser(c.Request.Context(), userID, params)
	if err != nil {
		writeServiceError(c, err, "BOOKING_LIST_FAILED")
		return
	}

	meta := &utils.Meta{
		Pagination: utils.BuildPaginationMeta(params, total),
	}
	utils.SuccessResponseWithMeta(c, "Bookings retrieved successfully", map[string]interface{}{
		"bookings": bookings,
	}, meta)
}
