package handlers

import (
	"time"

	"yatraseva/internal/models"
	"yatraseva/internal/services"
	"yatraseva/internal/utils"
	"yatraseva/internal/validators"

	"github.com/gin-gonic/gin"
)

type SlotHandler struct {
	slotService services.SlotService
}

func NewSlotHandler(slotService services.SlotService) *SlotHandler {
	return &SlotHandler{
		slotService: slotService,
	}
}

// Create adds a new darshan slot
func (h *SlotHandler) Create(c *gin.Context) {
	var request models.CreateSlotRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateCreateSlot(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, validationDetails(errs))
		return
	}

	slot, err := h.slotService.Create(c.Request.Context(), &request)
	if err != nil {
		writeServiceError(c, err, "SLOT_CREATE_FAILED")
		return
	}

	utils.CreatedResponse(c, "Slot created successfully", slot)
}

// Get retrieves one slot
func (h *SlotHandler) Get(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	slot, err := h.slotService.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "SLOT_FETCH_FAILED")
		return
	}

	utils.SuccessResponse(c, "Slot retrieved successfully", slot)
}

// List retrieves slots, optionally from a date onwards
func (h *SlotHandler) List(c *gin.Context) {
	from, ok := fromDate(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	slots, total, err := h.slotService.List(c.Request.Context(), from, params)
	if err != nil {
		writeServiceError(c, err, "SLOT_LIST_FAILED")
		return
	}

	meta := &utils.Meta{
		Pagination: utils.BuildPaginationMeta(params, total),
	}
	utils.SuccessResponseWithMeta(c, "Slots retrieved successfully", map[string]interface{}{
		"slots": slots,
	}, meta)
}

// Availability retrieves slots with their remaining seat counts
func (h *SlotHandler) Availability(c *gin.Context) {
	from, ok := fromDate(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	availability, total, err := h.slotService.Availability(c.Request.Context(), from, params)
	if err != nil {
		writeServiceError(c, err, "SLOT_LIST_FAILED")
		return
	}

	meta := &utils.Meta{
		Pagination: utils.BuildPaginationMeta(params, total),
	}
	utils.SuccessResponseWithMeta(c, "Slot availability retrieved successfully", map[string]interface{}{
		"slots": availability,
	}, meta)
}

// Lock applies a manual lock
func (h *SlotHandler) Lock(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var request struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&request); err != nil && err.Error() != "EOF" {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	slot, err := h.slotService.Lock(c.Request.Context(), id, request.Reason)
	if err != nil {
		writeServiceError(c, err, "SLOT_LOCK_FAILED")
		return
	}

	utils.SuccessResponse(c, "Slot locked successfully", slot)
}

// Unlock removes a lock
func (h *SlotHandler) Unlock(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	slot, err := h.slotService.Unlock(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "SLOT_UNLOCK_FAILED")
		return
	}

	utils.SuccessResponse(c, "Slot unlocked successfully", slot)
}

func fromDate(c *gin.Context) (*time.Time, bool) {
	value := c.Query("from")
	if value == "" {
		return nil, true
	}

	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid from date, expected YYYY-MM-DD")
		return nil, false
	}
	return &parsed, true
}
