package handlers

import (
	"strconv"

	"yatraseva/internal/models"
	"yatraseva/internal/services"
	"yatraseva/internal/utils"
	"yatraseva/internal/validators"

	"github.com/gin-gonic/gin"
)

type ResourceHandler struct {
	resourceService services.ResourceService
}

func NewResourceHandler(resourceService services.ResourceService) *ResourceHandler {
	return &ResourceHandler{
		resourceService: resourceService,
	}
}

// Create registers a new medical resource
func (h *ResourceHandler) Create(c *gin.Context) {
	var request models.CreateResourceRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateCreateResource(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, validationDetails(errs))
		return
	}

	resource, err := h.resourceService.Create(c.Request.Context(), &request)
	if err != nil {
		writeServiceError(c, err, "RESOURCE_CREATE_FAILED")
		return
	}

	utils.CreatedResponse(c, "Resource registered successfully", resource)
}

// Get retrieves one resource
func (h *ResourceHandler) Get(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	resource, err := h.resourceService.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "RESOURCE_FETCH_FAILED")
		return
	}

	utils.SuccessResponse(c, "Resource retrieved successfully", resource)
}

// List retrieves resources, optionally filtered by status
func (h *ResourceHandler) List(c *gin.Context) {
	var status *models.ResourceStatus
	if value := c.Query("status"); value != "" {
		s := models.ResourceStatus(value)
		status = &s
	}

	params := utils.GetPaginationParams(c)
	resources, total, err := h.resourceService.List(c.Request.Context(), status, params)
	if err != nil {
		writeServiceError(c, err, "RESOURCE_LIST_FAILED")
		return
	}

	meta := &utils.Meta{
		Pagination: utils.BuildPaginationMeta(params, total),
	}
	utils.SuccessResponseWithMeta(c, "Resources retrieved successfully", map[string]interface{}{
		"resources": resources,
	}, meta)
}

// Nearby lists resources around a point for the live resource map
func (h *ResourceHandler) Nearby(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid or missing lat parameter")
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid or missing lng parameter")
		return
	}

	var radiusM float64
	if value := c.Query("radius_m"); value != "" {
		radiusM, err = strconv.ParseFloat(value, 64)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid radius_m parameter")
			return
		}
	}

	resources, err := h.resourceService.Nearby(c.Request.Context(), lat, lng, radiusM)
	if err != nil {
		writeServiceError(c, err, "RESOURCE_NEARBY_FAILED")
		return
	}

	utils.SuccessResponse(c, "Nearby resources retrieved successfully", map[string]interface{}{
		"resources": resources,
	})
}

// UpdateStatus applies a manual status override
func (h *ResourceHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var request struct {
		Status models.ResourceStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	resource, err := h.resourceService.UpdateStatus(c.Request.Context(), id, request.Status)
	if err != nil {
		writeServiceError(c, err, "RESOURCE_STATUS_FAILED")
		return
	}

	utils.SuccessResponse(c, "Resource status updated successfully", resource)
}

// UpdateLocation records a unit location heartbeat
func (h *ResourceHandler) UpdateLocation(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var request struct {
		Lat  float64 `json:"lat" binding:"required"`
		Lng  float64 `json:"lng" binding:"required"`
		Zone string  `json:"zone"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	resource, err := h.resourceService.UpdateLocation(c.Request.Context(), id, request.Lat, request.Lng, request.Zone)
	if err != nil {
		writeServiceError(c, err, "RESOURCE_LOCATION_FAILED")
		return
	}

	utils.SuccessResponse(c, "Resource location updated successfully", resource)
}
