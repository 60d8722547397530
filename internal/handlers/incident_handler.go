package handlers

import (
	"yatraseva/internal/models"
	"yatraseva/internal/repositories/interfaces"
	"yatraseva/internal/services"
	"yatraseva/internal/utils"
	"yatraseva/internal/validators"

	"github.com/gin-gonic/gin"
)

type IncidentHandler struct {
	incidentService services.IncidentService
	dispatchService services.DispatchService
}

func NewIncidentHandler(incidentService services.IncidentService, dispatchService services.DispatchService) *IncidentHandler {
	return &IncidentHandler{
		incidentService: incidentService,
		dispatchService: dispatchService,
	}
}

// Report files a new incident from a pilgrim or staff member
func (h *IncidentHandler) Report(c *gin.Context) {
	var request models.ReportIncidentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateReportIncident(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, validationDetails(errs))
		return
	}

	reporterID, ok := currentUserID(c)
	if !ok {
		return
	}

	incident, err := h.incidentService.Report(c.Request.Context(), reporterID, &request)
	if err != nil {
		writeServiceError(c, err, "INCIDENT_REPORT_FAILED")
		return
	}

	utils.CreatedResponse(c, "Incident reported successfully", incident)
}

// Get retrieves one incident
func (h *IncidentHandler) Get(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	incident, err := h.incidentService.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "INCIDENT_FETCH_FAILED")
		return
	}

	utils.SuccessResponse(c, "Incident retrieved successfully", incident)
}

// List retrieves incidents filtered by status/type/severity
func (h *IncidentHandler) List(c *gin.Context) {
	filter := &interfaces.IncidentFilter{}
	if status := c.Query("status"); status != "" {
		s := models.IncidentStatus(status)
		filter.Status = &s
	}
	if incidentType := c.Query("type"); incidentType != "" {
		t := models.IncidentType(incidentType)
		filter.Type = &t
	}
	if severity := c.Query("severity"); severity != "" {
		s := models.IncidentSeverity(severity)
		filter.Severity = &s
	}

	params := utils.GetPaginationParams(c)
	incidents, total, err := h.incidentService.List(c.Request.Context(), filter, params)
	if err != nil {
		writeServiceError(c, err, "INCIDENT_LIST_FAILED")
		return
	}

	meta := &utils.Meta{
		Pagination: utils.BuildPaginationMeta(params, total),
	}
	utils.SuccessResponseWithMeta(c, "Incidents retrieved successfully", map[string]interface{}{
		"incidents": incidents,
	}, meta)
}

// GetActive retrieves all unresolved incidents for dashboards
func (h *IncidentHandler) GetActive(c *gin.Context) {
	incidents, err := h.incidentService.GetActive(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, "INCIDENT_LIST_FAILED")
		return
	}

	utils.SuccessResponse(c, "Active incidents retrieved successfully", incidents)
}

// Dispatch assigns a resource to an incident
func (h *IncidentHandler) Dispatch(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var request models.DispatchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateDispatch(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, validationDetails(errs))
		return
	}

	result, err := h.dispatchService.Dispatch(c.Request.Context(), id, &request)
	if err != nil {
		writeServiceError(c, err, "DISPATCH_FAILED")
		return
	}

	utils.SuccessResponse(c, "Resource dispatched successfully", result)
}

// UpdateStatus advances the incident response lifecycle
func (h *IncidentHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var request models.StatusUpdateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateStatusUpdate(&request); len(errs) > 0 {
		utils.ValidationErrorResponse(c, validationDetails(errs))
		return
	}

	incident, err := h.dispatchService.UpdateResponseStatus(c.Request.Context(), id, &request)
	if err != nil {
		writeServiceError(c, err, "STATUS_UPDATE_FAILED")
		return
	}

	utils.SuccessResponse(c, "Incident status updated successfully", incident)
}

// Prioritize returns the scored candidate list without dispatching
func (h *IncidentHandler) Prioritize(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	candidates, err := h.dispatchService.Prioritize(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, "PRIORITIZE_FAILED")
		return
	}

	utils.SuccessResponse(c, "Candidates scored successfully", candidates)
}
