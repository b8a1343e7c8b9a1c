package handler

import (
	"strconv"

	"github.com/flytaxi/service-booking/internal/application"
	"github.com/flytaxi/service-booking/internal/domain/geo"
	"github.com/flytaxi/service-booking/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DraftHandler handles HTTP requests for map-based route picking.
type DraftHandler struct {
	service *application.RouteDraftService
}

// NewDraftHandler creates a new DraftHandler.
func NewDraftHandler(service *application.RouteDraftService) *DraftHandler {
	return &DraftHandler{service: service}
}

// AddPointRequest is one map selection.
type AddPointRequest struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lng *float64 `json:"lng" binding:"required"`
}

// SelectTierRequest sets the draft's tier.
type SelectTierRequest struct {
	Tier string `json:"tier"`
}

// RegisterRoutes registers all draft routes on the given router group.
func (h *DraftHandler) RegisterRoutes(r *gin.RouterGroup) {
	drafts := r.Group("/api/v1/routes/drafts")
	{
		drafts.POST("", h.StartDraft)
		drafts.GET("/:id", h.GetDraft)
		drafts.POST("/:id/points", h.AddPoint)
		drafts.DELETE("/:id/stops/:index", h.RemoveStop)
		drafts.PUT("/:id/tier", h.SelectTier)
		drafts.POST("/:id/confirm", h.ConfirmDraft)
	}
}

// StartDraft handles POST /api/v1/routes/drafts.
func (h *DraftHandler) StartDraft(c *gin.Context) {
	result, err := h.service.StartDraft(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetDraft handles GET /api/v1/routes/drafts/:id.
func (h *DraftHandler) GetDraft(c *gin.Context) {
	draftID, ok := parseDraftID(c)
	if !ok {
		return
	}

	result, err := h.service.GetDraft(c.Request.Context(), draftID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// AddPoint handles POST /api/v1/routes/drafts/:id/points.
func (h *DraftHandler) AddPoint(c *gin.Context) {
	draftID, ok := parseDraftID(c)
	if !ok {
		return
	}

	var req AddPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.AddPoint(c.Request.Context(), draftID, geo.Coordinate{Lat: *req.Lat, Lng: *req.Lng})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// RemoveStop handles DELETE /api/v1/routes/drafts/:id/stops/:index.
func (h *DraftHandler) RemoveStop(c *gin.Context) {
	draftID, ok := parseDraftID(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.BadRequest(c, "invalid stop index")
		return
	}

	result, err := h.service.RemoveStop(c.Request.Context(), draftID, index)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// SelectTier handles PUT /api/v1/routes/drafts/:id/tier.
func (h *DraftHandler) SelectTier(c *gin.Context) {
	draftID, ok := parseDraftID(c)
	if !ok {
		return
	}

	var req SelectTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SelectTier(c.Request.Context(), draftID, req.Tier)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ConfirmDraft handles POST /api/v1/routes/drafts/:id/confirm.
func (h *DraftHandler) ConfirmDraft(c *gin.Context) {
	draftID, ok := parseDraftID(c)
	if !ok {
		return
	}

	result, err := h.service.ConfirmDraft(c.Request.Context(), draftID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

func parseDraftID(c *gin.Context) (uuid.UUID, bool) {
	draftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid draft ID")
		return uuid.Nil, false
	}
	return draftID, true
}
