package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/flytaxi/service-booking/internal/application"
	bookingDomain "github.com/flytaxi/service-booking/internal/domain/booking"
	"github.com/flytaxi/service-booking/internal/response"
)

// AdminBookingHandler handles fleet operations requests for booking management.
type AdminBookingHandler struct {
	service *application.BookingService
}

// NewAdminBookingHandler creates a new AdminBookingHandler.
func NewAdminBookingHandler(service *application.BookingService) *AdminBookingHandler {
	return &AdminBookingHandler{service: service}
}

// UpdateStatusRequest is the body of a manual status change.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// RegisterRoutes registers ops booking routes.
func (h *AdminBookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	ops := r.Group("/api/v1/ops/bookings")
	{
		ops.GET("", h.ListBookings)
		ops.GET("/stats", h.BookingStats)
		ops.PATCH("/:id/status", h.UpdateStatus)
	}
}

// ListBookings handles GET /api/v1/ops/bookings.
func (h *AdminBookingHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.service.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// BookingStats handles GET /api/v1/ops/bookings/stats.
func (h *AdminBookingHandler) BookingStats(c *gin.Context) {
	stats, err := h.service.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// UpdateStatus handles PATCH /api/v1/ops/bookings/:id/status.
func (h *AdminBookingHandler) UpdateStatus(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	status, err := bookingDomain.ParseBookingStatus(req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.UpdateStatus(c.Request.Context(), bookingID, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
