package handler

import (
	"strconv"
	"strings"

	"github.com/flytaxi/service-booking/internal/application"
	"github.com/flytaxi/service-booking/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const bookingNumberPrefix = "FT-"

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	api := r.Group("/api/v1")
	{
		api.GET("/tiers", h.ListTiers)
		api.POST("/fares/quote", h.QuoteFare)
		api.POST("/bookings", h.CreateBooking)
		api.GET("/bookings/:id", h.GetBooking)
	}
}

// ListTiers handles GET /api/v1/tiers.
func (h *BookingHandler) ListTiers(c *gin.Context) {
	response.Success(c, h.service.ListTiers())
}

// QuoteFare handles POST /api/v1/fares/quote.
func (h *BookingHandler) QuoteFare(c *gin.Context) {
	var req application.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.QuoteFare(req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetBooking handles GET /api/v1/bookings/:id. The id may also be a booking number.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	param := c.Param("id")

	if strings.HasPrefix(strings.ToUpper(param), bookingNumberPrefix) {
		result, err := h.service.GetBookingByNumber(c.Request.Context(), strings.ToUpper(param))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, result)
		return
	}

	bookingID, err := uuid.Parse(param)
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}
