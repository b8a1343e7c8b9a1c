package response

import (
	"net/http"

	"github.com/flytaxi/service-booking/internal/domain"
	"github.com/gin-gonic/gin"
)

// Envelope is the JSON body of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta carries pagination details for list responses.
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// Success writes a 200 response with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Paginated writes a 200 response with items and paging metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    items,
		Meta:    &Meta{Total: total, Page: page, Limit: limit, TotalPages: totalPages},
	})
}

// BadRequest writes a 400 response.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{Error: message})
}

// Error maps a domain error to its HTTP status. Unknown errors become a 500
// with a generic message.
func Error(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, Envelope{Error: err.Error()})
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, Envelope{Error: err.Error()})
	case domain.IsConflict(err):
		c.JSON(http.StatusConflict, Envelope{Error: err.Error()})
	case domain.IsInvalidState(err):
		c.JSON(http.StatusUnprocessableEntity, Envelope{Error: err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, Envelope{Error: "internal server error"})
	}
}
