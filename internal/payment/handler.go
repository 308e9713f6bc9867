package payment

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextStudentID is the gin context key set by the session auth
// middleware for the resolved student.
const ContextStudentID = "student_id"

// Handler handles payment HTTP requests
type Handler struct {
	service Service
}

// NewHandler creates a new payment handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Process handles POST /api/payment/process
func (h *Handler) Process(c *gin.Context) {
	studentID := c.GetString(ContextStudentID)
	if studentID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment method and amount are required"})
		return
	}

	receipt, err := h.service.Process(c.Request.Context(), studentID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment method and amount are required"})
		case errors.Is(err, ErrInvalidMethod):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment method"})
		case errors.Is(err, ErrInvalidCard):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Valid card number is required"})
		case errors.Is(err, ErrDeclined):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment failed. Please try again."})
		default:
			slog.Error("Payment processing failed", "student_id", studentID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, receipt)
}

// History handles GET /api/payment/history
func (h *Handler) History(c *gin.Context) {
	studentID := c.GetString(ContextStudentID)
	if studentID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	payments, err := h.service.History(c.Request.Context(), studentID)
	if err != nil {
		slog.Error("Payment history failed", "student_id", studentID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, payments)
}
