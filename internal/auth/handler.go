package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"feeportal/internal/session"
	"feeportal/internal/student"
)

// CookieName is the session cookie delivered to the browser
const CookieName = "session"

// Handler handles authentication HTTP requests
type Handler struct {
	service      Service
	secureCookie bool
}

// NewHandler creates a new authentication handler. secureCookie should
// be true in production so the cookie is only sent over HTTPS.
func NewHandler(service Service, secureCookie bool) *Handler {
	return &Handler{service: service, secureCookie: secureCookie}
}

// Signup handles POST /api/auth/signup
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, email, and password are required"})
		return
	}

	created, sess, err := h.service.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name, email, and password are required"})
		case errors.Is(err, student.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "Student with this email already exists"})
		default:
			slog.Error("Signup failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	h.setSessionCookie(c, sess.ID)
	c.JSON(http.StatusOK, created.Projection())
}

// Login handles POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	found, sess, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		case errors.Is(err, ErrInvalidCredentials):
			// One message for unknown identifier and wrong password alike.
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username/email or password"})
		default:
			slog.Error("Login failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	h.setSessionCookie(c, sess.ID)
	c.JSON(http.StatusOK, found.Projection())
}

// Logout handles POST /api/auth/logout
func (h *Handler) Logout(c *gin.Context) {
	if sessionID, err := c.Cookie(CookieName); err == nil {
		if err := h.service.Logout(c.Request.Context(), sessionID); err != nil {
			slog.Warn("Failed to destroy session", "error", err)
		}
	}

	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Me handles GET /api/auth/me
func (h *Handler) Me(c *gin.Context) {
	sessionID, err := c.Cookie(CookieName)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	found, err := h.service.CurrentUser(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}
		slog.Error("Auth check failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, found.Projection())
}

// UpdateProfile handles PUT /api/auth/update-profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	sessionID, err := c.Cookie(CookieName)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and email are required"})
		return
	}

	updated, err := h.service.UpdateProfile(c.Request.Context(), sessionID, req.Name, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
		case errors.Is(err, ErrMissingFields):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name and email are required"})
		case errors.Is(err, student.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "Email is already taken"})
		default:
			slog.Error("Profile update failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, updated.Projection())
}

func (h *Handler) setSessionCookie(c *gin.Context, sessionID string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		CookieName,
		sessionID,
		int(session.TTL.Seconds()),
		"/",
		"",
		h.secureCookie,
		true, // httpOnly
	)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", h.secureCookie, true)
}
