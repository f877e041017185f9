package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kipko3ch/link-seav1/internal/services"
)

// errorResponse maps a service error to a status and a message that is safe
// to return. ok is false for unexpected errors.
func errorResponse(err error) (status int, message string, ok bool) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Message, true
	case errors.Is(err, services.ErrUsernameTaken):
		return http.StatusConflict, "Username is already taken", true
	case errors.Is(err, services.ErrEmailTaken):
		return http.StatusConflict, "Email is already registered", true
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password", true
	case errors.Is(err, services.ErrWrongPassword):
		return http.StatusBadRequest, "Current password is incorrect", true
	case errors.Is(err, services.ErrInvalidOrExpiredCode):
		return http.StatusBadRequest, "Invalid or expired OTP", true
	case errors.Is(err, services.ErrUserNotFound):
		return http.StatusNotFound, "User not found", true
	case errors.Is(err, services.ErrLinkNotFound):
		return http.StatusNotFound, "Link not found", true
	case errors.Is(err, services.ErrThemeNotFound):
		return http.StatusNotFound, "Theme not found", true
	case errors.Is(err, services.ErrNoActiveTheme):
		return http.StatusNotFound, "No active theme found", true
	case errors.Is(err, services.ErrDeliveryFailed):
		return http.StatusInternalServerError, "Failed to send OTP email", true
	}
	return http.StatusInternalServerError, "Server error", false
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status, message, ok := errorResponse(err)
	if !ok || status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			"method", c.Request.Method,
			"route", c.FullPath(),
			"error", err,
		)
	}
	c.JSON(status, gin.H{"message": message})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body", "error": err.Error()})
}

// paramID parses a numeric path parameter and answers 400 when it is not one.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}
