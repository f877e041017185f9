package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kipko3ch/link-seav1/internal/metrics"
	"github.com/kipko3ch/link-seav1/internal/services"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Bio      *string `json:"bio"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.accounts.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.audit.LogAction(&res.User.ID, services.ActionRegister, res.User.Username, nil, c.ClientIP())

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"token":   res.Token,
		"user":    res.User,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			metrics.AuthFailuresTotal.WithLabelValues("bad_credentials").Inc()
		}
		h.respondError(c, err)
		return
	}

	h.audit.LogAction(&res.User.ID, services.ActionLogin, res.User.Username, nil, c.ClientIP())

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   res.Token,
		"user":    res.User,
	})
}

func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := h.accounts.RequestPasswordReset(c.Request.Context(), req.Email)
	switch {
	case err == nil:
		metrics.ResetMailsTotal.WithLabelValues("sent").Inc()
	case errors.Is(err, services.ErrDeliveryFailed):
		metrics.ResetMailsTotal.WithLabelValues("failed").Inc()
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.audit.LogAction(nil, services.ActionPasswordResetRequest, req.Email, nil, c.ClientIP())

	c.JSON(http.StatusOK, gin.H{"message": "OTP sent to email"})
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.accounts.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		h.respondError(c, err)
		return
	}

	h.audit.LogAction(nil, services.ActionPasswordReset, req.Email, nil, c.ClientIP())

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
}

func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.accounts.GetProfile(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.Profile()})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	identity := currentUser(c)
	user, err := h.accounts.UpdateProfile(c.Request.Context(), identity.ID, services.ProfileUpdate{
		Username: req.Username,
		Bio:      req.Bio,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.audit.LogAction(&identity.ID, services.ActionProfileUpdate, strconv.FormatUint(uint64(identity.ID), 10), req, c.ClientIP())

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    user.Profile(),
	})
}

func (h *Handler) UpdatePassword(c *gin.Context) {
	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	identity := currentUser(c)
	if err := h.accounts.UpdatePassword(c.Request.Context(), identity.ID, req.CurrentPassword, req.NewPassword); err != nil {
		h.respondError(c, err)
		return
	}

	h.audit.LogAction(&identity.ID, services.ActionPasswordChange, strconv.FormatUint(uint64(identity.ID), 10), nil, c.ClientIP())

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
