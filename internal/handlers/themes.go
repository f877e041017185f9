package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kipko3ch/link-seav1/internal/services"
)

type CreateThemeRequest struct {
	Name            string `json:"name"`
	BackgroundColor string `json:"background_color"`
	TextColor       string `json:"text_color"`
	AccentColor     string `json:"accent_color"`
	CulturalTheme   string `json:"cultural_theme"`
	IsActive        bool   `json:"is_active"`
}

type UpdateThemeRequest struct {
	Name            *string `json:"name"`
	BackgroundColor *string `json:"background_color"`
	TextColor       *string `json:"text_color"`
	AccentColor     *string `json:"accent_color"`
	CulturalTheme   *string `json:"cultural_theme"`
	IsActive        *bool   `json:"is_active"`
}

func (h *Handler) ListThemes(c *gin.Context) {
	themes, err := h.themes.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"themes": themes})
}

func (h *Handler) CreateTheme(c *gin.Context) {
	var req CreateThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	identity := currentUser(c)
	theme, err := h.themes.Create(c.Request.Context(), identity.ID, services.ThemeInput{
		Name:            req.Name,
		BackgroundColor: req.BackgroundColor,
		TextColor:       req.TextColor,
		AccentColor:     req.AccentColor,
		CulturalTheme:   req.CulturalTheme,
		IsActive:        req.IsActive,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.audit.LogAction(&identity.ID, services.ActionCreateTheme, strconv.FormatUint(uint64(theme.ID), 10), nil, c.ClientIP())

	c.JSON(http.StatusCreated, gin.H{"theme": theme})
}

func (h *Handler) UpdateTheme(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	identity := currentUser(c)
	theme, err := h.themes.Update(c.Request.Context(), identity.ID, id, services.ThemeUpdate{
		Name:            req.Name,
		BackgroundColor: req.BackgroundColor,
		TextColor:       req.TextColor,
		AccentColor:     req.AccentColor,
		CulturalTheme:   req.CulturalTheme,
		IsActive:        req.IsActive,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.audit.LogAction(&identity.ID, services.ActionUpdateTheme, strconv.FormatUint(uint64(id), 10), req, c.ClientIP())

	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

func (h *Handler) DeleteTheme(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	identity := currentUser(c)
	if err := h.themes.Delete(c.Request.Context(), identity.ID, id); err != nil {
		h.respondError(c, err)
		return
	}

	h.audit.LogAction(&identity.ID, services.ActionDeleteTheme, strconv.FormatUint(uint64(id), 10), nil, c.ClientIP())

	c.JSON(http.StatusOK, gin.H{"message": "Theme deleted successfully"})
}

func (h *Handler) GetActiveTheme(c *gin.Context) {
	theme, err := h.themes.GetActive(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}
