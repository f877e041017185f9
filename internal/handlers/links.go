package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kipko3ch/link-seav1/internal/services"
)

type CreateLinkRequest struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type UpdateLinkRequest struct {
	Title       *string `json:"title"`
	URL         *string `json:"url"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	Icon        *string `json:"icon"`
	Position    *int    `json:"position"`
}

func (h *Handler) ListLinks(c *gin.Context) {
	links, err := h.links.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"links": links})
}

func (h *Handler) CreateLink(c *gin.Context) {
	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	identity := currentUser(c)
	link, err := h.links.Create(c.Request.Context(), identity.ID, services.LinkInput{
		Title:       req.Title,
		URL:         req.URL,
		Type:        req.Type,
		Description: req.Description,
		Icon:        req.Icon,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.audit.LogAction(&identity.ID, services.ActionCreateLink, strconv.FormatUint(uint64(link.ID), 10), gin.H{"url": link.URL}, c.ClientIP())

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Link created successfully",
		"link":    link,
	})
}

func (h *Handler) UpdateLink(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	identity := currentUser(c)
	link, err := h.links.Update(c.Request.Context(), identity.ID, id, services.LinkUpdate{
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		Type:        req.Type,
		Icon:        req.Icon,
		Position:    req.Position,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.audit.LogAction(&identity.ID, services.ActionUpdateLink, strconv.FormatUint(uint64(id), 10), req, c.ClientIP())

	c.JSON(http.StatusOK, gin.H{"link": link})
}

// DeleteLink echoes linkId on failure so the caller can restore an
// optimistically removed row.
func (h *Handler) DeleteLink(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	identity := currentUser(c)
	err := h.links.Delete(c.Request.Context(), identity.ID, id)
	if errors.Is(err, services.ErrLinkNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Link not found or unauthorized",
			"linkId":  id,
		})
		return
	}
	if err != nil {
		h.logger.Error("Failed to delete link", "link_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to delete link",
			"error":   "Server error",
			"linkId":  id,
		})
		return
	}

	h.audit.LogAction(&identity.ID, services.ActionDeleteLink, strconv.FormatUint(uint64(id), 10), nil, c.ClientIP())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Link deleted successfully",
		"linkId":  id,
	})
}
