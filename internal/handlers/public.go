package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kipko3ch/link-seav1/internal/services"
)

func (h *Handler) GetPublicPage(c *gin.Context) {
	page, err := h.public.GetPage(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) GetPublicQR(c *gin.Context) {
	size := 0
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "size must be a number"})
			return
		}
		size = n
	}

	body, contentType, err := h.public.QRCode(c.Request.Context(), c.Param("username"), c.DefaultQuery("format", services.QRFormatPNG), size)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, contentType, body)
}
