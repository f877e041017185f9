package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kipko3ch/link-seav1/internal/metrics"
	"github.com/kipko3ch/link-seav1/internal/services"
)

type TrackClickRequest struct {
	Referrer string `json:"referrer"`
}

// TrackClick always answers success for a well formed id. Unknown links are
// counted as ignored.
func (h *Handler) TrackClick(c *gin.Context) {
	id, ok := paramID(c, "linkId")
	if !ok {
		return
	}

	// the body is optional
	var req TrackClickRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}

	recorded, err := h.clicks.TrackClick(c.Request.Context(), services.ClickEvent{
		LinkID:    id,
		Referrer:  req.Referrer,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	result := "recorded"
	if !recorded {
		result = "ignored"
	}
	metrics.ClicksTrackedTotal.WithLabelValues(result).Inc()

	c.JSON(http.StatusOK, gin.H{"message": "Click tracked successfully"})
}

func (h *Handler) GetLinkStats(c *gin.Context) {
	id, ok := paramID(c, "linkId")
	if !ok {
		return
	}

	stats, err := h.clicks.GetLinkStats(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
