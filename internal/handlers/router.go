package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (h *Handler) SetupRouter() *gin.Engine {
	r := gin.New()
	// X-Forwarded-For is only honoured from the configured proxies.
	if err := r.SetTrustedProxies(h.cfg.TrustedProxies); err != nil {
		h.logger.Error("Invalid trusted proxies, ignoring forwarded headers", "error", err)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(RequestLogger(h.logger))
	r.Use(Metrics())

	if len(h.cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     h.cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Authorization"},
			ExposeHeaders:    []string{requestIDHeader},
			AllowCredentials: true,
			MaxAge:           24 * time.Hour,
		}))
	}

	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Link Sea API is running"})
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to Link Sea API"})
	})
	r.GET("/health", health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	base := "/" + strings.Trim(h.cfg.APIBasePath, "/")
	api := r.Group(base)
	if base != "/" {
		api.GET("", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "Link Sea API is running"})
		})
		api.GET("/health", health)
	}

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.POST("/reset-password", h.ResetPassword)

		protected := auth.Group("", h.AuthRequired())
		protected.GET("/profile", h.GetProfile)
		protected.PUT("/profile", h.UpdateProfile)
		protected.PUT("/password", h.UpdatePassword)
	}

	links := api.Group("/links", h.AuthRequired())
	{
		links.GET("", h.ListLinks)
		links.POST("", h.CreateLink)
		links.PUT("/:id", h.UpdateLink)
		links.DELETE("/:id", h.DeleteLink)
	}

	themes := api.Group("/themes", h.AuthRequired())
	{
		themes.GET("", h.ListThemes)
		themes.POST("", h.CreateTheme)
		themes.GET("/active", h.GetActiveTheme)
		themes.PUT("/:id", h.UpdateTheme)
		themes.DELETE("/:id", h.DeleteTheme)
	}

	public := api.Group("/public")
	{
		public.GET("/:username", h.GetPublicPage)
		public.GET("/:username/qr", h.GetPublicQR)
	}

	clicks := api.Group("/clicks")
	{
		clicks.POST("/:linkId", h.TrackClick)
		clicks.GET("/:linkId/stats", h.AuthRequired(), h.GetLinkStats)
	}

	return r
}
