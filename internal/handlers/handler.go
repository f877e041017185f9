package handlers

import (
	"log/slog"

	"github.com/kipko3ch/link-seav1/internal/config"
	"github.com/kipko3ch/link-seav1/internal/services"
)

type Handler struct {
	cfg      config.Config
	logger   *slog.Logger
	tokens   *services.TokenService
	accounts *services.AccountService
	links    *services.LinkService
	themes   *services.ThemeService
	public   *services.PublicService
	clicks   *services.ClickService
	audit    *services.AuditService
}

func NewHandler(
	cfg config.Config,
	logger *slog.Logger,
	tokens *services.TokenService,
	accounts *services.AccountService,
	links *services.LinkService,
	themes *services.ThemeService,
	public *services.PublicService,
	clicks *services.ClickService,
	audit *services.AuditService,
) *Handler {
	return &Handler{
		cfg:      cfg,
		logger:   logger,
		tokens:   tokens,
		accounts: accounts,
		links:    links,
		themes:   themes,
		public:   public,
		clicks:   clicks,
		audit:    audit,
	}
}
