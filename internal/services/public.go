package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"gorm.io/gorm"

	"github.com/kipko3ch/link-seav1/internal/models"
)

// PublicPage is what a visitor sees at /<username>.
type PublicPage struct {
	User  models.PublicProfile `json:"user"`
	Links []models.Link        `json:"links"`
	Theme *models.Theme        `json:"theme"`
}

// PublicService serves the unauthenticated read path.
type PublicService struct {
	db      *gorm.DB
	logger  *slog.Logger
	qr      *QRService
	baseURL string
}

func NewPublicService(db *gorm.DB, logger *slog.Logger, qr *QRService, baseURL string) *PublicService {
	return &PublicService{
		db:      db,
		logger:  logger,
		qr:      qr,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *PublicService) findUser(ctx context.Context, username string) (models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *PublicService) GetPage(ctx context.Context, username string) (PublicPage, error) {
	user, err := s.findUser(ctx, username)
	if err != nil {
		return PublicPage{}, err
	}

	links := []models.Link{}
	err = s.db.WithContext(ctx).
		Where("user_id = ?", user.ID).
		Order("position ASC").Order("id ASC").
		Find(&links).Error
	if err != nil {
		return PublicPage{}, fmt.Errorf("list links: %w", err)
	}

	theme, err := activeTheme(s.db.WithContext(ctx), user.ID)
	if err != nil {
		return PublicPage{}, err
	}

	return PublicPage{User: user.Profile(), Links: links, Theme: theme}, nil
}

// PageURL is the address encoded into the QR code.
func (s *PublicService) PageURL(username string) string {
	return s.baseURL + "/" + url.PathEscape(username)
}

// QRCode renders the page URL in the user's active theme colors and returns
// the body with its content type.
func (s *PublicService) QRCode(ctx context.Context, username, format string, size int) ([]byte, string, error) {
	user, err := s.findUser(ctx, username)
	if err != nil {
		return nil, "", err
	}

	opts := QROptions{Content: s.PageURL(user.Username), Size: size, FgColor: "#000000", BgColor: "#ffffff"}
	theme, err := activeTheme(s.db.WithContext(ctx), user.ID)
	if err != nil {
		return nil, "", err
	}
	if theme != nil {
		opts.FgColor = theme.AccentColor
		opts.BgColor = theme.BackgroundColor
	}

	switch format {
	case QRFormatSVG:
		svg, err := s.qr.SVG(opts)
		if err != nil {
			return nil, "", fmt.Errorf("render svg: %w", err)
		}
		return []byte(svg), "image/svg+xml", nil
	case "", QRFormatPNG:
		png, err := s.qr.PNG(opts)
		if err != nil {
			return nil, "", fmt.Errorf("render png: %w", err)
		}
		return png, "image/png", nil
	}
	return nil, "", invalid("format must be png or svg")
}
