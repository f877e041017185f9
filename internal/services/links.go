package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/kipko3ch/link-seav1/internal/models"
	"github.com/kipko3ch/link-seav1/pkg/utils"
)

type LinkInput struct {
	Title       string
	URL         string
	Type        string
	Description string
	Icon        string
}

// LinkUpdate holds the optional link fields. Nil fields are left as is.
type LinkUpdate struct {
	Title       *string
	URL         *string
	Description *string
	Type        *string
	Icon        *string
	Position    *int
}

type LinkService struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewLinkService(db *gorm.DB, logger *slog.Logger) *LinkService {
	return &LinkService{db: db, logger: logger}
}

func (s *LinkService) List(ctx context.Context, userID uint) ([]models.Link, error) {
	links := []models.Link{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return links, nil
}

// Create appends the link after the user's existing links.
func (s *LinkService) Create(ctx context.Context, userID uint, in LinkInput) (models.Link, error) {
	title := strings.TrimSpace(in.Title)
	url := utils.NormalizeURL(in.URL)
	linkType := strings.TrimSpace(in.Type)
	if title == "" || url == "" || linkType == "" {
		return models.Link{}, invalid("Title, URL, and type are required")
	}

	link := models.Link{
		UserID:      userID,
		Title:       title,
		URL:         url,
		Type:        linkType,
		Description: in.Description,
		Icon:        in.Icon,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Link{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return fmt.Errorf("count links: %w", err)
		}
		link.Position = int(count)
		if err := tx.Create(&link).Error; err != nil {
			return fmt.Errorf("create link: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Link{}, err
	}
	return link, nil
}

// Update reports ErrLinkNotFound both for missing links and for links owned
// by someone else.
func (s *LinkService) Update(ctx context.Context, userID, linkID uint, in LinkUpdate) (models.Link, error) {
	updates := map[string]interface{}{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return models.Link{}, invalid("Title cannot be empty")
		}
		updates["title"] = title
	}
	if in.URL != nil {
		url := utils.NormalizeURL(*in.URL)
		if url == "" {
			return models.Link{}, invalid("URL cannot be empty")
		}
		updates["url"] = url
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Type != nil {
		linkType := strings.TrimSpace(*in.Type)
		if linkType == "" {
			return models.Link{}, invalid("Type cannot be empty")
		}
		updates["type"] = linkType
	}
	if in.Icon != nil {
		updates["icon"] = *in.Icon
	}
	if in.Position != nil {
		updates["position"] = *in.Position
	}

	var link models.Link
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", linkID, userID).First(&link).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLinkNotFound
			}
			return fmt.Errorf("find link: %w", err)
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&link).Updates(updates).Error; err != nil {
			return fmt.Errorf("update link: %w", err)
		}
		return tx.First(&link, link.ID).Error
	})
	if err != nil {
		return models.Link{}, err
	}
	return link, nil
}

// Delete removes the link and its clicks. Nothing is removed unless the
// link belongs to userID.
func (s *LinkService) Delete(ctx context.Context, userID, linkID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("link_id = ?", linkID).Delete(&models.Click{}).Error; err != nil {
			return fmt.Errorf("delete clicks: %w", err)
		}
		res := tx.Where("id = ? AND user_id = ?", linkID, userID).Delete(&models.Link{})
		if res.Error != nil {
			return fmt.Errorf("delete link: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrLinkNotFound
		}
		return nil
	})
}
