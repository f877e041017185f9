package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/kipko3ch/link-seav1/internal/models"
)

type ThemeInput struct {
	Name            string
	BackgroundColor string
	TextColor       string
	AccentColor     string
	CulturalTheme   string
	IsActive        bool
}

// ThemeUpdate holds the optional theme fields. Nil fields are left as is.
type ThemeUpdate struct {
	Name            *string
	BackgroundColor *string
	TextColor       *string
	AccentColor     *string
	CulturalTheme   *string
	IsActive        *bool
}

// ThemeService keeps at most one active theme per user. Every activation
// deactivates the user's other themes in the same transaction.
type ThemeService struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewThemeService(db *gorm.DB, logger *slog.Logger) *ThemeService {
	return &ThemeService{db: db, logger: logger}
}

func (s *ThemeService) List(ctx context.Context, userID uint) ([]models.Theme, error) {
	themes := []models.Theme{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&themes).Error; err != nil {
		return nil, fmt.Errorf("list themes: %w", err)
	}
	return themes, nil
}

func (s *ThemeService) Create(ctx context.Context, userID uint, in ThemeInput) (models.Theme, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Theme{}, invalid("Theme name is required")
	}

	theme := models.Theme{
		UserID:          userID,
		Name:            name,
		BackgroundColor: in.BackgroundColor,
		TextColor:       in.TextColor,
		AccentColor:     in.AccentColor,
		CulturalTheme:   in.CulturalTheme,
		IsActive:        in.IsActive,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if in.IsActive {
			if err := deactivateThemes(tx, userID); err != nil {
				return err
			}
		}
		if err := tx.Create(&theme).Error; err != nil {
			return fmt.Errorf("create theme: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Theme{}, err
	}
	return theme, nil
}

func (s *ThemeService) Update(ctx context.Context, userID, themeID uint, in ThemeUpdate) (models.Theme, error) {
	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return models.Theme{}, invalid("Theme name cannot be empty")
		}
		updates["name"] = name
	}
	if in.BackgroundColor != nil {
		updates["background_color"] = *in.BackgroundColor
	}
	if in.TextColor != nil {
		updates["text_color"] = *in.TextColor
	}
	if in.AccentColor != nil {
		updates["accent_color"] = *in.AccentColor
	}
	if in.CulturalTheme != nil {
		updates["cultural_theme"] = *in.CulturalTheme
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}

	var theme models.Theme
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findOwnedTheme(tx, userID, themeID, &theme); err != nil {
			return err
		}
		if in.IsActive != nil && *in.IsActive {
			if err := deactivateThemes(tx, userID); err != nil {
				return err
			}
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&models.Theme{}).Where("id = ?", theme.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("update theme: %w", err)
		}
		return tx.First(&theme, theme.ID).Error
	})
	if err != nil {
		return models.Theme{}, err
	}
	return theme, nil
}

// Delete does not promote another theme when the active one is removed.
func (s *ThemeService) Delete(ctx context.Context, userID, themeID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var theme models.Theme
		if err := findOwnedTheme(tx, userID, themeID, &theme); err != nil {
			return err
		}
		if err := tx.Delete(&models.Theme{}, theme.ID).Error; err != nil {
			return fmt.Errorf("delete theme: %w", err)
		}
		return nil
	})
}

func (s *ThemeService) GetActive(ctx context.Context, userID uint) (models.Theme, error) {
	theme, err := activeTheme(s.db.WithContext(ctx), userID)
	if err != nil {
		return models.Theme{}, err
	}
	if theme == nil {
		return models.Theme{}, ErrNoActiveTheme
	}
	return *theme, nil
}

// activeTheme returns nil without error when the user has no active theme.
func activeTheme(db *gorm.DB, userID uint) (*models.Theme, error) {
	var themes []models.Theme
	if err := db.Where("user_id = ? AND is_active = ?", userID, true).Order("id DESC").Limit(1).Find(&themes).Error; err != nil {
		return nil, fmt.Errorf("find active theme: %w", err)
	}
	if len(themes) == 0 {
		return nil, nil
	}
	return &themes[0], nil
}

func findOwnedTheme(tx *gorm.DB, userID, themeID uint, theme *models.Theme) error {
	if err := tx.Where("id = ? AND user_id = ?", themeID, userID).First(theme).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrThemeNotFound
		}
		return fmt.Errorf("find theme: %w", err)
	}
	return nil
}

func deactivateThemes(tx *gorm.DB, userID uint) error {
	err := tx.Model(&models.Theme{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Update("is_active", false).Error
	if err != nil {
		return fmt.Errorf("deactivate themes: %w", err)
	}
	return nil
}
