package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kipko3ch/link-seav1/internal/models"
	"github.com/kipko3ch/link-seav1/pkg/utils"
)

const defaultOTPTTL = 10 * time.Minute

func checkPasswordLength(password string) error {
	if len(password) > utils.MaxPasswordBytes {
		return invalid(fmt.Sprintf("Password must be at most %d bytes", utils.MaxPasswordBytes))
	}
	return nil
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string               `json:"token"`
	User  models.PublicProfile `json:"user"`
}

// ProfileUpdate holds the optional profile fields. Nil fields are left as is.
type ProfileUpdate struct {
	Username *string
	Bio      *string
}

type AccountService struct {
	db     *gorm.DB
	logger *slog.Logger
	tokens *TokenService
	mailer Mailer
	otpTTL time.Duration
	now    func() time.Time
}

func NewAccountService(db *gorm.DB, logger *slog.Logger, tokens *TokenService, mailer Mailer, otpTTL time.Duration) *AccountService {
	if otpTTL <= 0 {
		otpTTL = defaultOTPTTL
	}
	return &AccountService{
		db:     db,
		logger: logger,
		tokens: tokens,
		mailer: mailer,
		otpTTL: otpTTL,
		now:    time.Now,
	}
}

func (s *AccountService) Register(ctx context.Context, username, email, password string) (AuthResult, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return AuthResult{}, invalid("Username, email and password are required")
	}
	if err := checkPasswordLength(password); err != nil {
		return AuthResult{}, err
	}

	var result AuthResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []models.User
		if err := tx.Where("username = ? OR email = ?", username, email).Find(&existing).Error; err != nil {
			return fmt.Errorf("lookup existing user: %w", err)
		}
		for _, u := range existing {
			if u.Username == username {
				return ErrUsernameTaken
			}
		}
		if len(existing) > 0 {
			return ErrEmailTaken
		}

		hash, err := utils.HashPassword(password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		user := models.User{Username: username, Email: email, PasswordHash: hash}
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		token, err := s.tokens.Issue(Identity{ID: user.ID, Username: user.Username})
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}
		result = AuthResult{Token: token, User: user.Profile()}
		return nil
	})
	if err != nil {
		return AuthResult{}, err
	}

	s.logger.Info("User registered", "user_id", result.User.ID)
	return result, nil
}

// Login reports ErrInvalidCredentials for both an unknown email and a wrong
// password.
func (s *AccountService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.TrimSpace(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("find user: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return AuthResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(Identity{ID: user.ID, Username: user.Username})
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}
	return AuthResult{Token: token, User: user.Profile()}, nil
}

// RequestPasswordReset stores a fresh code and mails it. When delivery fails
// the user is left with no pending code at all.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", strings.TrimSpace(email)).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("find user: %w", err)
		}

		code, err := utils.GenerateOTP()
		if err != nil {
			return fmt.Errorf("generate otp: %w", err)
		}
		expires := s.now().UTC().Add(s.otpTTL)

		err = tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
			"reset_otp":         code,
			"reset_otp_expires": expires,
		}).Error
		if err != nil {
			return fmt.Errorf("store otp: %w", err)
		}

		if err := s.mailer.SendResetCode(ctx, user.Email, code, s.otpTTL); err != nil {
			s.logger.Error("Failed to send reset code", "user_id", user.ID, "error", err)
			return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
		}
		return nil
	})
	if errors.Is(err, ErrDeliveryFailed) {
		s.clearResetCode(ctx, user.ID)
	}
	return err
}

func (s *AccountService) clearResetCode(ctx context.Context, userID uint) {
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"reset_otp":         nil,
		"reset_otp_expires": nil,
	}).Error
	if err != nil {
		s.logger.Error("Failed to clear reset code", "user_id", userID, "error", err)
	}
}

// ResetPassword consumes a reset code. Matching and clearing happen in one
// statement so a code can only be used once.
func (s *AccountService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if strings.TrimSpace(code) == "" || newPassword == "" {
		return ErrInvalidOrExpiredCode
	}
	if err := checkPasswordLength(newPassword); err != nil {
		return err
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? AND reset_otp = ? AND reset_otp_expires > ?", strings.TrimSpace(email), code, s.now().UTC()).
		Updates(map[string]interface{}{
			"password_hash":     hash,
			"reset_otp":         nil,
			"reset_otp_expires": nil,
		})
	if res.Error != nil {
		return fmt.Errorf("reset password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrInvalidOrExpiredCode
	}
	return nil
}

func (s *AccountService) GetProfile(ctx context.Context, userID uint) (models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, userID uint, in ProfileUpdate) (models.User, error) {
	updates := map[string]interface{}{}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return models.User{}, invalid("Username cannot be empty")
		}
		var taken int64
		err := s.db.WithContext(ctx).Model(&models.User{}).
			Where("username = ? AND id <> ?", username, userID).
			Count(&taken).Error
		if err != nil {
			return models.User{}, fmt.Errorf("check username: %w", err)
		}
		if taken > 0 {
			return models.User{}, ErrUsernameTaken
		}
		updates["username"] = username
	}
	if in.Bio != nil {
		updates["bio"] = *in.Bio
	}

	if len(updates) > 0 {
		res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(updates)
		if res.Error != nil {
			return models.User{}, fmt.Errorf("update profile: %w", res.Error)
		}
	}

	return s.GetProfile(ctx, userID)
}

func (s *AccountService) UpdatePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	if newPassword == "" {
		return invalid("New password is required")
	}
	if err := checkPasswordLength(newPassword); err != nil {
		return err
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return ErrWrongPassword
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	err = s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("password_hash", hash).Error
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
