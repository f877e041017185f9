package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/kipko3ch/link-seav1/internal/models"
)

const (
	ActionRegister             = "REGISTER"
	ActionLogin                = "LOGIN"
	ActionPasswordResetRequest = "PASSWORD_RESET_REQUEST"
	ActionPasswordReset        = "PASSWORD_RESET"
	ActionProfileUpdate        = "PROFILE_UPDATE"
	ActionPasswordChange       = "PASSWORD_CHANGE"
	ActionCreateLink           = "CREATE_LINK"
	ActionUpdateLink           = "UPDATE_LINK"
	ActionDeleteLink           = "DELETE_LINK"
	ActionCreateTheme          = "CREATE_THEME"
	ActionUpdateTheme          = "UPDATE_THEME"
	ActionDeleteTheme          = "DELETE_THEME"
)

const defaultAuditBuffer = 100

// AuditService writes audit entries off the request path. Entries are
// dropped when the buffer is full.
type AuditService struct {
	db      *gorm.DB
	logger  *slog.Logger
	entries chan models.AuditLog
}

func NewAuditService(db *gorm.DB, logger *slog.Logger, buffer int) *AuditService {
	if buffer <= 0 {
		buffer = defaultAuditBuffer
	}
	return &AuditService{
		db:      db,
		logger:  logger,
		entries: make(chan models.AuditLog, buffer),
	}
}

func (s *AuditService) Start(ctx context.Context) {
	s.logger.Info("Audit worker starting")
	for {
		select {
		case entry := <-s.entries:
			s.write(entry)
		case <-ctx.Done():
			s.drain()
			s.logger.Info("Audit worker stopping")
			return
		}
	}
}

func (s *AuditService) drain() {
	for {
		select {
		case entry := <-s.entries:
			s.write(entry)
		default:
			return
		}
	}
}

func (s *AuditService) write(entry models.AuditLog) {
	if err := s.db.Create(&entry).Error; err != nil {
		s.logger.Error("Failed to write audit log", "action", entry.Action, "error", err)
	}
}

func (s *AuditService) LogAction(userID *uint, action, entityID string, details interface{}, ip string) {
	var detailText string
	if details != nil {
		if b, err := json.Marshal(details); err == nil {
			detailText = string(b)
		}
	}

	entry := models.AuditLog{
		UserID:    userID,
		Action:    action,
		EntityID:  entityID,
		Details:   detailText,
		IPAddress: ip,
		Timestamp: time.Now(),
	}

	select {
	case s.entries <- entry:
	default:
		s.logger.Warn("Audit channel full, dropping log", "action", action)
	}
}
