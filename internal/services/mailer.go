package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/kipko3ch/link-seav1/internal/config"
)

// Mailer delivers password reset codes.
type Mailer interface {
	SendResetCode(ctx context.Context, to, code string, ttl time.Duration) error
}

var errMailNotConfigured = errors.New("email config missing")

// SMTPMailer sends mail through an SMTP relay with gomail.
type SMTPMailer struct {
	from   string
	dialer *gomail.Dialer
	logger *slog.Logger
	send   func(d *gomail.Dialer, m *gomail.Message) error
}

func NewSMTPMailer(cfg config.Config, logger *slog.Logger) *SMTPMailer {
	m := &SMTPMailer{
		from:   cfg.EmailFrom,
		logger: logger,
		send: func(d *gomail.Dialer, m *gomail.Message) error {
			return d.DialAndSend(m)
		},
	}
	if cfg.SMTPHost != "" && cfg.EmailUser != "" {
		m.dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPassword)
	}
	return m
}

func (m *SMTPMailer) SendResetCode(ctx context.Context, to, code string, ttl time.Duration) error {
	if m.dialer == nil || m.from == "" {
		return errMailNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Link Sea - Password Reset OTP")
	msg.SetBody("text/html", resetCodeBody(code, ttl))

	if err := m.send(m.dialer, msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	m.logger.Info("password reset email sent", slog.String("to", to))
	return nil
}

func resetCodeBody(code string, ttl time.Duration) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #3b82f6; text-align: center;">Password Reset Request</h1>
  <div style="background-color: #f3f4f6; padding: 20px; border-radius: 8px;">
    <p style="font-size: 16px;">Your OTP for password reset is:</p>
    <h2 style="color: #1d4ed8; text-align: center; font-size: 32px; letter-spacing: 4px;">
%s
    </h2>
    <p style="color: #4b5563; font-size: 14px;">This OTP will expire in %d minutes.</p>
    <p style="color: #4b5563; font-size: 14px;">If you didn't request this password reset, please ignore this email.</p>
  </div>
</div>`, code, int(ttl.Minutes()))
}
