package notify

import (
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	gomail "gopkg.in/mail.v2"

	"github.com/finscope/finscope/internal/config"
)

// EmailSender delivers digests via SMTP.
type EmailSender struct {
	cfg    config.EmailConfig
	logger arbor.ILogger
}

// NewEmailSender creates a sender with the given SMTP configuration.
func NewEmailSender(cfg config.EmailConfig, logger arbor.ILogger) *EmailSender {
	return &EmailSender{cfg: cfg, logger: logger}
}

// Send delivers a plain-text digest. A disabled configuration is a no-op.
func (s *EmailSender) Send(subject, body string) error {
	if !s.cfg.Enabled() {
		return nil
	}

	from := s.cfg.FromEmail
	if from == "" {
		from = s.cfg.SMTPUser
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", s.cfg.ToEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	dialer := gomail.NewDialer(s.cfg.SMTPServer, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPass)
	dialer.Timeout = 10 * time.Second

	if err := dialer.DialAndSend(m); err != nil {
		s.logger.Warn().Err(err).Str("subject", subject).Msg("Failed to send digest email")
		return fmt.Errorf("failed to send digest email: %w", err)
	}

	s.logger.Info().Str("subject", subject).Msg("Digest email sent")
	return nil
}
