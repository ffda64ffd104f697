package mail

import (
	"fmt"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"stageflow/config"
)

// Mailer sends transactional mail over SMTP.
// Delivery is best effort: callers log failures but do not fail the
// surrounding operation on a send error.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

// NewMailer creates a Mailer from SMTP config.
func NewMailer(cfg *config.MailConfig, logger *zap.Logger) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

// SendResetCode delivers a password-reset code to the address.
func (m *Mailer) SendResetCode(email, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "StageFlow password reset code")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Your password reset code is: %s\n\nThe code expires shortly. If you did not request a reset, ignore this message.\n", code))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending reset code mail: %w", err)
	}
	return nil
}
