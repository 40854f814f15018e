package providers

import (
	"context"
	"fmt"

	"binduty-service/internal/config"
	"binduty-service/internal/logging"
	"binduty-service/internal/models"
	"binduty-service/pkg/email"
)

// Email sends the HTML variant through Resend, or SMTP when enabled.
type Email struct {
	resend *email.Resend
	smtp   struct {
		enabled  bool
		server   string
		port     int
		username string
		password string
		from     string
	}
	policy sendPolicy
}

func NewEmail(cfg config.Config, logger *logging.Logger) *Email {
	e := &Email{
		resend: &email.Resend{
			APIKey: cfg.Email.ResendAPIKey,
			From:   cfg.Email.FromEmail,
		},
		policy: newSendPolicy(cfg, logger),
	}
	e.smtp.enabled = cfg.Email.SMTPEnabled
	e.smtp.server = cfg.Email.SMTPServer
	e.smtp.port = cfg.Email.SMTPPort
	e.smtp.username = cfg.Email.Username
	e.smtp.password = cfg.Email.Password
	e.smtp.from = cfg.Email.FromEmail
	return e
}

func (e *Email) Send(ctx context.Context, address string, msg models.Message) error {
	return e.policy.do(ctx, func() error {
		if e.smtp.enabled {
			return e.sendSMTP(ctx, address, msg)
		}
		return e.resend.Send(ctx, address, msg.Subject, msg.HTML)
	})
}

func (e *Email) sendSMTP(ctx context.Context, address string, msg models.Message) error {
	if e.smtp.server == "" || e.smtp.port == 0 {
		return fmt.Errorf("missing Email configuration: SMTPServer or SMTPPort is empty")
	}
	return blocking(ctx, func() error {
		return email.Send(e.smtp.server, e.smtp.port, e.smtp.username, e.smtp.password,
			e.smtp.from, address, msg.Subject, msg.HTML)
	})
}
