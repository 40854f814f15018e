package providers

import (
	"context"

	"binduty-service/internal/config"
	"binduty-service/internal/logging"
	"binduty-service/internal/models"
	"binduty-service/pkg/sms"
)

// SMS sends the SMS variant through Twilio.
type SMS struct {
	client *sms.Client
	policy sendPolicy
}

func NewSMS(cfg config.Config, logger *logging.Logger) *SMS {
	return &SMS{
		client: sms.New(cfg.SMS.AccountSID, cfg.SMS.AuthToken, cfg.SMS.FromNumber),
		policy: newSendPolicy(cfg, logger),
	}
}

func (s *SMS) Send(ctx context.Context, address string, msg models.Message) error {
	body := msg.SMSBody()
	return s.policy.do(ctx, func() error {
		return blocking(ctx, func() error { return s.client.Send(address, body) })
	})
}
