package providers

import (
	"context"

	"binduty-service/internal/config"
	"binduty-service/internal/logging"
	"binduty-service/internal/models"
	"binduty-service/pkg/whatsapp"
)

// WhatsApp sends the text variant through an AiSensy campaign.
type WhatsApp struct {
	client               *whatsapp.Client
	reminderCampaign     string
	announcementCampaign string
	policy               sendPolicy
}

func NewWhatsApp(cfg config.Config, logger *logging.Logger) *WhatsApp {
	return &WhatsApp{
		client: &whatsapp.Client{
			APIKey: cfg.WhatsApp.APIKey,
			URL:    cfg.WhatsApp.BaseURL,
		},
		reminderCampaign:     cfg.WhatsApp.ReminderCampaign,
		announcementCampaign: cfg.WhatsApp.AnnouncementCampaign,
		policy:               newSendPolicy(cfg, logger),
	}
}

// Campaign returns the AiSensy campaign used for purpose.
func (w *WhatsApp) Campaign(purpose string) string {
	if purpose == ReminderPurpose {
		return w.reminderCampaign
	}
	return w.announcementCampaign
}

func (w *WhatsApp) Send(ctx context.Context, address string, msg models.Message) error {
	campaign := w.Campaign(msg.Purpose)
	return w.policy.do(ctx, func() error {
		return w.client.Send(ctx, campaign, address, msg.Text)
	})
}
