package providers

import (
	"context"
	"fmt"
	"strconv"

	"binduty-service/internal/config"
	"binduty-service/internal/logging"
	"binduty-service/internal/models"
	"binduty-service/pkg/telegram"
)

// Telegram alerts the owner's chat. The address is the numeric chat id.
type Telegram struct {
	client *telegram.Client
	err    error
	policy sendPolicy
}

func NewTelegram(cfg config.Config, logger *logging.Logger) *Telegram {
	t := &Telegram{policy: newSendPolicy(cfg, logger)}
	t.client, t.err = telegram.New(cfg.Telegram.BotToken)
	return t
}

// Enabled reports whether a bot token was configured.
func (t *Telegram) Enabled() bool { return t.client != nil }

func (t *Telegram) Send(ctx context.Context, address string, msg models.Message) error {
	if t.client == nil {
		return fmt.Errorf("telegram is not configured: %w", t.err)
	}
	chatID, err := strconv.ParseInt(address, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram chat_id %q: %w", address, err)
	}
	return t.policy.do(ctx, func() error {
		return t.client.Send(ctx, []int64{chatID}, msg.SMSBody())
	})
}
