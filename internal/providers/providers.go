// Package providers adapts the pkg transport clients to channel senders
// with rate limiting and bounded retry.
package providers

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"binduty-service/internal/config"
	"binduty-service/internal/logging"
	"binduty-service/internal/models"
	"binduty-service/internal/utils"
)

// ReminderPurpose selects the reminder WhatsApp campaign. Every other
// purpose uses the announcement campaign.
const ReminderPurpose = "Reminder"

// Sender delivers a composed message to one address on one channel.
type Sender interface {
	Send(ctx context.Context, address string, msg models.Message) error
}

// sendPolicy is shared by every provider.
type sendPolicy struct {
	limiter *rate.Limiter
	logger  *logging.Logger
	retries int
	delay   time.Duration
}

func newSendPolicy(cfg config.Config, logger *logging.Logger) sendPolicy {
	perSecond := cfg.RateLimit.SendPerSecond
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	return sendPolicy{
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
		retries: cfg.Notification.SendRetries,
		delay:   cfg.Notification.RetryDelay,
	}
}

func (p sendPolicy) do(ctx context.Context, fn func() error) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return utils.Retry(ctx, p.logger, p.retries, p.delay, fn)
}

// blocking runs fn, which cannot take a context, and gives up when ctx is done.
func blocking(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	go func() { done <- fn() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Set bundles the channel senders built from configuration.
type Set struct {
	WhatsApp *WhatsApp
	SMS      *SMS
	Email    *Email
	Telegram *Telegram
}

// New builds all providers. Providers without credentials are still
// returned; their sends fail with a configuration error.
func New(cfg config.Config, logger *logging.Logger) Set {
	return Set{
		WhatsApp: NewWhatsApp(cfg, logger),
		SMS:      NewSMS(cfg, logger),
		Email:    NewEmail(cfg, logger),
		Telegram: NewTelegram(cfg, logger),
	}
}

// ByChannel returns the resident channel senders keyed by channel.
func (s Set) ByChannel() map[models.Channel]Sender {
	return map[models.Channel]Sender{
		models.ChannelWhatsApp: s.WhatsApp,
		models.ChannelSMS:      s.SMS,
		models.ChannelEmail:    s.Email,
	}
}
