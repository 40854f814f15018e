package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"binduty-service/internal/logging"
	"binduty-service/internal/models"
	"binduty-service/internal/providers"
	"binduty-service/internal/repo"
)

// Archive persists every channel attempt. It is optional.
type Archive interface {
	RecordDelivery(ctx context.Context, d models.Delivery) error
}

// Target is one address on one channel.
type Target struct {
	Channel models.Channel
	Address string
}

// Targets lists the configured channels of c in dispatch order.
func Targets(c models.Contact) []Target {
	var out []Target
	for _, ch := range models.Channels {
		if addr := c.Address(ch); addr != "" {
			out = append(out, Target{Channel: ch, Address: addr})
		}
	}
	return out
}

// Dispatcher fans a message out to a recipient's channels and records
// one history entry per attempt.
type Dispatcher struct {
	senders map[models.Channel]providers.Sender
	history *repo.History
	archive Archive
	logger  *logging.Logger
	timeout time.Duration
}

// New constructs a Dispatcher. archive may be nil; timeout <= 0 disables the per-send deadline.
func New(senders map[models.Channel]providers.Sender, history *repo.History, archive Archive, logger *logging.Logger, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		senders: senders,
		history: history,
		archive: archive,
		logger:  logger,
		timeout: timeout,
	}
}

// Supports reports whether a sender is registered for ch.
func (d *Dispatcher) Supports(ch models.Channel) bool {
	sender, ok := d.senders[ch]
	return ok && sender != nil
}

// Dispatch sends msg on every channel configured in the recipient's contact.
// Channel failures are reported in the result, never as the returned error;
// the error is only set when history could not be written.
func (d *Dispatcher) Dispatch(ctx context.Context, r models.Recipient, msg models.Message, purpose string) (models.DispatchResult, error) {
	return d.DispatchTo(ctx, r.Name, Targets(r.Contact), msg, purpose)
}

// DispatchTo sends msg to explicit targets. Sends run concurrently; attempts
// and history entries follow the order of targets.
func (d *Dispatcher) DispatchTo(ctx context.Context, recipient string, targets []Target, msg models.Message, purpose string) (models.DispatchResult, error) {
	msg.Purpose = purpose
	result := models.DispatchResult{Recipient: recipient, Attempts: make([]models.ChannelAttempt, len(targets))}
	if len(targets) == 0 {
		d.logger.Infof("%s for %s skipped: no contact channels", purpose, recipient)
		return result, nil
	}

	var wg sync.WaitGroup
	for i, t := range targets {
		wg.Add(1)
		go func(i int, t Target) {
			defer wg.Done()
			err := d.send(ctx, t, msg)
			result.Attempts[i] = models.NewChannelAttempt(t.Channel, t.Address, err)
		}(i, t)
	}
	wg.Wait()

	entries := make([]models.HistoryEntry, 0, len(targets))
	for _, a := range result.Attempts {
		if a.OK() {
			d.logger.Infof("%s sent to %s via %s", purpose, recipient, a.Channel.Label())
		} else {
			d.logger.WithField("channel", a.Channel).Warnf("%s to %s (%s) failed: %v", purpose, recipient, a.Address, a.Err())
		}
		entries = append(entries, d.history.NewEntry(models.HistoryType(purpose, a.Channel), recipient, historyContent(a.Channel, msg)))
		d.record(ctx, recipient, purpose, a, msg)
	}

	if err := d.history.AppendBatch(ctx, entries); err != nil {
		return result, fmt.Errorf("failed to record communication history: %w", err)
	}
	return result, nil
}

func (d *Dispatcher) send(ctx context.Context, t Target, msg models.Message) error {
	sender, ok := d.senders[t.Channel]
	if !ok || sender == nil {
		return fmt.Errorf("no sender configured for channel %s", t.Channel)
	}
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	return sender.Send(ctx, t.Address, msg)
}

func (d *Dispatcher) record(ctx context.Context, recipient, purpose string, a models.ChannelAttempt, msg models.Message) {
	if d.archive == nil {
		return
	}
	delivery := models.Delivery{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		Purpose:   purpose,
		Channel:   a.Channel,
		Recipient: recipient,
		Address:   a.Address,
		Subject:   msg.Subject,
		Body:      historyContent(a.Channel, msg),
		Status:    models.DeliveryStatus(a.Err()),
		Error:     a.Error,
	}
	if err := d.archive.RecordDelivery(ctx, delivery); err != nil {
		d.logger.Errorf("RecordDelivery failed for %s: %v", delivery, err)
	}
}

// historyContent is what the history shows for a send on ch.
func historyContent(ch models.Channel, msg models.Message) string {
	switch ch {
	case models.ChannelSMS, models.ChannelTelegram:
		return msg.SMSBody()
	case models.ChannelEmail:
		if msg.Summary != "" {
			return msg.Summary
		}
		return "Subject: " + msg.Subject
	default:
		return msg.Text
	}
}
