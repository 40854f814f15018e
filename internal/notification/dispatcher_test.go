package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"binduty-service/internal/logging"
	"binduty-service/internal/models"
	"binduty-service/internal/providers"
	"binduty-service/internal/repo"
	"binduty-service/internal/store"
)

type fakeSender struct {
	mu    sync.Mutex
	fail  bool
	block bool
	sent  []models.Message
}

func (f *fakeSender) Send(ctx context.Context, address string, msg models.Message) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	f.mu.Lock()
	f.sent = append(f.sent, msg)
	f.mu.Unlock()
	if f.fail {
		return errors.New("provider down")
	}
	return nil
}

type memArchive struct {
	mu         sync.Mutex
	deliveries []models.Delivery
}

func (m *memArchive) RecordDelivery(_ context.Context, d models.Delivery) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliveries = append(m.deliveries, d)
	return nil
}

func newHistory(t *testing.T) *repo.History {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return repo.NewHistory(&store.Redis{Client: client}, nil)
}

func senders(wa, sms, email *fakeSender) map[models.Channel]providers.Sender {
	return map[models.Channel]providers.Sender{
		models.ChannelWhatsApp: wa,
		models.ChannelSMS:      sms,
		models.ChannelEmail:    email,
	}
}

var msg = models.Message{Subject: "Bin Duty Reminder", Text: "text", HTML: "<p>html</p>", Summary: "Subject: Bin Duty Reminder\nBody: t"}

func TestEmailOnlyRecipient(t *testing.T) {
	h := newHistory(t)
	email := &fakeSender{}
	d := New(senders(&fakeSender{}, &fakeSender{}, email), h, nil, logging.Discard(), time.Second)

	r := models.Recipient{Name: "Jane", Contact: models.Contact{Email: "jane@example.com"}}
	res, err := d.Dispatch(context.Background(), r, msg, "Reminder")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if res.Status() != models.DispatchAllSent || len(res.Attempts) != 1 {
		t.Fatalf("result = %+v", res)
	}
	entries, _ := h.List(context.Background())
	if len(entries) != 1 || entries[0].Type != "Reminder (Email)" {
		t.Fatalf("history = %+v", entries)
	}
	if entries[0].Content != msg.Summary {
		t.Fatalf("content = %q", entries[0].Content)
	}
	if email.sent[0].Purpose != "Reminder" {
		t.Fatalf("purpose not propagated: %+v", email.sent[0])
	}
}

func TestAllChannelsRecordedDespiteFailures(t *testing.T) {
	h := newHistory(t)
	archive := &memArchive{}
	d := New(senders(&fakeSender{fail: true}, &fakeSender{}, &fakeSender{fail: true}), h, archive, logging.Discard(), time.Second)

	r := models.Recipient{Name: "Jane", Contact: models.Contact{WhatsApp: "+1", SMS: "+2", Email: "j@x.y"}}
	res, err := d.Dispatch(context.Background(), r, msg, "Reminder")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if res.Status() != models.DispatchPartialFailure {
		t.Fatalf("status = %s", res.Status())
	}
	failed := res.FailedChannels()
	if len(failed) != 2 || failed[0] != models.ChannelWhatsApp || failed[1] != models.ChannelEmail {
		t.Fatalf("failed = %v", failed)
	}
	var sendErr *models.ChannelSendError
	if !errors.As(res.Attempts[0].Err(), &sendErr) || sendErr.Channel != models.ChannelWhatsApp {
		t.Fatalf("attempt error = %v", res.Attempts[0].Err())
	}

	entries, _ := h.List(context.Background())
	want := []string{"Reminder (Email)", "Reminder (SMS)", "Reminder (WhatsApp)"}
	if len(entries) != len(want) {
		t.Fatalf("history len = %d, want %d", len(entries), len(want))
	}
	for i, w := range want {
		if entries[i].Type != w {
			t.Fatalf("entry %d = %s, want %s", i, entries[i].Type, w)
		}
	}
	if len(archive.deliveries) != 3 {
		t.Fatalf("archived %d deliveries, want 3", len(archive.deliveries))
	}
}

func TestNoChannels(t *testing.T) {
	h := newHistory(t)
	d := New(senders(&fakeSender{}, &fakeSender{}, &fakeSender{}), h, nil, logging.Discard(), time.Second)
	res, err := d.Dispatch(context.Background(), models.Recipient{Name: "Ghost"}, msg, "Reminder")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if res.Status() != models.DispatchNoChannels {
		t.Fatalf("status = %s", res.Status())
	}
	entries, _ := h.List(context.Background())
	if len(entries) != 0 {
		t.Fatalf("history = %+v", entries)
	}
}

func TestSendTimeoutIsChannelFailure(t *testing.T) {
	h := newHistory(t)
	d := New(senders(&fakeSender{block: true}, &fakeSender{}, &fakeSender{}), h, nil, logging.Discard(), 20*time.Millisecond)
	r := models.Recipient{Name: "Jane", Contact: models.Contact{WhatsApp: "+1"}}
	res, err := d.Dispatch(context.Background(), r, msg, "Announcement")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if res.Status() != models.DispatchAllFailed {
		t.Fatalf("status = %s", res.Status())
	}
	if !errors.Is(res.Attempts[0].Err(), context.DeadlineExceeded) {
		t.Fatalf("err = %v", res.Attempts[0].Err())
	}
}

func TestMissingSenderFailsChannel(t *testing.T) {
	h := newHistory(t)
	d := New(map[models.Channel]providers.Sender{}, h, nil, logging.Discard(), 0)
	res, _ := d.DispatchTo(context.Background(), "Owner", []Target{{Channel: models.ChannelTelegram, Address: "42"}}, msg, "New Issue")
	if res.Status() != models.DispatchAllFailed {
		t.Fatalf("status = %s", res.Status())
	}
	entries, _ := h.List(context.Background())
	if len(entries) != 1 || entries[0].Type != "New Issue (Telegram)" {
		t.Fatalf("history = %+v", entries)
	}
}
