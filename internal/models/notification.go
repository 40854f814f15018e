package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Message is a composed notification ready for dispatch.
type Message struct {
	Subject string
	// Text goes to WhatsApp, and to SMS unless SMS is set.
	Text string
	SMS  string
	HTML string
	// Summary is recorded in communication history for email sends.
	Summary string
	// Purpose is the history label, set by the dispatcher.
	Purpose string
}

// SMSBody returns the SMS variant of the message.
func (m Message) SMSBody() string {
	if m.SMS != "" {
		return m.SMS
	}
	return m.Text
}

// ChannelAttempt records one send attempt on one channel.
type ChannelAttempt struct {
	Channel Channel `json:"channel"`
	Address string  `json:"address"`
	Error   string  `json:"error,omitempty"`
	err     error
}

// NewChannelAttempt builds an attempt, keeping err for errors.As.
func NewChannelAttempt(ch Channel, address string, err error) ChannelAttempt {
	a := ChannelAttempt{Channel: ch, Address: address}
	if err != nil {
		a.err = &ChannelSendError{Channel: ch, Address: address, Err: err}
		a.Error = err.Error()
	}
	return a
}

// Err returns the *ChannelSendError for a failed attempt, or nil.
func (a ChannelAttempt) Err() error { return a.err }

// OK reports whether the attempt succeeded.
func (a ChannelAttempt) OK() bool { return a.err == nil }

// DispatchStatus summarises a DispatchResult.
type DispatchStatus string

const (
	DispatchNoChannels     DispatchStatus = "no_channels"
	DispatchAllSent        DispatchStatus = "all_sent"
	DispatchPartialFailure DispatchStatus = "partial_failure"
	DispatchAllFailed      DispatchStatus = "all_failed"
)

// DispatchResult is the outcome of sending one message to one recipient.
type DispatchResult struct {
	Recipient string           `json:"recipient"`
	Attempts  []ChannelAttempt `json:"attempts"`
}

// Status derives the overall outcome from the attempts.
func (r DispatchResult) Status() DispatchStatus {
	if len(r.Attempts) == 0 {
		return DispatchNoChannels
	}
	failed := len(r.FailedChannels())
	switch {
	case failed == 0:
		return DispatchAllSent
	case failed == len(r.Attempts):
		return DispatchAllFailed
	default:
		return DispatchPartialFailure
	}
}

// FailedChannels lists channels whose send failed, in attempt order.
func (r DispatchResult) FailedChannels() []Channel {
	var out []Channel
	for _, a := range r.Attempts {
		if !a.OK() {
			out = append(out, a.Channel)
		}
	}
	return out
}

// MarshalJSON adds the derived status to the serialized result.
func (r DispatchResult) MarshalJSON() ([]byte, error) {
	type Alias DispatchResult
	return json.Marshal(&struct {
		Status DispatchStatus `json:"status"`
		*Alias
	}{
		Status: r.Status(),
		Alias:  (*Alias)(&r),
	})
}

// AnnouncementResult reports an announcement fan-out.
type AnnouncementResult struct {
	Message  string           `json:"message"`
	Results  []DispatchResult `json:"results"`
	Notified []string         `json:"notified"`
}

// Delivery is an archived channel attempt.
type Delivery struct {
	ID        [16]byte  `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Purpose   string    `json:"purpose"`
	Channel   Channel   `json:"channel"`
	Recipient string    `json:"recipient"`
	Address   string    `json:"address"`
	Subject   string    `json:"subject,omitempty"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
}

// DeliveryStatus maps a send error to the archived status string.
func DeliveryStatus(err error) string {
	if err != nil {
		return "failed"
	}
	return "sent"
}

func (d Delivery) String() string {
	return fmt.Sprintf("%s %s -> %s (%s)", d.Purpose, d.Channel.Label(), d.Recipient, d.Status)
}

// MarshalJSON returns the id as a UUID string.
func (d Delivery) MarshalJSON() ([]byte, error) {
	type Alias Delivery
	return json.Marshal(&struct {
		ID string `json:"id"`
		*Alias
	}{
		ID:    uuid.UUID(d.ID).String(),
		Alias: (*Alias)(&d),
	})
}
