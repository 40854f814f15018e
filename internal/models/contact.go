package models

import "strings"

// Channel names a delivery channel a recipient can be reached on.
type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelSMS      Channel = "sms"
	ChannelEmail    Channel = "email"
	ChannelTelegram Channel = "telegram"
)

// Channels is the fixed dispatch order for resident contact channels.
var Channels = []Channel{ChannelWhatsApp, ChannelSMS, ChannelEmail}

// Label returns the display form used in communication history types.
func (c Channel) Label() string {
	switch c {
	case ChannelWhatsApp:
		return "WhatsApp"
	case ChannelSMS:
		return "SMS"
	case ChannelEmail:
		return "Email"
	case ChannelTelegram:
		return "Telegram"
	default:
		return string(c)
	}
}

// Contact holds the optional channel addresses of a resident or owner.
// Any subset may be empty.
type Contact struct {
	WhatsApp string `json:"whatsapp,omitempty" yaml:"whatsapp"`
	SMS      string `json:"sms,omitempty" yaml:"sms"`
	Email    string `json:"email,omitempty" yaml:"email"`
}

// Address returns the trimmed address configured for ch, or "".
func (c Contact) Address(ch Channel) string {
	switch ch {
	case ChannelWhatsApp:
		return strings.TrimSpace(c.WhatsApp)
	case ChannelSMS:
		return strings.TrimSpace(c.SMS)
	case ChannelEmail:
		return strings.TrimSpace(c.Email)
	default:
		return ""
	}
}

// IsEmpty reports whether no channel is configured.
func (c Contact) IsEmpty() bool {
	for _, ch := range Channels {
		if c.Address(ch) != "" {
			return false
		}
	}
	return true
}

// Recipient is anyone a message can be dispatched to.
type Recipient struct {
	Name    string
	Contact Contact
}
