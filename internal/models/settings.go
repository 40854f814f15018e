package models

// Settings is the process-wide configuration blob edited by superusers.
type Settings struct {
	OwnerName            string `json:"owner_name,omitempty" yaml:"owner_name"`
	OwnerContactNumber   string `json:"owner_contact_number,omitempty" yaml:"owner_contact_number"`
	OwnerContactWhatsApp string `json:"owner_contact_whatsapp,omitempty" yaml:"owner_contact_whatsapp"`
	OwnerContactEmail    string `json:"owner_contact_email,omitempty" yaml:"owner_contact_email"`
	OwnerTelegramChatID  int64  `json:"owner_telegram_chat_id,omitempty" yaml:"owner_telegram_chat_id"`
	ReminderTemplate     string `json:"reminder_template,omitempty" yaml:"reminder_template"`
	ReportIssueLink      string `json:"report_issue_link,omitempty" yaml:"report_issue_link"`
}

// Owner returns the owner as a dispatch recipient.
func (s Settings) Owner() Recipient {
	name := s.OwnerName
	if name == "" {
		name = "Owner"
	}
	return Recipient{
		Name: name,
		Contact: Contact{
			WhatsApp: s.OwnerContactWhatsApp,
			SMS:      s.OwnerContactNumber,
			Email:    s.OwnerContactEmail,
		},
	}
}

// SettingsPatch is a shallow merge request. Nil fields are left untouched.
type SettingsPatch struct {
	OwnerName            *string `json:"owner_name"`
	OwnerContactNumber   *string `json:"owner_contact_number"`
	OwnerContactWhatsApp *string `json:"owner_contact_whatsapp"`
	OwnerContactEmail    *string `json:"owner_contact_email"`
	OwnerTelegramChatID  *int64  `json:"owner_telegram_chat_id"`
	ReminderTemplate     *string `json:"reminder_template"`
	ReportIssueLink      *string `json:"report_issue_link"`
	RemindersPaused      *bool   `json:"reminders_paused"`
}

// Apply merges the patch into s and returns the merged settings together
// with the JSON keys that were overwritten. reminders_paused is not part
// of the blob and never appears in the returned keys.
func (p SettingsPatch) Apply(s Settings) (Settings, []string) {
	var keys []string
	setString := func(key string, src *string, dst *string) {
		if src != nil {
			*dst = *src
			keys = append(keys, key)
		}
	}
	setString("owner_name", p.OwnerName, &s.OwnerName)
	setString("owner_contact_number", p.OwnerContactNumber, &s.OwnerContactNumber)
	setString("owner_contact_whatsapp", p.OwnerContactWhatsApp, &s.OwnerContactWhatsApp)
	setString("owner_contact_email", p.OwnerContactEmail, &s.OwnerContactEmail)
	if p.OwnerTelegramChatID != nil {
		s.OwnerTelegramChatID = *p.OwnerTelegramChatID
		keys = append(keys, "owner_telegram_chat_id")
	}
	setString("reminder_template", p.ReminderTemplate, &s.ReminderTemplate)
	setString("report_issue_link", p.ReportIssueLink, &s.ReportIssueLink)
	return s, keys
}

// SettingsView is Settings plus the separately stored pause flag.
type SettingsView struct {
	Settings
	RemindersPaused bool `json:"reminders_paused"`
}
