package repo

import (
	"context"
	"fmt"
	"time"

	"binduty-service/internal/models"
	"binduty-service/internal/store"
)

// DateLayout is the ISO date format of last_reminder_date.
const DateLayout = "2006-01-02"

// Settings stores the settings blob and the reminder run state.
type Settings struct {
	store store.Store
}

func NewSettings(s store.Store) *Settings {
	return &Settings{store: s}
}

// Get returns the stored settings, zero valued when unset.
func (r *Settings) Get(ctx context.Context) (models.Settings, error) {
	var s models.Settings
	if _, err := store.GetJSON(ctx, r.store, store.KeySettings, &s); err != nil {
		return models.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return s, nil
}

// View returns the settings together with the pause flag.
func (r *Settings) View(ctx context.Context) (models.SettingsView, error) {
	s, err := r.Get(ctx)
	if err != nil {
		return models.SettingsView{}, err
	}
	paused, err := r.Paused(ctx)
	if err != nil {
		return models.SettingsView{}, err
	}
	return models.SettingsView{Settings: s, RemindersPaused: paused}, nil
}

// Merge shallow-merges patch into the stored settings. The pause flag,
// when present, is written to its own key. It returns the merged view and
// the settings keys that were overwritten.
func (r *Settings) Merge(ctx context.Context, patch models.SettingsPatch) (models.SettingsView, []string, error) {
	if patch.RemindersPaused != nil {
		if err := r.SetPaused(ctx, *patch.RemindersPaused); err != nil {
			return models.SettingsView{}, nil, err
		}
	}
	var merged models.Settings
	var keys []string
	err := store.UpdateJSON(ctx, r.store, store.KeySettings, func(s *models.Settings) error {
		merged, keys = patch.Apply(*s)
		*s = merged
		return nil
	})
	if err != nil {
		return models.SettingsView{}, nil, fmt.Errorf("failed to merge settings: %w", err)
	}
	paused, err := r.Paused(ctx)
	if err != nil {
		return models.SettingsView{}, nil, err
	}
	return models.SettingsView{Settings: merged, RemindersPaused: paused}, keys, nil
}

// Replace overwrites the settings blob. Used for seeding.
func (r *Settings) Replace(ctx context.Context, s models.Settings) error {
	return store.SetJSON(ctx, r.store, store.KeySettings, s)
}

// Paused reports whether automatic reminders are paused.
func (r *Settings) Paused(ctx context.Context) (bool, error) {
	var paused bool
	if _, err := store.GetJSON(ctx, r.store, store.KeyRemindersPaused, &paused); err != nil {
		return false, fmt.Errorf("failed to load pause flag: %w", err)
	}
	return paused, nil
}

// SetPaused stores the pause flag.
func (r *Settings) SetPaused(ctx context.Context, paused bool) error {
	return store.SetJSON(ctx, r.store, store.KeyRemindersPaused, paused)
}

// LastReminderDate returns the ISO date of the last reminder, "" if never run.
func (r *Settings) LastReminderDate(ctx context.Context) (string, error) {
	var date string
	if _, err := store.GetJSON(ctx, r.store, store.KeyLastReminderDate, &date); err != nil {
		return "", fmt.Errorf("failed to load last reminder date: %w", err)
	}
	return date, nil
}

// SetLastReminderDate stores the UTC calendar date of t.
func (r *Settings) SetLastReminderDate(ctx context.Context, t time.Time) error {
	return store.SetJSON(ctx, r.store, store.KeyLastReminderDate, t.UTC().Format(DateLayout))
}
