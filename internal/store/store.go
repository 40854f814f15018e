// Package store provides whole-document access to the key-value store
// backing every collection. Read-modify-write goes through Update, which
// is an optimistic compare-and-swap on the key.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"binduty-service/internal/models"
)

// Keys used by the service.
const (
	KeyResidents        = "flats"
	KeySettings         = "settings"
	KeyRemindersPaused  = "reminders_paused"
	KeyLastReminderDate = "last_reminder_date"
	KeyLogs             = "logs"
	KeyHistory          = "communication_history"
	KeyIssues           = "issues"
	KeyAdmins           = "admins"
)

// ErrContention is returned when Update could not commit within its retry budget.
var ErrContention = errors.New("store: too much write contention")

// UpdateFunc receives the current raw value (found=false when absent)
// and returns the value to write.
type UpdateFunc func(raw []byte, found bool) ([]byte, error)

// Store is the document store contract.
type Store interface {
	Get(ctx context.Context, key string) (raw []byte, found bool, err error)
	Set(ctx context.Context, key string, raw []byte) error
	Update(ctx context.Context, key string, fn UpdateFunc) error
}

// GetJSON decodes the document at key into dest. A shape mismatch is a
// *models.ValidationError.
func GetJSON(ctx context.Context, s Store, key string, dest interface{}) (bool, error) {
	raw, found, err := s.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	if err := decode(key, raw, dest); err != nil {
		return true, err
	}
	return true, nil
}

// SetJSON encodes value and writes it to key.
func SetJSON(ctx context.Context, s Store, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

// UpdateJSON runs fn against the decoded document at key and writes the
// result back atomically. fn sees the zero value of T when key is absent.
func UpdateJSON[T any](ctx context.Context, s Store, key string, fn func(doc *T) error) error {
	return s.Update(ctx, key, func(raw []byte, found bool) ([]byte, error) {
		var doc T
		if found {
			if err := decode(key, raw, &doc); err != nil {
				return nil, err
			}
		}
		if err := fn(&doc); err != nil {
			return nil, err
		}
		out, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		return out, nil
	})
}

// decode accepts both a JSON document and a JSON string holding a
// document, which is how older writers double-encoded values.
func decode(key string, raw []byte, dest interface{}) error {
	if len(raw) > 0 && raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err == nil {
			if err := json.Unmarshal([]byte(inner), dest); err == nil {
				return nil
			}
		}
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return models.Validationf("stored %s has unexpected shape: %v", key, err)
	}
	return nil
}
