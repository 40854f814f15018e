package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"binduty-service/internal/models"
	"binduty-service/internal/store"
)

// History is the uncapped, newest-first record of outbound messages.
type History struct {
	store store.Store
	now   func() time.Time
}

func NewHistory(s store.Store, now func() time.Time) *History {
	if now == nil {
		now = time.Now
	}
	return &History{store: s, now: now}
}

// Append prepends one entry.
func (h *History) Append(ctx context.Context, entryType, recipient, content string) (models.HistoryEntry, error) {
	entry := h.NewEntry(entryType, recipient, content)
	if err := h.AppendBatch(ctx, []models.HistoryEntry{entry}); err != nil {
		return models.HistoryEntry{}, err
	}
	return entry, nil
}

// NewEntry builds an entry stamped with the current time without storing it.
func (h *History) NewEntry(entryType, recipient, content string) models.HistoryEntry {
	return models.HistoryEntry{
		ID:        uuid.New().String(),
		Type:      entryType,
		Recipient: recipient,
		Content:   content,
		Timestamp: h.now().UTC(),
	}
}

// AppendBatch stores entries given in chronological order in one write,
// leaving the last of them at the head of the list.
func (h *History) AppendBatch(ctx context.Context, batch []models.HistoryEntry) error {
	if len(batch) == 0 {
		return nil
	}
	err := store.UpdateJSON(ctx, h.store, store.KeyHistory, func(entries *[]models.HistoryEntry) error {
		next := make([]models.HistoryEntry, 0, len(*entries)+len(batch))
		for i := len(batch) - 1; i >= 0; i-- {
			next = append(next, batch[i])
		}
		*entries = append(next, *entries...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

// List returns all entries, newest first.
func (h *History) List(ctx context.Context) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	if _, err := store.GetJSON(ctx, h.store, store.KeyHistory, &entries); err != nil {
		return nil, fmt.Errorf("failed to load communication history: %w", err)
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	return entries, nil
}
