package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"binduty-service/internal/models"
	"binduty-service/internal/store"
)

// AuditLogCap is the number of entries kept.
const AuditLogCap = 100

// AuditLog is the capped, newest-first record of admin and system actions.
type AuditLog struct {
	store store.Store
	now   func() time.Time
}

func NewAuditLog(s store.Store, now func() time.Time) *AuditLog {
	if now == nil {
		now = time.Now
	}
	return &AuditLog{store: s, now: now}
}

// Append prepends an entry and drops everything past AuditLogCap.
func (l *AuditLog) Append(ctx context.Context, actor, description string) (models.AuditEntry, error) {
	ts := l.now().UTC()
	entry := models.AuditEntry{
		ID:          uuid.New().String(),
		Timestamp:   ts,
		Actor:       actor,
		Description: description,
		Entry:       models.FormatAuditEntry(ts, actor, description),
	}
	err := store.UpdateJSON(ctx, l.store, store.KeyLogs, func(logs *[]models.AuditEntry) error {
		next := make([]models.AuditEntry, 0, len(*logs)+1)
		next = append(next, entry)
		next = append(next, *logs...)
		if len(next) > AuditLogCap {
			next = next[:AuditLogCap]
		}
		*logs = next
		return nil
	})
	if err != nil {
		return models.AuditEntry{}, fmt.Errorf("failed to append audit entry: %w", err)
	}
	return entry, nil
}

// List returns all stored entries, newest first.
func (l *AuditLog) List(ctx context.Context) ([]models.AuditEntry, error) {
	var logs []models.AuditEntry
	if _, err := store.GetJSON(ctx, l.store, store.KeyLogs, &logs); err != nil {
		return nil, fmt.Errorf("failed to load audit log: %w", err)
	}
	if logs == nil {
		logs = []models.AuditEntry{}
	}
	return logs, nil
}

// DeleteByID removes entries whose id is in ids and returns how many went.
func (l *AuditLog) DeleteByID(ctx context.Context, ids []string) (int, error) {
	return l.deleteWhere(ctx, ids, func(e models.AuditEntry) string { return e.ID })
}

// DeleteByText removes entries whose rendered line matches one of texts.
// Distinct entries that render identically are removed together.
func (l *AuditLog) DeleteByText(ctx context.Context, texts []string) (int, error) {
	return l.deleteWhere(ctx, texts, func(e models.AuditEntry) string { return e.Entry })
}

func (l *AuditLog) deleteWhere(ctx context.Context, values []string, field func(models.AuditEntry) string) (int, error) {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	removed := 0
	err := store.UpdateJSON(ctx, l.store, store.KeyLogs, func(logs *[]models.AuditEntry) error {
		removed = 0
		kept := make([]models.AuditEntry, 0, len(*logs))
		for _, e := range *logs {
			if _, hit := set[field(e)]; hit {
				removed++
				continue
			}
			kept = append(kept, e)
		}
		*logs = kept
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete audit entries: %w", err)
	}
	return removed, nil
}
