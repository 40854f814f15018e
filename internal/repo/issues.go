package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"binduty-service/internal/models"
	"binduty-service/internal/store"
)

// Issues is the newest-first list of reported maintenance issues.
type Issues struct {
	store store.Store
	now   func() time.Time
}

func NewIssues(s store.Store, now func() time.Time) *Issues {
	if now == nil {
		now = time.Now
	}
	return &Issues{store: s, now: now}
}

// List returns all issues, newest first.
func (r *Issues) List(ctx context.Context) ([]models.Issue, error) {
	var issues []models.Issue
	if _, err := store.GetJSON(ctx, r.store, store.KeyIssues, &issues); err != nil {
		return nil, fmt.Errorf("failed to load issues: %w", err)
	}
	if issues == nil {
		issues = []models.Issue{}
	}
	return issues, nil
}

// Create stores a new issue with status Reported.
func (r *Issues) Create(ctx context.Context, in models.IssueCreate) (models.Issue, error) {
	if strings.TrimSpace(in.Description) == "" {
		return models.Issue{}, models.Validationf("description is required")
	}
	issue := models.Issue{
		ID:          uuid.New().String(),
		ReportedBy:  strings.TrimSpace(in.Name),
		FlatNumber:  strings.TrimSpace(in.FlatNumber),
		Description: strings.TrimSpace(in.Description),
		Status:      models.IssueStatusReported,
		Timestamp:   r.now().UTC(),
	}
	err := store.UpdateJSON(ctx, r.store, store.KeyIssues, func(issues *[]models.Issue) error {
		*issues = append([]models.Issue{issue}, *issues...)
		return nil
	})
	if err != nil {
		return models.Issue{}, fmt.Errorf("failed to create issue: %w", err)
	}
	return issue, nil
}

// UpdateStatus sets the status of issue id.
func (r *Issues) UpdateStatus(ctx context.Context, id, status string) (models.Issue, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return models.Issue{}, models.Validationf("Status is required")
	}
	var updated models.Issue
	err := store.UpdateJSON(ctx, r.store, store.KeyIssues, func(issues *[]models.Issue) error {
		for i := range *issues {
			if (*issues)[i].ID == id {
				(*issues)[i].Status = status
				updated = (*issues)[i]
				return nil
			}
		}
		return fmt.Errorf("Issue %s not found: %w", id, models.ErrNotFound)
	})
	if err != nil {
		return models.Issue{}, err
	}
	return updated, nil
}

// Delete removes the issues in ids. It fails with ErrNotFound when none matched.
func (r *Issues) Delete(ctx context.Context, ids []string) (int, error) {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	removed := 0
	err := store.UpdateJSON(ctx, r.store, store.KeyIssues, func(issues *[]models.Issue) error {
		removed = 0
		kept := make([]models.Issue, 0, len(*issues))
		for _, is := range *issues {
			if _, hit := set[is.ID]; hit {
				removed++
				continue
			}
			kept = append(kept, is)
		}
		if removed == 0 {
			return fmt.Errorf("No matching issues found to delete: %w", models.ErrNotFound)
		}
		*issues = kept
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
