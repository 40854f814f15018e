package services

import (
	"context"
	"fmt"
	"strconv"

	"binduty-service/internal/compose"
	"binduty-service/internal/models"
	"binduty-service/internal/notification"
)

// IssuePurpose labels owner alert history entries.
const IssuePurpose = "New Issue"

// ListIssues returns all issues, newest first.
func (s *Service) ListIssues(ctx context.Context) ([]models.Issue, error) {
	return s.issues.List(ctx)
}

// ReportIssue stores a public issue report and alerts the owner on every
// configured channel. Alert failures do not fail the report.
func (s *Service) ReportIssue(ctx context.Context, in models.IssueCreate) (models.Issue, error) {
	issue, err := s.issues.Create(ctx, in)
	if err != nil {
		return models.Issue{}, err
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		s.logger.Errorf("Issue %s stored but settings unavailable, owner not alerted: %v", issue.ID, err)
	} else {
		s.alertOwner(ctx, issue, settings)
	}

	s.log(ctx, models.ActorPublic, fmt.Sprintf("Issue Reported by %s: %s...", issue.ReportedBy, compose.Truncate(issue.Description, 50)))
	s.wsManager.Broadcast(EventIssueReported, issue)
	return issue, nil
}

func (s *Service) alertOwner(ctx context.Context, issue models.Issue, settings models.Settings) {
	msg, err := compose.OwnerIssue(issue, settings)
	if err != nil {
		s.logger.Errorf("Compose owner alert for issue %s: %v", issue.ID, err)
		return
	}
	owner := settings.Owner()
	targets := notification.Targets(owner.Contact)
	if settings.OwnerTelegramChatID != 0 && s.dispatcher.Supports(models.ChannelTelegram) {
		targets = append(targets, notification.Target{
			Channel: models.ChannelTelegram,
			Address: strconv.FormatInt(settings.OwnerTelegramChatID, 10),
		})
	}
	if _, err := s.dispatcher.DispatchTo(ctx, owner.Name, targets, msg, IssuePurpose); err != nil {
		s.logger.Errorf("Owner alert for issue %s: %v", issue.ID, err)
	}
}

// UpdateIssueStatus sets the status of issue id.
func (s *Service) UpdateIssueStatus(ctx context.Context, actor, id, status string) (models.Issue, error) {
	issue, err := s.issues.UpdateStatus(ctx, id, status)
	if err != nil {
		return models.Issue{}, err
	}
	s.log(ctx, actor, fmt.Sprintf("Issue status for %s updated to '%s'", id, issue.Status))
	return issue, nil
}

// DeleteIssues removes the issues in ids and returns how many were removed.
func (s *Service) DeleteIssues(ctx context.Context, actor string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, models.Validationf("Issue IDs are required")
	}
	n, err := s.issues.Delete(ctx, ids)
	if err != nil {
		return 0, err
	}
	s.log(ctx, actor, fmt.Sprintf("Deleted %d issue(s)", n))
	return n, nil
}
