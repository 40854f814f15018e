package services

import (
	"context"
	"fmt"
	"strings"

	"binduty-service/internal/compose"
	"binduty-service/internal/models"
)

// AnnouncementPurpose labels announcement history entries.
const AnnouncementPurpose = "Announcement"

// SendAnnouncement sends subject and message to the residents in ids, in rotation order.
// Unknown ids are ignored; if none match nothing is sent.
func (s *Service) SendAnnouncement(ctx context.Context, actor, subject, message string, ids []string) (models.AnnouncementResult, error) {
	if strings.TrimSpace(subject) == "" || strings.TrimSpace(message) == "" || len(ids) == 0 {
		return models.AnnouncementResult{}, models.Validationf("Subject, message, and resident_ids are required.")
	}
	all, err := s.residents.List(ctx)
	if err != nil {
		return models.AnnouncementResult{}, err
	}
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var recipients []models.Resident
	for _, r := range all {
		if wanted[r.ID] {
			recipients = append(recipients, r)
		}
	}
	if len(recipients) == 0 {
		return models.AnnouncementResult{}, models.Validationf("No valid recipients found for the provided IDs.")
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return models.AnnouncementResult{}, err
	}

	result := models.AnnouncementResult{}
	for _, r := range recipients {
		msg, err := compose.Announcement(subject, message, r, settings)
		if err != nil {
			return models.AnnouncementResult{}, err
		}
		dispatch, err := s.dispatcher.Dispatch(ctx, r.Recipient(), msg, AnnouncementPurpose)
		if err != nil {
			s.logger.Errorf("Announcement for %s: %v", r.Name, err)
		}
		result.Results = append(result.Results, dispatch)
		result.Notified = append(result.Notified, r.Name)
	}

	s.log(ctx, actor, fmt.Sprintf("Announcement sent to %d resident(s): %s", len(recipients), strings.Join(result.Notified, ", ")))
	result.Message = fmt.Sprintf("Announcement sent successfully to %d resident(s).", len(recipients))
	s.wsManager.Broadcast(EventAnnouncementSent, result)
	return result, nil
}
