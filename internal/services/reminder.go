package services

import (
	"context"
	"fmt"

	"binduty-service/internal/compose"
	"binduty-service/internal/config"
	"binduty-service/internal/models"
	"binduty-service/internal/providers"
)

const (
	pausedSkipEntry      = "Automatic reminder skipped because reminders are paused."
	alreadySentSkipEntry = "Automatic reminder skipped because a reminder was already sent today."
)

// TriggerReminder runs the reminder workflow once. Runs are serialized.
//
// Automatic triggers are skipped while reminders are paused and, when
// configured, after a reminder has already gone out today. Manual triggers
// always proceed. Channel failures do not stop the date update or the
// rotation advance.
func (s *Service) TriggerReminder(ctx context.Context, t models.Trigger) (models.ReminderResult, error) {
	s.reminderMu.Lock()
	defer s.reminderMu.Unlock()

	actor := t.Actor
	if t.Origin == models.OriginAutomatic || actor == "" {
		actor = models.ActorCron
	}

	if t.Origin == models.OriginAutomatic {
		if res, skipped, err := s.automaticSkip(ctx); err != nil || skipped {
			return res, err
		}
	}

	duty, err := s.residents.CurrentDuty(ctx)
	if err != nil {
		return models.ReminderResult{}, err
	}
	if duty.None() {
		return models.ReminderResult{}, models.ErrEmptyRotation
	}
	resident := *duty.Resident

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return models.ReminderResult{}, err
	}
	tmpl := firstNonEmpty(t.Template, settings.ReminderTemplate, s.config.Reminder.DefaultTemplate, config.DefaultReminderTemplate)
	msg, err := compose.Reminder(tmpl, resident, settings)
	if err != nil {
		return models.ReminderResult{}, err
	}

	dispatch, err := s.dispatcher.Dispatch(ctx, resident.Recipient(), msg, providers.ReminderPurpose)
	if err != nil {
		s.logger.Errorf("Reminder for %s: %v", resident.Name, err)
	}
	if failed := dispatch.FailedChannels(); len(failed) > 0 {
		s.logger.Warnf("Reminder for %s finished with %s (failed: %v)", resident.Name, dispatch.Status(), failed)
	}

	if err := s.settings.SetLastReminderDate(ctx, s.now()); err != nil {
		return models.ReminderResult{}, err
	}
	s.log(ctx, actor, "Reminder Sent to "+resident.Name)
	advanced, err := s.residents.AdvancePast(ctx, resident.ID)
	if err != nil {
		return models.ReminderResult{}, fmt.Errorf("reminder sent to %s but rotation not advanced: %w", resident.Name, err)
	}
	if !advanced {
		s.logger.Warnf("Rotation changed while reminding %s, order left as is", resident.Name)
	}

	result := models.ReminderResult{
		Outcome:  models.ReminderSent,
		Resident: resident.Name,
		Dispatch: &dispatch,
		Message:  fmt.Sprintf("Reminder sent to %s.", resident.Name),
	}
	s.wsManager.Broadcast(EventReminderSent, result)
	return result, nil
}

// automaticSkip decides whether an automatic trigger must be skipped and
// records the skip.
func (s *Service) automaticSkip(ctx context.Context) (models.ReminderResult, bool, error) {
	paused, err := s.settings.Paused(ctx)
	if err != nil {
		return models.ReminderResult{}, false, err
	}
	if paused {
		s.log(ctx, models.ActorSystem, pausedSkipEntry)
		res := models.ReminderResult{
			Outcome:    models.ReminderSkipped,
			SkipReason: models.SkipPaused,
			Message:    "Reminders are paused, automatic reminder skipped.",
		}
		s.wsManager.Broadcast(EventReminderSkipped, res)
		return res, true, nil
	}

	if !s.config.Reminder.DedupeAutomatic {
		return models.ReminderResult{}, false, nil
	}
	last, err := s.settings.LastReminderDate(ctx)
	if err != nil {
		return models.ReminderResult{}, false, err
	}
	if last != s.today() {
		return models.ReminderResult{}, false, nil
	}
	s.log(ctx, models.ActorSystem, alreadySentSkipEntry)
	res := models.ReminderResult{
		Outcome:    models.ReminderSkipped,
		SkipReason: models.SkipAlreadySent,
		Message:    "A reminder was already sent today, automatic reminder skipped.",
	}
	s.wsManager.Broadcast(EventReminderSkipped, res)
	return res, true, nil
}

// Dashboard reports who is on duty and the reminder run state.
func (s *Service) Dashboard(ctx context.Context) (models.Dashboard, error) {
	current, err := s.residents.CurrentDuty(ctx)
	if err != nil {
		return models.Dashboard{}, err
	}
	next, err := s.residents.NextInRotation(ctx)
	if err != nil {
		return models.Dashboard{}, err
	}
	last, err := s.settings.LastReminderDate(ctx)
	if err != nil {
		return models.Dashboard{}, err
	}
	if last == "" {
		last = models.NoneName
	}
	paused, err := s.settings.Paused(ctx)
	if err != nil {
		return models.Dashboard{}, err
	}
	return models.Dashboard{
		CurrentDuty:    current,
		NextInRotation: next,
		SystemStatus: models.SystemStatus{
			LastReminderRun: last,
			RemindersPaused: paused,
		},
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
