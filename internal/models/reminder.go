package models

// Actors recorded in the audit log for unattended actions.
const (
	ActorCron   = "System (Cron)"
	ActorSystem = "System"
	ActorQueue  = "System (Queue)"
	ActorPublic = "Public"
)

// Origin tells manual admin triggers apart from scheduled ones.
type Origin string

const (
	OriginManual    Origin = "manual"
	OriginAutomatic Origin = "automatic"
)

// Trigger is a request to run the reminder workflow.
type Trigger struct {
	Origin Origin
	// Actor is the authenticated admin email for manual triggers.
	Actor string
	// Template overrides the configured reminder template when non-empty.
	Template string
}

// ReminderOutcome is the terminal state of a reminder run.
type ReminderOutcome string

const (
	ReminderSent    ReminderOutcome = "sent"
	ReminderSkipped ReminderOutcome = "skipped"
)

// Skip reasons.
const (
	SkipPaused      = "paused"
	SkipAlreadySent = "already_sent"
)

// ReminderResult describes a completed reminder run.
type ReminderResult struct {
	Outcome    ReminderOutcome `json:"outcome"`
	SkipReason string          `json:"skip_reason,omitempty"`
	Resident   string          `json:"resident,omitempty"`
	Dispatch   *DispatchResult `json:"dispatch,omitempty"`
	Message    string          `json:"message"`
}

// Dashboard is the overview shown to admins.
type Dashboard struct {
	CurrentDuty    DutySlot     `json:"current_duty"`
	NextInRotation DutySlot     `json:"next_in_rotation"`
	SystemStatus   SystemStatus `json:"system_status"`
}

// SystemStatus reports reminder run state.
type SystemStatus struct {
	LastReminderRun string `json:"last_reminder_run"`
	RemindersPaused bool   `json:"reminders_paused"`
}
