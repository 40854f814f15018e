package models

import "time"

// Task kinds accepted from the trigger queue.
const (
	TaskReminder     = "reminder"
	TaskAnnouncement = "announcement"
)

// Task is a unit of work queued for the service worker pool.
type Task struct {
	RequestID   string    `json:"request_id"`
	Kind        string    `json:"kind"`
	Message     string    `json:"message,omitempty"`
	Subject     string    `json:"subject,omitempty"`
	ResidentIDs []string  `json:"resident_ids,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
