package models

import "time"

// IssueStatusReported is the status of a freshly submitted issue.
const IssueStatusReported = "Reported"

// Issue is a maintenance problem reported by a resident.
type Issue struct {
	ID          string    `json:"id"`
	ReportedBy  string    `json:"reported_by"`
	FlatNumber  string    `json:"flat_number"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
}

// IssueCreate is the public submission payload.
type IssueCreate struct {
	Name        string `json:"name" binding:"required"`
	FlatNumber  string `json:"flat_number" binding:"required"`
	Description string `json:"description" binding:"required"`
}
