package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// HistoryEntry records one outbound message attempt.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Recipient string    `json:"recipient"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryType builds the "{purpose} ({Channel})" label.
func HistoryType(purpose string, ch Channel) string {
	return fmt.Sprintf("%s (%s)", purpose, ch.Label())
}

// AuditEntry is one audit log line. Entry holds the rendered form
// "[timestamp] (actor) description".
type AuditEntry struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Actor       string    `json:"actor"`
	Description string    `json:"description"`
	Entry       string    `json:"entry"`
}

// TimestampLayout is the ISO-8601 millisecond layout used for stored timestamps.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatAuditEntry renders the audit line for the given fields.
func FormatAuditEntry(ts time.Time, actor, description string) string {
	return fmt.Sprintf("[%s] (%s) %s", ts.UTC().Format(TimestampLayout), actor, description)
}

var auditLine = regexp.MustCompile(`^\[([^\]]+)\] \(([^)]*)\) (.*)$`)

// UnmarshalJSON also accepts the bare "[timestamp] (actor) description"
// strings older writers stored. Such entries get an id derived from their
// text so the id stays the same across reads until the log is rewritten.
func (e *AuditEntry) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var line string
		if err := json.Unmarshal(data, &line); err != nil {
			return err
		}
		*e = ParseAuditLine(line)
		return nil
	}
	type plain AuditEntry
	return json.Unmarshal(data, (*plain)(e))
}

// ParseAuditLine builds an entry from a rendered audit line. Lines that do
// not match the format keep only Entry and Description.
func ParseAuditLine(line string) AuditEntry {
	e := AuditEntry{
		ID:          uuid.NewSHA1(uuid.NameSpaceOID, []byte(line)).String(),
		Entry:       line,
		Description: line,
	}
	m := auditLine.FindStringSubmatch(line)
	if m == nil {
		return e
	}
	if ts, err := time.Parse(time.RFC3339Nano, m[1]); err == nil {
		e.Timestamp = ts.UTC()
	}
	e.Actor = m[2]
	e.Description = m[3]
	return e
}
