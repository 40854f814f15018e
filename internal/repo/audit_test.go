package repo

import (
	"fmt"
	"testing"
	"time"

	"binduty-service/internal/store"
)

func TestAuditEntryFormat(t *testing.T) {
	ts := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	l := NewAuditLog(newStore(t), fixedClock(ts))
	e, err := l.Append(ctx, "admin@example.com", "Reminder Sent to Jane")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	want := "[2024-05-01T09:30:00.000Z] (admin@example.com) Reminder Sent to Jane"
	if e.Entry != want {
		t.Fatalf("entry = %q, want %q", e.Entry, want)
	}
}

func TestAuditLogCap(t *testing.T) {
	l := NewAuditLog(newStore(t), nil)
	for i := 0; i < 105; i++ {
		if _, err := l.Append(ctx, "sys", fmt.Sprintf("event-%d", i)); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	logs, err := l.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logs) != AuditLogCap {
		t.Fatalf("len = %d, want %d", len(logs), AuditLogCap)
	}
	if logs[0].Description != "event-104" {
		t.Fatalf("newest = %s, want event-104", logs[0].Description)
	}
	if logs[len(logs)-1].Description != "event-5" {
		t.Fatalf("oldest kept = %s, want event-5", logs[len(logs)-1].Description)
	}
}

func TestAuditDeleteByIDKeepsIdenticalText(t *testing.T) {
	ts := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	l := NewAuditLog(newStore(t), fixedClock(ts))
	a, _ := l.Append(ctx, "sys", "same")
	b, _ := l.Append(ctx, "sys", "same")
	if a.Entry != b.Entry {
		t.Fatalf("entries should render identically")
	}
	n, err := l.DeleteByID(ctx, []string{a.ID})
	if err != nil || n != 1 {
		t.Fatalf("delete by id: n=%d err=%v", n, err)
	}
	logs, _ := l.List(ctx)
	if len(logs) != 1 || logs[0].ID != b.ID {
		t.Fatalf("remaining = %+v", logs)
	}
}

func TestAuditDeleteByTextCoDeletes(t *testing.T) {
	ts := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	l := NewAuditLog(newStore(t), fixedClock(ts))
	a, _ := l.Append(ctx, "sys", "same")
	l.Append(ctx, "sys", "same")
	l.Append(ctx, "sys", "other")
	n, err := l.DeleteByText(ctx, []string{a.Entry})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n != 2 {
		t.Fatalf("removed = %d, want 2", n)
	}
	logs, _ := l.List(ctx)
	if len(logs) != 1 || logs[0].Description != "other" {
		t.Fatalf("remaining = %+v", logs)
	}
}

func TestAuditLogReadsLegacyStringEntries(t *testing.T) {
	st := newStore(t)
	legacy := `["[2024-06-01T07:00:00.000Z] (a@b.c) Reminder Sent to A","free-form line"]`
	if err := st.Set(ctx, store.KeyLogs, []byte(legacy)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	l := NewAuditLog(st, fixedClock(time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC)))

	logs, err := l.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("len = %d, want 2", len(logs))
	}
	first := logs[0]
	if first.Actor != "a@b.c" || first.Description != "Reminder Sent to A" {
		t.Fatalf("parsed = %+v", first)
	}
	if !first.Timestamp.Equal(time.Date(2024, 6, 1, 7, 0, 0, 0, time.UTC)) {
		t.Fatalf("timestamp = %v", first.Timestamp)
	}
	if first.ID == "" || logs[1].ID == "" || first.ID == logs[1].ID {
		t.Fatalf("ids = %q, %q", first.ID, logs[1].ID)
	}
	if logs[1].Entry != "free-form line" {
		t.Fatalf("unparsed entry = %+v", logs[1])
	}

	if _, err := l.Append(ctx, "admin@example.com", "Resident Added: B"); err != nil {
		t.Fatalf("append onto legacy log: %v", err)
	}
	logs, err = l.List(ctx)
	if err != nil {
		t.Fatalf("list after append: %v", err)
	}
	if len(logs) != 3 || logs[1].ID != first.ID {
		t.Fatalf("after append = %+v", logs)
	}

	n, err := l.DeleteByID(ctx, []string{first.ID})
	if err != nil || n != 1 {
		t.Fatalf("delete legacy by id: n=%d err=%v", n, err)
	}
}
