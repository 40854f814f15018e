package repo

import (
	"testing"

	"binduty-service/internal/models"
)

func TestHistoryNewestFirst(t *testing.T) {
	h := NewHistory(newStore(t), nil)
	if _, err := h.Append(ctx, "Reminder (SMS)", "Jane", "first"); err != nil {
		t.Fatalf("append: %v", err)
	}
	batch := []models.HistoryEntry{
		h.NewEntry("Reminder (Email)", "Jane", "second"),
		h.NewEntry("Reminder (Email)", "Jane", "third"),
	}
	if err := h.AppendBatch(ctx, batch); err != nil {
		t.Fatalf("batch: %v", err)
	}
	got, err := h.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"third", "second", "first"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Content != w {
			t.Fatalf("entry %d = %s, want %s", i, got[i].Content, w)
		}
	}
}
