package todo

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestVisibleTodos_CarryOver(t *testing.T) {
	today := date(2024, time.May, 3)
	todos := []Todo{
		{ID: "old-open", Title: "write report", Completed: false, Date: date(2024, time.May, 1)},
		{ID: "old-done", Title: "send invoice", Completed: true, Date: date(2024, time.May, 1)},
		{ID: "today", Title: "standup", Completed: false, Date: today},
	}

	t.Run("today includes carried-over incomplete todos", func(t *testing.T) {
		visible := VisibleTodos(todos, today, today)
		ids := idsOf(visible)
		if len(ids) != 2 {
			t.Fatalf("expected 2 visible todos, got %d: %v", len(ids), ids)
		}
		if ids[0] != "old-open" || ids[1] != "today" {
			t.Errorf("expected [old-open today], got %v", ids)
		}
	})

	t.Run("completed todos never carry forward", func(t *testing.T) {
		for _, v := range VisibleTodos(todos, today, today) {
			if v.ID == "old-done" {
				t.Error("completed todo from a past day should not be visible today")
			}
		}
	})

	t.Run("past day shows only its own todos", func(t *testing.T) {
		visible := VisibleTodos(todos, date(2024, time.May, 1), today)
		ids := idsOf(visible)
		if len(ids) != 2 {
			t.Fatalf("expected 2 visible todos, got %d: %v", len(ids), ids)
		}
		// Both May 1 todos, completed or not, belong to their own day.
		if ids[0] != "old-open" || ids[1] != "old-done" {
			t.Errorf("expected [old-open old-done], got %v", ids)
		}
	})

	t.Run("future day shows only its own todos", func(t *testing.T) {
		visible := VisibleTodos(todos, date(2024, time.May, 10), today)
		if len(visible) != 0 {
			t.Errorf("expected no todos on an empty future day, got %v", idsOf(visible))
		}
	})
}

func TestVisibleTodos_NoCarryOverWhenSelectedIsNotToday(t *testing.T) {
	today := date(2024, time.May, 3)
	todos := []Todo{
		{ID: "may1-open", Completed: false, Date: date(2024, time.May, 1)},
		{ID: "may2-open", Completed: false, Date: date(2024, time.May, 2)},
	}

	// Viewing May 2 (a past day): May 1's open todo must not leak in.
	visible := VisibleTodos(todos, date(2024, time.May, 2), today)
	ids := idsOf(visible)
	if len(ids) != 1 || ids[0] != "may2-open" {
		t.Errorf("expected [may2-open], got %v", ids)
	}
}

func TestVisibleTodos_TimeOfDayIgnored(t *testing.T) {
	today := time.Date(2024, time.May, 3, 23, 59, 0, 0, time.UTC)
	todos := []Todo{
		{ID: "morning", Completed: false, Date: time.Date(2024, time.May, 3, 8, 0, 0, 0, time.UTC)},
		{ID: "yesterday-late", Completed: false, Date: time.Date(2024, time.May, 2, 23, 0, 0, 0, time.UTC)},
	}

	visible := VisibleTodos(todos, today, today)
	if len(visible) != 2 {
		t.Errorf("expected both todos visible regardless of time of day, got %v", idsOf(visible))
	}
}

func TestVisibleTodos_StableOrder(t *testing.T) {
	today := date(2024, time.May, 3)
	todos := []Todo{
		{ID: "c", Completed: false, Date: today},
		{ID: "a", Completed: false, Date: date(2024, time.May, 1)},
		{ID: "b", Completed: false, Date: today},
	}

	ids := idsOf(VisibleTodos(todos, today, today))
	if len(ids) != 3 || ids[0] != "c" || ids[1] != "a" || ids[2] != "b" {
		t.Errorf("expected input order preserved [c a b], got %v", ids)
	}
}

func TestDay(t *testing.T) {
	in := time.Date(2024, time.May, 3, 17, 45, 12, 999, time.UTC)
	got := Day(in)
	want := date(2024, time.May, 3)
	if !got.Equal(want) {
		t.Errorf("Day() = %v, want %v", got, want)
	}
}

func TestSameDay(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want bool
	}{
		{"same instant", date(2024, time.May, 3), date(2024, time.May, 3), true},
		{"same day different hours", time.Date(2024, time.May, 3, 1, 0, 0, 0, time.UTC), time.Date(2024, time.May, 3, 23, 0, 0, 0, time.UTC), true},
		{"adjacent days", date(2024, time.May, 3), date(2024, time.May, 4), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameDay(tt.a, tt.b); got != tt.want {
				t.Errorf("SameDay(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func idsOf(todos []Todo) []string {
	ids := make([]string, 0, len(todos))
	for _, t := range todos {
		ids = append(ids, t.ID)
	}
	return ids
}
