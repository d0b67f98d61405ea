package store

import (
	"testing"
	"time"

	"github.com/huhyoundo/premium-todolist/domain/todo"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStore_AddTodo(t *testing.T) {
	s := New(day(2024, time.May, 3))

	s.AddTodo(todo.Todo{ID: "a", Title: "first"})
	s.AddTodo(todo.Todo{ID: "b", Title: "second"})

	t.Run("newest first", func(t *testing.T) {
		todos := s.Todos()
		if len(todos) != 2 {
			t.Fatalf("expected 2 todos, got %d", len(todos))
		}
		if todos[0].ID != "b" || todos[1].ID != "a" {
			t.Errorf("expected head-insert order [b a], got [%s %s]", todos[0].ID, todos[1].ID)
		}
	})

	t.Run("duplicate ID is a no-op", func(t *testing.T) {
		s.AddTodo(todo.Todo{ID: "a", Title: "replayed create"})
		todos := s.Todos()
		if len(todos) != 2 {
			t.Fatalf("expected duplicate add to be ignored, got %d todos", len(todos))
		}
		if todos[1].Title != "first" {
			t.Errorf("duplicate add must not overwrite, got title %q", todos[1].Title)
		}
	})
}

func TestStore_ToggleTodo(t *testing.T) {
	s := New(day(2024, time.May, 3))
	s.AddTodo(todo.Todo{ID: "a"})

	t.Run("flips completed", func(t *testing.T) {
		s.ToggleTodo("a")
		if !s.Todos()[0].Completed {
			t.Error("expected todo to be completed after toggle")
		}
		s.ToggleTodo("a")
		if s.Todos()[0].Completed {
			t.Error("expected todo to be incomplete after second toggle")
		}
	})

	t.Run("unknown ID is a no-op", func(t *testing.T) {
		notified := false
		unsubscribe := s.Subscribe(func() { notified = true })
		defer unsubscribe()

		s.ToggleTodo("missing")
		if notified {
			t.Error("toggling an unknown ID must not notify subscribers")
		}
		if len(s.Todos()) != 1 {
			t.Errorf("expected collection unchanged, got %d todos", len(s.Todos()))
		}
	})
}

func TestStore_SetTodos(t *testing.T) {
	s := New(day(2024, time.May, 3))
	s.AddTodo(todo.Todo{ID: "stale"})

	t.Run("replaces wholesale", func(t *testing.T) {
		s.SetTodos([]todo.Todo{{ID: "x"}, {ID: "y"}})
		ids := idsOf(s.Todos())
		if len(ids) != 2 || ids[0] != "x" || ids[1] != "y" {
			t.Errorf("expected [x y], got %v", ids)
		}
	})

	t.Run("deduplicates by ID, last write wins", func(t *testing.T) {
		s.SetTodos([]todo.Todo{
			{ID: "x", Title: "old"},
			{ID: "y", Title: "kept"},
			{ID: "x", Title: "new"},
		})
		todos := s.Todos()
		if len(todos) != 2 {
			t.Fatalf("expected 2 unique todos, got %d", len(todos))
		}
		if todos[0].ID != "x" || todos[0].Title != "new" {
			t.Errorf("expected duplicate slot to hold the later value, got %+v", todos[0])
		}
	})

	t.Run("empty snapshot clears the store", func(t *testing.T) {
		s.SetTodos(nil)
		if len(s.Todos()) != 0 {
			t.Errorf("expected empty store, got %d todos", len(s.Todos()))
		}
	})
}

func TestStore_Subscribe(t *testing.T) {
	s := New(day(2024, time.May, 3))

	calls := 0
	unsubscribe := s.Subscribe(func() { calls++ })

	s.AddTodo(todo.Todo{ID: "a"})
	s.SetSelectedDate(day(2024, time.May, 4))
	if calls != 2 {
		t.Errorf("expected 2 notifications, got %d", calls)
	}

	unsubscribe()
	s.AddTodo(todo.Todo{ID: "b"})
	if calls != 2 {
		t.Errorf("expected no notifications after unsubscribe, got %d", calls)
	}
}

func TestStore_SubscriberCanReadStore(t *testing.T) {
	s := New(day(2024, time.May, 3))

	var seen int
	s.Subscribe(func() { seen = len(s.Todos()) })

	s.AddTodo(todo.Todo{ID: "a"})
	if seen != 1 {
		t.Errorf("subscriber should observe the mutation, saw %d todos", seen)
	}
}

func TestStore_SelectedDate(t *testing.T) {
	today := day(2024, time.May, 3)
	s := New(today)

	if !s.SelectedDate().Equal(today) {
		t.Errorf("expected initial selected date %v, got %v", today, s.SelectedDate())
	}

	next := day(2024, time.May, 10)
	s.SetSelectedDate(next)
	if !s.SelectedDate().Equal(next) {
		t.Errorf("expected selected date %v, got %v", next, s.SelectedDate())
	}
}

func TestStore_Visible(t *testing.T) {
	today := day(2024, time.May, 3)
	s := New(today)
	s.SetTodos([]todo.Todo{
		{ID: "carried", Completed: false, Date: day(2024, time.May, 1)},
		{ID: "done-past", Completed: true, Date: day(2024, time.May, 1)},
		{ID: "today", Completed: false, Date: today},
	})

	visible := s.Visible(today)
	ids := idsOf(visible)
	if len(ids) != 2 || ids[0] != "carried" || ids[1] != "today" {
		t.Errorf("expected [carried today], got %v", ids)
	}
}

func idsOf(todos []todo.Todo) []string {
	ids := make([]string, 0, len(todos))
	for _, t := range todos {
		ids = append(ids, t.ID)
	}
	return ids
}
