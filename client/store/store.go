// Package store holds the client-side todo state: the full todo list
// and the currently selected calendar date. It is the single source of
// truth for anything rendering todos; server sync happens elsewhere.
package store

import (
	"sync"
	"time"

	"github.com/huhyoundo/premium-todolist/domain/todo"
)

// Store is an in-memory state container with synchronous subscriber
// notification. It is built for a single writer (the UI event loop);
// the mutex only guards against accidental cross-goroutine reads.
type Store struct {
	mu           sync.Mutex
	todos        []todo.Todo
	selectedDate time.Time
	subscribers  map[int]func()
	nextSubID    int
}

// New creates a Store focused on the given day, normally time.Now().
func New(today time.Time) *Store {
	return &Store{
		todos:        make([]todo.Todo, 0),
		selectedDate: today,
		subscribers:  make(map[int]func()),
	}
}

// Subscribe registers fn to run synchronously after every mutation.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// SetSelectedDate replaces the selected date.
func (s *Store) SetSelectedDate(date time.Time) {
	s.mu.Lock()
	s.selectedDate = date
	s.mu.Unlock()
	s.notify()
}

// SelectedDate returns the date the calendar view is focused on.
func (s *Store) SelectedDate() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedDate
}

// AddTodo inserts t at the head of the collection. A todo whose ID is
// already present makes the call a no-op, so a double-submitted create
// cannot produce duplicates.
func (s *Store) AddTodo(t todo.Todo) {
	s.mu.Lock()
	for _, existing := range s.todos {
		if existing.ID == t.ID {
			s.mu.Unlock()
			return
		}
	}
	s.todos = append([]todo.Todo{t}, s.todos...)
	s.mu.Unlock()
	s.notify()
}

// ToggleTodo flips the completed flag of the todo with the given ID.
// Unknown IDs are a no-op. This mutates local state only.
func (s *Store) ToggleTodo(id string) {
	s.mu.Lock()
	found := false
	for i := range s.todos {
		if s.todos[i].ID == id {
			s.todos[i].Completed = !s.todos[i].Completed
			found = true
			break
		}
	}
	s.mu.Unlock()
	if found {
		s.notify()
	}
}

// SetTodos replaces the collection wholesale, deduplicating by ID with
// last-write-wins over the input order. Used to hydrate from the
// authoritative server snapshot.
func (s *Store) SetTodos(todos []todo.Todo) {
	unique := make([]todo.Todo, 0, len(todos))
	index := make(map[string]int, len(todos))
	for _, t := range todos {
		if i, ok := index[t.ID]; ok {
			unique[i] = t
			continue
		}
		index[t.ID] = len(unique)
		unique = append(unique, t)
	}

	s.mu.Lock()
	s.todos = unique
	s.mu.Unlock()
	s.notify()
}

// Todos returns a copy of the current collection, head-first.
func (s *Store) Todos() []todo.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]todo.Todo, len(s.todos))
	copy(out, s.todos)
	return out
}

// Visible returns the todos to display for the selected date, given
// the current day. See todo.VisibleTodos for the carry-over policy.
func (s *Store) Visible(today time.Time) []todo.Todo {
	s.mu.Lock()
	todos := make([]todo.Todo, len(s.todos))
	copy(todos, s.todos)
	selected := s.selectedDate
	s.mu.Unlock()

	return todo.VisibleTodos(todos, selected, today)
}

// notify runs outside the lock so subscribers may read the store.
func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
