// Package client implements the optimistic todo client: every user
// action mutates the local store first for immediate feedback, then a
// server sync action is fired without awaiting the result. Server
// rejections are logged and discarded; the store heals on the next
// full resync.
package client

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/huhyoundo/premium-todolist/client/store"
	"github.com/huhyoundo/premium-todolist/domain/todo"
)

// ErrEmptyTitle rejects a creation whose title is empty or whitespace
// only. Raised before any store mutation or server call.
var ErrEmptyTitle = errors.New("todo title must not be empty")

// TodoAPI is the server surface the client syncs against.
type TodoAPI interface {
	CreateTodo(ctx context.Context, t todo.Todo) error
	ToggleTodo(ctx context.Context, id string) error
	DeleteTodo(ctx context.Context, id string) error
	ListTodos(ctx context.Context) ([]todo.Todo, error)
}

// Client composes the local store with the server API.
type Client struct {
	store  *store.Store
	api    TodoAPI
	logger *slog.Logger
	now    func() time.Time
	wg     sync.WaitGroup
}

// New creates a Client around the given store and API.
func New(s *store.Store, api TodoAPI, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		store:  s,
		api:    api,
		logger: logger,
		now:    time.Now,
	}
}

// Store exposes the underlying state container for rendering.
func (c *Client) Store() *store.Store {
	return c.store
}

// SelectDate moves the calendar focus.
func (c *Client) SelectDate(date time.Time) {
	c.store.SetSelectedDate(date)
}

// Visible returns the todos to render for the selected date.
func (c *Client) Visible() []todo.Todo {
	return c.store.Visible(c.now())
}

// Add creates a todo on the selected date. The ID is generated here,
// the store is updated immediately, and the server create is fired in
// the background.
func (c *Client) Add(title string) (todo.Todo, error) {
	if strings.TrimSpace(title) == "" {
		return todo.Todo{}, ErrEmptyTitle
	}

	t := todo.Todo{
		ID:        uuid.New().String(),
		Title:     title,
		Completed: false,
		Date:      c.store.SelectedDate(),
	}
	c.store.AddTodo(t)

	c.dispatch("create", t.ID, func(ctx context.Context) error {
		return c.api.CreateTodo(ctx, t)
	})
	return t, nil
}

// Toggle flips a todo's completed flag locally and fires the server
// toggle. Rapid repeated toggles race server-side with no ordering
// guarantee; the local state stays as the user left it.
func (c *Client) Toggle(id string) {
	c.store.ToggleTodo(id)

	c.dispatch("toggle", id, func(ctx context.Context) error {
		return c.api.ToggleTodo(ctx, id)
	})
}

// Delete removes a todo locally and fires the server delete. The local
// removal is expressed as a filtered wholesale replace.
func (c *Client) Delete(id string) {
	current := c.store.Todos()
	remaining := make([]todo.Todo, 0, len(current))
	for _, t := range current {
		if t.ID != id {
			remaining = append(remaining, t)
		}
	}
	c.store.SetTodos(remaining)

	c.dispatch("delete", id, func(ctx context.Context) error {
		return c.api.DeleteTodo(ctx, id)
	})
}

// Resync replaces the store with the authoritative server snapshot.
// This is the only point where optimistic divergence is repaired.
func (c *Client) Resync(ctx context.Context) error {
	todos, err := c.api.ListTodos(ctx)
	if err != nil {
		return err
	}
	c.store.SetTodos(todos)
	return nil
}

// Wait blocks until all in-flight sync actions have finished. Intended
// for shutdown and tests; it implies nothing about server ordering.
func (c *Client) Wait() {
	c.wg.Wait()
}

// dispatch runs a sync action in the background. Failures are logged
// and the optimistic local state is left untouched.
func (c *Client) dispatch(action, id string, fn func(ctx context.Context) error) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := fn(context.Background()); err != nil {
			c.logger.Error("todo sync action failed",
				"action", action, "todo_id", id, "error", err)
		}
	}()
}
