package todo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TodoPort defines the interface for todo operations. This is the port
// other modules use to reach the todo services.
type TodoPort interface {
	Create(ctx context.Context, req CreateTodoRequest) (TodoResponse, error)
	Toggle(ctx context.Context, req ToggleTodoRequest) (TodoResponse, error)
	Delete(ctx context.Context, req DeleteTodoRequest) error
	List(ctx context.Context, req ListTodosRequest) (ListTodosResponse, error)
}

// Adapter implements TodoPort using the service container.
type Adapter struct {
	container mono.ServiceContainer
}

// NewAdapter creates a new Adapter.
func NewAdapter(container mono.ServiceContainer) *Adapter {
	return &Adapter{container: container}
}

// Create invokes the create-todo service.
func (a *Adapter) Create(ctx context.Context, req CreateTodoRequest) (TodoResponse, error) {
	var resp TodoResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "create-todo",
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return TodoResponse{}, fmt.Errorf("create-todo request failed: %w", err)
	}
	return resp, nil
}

// Toggle invokes the toggle-todo service.
func (a *Adapter) Toggle(ctx context.Context, req ToggleTodoRequest) (TodoResponse, error) {
	var resp TodoResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "toggle-todo",
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return TodoResponse{}, fmt.Errorf("toggle-todo request failed: %w", err)
	}
	return resp, nil
}

// Delete invokes the delete-todo service.
func (a *Adapter) Delete(ctx context.Context, req DeleteTodoRequest) error {
	var resp DeleteTodoResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "delete-todo",
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return fmt.Errorf("delete-todo request failed: %w", err)
	}
	return nil
}

// List invokes the list-todos service.
func (a *Adapter) List(ctx context.Context, req ListTodosRequest) (ListTodosResponse, error) {
	var resp ListTodosResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "list-todos",
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return ListTodosResponse{}, fmt.Errorf("list-todos request failed: %w", err)
	}
	return resp, nil
}
