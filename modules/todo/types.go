package todo

import (
	"time"
)

// UserID fields on these requests are filled in by the API layer from
// the validated session claims, never taken from client input.

// CreateTodoRequest represents a todo creation request.
type CreateTodoRequest struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Date   time.Time `json:"date"`
	UserID string    `json:"user_id"`
}

// ToggleTodoRequest represents a toggle-completed request.
type ToggleTodoRequest struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
}

// DeleteTodoRequest represents a todo deletion request.
type DeleteTodoRequest struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
}

// DeleteTodoResponse represents a todo deletion response.
type DeleteTodoResponse struct {
	Deleted bool `json:"deleted"`
}

// ListTodosRequest represents a request for a user's full todo list.
type ListTodosRequest struct {
	UserID string `json:"user_id"`
}

// TodoResponse represents a single todo in responses.
type TodoResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListTodosResponse represents a user's full todo list.
type ListTodosResponse struct {
	Todos []TodoResponse `json:"todos"`
	Total int            `json:"total"`
}
