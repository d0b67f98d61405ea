package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// TodoCreatedEvent is emitted after a todo is persisted.
type TodoCreatedEvent struct {
	TodoID    string    `json:"todo_id"`
	Title     string    `json:"title"`
	Date      time.Time `json:"date"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TodoCreatedV1 is the typed event definition for todo creation.
// Subject: events.todo.v1.todo-created
var TodoCreatedV1 = helper.EventDefinition[TodoCreatedEvent](
	"todo", "TodoCreated", "v1",
)

// TodoToggledEvent is emitted after a todo's completed flag is flipped.
type TodoToggledEvent struct {
	TodoID    string    `json:"todo_id"`
	Completed bool      `json:"completed"`
	UserID    string    `json:"user_id"`
	ToggledAt time.Time `json:"toggled_at"`
}

// TodoToggledV1 is the typed event definition for todo toggling.
// Subject: events.todo.v1.todo-toggled
var TodoToggledV1 = helper.EventDefinition[TodoToggledEvent](
	"todo", "TodoToggled", "v1",
)

// TodoDeletedEvent is emitted after a todo is removed.
type TodoDeletedEvent struct {
	TodoID    string    `json:"todo_id"`
	UserID    string    `json:"user_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// TodoDeletedV1 is the typed event definition for todo deletion.
// Subject: events.todo.v1.todo-deleted
var TodoDeletedV1 = helper.EventDefinition[TodoDeletedEvent](
	"todo", "TodoDeleted", "v1",
)
