package sync

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	"github.com/huhyoundo/premium-todolist/events"
)

// Module consumes todo mutation events and fans them out as
// invalidation pushes over the hub.
type Module struct {
	hub    *Hub
	cancel context.CancelFunc
}

// Compile-time interface checks.
var (
	_ mono.Module              = (*Module)(nil)
	_ mono.EventConsumerModule = (*Module)(nil)
)

// NewModule creates a new sync module.
func NewModule() *Module {
	return &Module{
		hub: NewHub(slog.Default()),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "sync"
}

// GetHub returns the connection hub, for the API module to register
// websocket connections on.
func (m *Module) GetHub() *Hub {
	return m.hub
}

// RegisterEventConsumers subscribes to the todo mutation events.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TodoCreatedV1, m.handleCreated, m); err != nil {
		return fmt.Errorf("failed to register TodoCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TodoToggledV1, m.handleToggled, m); err != nil {
		return fmt.Errorf("failed to register TodoToggled consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TodoDeletedV1, m.handleDeleted, m); err != nil {
		return fmt.Errorf("failed to register TodoDeleted consumer: %w", err)
	}

	log.Printf("[sync] Registered event consumers: TodoCreated, TodoToggled, TodoDeleted")
	return nil
}

// Start launches the hub loop.
func (m *Module) Start(_ context.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	go m.hub.Run(ctx)

	log.Println("[sync] Module started")
	return nil
}

// Stop shuts the hub down and waits for it to drain.
func (m *Module) Stop(_ context.Context) error {
	if m.cancel != nil {
		m.cancel()
		m.hub.Wait()
	}
	log.Println("[sync] Module stopped")
	return nil
}

func (m *Module) handleCreated(_ context.Context, event events.TodoCreatedEvent, _ *mono.Msg) error {
	m.hub.Invalidate(event.UserID, "created", event.TodoID)
	return nil
}

func (m *Module) handleToggled(_ context.Context, event events.TodoToggledEvent, _ *mono.Msg) error {
	m.hub.Invalidate(event.UserID, "toggled", event.TodoID)
	return nil
}

func (m *Module) handleDeleted(_ context.Context, event events.TodoDeletedEvent, _ *mono.Msg) error {
	m.hub.Invalidate(event.UserID, "deleted", event.TodoID)
	return nil
}
