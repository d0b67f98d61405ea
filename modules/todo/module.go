package todo

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/huhyoundo/premium-todolist/domain/todo"
	"github.com/huhyoundo/premium-todolist/events"
)

// Module provides the todo sync-action services.
type Module struct {
	db       *gorm.DB
	repo     *Repository
	service  *Service
	cache    SnapshotCache
	eventBus mono.EventBus
	dbPath   string
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.EventBusAwareModule   = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new todo module.
func NewModule() *Module {
	dbPath := os.Getenv("TODO_DB_PATH")
	if dbPath == "" {
		dbPath = "todolist.db"
	}
	return &Module{dbPath: dbPath}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "todo"
}

// SetEventBus receives the event bus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// SetCache installs the optional snapshot cache. The application wires
// it after startup; the module runs uncached until then.
func (m *Module) SetCache(c SnapshotCache) {
	m.cache = c
	if m.service != nil {
		m.service = NewService(m.repo, m.eventBus, c)
	}
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TodoCreatedV1.ToBase(),
		events.TodoToggledV1.ToBase(),
		events.TodoDeletedV1.ToBase(),
	}
}

// Start opens the database and wires the service.
func (m *Module) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db
	m.repo = NewRepository(db)

	if err := m.repo.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if m.eventBus == nil {
		log.Println("[todo] Warning: eventBus not set, view invalidation events will not be published")
	}
	m.service = NewService(m.repo, m.eventBus, m.cache)

	log.Printf("[todo] Module started (database: %s, cache: %v)", m.dbPath, m.cache != nil)
	return nil
}

// Stop closes the database.
func (m *Module) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[todo] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}
	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
			"cached":   m.cache != nil,
		},
	}
}

// RegisterServices registers request-reply services in the container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "create-todo", json.Unmarshal, json.Marshal, m.handleCreate,
	); err != nil {
		return fmt.Errorf("failed to register create-todo service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "toggle-todo", json.Unmarshal, json.Marshal, m.handleToggle,
	); err != nil {
		return fmt.Errorf("failed to register toggle-todo service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-todo", json.Unmarshal, json.Marshal, m.handleDelete,
	); err != nil {
		return fmt.Errorf("failed to register delete-todo service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-todos", json.Unmarshal, json.Marshal, m.handleList,
	); err != nil {
		return fmt.Errorf("failed to register list-todos service: %w", err)
	}

	log.Printf("[todo] Registered services: create-todo, toggle-todo, delete-todo, list-todos")
	return nil
}

func (m *Module) handleCreate(ctx context.Context, req CreateTodoRequest, _ *mono.Msg) (TodoResponse, error) {
	t, err := m.service.Create(ctx, req)
	if err != nil {
		return TodoResponse{}, err
	}
	return toTodoResponse(t), nil
}

func (m *Module) handleToggle(ctx context.Context, req ToggleTodoRequest, _ *mono.Msg) (TodoResponse, error) {
	t, err := m.service.Toggle(ctx, req)
	if err != nil {
		return TodoResponse{}, err
	}
	return toTodoResponse(t), nil
}

func (m *Module) handleDelete(ctx context.Context, req DeleteTodoRequest, _ *mono.Msg) (DeleteTodoResponse, error) {
	if err := m.service.Delete(ctx, req); err != nil {
		return DeleteTodoResponse{Deleted: false}, err
	}
	return DeleteTodoResponse{Deleted: true}, nil
}

func (m *Module) handleList(ctx context.Context, req ListTodosRequest, _ *mono.Msg) (ListTodosResponse, error) {
	todos, err := m.service.List(ctx, req)
	if err != nil {
		return ListTodosResponse{}, err
	}

	resp := ListTodosResponse{
		Todos: make([]TodoResponse, 0, len(todos)),
		Total: len(todos),
	}
	for i := range todos {
		resp.Todos = append(resp.Todos, toTodoResponse(&todos[i]))
	}
	return resp, nil
}

func toTodoResponse(t *domain.Todo) TodoResponse {
	return TodoResponse{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		Date:      t.Date,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
