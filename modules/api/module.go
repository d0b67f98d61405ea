package api

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"

	"github.com/huhyoundo/premium-todolist/modules/auth"
	syncmod "github.com/huhyoundo/premium-todolist/modules/sync"
	"github.com/huhyoundo/premium-todolist/modules/todo"
)

// Module is the HTTP API module.
type Module struct {
	app               *fiber.App
	addr              string
	authContainer     mono.ServiceContainer
	todoContainer     mono.ServiceContainer
	activityContainer mono.ServiceContainer
	sessions          auth.SessionPort
	todos             todo.TodoPort
	hub               *syncmod.Hub
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.DependentModule       = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new API module.
func NewModule() *Module {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":3000"
	}
	return &Module{addr: addr}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *Module) Dependencies() []string {
	return []string{"auth", "todo", "activity"}
}

// SetDependencyServiceContainer receives service containers from
// dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authContainer = container
		m.sessions = auth.NewAdapter(container)
	case "todo":
		m.todoContainer = container
		m.todos = todo.NewAdapter(container)
	case "activity":
		m.activityContainer = container
	}
}

// SetSyncHub installs the invalidation hub the websocket endpoint
// registers connections on.
func (m *Module) SetSyncHub(hub *syncmod.Hub) {
	m.hub = hub
}

// Start initializes the Fiber HTTP server.
func (m *Module) Start(_ context.Context) error {
	if m.authContainer == nil || m.todoContainer == nil || m.activityContainer == nil {
		return fmt.Errorf("module dependencies not set")
	}

	m.app = fiber.New(fiber.Config{
		AppName:               "premium-todolist",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	m.app.Use(recover.New())
	m.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:5173"
	}
	m.app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))

	m.setupRoutes()

	go func() {
		if err := m.app.Listen(m.addr); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	log.Printf("[api] HTTP server started on %s", m.addr)
	return nil
}

// Stop shuts down the HTTP server.
func (m *Module) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	log.Println("[api] Shutting down HTTP server...")
	return m.app.Shutdown()
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"addr": m.addr,
		},
	}
}

// setupRoutes configures all API routes.
func (m *Module) setupRoutes() {
	handlers := NewHandlers(m.authContainer, m.activityContainer, m.sessions, m.todos)

	m.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"module": "api",
		})
	})

	v1 := m.app.Group("/api/v1")

	authRoutes := v1.Group("/auth")
	authRoutes.Post("/register", handlers.Register)
	authRoutes.Post("/login", handlers.Login)
	authRoutes.Post("/refresh", handlers.Refresh)

	protected := v1.Group("")
	protected.Use(SessionMiddleware(m.sessions))
	protected.Get("/profile", handlers.Profile)
	protected.Get("/todos", handlers.ListTodos)
	protected.Post("/todos", handlers.CreateTodo)
	protected.Post("/todos/:id/toggle", handlers.ToggleTodo)
	protected.Delete("/todos/:id", handlers.DeleteTodo)
	protected.Get("/activity", handlers.Activity)

	if m.hub != nil {
		m.app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		m.app.Get("/ws", websocket.New(m.handleSync))
	}
}

// handleSync authenticates a websocket connection and parks it on the
// invalidation hub until the peer goes away. Browsers cannot set
// headers on websocket requests, so the token travels as a query
// parameter.
func (m *Module) handleSync(c *websocket.Conn) {
	defer c.Close()

	token := c.Query("token")
	claims, err := m.sessions.CurrentSession(context.Background(), token)
	if err != nil {
		_ = c.WriteJSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid or expired token",
		})
		return
	}

	client := &syncmod.Client{
		ID:     uuid.New().String(),
		UserID: claims.UserID,
		Conn:   c,
	}
	m.hub.Register(client)
	defer m.hub.Unregister(client)

	// Inbound messages are ignored; the read loop only detects closure.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

// errorHandler handles Fiber errors.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
