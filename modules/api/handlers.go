package api

import (
	"encoding/json"
	"log"
	"strconv"
	"strings"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"

	domainuser "github.com/huhyoundo/premium-todolist/domain/user"
	"github.com/huhyoundo/premium-todolist/modules/activity"
	"github.com/huhyoundo/premium-todolist/modules/auth"
	"github.com/huhyoundo/premium-todolist/modules/todo"
)

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	authContainer     mono.ServiceContainer
	activityContainer mono.ServiceContainer
	sessions          auth.SessionPort
	todos             todo.TodoPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authContainer, activityContainer mono.ServiceContainer, sessions auth.SessionPort, todos todo.TodoPort) *Handlers {
	return &Handlers{
		authContainer:     authContainer,
		activityContainer: activityContainer,
		sessions:          sessions,
		todos:             todos,
	}
}

// sessionClaims returns the claims stored by SessionMiddleware.
func sessionClaims(c *fiber.Ctx) (*domainuser.Claims, bool) {
	claims, ok := c.Locals(UserContextKey).(*domainuser.Claims)
	return claims, ok
}

// Register handles account registration.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	authReq := auth.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	}
	var resp auth.RegisterResponse
	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, "register",
		json.Marshal, json.Unmarshal, &authReq, &resp,
	); err != nil {
		return h.mapAuthError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(UserResponse{
		ID:        resp.ID,
		Email:     resp.Email,
		Name:      resp.Name,
		CreatedAt: resp.CreatedAt,
	})
}

// Login handles login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	authReq := auth.LoginRequest{Email: req.Email, Password: req.Password}
	var resp auth.LoginResponse
	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, "login",
		json.Marshal, json.Unmarshal, &authReq, &resp,
	); err != nil {
		return h.mapAuthError(c, err)
	}

	return c.JSON(TokenResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		TokenType:    resp.TokenType,
	})
}

// Refresh handles token refresh.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.RefreshToken == "" {
		return badRequest(c, "Refresh token is required")
	}

	authReq := auth.RefreshRequest{RefreshToken: req.RefreshToken}
	var resp auth.RefreshResponse
	if err := helper.CallRequestReplyService(
		c.UserContext(), h.authContainer, "refresh-session",
		json.Marshal, json.Unmarshal, &authReq, &resp,
	); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid or expired refresh token",
		})
	}

	return c.JSON(TokenResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		TokenType:    resp.TokenType,
	})
}

// Profile returns the authenticated user.
func (h *Handlers) Profile(c *fiber.Ctx) error {
	claims, ok := sessionClaims(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	user, err := h.sessions.GetUser(c.UserContext(), claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to retrieve user profile",
		})
	}

	return c.JSON(UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	})
}

// ListTodos returns the authenticated user's full collection.
func (h *Handlers) ListTodos(c *fiber.Ctx) error {
	claims, ok := sessionClaims(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	resp, err := h.todos.List(c.UserContext(), todo.ListTodosRequest{UserID: claims.UserID})
	if err != nil {
		return h.mapTodoError(c, err)
	}

	out := ListTodosResponse{
		Todos: make([]TodoResponse, 0, len(resp.Todos)),
		Total: resp.Total,
	}
	for _, t := range resp.Todos {
		out.Todos = append(out.Todos, toTodoResponse(t))
	}
	return c.JSON(out)
}

// CreateTodo persists a new todo owned by the session user.
func (h *Handlers) CreateTodo(c *fiber.Ctx) error {
	claims, ok := sessionClaims(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	var req CreateTodoRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.ID == "" {
		return badRequest(c, "Todo ID is required")
	}

	resp, err := h.todos.Create(c.UserContext(), todo.CreateTodoRequest{
		ID:     req.ID,
		Title:  req.Title,
		Date:   req.Date,
		UserID: claims.UserID,
	})
	if err != nil {
		return h.mapTodoError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTodoResponse(resp))
}

// ToggleTodo flips completion on the session user's todo.
func (h *Handlers) ToggleTodo(c *fiber.Ctx) error {
	claims, ok := sessionClaims(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	resp, err := h.todos.Toggle(c.UserContext(), todo.ToggleTodoRequest{
		ID:     c.Params("id"),
		UserID: claims.UserID,
	})
	if err != nil {
		return h.mapTodoError(c, err)
	}
	return c.JSON(toTodoResponse(resp))
}

// DeleteTodo removes the session user's todo.
func (h *Handlers) DeleteTodo(c *fiber.Ctx) error {
	claims, ok := sessionClaims(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	if err := h.todos.Delete(c.UserContext(), todo.DeleteTodoRequest{
		ID:     c.Params("id"),
		UserID: claims.UserID,
	}); err != nil {
		return h.mapTodoError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Activity returns the decorative activity grid for the session user.
func (h *Handlers) Activity(c *fiber.Ctx) error {
	claims, ok := sessionClaims(c)
	if !ok {
		return unauthorized(c, "User not authenticated")
	}

	weeks, _ := strconv.Atoi(c.Query("weeks", "0"))
	req := activity.SummaryRequest{UserID: claims.UserID, Weeks: weeks}
	var resp activity.SummaryResponse
	if err := helper.CallRequestReplyService(
		c.UserContext(), h.activityContainer, "activity-summary",
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
	return c.JSON(resp)
}

func toTodoResponse(t todo.TodoResponse) TodoResponse {
	return TodoResponse{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		Date:      t.Date,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "unauthorized",
		Message: message,
	})
}

// mapTodoError translates todo service errors crossing the container
// boundary. Error identity does not survive serialization, so known
// messages are matched, as elsewhere in this codebase.
func (h *Handlers) mapTodoError(c *fiber.Ctx, err error) error {
	errStr := err.Error()
	switch {
	case strings.Contains(errStr, "unauthorized"):
		// Deliberately covers both foreign ownership and missing IDs.
		return unauthorized(c, "Not allowed")
	case strings.Contains(errStr, "title must not be empty"):
		return badRequest(c, "Todo title must not be empty")
	default:
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}

func (h *Handlers) mapAuthError(c *fiber.Ctx, err error) error {
	errStr := err.Error()
	switch {
	case strings.Contains(errStr, "invalid email or password"):
		return unauthorized(c, "Invalid email or password")
	case strings.Contains(errStr, "already exists"):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: "User with this email already exists",
		})
	case strings.Contains(errStr, "invalid email format"):
		return badRequest(c, "Invalid email format")
	case strings.Contains(errStr, "password must be at least"):
		return badRequest(c, "Password must be at least 8 characters")
	case strings.Contains(errStr, "password must be at most"):
		return badRequest(c, "Password must be at most 72 characters")
	default:
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}
