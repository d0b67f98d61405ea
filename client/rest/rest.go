// Package rest implements the client transport against the HTTP API.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/huhyoundo/premium-todolist/domain/todo"
)

// API talks to a running premium-todolist server. It satisfies the
// client package's TodoAPI interface.
type API struct {
	baseURL     string
	accessToken string
}

func New(baseURL string) *API {
	return &API{baseURL: baseURL}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type todoResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type listTodosResponse struct {
	Todos []todoResponse `json:"todos"`
	Total int            `json:"total"`
}

type createTodoRequest struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
}

// Login exchanges credentials for tokens and keeps the access token
// for subsequent calls.
func (a *API) Login(ctx context.Context, email, password string) error {
	var resp tokenResponse
	err := a.do(ctx, fiber.MethodPost, "/api/v1/auth/login", loginRequest{
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return err
	}
	a.accessToken = resp.AccessToken
	return nil
}

// Register creates an account and logs in with it.
func (a *API) Register(ctx context.Context, email, password, name string) error {
	body := map[string]string{"email": email, "password": password, "name": name}
	if err := a.do(ctx, fiber.MethodPost, "/api/v1/auth/register", body, nil); err != nil {
		return err
	}
	return a.Login(ctx, email, password)
}

func (a *API) CreateTodo(ctx context.Context, t todo.Todo) error {
	return a.do(ctx, fiber.MethodPost, "/api/v1/todos", createTodoRequest{
		ID:    t.ID,
		Title: t.Title,
		Date:  t.Date,
	}, nil)
}

func (a *API) ToggleTodo(ctx context.Context, id string) error {
	return a.do(ctx, fiber.MethodPost, "/api/v1/todos/"+id+"/toggle", nil, nil)
}

func (a *API) DeleteTodo(ctx context.Context, id string) error {
	return a.do(ctx, fiber.MethodDelete, "/api/v1/todos/"+id, nil, nil)
}

func (a *API) ListTodos(ctx context.Context) ([]todo.Todo, error) {
	var resp listTodosResponse
	if err := a.do(ctx, fiber.MethodGet, "/api/v1/todos", nil, &resp); err != nil {
		return nil, err
	}
	todos := make([]todo.Todo, 0, len(resp.Todos))
	for _, t := range resp.Todos {
		todos = append(todos, todo.Todo{
			ID:        t.ID,
			Title:     t.Title,
			Completed: t.Completed,
			Date:      t.Date,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
		})
	}
	return todos, nil
}

func (a *API) do(ctx context.Context, method, path string, body, out any) error {
	agent := fiber.AcquireAgent()
	defer fiber.ReleaseAgent(agent)

	req := agent.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(a.baseURL + path)
	if a.accessToken != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+a.accessToken)
	}
	if body != nil {
		agent.JSON(body)
	}
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	}

	if err := agent.Parse(); err != nil {
		return err
	}

	code, respBody, errs := agent.Bytes()
	if len(errs) > 0 {
		return errs[0]
	}
	if code >= 400 {
		var apiErr errorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("%s %s: %s", method, path, apiErr.Message)
		}
		return fmt.Errorf("%s %s: status %d", method, path, code)
	}
	if out != nil {
		return json.Unmarshal(respBody, out)
	}
	return nil
}
