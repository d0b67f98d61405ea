package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	domain "github.com/huhyoundo/premium-todolist/domain/user"
)

// SessionPort is the narrow auth surface other modules consume: resolve
// the current session from a token, and look a user up.
type SessionPort interface {
	CurrentSession(ctx context.Context, token string) (*domain.Claims, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
}

// Adapter implements SessionPort using the service container.
type Adapter struct {
	container mono.ServiceContainer
}

// NewAdapter creates a new auth Adapter.
func NewAdapter(container mono.ServiceContainer) *Adapter {
	return &Adapter{container: container}
}

// CurrentSession resolves the session carried by an access token. It
// returns an error when there is no authenticated user.
func (a *Adapter) CurrentSession(ctx context.Context, token string) (*domain.Claims, error) {
	req := ValidateSessionRequest{Token: token}
	var resp ValidateSessionResponse

	if err := helper.CallRequestReplyService(
		ctx, a.container, "validate-session",
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("validate-session request failed: %w", err)
	}

	if !resp.Valid {
		return nil, fmt.Errorf("session validation failed: %s", resp.Error)
	}
	return &domain.Claims{
		UserID: resp.UserID,
		Email:  resp.Email,
	}, nil
}

// GetUser retrieves a user by ID.
func (a *Adapter) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	req := GetUserRequest{UserID: userID}
	var resp GetUserResponse

	if err := helper.CallRequestReplyService(
		ctx, a.container, "get-user",
		json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("get-user request failed: %w", err)
	}

	return &domain.User{
		ID:        resp.ID,
		Email:     resp.Email,
		Name:      resp.Name,
		CreatedAt: resp.CreatedAt,
	}, nil
}
