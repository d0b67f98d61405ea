package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// SummaryRequest asks for a user's activity grid.
type SummaryRequest struct {
	UserID string `json:"user_id"`
	Weeks  int    `json:"weeks,omitempty"`
}

// SummaryResponse carries the activity grid.
type SummaryResponse struct {
	Weeks []Week `json:"weeks"`
}

// Module provides the activity-summary service.
type Module struct{}

var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
)

// NewModule creates a new activity module.
func NewModule() *Module {
	return &Module{}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "activity"
}

// Start starts the module.
func (m *Module) Start(_ context.Context) error {
	log.Println("[activity] Module started")
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[activity] Module stopped")
	return nil
}

// RegisterServices registers request-reply services in the container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "activity-summary", json.Unmarshal, json.Marshal, m.handleSummary,
	); err != nil {
		return fmt.Errorf("failed to register activity-summary service: %w", err)
	}

	log.Printf("[activity] Registered services: activity-summary")
	return nil
}

func (m *Module) handleSummary(_ context.Context, req SummaryRequest, _ *mono.Msg) (SummaryResponse, error) {
	return SummaryResponse{
		Weeks: Generate(req.UserID, req.Weeks, time.Now()),
	}, nil
}
