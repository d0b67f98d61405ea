package todo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-monolith/mono"
	"golang.org/x/sync/singleflight"

	domain "github.com/huhyoundo/premium-todolist/domain/todo"
	"github.com/huhyoundo/premium-todolist/events"
)

var (
	// ErrUnauthorized is returned when there is no session user, or the
	// target todo is missing or owned by someone else. Missing records
	// deliberately produce the same error so existence does not leak.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrEmptyTitle is returned when a creation title is blank.
	ErrEmptyTitle = errors.New("todo title must not be empty")
)

// SnapshotCache caches a user's todo snapshot. Implementations may be
// absent entirely; the service degrades to plain repository reads.
type SnapshotCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// Service implements the todo sync actions over the repository.
type Service struct {
	repo     *Repository
	eventBus mono.EventBus
	cache    SnapshotCache
	sfGroup  singleflight.Group
}

// NewService creates a todo service. Both bus and cache may be nil.
func NewService(repo *Repository, bus mono.EventBus, cache SnapshotCache) *Service {
	return &Service{
		repo:     repo,
		eventBus: bus,
		cache:    cache,
	}
}

// authorize is the single ownership gate applied to every mutation of
// an existing todo: load the record, fail when it is missing or the
// acting user is not its owner.
func (s *Service) authorize(userID, todoID string) (*domain.Todo, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	t, err := s.repo.FindByID(todoID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if t.UserID != userID {
		return nil, ErrUnauthorized
	}
	return t, nil
}

// Create persists a new todo for the acting user. The ID comes from
// the client; a replayed create with the same ID fails on the primary
// key, which keeps the operation effectively idempotent server-side.
func (s *Service) Create(ctx context.Context, req CreateTodoRequest) (*domain.Todo, error) {
	if req.UserID == "" {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrEmptyTitle
	}

	now := time.Now()
	t := &domain.Todo{
		ID:        req.ID,
		Title:     req.Title,
		Completed: false,
		Date:      domain.Day(req.Date),
		UserID:    req.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(t); err != nil {
		return nil, err
	}

	s.invalidate(ctx, req.UserID)
	if s.eventBus != nil {
		event := events.TodoCreatedEvent{
			TodoID:    t.ID,
			Title:     t.Title,
			Date:      t.Date,
			UserID:    t.UserID,
			CreatedAt: t.CreatedAt,
		}
		if err := events.TodoCreatedV1.Publish(s.eventBus, event, nil); err != nil {
			publishWarn(t.ID, err)
		}
	}

	return t, nil
}

// Toggle flips the completed flag of the user's todo.
func (s *Service) Toggle(ctx context.Context, req ToggleTodoRequest) (*domain.Todo, error) {
	t, err := s.authorize(req.UserID, req.ID)
	if err != nil {
		return nil, err
	}

	t.Completed = !t.Completed
	t.UpdatedAt = time.Now()
	if err := s.repo.Update(t); err != nil {
		return nil, fmt.Errorf("failed to toggle todo: %w", err)
	}

	s.invalidate(ctx, req.UserID)
	if s.eventBus != nil {
		event := events.TodoToggledEvent{
			TodoID:    t.ID,
			Completed: t.Completed,
			UserID:    t.UserID,
			ToggledAt: t.UpdatedAt,
		}
		if err := events.TodoToggledV1.Publish(s.eventBus, event, nil); err != nil {
			publishWarn(t.ID, err)
		}
	}

	return t, nil
}

// Delete removes the user's todo.
func (s *Service) Delete(ctx context.Context, req DeleteTodoRequest) error {
	t, err := s.authorize(req.UserID, req.ID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(t.ID); err != nil {
		return err
	}

	s.invalidate(ctx, req.UserID)
	if s.eventBus != nil {
		event := events.TodoDeletedEvent{
			TodoID:    t.ID,
			UserID:    t.UserID,
			DeletedAt: time.Now(),
		}
		if err := events.TodoDeletedV1.Publish(s.eventBus, event, nil); err != nil {
			publishWarn(t.ID, err)
		}
	}

	return nil
}

// List returns the user's full todo collection, newest first. Reads go
// through the snapshot cache when one is configured; concurrent misses
// for the same user collapse into one repository query.
func (s *Service) List(ctx context.Context, req ListTodosRequest) ([]domain.Todo, error) {
	if req.UserID == "" {
		return nil, ErrUnauthorized
	}

	key := snapshotKey(req.UserID)
	if s.cache != nil {
		var cached []domain.Todo
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Printf("[todo] Cache read error for user %s: %v", req.UserID, err)
		}
		if found {
			return cached, nil
		}
	}

	val, err, _ := s.sfGroup.Do(key, func() (any, error) {
		return s.repo.FindAllByOwner(req.UserID)
	})
	if err != nil {
		return nil, err
	}
	todos := val.([]domain.Todo)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, todos); err != nil {
			log.Printf("[todo] Warning: failed to cache snapshot for user %s: %v", req.UserID, err)
		}
	}
	return todos, nil
}

// invalidate drops the user's cached snapshot after a mutation.
func (s *Service) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, snapshotKey(userID)); err != nil {
		log.Printf("[todo] Warning: failed to invalidate snapshot for user %s: %v", userID, err)
	}
}

// Event publishing is best-effort; a lost invalidation only delays the
// next resync.
func publishWarn(todoID string, err error) {
	log.Printf("[todo] Warning: failed to publish event for todo %s: %v", todoID, err)
}

func snapshotKey(userID string) string {
	return "snapshot:" + userID
}
