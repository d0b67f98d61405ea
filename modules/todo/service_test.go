package todo

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	domain "github.com/huhyoundo/premium-todolist/domain/todo"
)

func setupTestService(t *testing.T) (*Service, *Repository) {
	t.Helper()
	repo := NewRepository(setupTestDB(t))
	return NewService(repo, nil, nil), repo
}

func createTestTodo(t *testing.T, s *Service, userID, title string) *domain.Todo {
	t.Helper()
	created, err := s.Create(context.Background(), CreateTodoRequest{
		ID:     uuid.New().String(),
		Title:  title,
		Date:   time.Now(),
		UserID: userID,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return created
}

func TestService_Create(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()

	t.Run("valid request", func(t *testing.T) {
		date := time.Date(2024, time.May, 3, 15, 30, 0, 0, time.UTC)
		created, err := s.Create(ctx, CreateTodoRequest{
			ID:     uuid.New().String(),
			Title:  "write tests",
			Date:   date,
			UserID: "user-1",
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if created.Completed {
			t.Error("new todo must start incomplete")
		}
		if !created.Date.Equal(domain.Day(date)) {
			t.Errorf("expected date truncated to day, got %v", created.Date)
		}
	})

	t.Run("empty title", func(t *testing.T) {
		_, err := s.Create(ctx, CreateTodoRequest{
			ID:     uuid.New().String(),
			Title:  "   ",
			Date:   time.Now(),
			UserID: "user-1",
		})
		if err != ErrEmptyTitle {
			t.Errorf("expected ErrEmptyTitle, got %v", err)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := s.Create(ctx, CreateTodoRequest{
			ID:    uuid.New().String(),
			Title: "orphan",
			Date:  time.Now(),
		})
		if err != ErrUnauthorized {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestService_Toggle(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()
	created := createTestTodo(t, s, "user-1", "flip me")

	t.Run("owner can toggle", func(t *testing.T) {
		toggled, err := s.Toggle(ctx, ToggleTodoRequest{ID: created.ID, UserID: "user-1"})
		if err != nil {
			t.Fatalf("Toggle() error = %v", err)
		}
		if !toggled.Completed {
			t.Error("expected completed after first toggle")
		}

		toggled, err = s.Toggle(ctx, ToggleTodoRequest{ID: created.ID, UserID: "user-1"})
		if err != nil {
			t.Fatalf("Toggle() error = %v", err)
		}
		if toggled.Completed {
			t.Error("expected incomplete after second toggle")
		}
	})

	t.Run("foreign owner is unauthorized", func(t *testing.T) {
		_, err := s.Toggle(ctx, ToggleTodoRequest{ID: created.ID, UserID: "user-2"})
		if err != ErrUnauthorized {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("missing todo is unauthorized, not not-found", func(t *testing.T) {
		_, err := s.Toggle(ctx, ToggleTodoRequest{ID: "non-existent-id", UserID: "user-1"})
		if err != ErrUnauthorized {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestService_Delete(t *testing.T) {
	s, repo := setupTestService(t)
	ctx := context.Background()
	created := createTestTodo(t, s, "user-1", "remove me")

	t.Run("foreign owner is unauthorized", func(t *testing.T) {
		err := s.Delete(ctx, DeleteTodoRequest{ID: created.ID, UserID: "user-2"})
		if err != ErrUnauthorized {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
		if _, err := repo.FindByID(created.ID); err != nil {
			t.Errorf("todo should survive an unauthorized delete: %v", err)
		}
	})

	t.Run("owner can delete", func(t *testing.T) {
		if err := s.Delete(ctx, DeleteTodoRequest{ID: created.ID, UserID: "user-1"}); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := repo.FindByID(created.ID); err != ErrNotFound {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("missing todo is unauthorized", func(t *testing.T) {
		err := s.Delete(ctx, DeleteTodoRequest{ID: "non-existent-id", UserID: "user-1"})
		if err != ErrUnauthorized {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestService_List(t *testing.T) {
	s, _ := setupTestService(t)
	ctx := context.Background()

	createTestTodo(t, s, "user-1", "one")
	createTestTodo(t, s, "user-1", "two")
	createTestTodo(t, s, "user-2", "other")

	t.Run("scoped to user", func(t *testing.T) {
		todos, err := s.List(ctx, ListTodosRequest{UserID: "user-1"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(todos) != 2 {
			t.Errorf("expected 2 todos, got %d", len(todos))
		}
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := s.List(ctx, ListTodosRequest{})
		if err != ErrUnauthorized {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})
}

// fakeCache is an in-process SnapshotCache for exercising the
// cache-aside read path.
type fakeCache struct {
	data    map[string][]byte
	sets    int
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = raw
	f.sets++
	return nil
}

func (f *fakeCache) Delete(_ context.Context, key string) error {
	delete(f.data, key)
	f.deletes++
	return nil
}

func TestService_List_CacheAside(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	cache := newFakeCache()
	s := NewService(repo, nil, cache)
	ctx := context.Background()

	created := createTestTodo(t, s, "user-1", "cached")

	t.Run("miss populates the cache", func(t *testing.T) {
		if _, err := s.List(ctx, ListTodosRequest{UserID: "user-1"}); err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if cache.sets != 1 {
			t.Errorf("expected 1 cache set after miss, got %d", cache.sets)
		}
	})

	t.Run("hit serves from cache", func(t *testing.T) {
		todos, err := s.List(ctx, ListTodosRequest{UserID: "user-1"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(todos) != 1 || todos[0].ID != created.ID {
			t.Errorf("expected cached snapshot, got %v", todos)
		}
		if cache.sets != 1 {
			t.Errorf("expected no extra cache set on hit, got %d", cache.sets)
		}
	})

	t.Run("mutation invalidates the snapshot", func(t *testing.T) {
		before := cache.deletes
		if _, err := s.Toggle(ctx, ToggleTodoRequest{ID: created.ID, UserID: "user-1"}); err != nil {
			t.Fatalf("Toggle() error = %v", err)
		}
		if cache.deletes != before+1 {
			t.Errorf("expected snapshot invalidation on toggle, deletes = %d", cache.deletes)
		}

		todos, err := s.List(ctx, ListTodosRequest{UserID: "user-1"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if !todos[0].Completed {
			t.Error("expected fresh read after invalidation to see the toggle")
		}
	})
}
