package todo

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/huhyoundo/premium-todolist/domain/todo"
)

// ErrNotFound is returned when a todo does not exist.
var ErrNotFound = errors.New("todo not found")

// Repository handles todo persistence using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new todo repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the todos table.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&domain.Todo{})
}

// Create inserts a new todo.
func (r *Repository) Create(t *domain.Todo) error {
	if err := r.db.Create(t).Error; err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}
	return nil
}

// FindByID retrieves a todo by its ID.
func (r *Repository) FindByID(id string) (*domain.Todo, error) {
	var t domain.Todo
	if err := r.db.First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}
	return &t, nil
}

// FindAllByOwner retrieves every todo belonging to a user, newest
// first, matching the order the dashboard hydrates with.
func (r *Repository) FindAllByOwner(userID string) ([]domain.Todo, error) {
	var todos []domain.Todo
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

// Update persists changes to an existing todo.
func (r *Repository) Update(t *domain.Todo) error {
	result := r.db.Model(&domain.Todo{}).Where("id = ?", t.ID).
		Select("title", "completed", "date", "updated_at").Updates(t)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a todo by ID.
func (r *Repository) Delete(id string) error {
	result := r.db.Delete(&domain.Todo{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
