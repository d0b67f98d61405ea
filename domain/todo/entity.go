package todo

import "time"

// Todo is the core domain entity: a task assigned to a calendar day.
// IDs are generated client-side at creation time and never reused.
type Todo struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	Title     string    `gorm:"not null;type:text" json:"title"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	Date      time.Time `gorm:"not null;index" json:"date"`
	UserID    string    `gorm:"not null;index;type:text" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the Todo entity.
func (Todo) TableName() string {
	return "todos"
}

// Day truncates t to midnight in its own location. Time of day carries
// no meaning for a todo's assignment.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
