package models

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Subject     string     `json:"subject" db:"subject"`
	Type        string     `json:"type" db:"type"`
	Status      Status     `json:"status" db:"status"`
	Priority    Priority   `json:"priority" db:"priority"`
	DueDate     time.Time  `json:"due_date" db:"due_date"`
	Progress    float64    `json:"progress" db:"progress"`
	TotalHours  float64    `json:"total_hours" db:"total_hours"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	UserID      uuid.UUID  `json:"user" db:"user_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at"`

	// Subtasks in insertion order, loaded on task reads.
	Subtasks []*Subtask `json:"subtasks"`
}

// TaskSummary is the compact parent view embedded in subtask reads.
type TaskSummary struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Status      Status    `json:"status"`
	DueDate     time.Time `json:"due_date"`
	Description string    `json:"description"`
	Priority    Priority  `json:"priority"`
	Subject     string    `json:"subject"`
	Type        string    `json:"type"`
	TotalHours  float64   `json:"total_hours"`
}

func (t *Task) Summary() *TaskSummary {
	return &TaskSummary{
		ID:          t.ID,
		Title:       t.Title,
		Status:      t.Status,
		DueDate:     t.DueDate,
		Description: t.Description,
		Priority:    t.Priority,
		Subject:     t.Subject,
		Type:        t.Type,
		TotalHours:  t.TotalHours,
	}
}

// RecomputeMetrics derives total_hours and progress from the current
// children. Progress is the percentage of completed subtasks, 0 for a task
// without children.
func RecomputeMetrics(subtasks []*Subtask) (totalHours, progress float64) {
	if len(subtasks) == 0 {
		return 0, 0
	}
	completed := 0
	for _, s := range subtasks {
		totalHours += s.NeededHours
		if s.Status == StatusCompleted {
			completed++
		}
	}
	progress = float64(completed) * 100 / float64(len(subtasks))
	return totalHours, progress
}

// TaskFilter narrows task listings. Nil fields match everything.
type TaskFilter struct {
	UserID *uuid.UUID
	Status *Status
}
