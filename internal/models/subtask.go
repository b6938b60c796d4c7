package models

import (
	"time"

	"github.com/google/uuid"
)

type Subtask struct {
	ID                uuid.UUID `json:"id" db:"id"`
	TaskID            uuid.UUID `json:"task_id" db:"task_id"`
	Description       string    `json:"description" db:"description"`
	Status            Status    `json:"status" db:"status"`
	PlanificationDate Date      `json:"planification_date" db:"planification_date"`
	NeededHours       float64   `json:"needed_hours" db:"needed_hours"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`

	// Task is the parent summary, set on subtask reads and left nil when the
	// subtask is embedded inside its own parent.
	Task *TaskSummary `json:"task,omitempty"`
}

// SubtaskFilter narrows subtask listings. Filters combine with AND; nil
// fields match everything.
type SubtaskFilter struct {
	PlanificationDate *Date
	Status            *Status
	UserID            *uuid.UUID
}
