package service

import (
	"context"

	"taskplanner/internal/models"

	"github.com/google/uuid"
)

// TaskRepository persists tasks. Reads return tasks with their subtasks
// attached in insertion order; listings come back newest first.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	List(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	HealthCheck(ctx context.Context) error
}

// SubtaskRepository persists subtasks. Every write recomputes the parent
// task's total_hours and progress within the same transaction, so a reader
// never observes metrics that lag a committed subtask change.
type SubtaskRepository interface {
	Create(ctx context.Context, subtask *models.Subtask) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Subtask, error)
	List(ctx context.Context, filter models.SubtaskFilter) ([]*models.Subtask, error)
	Update(ctx context.Context, subtask *models.Subtask) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
