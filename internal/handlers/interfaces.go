package handlers

import (
	"context"

	"taskplanner/internal/models"
	"taskplanner/internal/service"

	"github.com/google/uuid"
)

type TaskService interface {
	CreateTask(ctx context.Context, input service.CreateTaskInput) (*models.Task, error)
	GetTaskByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	ListTasks(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, options ...service.TaskOption) (*models.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
	HealthCheck(ctx context.Context) error
}

type SubtaskService interface {
	CreateSubtaskForTask(ctx context.Context, taskID uuid.UUID, input service.CreateSubtaskInput) (*models.Subtask, error)
	GetSubtaskByID(ctx context.Context, id uuid.UUID) (*models.Subtask, error)
	ListSubtasks(ctx context.Context, filter models.SubtaskFilter) ([]*models.Subtask, error)
	UpdateSubtask(ctx context.Context, id uuid.UUID, options ...service.SubtaskOption) (*models.Subtask, error)
	DeleteSubtask(ctx context.Context, id uuid.UUID) error
}

type UserService interface {
	CreateUser(ctx context.Context, input service.CreateUserInput) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}
