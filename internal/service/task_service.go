package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"taskplanner/internal/logger"
	"taskplanner/internal/models"
	"taskplanner/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Business rules for the task aggregate live here. The derived metrics
// (total_hours, progress) are owned by the subtask write path and are never
// settable through this service.

type TaskService struct {
	tasks TaskRepository
	users UserRepository
}

func NewTaskService(tasks TaskRepository, users UserRepository) TaskService {
	return TaskService{
		tasks: tasks,
		users: users,
	}
}

type CreateTaskInput struct {
	Title       string
	Description string
	Subject     string
	Type        string
	Status      models.Status
	Priority    models.Priority
	DueDate     time.Time
	UserID      uuid.UUID
	IsActive    *bool
}

func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	fields := FieldErrors{}
	if input.UserID == uuid.Nil {
		fields.Add("user", "this field is required")
	}

	task := &models.Task{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Subject:     input.Subject,
		Type:        input.Type,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		UserID:      input.UserID,
		IsActive:    true,
		CreatedAt:   time.Now(),
		Subtasks:    []*models.Subtask{},
	}
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if input.IsActive != nil {
		task.IsActive = *input.IsActive
	}

	validateTaskFields(task, fields)

	// A missing owner would only surface as an integrity error at the store,
	// so resolve the user up front and report it as a field error instead.
	if input.UserID != uuid.Nil {
		if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				fields.Add("user", fmt.Sprintf("user %s does not exist", input.UserID))
			} else {
				return nil, fmt.Errorf("resolving task owner: %w", err)
			}
		}
	}

	if !fields.Empty() {
		return nil, NewValidationError(fields)
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}
	return task, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: task not found", zap.String("target_id", id.String()))
			return nil, NewNotFound("task", id.String())
		}
		return nil, fmt.Errorf("getting task: %w", err)
	}
	return task, nil
}

func (s *TaskService) ListTasks(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error) {
	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, options ...TaskOption) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: task not found", zap.String("target_id", id.String()))
			return nil, NewNotFound("task", id.String())
		}
		return nil, fmt.Errorf("getting task: %w", err)
	}

	for _, opt := range options {
		opt(task)
	}

	fields := FieldErrors{}
	validateTaskFields(task, fields)
	if !fields.Empty() {
		return nil, NewValidationError(fields)
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("task", id.String())
		}
		return nil, fmt.Errorf("updating task: %w", err)
	}
	return task, nil
}

// DeleteTask removes the task and, through the store cascade, all of its
// subtasks.
func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: task not found", zap.String("target_id", id.String()))
			return NewNotFound("task", id.String())
		}
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	return s.tasks.HealthCheck(ctx)
}

func validateTaskFields(task *models.Task, fields FieldErrors) {
	if task.Title == "" {
		fields.Add("title", "this field is required")
	} else if utf8.RuneCountInString(task.Title) > 200 {
		fields.Add("title", "ensure this field has no more than 200 characters")
	}
	if utf8.RuneCountInString(task.Subject) > 100 {
		fields.Add("subject", "ensure this field has no more than 100 characters")
	}
	if utf8.RuneCountInString(task.Type) > 100 {
		fields.Add("type", "ensure this field has no more than 100 characters")
	}
	if !task.Status.Valid() {
		fields.Add("status", fmt.Sprintf("%q is not a valid choice", task.Status))
	}
	if !task.Priority.Valid() {
		fields.Add("priority", fmt.Sprintf("%q is not a valid choice", task.Priority))
	}
	if task.DueDate.IsZero() {
		fields.Add("due_date", "this field is required")
	}
}
