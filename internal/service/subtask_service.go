package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"taskplanner/internal/logger"
	"taskplanner/internal/models"
	"taskplanner/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubtaskService owns the single sanctioned creation path for subtasks: the
// parent is always resolved from the task id the caller was routed with,
// never from client input. Every write goes through a repository method that
// recomputes the parent metrics in the same transaction.

type SubtaskService struct {
	subtasks SubtaskRepository
	tasks    TaskRepository
}

func NewSubtaskService(subtasks SubtaskRepository, tasks TaskRepository) SubtaskService {
	return SubtaskService{
		subtasks: subtasks,
		tasks:    tasks,
	}
}

type CreateSubtaskInput struct {
	Description       *string
	Status            models.Status
	PlanificationDate *models.Date
	NeededHours       *float64
}

func (s *SubtaskService) CreateSubtaskForTask(ctx context.Context, taskID uuid.UUID, input CreateSubtaskInput) (*models.Subtask, error) {
	parent, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: parent task not found", zap.String("target_id", taskID.String()))
			return nil, NewNotFound("task", taskID.String())
		}
		return nil, fmt.Errorf("resolving parent task: %w", err)
	}

	fields := FieldErrors{}
	subtask := &models.Subtask{
		ID:     uuid.New(),
		TaskID: parent.ID,
		Status: input.Status,
	}
	if subtask.Status == "" {
		subtask.Status = models.StatusPending
	}

	if input.Description == nil || *input.Description == "" {
		fields.Add("description", "this field is required")
	} else {
		subtask.Description = *input.Description
	}
	if input.PlanificationDate == nil || input.PlanificationDate.IsZero() {
		fields.Add("planification_date", "this field is required")
	} else {
		subtask.PlanificationDate = *input.PlanificationDate
	}
	if input.NeededHours == nil {
		fields.Add("needed_hours", "this field is required")
	} else {
		subtask.NeededHours = *input.NeededHours
	}

	validateSubtaskFields(subtask, fields)
	if !fields.Empty() {
		return nil, NewValidationError(fields)
	}

	if err := s.subtasks.Create(ctx, subtask); err != nil {
		return nil, fmt.Errorf("creating subtask: %w", err)
	}

	return s.GetSubtaskByID(ctx, subtask.ID)
}

func (s *SubtaskService) GetSubtaskByID(ctx context.Context, id uuid.UUID) (*models.Subtask, error) {
	subtask, err := s.subtasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: subtask not found", zap.String("target_id", id.String()))
			return nil, NewNotFound("subtask", id.String())
		}
		return nil, fmt.Errorf("getting subtask: %w", err)
	}
	return subtask, nil
}

func (s *SubtaskService) ListSubtasks(ctx context.Context, filter models.SubtaskFilter) ([]*models.Subtask, error) {
	subtasks, err := s.subtasks.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing subtasks: %w", err)
	}
	return subtasks, nil
}

func (s *SubtaskService) UpdateSubtask(ctx context.Context, id uuid.UUID, options ...SubtaskOption) (*models.Subtask, error) {
	subtask, err := s.subtasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: subtask not found", zap.String("target_id", id.String()))
			return nil, NewNotFound("subtask", id.String())
		}
		return nil, fmt.Errorf("getting subtask: %w", err)
	}

	for _, opt := range options {
		opt(subtask)
	}

	fields := FieldErrors{}
	if subtask.Description == "" {
		fields.Add("description", "this field is required")
	}
	if subtask.PlanificationDate.IsZero() {
		fields.Add("planification_date", "this field is required")
	}
	validateSubtaskFields(subtask, fields)
	if !fields.Empty() {
		return nil, NewValidationError(fields)
	}

	if err := s.subtasks.Update(ctx, subtask); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NewNotFound("subtask", id.String())
		}
		return nil, fmt.Errorf("updating subtask: %w", err)
	}

	// Re-read so the embedded parent summary reflects the recomputed metrics.
	return s.GetSubtaskByID(ctx, id)
}

func (s *SubtaskService) DeleteSubtask(ctx context.Context, id uuid.UUID) error {
	if err := s.subtasks.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: subtask not found", zap.String("target_id", id.String()))
			return NewNotFound("subtask", id.String())
		}
		return fmt.Errorf("deleting subtask: %w", err)
	}
	return nil
}

func validateSubtaskFields(subtask *models.Subtask, fields FieldErrors) {
	if utf8.RuneCountInString(subtask.Description) > 300 {
		fields.Add("description", "ensure this field has no more than 300 characters")
	}
	if subtask.NeededHours < 0 {
		fields.Add("needed_hours", "ensure this value is greater than or equal to 0")
	}
	if !subtask.Status.Valid() {
		fields.Add("status", fmt.Sprintf("%q is not a valid choice", subtask.Status))
	}
}
