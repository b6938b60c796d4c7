package service

import (
	"time"

	"taskplanner/internal/models"
)

// TaskOption applies one field of a partial update to a task.
type TaskOption func(*models.Task)

func WithTitle(title string) TaskOption {
	return func(t *models.Task) {
		t.Title = title
	}
}

func WithDescription(description string) TaskOption {
	return func(t *models.Task) {
		t.Description = description
	}
}

func WithSubject(subject string) TaskOption {
	return func(t *models.Task) {
		t.Subject = subject
	}
}

func WithType(taskType string) TaskOption {
	return func(t *models.Task) {
		t.Type = taskType
	}
}

func WithStatus(status models.Status) TaskOption {
	return func(t *models.Task) {
		t.Status = status
	}
}

func WithPriority(priority models.Priority) TaskOption {
	return func(t *models.Task) {
		t.Priority = priority
	}
}

func WithDueDate(dueDate time.Time) TaskOption {
	return func(t *models.Task) {
		t.DueDate = dueDate
	}
}

func WithIsActive(isActive bool) TaskOption {
	return func(t *models.Task) {
		t.IsActive = isActive
	}
}
