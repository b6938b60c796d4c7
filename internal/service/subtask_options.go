package service

import "taskplanner/internal/models"

// SubtaskOption applies one field of a partial update to a subtask.
type SubtaskOption func(*models.Subtask)

func WithSubtaskDescription(description string) SubtaskOption {
	return func(s *models.Subtask) {
		s.Description = description
	}
}

func WithSubtaskStatus(status models.Status) SubtaskOption {
	return func(s *models.Subtask) {
		s.Status = status
	}
}

func WithPlanificationDate(date models.Date) SubtaskOption {
	return func(s *models.Subtask) {
		s.PlanificationDate = date
	}
}

func WithNeededHours(hours float64) SubtaskOption {
	return func(s *models.Subtask) {
		s.NeededHours = hours
	}
}
