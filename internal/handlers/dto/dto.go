package dto

import (
	"time"

	"taskplanner/internal/models"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Subject     string     `json:"subject"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	User        *uuid.UUID `json:"user"`
	IsActive    *bool      `json:"is_active"`
}

// UpdateTaskRequest carries a partial update: only non-nil fields change.
// progress and total_hours are absent on purpose; they are derived and any
// client-supplied value is dropped on decode.
type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Subject     *string    `json:"subject,omitempty"`
	Type        *string    `json:"type,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
}

// CreateSubtaskRequest deliberately has no task field: the parent comes from
// the URL of the nested creation action, never from the body.
type CreateSubtaskRequest struct {
	Description       *string      `json:"description"`
	Status            string       `json:"status"`
	PlanificationDate *models.Date `json:"planification_date"`
	NeededHours       *float64     `json:"needed_hours"`
}

type UpdateSubtaskRequest struct {
	Description       *string      `json:"description,omitempty"`
	Status            *string      `json:"status,omitempty"`
	PlanificationDate *models.Date `json:"planification_date,omitempty"`
	NeededHours       *float64     `json:"needed_hours,omitempty"`
}

type CreateUserRequest struct {
	Username   string `json:"username"`
	DailyHours *int   `json:"daily_hours"`
	Bio        string `json:"bio"`
}

type TaskSummaryResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Status      string    `json:"status"`
	DueDate     time.Time `json:"due_date"`
	Description string    `json:"description"`
	Priority    string    `json:"priority"`
	Subject     string    `json:"subject"`
	Type        string    `json:"type"`
	TotalHours  float64   `json:"total_hours"`
}

type SubtaskResponse struct {
	ID                uuid.UUID            `json:"id"`
	Task              *TaskSummaryResponse `json:"task,omitempty"`
	Description       string               `json:"description"`
	Status            string               `json:"status"`
	PlanificationDate models.Date          `json:"planification_date"`
	NeededHours       float64              `json:"needed_hours"`
	CreatedAt         time.Time            `json:"created_at"`
}

type TaskResponse struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Subject     string            `json:"subject"`
	Type        string            `json:"type"`
	Status      string            `json:"status"`
	Priority    string            `json:"priority"`
	DueDate     time.Time         `json:"due_date"`
	Progress    float64           `json:"progress"`
	TotalHours  float64           `json:"total_hours"`
	IsActive    bool              `json:"is_active"`
	User        uuid.UUID         `json:"user"`
	Subtasks    []SubtaskResponse `json:"subtasks"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   *time.Time        `json:"updated_at,omitempty"`
}

type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	DailyHours int       `json:"daily_hours"`
	Bio        string    `json:"bio"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListResponse is the paginated-style envelope used by every collection
// endpoint.
type ListResponse struct {
	Count   int `json:"count"`
	Results any `json:"results"`
}

func FromTask(t *models.Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Subject:     t.Subject,
		Type:        t.Type,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		Progress:    t.Progress,
		TotalHours:  t.TotalHours,
		IsActive:    t.IsActive,
		User:        t.UserID,
		Subtasks:    make([]SubtaskResponse, 0, len(t.Subtasks)),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	for _, s := range t.Subtasks {
		resp.Subtasks = append(resp.Subtasks, FromSubtask(s))
	}
	return resp
}

func FromTaskList(tasks []*models.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}

func FromSubtask(s *models.Subtask) SubtaskResponse {
	resp := SubtaskResponse{
		ID:                s.ID,
		Description:       s.Description,
		Status:            string(s.Status),
		PlanificationDate: s.PlanificationDate,
		NeededHours:       s.NeededHours,
		CreatedAt:         s.CreatedAt,
	}
	if s.Task != nil {
		resp.Task = &TaskSummaryResponse{
			ID:          s.Task.ID,
			Title:       s.Task.Title,
			Status:      string(s.Task.Status),
			DueDate:     s.Task.DueDate,
			Description: s.Task.Description,
			Priority:    string(s.Task.Priority),
			Subject:     s.Task.Subject,
			Type:        s.Task.Type,
			TotalHours:  s.Task.TotalHours,
		}
	}
	return resp
}

func FromSubtaskList(subtasks []*models.Subtask) []SubtaskResponse {
	result := make([]SubtaskResponse, len(subtasks))
	for i, s := range subtasks {
		result[i] = FromSubtask(s)
	}
	return result
}

func FromUser(u *models.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		DailyHours: u.DailyHours,
		Bio:        u.Bio,
		CreatedAt:  u.CreatedAt,
	}
}

func FromUserList(users []*models.User) []UserResponse {
	result := make([]UserResponse, len(users))
	for i, u := range users {
		result[i] = FromUser(u)
	}
	return result
}
