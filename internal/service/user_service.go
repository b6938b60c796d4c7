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

// Users are created by the auth subsystem in production; this service covers
// the identity anchor itself: profile fields and the delete cascade down to
// tasks and subtasks.

type UserService struct {
	users UserRepository
}

func NewUserService(users UserRepository) UserService {
	return UserService{users: users}
}

type CreateUserInput struct {
	Username   string
	DailyHours *int
	Bio        string
}

func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	fields := FieldErrors{}
	if input.Username == "" {
		fields.Add("username", "this field is required")
	} else if utf8.RuneCountInString(input.Username) > 150 {
		fields.Add("username", "ensure this field has no more than 150 characters")
	}
	if input.DailyHours != nil && *input.DailyHours <= 0 {
		fields.Add("daily_hours", "ensure this value is greater than 0")
	}
	if utf8.RuneCountInString(input.Bio) > 500 {
		fields.Add("bio", "ensure this field has no more than 500 characters")
	}
	if !fields.Empty() {
		return nil, NewValidationError(fields)
	}

	user := &models.User{
		ID:         uuid.New(),
		Username:   input.Username,
		DailyHours: models.DefaultDailyHours,
		Bio:        input.Bio,
		CreatedAt:  time.Now(),
	}
	if input.DailyHours != nil {
		user.DailyHours = *input.DailyHours
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			fields.Add("username", "a user with that username already exists")
			return nil, NewValidationError(fields)
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: user not found", zap.String("target_id", id.String()))
			return nil, NewNotFound("user", id.String())
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// DeleteUser cascades to the user's tasks and, transitively, their subtasks.
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Info("Service: user not found", zap.String("target_id", id.String()))
			return NewNotFound("user", id.String())
		}
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}
