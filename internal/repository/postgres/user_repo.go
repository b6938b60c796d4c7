package postgres

import (
	"context"
	"fmt"
	"time"

	"taskplanner/internal/logger"
	"taskplanner/internal/models"
	"taskplanner/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepo struct {
	pool *pgxpool.Pool
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	start := time.Now()

	query := `INSERT INTO users (id, username, daily_hours, bio, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.DailyHours,
		user.Bio,
		time.Now(),
	).Scan(&user.CreatedAt)

	if err != nil {
		logger.Error("Repository: failed to insert user", err)
		return fmt.Errorf("inserting user: %w", mapError(err))
	}

	warnIfSlow("user_create", start)
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	start := time.Now()

	query := `SELECT id, username, daily_hours, bio, created_at FROM users WHERE id = $1`

	user := &models.User{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.DailyHours,
		&user.Bio,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", mapError(err))
	}

	warnIfSlow("user_get", start)
	return user, nil
}

func (r *UserRepo) List(ctx context.Context) ([]*models.User, error) {
	start := time.Now()

	query := `SELECT id, username, daily_hours, bio, created_at FROM users ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		logger.Error("Repository: failed to list users", err)
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user := &models.User{}
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.DailyHours,
			&user.Bio,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: user row iteration failed", err)
		return nil, fmt.Errorf("iterating user rows: %w", err)
	}

	warnIfSlow("user_list", start)
	return users, nil
}

// Delete cascades to the user's tasks and their subtasks via the FK chain.
func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: failed to delete user", err)
		return fmt.Errorf("deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	warnIfSlow("user_delete", start)
	return nil
}
