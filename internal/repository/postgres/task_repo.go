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

type TaskRepo struct {
	pool *pgxpool.Pool
}

func (r *TaskRepo) HealthCheck(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}
	return nil
}

func (r *TaskRepo) Create(ctx context.Context, task *models.Task) error {
	start := time.Now()

	query := `INSERT INTO tasks
				(id, title, description, subject, type, status, priority,
				 due_date, progress, total_hours, is_active, user_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Subject,
		task.Type,
		task.Status,
		task.Priority,
		task.DueDate,
		task.Progress,
		task.TotalHours,
		task.IsActive,
		task.UserID,
		time.Now(),
	).Scan(&task.CreatedAt)

	if err != nil {
		logger.Error("Repository: failed to insert task", err)
		return fmt.Errorf("inserting task: %w", mapError(err))
	}

	warnIfSlow("task_create", start)
	return nil
}

const taskColumns = `id, title, description, subject, type, status, priority,
	due_date, progress, total_hours, is_active, user_id, created_at, updated_at`

func scanTask(row interface{ Scan(dest ...any) error }) (*models.Task, error) {
	task := &models.Task{}
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Subject,
		&task.Type,
		&task.Status,
		&task.Priority,
		&task.DueDate,
		&task.Progress,
		&task.TotalHours,
		&task.IsActive,
		&task.UserID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("getting task: %w", mapError(err))
	}

	if err := r.attachSubtasks(ctx, []*models.Task{task}); err != nil {
		return nil, err
	}

	warnIfSlow("task_get", start)
	return task, nil
}

// List returns tasks most-recently-created first with their subtasks
// attached. Nil filter fields match everything.
func (r *TaskRepo) List(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE TRUE`
	args := []any{}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: failed to list tasks", err)
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: task row iteration failed", err)
		return nil, fmt.Errorf("iterating task rows: %w", err)
	}

	if err := r.attachSubtasks(ctx, tasks); err != nil {
		return nil, err
	}

	warnIfSlow("task_list", start)
	return tasks, nil
}

// Update never touches progress or total_hours; those are recomputed by the
// subtask write path only.
func (r *TaskRepo) Update(ctx context.Context, task *models.Task) error {
	start := time.Now()

	query := `UPDATE tasks
			SET title = $1,
				description = $2,
				subject = $3,
				type = $4,
				status = $5,
				priority = $6,
				due_date = $7,
				is_active = $8,
				updated_at = NOW()
			WHERE id = $9
			RETURNING updated_at, progress, total_hours`

	err := r.pool.QueryRow(ctx, query,
		task.Title,
		task.Description,
		task.Subject,
		task.Type,
		task.Status,
		task.Priority,
		task.DueDate,
		task.IsActive,
		task.ID,
	).Scan(&task.UpdatedAt, &task.Progress, &task.TotalHours)

	if err != nil {
		logger.Error("Repository: failed to update task", err)
		return fmt.Errorf("updating task: %w", mapError(err))
	}

	warnIfSlow("task_update", start)
	return nil
}

// Delete removes the task; subtasks go with it via ON DELETE CASCADE.
func (r *TaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: failed to delete task", err)
		return fmt.Errorf("deleting task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	warnIfSlow("task_delete", start)
	return nil
}

// attachSubtasks loads the children of every task in one query and groups
// them in insertion order.
func (r *TaskRepo) attachSubtasks(ctx context.Context, tasks []*models.Task) error {
	ids := make([]string, 0, len(tasks))
	byID := make(map[uuid.UUID]*models.Task, len(tasks))
	for _, task := range tasks {
		task.Subtasks = []*models.Subtask{}
		ids = append(ids, task.ID.String())
		byID[task.ID] = task
	}
	if len(ids) == 0 {
		return nil
	}

	query := `SELECT id, task_id, description, status, planification_date, needed_hours, created_at
			FROM subtasks
			WHERE task_id = ANY($1::uuid[])
			ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		logger.Error("Repository: failed to load subtasks", err)
		return fmt.Errorf("loading subtasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		subtask := &models.Subtask{}
		var planificationDate time.Time
		err := rows.Scan(
			&subtask.ID,
			&subtask.TaskID,
			&subtask.Description,
			&subtask.Status,
			&planificationDate,
			&subtask.NeededHours,
			&subtask.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("scanning subtask: %w", err)
		}
		subtask.PlanificationDate = models.Date{Time: planificationDate}
		if parent, ok := byID[subtask.TaskID]; ok {
			parent.Subtasks = append(parent.Subtasks, subtask)
		}
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: subtask row iteration failed", err)
		return fmt.Errorf("iterating subtask rows: %w", err)
	}
	return nil
}
