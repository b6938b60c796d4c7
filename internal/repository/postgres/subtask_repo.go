package postgres

import (
	"context"
	"fmt"
	"time"

	"taskplanner/internal/logger"
	"taskplanner/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SubtaskRepo struct {
	pool *pgxpool.Pool
}

// recomputeMetrics rewrites the parent's derived fields from its current
// children. It must run on the same transaction as the triggering write so
// readers never observe stale metrics.
func recomputeMetrics(ctx context.Context, tx pgx.Tx, taskID uuid.UUID) error {
	query := `UPDATE tasks
			SET total_hours = COALESCE(
					(SELECT SUM(needed_hours) FROM subtasks WHERE task_id = $1), 0),
				progress = COALESCE(
					(SELECT COUNT(*) FILTER (WHERE status = 'completed') * 100.0 / NULLIF(COUNT(*), 0)
					 FROM subtasks WHERE task_id = $1), 0),
				updated_at = NOW()
			WHERE id = $1`

	if _, err := tx.Exec(ctx, query, taskID); err != nil {
		return fmt.Errorf("recomputing task metrics: %w", err)
	}
	return nil
}

func (r *SubtaskRepo) Create(ctx context.Context, subtask *models.Subtask) error {
	start := time.Now()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO subtasks
				(id, task_id, description, status, planification_date, needed_hours, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at`

	err = tx.QueryRow(ctx, query,
		subtask.ID,
		subtask.TaskID,
		subtask.Description,
		subtask.Status,
		subtask.PlanificationDate.Time,
		subtask.NeededHours,
		time.Now(),
	).Scan(&subtask.CreatedAt)

	if err != nil {
		logger.Error("Repository: failed to insert subtask", err)
		return fmt.Errorf("inserting subtask: %w", mapError(err))
	}

	if err := recomputeMetrics(ctx, tx, subtask.TaskID); err != nil {
		logger.Error("Repository: metric recomputation failed", err)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing subtask insert: %w", err)
	}

	warnIfSlow("subtask_create", start)
	return nil
}

const subtaskWithParentColumns = `s.id, s.task_id, s.description, s.status,
	s.planification_date, s.needed_hours, s.created_at,
	t.id, t.title, t.status, t.due_date, t.description, t.priority,
	t.subject, t.type, t.total_hours`

func scanSubtaskWithParent(row interface{ Scan(dest ...any) error }) (*models.Subtask, error) {
	subtask := &models.Subtask{Task: &models.TaskSummary{}}
	var planificationDate time.Time
	err := row.Scan(
		&subtask.ID,
		&subtask.TaskID,
		&subtask.Description,
		&subtask.Status,
		&planificationDate,
		&subtask.NeededHours,
		&subtask.CreatedAt,
		&subtask.Task.ID,
		&subtask.Task.Title,
		&subtask.Task.Status,
		&subtask.Task.DueDate,
		&subtask.Task.Description,
		&subtask.Task.Priority,
		&subtask.Task.Subject,
		&subtask.Task.Type,
		&subtask.Task.TotalHours,
	)
	if err != nil {
		return nil, err
	}
	subtask.PlanificationDate = models.Date{Time: planificationDate}
	return subtask, nil
}

func (r *SubtaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Subtask, error) {
	start := time.Now()

	query := `SELECT ` + subtaskWithParentColumns + `
			FROM subtasks s
			JOIN tasks t ON t.id = s.task_id
			WHERE s.id = $1`

	subtask, err := scanSubtaskWithParent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("getting subtask: %w", mapError(err))
	}

	warnIfSlow("subtask_get", start)
	return subtask, nil
}

// List applies the fecha/status/usuario filters with AND semantics; nil
// fields match everything.
func (r *SubtaskRepo) List(ctx context.Context, filter models.SubtaskFilter) ([]*models.Subtask, error) {
	start := time.Now()

	query := `SELECT ` + subtaskWithParentColumns + `
			FROM subtasks s
			JOIN tasks t ON t.id = s.task_id
			WHERE TRUE`
	args := []any{}
	if filter.PlanificationDate != nil {
		args = append(args, filter.PlanificationDate.Time)
		query += fmt.Sprintf(" AND s.planification_date = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" AND s.status = $%d", len(args))
	}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		query += fmt.Sprintf(" AND t.user_id = $%d", len(args))
	}
	query += ` ORDER BY s.created_at, s.id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: failed to list subtasks", err)
		return nil, fmt.Errorf("listing subtasks: %w", err)
	}
	defer rows.Close()

	subtasks := []*models.Subtask{}
	for rows.Next() {
		subtask, err := scanSubtaskWithParent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning subtask: %w", err)
		}
		subtasks = append(subtasks, subtask)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: subtask row iteration failed", err)
		return nil, fmt.Errorf("iterating subtask rows: %w", err)
	}

	warnIfSlow("subtask_list", start)
	return subtasks, nil
}

func (r *SubtaskRepo) Update(ctx context.Context, subtask *models.Subtask) error {
	start := time.Now()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// task_id is never updated: the parent binding is immutable.
	query := `UPDATE subtasks
			SET description = $1,
				status = $2,
				planification_date = $3,
				needed_hours = $4
			WHERE id = $5
			RETURNING task_id`

	var taskID uuid.UUID
	err = tx.QueryRow(ctx, query,
		subtask.Description,
		subtask.Status,
		subtask.PlanificationDate.Time,
		subtask.NeededHours,
		subtask.ID,
	).Scan(&taskID)

	if err != nil {
		logger.Error("Repository: failed to update subtask", err)
		return fmt.Errorf("updating subtask: %w", mapError(err))
	}

	if err := recomputeMetrics(ctx, tx, taskID); err != nil {
		logger.Error("Repository: metric recomputation failed", err)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing subtask update: %w", err)
	}

	warnIfSlow("subtask_update", start)
	return nil
}

// Delete captures the parent id from the deleted row, then recomputes the
// parent's metrics from the remaining children, all in one transaction.
func (r *SubtaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var taskID uuid.UUID
	err = tx.QueryRow(ctx, `DELETE FROM subtasks WHERE id = $1 RETURNING task_id`, id).Scan(&taskID)
	if err != nil {
		logger.Error("Repository: failed to delete subtask", err)
		return fmt.Errorf("deleting subtask: %w", mapError(err))
	}

	if err := recomputeMetrics(ctx, tx, taskID); err != nil {
		logger.Error("Repository: metric recomputation failed", err)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing subtask delete: %w", err)
	}

	warnIfSlow("subtask_delete", start)
	return nil
}
