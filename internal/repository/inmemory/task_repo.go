package inmemory

import (
	"context"
	"time"

	"taskplanner/internal/models"
	"taskplanner/internal/repository"

	"github.com/google/uuid"
)

type TaskRepo struct {
	st *Storage
}

func (r *TaskRepo) HealthCheck(ctx context.Context) error {
	return r.st.healthCheck(ctx)
}

func (r *TaskRepo) Create(ctx context.Context, task *models.Task) error {
	r.st.mtx.Lock()
	defer r.st.mtx.Unlock()

	if _, ok := r.st.users[task.UserID]; !ok {
		return repository.ErrForeignKey
	}

	r.st.tasks[task.ID] = cloneTask(task)
	r.st.taskIDs = append(r.st.taskIDs, task.ID)
	return nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	r.st.mtx.RLock()
	defer r.st.mtx.RUnlock()

	stored, ok := r.st.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.st.taskWithChildrenLocked(stored), nil
}

// List returns tasks most-recently-created first, each with its subtasks.
func (r *TaskRepo) List(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error) {
	r.st.mtx.RLock()
	defer r.st.mtx.RUnlock()

	tasks := []*models.Task{}
	for i := len(r.st.taskIDs) - 1; i >= 0; i-- {
		stored, ok := r.st.tasks[r.st.taskIDs[i]]
		if !ok {
			continue
		}
		if filter.UserID != nil && stored.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && stored.Status != *filter.Status {
			continue
		}
		tasks = append(tasks, r.st.taskWithChildrenLocked(stored))
	}
	return tasks, nil
}

func (r *TaskRepo) Update(ctx context.Context, task *models.Task) error {
	r.st.mtx.Lock()
	defer r.st.mtx.Unlock()

	stored, ok := r.st.tasks[task.ID]
	if !ok {
		return repository.ErrNotFound
	}

	updated := cloneTask(task)
	updated.CreatedAt = stored.CreatedAt
	// Derived metrics belong to the subtask write path.
	updated.TotalHours = stored.TotalHours
	updated.Progress = stored.Progress
	now := time.Now()
	updated.UpdatedAt = &now

	r.st.tasks[task.ID] = updated
	task.UpdatedAt = &now
	task.TotalHours = stored.TotalHours
	task.Progress = stored.Progress
	return nil
}

// Delete removes the task together with all of its subtasks.
func (r *TaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.st.mtx.Lock()
	defer r.st.mtx.Unlock()

	if _, ok := r.st.tasks[id]; !ok {
		return repository.ErrNotFound
	}

	r.st.deleteTaskLocked(id)
	return nil
}
