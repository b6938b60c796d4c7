package inmemory

import (
	"context"
	"time"

	"taskplanner/internal/models"
	"taskplanner/internal/repository"

	"github.com/google/uuid"
)

type SubtaskRepo struct {
	st *Storage
}

func (r *SubtaskRepo) Create(ctx context.Context, subtask *models.Subtask) error {
	r.st.mtx.Lock()
	defer r.st.mtx.Unlock()

	if _, ok := r.st.tasks[subtask.TaskID]; !ok {
		return repository.ErrForeignKey
	}

	subtask.CreatedAt = time.Now()
	r.st.subtasks[subtask.ID] = cloneSubtask(subtask)
	r.st.subtaskIDs = append(r.st.subtaskIDs, subtask.ID)

	r.st.recomputeMetricsLocked(subtask.TaskID)
	return nil
}

func (r *SubtaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Subtask, error) {
	r.st.mtx.RLock()
	defer r.st.mtx.RUnlock()

	stored, ok := r.st.subtasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}

	subtask := cloneSubtask(stored)
	if parent, ok := r.st.tasks[stored.TaskID]; ok {
		subtask.Task = parent.Summary()
	}
	return subtask, nil
}

func (r *SubtaskRepo) List(ctx context.Context, filter models.SubtaskFilter) ([]*models.Subtask, error) {
	r.st.mtx.RLock()
	defer r.st.mtx.RUnlock()

	subtasks := []*models.Subtask{}
	for _, id := range r.st.subtaskIDs {
		stored, ok := r.st.subtasks[id]
		if !ok {
			continue
		}
		parent, ok := r.st.tasks[stored.TaskID]
		if !ok {
			continue
		}
		if filter.PlanificationDate != nil && !stored.PlanificationDate.Equal(*filter.PlanificationDate) {
			continue
		}
		if filter.Status != nil && stored.Status != *filter.Status {
			continue
		}
		if filter.UserID != nil && parent.UserID != *filter.UserID {
			continue
		}

		subtask := cloneSubtask(stored)
		subtask.Task = parent.Summary()
		subtasks = append(subtasks, subtask)
	}
	return subtasks, nil
}

func (r *SubtaskRepo) Update(ctx context.Context, subtask *models.Subtask) error {
	r.st.mtx.Lock()
	defer r.st.mtx.Unlock()

	stored, ok := r.st.subtasks[subtask.ID]
	if !ok {
		return repository.ErrNotFound
	}

	updated := cloneSubtask(subtask)
	// The parent binding and creation time are immutable.
	updated.TaskID = stored.TaskID
	updated.CreatedAt = stored.CreatedAt
	r.st.subtasks[subtask.ID] = updated

	r.st.recomputeMetricsLocked(stored.TaskID)
	return nil
}

// Delete captures the parent before removing the row so the metrics can be
// recomputed from the remaining children.
func (r *SubtaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.st.mtx.Lock()
	defer r.st.mtx.Unlock()

	stored, ok := r.st.subtasks[id]
	if !ok {
		return repository.ErrNotFound
	}
	parentID := stored.TaskID

	delete(r.st.subtasks, id)
	r.st.subtaskIDs = removeID(r.st.subtaskIDs, id)

	r.st.recomputeMetricsLocked(parentID)
	return nil
}
