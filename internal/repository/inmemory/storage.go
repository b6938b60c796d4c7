package inmemory

import (
	"context"
	"sync"
	"time"

	"taskplanner/internal/logger"
	"taskplanner/internal/models"

	"github.com/google/uuid"
)

// Storage holds all three collections behind one lock so that cascades and
// metric recomputation happen atomically, mirroring what the postgres
// repository does inside a transaction.
type Storage struct {
	mtx sync.RWMutex

	users      map[uuid.UUID]*models.User
	userIDs    []uuid.UUID
	tasks      map[uuid.UUID]*models.Task
	taskIDs    []uuid.UUID
	subtasks   map[uuid.UUID]*models.Subtask
	subtaskIDs []uuid.UUID
}

func New() *Storage {
	return &Storage{
		users:    make(map[uuid.UUID]*models.User),
		tasks:    make(map[uuid.UUID]*models.Task),
		subtasks: make(map[uuid.UUID]*models.Subtask),
	}
}

// Typed views over the shared state; all of them use the same lock.

func (s *Storage) Tasks() *TaskRepo {
	return &TaskRepo{st: s}
}

func (s *Storage) Subtasks() *SubtaskRepo {
	return &SubtaskRepo{st: s}
}

func (s *Storage) Users() *UserRepo {
	return &UserRepo{st: s}
}

func (s *Storage) healthCheck(ctx context.Context) error {
	logger.Info("Repository: inmemory storage is healthy")
	return nil
}

// recomputeMetricsLocked rewrites the parent's derived fields from its
// current children. Callers must hold the write lock.
func (s *Storage) recomputeMetricsLocked(taskID uuid.UUID) {
	task, ok := s.tasks[taskID]
	if !ok {
		return
	}
	task.TotalHours, task.Progress = models.RecomputeMetrics(s.subtasksOfLocked(taskID))
	now := time.Now()
	task.UpdatedAt = &now
}

// subtasksOfLocked returns the stored children of a task in insertion order.
func (s *Storage) subtasksOfLocked(taskID uuid.UUID) []*models.Subtask {
	children := []*models.Subtask{}
	for _, id := range s.subtaskIDs {
		if sub, ok := s.subtasks[id]; ok && sub.TaskID == taskID {
			children = append(children, sub)
		}
	}
	return children
}

// deleteTaskLocked removes a task and its children. Callers must hold the
// write lock.
func (s *Storage) deleteTaskLocked(id uuid.UUID) {
	for _, child := range s.subtasksOfLocked(id) {
		delete(s.subtasks, child.ID)
		s.subtaskIDs = removeID(s.subtaskIDs, child.ID)
	}
	delete(s.tasks, id)
	s.taskIDs = removeID(s.taskIDs, id)
}

func (s *Storage) taskWithChildrenLocked(stored *models.Task) *models.Task {
	task := cloneTask(stored)
	task.Subtasks = []*models.Subtask{}
	for _, child := range s.subtasksOfLocked(stored.ID) {
		task.Subtasks = append(task.Subtasks, cloneSubtask(child))
	}
	return task
}

func cloneUser(u *models.User) *models.User {
	clone := *u
	return &clone
}

func cloneTask(t *models.Task) *models.Task {
	clone := *t
	if t.UpdatedAt != nil {
		updated := *t.UpdatedAt
		clone.UpdatedAt = &updated
	}
	clone.Subtasks = nil
	return &clone
}

func cloneSubtask(sub *models.Subtask) *models.Subtask {
	clone := *sub
	clone.Task = nil
	return &clone
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
