package inmemory

import (
	"context"

	"taskplanner/internal/models"
	"taskplanner/internal/repository"

	"github.com/google/uuid"
)

type UserRepo struct {
	st *Storage
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	r.st.mtx.Lock()
	defer r.st.mtx.Unlock()

	for _, existing := range r.st.users {
		if existing.Username == user.Username {
			return repository.ErrDuplicate
		}
	}

	r.st.users[user.ID] = cloneUser(user)
	r.st.userIDs = append(r.st.userIDs, user.ID)
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.st.mtx.RLock()
	defer r.st.mtx.RUnlock()

	stored, ok := r.st.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(stored), nil
}

func (r *UserRepo) List(ctx context.Context) ([]*models.User, error) {
	r.st.mtx.RLock()
	defer r.st.mtx.RUnlock()

	users := []*models.User{}
	for _, id := range r.st.userIDs {
		if stored, ok := r.st.users[id]; ok {
			users = append(users, cloneUser(stored))
		}
	}
	return users, nil
}

// Delete removes the user and cascades to their tasks and subtasks.
func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.st.mtx.Lock()
	defer r.st.mtx.Unlock()

	if _, ok := r.st.users[id]; !ok {
		return repository.ErrNotFound
	}

	for _, taskID := range append([]uuid.UUID{}, r.st.taskIDs...) {
		if task, ok := r.st.tasks[taskID]; ok && task.UserID == id {
			r.st.deleteTaskLocked(taskID)
		}
	}
	delete(r.st.users, id)
	r.st.userIDs = removeID(r.st.userIDs, id)
	return nil
}
