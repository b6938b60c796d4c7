package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskplanner/internal/handlers"
	"taskplanner/internal/logger"
	"taskplanner/internal/models"
	"taskplanner/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Init(true); err != nil {
		panic(err)
	}
	m.Run()
}

type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) CreateTask(ctx context.Context, input service.CreateTaskInput) (*models.Task, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) GetTaskByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) ListTasks(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Task), args.Error(1)
}

func (m *MockTaskService) UpdateTask(ctx context.Context, id uuid.UUID, options ...service.TaskOption) (*models.Task, error) {
	args := m.Called(ctx, id, options)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskService) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var _ handlers.TaskService = (*MockTaskService)(nil)

type MockSubtaskService struct {
	mock.Mock
}

func (m *MockSubtaskService) CreateSubtaskForTask(ctx context.Context, taskID uuid.UUID, input service.CreateSubtaskInput) (*models.Subtask, error) {
	args := m.Called(ctx, taskID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subtask), args.Error(1)
}

func (m *MockSubtaskService) GetSubtaskByID(ctx context.Context, id uuid.UUID) (*models.Subtask, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subtask), args.Error(1)
}

func (m *MockSubtaskService) ListSubtasks(ctx context.Context, filter models.SubtaskFilter) ([]*models.Subtask, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subtask), args.Error(1)
}

func (m *MockSubtaskService) UpdateSubtask(ctx context.Context, id uuid.UUID, options ...service.SubtaskOption) (*models.Subtask, error) {
	args := m.Called(ctx, id, options)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subtask), args.Error(1)
}

func (m *MockSubtaskService) DeleteSubtask(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ handlers.SubtaskService = (*MockSubtaskService)(nil)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) CreateUser(ctx context.Context, input service.CreateUserInput) (*models.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ handlers.UserService = (*MockUserService)(nil)

type testEnv struct {
	tasks    *MockTaskService
	subtasks *MockSubtaskService
	users    *MockUserService
	router   *chi.Mux
}

func newTestEnv() *testEnv {
	env := &testEnv{
		tasks:    new(MockTaskService),
		subtasks: new(MockSubtaskService),
		users:    new(MockUserService),
	}

	taskHandler := handlers.NewTaskHandler(env.tasks)
	subtaskHandler := handlers.NewSubtaskHandler(env.subtasks)
	userHandler := handlers.NewUserHandler(env.users)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Route("/task", func(r chi.Router) {
			r.Get("/", taskHandler.ListTasks)
			r.Post("/", taskHandler.PostTask)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", taskHandler.GetTaskByID)
				r.Patch("/", taskHandler.PatchTaskByID)
				r.Delete("/", taskHandler.DeleteTaskByID)
				r.Post("/subtareas", subtaskHandler.PostSubtaskForTask)
			})
		})
		r.Route("/subtasks", func(r chi.Router) {
			r.Get("/", subtaskHandler.ListSubtasks)
			r.Post("/", subtaskHandler.PostNotAllowed)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", subtaskHandler.GetSubtaskByID)
				r.Patch("/", subtaskHandler.PatchSubtaskByID)
				r.Delete("/", subtaskHandler.DeleteSubtaskByID)
			})
		})
		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.ListUsers)
			r.Post("/", userHandler.PostUser)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", userHandler.GetUserByID)
				r.Delete("/", userHandler.DeleteUserByID)
			})
		})
	})
	r.Get("/health", taskHandler.HealthCheck)

	env.router = r
	return env
}

func (env *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// TestPostTask tests task creation over HTTP
func TestPostTask(t *testing.T) {
	userID := uuid.New()
	dueDate := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)

	t.Run("201 - created", func(t *testing.T) {
		env := newTestEnv()
		created := &models.Task{
			ID:       uuid.New(),
			Title:    "Write chapter",
			Status:   models.StatusPending,
			Priority: models.PriorityMedium,
			DueDate:  dueDate,
			IsActive: true,
			UserID:   userID,
			Subtasks: []*models.Subtask{},
		}
		env.tasks.On("CreateTask", mock.Anything, mock.MatchedBy(func(input service.CreateTaskInput) bool {
			return input.Title == "Write chapter" && input.UserID == userID
		})).Return(created, nil)

		rec := env.do(t, http.MethodPost, "/api/task/", map[string]any{
			"title":    "Write chapter",
			"due_date": dueDate.Format(time.RFC3339),
			"user":     userID.String(),
		})

		assert.Equal(t, http.StatusCreated, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Write chapter", body["title"])
		assert.Equal(t, "pending", body["status"])
		assert.Equal(t, "medium", body["priority"])
		assert.Equal(t, float64(0), body["progress"])
		assert.Equal(t, float64(0), body["total_hours"])
		env.tasks.AssertExpectations(t)
	})

	t.Run("400 - validation error body shape", func(t *testing.T) {
		env := newTestEnv()
		fields := service.FieldErrors{}
		fields.Add("title", "this field is required")
		env.tasks.On("CreateTask", mock.Anything, mock.Anything).
			Return(nil, service.NewValidationError(fields))

		rec := env.do(t, http.MethodPost, "/api/task/", map[string]any{
			"user": userID.String(),
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "VALIDATION_ERROR", body["error"])
		assert.Contains(t, body["fields"], "title")
	})

	t.Run("415 - missing content type", func(t *testing.T) {
		env := newTestEnv()

		req := httptest.NewRequest(http.MethodPost, "/api/task/", bytes.NewReader([]byte(`{}`)))
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
		env.tasks.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything)
	})

	t.Run("400 - malformed JSON", func(t *testing.T) {
		env := newTestEnv()

		req := httptest.NewRequest(http.MethodPost, "/api/task/", bytes.NewReader([]byte(`{"title":`)))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env.tasks.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything)
	})
}

// TestListTasks tests the collection envelope and filters
func TestListTasks(t *testing.T) {
	t.Run("200 - envelope with count and results", func(t *testing.T) {
		env := newTestEnv()
		env.tasks.On("ListTasks", mock.Anything, models.TaskFilter{}).Return([]*models.Task{
			{ID: uuid.New(), Title: "A", Subtasks: []*models.Subtask{}},
			{ID: uuid.New(), Title: "B", Subtasks: []*models.Subtask{}},
		}, nil)

		rec := env.do(t, http.MethodGet, "/api/task/", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(2), body["count"])
		assert.Len(t, body["results"], 2)
	})

	t.Run("200 - status filter forwarded", func(t *testing.T) {
		env := newTestEnv()
		completed := models.StatusCompleted
		env.tasks.On("ListTasks", mock.Anything, models.TaskFilter{Status: &completed}).
			Return([]*models.Task{}, nil)

		rec := env.do(t, http.MethodGet, "/api/task/?status=completed", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		env.tasks.AssertExpectations(t)
	})

	t.Run("200 - unparseable user filter matches nothing", func(t *testing.T) {
		env := newTestEnv()

		rec := env.do(t, http.MethodGet, "/api/task/?user=not-a-uuid", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(0), body["count"])
		env.tasks.AssertNotCalled(t, "ListTasks", mock.Anything, mock.Anything)
	})
}

// TestGetTaskByID tests retrieval and id handling
func TestGetTaskByID(t *testing.T) {
	taskID := uuid.New()

	t.Run("200 - found", func(t *testing.T) {
		env := newTestEnv()
		env.tasks.On("GetTaskByID", mock.Anything, taskID).Return(&models.Task{
			ID:       taskID,
			Title:    "Found",
			Subtasks: []*models.Subtask{},
		}, nil)

		rec := env.do(t, http.MethodGet, "/api/task/"+taskID.String()+"/", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, taskID.String(), body["id"])
	})

	t.Run("404 - unknown id", func(t *testing.T) {
		env := newTestEnv()
		env.tasks.On("GetTaskByID", mock.Anything, taskID).
			Return(nil, service.NewNotFound("task", taskID.String()))

		rec := env.do(t, http.MethodGet, "/api/task/"+taskID.String()+"/", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "NOT_FOUND", body["error"])
	})

	t.Run("404 - malformed id short-circuits", func(t *testing.T) {
		env := newTestEnv()

		rec := env.do(t, http.MethodGet, "/api/task/not-a-uuid/", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		env.tasks.AssertNotCalled(t, "GetTaskByID", mock.Anything, mock.Anything)
	})
}

// TestPatchTask tests partial updates over HTTP
func TestPatchTask(t *testing.T) {
	taskID := uuid.New()

	t.Run("200 - one option per provided field", func(t *testing.T) {
		env := newTestEnv()
		env.tasks.On("UpdateTask", mock.Anything, taskID,
			mock.MatchedBy(func(options []service.TaskOption) bool {
				return len(options) == 2
			})).Return(&models.Task{
			ID:       taskID,
			Title:    "Renamed",
			Status:   models.StatusInProgress,
			Subtasks: []*models.Subtask{},
		}, nil)

		rec := env.do(t, http.MethodPatch, "/api/task/"+taskID.String()+"/", map[string]any{
			"title":  "Renamed",
			"status": "in_progress",
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Renamed", body["title"])
		env.tasks.AssertExpectations(t)
	})

	t.Run("200 - derived metrics in body are dropped on decode", func(t *testing.T) {
		env := newTestEnv()
		env.tasks.On("UpdateTask", mock.Anything, taskID,
			mock.MatchedBy(func(options []service.TaskOption) bool {
				return len(options) == 0
			})).Return(&models.Task{ID: taskID, Subtasks: []*models.Subtask{}}, nil)

		rec := env.do(t, http.MethodPatch, "/api/task/"+taskID.String()+"/", map[string]any{
			"progress":    99.0,
			"total_hours": 42.0,
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		env.tasks.AssertExpectations(t)
	})

	t.Run("415 - missing content type", func(t *testing.T) {
		env := newTestEnv()

		req := httptest.NewRequest(http.MethodPatch, "/api/task/"+taskID.String()+"/", bytes.NewReader([]byte(`{}`)))
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
		env.tasks.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything, mock.Anything)
	})
}

// TestDeleteTask tests deletion over HTTP
func TestDeleteTask(t *testing.T) {
	taskID := uuid.New()

	t.Run("204 - deleted", func(t *testing.T) {
		env := newTestEnv()
		env.tasks.On("DeleteTask", mock.Anything, taskID).Return(nil)

		rec := env.do(t, http.MethodDelete, "/api/task/"+taskID.String()+"/", nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.Bytes())
	})

	t.Run("404 - unknown id", func(t *testing.T) {
		env := newTestEnv()
		env.tasks.On("DeleteTask", mock.Anything, taskID).
			Return(service.NewNotFound("task", taskID.String()))

		rec := env.do(t, http.MethodDelete, "/api/task/"+taskID.String()+"/", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

// TestPostSubtaskForTask tests the nested creation action
func TestPostSubtaskForTask(t *testing.T) {
	taskID := uuid.New()

	t.Run("201 - parent taken from the URL, not the body", func(t *testing.T) {
		env := newTestEnv()
		created := &models.Subtask{
			ID:                uuid.New(),
			TaskID:            taskID,
			Description:       "collect sources",
			Status:            models.StatusPending,
			PlanificationDate: models.NewDate(2026, time.September, 10),
			NeededHours:       3,
			Task:              &models.TaskSummary{ID: taskID, Title: "Parent"},
		}
		env.subtasks.On("CreateSubtaskForTask", mock.Anything, taskID,
			mock.MatchedBy(func(input service.CreateSubtaskInput) bool {
				return input.Description != nil && *input.Description == "collect sources"
			})).Return(created, nil)

		// A task field in the body must be ignored in favor of the URL.
		rec := env.do(t, http.MethodPost, "/api/task/"+taskID.String()+"/subtareas", map[string]any{
			"task":               uuid.New().String(),
			"description":        "collect sources",
			"planification_date": "2026-09-10",
			"needed_hours":       3,
		})

		assert.Equal(t, http.StatusCreated, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "collect sources", body["description"])
		require.Contains(t, body, "task")
		parent := body["task"].(map[string]any)
		assert.Equal(t, taskID.String(), parent["id"])
		env.subtasks.AssertExpectations(t)
	})

	t.Run("404 - parent does not exist", func(t *testing.T) {
		env := newTestEnv()
		env.subtasks.On("CreateSubtaskForTask", mock.Anything, taskID, mock.Anything).
			Return(nil, service.NewNotFound("task", taskID.String()))

		rec := env.do(t, http.MethodPost, "/api/task/"+taskID.String()+"/subtareas", map[string]any{
			"description":        "anything",
			"planification_date": "2026-09-10",
			"needed_hours":       1,
		})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

// TestPostSubtasksDirect tests that the collection rejects direct creation
func TestPostSubtasksDirect(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodPost, "/api/subtasks/", map[string]any{
		"description": "straight to the collection",
	})

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "METHOD_NOT_ALLOWED", body["error"])
	env.subtasks.AssertNotCalled(t, "CreateSubtaskForTask", mock.Anything, mock.Anything, mock.Anything)
}

// TestListSubtasks tests the filter parsing
func TestListSubtasks(t *testing.T) {
	t.Run("200 - fecha and status forwarded", func(t *testing.T) {
		env := newTestEnv()
		fecha := models.NewDate(2026, time.September, 7)
		done := models.StatusCompleted
		env.subtasks.On("ListSubtasks", mock.Anything, models.SubtaskFilter{
			PlanificationDate: &fecha,
			Status:            &done,
		}).Return([]*models.Subtask{}, nil)

		rec := env.do(t, http.MethodGet, "/api/subtasks/?fecha=2026-09-07&status=completed", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		env.subtasks.AssertExpectations(t)
	})

	t.Run("200 - usuario filter forwarded", func(t *testing.T) {
		env := newTestEnv()
		userID := uuid.New()
		env.subtasks.On("ListSubtasks", mock.Anything, models.SubtaskFilter{UserID: &userID}).
			Return([]*models.Subtask{{ID: uuid.New(), Description: "x"}}, nil)

		rec := env.do(t, http.MethodGet, "/api/subtasks/?usuario="+userID.String(), nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(1), body["count"])
	})

	t.Run("200 - unparseable usuario matches nothing", func(t *testing.T) {
		env := newTestEnv()

		rec := env.do(t, http.MethodGet, "/api/subtasks/?usuario=42", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(0), body["count"])
		env.subtasks.AssertNotCalled(t, "ListSubtasks", mock.Anything, mock.Anything)
	})

	t.Run("200 - unparseable fecha matches nothing", func(t *testing.T) {
		env := newTestEnv()

		rec := env.do(t, http.MethodGet, "/api/subtasks/?fecha=07-09-2026", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(0), body["count"])
		env.subtasks.AssertNotCalled(t, "ListSubtasks", mock.Anything, mock.Anything)
	})
}

// TestPatchSubtask tests partial subtask updates over HTTP
func TestPatchSubtask(t *testing.T) {
	subtaskID := uuid.New()

	t.Run("200 - status updated", func(t *testing.T) {
		env := newTestEnv()
		env.subtasks.On("UpdateSubtask", mock.Anything, subtaskID,
			mock.MatchedBy(func(options []service.SubtaskOption) bool {
				return len(options) == 1
			})).Return(&models.Subtask{
			ID:     subtaskID,
			Status: models.StatusCompleted,
		}, nil)

		rec := env.do(t, http.MethodPatch, "/api/subtasks/"+subtaskID.String()+"/", map[string]any{
			"status": "completed",
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "completed", body["status"])
		env.subtasks.AssertExpectations(t)
	})

	t.Run("415 - missing content type", func(t *testing.T) {
		env := newTestEnv()

		req := httptest.NewRequest(http.MethodPatch, "/api/subtasks/"+subtaskID.String()+"/", bytes.NewReader([]byte(`{}`)))
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
		env.subtasks.AssertNotCalled(t, "UpdateSubtask", mock.Anything, mock.Anything, mock.Anything)
	})
}

// TestDeleteSubtask tests subtask deletion over HTTP
func TestDeleteSubtask(t *testing.T) {
	subtaskID := uuid.New()

	env := newTestEnv()
	env.subtasks.On("DeleteSubtask", mock.Anything, subtaskID).Return(nil)

	rec := env.do(t, http.MethodDelete, "/api/subtasks/"+subtaskID.String()+"/", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	env.subtasks.AssertExpectations(t)
}

// TestUserEndpoints tests the user collection
func TestUserEndpoints(t *testing.T) {
	t.Run("201 - created with default hours", func(t *testing.T) {
		env := newTestEnv()
		env.users.On("CreateUser", mock.Anything, mock.MatchedBy(func(input service.CreateUserInput) bool {
			return input.Username == "alice" && input.DailyHours == nil
		})).Return(&models.User{
			ID:         uuid.New(),
			Username:   "alice",
			DailyHours: models.DefaultDailyHours,
		}, nil)

		rec := env.do(t, http.MethodPost, "/api/users/", map[string]any{
			"username": "alice",
		})

		assert.Equal(t, http.StatusCreated, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "alice", body["username"])
		assert.Equal(t, float64(8), body["daily_hours"])
	})

	t.Run("200 - list envelope", func(t *testing.T) {
		env := newTestEnv()
		env.users.On("ListUsers", mock.Anything).Return([]*models.User{
			{ID: uuid.New(), Username: "alice"},
			{ID: uuid.New(), Username: "bob"},
		}, nil)

		rec := env.do(t, http.MethodGet, "/api/users/", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(2), body["count"])
	})

	t.Run("404 - unknown user", func(t *testing.T) {
		env := newTestEnv()
		userID := uuid.New()
		env.users.On("GetUserByID", mock.Anything, userID).
			Return(nil, service.NewNotFound("user", userID.String()))

		rec := env.do(t, http.MethodGet, "/api/users/"+userID.String()+"/", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("204 - deleted", func(t *testing.T) {
		env := newTestEnv()
		userID := uuid.New()
		env.users.On("DeleteUser", mock.Anything, userID).Return(nil)

		rec := env.do(t, http.MethodDelete, "/api/users/"+userID.String()+"/", nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

// TestHealthCheck tests the liveness endpoint
func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name         string
		healthErr    error
		expectedCode int
	}{
		{name: "healthy", healthErr: nil, expectedCode: http.StatusOK},
		{name: "unavailable", healthErr: fmt.Errorf("pool closed"), expectedCode: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			env.tasks.On("HealthCheck", mock.Anything).Return(tt.healthErr)

			rec := env.do(t, http.MethodGet, "/health", nil)

			assert.Equal(t, tt.expectedCode, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, "taskplanner", body["service"])
		})
	}
}
