package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"taskplanner/internal/handlers/dto"
	"taskplanner/internal/logger"
	"taskplanner/internal/models"
	"taskplanner/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService TaskService
}

func NewTaskHandler(taskService TaskService) TaskHandler {
	return TaskHandler{
		TaskService: taskService,
	}
}

// parseIDParam extracts and validates the {id} URL parameter.
func parseIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := uuid.Parse(idParam)
	if err != nil || id == uuid.Nil {
		logger.Warn("HTTP: invalid id parameter",
			zap.String("id", idParam),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusNotFound, service.CodeNotFound, "invalid id: "+idParam)
		return uuid.Nil, false
	}
	return id, true
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	filter := models.TaskFilter{}
	if userParam := r.URL.Query().Get("user"); userParam != "" {
		userID, err := uuid.Parse(userParam)
		if err != nil {
			// An unparseable owner id matches nothing; filters never fail.
			responseWithJSON(w, http.StatusOK, dto.ListResponse{Count: 0, Results: []dto.TaskResponse{}})
			return
		}
		filter.UserID = &userID
	}
	if statusParam := r.URL.Query().Get("status"); statusParam != "" {
		status := models.Status(statusParam)
		filter.Status = &status
	}

	tasks, err := h.TaskService.ListTasks(r.Context(), filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := dto.FromTaskList(tasks)

	logger.Info("HTTP_OUT: tasks listed",
		zap.Int("count", len(results)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.ListResponse{Count: len(results), Results: results})
}

func (h *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: wrong content type",
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "Content-Type must be application/json")
		return
	}

	var request dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: failed to decode JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	input := service.CreateTaskInput{
		Title:       request.Title,
		Description: request.Description,
		Subject:     request.Subject,
		Type:        request.Type,
		Status:      models.Status(request.Status),
		Priority:    models.Priority(request.Priority),
		IsActive:    request.IsActive,
	}
	if request.DueDate != nil {
		input.DueDate = *request.DueDate
	}
	if request.User != nil {
		input.UserID = *request.User
	}

	task, err := h.TaskService.CreateTask(r.Context(), input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: task created",
		zap.String("task_id", task.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, dto.FromTask(task))
}

func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	task, err := h.TaskService.GetTaskByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: task fetched",
		zap.String("task_id", task.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromTask(task))
}

func (h *TaskHandler) PatchTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: wrong content type",
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "Content-Type must be application/json")
		return
	}

	var request dto.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: failed to decode JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	options := []service.TaskOption{}
	if request.Title != nil {
		options = append(options, service.WithTitle(*request.Title))
	}
	if request.Description != nil {
		options = append(options, service.WithDescription(*request.Description))
	}
	if request.Subject != nil {
		options = append(options, service.WithSubject(*request.Subject))
	}
	if request.Type != nil {
		options = append(options, service.WithType(*request.Type))
	}
	if request.Status != nil {
		options = append(options, service.WithStatus(models.Status(*request.Status)))
	}
	if request.Priority != nil {
		options = append(options, service.WithPriority(models.Priority(*request.Priority)))
	}
	if request.DueDate != nil {
		options = append(options, service.WithDueDate(*request.DueDate))
	}
	if request.IsActive != nil {
		options = append(options, service.WithIsActive(*request.IsActive))
	}

	task, err := h.TaskService.UpdateTask(r.Context(), id, options...)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: task updated",
		zap.String("task_id", task.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromTask(task))
}

func (h *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.TaskService.DeleteTask(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: task deleted",
		zap.String("task_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	responseNoContent(w)
}

func (h *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: health check")

	if err := h.TaskService.HealthCheck(r.Context()); err != nil {
		responseWithJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "unavailable",
			"service": "taskplanner",
		})
		return
	}

	responseWithJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "taskplanner",
	})
}
