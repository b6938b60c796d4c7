package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"taskplanner/internal/handlers/dto"
	"taskplanner/internal/logger"
	"taskplanner/internal/models"
	"taskplanner/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SubtaskHandler struct {
	SubtaskService SubtaskService
}

func NewSubtaskHandler(subtaskService SubtaskService) SubtaskHandler {
	return SubtaskHandler{
		SubtaskService: subtaskService,
	}
}

// PostSubtaskForTask is the nested creation action: the only endpoint that
// creates subtasks. The parent comes from the URL; a task field in the body
// is dropped on decode.
func (h *SubtaskHandler) PostSubtaskForTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, ok := parseIDParam(w, r)
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

	var request dto.CreateSubtaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: failed to decode JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	input := service.CreateSubtaskInput{
		Description:       request.Description,
		Status:            models.Status(request.Status),
		PlanificationDate: request.PlanificationDate,
		NeededHours:       request.NeededHours,
	}

	subtask, err := h.SubtaskService.CreateSubtaskForTask(r.Context(), taskID, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: subtask created",
		zap.String("subtask_id", subtask.ID.String()),
		zap.String("task_id", taskID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, dto.FromSubtask(subtask))
}

// PostNotAllowed rejects direct creation on the subtask collection; the
// nested action under the parent task is the only sanctioned path.
func (h *SubtaskHandler) PostNotAllowed(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")
	logger.Warn("HTTP: direct subtask creation rejected",
		zap.String("client_ip", r.RemoteAddr))

	responseWithError(w, http.StatusMethodNotAllowed, service.CodeMethodNotAllowed,
		"subtasks are created through POST /api/task/{id}/subtareas/")
}

func (h *SubtaskHandler) ListSubtasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	filter := models.SubtaskFilter{}
	if fechaParam := r.URL.Query().Get("fecha"); fechaParam != "" {
		fecha, err := models.ParseDate(fechaParam)
		if err != nil {
			// An unparseable date matches nothing; filters never fail.
			responseWithJSON(w, http.StatusOK, dto.ListResponse{Count: 0, Results: []dto.SubtaskResponse{}})
			return
		}
		filter.PlanificationDate = &fecha
	}
	if statusParam := r.URL.Query().Get("status"); statusParam != "" {
		status := models.Status(statusParam)
		filter.Status = &status
	}
	if usuarioParam := r.URL.Query().Get("usuario"); usuarioParam != "" {
		userID, err := uuid.Parse(usuarioParam)
		if err != nil {
			responseWithJSON(w, http.StatusOK, dto.ListResponse{Count: 0, Results: []dto.SubtaskResponse{}})
			return
		}
		filter.UserID = &userID
	}

	subtasks, err := h.SubtaskService.ListSubtasks(r.Context(), filter)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := dto.FromSubtaskList(subtasks)

	logger.Info("HTTP_OUT: subtasks listed",
		zap.Int("count", len(results)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.ListResponse{Count: len(results), Results: results})
}

func (h *SubtaskHandler) GetSubtaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	subtask, err := h.SubtaskService.GetSubtaskByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: subtask fetched",
		zap.String("subtask_id", subtask.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromSubtask(subtask))
}

func (h *SubtaskHandler) PatchSubtaskByID(w http.ResponseWriter, r *http.Request) {
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

	var request dto.UpdateSubtaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: failed to decode JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	options := []service.SubtaskOption{}
	if request.Description != nil {
		options = append(options, service.WithSubtaskDescription(*request.Description))
	}
	if request.Status != nil {
		options = append(options, service.WithSubtaskStatus(models.Status(*request.Status)))
	}
	if request.PlanificationDate != nil {
		options = append(options, service.WithPlanificationDate(*request.PlanificationDate))
	}
	if request.NeededHours != nil {
		options = append(options, service.WithNeededHours(*request.NeededHours))
	}

	subtask, err := h.SubtaskService.UpdateSubtask(r.Context(), id, options...)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: subtask updated",
		zap.String("subtask_id", subtask.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromSubtask(subtask))
}

func (h *SubtaskHandler) DeleteSubtaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.SubtaskService.DeleteSubtask(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: subtask deleted",
		zap.String("subtask_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	responseNoContent(w)
}
