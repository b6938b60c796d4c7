package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"taskplanner/internal/handlers/dto"
	"taskplanner/internal/logger"
	"taskplanner/internal/service"

	"go.uber.org/zap"
)

// UserHandler exposes the identity anchor. Account creation normally lives
// in the auth subsystem; these endpoints cover profile reads and the delete
// cascade.
type UserHandler struct {
	UserService UserService
}

func NewUserHandler(userService UserService) UserHandler {
	return UserHandler{
		UserService: userService,
	}
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	users, err := h.UserService.ListUsers(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := dto.FromUserList(users)

	logger.Info("HTTP_OUT: users listed",
		zap.Int("count", len(results)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.ListResponse{Count: len(results), Results: results})
}

func (h *UserHandler) PostUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: wrong content type",
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "Content-Type must be application/json")
		return
	}

	var request dto.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: failed to decode JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	user, err := h.UserService.CreateUser(r.Context(), service.CreateUserInput{
		Username:   request.Username,
		DailyHours: request.DailyHours,
		Bio:        request.Bio,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: user created",
		zap.String("user_id", user.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, dto.FromUser(user))
}

func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	user, err := h.UserService.GetUserByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: user fetched",
		zap.String("user_id", user.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromUser(user))
}

func (h *UserHandler) DeleteUserByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.UserService.DeleteUser(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	logger.Info("HTTP_OUT: user deleted",
		zap.String("user_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	responseNoContent(w)
}
