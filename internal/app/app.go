package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"taskplanner/internal/config"
	"taskplanner/internal/handlers"
	"taskplanner/internal/logger"
	"taskplanner/internal/middleware"
	"taskplanner/internal/repository/inmemory"
	"taskplanner/internal/repository/postgres"
	"taskplanner/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type App struct {
	config    *config.Config
	server    *http.Server
	router    *chi.Mux
	shutdowns []func() // run in reverse order on shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Shutting down logging...")
		logger.Sync()
	})

	var (
		taskRepo    service.TaskRepository
		subtaskRepo service.SubtaskRepository
		userRepo    service.UserRepository
	)

	switch a.config.Repository.Type {
	case config.RepositoryPostgres:
		storage, err := postgres.New(ctx, postgres.Config{
			URL:         a.config.Database.URL,
			MaxConns:    int32(a.config.Database.MaxConnections),
			MinConns:    int32(a.config.Database.MinConnections),
			IdleTimeout: a.config.Database.IdleTimeout,
		})
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		a.shutdowns = append(a.shutdowns, storage.Close)

		if err := postgres.Migrate(a.config.Database.URL); err != nil {
			return fmt.Errorf("migrating schema: %w", err)
		}

		taskRepo = storage.Tasks()
		subtaskRepo = storage.Subtasks()
		userRepo = storage.Users()

	case config.RepositoryInMemory:
		storage := inmemory.New()
		taskRepo = storage.Tasks()
		subtaskRepo = storage.Subtasks()
		userRepo = storage.Users()

	default:
		return fmt.Errorf("unknown repository type %q", a.config.Repository.Type)
	}

	taskService := service.NewTaskService(taskRepo, userRepo)
	subtaskService := service.NewSubtaskService(subtaskRepo, taskRepo)
	userService := service.NewUserService(userRepo)

	taskHandler := handlers.NewTaskHandler(&taskService)
	subtaskHandler := handlers.NewSubtaskHandler(&subtaskService)
	userHandler := handlers.NewUserHandler(&userService)

	a.router = buildRouter(a.config, &taskHandler, &subtaskHandler, &userHandler)
	a.server = &http.Server{
		Addr:    a.config.GetServerAddr(),
		Handler: a.router,
	}

	return nil
}

func buildRouter(cfg *config.Config, taskHandler *handlers.TaskHandler, subtaskHandler *handlers.SubtaskHandler, userHandler *handlers.UserHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.StripSlashes)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.RateLimit(cfg.Server.RateLimitPerMin))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/task", func(r chi.Router) {
			r.Get("/", taskHandler.ListTasks)   // GET /api/task/?user=&status=
			r.Post("/", taskHandler.PostTask)   // POST /api/task/

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", taskHandler.GetTaskByID)       // GET /api/task/{id}/
				r.Patch("/", taskHandler.PatchTaskByID)   // PATCH /api/task/{id}/
				r.Delete("/", taskHandler.DeleteTaskByID) // DELETE /api/task/{id}/

				// Nested creation action: the only way to create a subtask.
				r.Post("/subtareas", subtaskHandler.PostSubtaskForTask)
			})
		})

		r.Route("/subtasks", func(r chi.Router) {
			r.Get("/", subtaskHandler.ListSubtasks) // GET /api/subtasks/?fecha=&status=&usuario=
			r.Post("/", subtaskHandler.PostNotAllowed)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", subtaskHandler.GetSubtaskByID)       // GET /api/subtasks/{id}/
				r.Patch("/", subtaskHandler.PatchSubtaskByID)   // PATCH /api/subtasks/{id}/
				r.Delete("/", subtaskHandler.DeleteSubtaskByID) // DELETE /api/subtasks/{id}/
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

	return r
}

// Run serves until the context is cancelled, then drains the server and the
// registered shutdown funcs.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server started", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.runShutdowns()
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	a.runShutdowns()
	if err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

func (a *App) shutdownTimeout() time.Duration {
	if a.config.Server.ShutdownTimeout > 0 {
		return a.config.Server.ShutdownTimeout
	}
	return 10 * time.Second
}

func (a *App) runShutdowns() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}
