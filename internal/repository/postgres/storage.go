package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskplanner/internal/logger"
	"taskplanner/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const slowQueryThreshold = 100 * time.Millisecond

type Config struct {
	URL         string
	MaxConns    int32
	MinConns    int32
	IdleTimeout time.Duration
}

type Storage struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, cfg Config) (*Storage, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		logger.Error("Repository: failed to parse connection config", err)
		return nil, fmt.Errorf("parsing connection config: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	if cfg.IdleTimeout > 0 {
		poolConfig.MaxConnIdleTime = cfg.IdleTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("Repository: failed to create pool", err)
		return nil, fmt.Errorf("creating pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		logger.Error("Repository: ping failed", err)
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	logger.Info("Repository: connected to PostgreSQL")
	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: closed all PostgreSQL connections")
}

// Typed views sharing one pool.

func (s *Storage) Tasks() *TaskRepo {
	return &TaskRepo{pool: s.pool}
}

func (s *Storage) Subtasks() *SubtaskRepo {
	return &SubtaskRepo{pool: s.pool}
}

func (s *Storage) Users() *UserRepo {
	return &UserRepo{pool: s.pool}
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: ping failed", err)
		return fmt.Errorf("pinging database: %w", err)
	}
	return nil
}

// mapError translates driver errors into the repository sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503": // foreign_key_violation
			return repository.ErrForeignKey
		case "23505": // unique_violation
			return repository.ErrDuplicate
		}
	}
	return err
}

func warnIfSlow(operation string, start time.Time) {
	if elapsed := time.Since(start); elapsed > slowQueryThreshold {
		logger.Warn("Repository: slow query",
			zap.String("operation", operation),
			zap.Duration("ms", elapsed))
	}
}
