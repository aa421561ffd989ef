package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// Upsert implements store.UserStore.Upsert
// It inserts the profile row or refreshes email, name and updated_at for
// an existing subject ID. Safe to re-run under at-least-once invocation.
func (s *PostgresUserStore) Upsert(ctx context.Context, profile *domain.UserProfile) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := profile.Validate(); err != nil {
		log.Warn("profile validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("user_id", profile.UserID))
		return err
	}

	query := `
		INSERT INTO users (user_id, email, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		profile.UserID,
		profile.Email,
		profile.Name,
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to upsert user profile",
			slog.String("error", err.Error()),
			slog.String("user_id", profile.UserID))
		return err
	}

	log.Info("user profile upserted successfully",
		slog.String("user_id", profile.UserID))
	return nil
}

// GetByID implements store.UserStore.GetByID
// It retrieves a profile by its subject ID.
// Returns store.ErrUserNotFound if the profile does not exist.
func (s *PostgresUserStore) GetByID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, email, name, created_at, updated_at
		FROM users
		WHERE user_id = $1
	`

	var profile domain.UserProfile
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.Email,
		&profile.Name,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user profile not found", slog.String("user_id", userID))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user profile",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return nil, err
	}

	return &profile, nil
}

// Update implements store.UserStore.Update
// It replaces the profile's email and name and bumps updated_at.
// Returns store.ErrUserNotFound if the profile does not exist.
func (s *PostgresUserStore) Update(ctx context.Context, userID, email, name string, updatedAt time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE users
		SET email = $1, name = $2, updated_at = $3
		WHERE user_id = $4
	`

	result, err := s.db.ExecContext(ctx, query, email, name, updatedAt, userID)
	if err != nil {
		log.Error("failed to update user profile",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("user profile not found for update",
			slog.String("user_id", userID))
		return store.ErrUserNotFound
	}

	log.Info("user profile updated successfully",
		slog.String("user_id", userID))
	return nil
}

// Delete implements store.UserStore.Delete
// It removes the profile row.
// Returns store.ErrUserNotFound if the profile does not exist.
func (s *PostgresUserStore) Delete(ctx context.Context, userID string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM users
		WHERE user_id = $1
	`

	result, err := s.db.ExecContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to delete user profile",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("user profile not found for delete",
			slog.String("user_id", userID))
		return store.ErrUserNotFound
	}

	log.Info("user profile deleted successfully",
		slog.String("user_id", userID))
	return nil
}
