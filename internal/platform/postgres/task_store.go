package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// PostgreSQL error codes
const pgForeignKeyViolationCode = "23503"

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db *sql.DB, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create
// It upserts the owning user row and inserts the task row in one
// transaction. The upsert guarantees a foreign-key-safe parent and makes
// the operation safe under at-least-once invocation.
// Returns store.ErrInvalidEntity on a foreign key violation.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task, owner *domain.UserProfile) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID))
		return err
	}

	if err := owner.Validate(); err != nil {
		log.Warn("owner validation failed during task create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID))
		return err
	}

	var fileURL, fileName, storageKey sql.NullString
	if task.Attachment != nil {
		fileURL = sql.NullString{String: task.Attachment.URL, Valid: true}
		fileName = sql.NullString{String: task.Attachment.FileName, Valid: true}
		storageKey = sql.NullString{String: task.Attachment.StorageKey, Valid: true}
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		upsertOwner := `
			INSERT INTO users (user_id, email, name, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (user_id) DO UPDATE SET
				email = EXCLUDED.email,
				updated_at = EXCLUDED.updated_at
		`
		if _, err := tx.ExecContext(
			ctx,
			upsertOwner,
			owner.UserID,
			owner.Email,
			owner.Name,
			owner.CreatedAt,
			owner.UpdatedAt,
		); err != nil {
			return err
		}

		insertTask := `
			INSERT INTO tasks
				(task_id, user_id, title, description, status, file_url, file_name, s3_key, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		_, err := tx.ExecContext(
			ctx,
			insertTask,
			task.ID,
			task.OwnerID,
			task.Title,
			task.Description,
			task.Status,
			fileURL,
			fileName,
			storageKey,
			task.CreatedAt,
			task.UpdatedAt,
		)
		return err
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolationCode {
			log.Warn("foreign key violation during task creation",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID),
				slog.String("user_id", task.OwnerID))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, task.OwnerID)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID),
			slog.String("user_id", task.OwnerID))
		return err
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID),
		slog.String("user_id", task.OwnerID),
		slog.String("status", task.Status))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// It retrieves a task by its unique ID regardless of owner; callers
// perform the ownership comparison.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, taskID string) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT task_id, user_id, title, description, status, file_url, file_name, s3_key, created_at, updated_at
		FROM tasks
		WHERE task_id = $1
	`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, taskID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", taskID))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID))
		return nil, err
	}

	return task, nil
}

// ListByOwner implements store.TaskStore.ListByOwner
// It retrieves all tasks owned by the given subject ID.
// Returns an empty slice if the owner has no tasks.
func (s *PostgresTaskStore) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT task_id, user_id, title, description, status, file_url, file_name, s3_key, created_at, updated_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to query tasks by owner",
			slog.String("error", err.Error()),
			slog.String("user_id", ownerID))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row",
				slog.String("error", err.Error()))
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	// Return empty slice instead of nil if no tasks found
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	log.Debug("found tasks by owner",
		slog.String("user_id", ownerID),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

// Apply implements store.TaskStore.Apply
// It writes every present patch field in one statement along with the
// updated_at bump, whether or not the values differ from the stored
// ones. The statement is scoped by task ID and owner.
// Returns store.ErrTaskNotFound if no row matches.
func (s *PostgresTaskStore) Apply(
	ctx context.Context,
	taskID, ownerID string,
	patch domain.TaskPatch,
	updatedAt time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := buildTaskUpdate(taskID, ownerID, patch, updatedAt)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to apply task patch",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("task not found for patch",
			slog.String("task_id", taskID))
		return store.ErrTaskNotFound
	}

	log.Info("task patch applied successfully",
		slog.String("task_id", taskID))
	return nil
}

// Delete implements store.TaskStore.Delete
// It removes the task row scoped by ID and owner.
// Returns store.ErrTaskNotFound if no row matches.
func (s *PostgresTaskStore) Delete(ctx context.Context, taskID, ownerID string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM tasks
		WHERE task_id = $1 AND user_id = $2
	`

	result, err := s.db.ExecContext(ctx, query, taskID, ownerID)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("task not found for delete",
			slog.String("task_id", taskID))
		return store.ErrTaskNotFound
	}

	log.Info("task deleted successfully",
		slog.String("task_id", taskID))
	return nil
}

// buildTaskUpdate constructs the dynamic UPDATE statement for a partial
// task patch. updated_at is always written; each present patch field is
// appended in turn; the WHERE clause scopes by task ID and owner.
func buildTaskUpdate(
	taskID, ownerID string,
	patch domain.TaskPatch,
	updatedAt time.Time,
) (string, []any) {
	query := "UPDATE tasks SET updated_at = $1"
	args := []any{updatedAt}
	next := 2

	if patch.Title != nil {
		query += fmt.Sprintf(", title = $%d", next)
		args = append(args, *patch.Title)
		next++
	}
	if patch.Description != nil {
		query += fmt.Sprintf(", description = $%d", next)
		args = append(args, *patch.Description)
		next++
	}
	if patch.Status != nil {
		query += fmt.Sprintf(", status = $%d", next)
		args = append(args, *patch.Status)
		next++
	}

	query += fmt.Sprintf(" WHERE task_id = $%d AND user_id = $%d", next, next+1)
	args = append(args, taskID, ownerID)

	return query, args
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask reads one task row, mapping the nullable attachment columns
// onto a nil or populated Attachment.
func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var fileURL, fileName, storageKey sql.NullString

	err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&task.Status,
		&fileURL,
		&fileName,
		&storageKey,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if storageKey.Valid {
		task.Attachment = &domain.Attachment{
			URL:        fileURL.String,
			FileName:   fileName.String,
			StorageKey: storageKey.String,
		}
	}

	return &task, nil
}
