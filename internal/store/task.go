package store

import (
	"context"
	"time"

	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// TaskStore defines the interface for task persistence in the
// authoritative relational store. Ownership checks follow the
// read-before-write pattern: callers load the row first and compare the
// owner subject ID before mutating.
type TaskStore interface {
	// Create inserts a new task row after upserting the owning user
	// row, both in one transaction. The owner upsert guarantees a
	// foreign-key-safe parent and makes the operation safe to re-run
	// under at-least-once invocation.
	Create(ctx context.Context, task *domain.Task, owner *domain.UserProfile) error

	// GetByID retrieves a task by its ID regardless of owner. Callers
	// are responsible for the ownership comparison.
	// Returns ErrTaskNotFound if no row exists.
	GetByID(ctx context.Context, taskID string) (*domain.Task, error)

	// ListByOwner retrieves all tasks owned by the given subject ID.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Task, error)

	// Apply writes every present patch field in one statement along with
	// the updated_at bump, whether or not the values differ from the
	// stored ones. The write is idempotent under platform re-invocation.
	// Returns ErrTaskNotFound if no row matches the ID and owner.
	Apply(ctx context.Context, taskID, ownerID string, patch domain.TaskPatch, updatedAt time.Time) error

	// Delete removes the task row scoped by ID and owner.
	// Returns ErrTaskNotFound if no row matches.
	Delete(ctx context.Context, taskID, ownerID string) error
}
