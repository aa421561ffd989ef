package store

import (
	"context"
	"time"

	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// The mirror interfaces cover the secondary document store. It is a
// denormalized read replica updated best-effort after the relational
// write commits: callers log mirror failures and carry on, and reads
// fall back to the relational store on a miss. There is no transactional
// guarantee across the two stores.

// UserMirror is the document-store side of user profile persistence.
type UserMirror interface {
	// Put writes the full denormalized profile item.
	Put(ctx context.Context, profile *domain.UserProfile) error

	// Get retrieves the profile item, or ErrUserNotFound on a miss.
	Get(ctx context.Context, userID string) (*domain.UserProfile, error)

	// Patch updates email, name and the updatedAt attribute in place.
	Patch(ctx context.Context, userID, email, name string, updatedAt time.Time) error

	// Delete removes the profile item. Missing items are not an error.
	Delete(ctx context.Context, userID string) error
}

// TaskMirror is the document-store side of task persistence.
type TaskMirror interface {
	// Put writes the full denormalized task item.
	Put(ctx context.Context, task *domain.Task) error

	// Get retrieves the task item, or ErrTaskNotFound on a miss.
	Get(ctx context.Context, taskID string) (*domain.Task, error)

	// Patch applies a partial update containing exactly the changed
	// fields from the ChangeSet plus the updatedAt attribute.
	Patch(ctx context.Context, taskID string, changes domain.ChangeSet, updatedAt time.Time) error

	// Delete removes the task item. Missing items are not an error.
	Delete(ctx context.Context, taskID string) error
}
