package store

import (
	"context"
	"time"

	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// UserStore defines the interface for user profile persistence in the
// authoritative relational store.
type UserStore interface {
	// Upsert inserts the profile, or refreshes email, name and
	// updated_at when a row for the subject ID already exists. The
	// upsert semantics make the signup sync safe under at-least-once
	// invocation and guarantee a foreign-key-safe parent row before a
	// task insert.
	Upsert(ctx context.Context, profile *domain.UserProfile) error

	// GetByID retrieves a profile by its subject ID.
	// Returns ErrUserNotFound if no row exists.
	GetByID(ctx context.Context, userID string) (*domain.UserProfile, error)

	// Update replaces the profile's email and name and bumps updated_at.
	// Returns ErrUserNotFound if no row exists.
	Update(ctx context.Context, userID, email, name string, updatedAt time.Time) error

	// Delete removes the profile row.
	// Returns ErrUserNotFound if no row exists.
	Delete(ctx context.Context, userID string) error
}
