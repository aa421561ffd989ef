package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// ProfileService provides user profile operations over the dual-store
// repository. The relational store is authoritative; the document
// mirror is written best-effort and consulted first on reads.
type ProfileService interface {
	// Sync upserts the profile in both stores from the identity
	// provider's claims. It backs the signup hook and is safe under
	// at-least-once invocation.
	Sync(ctx context.Context, userID, email, name string) (*domain.UserProfile, error)

	// Ensure returns the existing profile, creating it via Sync when
	// neither store has one. Used on first authenticated requests.
	Ensure(ctx context.Context, userID, email, name string) (*domain.UserProfile, error)

	// Get retrieves the profile, mirror first with relational fallback.
	// Returns store.ErrUserNotFound when neither store has it.
	Get(ctx context.Context, userID string) (*domain.UserProfile, error)

	// Update replaces the profile's email and display name in both
	// stores. The mirror patch is best-effort.
	Update(ctx context.Context, userID, email, name string) error

	// Delete removes the profile from both stores; the mirror delete
	// is best-effort.
	Delete(ctx context.Context, userID string) error
}

// profileServiceImpl implements the ProfileService interface.
type profileServiceImpl struct {
	users  store.UserStore
	mirror store.UserMirror
	logger *slog.Logger
}

// NewProfileService creates a new ProfileService.
// It returns an error if any of the required dependencies are nil.
func NewProfileService(users store.UserStore, mirror store.UserMirror, logger *slog.Logger) (ProfileService, error) {
	if users == nil {
		return nil, errors.New("user store cannot be nil")
	}
	if mirror == nil {
		return nil, errors.New("user mirror cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &profileServiceImpl{
		users:  users,
		mirror: mirror,
		logger: logger.With(slog.String("component", "profile_service")),
	}, nil
}

// Sync implements ProfileService.Sync
func (s *profileServiceImpl) Sync(ctx context.Context, userID, email, name string) (*domain.UserProfile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	profile, err := domain.NewUserProfile(userID, email, name)
	if err != nil {
		return nil, err
	}

	// Relational store first; its failure fails the sync.
	if err := s.users.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	if err := s.mirror.Put(ctx, profile); err != nil {
		log.Warn("profile mirror write failed after relational commit",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
	}

	return profile, nil
}

// Ensure implements ProfileService.Ensure
func (s *profileServiceImpl) Ensure(ctx context.Context, userID, email, name string) (*domain.UserProfile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Fast path: the mirror already has it.
	if profile, err := s.mirror.Get(ctx, userID); err == nil {
		return profile, nil
	} else if !store.IsNotFoundError(err) {
		log.Warn("profile mirror read failed during ensure",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
	}

	// The relational store is the authority on existence.
	profile, err := s.users.GetByID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !store.IsNotFoundError(err) {
		return nil, err
	}

	return s.Sync(ctx, userID, email, name)
}

// Get implements ProfileService.Get
func (s *profileServiceImpl) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	profile, err := s.mirror.Get(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !store.IsNotFoundError(err) {
		log.Warn("profile mirror read failed, falling back to relational store",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
	}

	return s.users.GetByID(ctx, userID)
}

// Update implements ProfileService.Update
func (s *profileServiceImpl) Update(ctx context.Context, userID, email, name string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := time.Now().UTC()

	if err := s.users.Update(ctx, userID, email, name, now); err != nil {
		return err
	}

	if err := s.mirror.Patch(ctx, userID, email, name, now); err != nil {
		log.Warn("profile mirror patch failed after relational commit",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
	}

	return nil
}

// Delete implements ProfileService.Delete
func (s *profileServiceImpl) Delete(ctx context.Context, userID string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	if err := s.mirror.Delete(ctx, userID); err != nil {
		log.Warn("profile mirror delete failed after relational delete",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
	}

	return nil
}
