package domain

import (
	"fmt"
	"strings"
	"time"
)

// Common validation errors for UserProfile. Each wraps ErrValidation so
// callers can match the whole category with errors.Is.
var (
	ErrEmptyProfileUserID = fmt.Errorf("%w: profile user ID cannot be empty", ErrValidation)
	ErrEmptyProfileEmail  = fmt.Errorf("%w: profile email cannot be empty", ErrValidation)
)

// UserProfile represents a registered user of the task manager.
// The UserID is the opaque, provider-issued subject identifier and is
// the authorization key for every profile and task operation.
type UserProfile struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUserProfile creates a new UserProfile for the given subject ID and email.
// When name is empty it falls back to the local part of the email address,
// which is what the signup sync does for users who never set a display name.
// Returns an error if validation fails.
func NewUserProfile(userID, email, name string) (*UserProfile, error) {
	if name == "" {
		name = displayNameFromEmail(email)
	}

	now := time.Now().UTC()
	profile := &UserProfile{
		UserID:    userID,
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	return profile, nil
}

// Validate checks if the UserProfile has valid data.
// Returns an error if any field fails validation.
func (u *UserProfile) Validate() error {
	if u.UserID == "" {
		return ErrEmptyProfileUserID
	}

	if u.Email == "" {
		return ErrEmptyProfileEmail
	}

	return nil
}

// displayNameFromEmail derives a default display name from an email address.
func displayNameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
