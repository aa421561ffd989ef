package domain

import (
	"errors"
	"testing"
)

func TestValidationSentinelsWrapErrValidation(t *testing.T) {
	t.Parallel() // Enable parallel execution

	sentinels := []error{
		ErrEmptyTaskID,
		ErrEmptyTaskOwnerID,
		ErrEmptyTaskTitle,
		ErrEmptyTaskDescription,
		ErrEmptyProfileUserID,
		ErrEmptyProfileEmail,
	}

	for _, err := range sentinels {
		if !errors.Is(err, ErrValidation) {
			t.Errorf("Expected %v to match ErrValidation", err)
		}
	}
}
