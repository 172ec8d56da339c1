package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationf(t *testing.T) {
	err := Validationf("cannot reduce max participants below current registrations (%d)", 7)
	assert.EqualError(t, err, "cannot reduce max participants below current registrations (7)")
	assert.True(t, IsValidation(err))
}

func TestIsValidation(t *testing.T) {
	assert.False(t, IsValidation(nil))
	assert.False(t, IsValidation(ErrNotFound))
	assert.False(t, IsValidation(errors.New("boom")))

	// Wrapped validation errors still count.
	wrapped := fmt.Errorf("creating event: %w", Validationf("event image is required"))
	assert.True(t, IsValidation(wrapped))
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound, ErrUnauthorized, ErrForbidden,
		ErrAlreadyRegistered, ErrEventFull, ErrEventInPast, ErrNotRegistered,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				assert.ErrorIs(t, a, b)
			} else {
				assert.NotErrorIs(t, a, b)
			}
		}
	}
}
