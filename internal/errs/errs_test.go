package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := Invalid("issue_date", "required for auto-expiring document types")

	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "issue_date: required for auto-expiring document types", err.Error())

	var ve *ValidationError
	wrapped := fmt.Errorf("upload: %w", err)
	assert.True(t, errors.As(wrapped, &ve))
	assert.Equal(t, "issue_date", ve.Field)
	assert.False(t, errors.Is(wrapped, ErrConflict))
}

func TestTransient(t *testing.T) {
	cause := errors.New("connection refused")
	err := Transient("list documents", cause)

	assert.ErrorIs(t, err, ErrTransient)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "list documents")
}
