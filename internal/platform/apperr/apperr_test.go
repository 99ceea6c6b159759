package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidation(t *testing.T) {
	err := Validation("name is required")
	assert.True(t, IsValidation(err))
	assert.True(t, IsValidation(fmt.Errorf("checkout: %w", err)))
	assert.False(t, IsValidation(errors.New("connection refused")))
	assert.False(t, IsValidation(ErrNotFound))
	assert.Equal(t, "name is required", err.Error())
}
