package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	err := Clone(ErrNotFound, "Classroom not found")
	wrapped := fmt.Errorf("load: %w", err)

	got := FromError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, ErrNotFound.Code, got.Code)
	assert.Equal(t, "Classroom not found", got.Message)
}

func TestFromErrorWrapsUnknownErrors(t *testing.T) {
	got := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.Nil(t, FromError(nil))
}

func TestIsMatchesByCode(t *testing.T) {
	err := Clone(ErrConflict, "You are already in this classroom")
	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestWithStatus(t *testing.T) {
	err := WithStatus(ErrProvider, http.StatusTooManyRequests, "slow down")
	assert.Equal(t, ErrProvider.Code, err.Code)
	assert.Equal(t, http.StatusTooManyRequests, err.Status)
	assert.Equal(t, http.StatusBadRequest, ErrProvider.Status)
}
