// File: internal/common/errors_test.go
package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDetailsLeavesSentinelUntouched(t *testing.T) {
	detailed := ErrNotFound.WithDetails("Listing not found.")

	assert.Equal(t, "Listing not found.", detailed.Details)
	assert.Nil(t, ErrNotFound.Details, "sentinel errors are shared across requests and must stay clean")
	assert.NotSame(t, ErrNotFound, detailed)
}

func TestDetailedErrorStillMatchesSentinel(t *testing.T) {
	detailed := ErrConflict.WithDetails("User with this email already exists.")

	assert.ErrorIs(t, detailed, ErrConflict)
	assert.NotErrorIs(t, detailed, ErrNotFound)

	wrapped := fmt.Errorf("register: %w", detailed)
	assert.ErrorIs(t, wrapped, ErrConflict)

	apiErr, ok := IsAPIError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "CONFLICT", apiErr.Code)
}

func TestConcurrentDetailsDoNotLeak(t *testing.T) {
	a := ErrBadRequest.WithDetails("first")
	b := ErrBadRequest.WithDetails("second")

	assert.Equal(t, "first", a.Details)
	assert.Equal(t, "second", b.Details)
}

func TestIsAPIErrorRejectsPlainErrors(t *testing.T) {
	_, ok := IsAPIError(errors.New("plain"))
	assert.False(t, ok)
}
