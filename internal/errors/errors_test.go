package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := NotFound("job item not found")
		assert.Equal(t, "job item not found", err.Error())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := stderrors.New("boom")
		err := Wrap(cause, ErrCodeInternal, "query failed")
		assert.Equal(t, "query failed: boom", err.Error())
	})
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(cause, ErrCodeInternal, "query failed")
	assert.ErrorIs(t, err, cause)
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "x"))
	assert.Nil(t, Wrapf(nil, ErrCodeInternal, "x %d", 1))
}

func TestCodePredicates(t *testing.T) {
	tests := []struct {
		err       error
		predicate func(error) bool
		code      ErrorCode
	}{
		{NotFound("x"), IsNotFound, ErrCodeNotFound},
		{NotFoundf("item %d", 3), IsNotFound, ErrCodeNotFound},
		{Conflict("x"), IsConflict, ErrCodeConflict},
		{Validation("x"), IsValidation, ErrCodeValidation},
		{Validationf("bad %s", "connote"), IsValidation, ErrCodeValidation},
		{Unavailable("x"), IsUnavailable, ErrCodeUnavailable},
		{Internal("x"), IsInternal, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.True(t, tt.predicate(tt.err))
			assert.Equal(t, tt.code, GetCode(tt.err))
		})
	}
}

func TestPredicatesThroughWrapping(t *testing.T) {
	inner := NotFound("job item not found")
	outer := fmt.Errorf("resolve: %w", inner)

	assert.True(t, IsNotFound(outer))
	assert.Equal(t, ErrCodeNotFound, GetCode(outer))
}

func TestPredicatesOnForeignErrors(t *testing.T) {
	err := stderrors.New("plain")
	assert.False(t, IsNotFound(err))
	assert.False(t, IsConflict(err))
	assert.Empty(t, GetCode(err))

	require.False(t, IsNotFound(nil))
}
