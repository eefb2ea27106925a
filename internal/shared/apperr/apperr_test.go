package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"plain", NotFound("Batch not found"), "NotFound: Batch not found"},
		{"wrapped", Internal(fmt.Errorf("db down"), "approve batch"), "InternalError: approve batch: db down"},
		{"stock", InsufficientStock("Insufficient stock."), "InsufficientStock: Insufficient stock."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("start batch: %w", Conflict("Batch already active."))
	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindConflict))
	assert.False(t, Is(nil, KindConflict))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("constraint failed")
	err := Internal(inner, "import materials")
	require.ErrorIs(t, err, inner)

	got, ok := As(fmt.Errorf("outer: %w", err))
	require.True(t, ok)
	assert.Equal(t, "import materials", got.Message)
}
