package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(KindAI, "answer_text", nil))
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(KindAI, "answer_text", context.DeadlineExceeded)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "answer_text: ai: context deadline exceeded", err.Error())

	kind, ok := KindOf(fmt.Errorf("dispatch: %w", err))
	require.True(t, ok)
	assert.Equal(t, KindAI, kind)
}

func TestKindOfPlainError(t *testing.T) {
	_, ok := KindOf(errors.New("boom"))
	assert.False(t, ok)
}
