package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOperationalError_NilCause(t *testing.T) {
	assert.Nil(t, NewOperationalError("applying event", "d-1", "n-1", nil))
	assert.Nil(t, NewOperationalErrorWithAttrs("applying event", "d-1", "n-1", nil, map[string]interface{}{"k": 1}))
}

func TestOperationalError_Error(t *testing.T) {
	cause := fmt.Errorf("empty node id: %w", ErrInvalidArgument)

	withNode := NewOperationalError("applying event", "d-1", "n-1", cause)
	require.NotNil(t, withNode)
	assert.True(t, strings.Contains(withNode.Error(), "applying event: diagram=d-1 node=n-1: empty node id"))

	withoutNode := NewOperationalError("computing pass", "d-1", "", cause)
	assert.True(t, strings.Contains(withoutNode.Error(), "computing pass: diagram=d-1: empty node id"))
	assert.False(t, strings.Contains(withoutNode.Error(), "node="))

	var nilErr *OperationalError
	assert.Equal(t, "<nil OperationalError>", nilErr.Error())
	assert.Nil(t, nilErr.Unwrap())
}

func TestOperationalError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("bad kind %q: %w", "move", ErrInvalidEvent)
	err := NewOperationalErrorWithAttrs("applying event", "d-1", "n-1", cause, map[string]interface{}{"kind": "move"})

	assert.True(t, errors.Is(err, ErrInvalidEvent))
	assert.False(t, errors.Is(err, ErrInvalidArgument))
	assert.Equal(t, "move", err.Attributes["kind"])

	var opErr *OperationalError
	require.True(t, errors.As(fmt.Errorf("outer: %w", err), &opErr))
	assert.Equal(t, "n-1", opErr.NodeID)
}
