package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorList_TerminalCauseIsLast(t *testing.T) {
	first := errors.New("update line failed")
	terminal := fmt.Errorf("wrapped: %w", ErrNotFound)

	list := NewErrorList([]error{first, nil}, terminal)

	require.Len(t, list.Errors, 2)
	assert.Same(t, first, list.Errors[0])
	assert.Same(t, terminal, list.Errors[1])
	assert.Equal(t, "update line failed; wrapped: Resource not found", list.Error())
}

func TestErrorList_UnwrapSupportsErrorsIs(t *testing.T) {
	list := NewErrorList(
		[]error{fmt.Errorf("line: %w", ErrValidation)},
		fmt.Errorf("terminal: %w", ErrInventory),
	)

	assert.True(t, errors.Is(list, ErrValidation))
	assert.True(t, errors.Is(list, ErrInventory))
	assert.False(t, errors.Is(list, ErrNotFound))

	var domainErr *DomainError
	require.True(t, errors.As(list, &domainErr))
}

func TestNewErrorList_DropsNils(t *testing.T) {
	list := NewErrorList([]error{nil, nil}, nil)
	assert.Empty(t, list.Errors)
}
