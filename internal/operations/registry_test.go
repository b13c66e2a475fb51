package operations_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "custclean/internal/errors"
	"custclean/internal/operations"
	"custclean/internal/operations/testutil"
)

func TestRegistry(t *testing.T) {
	registry := operations.NewRegistry()

	require.NoError(t, registry.Register(testutil.NewMockStep("b")))
	require.NoError(t, registry.Register(testutil.NewMockStep("a")))
	require.NoError(t, registry.Register(testutil.NewMockStep("c")))

	assert.Equal(t, 3, registry.Count())
	assert.Equal(t, []string{"b", "a", "c"}, registry.ListIDs(), "registration order is kept")
	assert.True(t, registry.Has("a"))
	assert.False(t, registry.Has("z"))

	step, err := registry.Get("c")
	require.NoError(t, err)
	assert.Equal(t, "c", step.ID())

	steps := registry.List()
	require.Len(t, steps, 3)
	assert.Equal(t, "b", steps[0].ID())
}

func TestRegistry_Errors(t *testing.T) {
	registry := operations.NewRegistry()

	tests := []struct {
		name string
		step operations.Step
	}{
		{name: "nil step", step: nil},
		{name: "empty id", step: testutil.NewMockStep("")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, registry.Register(tt.step))
		})
	}

	require.NoError(t, registry.Register(testutil.NewMockStep("load")))
	err := registry.Register(testutil.NewMockStep("load"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation), "duplicate IDs are rejected")

	_, err = registry.Get("missing")
	assert.True(t, apperrors.IsNotFound(err))
}
