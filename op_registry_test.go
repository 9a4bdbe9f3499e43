package ops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpRegistryRegisterAndBuild(t *testing.T) {
	registry := NewOpRegistry[int]()

	err := registry.Register("double", func() AnyOp[int] {
		return Wrap[int](NewFuncOp[int]("double", func(ctx context.Context, dry *DryContext, wet *WetContext) (int, error) {
			n, err := GetRequired[int](dry, "n")
			if err != nil {
				return 0, err
			}
			return n * 2, nil
		}, nil))
	})
	require.NoError(t, err)

	built, err := registry.Build("double")
	require.NoError(t, err)

	dry := NewDryContext()
	dry.Insert(21, "n")
	result, err := built.Perform(context.Background(), dry, NewWetContext())
	require.NoError(t, err)
	assert.Equal(t, 42, result)
}

func TestOpRegistryRejectsDuplicateRegistration(t *testing.T) {
	registry := NewOpRegistry[int]()
	ctor := func() AnyOp[int] { return Wrap[int](NewFuncOp[int]("x", nil, nil)) }

	require.NoError(t, registry.Register("x", ctor))
	err := registry.Register("x", ctor)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestOpRegistryBuildUnknownNameFails(t *testing.T) {
	registry := NewOpRegistry[int]()
	_, err := registry.Build("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestOpRegistryNames(t *testing.T) {
	registry := NewOpRegistry[int]()
	ctor := func() AnyOp[int] { return Wrap[int](NewFuncOp[int]("x", nil, nil)) }
	require.NoError(t, registry.Register("alpha", ctor))
	require.NoError(t, registry.Register("beta", ctor))

	assert.ElementsMatch(t, []string{"alpha", "beta"}, registry.Names())
}
