package ops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnyOpPerformRecoversPanic(t *testing.T) {
	op := NewFuncOp[int]("panics", func(ctx context.Context, dry *DryContext, wet *WetContext) (int, error) {
		panic("boom")
	}, nil)

	result, err := Wrap[int](op).Perform(context.Background(), NewDryContext(), NewWetContext())
	require.Error(t, err)
	assert.Equal(t, 0, result)
	assert.Equal(t, "Op execution failed: Runtime error: boom", err.Error())
}
