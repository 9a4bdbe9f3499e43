package ops

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpErrorDisplayStrings(t *testing.T) {
	assert.Equal(t, "Op execution failed: boom", NewExecutionFailed("boom").Error())
	assert.Equal(t, "Op timeout after 50ms", NewTimeout(50).Error())
	assert.Equal(t, "Context error: missing key", NewContextError("missing key").Error())
	assert.Equal(t, "Batch op failed: op 2 broke", NewBatchFailed("op 2 broke").Error())
	assert.Equal(t, "Op aborted: user cancelled", NewAborted("user cancelled").Error())
	assert.Equal(t, "Op aborted: Operation aborted", NewAborted("").Error())
	assert.Equal(t, "Trigger error: bad name", NewTrigger("bad name").Error())
}

func TestOpErrorIs(t *testing.T) {
	err := NewExecutionFailed("whatever")
	assert.True(t, errors.Is(err, NewExecutionFailed("different message")))
	assert.False(t, errors.Is(err, NewTimeout(10)))
}

func TestAsAborted(t *testing.T) {
	reason, ok := AsAborted(NewAborted("stop now"))
	require.True(t, ok)
	assert.Equal(t, "stop now", reason)

	_, ok = AsAborted(NewExecutionFailed("nope"))
	assert.False(t, ok)
}

func TestWrapNestedOpException(t *testing.T) {
	wrapped := wrapNestedOpException("myOp", NewExecutionFailed("inner failure"))
	assert.Equal(t, "Op execution failed: myOp: inner failure", wrapped.Error())

	wrappedTimeout := wrapNestedOpException("myOp", NewTimeout(100))
	assert.Equal(t, "Op timeout after 100ms", wrappedTimeout.Error())

	wrappedAborted := wrapNestedOpException("myOp", NewAborted("cancel"))
	assert.Equal(t, "Op aborted: cancel", wrappedAborted.Error())
}

func TestLoopControlSignalsAreInternal(t *testing.T) {
	assert.True(t, isLoopContinue(newLoopContinue()))
	assert.False(t, isLoopContinue(newLoopBreak()))
	assert.True(t, isLoopBreak(newLoopBreak()))
	assert.Equal(t, "Loop continue", newLoopContinue().Error())
	assert.Equal(t, "Loop break", newLoopBreak().Error())
}
