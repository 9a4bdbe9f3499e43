package ops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	events []TraceEvent
}

func (s *recordingSink) Emit(event TraceEvent) {
	s.events = append(s.events, event)
}

func TestLoggingWrapperEmitsStartAndSuccess(t *testing.T) {
	sink := &recordingSink{}
	inner := NewFuncOp[int]("doWork", func(ctx context.Context, dry *DryContext, wet *WetContext) (int, error) {
		return 1, nil
	}, nil)
	wrapper := NewLoggingWrapper[int](Wrap[int](inner), "myTrigger", sink)

	result, err := wrapper.Perform(context.Background(), NewDryContext(), NewWetContext())
	require.NoError(t, err)
	assert.Equal(t, 1, result)

	require.Len(t, sink.events, 2)
	assert.Equal(t, "Starting op: doWork", sink.events[0].Message)
	assert.Equal(t, TraceInfo, sink.events[0].Level)
	assert.Contains(t, sink.events[1].Message, "Op 'doWork' completed in")
	assert.Equal(t, TraceInfo, sink.events[1].Level)
}

func TestLoggingWrapperEmitsFailureAndWrapsError(t *testing.T) {
	sink := &recordingSink{}
	inner := NewFuncOp[int]("doWork", func(ctx context.Context, dry *DryContext, wet *WetContext) (int, error) {
		return 0, NewExecutionFailed("boom")
	}, nil)
	wrapper := NewLoggingWrapper[int](Wrap[int](inner), "myTrigger", sink)

	_, err := wrapper.Perform(context.Background(), NewDryContext(), NewWetContext())
	require.Error(t, err)
	assert.Equal(t, "Op execution failed: myTrigger: Op execution failed: boom", err.Error())

	require.Len(t, sink.events, 2)
	assert.Equal(t, TraceError, sink.events[1].Level)
	assert.Contains(t, sink.events[1].Message, "Op 'doWork' failed after")
}

func TestLoggingWrapperNilSinkDefaultsToNoop(t *testing.T) {
	inner := NewFuncOp[int]("doWork", func(ctx context.Context, dry *DryContext, wet *WetContext) (int, error) {
		return 1, nil
	}, nil)
	wrapper := NewLoggingWrapper[int](Wrap[int](inner), "trigger", nil)

	_, err := wrapper.Perform(context.Background(), NewDryContext(), NewWetContext())
	require.NoError(t, err)
}
