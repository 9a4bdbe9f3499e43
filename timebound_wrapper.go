package ops

import (
	"context"
	"fmt"
	"math"
	"time"
)

// TimeBoundWrapper races the wrapped op against a timeout. On timeout it
// fails with Timeout(ms), cancelling the op's context promptly. If the op
// finishes within budget but used more than 80% of it, a near-timeout
// warning is emitted to sink.
type TimeBoundWrapper[T any] struct {
	inner          AnyOp[T]
	timeoutSeconds float64
	sink           TraceSink
}

// NewTimeBoundWrapper wraps inner with a deadline of timeoutSeconds.
func NewTimeBoundWrapper[T any](inner AnyOp[T], timeoutSeconds float64, sink TraceSink) *TimeBoundWrapper[T] {
	if sink == nil {
		sink = NoopSink{}
	}
	return &TimeBoundWrapper[T]{inner: inner, timeoutSeconds: timeoutSeconds, sink: sink}
}

// Metadata implements Op.
func (t *TimeBoundWrapper[T]) Metadata() OpMetadata {
	return t.inner.Metadata()
}

// Rollback implements Op by delegating to the wrapped op.
func (t *TimeBoundWrapper[T]) Rollback(ctx context.Context, dry *DryContext, wet *WetContext) error {
	return t.inner.Rollback(ctx, dry, wet)
}

type timeBoundResult[T any] struct {
	value T
	err   error
}

// Perform implements Op, racing the wrapped op against the configured
// timeout.
func (t *TimeBoundWrapper[T]) Perform(ctx context.Context, dry *DryContext, wet *WetContext) (T, error) {
	budget := time.Duration(t.timeoutSeconds * float64(time.Second))
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan timeBoundResult[T], 1)
	start := time.Now()
	go func() {
		v, err := t.inner.Perform(ctx, dry, wet)
		done <- timeBoundResult[T]{value: v, err: err}
	}()

	timer := time.NewTimer(budget)
	defer timer.Stop()

	select {
	case r := <-done:
		elapsed := time.Since(start)
		if r.err == nil && budget > 0 && elapsed > time.Duration(0.8*float64(budget)) {
			t.sink.Emit(TraceEvent{
				Message: fmt.Sprintf("Op '%s' used %.3f of %.3fs budget", t.inner.Name(), elapsed.Seconds(), t.timeoutSeconds),
				Level:   TraceWarn,
			})
		}
		return r.value, r.err
	case <-timer.C:
		cancel()
		ms := int64(math.Round(t.timeoutSeconds * 1000))
		var zero T
		return zero, NewTimeout(ms)
	}
}

// TimeBoundThenLog composes TimeBoundWrapper(LoggingWrapper(inner)),
// matching the composite helper named in the specification.
func TimeBoundThenLog[T any](inner AnyOp[T], timeoutSeconds float64, triggerName string, sink TraceSink) AnyOp[T] {
	logged := Wrap[T](NewLoggingWrapper(inner, triggerName, sink))
	return Wrap[T](NewTimeBoundWrapper(logged, timeoutSeconds, sink))
}
