package ops

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// LoopOp is a counter-driven composite that repeats a fixed sequence of
// ops, honoring in-band continue/break control signals and rolling back
// only the current iteration's successes on failure.
type LoopOp[T any] struct {
	mu              sync.Mutex
	counterVar      string
	limit           int
	ops             []AnyOp[T]
	continueOnError bool
	loopID          string
	continueVar     string
	breakVar        string
	succeeded       []AnyOp[T]
}

// NewLoopOp constructs a LoopOp, assigning it a fresh unique loop id and
// deriving its private continue/break flag keys.
func NewLoopOp[T any](counterVar string, limit int, ops []AnyOp[T], continueOnError bool) *LoopOp[T] {
	id := uuid.NewString()
	return &LoopOp[T]{
		counterVar:      counterVar,
		limit:           limit,
		ops:             append([]AnyOp[T](nil), ops...),
		continueOnError: continueOnError,
		loopID:          id,
		continueVar:     continueVarKey(id),
		breakVar:        breakVarKey(id),
	}
}

// LoopID returns the loop's unique identifier.
func (l *LoopOp[T]) LoopID() string {
	return l.loopID
}

// Metadata names the loop for introspection; it does not perform the
// batch-style data-flow analysis BatchOp does, since a loop's per-op
// required fields may depend on results produced by earlier iterations.
func (l *LoopOp[T]) Metadata() OpMetadata {
	return OpMetadata{
		Name:        "LoopOp",
		Description: fmt.Sprintf("Loop of %d operations up to %d iterations", len(l.ops), l.limit),
	}
}

// Rollback compensates every op that succeeded across every iteration of
// the loop's most recent Perform call, in LIFO order. Per-iteration
// rollback on failure is already handled internally by Perform, and
// invariant L1 (completed iterations are never rolled back by a later
// in-loop failure) still holds there; this only fires when a LoopOp that
// itself completed successfully is nested inside an outer composite that
// later fails and compensates it, in which case the whole run's worth of
// work must be undone, not just its last iteration.
func (l *LoopOp[T]) Rollback(ctx context.Context, dry *DryContext, wet *WetContext) error {
	l.mu.Lock()
	succeeded := l.succeeded
	l.succeeded = nil
	l.mu.Unlock()

	rollbackAll(ctx, dry, wet, succeeded)
	return nil
}

func (l *LoopOp[T]) recordSucceeded(ops []AnyOp[T]) {
	l.mu.Lock()
	l.succeeded = ops
	l.mu.Unlock()
}

// Perform runs the loop per the specification's §4.6 algorithm.
func (l *LoopOp[T]) Perform(ctx context.Context, dry *DryContext, wet *WetContext) ([]T, error) {
	counter, err := Get[int](dry, l.counterVar)
	if err != nil {
		return nil, err
	}
	if !dry.Contains(l.counterVar) {
		dry.Insert(counter, l.counterVar)
	}
	dry.Insert(l.loopID, "__current_loop_id")

	var results []T
	var allSucceeded []AnyOp[T]

	for counter < l.limit {
		if dry.IsAborted() {
			return nil, NewAborted(dry.AbortReason())
		}

		dry.Insert(false, l.continueVar)
		dry.Insert(false, l.breakVar)

		var iterationSucceeded []AnyOp[T]
		wholeLoopBreak := false

	ops:
		for _, op := range l.ops {
			if dry.IsAborted() {
				rollbackAll(ctx, dry, wet, iterationSucceeded)
				return nil, NewAborted(dry.AbortReason())
			}

			result, err := op.Perform(ctx, dry, wet)
			if err == nil {
				results = append(results, result)
				iterationSucceeded = append(iterationSucceeded, op)
				allSucceeded = append(allSucceeded, op)

				cont, _ := Get[bool](dry, l.continueVar)
				if cont {
					dry.Insert(false, l.continueVar)
					break ops
				}
				brk, _ := Get[bool](dry, l.breakVar)
				if brk {
					wholeLoopBreak = true
					break ops
				}
				continue
			}

			if reason, ok := AsAborted(err); ok {
				rollbackAll(ctx, dry, wet, iterationSucceeded)
				return nil, NewAborted(reason)
			}

			if isLoopContinue(err) {
				// An op signaling continue/break via ContinueLoop/BreakLoop
				// still returns its own result alongside the control-signal
				// error; that result is recorded before the signal takes
				// effect, same as the in-band flag path above.
				results = append(results, result)
				iterationSucceeded = append(iterationSucceeded, op)
				allSucceeded = append(allSucceeded, op)
				break ops
			}

			if isLoopBreak(err) {
				results = append(results, result)
				allSucceeded = append(allSucceeded, op)
				l.recordSucceeded(allSucceeded)
				return results, nil
			}

			rollbackAll(ctx, dry, wet, iterationSucceeded)
			if l.continueOnError {
				break ops
			}
			return nil, err
		}

		if wholeLoopBreak {
			l.recordSucceeded(allSucceeded)
			return results, nil
		}

		counter++
		dry.Insert(counter, l.counterVar)
	}

	l.recordSucceeded(allSucceeded)
	return results, nil
}
