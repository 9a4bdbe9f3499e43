package ops

import (
	"context"
	"fmt"
	"sync"
)

// BatchOp is an ordered sequence of AnyOp[T] executed in declaration
// order, with LIFO rollback of the ops that had already succeeded when a
// later op fails.
type BatchOp[T any] struct {
	mu              sync.Mutex
	ops             []AnyOp[T]
	continueOnError bool
	succeeded       []AnyOp[T]
}

// NewBatchOp constructs a BatchOp over ops.
func NewBatchOp[T any](ops []AnyOp[T], continueOnError bool) *BatchOp[T] {
	return &BatchOp[T]{ops: append([]AnyOp[T](nil), ops...), continueOnError: continueOnError}
}

// AddOp appends op to the batch under lock. Perform snapshots the op list
// at entry, so concurrent AddOp calls never affect an in-flight Perform.
func (b *BatchOp[T]) AddOp(op AnyOp[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ops = append(b.ops, op)
}

// Count returns the number of ops currently in the batch.
func (b *BatchOp[T]) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.ops)
}

// IsEmpty reports whether the batch has no ops.
func (b *BatchOp[T]) IsEmpty() bool {
	return b.Count() == 0
}

func (b *BatchOp[T]) snapshot() []AnyOp[T] {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]AnyOp[T](nil), b.ops...)
}

// Metadata delegates to BatchMetadataBuilder.
func (b *BatchOp[T]) Metadata() OpMetadata {
	return NewBatchMetadataBuilder(b.snapshot()).Build()
}

// Rollback compensates the ops that succeeded during the batch's most
// recent Perform call, in LIFO order. Perform already rolls back a
// failed run's successes itself (per the pre-check/LIFO-rollback
// protocol), so this only has work to do when a BatchOp that itself
// completed successfully is nested inside an outer composite that later
// fails and compensates it.
func (b *BatchOp[T]) Rollback(ctx context.Context, dry *DryContext, wet *WetContext) error {
	b.mu.Lock()
	succeeded := b.succeeded
	b.succeeded = nil
	b.mu.Unlock()

	rollbackAll(ctx, dry, wet, succeeded)
	return nil
}

// Perform runs the batch's ops in order. On abort (pre-existing or
// mid-flight) or on any non-continued failure, the ops that had already
// succeeded are rolled back in LIFO order before the error is returned.
// An internal loop continue/break signal from an op is not a failure: the
// op's result is kept, nothing is rolled back, and the signal is returned
// unchanged with the results so far.
func (b *BatchOp[T]) Perform(ctx context.Context, dry *DryContext, wet *WetContext) ([]T, error) {
	ops := b.snapshot()
	results := make([]T, 0, len(ops))
	var succeeded []AnyOp[T]

	for i, op := range ops {
		if dry.IsAborted() {
			rollbackAll(ctx, dry, wet, succeeded)
			return nil, NewAborted(dry.AbortReason())
		}

		result, err := op.Perform(ctx, dry, wet)
		if err == nil {
			results = append(results, result)
			succeeded = append(succeeded, op)
			continue
		}

		if reason, ok := AsAborted(err); ok {
			rollbackAll(ctx, dry, wet, succeeded)
			return nil, NewAborted(reason)
		}

		if isLoopContinue(err) || isLoopBreak(err) {
			results = append(results, result)
			succeeded = append(succeeded, op)
			b.mu.Lock()
			b.succeeded = succeeded
			b.mu.Unlock()
			return results, err
		}

		if b.continueOnError {
			continue
		}

		rollbackAll(ctx, dry, wet, succeeded)
		return nil, NewBatchFailed(fmt.Sprintf("Op %d-%s failed: %s", i, op.Name(), err.Error()))
	}

	b.mu.Lock()
	b.succeeded = succeeded
	b.mu.Unlock()

	return results, nil
}

// rollbackAll compensates ops in LIFO order, swallowing individual
// rollback failures (best-effort, per the specification).
func rollbackAll[T any](ctx context.Context, dry *DryContext, wet *WetContext, ops []AnyOp[T]) {
	for i := len(ops) - 1; i >= 0; i-- {
		_ = ops[i].Rollback(ctx, dry, wet)
	}
}
