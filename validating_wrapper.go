package ops

import (
	"context"
	"encoding/json"
	"fmt"
)

// ValidatingWrapper checks an op's input, reference, and output against
// its declared schemas before/after delegating to Perform.
type ValidatingWrapper[T any] struct {
	inner             AnyOp[T]
	validateInput     bool
	validateReference bool
	validateOutput    bool
}

// NewValidatingWrapper wraps inner with the given toggles. Reference
// validation is forced on whenever the op declares a reference schema,
// regardless of validateReference.
func NewValidatingWrapper[T any](inner AnyOp[T], validateInput, validateReference, validateOutput bool) *ValidatingWrapper[T] {
	return &ValidatingWrapper[T]{
		inner:             inner,
		validateInput:     validateInput,
		validateReference: validateReference,
		validateOutput:    validateOutput,
	}
}

// Metadata implements Op.
func (v *ValidatingWrapper[T]) Metadata() OpMetadata {
	return v.inner.Metadata()
}

// Rollback implements Op by delegating to the wrapped op.
func (v *ValidatingWrapper[T]) Rollback(ctx context.Context, dry *DryContext, wet *WetContext) error {
	return v.inner.Rollback(ctx, dry, wet)
}

// Perform implements Op, validating input/reference schemas before
// delegating, and the output schema after.
func (v *ValidatingWrapper[T]) Perform(ctx context.Context, dry *DryContext, wet *WetContext) (T, error) {
	var zero T
	meta := v.inner.Metadata()
	name := meta.Name

	if v.validateInput && meta.InputSchema != nil {
		snapshot := dry.snapshot()
		if failures := validateAgainstSchema(meta.InputSchema, snapshot); len(failures) > 0 {
			return zero, NewContextError(fmt.Sprintf("Input validation failed for %s: %s", name, formatFailures(failures)))
		}
	}

	if meta.ReferenceSchema != nil {
		for _, ref := range meta.ReferenceSchema.Required() {
			if !wet.Contains(ref) {
				return zero, NewContextError(fmt.Sprintf("Required reference '%s' not found in WetContext for op '%s'", ref, name))
			}
		}
	}

	result, err := v.inner.Perform(ctx, dry, wet)
	if err != nil {
		return zero, err
	}

	if v.validateOutput && meta.OutputSchema != nil {
		payload, err := serializeOutputForValidation(result, meta.OutputSchema)
		if err != nil {
			return zero, NewContextError("Failed to serialize output for validation")
		}
		if failures := validateAgainstSchema(meta.OutputSchema, payload); len(failures) > 0 {
			return zero, NewContextError(fmt.Sprintf("Output validation failed for %s: %s", name, formatFailures(failures)))
		}
	}

	return result, nil
}

// serializeOutputForValidation marshals result and decodes it back into a
// map[string]any, wrapping scalar outputs as {"value": v} first so
// validateAgainstSchema always has an object to check.
func serializeOutputForValidation(result any, schema Schema) (map[string]any, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}

	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, err
	}

	if obj, ok := decoded.(map[string]any); ok {
		return obj, nil
	}
	return map[string]any{"value": decoded}, nil
}
