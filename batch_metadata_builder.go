package ops

import (
	"fmt"

	"github.com/fortressi/ops/set"
)

// BatchMetadataBuilder computes a synthetic OpMetadata for a BatchOp by
// walking its ops in order and tracking which output fields are already
// available by the time a later op's input is checked — the "externally
// required" fields are exactly the ones no earlier op produces.
type BatchMetadataBuilder[T any] struct {
	ops []AnyOp[T]
}

// NewBatchMetadataBuilder constructs a builder over ops, in the order
// they'll run.
func NewBatchMetadataBuilder[T any](ops []AnyOp[T]) *BatchMetadataBuilder[T] {
	return &BatchMetadataBuilder[T]{ops: ops}
}

// Build runs the data-flow analysis described in the specification and
// returns the resulting synthetic metadata.
func (b *BatchMetadataBuilder[T]) Build() OpMetadata {
	var availableOutputs set.Set[string]
	var externallyRequired set.Set[string]
	var refRequired set.Set[string]
	mergedRefProps := map[string]any{}

	// Pass 1: walk ops in order, tracking which fields are available by
	// the time each op's required-input fields are checked, and which
	// reference fields are used. Availability depends on execution order,
	// so this pass cannot be combined with pass 2 below.
	for _, op := range b.ops {
		meta := op.Metadata()

		for _, field := range meta.InputSchema.Required() {
			if !availableOutputs.Contains(field) {
				externallyRequired.Insert(field)
			}
		}

		if refProps := meta.ReferenceSchema.Properties(); refProps != nil {
			for name, sub := range refProps {
				if _, already := mergedRefProps[name]; !already {
					mergedRefProps[name] = sub
				}
			}
		}
		for _, field := range meta.ReferenceSchema.Required() {
			refRequired.Insert(field)
		}

		for field := range meta.OutputSchema.Properties() {
			availableOutputs.Insert(field)
		}
		if meta.OutputSchema.IsBareString() {
			availableOutputs.Insert("result")
		}
	}

	// Pass 2: now that the full externally-required set is known, carry
	// forward property definitions for those fields, first occurrence wins.
	propsMap := map[string]any{}
	for _, op := range b.ops {
		props := op.Metadata().InputSchema.Properties()
		for name, sub := range props {
			if !externallyRequired.Contains(name) {
				continue
			}
			if _, already := propsMap[name]; !already {
				propsMap[name] = sub
			}
		}
	}

	opsCount := len(b.ops)

	return OpMetadata{
		Name:        "BatchOp",
		Description: fmt.Sprintf("Batch of %d operations with data flow analysis", opsCount),
		InputSchema: Schema{
			"properties": propsMap,
			"required":   toAnySlice(externallyRequired.Keys()),
		},
		ReferenceSchema: Schema{
			"properties": mergedRefProps,
			"required":   toAnySlice(refRequired.Keys()),
		},
		OutputSchema: Schema{
			"type":     "array",
			"minItems": opsCount,
			"maxItems": opsCount,
		},
	}
}

func toAnySlice(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
