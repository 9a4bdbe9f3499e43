package ops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// metaOp is a minimal Op[int] whose only purpose is to carry a fixed
// OpMetadata through BatchMetadataBuilder.
type metaOp struct {
	NoRollback
	meta OpMetadata
}

func (o *metaOp) Metadata() OpMetadata { return o.meta }
func (o *metaOp) Perform(ctx context.Context, dry *DryContext, wet *WetContext) (int, error) {
	return 0, nil
}

// Invariant 12: BatchMetadataBuilder's "required" excludes every field
// produced by an earlier op's outputSchema.properties.
func TestBatchMetadataBuilderExcludesFieldsProducedEarlier(t *testing.T) {
	first := Wrap[int](&metaOp{meta: OpMetadata{
		Name:         "first",
		OutputSchema: Schema{"properties": map[string]any{"userId": map[string]any{"type": "string"}}},
	}})
	second := Wrap[int](&metaOp{meta: OpMetadata{
		Name:        "second",
		InputSchema: Schema{"required": []any{"userId", "amount"}, "properties": map[string]any{"userId": map[string]any{"type": "string"}, "amount": map[string]any{"type": "number"}}},
	}})

	built := NewBatchMetadataBuilder([]AnyOp[int]{first, second}).Build()

	required := built.InputSchema.Required()
	assert.NotContains(t, required, "userId", "userId is produced by the first op's output schema")
	assert.Contains(t, required, "amount")
}

func TestBatchMetadataBuilderMergesReferenceSchemas(t *testing.T) {
	first := Wrap[int](&metaOp{meta: OpMetadata{
		ReferenceSchema: Schema{"required": []any{"db"}, "properties": map[string]any{"db": map[string]any{"type": "object"}}},
	}})
	second := Wrap[int](&metaOp{meta: OpMetadata{
		ReferenceSchema: Schema{"required": []any{"cache"}, "properties": map[string]any{"cache": map[string]any{"type": "object"}}},
	}})

	built := NewBatchMetadataBuilder([]AnyOp[int]{first, second}).Build()

	refRequired := built.ReferenceSchema.Required()
	assert.ElementsMatch(t, []string{"db", "cache"}, refRequired)
	assert.Len(t, built.ReferenceSchema.Properties(), 2)
}

func TestBatchMetadataBuilderOutputSchemaSizedToOpCount(t *testing.T) {
	ops := []AnyOp[int]{
		Wrap[int](&metaOp{}),
		Wrap[int](&metaOp{}),
		Wrap[int](&metaOp{}),
	}
	built := NewBatchMetadataBuilder(ops).Build()

	assert.Equal(t, "array", built.OutputSchema["type"])
	assert.Equal(t, 3, built.OutputSchema["minItems"])
	assert.Equal(t, 3, built.OutputSchema["maxItems"])
}

func TestBatchMetadataBuilderBareStringOutputSatisfiesResultField(t *testing.T) {
	first := Wrap[int](&metaOp{meta: OpMetadata{OutputSchema: Schema{"type": "string"}}})
	second := Wrap[int](&metaOp{meta: OpMetadata{
		InputSchema: Schema{"required": []any{"result"}, "properties": map[string]any{"result": map[string]any{"type": "string"}}},
	}})

	built := NewBatchMetadataBuilder([]AnyOp[int]{first, second}).Build()

	assert.NotContains(t, built.InputSchema.Required(), "result", "a bare-string output satisfies a later op's 'result' requirement")
}
