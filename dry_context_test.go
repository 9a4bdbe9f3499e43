package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDryContextContainsAndGet(t *testing.T) {
	dry := NewDryContext()
	assert.False(t, dry.Contains("x"))

	dry.Insert(42, "x")
	assert.True(t, dry.Contains("x"))

	v, err := Get[int](dry, "x")
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestDryContextGetRequiredDistinguishesNotFoundFromMismatch(t *testing.T) {
	dry := NewDryContext()

	_, err := GetRequired[int](dry, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	dry.Insert("not a number", "x")
	_, err = GetRequired[int](dry, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Type mismatch")
}

func TestDryContextAbortFlagStaysUntilCleared(t *testing.T) {
	dry := NewDryContext()
	assert.False(t, dry.IsAborted())

	dry.SetAbort("because")
	assert.True(t, dry.IsAborted())
	assert.Equal(t, "because", dry.AbortReason())

	dry.SetAbort("because again")
	assert.True(t, dry.IsAborted())

	dry.ClearControlFlags()
	assert.False(t, dry.IsAborted())
}

func TestDryContextMergeDoesNotOverrideExistingAbort(t *testing.T) {
	self := NewDryContext()
	self.SetAbort("first reason")
	self.Insert("self-value", "shared")

	other := NewDryContext()
	other.SetAbort("second reason")
	other.Insert("other-value", "shared")
	other.Insert("unique", "only-in-other")

	self.Merge(other)

	assert.True(t, self.IsAborted())
	assert.Equal(t, "first reason", self.AbortReason())

	shared, err := Get[string](self, "shared")
	require.NoError(t, err)
	assert.Equal(t, "other-value", shared, "merge overwrites values at overlapping keys")

	unique, err := Get[string](self, "only-in-other")
	require.NoError(t, err)
	assert.Equal(t, "unique", unique)
}

func TestDryContextMergeCopiesAbortWhenSelfNotAborted(t *testing.T) {
	self := NewDryContext()
	other := NewDryContext()
	other.SetAbort("reason")

	self.Merge(other)

	assert.True(t, self.IsAborted())
	assert.Equal(t, "reason", self.AbortReason())
}

func TestDryContextCopyIsIndependent(t *testing.T) {
	original := NewDryContext()
	original.Insert("original", "k")

	copy := original.Copy()
	copy.Insert("changed", "k")
	copy.Insert("new", "only-on-copy")

	v, err := Get[string](original, "k")
	require.NoError(t, err)
	assert.Equal(t, "original", v, "mutating the copy must not affect the source")

	assert.False(t, original.Contains("only-on-copy"))
}

func TestDryContextGetOrInsert(t *testing.T) {
	dry := NewDryContext()
	called := false

	v, err := GetOrInsert(dry, "k", func() int {
		called = true
		return 7
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.True(t, called)

	called = false
	v, err = GetOrInsert(dry, "k", func() int {
		called = true
		return 99
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v, "factory must not run again once a value is present")
	assert.False(t, called)
}

func TestDryContextInsertPanicsOnNonSerializableValue(t *testing.T) {
	dry := NewDryContext()
	assert.Panics(t, func() {
		dry.Insert(make(chan int), "bad")
	})
}
