package set

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetInsertAndContains(t *testing.T) {
	var s Set[string]
	assert.False(t, s.Contains("a"))

	s.Insert("a")
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains("b"))
}

func TestSetLenAndKeys(t *testing.T) {
	var s Set[int]
	assert.Equal(t, 0, s.Len())

	s.Insert(1)
	s.Insert(2)
	s.Insert(2)

	assert.Equal(t, 2, s.Len())
	assert.ElementsMatch(t, []int{1, 2}, s.Keys())
}
