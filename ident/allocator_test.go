package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateMangledShortNames(t *testing.T) {
	a := NewAllocator(true)
	names := make([]string, 5)
	for i := range names {
		names[i] = a.Allocate("whatever", 0)
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, names)
}

func TestAllocateHintedUniquified(t *testing.T) {
	a := NewAllocator(false)
	n1 := a.Allocate("value", 0)
	n2 := a.Allocate("value", 0)
	require.Equal(t, "value", n1)
	assert.Equal(t, "value2", n2)
}

func TestAllocateSanitizesHint(t *testing.T) {
	a := NewAllocator(false)
	name := a.Allocate("my-weird.name!", 0)
	assert.Equal(t, "my_weird_name_", name)
}

func TestAllocateAvoidsReservedWords(t *testing.T) {
	a := NewAllocator(false)
	name := a.Allocate("class", 0)
	assert.Equal(t, "_class", name)
}

func TestReserveBlocksAllocate(t *testing.T) {
	a := NewAllocator(false)
	a.Reserve("taken", 0)
	name := a.Allocate("taken", 0)
	assert.Equal(t, "taken2", name)
}

func TestNestedScopeSeesParentNames(t *testing.T) {
	a := NewAllocator(false)
	a.Reserve("x", 0)
	child := a.NewScope(0)
	name := a.Allocate("x", child)
	assert.Equal(t, "x2", name)
}

func TestSiblingScopesDoNotCollide(t *testing.T) {
	a := NewAllocator(true)
	s1 := a.NewScope(0)
	s2 := a.NewScope(0)
	n1 := a.Allocate("x", s1)
	n2 := a.Allocate("x", s2)
	assert.Equal(t, "a", n1)
	assert.Equal(t, "a", n2)
}

func TestFreezeWithNamePreventsReuse(t *testing.T) {
	a := NewAllocator(true)
	a.FreezeWithName("n", 0)
	assert.True(t, a.IsFrozen("n", 0))
	name := a.Allocate("n", 0)
	assert.NotEqual(t, "n", name)
}

func TestBase26Sequence(t *testing.T) {
	assert.Equal(t, "a", base26(0))
	assert.Equal(t, "z", base26(25))
	assert.Equal(t, "aa", base26(26))
	assert.Equal(t, "az", base26(51))
	assert.Equal(t, "ba", base26(52))
}
