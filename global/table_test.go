package global

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeValue struct{ id uintptr }

func (f fakeValue) Identity() uintptr { return f.id }

func TestRegisterAndResolveByIdentity(t *testing.T) {
	tbl := NewTable()
	objectAssign := fakeValue{id: 42}
	e := &Entry{Key: "Object.assign", Kind: EntryTopLevel}
	tbl.Register(e, objectAssign)

	found, ok := tbl.Resolve(objectAssign)
	require.True(t, ok)
	assert.Same(t, e, found)

	_, ok = tbl.Resolve(fakeValue{id: 999})
	assert.False(t, ok)
}

func TestResolveNilValueMissesTable(t *testing.T) {
	tbl := NewTable()
	_, ok := tbl.Resolve(nil)
	assert.False(t, ok)
}

func TestRegisterMemberBuildsPath(t *testing.T) {
	tbl := NewTable()
	objectEntry := &Entry{Key: "Object", Kind: EntryTopLevel}
	tbl.Register(objectEntry, fakeValue{id: 1})

	assignFn := fakeValue{id: 2}
	member := tbl.RegisterMember(objectEntry, "assign", assignFn)

	assert.Equal(t, "Object.assign", member.Key)
	assert.Equal(t, "Object.assign", member.Path())

	found, ok := tbl.Resolve(assignFn)
	require.True(t, ok)
	assert.Equal(t, EntryMemberOf, found.Kind)
}

func TestRegisterPrototypeAndAccessor(t *testing.T) {
	tbl := NewTable()
	arrayEntry := &Entry{Key: "Array", Kind: EntryTopLevel}
	tbl.Register(arrayEntry, fakeValue{id: 10})

	proto := tbl.RegisterPrototype(arrayEntry, fakeValue{id: 11})
	assert.Equal(t, "Array.prototype", proto.Key)
	assert.Equal(t, EntryPrototypeOf, proto.Kind)

	accessor := tbl.RegisterAccessor(arrayEntry, "length", fakeValue{id: 12})
	assert.Equal(t, "Array#length", accessor.Key)
	assert.Equal(t, EntryAccessorOf, accessor.Kind)
}

func TestLookupByKey(t *testing.T) {
	tbl := NewTable()
	e := &Entry{Key: "util.promisify", Kind: EntryModuleImport, Module: "util"}
	tbl.Register(e, fakeValue{id: 77})

	found, ok := tbl.Lookup("util.promisify")
	require.True(t, ok)
	assert.Same(t, e, found)

	_, ok = tbl.Lookup("missing")
	assert.False(t, ok)
}
