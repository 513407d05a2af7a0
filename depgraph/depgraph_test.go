package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/livegraph/introspect"
	"github.com/viant/livegraph/record"
)

func mkDescriptor() introspect.PropertyDescriptor {
	return introspect.PropertyDescriptor{Writable: true, Enumerable: true, Configurable: true}
}

func TestFindComponentsAcyclicChain(t *testing.T) {
	store := record.NewStore()
	a := store.New(record.KindComposite, "a")
	b := store.New(record.KindComposite, "b")
	a.AddOut(&record.Edge{Kind: record.EdgePropertyValue, Target: b})

	comps := FindComponents(store)
	require.Len(t, comps, 2)
	for _, c := range comps {
		assert.False(t, c.Cyclic())
	}
	// b (the dependency) must be discovered before a.
	assert.Same(t, b, comps[0].Records[0])
	assert.Same(t, a, comps[1].Records[0])
}

func TestFindComponentsDetectsTwoRecordCycle(t *testing.T) {
	store := record.NewStore()
	a := store.New(record.KindComposite, "a")
	b := store.New(record.KindComposite, "b")
	a.AddOut(&record.Edge{Kind: record.EdgePropertyValue, Target: b})
	b.AddOut(&record.Edge{Kind: record.EdgePropertyValue, Target: a})

	comps := FindComponents(store)
	require.Len(t, comps, 1)
	assert.True(t, comps[0].Cyclic())
	assert.ElementsMatch(t, []*record.Record{a, b}, comps[0].Records)
}

func buildTwoCycle() (*record.Store, *record.Record, *record.Record) {
	store := record.NewStore()
	a := store.New(record.KindComposite, "a")
	b := store.New(record.KindComposite, "b")
	nextDesc := mkDescriptor()
	prevDesc := mkDescriptor()
	a.Plan = &record.ContainerLiteral{
		Kind: record.KindComposite,
		Entries: []record.ContainerEntry{
			{Slot: record.SlotStep{Kind: record.SlotProperty, Key: "next"}, Ref: b,
				Descriptor: &nextDesc},
		},
	}
	b.Plan = &record.ContainerLiteral{
		Kind: record.KindComposite,
		Entries: []record.ContainerEntry{
			{Slot: record.SlotStep{Kind: record.SlotProperty, Key: "prev"}, Ref: a,
				Descriptor: &prevDesc},
		},
	}
	a.AddOut(&record.Edge{Kind: record.EdgePropertyValue, Target: b, Slot: record.Slot{{Kind: record.SlotProperty, Key: "next"}}})
	b.AddOut(&record.Edge{Kind: record.EdgePropertyValue, Target: a, Slot: record.Slot{{Kind: record.SlotProperty, Key: "prev"}}})
	return store, a, b
}

func TestBreakRewritesCyclicEdgeToPlaceholder(t *testing.T) {
	store, a, b := buildTwoCycle()
	require.NoError(t, Break(store))

	// a is the chosen head (lowest id on the tie-break): its reference to b
	// is emitted before b exists, so it must become a placeholder.
	aLit := a.Plan.(*record.ContainerLiteral)
	assert.True(t, aLit.Entries[0].Placeholder)
	assert.Nil(t, aLit.Entries[0].Ref)
	require.Len(t, a.PostHoc, 1)
	aSet, ok := a.PostHoc[0].(*record.PropertySet)
	require.True(t, ok)
	assert.Equal(t, "next", aSet.Key)
	assert.Same(t, b, aSet.Value)

	// b is emitted after a, so its reference back to a needs no rewriting:
	// a already exists by the time b's literal is constructed.
	bLit := b.Plan.(*record.ContainerLiteral)
	assert.False(t, bLit.Entries[0].Placeholder)
	assert.Same(t, a, bLit.Entries[0].Ref)
	assert.Empty(t, b.PostHoc)
}

func TestBreakLeavesAcyclicGraphUntouched(t *testing.T) {
	store := record.NewStore()
	a := store.New(record.KindComposite, "a")
	b := store.New(record.KindComposite, "b")
	a.AddOut(&record.Edge{Kind: record.EdgePropertyValue, Target: b})

	require.NoError(t, Break(store))
	assert.Empty(t, a.PostHoc)
	assert.Empty(t, b.PostHoc)
}

func TestBreakReturnsUnbreakableCycleForPrototypeEdge(t *testing.T) {
	store := record.NewStore()
	a := store.New(record.KindComposite, "a")
	b := store.New(record.KindComposite, "b")
	a.Plan = &record.ContainerLiteral{Kind: record.KindComposite, Proto: b}
	b.Plan = &record.ContainerLiteral{Kind: record.KindComposite}
	a.AddOut(&record.Edge{Kind: record.EdgePrototype, Target: b, Slot: record.Slot{{Kind: record.SlotPrototype}}})
	b.AddOut(&record.Edge{Kind: record.EdgePropertyValue, Target: a, Slot: record.Slot{{Kind: record.SlotProperty, Key: "owner"}}})

	err := Break(store)
	require.Error(t, err)
	var unbreakable *ErrUnbreakableCycle
	require.ErrorAs(t, err, &unbreakable)
}

func TestChooseHeadPrefersMemberWithNoCyclicDependency(t *testing.T) {
	store := record.NewStore()
	a := store.New(record.KindComposite, "a") // mutually depends on b
	b := store.New(record.KindComposite, "b")
	c := store.New(record.KindComposite, "c") // depends on nothing inside the component
	a.AddOut(&record.Edge{Kind: record.EdgePropertyValue, Target: b})
	b.AddOut(&record.Edge{Kind: record.EdgePropertyValue, Target: a})

	comp := Component{Records: []*record.Record{a, b, c}}
	require.True(t, comp.Cyclic())
	head := chooseHead(comp)
	assert.Same(t, c, head)
}

func TestCycleBreakerBreaksSameAsPackageLevelBreak(t *testing.T) {
	store, a, b := buildTwoCycle()
	require.NoError(t, NewCycleBreaker().Break(store))

	aLit := a.Plan.(*record.ContainerLiteral)
	bLit := b.Plan.(*record.ContainerLiteral)
	assert.True(t, aLit.Entries[0].Placeholder)
	assert.False(t, bLit.Entries[0].Placeholder)
}

func TestHeadOfSingleRecordComponentIsItself(t *testing.T) {
	store := record.NewStore()
	a := store.New(record.KindComposite, "a")
	comps := FindComponents(store)
	require.Len(t, comps, 1)
	assert.Same(t, a, Head(comps[0]))
}
