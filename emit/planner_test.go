package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/livegraph/ident"
	"github.com/viant/livegraph/record"
	"github.com/viant/livegraph/schedule"
)

func TestPlanInlinesSingleUseRecord(t *testing.T) {
	store := record.NewStore()
	root := store.New(record.KindComposite, "root")
	child := store.New(record.KindComposite, "child")
	root.AddOut(&record.Edge{Kind: record.EdgePropertyValue, Target: child})
	root.Plan = &record.ContainerLiteral{Kind: record.KindComposite}
	child.Plan = &record.ContainerLiteral{Kind: record.KindComposite}

	steps := []schedule.Step{{Record: child}, {Record: root}}
	p := NewPlanner(ident.NewAllocator(false), Options{Inline: true})
	plan := p.Plan(steps, root)

	require.Len(t, plan.Units, 2)
	assert.True(t, plan.Units[0].Inlined)
	assert.Empty(t, child.Name)
	assert.False(t, plan.Units[1].Inlined)
	assert.Equal(t, "root", plan.Units[1].Record.Name)
}

func TestPlanNamesRecordWithMultipleConsumers(t *testing.T) {
	store := record.NewStore()
	root := store.New(record.KindComposite, "root")
	child := store.New(record.KindComposite, "child")
	root.AddOut(&record.Edge{Kind: record.EdgePropertyValue, Target: child})
	root.AddOut(&record.Edge{Kind: record.EdgePropertyValue, Target: child})
	root.Plan = &record.ContainerLiteral{Kind: record.KindComposite}
	child.Plan = &record.ContainerLiteral{Kind: record.KindComposite}

	steps := []schedule.Step{{Record: child}, {Record: root}}
	p := NewPlanner(ident.NewAllocator(false), Options{Inline: true})
	plan := p.Plan(steps, root)

	require.Len(t, plan.Units, 2)
	assert.False(t, plan.Units[0].Inlined)
	assert.Equal(t, "child", plan.Units[0].Record.Name)
}

func TestPlanNeverInlinesWhenInlineDisabled(t *testing.T) {
	store := record.NewStore()
	root := store.New(record.KindComposite, "root")
	child := store.New(record.KindComposite, "child")
	root.AddOut(&record.Edge{Kind: record.EdgePropertyValue, Target: child})
	root.Plan = &record.ContainerLiteral{Kind: record.KindComposite}
	child.Plan = &record.ContainerLiteral{Kind: record.KindComposite}

	steps := []schedule.Step{{Record: child}, {Record: root}}
	p := NewPlanner(ident.NewAllocator(false), Options{Inline: false})
	plan := p.Plan(steps, root)

	for _, u := range plan.Units {
		assert.False(t, u.Inlined)
	}
}

func TestPlanGroupsScopeReturnsIntoFactoryUnit(t *testing.T) {
	store := record.NewStore()
	scope := store.New(record.KindScope, "scope")
	fn := store.New(record.KindFunction, "fn")
	scope.ScopeReturns = []*record.Record{fn}
	scope.Plan = &record.ScopeFactory{Returns: []*record.Record{fn}}
	fn.Plan = &record.FunctionLiteral{Scope: scope}

	steps := []schedule.Step{{Record: scope}, {Record: fn}}
	p := NewPlanner(ident.NewAllocator(false), Options{Inline: true})
	plan := p.Plan(steps, scope)

	require.Len(t, plan.Units, 1)
	assert.Equal(t, []*record.Record{fn}, plan.Units[0].FactoryFor)
	assert.NotEmpty(t, fn.Name)
}

func TestPlanKeepsPostHocTargetNamedEvenWithSingleConsumer(t *testing.T) {
	store := record.NewStore()
	a := store.New(record.KindComposite, "a")
	b := store.New(record.KindComposite, "b")
	a.AddOut(&record.Edge{Kind: record.EdgePostHoc, Target: b})
	a.PostHoc = append(a.PostHoc, &record.PropertySet{Target: a, Key: "next", Value: b})
	a.Plan = &record.ContainerLiteral{Kind: record.KindComposite}
	b.Plan = &record.ContainerLiteral{Kind: record.KindComposite}

	steps := []schedule.Step{
		{Record: a},
		{Record: a, PostHoc: a.PostHoc[0]},
		{Record: b},
	}
	p := NewPlanner(ident.NewAllocator(false), Options{Inline: true})
	plan := p.Plan(steps, a)

	var bUnit *Unit
	for i := range plan.Units {
		if plan.Units[i].Record == b {
			bUnit = &plan.Units[i]
		}
	}
	require.NotNil(t, bUnit)
	assert.False(t, bUnit.Inlined)
	assert.NotEmpty(t, b.Name)
}
