package planprint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/livegraph/emit"
	"github.com/viant/livegraph/ident"
	"github.com/viant/livegraph/record"
	"github.com/viant/livegraph/schedule"
)

func TestRenderNamesBindingsAndInlinesSingleUse(t *testing.T) {
	store := record.NewStore()
	root := store.New(record.KindComposite, "root")
	child := store.New(record.KindComposite, "child")
	root.AddOut(&record.Edge{Kind: record.EdgePropertyValue, Target: child,
		Slot: record.Slot{{Kind: record.SlotProperty, Key: "child"}}})
	child.Plan = record.Literal{Kind: "integer", Value: 1}
	root.Plan = &record.ContainerLiteral{Kind: record.KindComposite, Entries: []record.ContainerEntry{
		{Slot: record.SlotStep{Kind: record.SlotProperty, Key: "child"}, Ref: child},
	}}

	steps := []schedule.Step{{Record: child}, {Record: root}}
	planner := emit.NewPlanner(ident.NewAllocator(false), emit.Options{Format: emit.FormatExpression, Inline: true})
	plan := planner.Plan(steps, root)

	out := Render(plan)
	require.NotEmpty(t, out)
	assert.True(t, strings.Contains(out, "format=expression"))
	assert.True(t, strings.Contains(out, "inline"))
	assert.True(t, strings.Contains(out, "literal(1)"))
	assert.True(t, strings.Contains(out, "const root ="))
	assert.True(t, strings.Contains(out, "container(composite-object)[child:"))
}

func TestRenderShowsPlaceholderEntries(t *testing.T) {
	store := record.NewStore()
	a := store.New(record.KindComposite, "a")
	a.Plan = &record.ContainerLiteral{Kind: record.KindComposite, Entries: []record.ContainerEntry{
		{Slot: record.SlotStep{Kind: record.SlotProperty, Key: "self"}, Placeholder: true},
	}}
	steps := []schedule.Step{{Record: a}}
	planner := emit.NewPlanner(ident.NewAllocator(false), emit.Options{Format: emit.FormatExpression, Inline: true})
	plan := planner.Plan(steps, a)

	out := Render(plan)
	assert.True(t, strings.Contains(out, "self:<placeholder>"))
}

func TestRenderFactoryGroupsScopeReturns(t *testing.T) {
	store := record.NewStore()
	scope := store.New(record.KindScope, "scope")
	fn := store.New(record.KindFunction, "counter")
	scope.ScopeReturns = []*record.Record{fn}
	scope.Plan = &record.ScopeFactory{Params: []record.ScopeBinding{{Name: "start"}}, Returns: []*record.Record{fn}}
	fn.Plan = &record.FunctionLiteral{Scope: scope}

	steps := []schedule.Step{{Record: scope}, {Record: fn}}
	planner := emit.NewPlanner(ident.NewAllocator(false), emit.Options{Format: emit.FormatExpression, Inline: true})
	plan := planner.Plan(steps, scope)

	out := Render(plan)
	assert.True(t, strings.Contains(out, "const [counter] = scope-factory(start)"))
}
