package emit

import (
	"github.com/viant/livegraph/ident"
	"github.com/viant/livegraph/record"
	"github.com/viant/livegraph/schedule"
)

// Planner turns a scheduled step sequence into an abstract Plan (spec
// §4.8). All naming decisions flow through a single ident.Allocator scope
// (the root scope, id 0): the record arena's own Scope/ScopeReturns fields
// already capture lexical nesting for the printer, so the planner does not
// need a second, parallel scope hierarchy of its own.
type Planner struct {
	alloc ident.Allocator
	opts  Options
}

// NewPlanner creates a Planner.
func NewPlanner(alloc ident.Allocator, opts Options) *Planner {
	return &Planner{alloc: alloc, opts: opts}
}

// Plan builds the abstract emission plan for one serialize call.
func (p *Planner) Plan(steps []schedule.Step, root *record.Record) *Plan {
	deferred := collectPostHocTargets(steps)
	scopeOwned := collectScopeOwnedFunctions(steps)

	var units []Unit
	for _, st := range steps {
		if st.PostHoc != nil {
			units = append(units, Unit{Record: st.Record, Node: st.PostHoc})
			continue
		}

		r := st.Record
		if scopeOwned[r] {
			continue
		}

		inline := p.shouldInline(r, deferred)
		if !inline {
			r.Name = p.alloc.Allocate(r.Hint, 0)
		}
		unit := Unit{Record: r, Node: r.Plan, Inlined: inline}
		if r.Kind == record.KindScope && len(r.ScopeReturns) > 0 {
			unit.FactoryFor = r.ScopeReturns
			for _, fn := range r.ScopeReturns {
				fn.Name = p.alloc.Allocate(fn.Hint, 0)
			}
		}
		units = append(units, unit)
	}

	return &Plan{Units: units, Root: root, Format: p.opts.Format, Exec: p.opts.Exec}
}

// shouldInline implements spec §4.8's inlining rule: a record consumed
// exactly once, through an ordinary (non-post-hoc) edge, with no side
// effects of its own to defer and no deferred reference pointing at it, is
// folded into its sole consumer rather than bound to a name.
func (p *Planner) shouldInline(r *record.Record, deferred map[*record.Record]bool) bool {
	if !p.opts.Inline {
		return false
	}
	if r.Kind == record.KindScope {
		return false
	}
	if len(r.PostHoc) > 0 || deferred[r] {
		return false
	}
	if len(r.In) != 1 {
		return false
	}
	return r.In[0].Kind != record.EdgePostHoc
}

func collectPostHocTargets(steps []schedule.Step) map[*record.Record]bool {
	targets := map[*record.Record]bool{}
	for _, st := range steps {
		switch n := st.PostHoc.(type) {
		case *record.PropertySet:
			targets[n.Target] = true
			if n.Value != nil {
				targets[n.Value] = true
			}
		case *record.MethodInvocation:
			targets[n.Receiver] = true
			for _, a := range n.Args {
				targets[a] = true
			}
		}
	}
	return targets
}

func collectScopeOwnedFunctions(steps []schedule.Step) map[*record.Record]bool {
	owned := map[*record.Record]bool{}
	for _, st := range steps {
		if st.PostHoc != nil {
			continue
		}
		r := st.Record
		if r.Kind != record.KindScope {
			continue
		}
		for _, fn := range r.ScopeReturns {
			owned[fn] = true
		}
	}
	return owned
}
