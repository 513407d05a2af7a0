// Package schedule implements spec §4.7: turning the dependency graph into a
// linear emission order the emission planner consumes. Grounded on the
// teacher pack's post-order DAG walk over its analysis IRGraph
// (analyzer/graph_exporter.go), generalized here to walk the component DAG
// produced by depgraph instead of a flat record graph.
package schedule

import (
	"go.uber.org/zap"

	"github.com/viant/livegraph/depgraph"
	"github.com/viant/livegraph/record"
)

// Step is one emission step: a single record to construct, or a post-hoc
// assignment node attached to a record, emitted once every record has been
// constructed.
type Step struct {
	Record  *record.Record
	PostHoc record.Node // set when this step emits a post-hoc node instead of Record's own Plan
}

// Scheduler produces a linear sequence of emission steps from a traced,
// cycle-broken record store (spec §4.7).
type Scheduler struct {
	log *zap.SugaredLogger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger attaches a structured logger; omitted, the scheduler is silent.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Scheduler) { s.log = l }
}

// New creates a Scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{log: zap.NewNop().Sugar()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Schedule walks store's SCC-DAG in post-order (dependencies before
// dependents, per depgraph.FindComponents's Tarjan discovery order) and
// emits, within each cyclic component, the head record first, then its
// remaining members (spec §4.7). Post-hoc assignment nodes are held back
// and emitted after every record step, in the same relative order, so each
// one runs only once every record it refers to is bound.
func (s *Scheduler) Schedule(store *record.Store) []Step {
	components := depgraph.FindComponents(store)
	var steps, postHoc []Step
	for _, comp := range components {
		for _, st := range s.scheduleComponent(comp) {
			if st.PostHoc != nil {
				postHoc = append(postHoc, st)
				continue
			}
			steps = append(steps, st)
		}
	}
	return append(steps, postHoc...)
}

func (s *Scheduler) scheduleComponent(comp depgraph.Component) []Step {
	var steps []Step
	if !comp.Cyclic() {
		r := comp.Records[0]
		s.log.Debugw("schedule record", "id", r.ID, "cyclic", false)
		steps = append(steps, Step{Record: r})
		steps = append(steps, postHocSteps(r)...)
		return steps
	}

	head := depgraph.Head(comp)
	s.log.Debugw("schedule component", "size", len(comp.Records), "head", head.ID)
	steps = append(steps, Step{Record: head})
	for _, r := range comp.Records {
		if r == head {
			continue
		}
		steps = append(steps, Step{Record: r})
	}
	steps = append(steps, postHocSteps(head)...)
	for _, r := range comp.Records {
		if r == head {
			continue
		}
		steps = append(steps, postHocSteps(r)...)
	}
	return steps
}

func postHocSteps(r *record.Record) []Step {
	steps := make([]Step, 0, len(r.PostHoc))
	for _, n := range r.PostHoc {
		steps = append(steps, Step{Record: r, PostHoc: n})
	}
	return steps
}
