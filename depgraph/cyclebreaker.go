package depgraph

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/viant/livegraph/record"
)

// CycleBreaker is the logging-aware entry point for spec §4.6, wrapping
// Break so the engine can observe head-selection and rewrite decisions
// (spec §5 "(added) Logging": "debug-level breadcrumbs ... at every
// cycle-breaker decision").
type CycleBreaker struct {
	log *zap.SugaredLogger
}

// CycleBreakerOption configures a CycleBreaker.
type CycleBreakerOption func(*CycleBreaker)

// WithLogger attaches a structured logger; omitted, the breaker is silent.
func WithLogger(l *zap.SugaredLogger) CycleBreakerOption {
	return func(b *CycleBreaker) { b.log = l }
}

// NewCycleBreaker creates a CycleBreaker.
func NewCycleBreaker(opts ...CycleBreakerOption) *CycleBreaker {
	b := &CycleBreaker{log: zap.NewNop().Sugar()}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Break finds every cyclic component in store and rewrites it, logging the
// chosen head of each component and the error if breaking fails.
func (b *CycleBreaker) Break(store *record.Store) error {
	for _, comp := range FindComponents(store) {
		if !comp.Cyclic() {
			continue
		}
		head := chooseHead(comp)
		b.log.Debugw("cycle breaker selected head", "size", len(comp.Records), "head", head.ID)
		if err := breakComponent(comp); err != nil {
			b.log.Debugw("cycle breaker failed", "error", err.Error())
			return err
		}
	}
	return nil
}

// ErrUnbreakableCycle is the depgraph-stage cause behind spec §7's
// "cycle-through-non-rewritable-slot" error: a cycle runs through an edge
// that cannot legally be rewritten into a placeholder.
type ErrUnbreakableCycle struct {
	Record *record.Record
	Slot   record.Slot
}

func (e *ErrUnbreakableCycle) Error() string {
	return fmt.Sprintf("depgraph: record %d has a cyclic dependency through a non-rewritable slot", e.Record.ID)
}

// Break finds every non-trivial component in store and rewrites its cyclic
// edges into placeholder entries plus post-hoc assignments (spec §4.6).
// Non-cyclic components are left untouched.
func Break(store *record.Store) error {
	for _, comp := range FindComponents(store) {
		if !comp.Cyclic() {
			continue
		}
		if err := breakComponent(comp); err != nil {
			return err
		}
	}
	return nil
}

func inComponent(comp Component, r *record.Record) bool {
	for _, m := range comp.Records {
		if m == r {
			return true
		}
	}
	return false
}

// chooseHead implements the three heuristics of spec §4.6 in order:
// a member needing no other member, else the member with fewest cyclic
// edges, else the lowest record id.
func chooseHead(comp Component) *record.Record {
	cyclicEdgeCount := map[record.ID]int{}
	var noCyclicMember []*record.Record
	for _, r := range comp.Records {
		n := 0
		for _, e := range r.Out {
			if e.Kind != record.EdgePostHoc && inComponent(comp, e.Target) {
				n++
			}
		}
		cyclicEdgeCount[r.ID] = n
		if n == 0 {
			noCyclicMember = append(noCyclicMember, r)
		}
	}

	candidates := noCyclicMember
	if len(candidates) == 0 {
		min := -1
		for _, r := range comp.Records {
			if min == -1 || cyclicEdgeCount[r.ID] < min {
				min = cyclicEdgeCount[r.ID]
			}
		}
		for _, r := range comp.Records {
			if cyclicEdgeCount[r.ID] == min {
				candidates = append(candidates, r)
			}
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })
	return candidates[0]
}

// Head reports the chosen head record of a cyclic component, exported for
// the scheduler (spec §4.7: "within a component, emit the head first").
func Head(comp Component) *record.Record {
	if !comp.Cyclic() {
		return comp.Records[0]
	}
	return chooseHead(comp)
}

// componentOrder assigns each member its position in the schedule the
// scheduler will later produce for this component: the chosen head first,
// then the remaining members in their Component.Records order (spec §4.7).
// breakComponent uses it to tell which edges actually need rewriting: an
// edge pointing at a member emitted earlier already has a real value to
// reference by the time the source is built, so only edges pointing at the
// source itself or at a member emitted at the same position or later need
// a placeholder.
func componentOrder(comp Component) map[*record.Record]int {
	order := make(map[*record.Record]int, len(comp.Records))
	head := chooseHead(comp)
	order[head] = 0
	i := 1
	for _, r := range comp.Records {
		if r == head {
			continue
		}
		order[r] = i
		i++
	}
	return order
}

func breakComponent(comp Component) error {
	order := componentOrder(comp)
	for _, r := range comp.Records {
		pos := order[r]
		for _, e := range r.Out {
			if e.Kind == record.EdgePostHoc || !inComponent(comp, e.Target) {
				continue
			}
			if order[e.Target] < pos {
				continue
			}
			if !e.IsBreakable() {
				return &ErrUnbreakableCycle{Record: r, Slot: e.Slot}
			}
			if err := rewriteEdge(r, e); err != nil {
				return err
			}
		}
	}
	return nil
}

// rewriteEdge replaces a cyclic edge's construction-time reference with a
// placeholder entry on source's content plan, demotes the edge to
// post-hoc, and appends a property-set node that installs the real value
// once both records are bound (spec §4.6).
func rewriteEdge(source *record.Record, e *record.Edge) error {
	lit, ok := source.Plan.(*record.ContainerLiteral)
	if !ok {
		return &ErrUnbreakableCycle{Record: source, Slot: e.Slot}
	}
	if len(e.Slot) != 1 {
		return &ErrUnbreakableCycle{Record: source, Slot: e.Slot}
	}
	for i := range lit.Entries {
		if lit.Entries[i].Slot != e.Slot[0] {
			continue
		}
		key := slotKey(lit.Entries[i].Slot)
		set := &record.PropertySet{Target: source, Key: key, Value: e.Target}
		if d := lit.Entries[i].Descriptor; d != nil {
			set.Descriptor = *d
		}
		source.PostHoc = append(source.PostHoc, set)

		lit.Entries[i].Ref = nil
		lit.Entries[i].Placeholder = true
		e.Kind = record.EdgePostHoc
		return nil
	}
	return &ErrUnbreakableCycle{Record: source, Slot: e.Slot}
}

func slotKey(s record.SlotStep) string {
	if s.Kind == record.SlotIndex {
		return fmt.Sprintf("%d", s.Index)
	}
	return s.Key
}

