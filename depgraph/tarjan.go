// Package depgraph implements spec §4.6: finding strongly-connected
// components of the record dependency graph and breaking the cyclic ones so
// scheduling can proceed, grounded on the teacher pack's index-addressed
// intermediate-representation graph (analyzer/graph_exporter.go's IRGraph)
// generalized from a one-shot export structure to a live SCC pass.
package depgraph

import "github.com/viant/livegraph/record"

// Component is one strongly-connected component, in the reverse-topological
// order Tarjan's algorithm discovers them: a component's dependencies
// always appear in an earlier (or the same) component.
type Component struct {
	Records []*record.Record
}

// Cyclic reports whether breaking is required: more than one record, or a
// single record with a self-loop.
func (c Component) Cyclic() bool {
	if len(c.Records) > 1 {
		return true
	}
	if len(c.Records) == 1 {
		r := c.Records[0]
		for _, e := range r.Out {
			if e.Target == r {
				return true
			}
		}
	}
	return false
}

// FindComponents runs Tarjan's algorithm over store, treating every
// non-post-hoc outgoing edge as a graph edge (spec §4.6: "After tracing,
// edges form a directed graph on records").
func FindComponents(store *record.Store) []Component {
	t := &tarjan{
		index:   map[record.ID]int{},
		lowlink: map[record.ID]int{},
		onStack: map[record.ID]bool{},
	}
	for _, r := range store.All() {
		if _, seen := t.index[r.ID]; !seen {
			t.strongConnect(r)
		}
	}
	return t.components
}

type tarjan struct {
	counter    int
	index      map[record.ID]int
	lowlink    map[record.ID]int
	onStack    map[record.ID]bool
	stack      []*record.Record
	components []Component
}

func (t *tarjan) strongConnect(v *record.Record) {
	t.index[v.ID] = t.counter
	t.lowlink[v.ID] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v.ID] = true

	for _, e := range v.Out {
		if e.Kind == record.EdgePostHoc || e.Target == nil {
			continue
		}
		w := e.Target
		if _, seen := t.index[w.ID]; !seen {
			t.strongConnect(w)
			if t.lowlink[w.ID] < t.lowlink[v.ID] {
				t.lowlink[v.ID] = t.lowlink[w.ID]
			}
		} else if t.onStack[w.ID] {
			if t.index[w.ID] < t.lowlink[v.ID] {
				t.lowlink[v.ID] = t.index[w.ID]
			}
		}
	}

	if t.lowlink[v.ID] == t.index[v.ID] {
		var comp Component
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w.ID] = false
			comp.Records = append(comp.Records, w)
			if w.ID == v.ID {
				break
			}
		}
		t.components = append(t.components, comp)
	}
}
