package livegraph

import "github.com/viant/livegraph/record"

// TracePlugin is a SPEC_FULL supplemented feature: a hook an embedder can
// register to observe or annotate traced records, without the tracer itself
// needing to know about any particular downstream consumer (source-map
// position annotation, stats collection, etc).
type TracePlugin interface {
	// OnRecord is called once per record, in discovery order, after the
	// whole trace has completed and before cycle breaking.
	OnRecord(r *record.Record)
}

// PluginFunc adapts a function to TracePlugin.
type PluginFunc func(r *record.Record)

// OnRecord implements TracePlugin.
func (f PluginFunc) OnRecord(r *record.Record) { f(r) }

func runPlugins(plugins []TracePlugin, store *record.Store) {
	if len(plugins) == 0 {
		return
	}
	for _, r := range store.All() {
		for _, p := range plugins {
			p.OnRecord(r)
		}
	}
}
