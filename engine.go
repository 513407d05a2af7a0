// Package livegraph wires the whole pipeline together: §4.3 tracing, §4.6
// cycle breaking, §4.7 scheduling and §4.8 emission planning behind the
// single entry point spec §6 names, `Serialize(root, options) → output`.
package livegraph

import (
	"go.uber.org/zap"

	"github.com/viant/livegraph/closure"
	"github.com/viant/livegraph/depgraph"
	"github.com/viant/livegraph/emit"
	"github.com/viant/livegraph/emit/planprint"
	"github.com/viant/livegraph/global"
	"github.com/viant/livegraph/ident"
	"github.com/viant/livegraph/introspect"
	"github.com/viant/livegraph/record"
	"github.com/viant/livegraph/schedule"
	"github.com/viant/livegraph/tracer"
)

// Printer consumes the abstract emission plan and produces text (spec §6
// Collaborator contracts: "receives formatting options verbatim"). No
// concrete syntax-tree printer ships in this repository (§1: "the ...
// syntax-tree printer remain external collaborators"); callers supply
// their own via WithPrinter, or get the debug renderer as a fallback.
type Printer interface {
	Print(plan *emit.Plan, cfg Config) (string, error)
}

type debugPrinter struct{}

func (debugPrinter) Print(plan *emit.Plan, _ Config) (string, error) {
	return planprint.Render(plan), nil
}

// Engine owns the collaborators shared across serialize calls: the
// introspector adapter, the global table, and any registered plugins
// (spec §5: "the global-reference table is constructed once at engine
// initialization and is read-only thereafter").
type Engine struct {
	cfg          Config
	log          *zap.SugaredLogger
	introspector introspect.Introspector
	globals      *global.Table
	registry     closure.Registry
	detector     closure.EvalDetector
	printer      Printer
	plugins      []TracePlugin
}

// WithRegistry installs a closure.Registry, enabling the engine to trace
// function values (spec §4.5). Without one, tracing a function value fails
// with ErrMissingClosureMetadata the first time one is discovered.
func WithRegistry(r closure.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// WithEvalDetector installs the frozen-name dynamic-eval detector (spec
// §4.5 "Frozen names"). Defaults to closure.NoopDetector{}.
func WithEvalDetector(d closure.EvalDetector) Option {
	return func(e *Engine) { e.detector = d }
}

// WithPrinter installs the external printer collaborator (spec §6). When
// omitted, Serialize falls back to the test-oriented debug renderer so the
// pipeline is still exercisable end to end.
func WithPrinter(p Printer) Option {
	return func(e *Engine) { e.printer = p }
}

// NewEngine creates an Engine around introspector, the only collaborator
// every call needs (spec §4.2).
func NewEngine(introspector introspect.Introspector, opts ...Option) *Engine {
	e := &Engine{
		cfg:          defaultConfig(),
		log:          zap.NewNop().Sugar(),
		introspector: introspector,
		globals:      global.NewTable(),
		detector:     closure.NoopDetector{},
		printer:      debugPrinter{},
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Serialize is the spec §6 entry point. Per-call options override the
// Engine's defaults for this call only; the shared collaborators (global
// table, introspector) are never mutated.
func (e *Engine) Serialize(root introspect.Value, opts ...Option) (*Output, error) {
	call := *e
	for _, o := range opts {
		o(&call)
	}

	if verr := call.cfg.validate(); verr != nil {
		return nil, verr
	}

	store := record.NewStore()
	alloc := ident.NewAllocator(call.cfg.Mangle)

	var reifier *closure.Reifier
	if call.registry != nil {
		reifier = closure.NewReifier(call.registry, call.detector, alloc, store)
	}

	tr := tracer.New(call.introspector, call.globals, reifier, store)
	tr.SetLogger(call.log)

	rootRec, err := tr.Trace(root)
	if err != nil {
		return nil, translateError(err)
	}

	runPlugins(call.plugins, store)

	breaker := depgraph.NewCycleBreaker(depgraph.WithLogger(call.log))
	if err := breaker.Break(store); err != nil {
		return nil, translateError(err)
	}

	sched := schedule.New(schedule.WithLogger(call.log))
	steps := sched.Schedule(store)

	planner := emit.NewPlanner(alloc, emit.Options{
		Format: call.cfg.Format,
		Exec:   call.cfg.Exec,
		Inline: call.cfg.Inline,
	})
	plan := planner.Plan(steps, rootRec)

	printer := call.printer
	if printer == nil {
		printer = debugPrinter{}
	}
	text, perr := printer.Print(plan, call.cfg)
	if perr != nil {
		return nil, &Error{Kind: ErrUnsupportedValue, Err: perr}
	}

	return e.wrapOutput(call.cfg, text), nil
}

// wrapOutput applies the format-specific outer wrapping and artifact
// splitting spec §6 describes; the printer only produces the value
// expression text, not the module/script scaffolding around it.
func (e *Engine) wrapOutput(cfg Config, text string) *Output {
	wrapped := wrapFormat(text, cfg)

	if !cfg.ProduceSourceMap {
		return &Output{Text: wrapped}
	}

	ext := cfg.Ext
	if ext == "" {
		ext = ".js"
	}
	mapExt := cfg.MapExt
	if mapExt == "" {
		mapExt = ext + ".map"
	}
	return &Output{
		Artifacts: []Artifact{
			{Kind: ArtifactEntry, Name: "entry", Filename: "entry" + ext, Content: wrapped},
			{Kind: ArtifactSourceMap, Name: "entry.map", Filename: "entry" + mapExt, Content: "{}"},
		},
	}
}

func wrapFormat(text string, cfg Config) string {
	switch cfg.Format {
	case emit.FormatScriptCJS:
		if cfg.Exec {
			return text
		}
		return "module.exports = " + text + ";"
	case emit.FormatScriptESM:
		prefix := ""
		if !cfg.AssumeStrictEnv {
			prefix = "\"use strict\";\n"
		}
		if cfg.Exec {
			return prefix + text
		}
		return prefix + "export default " + text + ";"
	default: // emit.FormatExpression
		return text
	}
}
