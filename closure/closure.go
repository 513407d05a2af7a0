// Package closure implements the collaborator contracts spec §4.5 depends on:
// resolving a function value's captured lexical environment and detecting
// source text that could observe renamed bindings dynamically.
package closure

import (
	"github.com/viant/livegraph/introspect"
	"github.com/viant/livegraph/record"
)

// FuncValue narrows introspect.Value to values the Tracer has already
// classified as functions, so Registry implementations don't need to
// reclassify.
type FuncValue = introspect.Value

// EnvFrame is one frame of a function's captured environment chain, ordered
// innermost first. HashID identifies the frame for scope-record reuse: two
// functions that close over the same live frame must reify to the same
// scope record (spec §4.5 "functions sharing an enclosing scope must share
// one reified scope record").
type EnvFrame struct {
	HashID   string
	Bindings []record.ScopeBinding
}

// ClosureInfo is what a Registry reports about one function value.
type ClosureInfo struct {
	BodyText   string
	ParamList  []string
	IsArrow    bool
	EnvChain   []EnvFrame // innermost first, root scope last (or omitted)
}

// Registry resolves a function value's source text, parameters, and
// captured environment chain (spec §4.5 "the Scope reifier must ask some
// collaborator which bindings a given function body actually reads or
// writes").
type Registry interface {
	Lookup(fn FuncValue) (ClosureInfo, error)
}

// EvalDetector inspects a function body's source text for constructs that
// can observe identifiers dynamically (eval, Function(...), with, indirect
// global lookups by string), which forces every binding visible to that
// body into frozen, un-mangled names (spec §4.5 "frozen name" rule).
type EvalDetector interface {
	ContainsDynamicEval(bodyText string) (bool, error)
}

// NoopDetector never reports dynamic eval. Useful for callers who have
// already guaranteed their input source contains no such constructs, or in
// tests exercising the reifier in isolation from evalscan.
type NoopDetector struct{}

// ContainsDynamicEval implements EvalDetector.
func (NoopDetector) ContainsDynamicEval(string) (bool, error) { return false, nil }
