package closure

import (
	"fmt"

	"github.com/viant/livegraph/ident"
	"github.com/viant/livegraph/introspect"
	"github.com/viant/livegraph/record"
)

// Reifier implements spec §4.5: turning a function value's captured
// environment into explicit scope records and scope-argument edges, so the
// emission planner can later synthesize an IIFE (or equivalent) that
// rebuilds the closure instead of inlining the function body naively.
type Reifier struct {
	registry Registry
	detector EvalDetector
	alloc    ident.Allocator
	store    *record.Store

	byFrame  map[string]*record.Record   // EnvFrame.HashID -> reified scope record
	scopeIDs map[string]ident.ScopeID // EnvFrame.HashID -> allocator scope
}

// NewReifier wires the collaborators a Reifier needs. detector may be
// NoopDetector{} when the caller has already ruled out dynamic eval.
func NewReifier(registry Registry, detector EvalDetector, alloc ident.Allocator, store *record.Store) *Reifier {
	return &Reifier{
		registry: registry,
		detector: detector,
		alloc:    alloc,
		store:    store,
		byFrame:  map[string]*record.Record{},
		scopeIDs: map[string]ident.ScopeID{},
	}
}

// Reify resolves fn's closure and attaches it to fnRecord: fnRecord.Scope
// points at the innermost reified scope record, and the scope chain is
// threaded through each scope record's own Scope field. Scope records are
// shared by EnvFrame.HashID, so two functions closing over the same live
// frame point at the same record (spec §4.5).
func (r *Reifier) Reify(fnRecord *record.Record, fn introspect.Value) error {
	info, err := r.registry.Lookup(fn)
	if err != nil {
		return fmt.Errorf("closure: lookup: %w", err)
	}

	dynamic, err := r.detector.ContainsDynamicEval(info.BodyText)
	if err != nil {
		return fmt.Errorf("closure: eval scan: %w", err)
	}

	fnRecord.Plan = &record.FunctionLiteral{
		BodyText:  info.BodyText,
		ParamList: info.ParamList,
	}

	var inner *record.Record
	var prev *record.Record
	for i, frame := range info.EnvChain {
		scopeRec, err := r.scopeRecord(frame, dynamic)
		if err != nil {
			return err
		}
		if i == 0 {
			inner = scopeRec
		}
		if prev != nil {
			prev.Scope = scopeRec
		}
		prev = scopeRec

		edge := &record.Edge{
			Source: fnRecord,
			Target: scopeRec,
			Kind:   record.EdgeScopeArgument,
		}
		fnRecord.AddOut(edge)
	}

	if inner != nil {
		fnRecord.Scope = inner
		if fl, ok := fnRecord.Plan.(*record.FunctionLiteral); ok {
			fl.Scope = inner
		}
		inner.ScopeReturns = append(inner.ScopeReturns, fnRecord)
		if sf, ok := inner.Plan.(*record.ScopeFactory); ok {
			sf.Returns = inner.ScopeReturns
		}
	}
	return nil
}

// scopeRecord returns the reified scope record for frame, creating it on
// first sight and reusing it on every later frame sharing the same
// HashID. When dynamic is true every binding in the frame is frozen under
// its original name instead of being eligible for mangling (spec §4.5
// "frozen name" rule).
func (r *Reifier) scopeRecord(frame EnvFrame, dynamic bool) (*record.Record, error) {
	if existing, ok := r.byFrame[frame.HashID]; ok {
		return existing, nil
	}

	scopeRec := r.store.New(record.KindScope, "scope")
	scopeRec.ScopeBindings = frame.Bindings
	scopeRec.Plan = &record.ScopeFactory{Params: frame.Bindings}

	scopeID := r.alloc.NewScope(0)
	r.scopeIDs[frame.HashID] = scopeID
	for _, b := range frame.Bindings {
		if dynamic || b.Frozen {
			r.alloc.FreezeWithName(b.Name, scopeID)
		} else {
			r.alloc.Reserve(b.Name, scopeID)
		}
	}

	r.byFrame[frame.HashID] = scopeRec
	return scopeRec, nil
}
