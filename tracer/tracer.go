// Package tracer implements spec §4.3: walking a value graph from its root,
// deduplicating by identity, resolving globals, and filling each record's
// content plan. It also owns the hand-off to the closure reifier (spec
// §4.5) the moment a function value is discovered.
package tracer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/viant/livegraph/closure"
	"github.com/viant/livegraph/global"
	"github.com/viant/livegraph/introspect"
	"github.com/viant/livegraph/record"
)

// Tracer is the per-request stage-1/stage-2 driver. A Tracer is not safe
// for concurrent use; the engine creates one per serialization request
// (spec §5: "no state leaks across requests").
type Tracer struct {
	introspector introspect.Introspector
	globals      *global.Table
	reifier      *closure.Reifier
	store        *record.Store

	byIdentity map[uintptr]*record.Record
	primitives map[uint64]*record.Record
	globalRecs map[string]*record.Record

	frames Breadcrumb

	log *zap.SugaredLogger
}

// New wires a Tracer's collaborators. reifier may be nil for introspectors
// that never report KindFunction values.
func New(introspector introspect.Introspector, globals *global.Table, reifier *closure.Reifier, store *record.Store) *Tracer {
	return &Tracer{
		introspector: introspector,
		globals:      globals,
		reifier:      reifier,
		store:        store,
		byIdentity:   map[uintptr]*record.Record{},
		primitives:   map[uint64]*record.Record{},
		globalRecs:   map[string]*record.Record{},
		log:          zap.NewNop().Sugar(),
	}
}

// SetLogger attaches a structured logger; by default the tracer is silent.
func (t *Tracer) SetLogger(l *zap.SugaredLogger) {
	if l != nil {
		t.log = l
	}
}

// Trace walks root and returns its record. The full value→record map and
// every dependency edge discovered along the way are left in place on the
// Tracer's record.Store as a side effect (spec §2 stage 1-2).
func (t *Tracer) Trace(root introspect.Value) (*record.Record, error) {
	return t.trace(root, "")
}

func (t *Tracer) trace(v introspect.Value, label string) (*record.Record, error) {
	t.frames = t.frames.push(label)
	t.log.Debugw("trace frame push", "breadcrumb", t.frames.String())
	defer func() {
		t.log.Debugw("trace frame pop", "breadcrumb", t.frames.String())
		t.frames = t.frames[:len(t.frames)-1]
	}()

	c, err := t.introspector.Classify(v)
	if err != nil {
		return nil, &Error{Breadcrumb: t.frames, Reason: ReasonUnsupportedValue, Err: err}
	}
	if c.Kind == introspect.KindUnknown {
		reason, _ := c.Intrinsic["reason"].(string)
		msg := "introspector reported an unsupported value"
		if reason != "" {
			msg += ": " + reason
		}
		return nil, &Error{Breadcrumb: t.frames, Reason: ReasonUnsupportedValue, Err: errors.New(msg)}
	}

	if c.Kind.IsPrimitive() {
		return t.internPrimitive(c), nil
	}

	id := v.Identity()
	if id != 0 {
		if existing, ok := t.byIdentity[id]; ok {
			return existing, nil
		}
	}

	if entry, ok := t.globals.Resolve(v); ok {
		return t.globalReference(entry), nil
	}

	rec := t.store.New(record.Kind(c.Kind), label)
	if id != 0 {
		t.byIdentity[id] = rec
	}

	if err := t.fillContent(rec, v, c); err != nil {
		return nil, err
	}
	return rec, nil
}

func (t *Tracer) fillContent(rec *record.Record, v introspect.Value, c introspect.Classification) error {
	switch c.Kind {
	case introspect.KindFunction:
		return t.traceFunction(rec, v, c)
	case introspect.KindRegExp, introspect.KindTimestamp, introspect.KindBinaryBuffer,
		introspect.KindWeakRef, introspect.KindFinalization:
		// These kinds carry no enumerable own-property graph in the default
		// adapter; their reconstruction data lives entirely in Intrinsic.
		rec.Plan = record.Literal{Kind: c.Kind, Value: c.Intrinsic}
		return nil
	default:
		return t.traceContainer(rec, c)
	}
}

func (t *Tracer) traceContainer(rec *record.Record, c introspect.Classification) error {
	lit := &record.ContainerLiteral{Kind: record.Kind(c.Kind)}
	rec.Plan = lit

	if c.HasProto && c.Proto != nil {
		protoRec, err := t.trace(c.Proto, ".__proto__")
		if err != nil {
			return err
		}
		lit.Proto = protoRec
		rec.AddOut(&record.Edge{Kind: record.EdgePrototype, Target: protoRec})
	} else {
		lit.ProtoNil = true
	}

	for i := range c.OwnProps {
		prop := c.OwnProps[i]
		slot := slotFor(c.Kind, prop, i)
		entry := record.ContainerEntry{Slot: slot, Descriptor: &c.OwnProps[i]}

		if prop.Hole {
			entry.Placeholder = true
			lit.Entries = append(lit.Entries, entry)
			continue
		}

		if prop.IsAccessor {
			if err := t.traceAccessorPair(rec, &entry, prop, slot); err != nil {
				return err
			}
			lit.Entries = append(lit.Entries, entry)
			continue
		}

		valRec, err := t.trace(prop.Value, labelFor(slot))
		if err != nil {
			return err
		}
		entry.Ref = valRec
		lit.Entries = append(lit.Entries, entry)
		rec.AddOut(&record.Edge{Kind: edgeKindFor(c.Kind), Target: valRec, Slot: record.Slot{slot}})
	}
	return nil
}

// traceAccessorPair resolves a property-descriptor-accessor's getter/setter
// so they become ordinary dependencies of the owning record; the emission
// planner later decides whether to emit them via Object.defineProperty or
// an equivalent descriptor-definition node (spec §4.3 descriptor-deviation
// rule).
func (t *Tracer) traceAccessorPair(owner *record.Record, entry *record.ContainerEntry, prop introspect.PropertyDescriptor, slot record.SlotStep) error {
	if prop.Getter != nil {
		getterRec, err := t.trace(prop.Getter, labelFor(slot)+"#get")
		if err != nil {
			return err
		}
		owner.AddOut(&record.Edge{Kind: record.EdgePropertyValue, Target: getterRec, Slot: record.Slot{slot}})
	}
	if prop.Setter != nil {
		setterRec, err := t.trace(prop.Setter, labelFor(slot)+"#set")
		if err != nil {
			return err
		}
		owner.AddOut(&record.Edge{Kind: record.EdgePropertyValue, Target: setterRec, Slot: record.Slot{slot}})
	}
	return nil
}

func (t *Tracer) traceFunction(rec *record.Record, v introspect.Value, c introspect.Classification) error {
	if t.reifier == nil {
		return &Error{Breadcrumb: t.frames, Reason: ReasonMissingClosureMeta, Err: errors.New("no closure registry configured for function value")}
	}
	if err := t.reifier.Reify(rec, v); err != nil {
		return &Error{Breadcrumb: t.frames, Reason: ReasonMissingClosureMeta, Err: err}
	}
	fl, ok := rec.Plan.(*record.FunctionLiteral)
	if !ok {
		fl = &record.FunctionLiteral{}
		rec.Plan = fl
	}
	fl.FunctionKind = c.FunctionKind

	if c.HasProto && c.Proto != nil {
		protoRec, err := t.trace(c.Proto, ".prototype")
		if err != nil {
			return err
		}
		rec.AddOut(&record.Edge{Kind: record.EdgePrototype, Target: protoRec})
		fl.Prototype = protoRec
	}
	return nil
}

func (t *Tracer) internPrimitive(c introspect.Classification) *record.Record {
	repr := reprOf(c)
	key, _ := record.PrimitiveKey(string(c.Kind), repr)
	hash, _ := record.ContentHash(key)
	if existing, ok := t.primitives[hash]; ok {
		return existing
	}
	var val interface{}
	if c.Intrinsic != nil {
		val = c.Intrinsic["value"]
	}
	rec := t.store.New(record.KindPrimitive, string(c.Kind))
	rec.Plan = record.Literal{Kind: c.Kind, Value: val}
	rec.SetContentHash(hash)
	t.primitives[hash] = rec
	return rec
}

func reprOf(c introspect.Classification) string {
	if c.Intrinsic == nil {
		return ""
	}
	return fmt.Sprintf("%#v", c.Intrinsic["value"])
}

func (t *Tracer) globalReference(entry *global.Entry) *record.Record {
	if existing, ok := t.globalRecs[entry.Key]; ok {
		return existing
	}
	rec := t.store.New(record.KindGlobalReference, entry.Key)
	rec.Global = &record.GlobalRef{EntryKey: entry.Key, Path: pathSegments(entry)}
	rec.Plan = &record.GlobalReference{Ref: rec.Global}
	t.globalRecs[entry.Key] = rec
	return rec
}

func pathSegments(e *global.Entry) []string {
	var segs []string
	for cur := e; cur != nil; cur = cur.Parent {
		seg := cur.Member
		if seg == "" {
			seg = cur.Key
		}
		segs = append([]string{seg}, segs...)
	}
	return segs
}
