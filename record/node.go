package record

import "github.com/viant/livegraph/introspect"

// Node is one element of a record's content-plan tree (spec §3 Content
// plan; GLOSSARY). The sum type is closed and dispatched on by the emission
// planner, never by open interface assertions in the tracer or scheduler.
type Node interface{ isContentNode() }

// Literal is a primitive value rendered verbatim.
type Literal struct {
	Kind  introspect.Kind
	Value interface{}
}

func (Literal) isContentNode() {}

// SlotStepKind distinguishes the shape of one step in a dependency edge's
// slot path (spec §3 Dependency edge).
type SlotStepKind string

const (
	SlotProperty    SlotStepKind = "property"
	SlotIndex       SlotStepKind = "index"
	SlotPrototype   SlotStepKind = "prototype"
	SlotScopeParam  SlotStepKind = "scope-param"
	SlotCtorArg     SlotStepKind = "ctor-arg"
	SlotMapEntryKey SlotStepKind = "map-entry-key"
	SlotMapEntryVal SlotStepKind = "map-entry-value"
	SlotSetEntry    SlotStepKind = "set-entry"
)

// SlotStep is one step of a Slot path.
type SlotStep struct {
	Kind  SlotStepKind
	Key   string
	Index int
}

// Slot is the full path identifying where, inside a record's content plan,
// a dependency is referenced. Cycle-breaking rewrites target the node found
// by walking a Slot (spec §3: "Edges track both the depending record and
// the slot ... because cycle-breaking rewrites slots").
type Slot []SlotStep

// ContainerEntry is one element of a ContainerLiteral plan.
type ContainerEntry struct {
	Slot       SlotStep
	Ref        *Record // non-nil when the entry is a reference to another record
	Literal    Node    // non-nil when the entry is inline content (no Ref)
	Descriptor *introspect.PropertyDescriptor
	// Placeholder is true once the cycle breaker has rewritten this entry to
	// a neutral value pending a post-hoc assignment (spec §4.6).
	Placeholder bool
}

// ContainerLiteral builds a composite/sequence/mapping/set value from its
// entries, in the insertion order the introspector reported (spec §4.3:
// "Insertion order of own properties must be preserved").
type ContainerLiteral struct {
	Kind     Kind
	Entries  []ContainerEntry
	Proto    *Record // explicit prototype reference, nil if default for Kind
	ProtoNil bool    // true when the source prototype link was explicit null
}

func (*ContainerLiteral) isContentNode() {}

// PropertySet defines one property via Object.defineProperty-equivalent
// semantics. The cycle breaker creates one for each cyclic entry it installs
// post-construction (spec §4.6). The tracer does not create PropertySet
// nodes for descriptors that deviate from their kind's default; such a
// descriptor stays on the ContainerEntry's Descriptor field.
type PropertySet struct {
	Target     *Record
	Key        string
	Value      *Record
	Descriptor introspect.PropertyDescriptor
}

func (*PropertySet) isContentNode() {}

// MethodInvocation models a post-hoc mutator call such as Map.set or
// Set.add. The cycle breaker does not create MethodInvocation nodes: deferred
// mapping and set entries are installed with a PropertySet like any other
// cyclic entry.
type MethodInvocation struct {
	Receiver *Record
	Method   string
	Args     []*Record
}

func (*MethodInvocation) isContentNode() {}

// BackReference is a placeholder plan node standing in for a dependency
// that could not be constructed inline because of a cycle; the real value
// arrives via a later post-hoc assignment edge (GLOSSARY "Post-hoc
// assignment").
type BackReference struct {
	Target *Record
}

func (*BackReference) isContentNode() {}

// FunctionLiteral is the content plan for a function record: its source
// text plus, if it closes over captured state, the scope record it draws
// parameters from (spec §4.5).
type FunctionLiteral struct {
	FunctionKind introspect.FunctionKind
	BodyText     string
	ParamList    []string
	Scope        *Record // nil when the function captures nothing
	Prototype    *Record // set for class-constructor / plain functions with a .prototype object
}

func (*FunctionLiteral) isContentNode() {}

// ScopeFactory is the content plan for a scope record: a factory function
// taking the captured values as parameters and returning the function
// values built from them (spec §3 Scope record, §4.8).
type ScopeFactory struct {
	Params  []ScopeBinding
	Returns []*Record
}

func (*ScopeFactory) isContentNode() {}

// GlobalReference is the content plan for a record resolved against the
// global table instead of constructed (spec §4.4).
type GlobalReference struct {
	Ref *GlobalRef
}

func (*GlobalReference) isContentNode() {}
