// Package record implements the engine's shared record graph (spec §3): the
// arena of emitted bindings, their dependency edges, and the content-plan
// tree describing how each binding is constructed. Records live in a
// slice-backed arena and carry discovery-order integer ids; edges and plan
// nodes refer to records by *Record pointer, not by id.
package record

import "github.com/viant/livegraph/introspect"

// ID is a stable, discovery-order-assigned record identifier (spec §5:
// "Record ids are assigned strictly in discovery order").
type ID uint32

// Kind classifies what a record represents. It extends introspect.Kind with
// two emission-only kinds that do not correspond to a traced value.
type Kind string

const (
	KindPrimitive       Kind = "primitive"
	KindComposite       Kind = Kind(introspect.KindComposite)
	KindSequence        Kind = Kind(introspect.KindSequence)
	KindMapping         Kind = Kind(introspect.KindMapping)
	KindSet             Kind = Kind(introspect.KindSet)
	KindWeakMapping     Kind = Kind(introspect.KindWeakMapping)
	KindWeakSet         Kind = Kind(introspect.KindWeakSet)
	KindRegExp          Kind = Kind(introspect.KindRegExp)
	KindTimestamp       Kind = Kind(introspect.KindTimestamp)
	KindBinaryBuffer    Kind = Kind(introspect.KindBinaryBuffer)
	KindBoxed           Kind = Kind(introspect.KindBoxed)
	KindArguments       Kind = Kind(introspect.KindArguments)
	KindFunction        Kind = Kind(introspect.KindFunction)
	KindWeakRef         Kind = Kind(introspect.KindWeakRef)
	KindFinalization    Kind = Kind(introspect.KindFinalization)
	KindAccessorPair    Kind = Kind(introspect.KindAccessorPair)
	KindScope           Kind = "scope"            // §3 "Scope record"
	KindGlobalReference Kind = "global-reference"  // §4.4
)

// ScopeBinding is one captured-variable slot of a scope record (spec §3).
type ScopeBinding struct {
	Name   string
	Const  bool
	Frozen bool
}

// Record is one emitted binding (spec §3).
type Record struct {
	ID   ID
	Kind Kind
	Hint string

	// Plan is the content-plan tree describing how to construct this
	// record's value. Plan nodes point at other records directly through
	// *Record fields (entry refs, prototype, scope); the dependencies that
	// constrain emission order are the edges in Out.
	Plan Node

	Out []*Edge // outgoing dependency edges, in slot-path order
	In  []*Edge // incoming dependency edges

	// Scope is set for function records: the scope record whose factory
	// expression produces them (0/nil when the function captures nothing).
	Scope *Record
	// ScopeBindings is set for scope records: the ordered captured-variable
	// slots (spec §3 Scope record invariant).
	ScopeBindings []ScopeBinding
	// ScopeReturns holds, for a scope record, the function records returned
	// by its factory expression.
	ScopeReturns []*Record

	// Global is set for global-reference records.
	Global *GlobalRef

	// PostHoc holds content-plan nodes (PropertySet, MethodInvocation) that
	// must run after this record's own Plan has been constructed, used by
	// the cycle breaker to finish installing values deferred by a cyclic
	// dependency and by mappings/sets whose entries were deferred for the
	// same reason (spec §4.6, §4.3 "post-hoc insertion edges").
	PostHoc []Node

	// Name is the identifier assigned during scheduling; empty until then.
	Name string
	// Inlineable is true when the record has exactly one consumer, no
	// cyclic dependency and no side-effecting construction (spec §4.8).
	Inlineable bool

	// contentHash caches the primitive's ContentHash for interning (spec
	// §4.3).
	contentHash uint64
	hashValid   bool
}

// GlobalRef marks a record as resolving to a host intrinsic rather than
// being constructed (spec §4.4).
type GlobalRef struct {
	EntryKey string // opaque key into the global.Table this was resolved from
	Path     []string
}

// SetContentHash caches a precomputed content hash on the record.
func (r *Record) SetContentHash(h uint64) {
	r.contentHash = h
	r.hashValid = true
}

// ContentHashCached returns the cached content hash, if any.
func (r *Record) ContentHashCached() (uint64, bool) {
	return r.contentHash, r.hashValid
}

// AddOut appends an outgoing edge and mirrors it onto the target's incoming
// list, keeping both sides of the graph consistent (spec §3 Dependency
// edge).
func (r *Record) AddOut(e *Edge) {
	e.Source = r
	r.Out = append(r.Out, e)
	if e.Target != nil {
		e.Target.In = append(e.Target.In, e)
	}
}

// Store is the per-request record arena (spec §5: "Each serialization
// request owns its own record store").
type Store struct {
	records []*Record
	next    ID
}

// NewStore creates an empty record arena.
func NewStore() *Store {
	return &Store{next: 1}
}

// New allocates and registers a fresh record of the given kind, in
// discovery order.
func (s *Store) New(kind Kind, hint string) *Record {
	r := &Record{ID: s.next, Kind: kind, Hint: hint}
	s.next++
	s.records = append(s.records, r)
	return r
}

// All returns every record in discovery order. The returned slice must not
// be mutated by callers.
func (s *Store) All() []*Record { return s.records }

// Len returns the number of records currently in the arena.
func (s *Store) Len() int { return len(s.records) }

// Get looks up a record by id, for tests and debug rendering.
func (s *Store) Get(id ID) *Record {
	for _, r := range s.records {
		if r.ID == id {
			return r
		}
	}
	return nil
}
