// Package global implements the global resolver (spec §4.4): an immutable,
// identity-keyed table describing how to reach host-platform intrinsics and
// well-known values by syntactic path instead of serializing them as data.
package global

import "github.com/viant/livegraph/introspect"

// EntryKind is the closed set of ways a global entry can be reached (spec
// §3 Global entry).
type EntryKind string

const (
	EntryTopLevel        EntryKind = "top-level-name"
	EntryMemberOf        EntryKind = "member-of"
	EntryPrototypeOf     EntryKind = "prototype-of"
	EntryAccessorOf      EntryKind = "accessor-of"
	EntryModuleImport    EntryKind = "module-import"
	EntryPlatformSpecific EntryKind = "platform-specific"
)

// Entry is one immutable table row (spec §3 Global entry).
type Entry struct {
	Key    string // stable lookup key, e.g. "Object.assign"
	Kind   EntryKind
	Parent *Entry
	Member string // property/accessor name when Kind is member-of/accessor-of
	Hint   string
	Module string // import path, meaningful only when Kind == EntryModuleImport

	value    introspect.Value
	identity uintptr
	hasValue bool
}

// Path returns the dotted syntactic path this entry denotes, e.g.
// "Object.assign": the Key for an entry with no Parent, otherwise the
// parent's Path plus "." plus Member. It is advisory; actual rendering is
// the emission planner's job, keyed off Kind.
func (e *Entry) Path() string {
	if e.Parent == nil {
		return e.Key
	}
	return e.Parent.Path() + "." + e.Member
}

// Table is the read-only, identity-keyed global reference table (spec §4.4,
// §5: "constructed once at engine initialization and is read-only
// thereafter; it may be shared across concurrent engine instances").
type Table struct {
	byIdentity map[uintptr]*Entry
	byKey      map[string]*Entry
	modulePath string
}

// NewTable creates an empty table. Callers populate it with Register before
// handing it to an Engine; population is expected to happen once per
// process.
func NewTable() *Table {
	return &Table{
		byIdentity: map[uintptr]*Entry{},
		byKey:      map[string]*Entry{},
	}
}

// SetModulePath records the host program's Go module path, used to render
// EntryModuleImport entries whose Module is relative to it.
func (t *Table) SetModulePath(path string) { t.modulePath = path }

// ModulePath returns the module path set via SetModulePath or NewTableForModule.
func (t *Table) ModulePath() string { return t.modulePath }

// Register adds an entry, keyed both by its Key and by the identity of the
// host value it represents. Registering the same Key twice replaces the
// prior entry (used by adapters that build the table in layered passes:
// top-level names, then members, then prototypes, then accessors, then
// module exports, per spec §4.4 (i)-(v)).
func (t *Table) Register(e *Entry, value introspect.Value) {
	e.value = value
	if value != nil {
		e.identity = value.Identity()
		e.hasValue = true
		t.byIdentity[e.identity] = e
	}
	t.byKey[e.Key] = e
}

// Resolve looks up the global entry for a value's identity, if any (spec
// §4.4: "Resolution is by identity lookup").
func (t *Table) Resolve(v introspect.Value) (*Entry, bool) {
	if v == nil {
		return nil, false
	}
	id := v.Identity()
	if id == 0 {
		return nil, false
	}
	e, ok := t.byIdentity[id]
	return e, ok
}

// Lookup finds a registered entry by its stable key, for adapters wiring
// member/prototype/accessor entries against a previously registered parent.
func (t *Table) Lookup(key string) (*Entry, bool) {
	e, ok := t.byKey[key]
	return e, ok
}

// RegisterMember registers a member-of entry for parent.member, keyed as
// "<parent.Key>.<member>" (spec §4.4 (ii): "chained members reachable by
// walking those intrinsics one or two levels").
func (t *Table) RegisterMember(parent *Entry, member string, value introspect.Value) *Entry {
	e := &Entry{Key: parent.Key + "." + member, Kind: EntryMemberOf, Parent: parent, Member: member}
	t.Register(e, value)
	return e
}

// RegisterPrototype registers a prototype-of entry for parent's prototype
// object (spec §4.4 (iii)).
func (t *Table) RegisterPrototype(parent *Entry, value introspect.Value) *Entry {
	e := &Entry{Key: parent.Key + ".prototype", Kind: EntryPrototypeOf, Parent: parent, Member: "prototype"}
	t.Register(e, value)
	return e
}

// RegisterAccessor registers a getter/setter accessor entry on a well-known
// built-in type (spec §4.4 (iv)).
func (t *Table) RegisterAccessor(parent *Entry, member string, value introspect.Value) *Entry {
	e := &Entry{Key: parent.Key + "#" + member, Kind: EntryAccessorOf, Parent: parent, Member: member}
	t.Register(e, value)
	return e
}

// RegisterModuleImport registers an allowlisted platform module export
// (spec §4.4 (v)).
func (t *Table) RegisterModuleImport(key, module, member string, value introspect.Value) *Entry {
	e := &Entry{Key: key, Kind: EntryModuleImport, Module: module, Member: member}
	t.Register(e, value)
	return e
}
