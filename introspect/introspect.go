// Package introspect defines the contract the serialization core uses to
// classify an arbitrary host-runtime value and enumerate its structural
// contents (spec §4.2). The core never touches host reflection machinery
// directly; every kind-specific decision is made against the Classification
// an Introspector returns.
package introspect

// Kind is the closed set of value kinds the introspector may report.
type Kind string

const (
	KindNull         Kind = "null"
	KindUndefined    Kind = "undefined"
	KindBoolean      Kind = "boolean"
	KindInteger      Kind = "integer"
	KindFloating     Kind = "floating"
	KindBigInteger   Kind = "big-integer"
	KindText         Kind = "text"
	KindSymbol       Kind = "symbol"
	KindComposite    Kind = "composite-object"
	KindSequence     Kind = "ordered-sequence"
	KindMapping      Kind = "mapping-by-identity"
	KindSet          Kind = "set-by-identity"
	KindWeakMapping  Kind = "weak-mapping"
	KindWeakSet      Kind = "weak-set"
	KindRegExp       Kind = "regular-expression"
	KindTimestamp    Kind = "timestamp"
	KindBinaryBuffer Kind = "binary-buffer"
	KindBoxed        Kind = "boxed-primitive"
	KindArguments    Kind = "variadic-arguments-object"
	KindFunction     Kind = "function"
	KindWeakRef      Kind = "weak-reference"
	KindFinalization Kind = "finalization-registry"
	KindAccessorPair Kind = "property-descriptor-accessor"
	KindUnknown      Kind = "unknown"
)

// IsPrimitive reports whether k is one of the primitive kinds (spec §3).
func (k Kind) IsPrimitive() bool {
	switch k {
	case KindNull, KindUndefined, KindBoolean, KindInteger, KindFloating,
		KindBigInteger, KindText, KindSymbol:
		return true
	}
	return false
}

// FunctionKind further classifies KindFunction values.
type FunctionKind string

const (
	FuncPlain          FunctionKind = "plain"
	FuncArrow          FunctionKind = "arrow"
	FuncAsync          FunctionKind = "async"
	FuncGenerator      FunctionKind = "generator"
	FuncAsyncGenerator FunctionKind = "async-generator"
	FuncClassCtor      FunctionKind = "class-constructor"
	FuncBound          FunctionKind = "bound"
)

// Value is an opaque handle to a host-runtime value. Adapters define their
// own concrete representation (reflected.Value wraps reflect.Value); the
// core only ever compares, stores and forwards Value instances.
type Value interface {
	// Identity returns a stable key such that two handles referring to the
	// same underlying value compare equal. Primitive values may return a
	// zero identity; the tracer interns those by kind+literal instead.
	Identity() uintptr
}

// PropertyDescriptor mirrors one own (or symbol-keyed) property, preserving
// descriptor flags bit-exactly as spec §4.2 requires.
type PropertyDescriptor struct {
	Key          string
	Value        Value
	IsAccessor   bool
	Getter       Value
	Setter       Value
	Writable     bool
	Enumerable   bool
	Configurable bool
	// Hole marks a sparse-sequence index that has no value at all, distinct
	// from an index whose value is explicitly undefined (spec §4.3).
	Hole bool
}

// SymbolRef identifies a symbol-keyed property's key.
type SymbolRef struct {
	Name     string
	Global   bool
	Identity uintptr
}

// SymbolProperty is one symbol-keyed own property.
type SymbolProperty struct {
	Symbol     SymbolRef
	Descriptor PropertyDescriptor
}

// Classification is what Introspector.Classify returns for one value.
type Classification struct {
	Kind         Kind
	FunctionKind FunctionKind // meaningful only when Kind == KindFunction
	OwnProps     []PropertyDescriptor
	OwnSymbols   []SymbolProperty
	Proto        Value
	HasProto     bool // false means the prototype link is explicit null
	Extensible   bool
	// Intrinsic carries kind-specific slots: for KindRegExp {"source","flags"},
	// for KindBinaryBuffer {"length","shared"}, for KindFunction {"name",
	// "arity","sourcePos"}, etc. Keys are kind-specific and documented per
	// adapter.
	Intrinsic map[string]interface{}
}

// Introspector classifies a value and enumerates its structural contents.
// It must not panic for exotic values; it reports Kind: KindUnknown instead,
// which the tracer turns into a fatal "unsupported value" error (spec §7.1).
type Introspector interface {
	Classify(v Value) (Classification, error)
}
