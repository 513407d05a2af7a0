// Package reflected is the reference introspect.Introspector adapter for
// plain Go values, built on reflect. It is swappable: the tracer only
// depends on the introspect.Introspector interface (spec §4.2).
package reflected

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/viant/livegraph/introspect"
)

// Value wraps a reflect.Value so it satisfies introspect.Value.
type Value struct {
	rv reflect.Value
}

// Of wraps v for classification.
func Of(v interface{}) Value {
	return Value{rv: reflect.ValueOf(v)}
}

// Reflect returns the wrapped reflect.Value.
func (v Value) Reflect() reflect.Value { return v.rv }

// Identity returns a stable key for reference-like kinds; value kinds that
// carry no independent identity (plain structs passed by value, for
// instance) return 0, mirroring spec §3's primitive-has-no-identity rule.
func (v Value) Identity() uintptr {
	rv := v.rv
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return rv.Pointer()
	case reflect.Slice:
		if rv.IsNil() {
			return 0
		}
		return rv.Pointer()
	case reflect.Interface:
		return Value{rv: rv.Elem()}.Identity()
	default:
		return 0
	}
}

// Introspector classifies Go values via reflect.
type Introspector struct {
	// IncludeUnexported controls whether unexported struct fields are
	// reported as own properties. The default tracer is read-only so this
	// only affects what gets reconstructed, not mutated.
	IncludeUnexported bool
}

// New creates a reflect-based Introspector.
func New() *Introspector {
	return &Introspector{IncludeUnexported: true}
}

func asValue(v introspect.Value) (reflect.Value, error) {
	rv, ok := v.(Value)
	if !ok {
		return reflect.Value{}, fmt.Errorf("reflected: expected reflected.Value, got %T", v)
	}
	return rv.rv, nil
}

// Classify implements introspect.Introspector.
func (ins *Introspector) Classify(v introspect.Value) (introspect.Classification, error) {
	rv, err := asValue(v)
	if err != nil {
		return introspect.Classification{}, err
	}
	if !rv.IsValid() {
		return introspect.Classification{Kind: introspect.KindUndefined}, nil
	}
	for rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return introspect.Classification{Kind: introspect.KindNull}, nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Bool:
		return introspect.Classification{Kind: introspect.KindBoolean, Intrinsic: map[string]interface{}{"value": rv.Bool()}}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return introspect.Classification{Kind: introspect.KindInteger, Intrinsic: map[string]interface{}{"value": rv.Interface()}}, nil
	case reflect.Float32, reflect.Float64:
		return introspect.Classification{Kind: introspect.KindFloating, Intrinsic: map[string]interface{}{"value": rv.Interface()}}, nil
	case reflect.String:
		return introspect.Classification{Kind: introspect.KindText, Intrinsic: map[string]interface{}{"value": rv.String()}}, nil
	case reflect.Ptr:
		if rv.IsNil() {
			return introspect.Classification{Kind: introspect.KindNull}, nil
		}
		return ins.classifyPointee(rv)
	case reflect.Struct:
		return ins.classifyStruct(rv)
	case reflect.Slice, reflect.Array:
		return ins.classifySequence(rv)
	case reflect.Map:
		return ins.classifyMap(rv)
	case reflect.Func:
		return ins.classifyFunc(rv)
	case reflect.Chan:
		return introspect.Classification{
			Kind:      introspect.KindUnknown,
			Intrinsic: map[string]interface{}{"reason": "channel identity is process-private; see spec Non-goals"},
		}, nil
	default:
		return introspect.Classification{Kind: introspect.KindUnknown}, nil
	}
}

func (ins *Introspector) classifyPointee(rv reflect.Value) (introspect.Classification, error) {
	elem := rv.Elem()
	if elem.Kind() == reflect.Struct {
		c, err := ins.classifyStruct(elem)
		if err != nil {
			return c, err
		}
		if c.Intrinsic == nil {
			c.Intrinsic = map[string]interface{}{}
		}
		c.Intrinsic["pointer"] = true
		return c, nil
	}
	// Box a pointer to a non-struct as a boxed-primitive so identity is
	// still observable through it.
	inner, err := ins.Classify(Value{rv: elem})
	if err != nil {
		return inner, err
	}
	return introspect.Classification{
		Kind:      introspect.KindBoxed,
		Intrinsic: map[string]interface{}{"inner": inner.Kind},
		OwnProps: []introspect.PropertyDescriptor{{
			Key: "value", Value: Value{rv: elem}, Writable: true, Enumerable: false, Configurable: false,
		}},
	}, nil
}

func (ins *Introspector) classifyStruct(rv reflect.Value) (introspect.Classification, error) {
	t := rv.Type()
	c := introspect.Classification{Kind: introspect.KindComposite, Extensible: true, Intrinsic: map[string]interface{}{"typeName": t.Name(), "pkgPath": t.PkgPath()}}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" && !ins.IncludeUnexported {
			continue
		}
		fv := rv.Field(i)
		c.OwnProps = append(c.OwnProps, introspect.PropertyDescriptor{
			Key:          f.Name,
			Value:        Value{rv: fv},
			Writable:     f.PkgPath == "" || ins.IncludeUnexported,
			Enumerable:   f.PkgPath == "",
			Configurable: true,
		})
	}
	return c, nil
}

func (ins *Introspector) classifySequence(rv reflect.Value) (introspect.Classification, error) {
	c := introspect.Classification{Kind: introspect.KindSequence, Extensible: rv.Kind() == reflect.Slice}
	n := rv.Len()
	c.OwnProps = make([]introspect.PropertyDescriptor, 0, n)
	for i := 0; i < n; i++ {
		ev := rv.Index(i)
		c.OwnProps = append(c.OwnProps, introspect.PropertyDescriptor{
			Key: fmt.Sprintf("%d", i), Value: Value{rv: ev},
			Writable: true, Enumerable: true, Configurable: true,
		})
	}
	return c, nil
}

// classifyMap enumerates entries in sorted key order. rv.MapRange() visits
// entries in an order randomized per process (a deliberate Go runtime
// choice), which would otherwise make record discovery order, and so
// output, vary run-to-run for any value containing a map. Go maps carry no
// recoverable insertion order, so sorted key order is the deterministic
// substitute for spec §4.3's container-entry ordering.
func (ins *Introspector) classifyMap(rv reflect.Value) (introspect.Classification, error) {
	c := introspect.Classification{Kind: introspect.KindMapping, Extensible: true}
	keys := rv.MapKeys()
	keyStrs := make([]string, len(keys))
	for i, k := range keys {
		if k.Kind() == reflect.String {
			keyStrs[i] = k.String()
		} else {
			keyStrs[i] = fmt.Sprintf("%v", k.Interface())
		}
	}
	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return keyStrs[order[a]] < keyStrs[order[b]] })

	c.OwnProps = make([]introspect.PropertyDescriptor, 0, len(keys))
	for _, i := range order {
		c.OwnProps = append(c.OwnProps, introspect.PropertyDescriptor{
			Key: keyStrs[i], Value: Value{rv: rv.MapIndex(keys[i])},
			Writable: true, Enumerable: true, Configurable: true,
		})
	}
	return c, nil
}

func (ins *Introspector) classifyFunc(rv reflect.Value) (introspect.Classification, error) {
	if rv.IsNil() {
		return introspect.Classification{Kind: introspect.KindNull}, nil
	}
	return introspect.Classification{
		Kind:         introspect.KindFunction,
		FunctionKind: introspect.FuncPlain,
		Extensible:   true,
		Intrinsic: map[string]interface{}{
			"pointer": rv.Pointer(),
			"numIn":   rv.Type().NumIn(),
			"numOut":  rv.Type().NumOut(),
		},
	}, nil
}
