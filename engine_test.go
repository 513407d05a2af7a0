package livegraph

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/viant/livegraph/closure"
	"github.com/viant/livegraph/emit"
	"github.com/viant/livegraph/emit/planprint"
	"github.com/viant/livegraph/introspect"
	"github.com/viant/livegraph/introspect/reflected"
)

// EngineSuite exercises the seed scenarios of spec.md §8 end to end,
// through the real reflected introspector adapter, in the spirit of
// inspector/inspector_test.go's table-driven-with-testify style.
type EngineSuite struct {
	suite.Suite
	engine *Engine
}

func (s *EngineSuite) SetupTest() {
	s.engine = NewEngine(reflected.New())
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

// Scenario 1: simple sequence.
func (s *EngineSuite) TestSimpleSequence() {
	out, err := s.engine.Serialize(reflected.Of([]interface{}{1, 2, 3}),
		WithConfig(Config{Format: emit.FormatExpression, Inline: true, Mangle: true}))
	s.Require().NoError(err)
	s.Contains(out.Text, "container(ordered-sequence)")
	s.Contains(out.Text, "literal(1)")
	s.Contains(out.Text, "literal(2)")
	s.Contains(out.Text, "literal(3)")
}

// Scenario 2: shared reference — the same inner slice referenced twice
// must produce exactly one bound record and two references to it.
func (s *EngineSuite) TestSharedReferenceDedupes() {
	inner := []interface{}{1}
	outer := []interface{}{inner, inner}

	out, err := s.engine.Serialize(reflected.Of(outer),
		WithConfig(Config{Format: emit.FormatExpression, Inline: false, Mangle: false}))
	s.Require().NoError(err)

	// Not inlined: exactly one named binding for the inner sequence (its
	// element is the named primitive record "integer"), and the outer
	// container references that one name twice.
	occurrences := countOccurrences(out.Text, "container(ordered-sequence)[[0]:integer]")
	s.Equal(1, occurrences, "inner sequence must be emitted exactly once:\n%s", out.Text)
}

// Scenario 3: direct cycle — a[0] = a.
func (s *EngineSuite) TestDirectCycleBreaksAndReconnects() {
	a := make([]interface{}, 1)
	a[0] = a

	out, err := s.engine.Serialize(reflected.Of(a),
		WithConfig(Config{Format: emit.FormatExpression, Inline: true, Mangle: false}))
	s.Require().NoError(err)
	s.Contains(out.Text, "<placeholder>")
	s.Contains(out.Text, " = ") // post-hoc assignment line is present
}

// Scenario 6, Go variant: a mapping whose value cycles back to itself. A Go
// map cannot be a key of a map, so only the value side of the cycle is
// exercised here.
func (s *EngineSuite) TestMappingWithCyclicValue() {
	m := map[interface{}]interface{}{}
	x := "x"
	y := "y"
	m[x] = m // m.set(x, m) in spec terms: cyclic through the value
	m[y] = y

	out, err := s.engine.Serialize(reflected.Of(m),
		WithConfig(Config{Format: emit.FormatExpression, Inline: true, Mangle: false}))
	s.Require().NoError(err)
	s.Contains(out.Text, "container(mapping-by-identity)")
	s.Contains(out.Text, "<placeholder>")
}

func (s *EngineSuite) TestOptionConflictRejectedBeforeTracing() {
	_, err := s.engine.Serialize(reflected.Of(1),
		WithConfig(Config{Format: emit.FormatExpression, Exec: true}))
	s.Require().Error(err)
	var lgErr *Error
	s.Require().True(errors.As(err, &lgErr))
	s.Equal(ErrOptionConflict, lgErr.Kind)
}

func (s *EngineSuite) TestUnsupportedValueIsTranslated() {
	ch := make(chan int)
	_, err := s.engine.Serialize(reflected.Of(ch))
	s.Require().Error(err)
	var lgErr *Error
	s.Require().True(errors.As(err, &lgErr))
	s.Equal(ErrUnsupportedValue, lgErr.Kind)
}

func countOccurrences(haystack, needle string) int {
	count := 0
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			count++
			i += len(needle) - 1
		}
	}
	return count
}

// Scenario 4: shared closure — two functions returned together both close
// over the same captured frame must schedule as one factory unit (the
// scope/closure side of the pipeline), exercised through the engine with a
// fake introspector and registry rather than the reflect-based one, since Go's
// runtime does not expose closures to reflect the way the registry
// contract assumes (spec §4.5, §6 Collaborator contracts).
type fakeClosureValue struct{ id uintptr }

func (f fakeClosureValue) Identity() uintptr { return f.id }

type fakeRootIntrospector struct {
	root  introspect.Classification
	funcs map[uintptr]introspect.Classification
}

func (f fakeRootIntrospector) Classify(v introspect.Value) (introspect.Classification, error) {
	fv, ok := v.(fakeClosureValue)
	if !ok {
		return introspect.Classification{}, errors.New("unexpected value")
	}
	if fv.id == 0 {
		return f.root, nil
	}
	c, ok := f.funcs[fv.id]
	if !ok {
		return introspect.Classification{}, errors.New("unregistered")
	}
	return c, nil
}

type fakeClosureRegistry map[uintptr]closure.ClosureInfo

func (r fakeClosureRegistry) Lookup(fn closure.FuncValue) (closure.ClosureInfo, error) {
	fv, ok := fn.(fakeClosureValue)
	if !ok {
		return closure.ClosureInfo{}, errors.New("unexpected value")
	}
	info, ok := r[fv.id]
	if !ok {
		return closure.ClosureInfo{}, errors.New("not registered")
	}
	return info, nil
}

func TestEngineSharedClosureSchedulesOneFactoryUnit(t *testing.T) {
	inc := fakeClosureValue{id: 1}
	dec := fakeClosureValue{id: 2}

	shared := closure.EnvFrame{HashID: "frame-n", Bindings: nil}
	registry := fakeClosureRegistry{
		1: {BodyText: "n++", ParamList: nil, EnvChain: []closure.EnvFrame{shared}},
		2: {BodyText: "n--", ParamList: nil, EnvChain: []closure.EnvFrame{shared}},
	}

	root := introspect.Classification{
		Kind: introspect.KindComposite,
		OwnProps: []introspect.PropertyDescriptor{
			{Key: "inc", Value: inc, Writable: true, Enumerable: true, Configurable: true},
			{Key: "dec", Value: dec, Writable: true, Enumerable: true, Configurable: true},
		},
	}
	funcClass := introspect.Classification{Kind: introspect.KindFunction}
	ins := fakeRootIntrospector{root: root, funcs: map[uintptr]introspect.Classification{1: funcClass, 2: funcClass}}

	engine := NewEngine(ins, WithRegistry(registry))
	out, err := engine.Serialize(fakeClosureValue{id: 0},
		WithConfig(Config{Format: emit.FormatExpression, Inline: true, Mangle: false}))
	require.NoError(t, err)

	// Both functions must be returned together from the single reified
	// scope's factory unit, not emitted as two independent top-level units.
	factoryLine := regexp.MustCompile(`const \[([^\]]+)\] = scope-factory\(`).FindStringSubmatch(out.Text)
	require.NotNil(t, factoryLine, "expected one const [a, b] = scope-factory(...) line:\n%s", out.Text)
	names := strings.Split(factoryLine[1], ", ")
	assert.Len(t, names, 2, "both inc and dec must be destructured from one factory:\n%s", out.Text)
	assert.Equal(t, 1, countOccurrences(out.Text, "scope-factory("), "scope-factory must be emitted exactly once:\n%s", out.Text)
}

var _ = planprint.Render // keep planprint imported for readability of this file's header comment
