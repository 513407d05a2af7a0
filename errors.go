package livegraph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/viant/livegraph/depgraph"
	"github.com/viant/livegraph/tracer"
)

// ErrorKind is the closed set of fatal error categories the engine can
// report (spec §7).
type ErrorKind string

const (
	ErrUnsupportedValue              ErrorKind = "unsupported-value"
	ErrMissingClosureMetadata        ErrorKind = "missing-closure-metadata"
	ErrOptionConflict                ErrorKind = "option-conflict"
	ErrFrozenNameExhaustion          ErrorKind = "frozen-name-exhaustion"
	ErrCycleThroughNonRewritableSlot ErrorKind = "cycle-through-non-rewritable-slot"
)

// BreadcrumbFrame is one segment of the value path from the root to the
// value that caused a fatal error (spec §7 "User-visible failure messages
// include the value path from the root").
type BreadcrumbFrame struct {
	Segment string
}

// Error is the single structured error type every fatal condition
// surfaces as, wrapping the lower-level collaborator error (grounded on the
// teacher's fmt.Errorf("...: %w", err) wrapping style).
type Error struct {
	Kind       ErrorKind
	Breadcrumb []BreadcrumbFrame
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if len(e.Breadcrumb) > 0 {
		b.WriteString(": ")
		b.WriteString(e.breadcrumbString())
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) breadcrumbString() string {
	segs := make([]string, len(e.Breadcrumb))
	for i, f := range e.Breadcrumb {
		segs[i] = f.Segment
	}
	return "<value at " + strings.Join(segs, "") + ">"
}

// translateError maps a lower-level collaborator error into the engine's
// Error taxonomy, so callers only ever need to errors.As against
// *livegraph.Error (spec §7 propagation policy).
func translateError(err error) *Error {
	if err == nil {
		return nil
	}

	var traceErr *tracer.Error
	if errors.As(err, &traceErr) {
		kind := ErrUnsupportedValue
		if traceErr.Reason == tracer.ReasonMissingClosureMeta {
			kind = ErrMissingClosureMetadata
		}
		return &Error{Kind: kind, Breadcrumb: convertBreadcrumb(traceErr.Breadcrumb), Err: traceErr.Err}
	}

	var cycleErr *depgraph.ErrUnbreakableCycle
	if errors.As(err, &cycleErr) {
		return &Error{Kind: ErrCycleThroughNonRewritableSlot, Err: cycleErr}
	}

	return &Error{Kind: ErrUnsupportedValue, Err: err}
}

func convertBreadcrumb(b tracer.Breadcrumb) []BreadcrumbFrame {
	frames := make([]BreadcrumbFrame, len(b))
	for i, s := range b {
		frames[i] = BreadcrumbFrame{Segment: s}
	}
	return frames
}

func optionConflict(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrOptionConflict, Err: fmt.Errorf(format, args...)}
}
