package tracer

// Reason classifies why a trace aborted. The engine maps these onto the
// five top-level error kinds of spec §7; the tracer itself only needs to
// distinguish "the introspector gave up on this value" from "a function's
// closure metadata could not be resolved".
type Reason string

const (
	ReasonUnsupportedValue   Reason = "unsupported-value"
	ReasonMissingClosureMeta Reason = "missing-closure-metadata"
)

// Error is a fatal trace failure carrying the breadcrumb to the offending
// value (spec §4.3, §7 "structured error that carries the trace
// breadcrumb").
type Error struct {
	Breadcrumb Breadcrumb
	Reason     Reason
	Err        error
}

func (e *Error) Error() string {
	return e.Breadcrumb.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
