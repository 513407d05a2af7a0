// Package emit implements spec §4.8: translating the scheduler's linear
// emission order into an abstract output plan a printer can render. Nothing
// in this package knows about concrete output syntax; it only decides
// which records get names, which are inlined, and how scope factories and
// the outer format wrapper are structured.
package emit

import "github.com/viant/livegraph/record"

// Format selects the outer wrapping of the emitted root value (spec §6
// "format").
type Format string

const (
	FormatExpression Format = "expression"
	FormatScriptCJS  Format = "script-cjs"
	FormatScriptESM  Format = "script-esm"
)

// Options carries the subset of spec §6's options the planner needs.
type Options struct {
	Format Format
	// Exec emits the root as a top-level effect instead of an exported
	// value; rejected for FormatExpression by the caller before planning.
	Exec bool
	// Inline disabled forces every record to a named binding.
	Inline bool
}

// Unit is one emission step in the plan: either a named binding or an
// inlined reference folded into its single consumer.
type Unit struct {
	Record  *record.Record
	Node    record.Node // the content to render: Record.Plan, or a PostHoc entry
	Inlined bool
	// FactoryFor is set when Node is a ScopeFactory and this unit's binding
	// destructures into the named function records in Record.ScopeReturns.
	FactoryFor []*record.Record
}

// Plan is the finished abstract output plan for one serialize call.
type Plan struct {
	Units  []Unit
	Root   *record.Record
	Format Format
	Exec   bool
}
