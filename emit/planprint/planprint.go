// Package planprint renders an emit.Plan to a deterministic debug string,
// in the spirit of the OpenTofu execgraph.Graph.DebugRepr() pattern from
// the retrieval pack: an index-addressed table dumped as plain
// "name = op(...)" lines. It is a debug dump, not a real output-syntax
// printer: the tests assert against it, and the engine falls back to it
// when no Printer is installed (spec §8 "(added) Golden fixtures").
package planprint

import (
	"fmt"
	"strings"

	"github.com/viant/livegraph/emit"
	"github.com/viant/livegraph/record"
)

// Render produces a deterministic, human-readable dump of plan, one line
// per unit, so seed scenarios can assert plan shape without a real
// printer.
func Render(plan *emit.Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "format=%s exec=%v root=r%d\n", plan.Format, plan.Exec, plan.Root.ID)
	for _, u := range plan.Units {
		b.WriteString(renderUnit(u))
		b.WriteString("\n")
	}
	return b.String()
}

func renderUnit(u emit.Unit) string {
	label := fmt.Sprintf("r%d", u.Record.ID)
	if u.Record.Name != "" {
		label = u.Record.Name
	}
	if u.Inlined {
		return fmt.Sprintf("inline %s = %s", label, renderNode(u.Node))
	}
	if len(u.FactoryFor) > 0 {
		names := make([]string, len(u.FactoryFor))
		for i, fn := range u.FactoryFor {
			names[i] = nameOrRef(fn)
		}
		return fmt.Sprintf("const [%s] = %s", strings.Join(names, ", "), renderNode(u.Node))
	}
	return fmt.Sprintf("const %s = %s", label, renderNode(u.Node))
}

func nameOrRef(r *record.Record) string {
	if r == nil {
		return "<nil>"
	}
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("r%d", r.ID)
}

func renderNode(n record.Node) string {
	switch v := n.(type) {
	case record.Literal:
		return fmt.Sprintf("literal(%v)", v.Value)
	case *record.ContainerLiteral:
		parts := make([]string, len(v.Entries))
		for i, e := range v.Entries {
			parts[i] = renderEntry(e)
		}
		return fmt.Sprintf("container(%s)[%s]", v.Kind, strings.Join(parts, ", "))
	case *record.FunctionLiteral:
		scope := "-"
		if v.Scope != nil {
			scope = nameOrRef(v.Scope)
		}
		return fmt.Sprintf("function(params=%s, scope=%s)", strings.Join(v.ParamList, ","), scope)
	case *record.ScopeFactory:
		names := make([]string, len(v.Params))
		for i, p := range v.Params {
			names[i] = p.Name
		}
		return fmt.Sprintf("scope-factory(%s)", strings.Join(names, ","))
	case *record.GlobalReference:
		return fmt.Sprintf("global(%s)", v.Ref.EntryKey)
	case *record.PropertySet:
		return fmt.Sprintf("%s.%s = %s", nameOrRef(v.Target), v.Key, nameOrRef(v.Value))
	case *record.MethodInvocation:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = nameOrRef(a)
		}
		return fmt.Sprintf("%s.%s(%s)", nameOrRef(v.Receiver), v.Method, strings.Join(args, ", "))
	case *record.BackReference:
		return fmt.Sprintf("backref(%s)", nameOrRef(v.Target))
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func renderEntry(e record.ContainerEntry) string {
	if e.Placeholder {
		return fmt.Sprintf("%s:<placeholder>", slotLabel(e.Slot))
	}
	if e.Ref != nil {
		return fmt.Sprintf("%s:%s", slotLabel(e.Slot), nameOrRef(e.Ref))
	}
	return fmt.Sprintf("%s:%s", slotLabel(e.Slot), renderNode(e.Literal))
}

func slotLabel(s record.SlotStep) string {
	switch s.Kind {
	case record.SlotIndex:
		return fmt.Sprintf("[%d]", s.Index)
	default:
		return s.Key
	}
}
