package tracer

import (
	"fmt"

	"github.com/viant/livegraph/introspect"
	"github.com/viant/livegraph/record"
)

// slotFor picks the slot-path step describing where, inside a container's
// content plan, one own property lives (spec §3 Dependency edge).
func slotFor(kind introspect.Kind, prop introspect.PropertyDescriptor, ordinal int) record.SlotStep {
	switch kind {
	case introspect.KindSequence:
		return record.SlotStep{Kind: record.SlotIndex, Index: ordinal}
	case introspect.KindMapping, introspect.KindWeakMapping:
		return record.SlotStep{Kind: record.SlotMapEntryVal, Key: prop.Key}
	case introspect.KindSet, introspect.KindWeakSet:
		return record.SlotStep{Kind: record.SlotSetEntry, Key: prop.Key}
	default:
		return record.SlotStep{Kind: record.SlotProperty, Key: prop.Key}
	}
}

// labelFor renders a slot step as a breadcrumb suffix, e.g. ".foo" or "[2]"
// (spec §4.3 "human-readable location breadcrumb").
func labelFor(s record.SlotStep) string {
	switch s.Kind {
	case record.SlotIndex:
		return fmt.Sprintf("[%d]", s.Index)
	case record.SlotMapEntryKey, record.SlotMapEntryVal, record.SlotSetEntry:
		return fmt.Sprintf("[%q]", s.Key)
	default:
		return "." + s.Key
	}
}

// edgeKindFor decides whether an entry's dependency edge is a constructor
// argument (containers whose entries are supplied to a constructor, e.g. a
// Map built from an initial entry list) or a plain property value.
func edgeKindFor(kind introspect.Kind) record.EdgeKind {
	switch kind {
	case introspect.KindSequence, introspect.KindMapping, introspect.KindSet,
		introspect.KindWeakMapping, introspect.KindWeakSet:
		return record.EdgeConstructorArg
	default:
		return record.EdgePropertyValue
	}
}
