package tracer

import "strings"

// Breadcrumb is the stack of path segments from the root value to the value
// currently being traced, used only to build human-readable error locations
// like "<value at .foo[2].bar>" (spec §4.3).
type Breadcrumb []string

// String renders the breadcrumb the way spec §4.3 shows it.
func (b Breadcrumb) String() string {
	return "<value at " + strings.Join(b, "") + ">"
}

func (b Breadcrumb) push(segment string) Breadcrumb {
	out := make(Breadcrumb, len(b)+1)
	copy(out, b)
	out[len(b)] = segment
	return out
}
