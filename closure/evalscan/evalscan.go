// Package evalscan implements closure.EvalDetector by scanning a function
// body's source text with tree-sitter instead of a full parse, grounded on
// the teacher pack's inspector/golang/inspector_tree_sitter.go (parser,
// query, query-cursor idiom).
//
// Detecting "dynamic eval" is language-specific; this scanner flags the Go
// analogues of JS's eval/Function/with — calls that can observe or rewrite
// an identifier by its original name string at runtime, which forces every
// binding visible to that call into a frozen, un-mangled name (spec §4.5).
package evalscan

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// Scanner is a closure.EvalDetector backed by a reusable tree-sitter parser.
// A Scanner is not safe for concurrent use; callers needing concurrency
// should create one Scanner per goroutine (spec §5: per-request isolated
// state).
type Scanner struct {
	parser *sitter.Parser
	// dynamicCalls is the set of bare function names treated as dynamic
	// eval sites.
	dynamicCalls map[string]bool
	// dynamicSelectors is the set of "pkg.Member"-shaped selector calls
	// treated as dynamic eval sites: indirect, name-string-driven access
	// via the reflect package.
	dynamicSelectors map[string]bool
}

// defaultDynamicCalls are bare identifiers that, called as a function,
// indicate the body can synthesize or evaluate code from a runtime string.
var defaultDynamicCalls = map[string]bool{
	"eval": true,
}

// defaultDynamicSelectors are "receiver.Method" shapes that let code look
// up a binding by its name at runtime rather than by static reference.
var defaultDynamicSelectors = map[string]bool{
	"FieldByName":  true,
	"MethodByName": true,
	"Lookup":       true, // text/template, os.LookupEnv-style name lookups
}

// New creates a Scanner with the default dynamic-construct sets.
func New() *Scanner {
	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())
	return &Scanner{
		parser:           parser,
		dynamicCalls:     defaultDynamicCalls,
		dynamicSelectors: defaultDynamicSelectors,
	}
}

// ContainsDynamicEval implements closure.EvalDetector.
func (s *Scanner) ContainsDynamicEval(bodyText string) (bool, error) {
	wrapped := wrapAsFunc(bodyText)
	tree, err := s.parser.ParseCtx(context.Background(), nil, []byte(wrapped))
	if err != nil {
		return false, fmt.Errorf("evalscan: parse: %w", err)
	}
	defer tree.Close()

	src := []byte(wrapped)
	root := tree.RootNode()

	if s.matchesQuery(root, src, "(call_expression function: (identifier) @fn)", s.dynamicCalls) {
		return true, nil
	}
	if s.matchesQuery(root, src, "(call_expression function: (selector_expression field: (field_identifier) @method))", s.dynamicSelectors) {
		return true, nil
	}
	return false, nil
}

// matchesQuery runs pattern over root and reports whether any capture's
// text is a member of the allow-set.
func (s *Scanner) matchesQuery(root *sitter.Node, src []byte, pattern string, allow map[string]bool) bool {
	query := sitter.NewQuery([]byte(pattern), golang.GetLanguage())
	cursor := sitter.NewQueryCursor()
	cursor.Exec(query, root)

	for {
		match, ok := cursor.NextMatch()
		if !ok {
			return false
		}
		for _, capture := range match.Captures {
			if allow[capture.Node.Content(src)] {
				return true
			}
		}
	}
}

// wrapAsFunc embeds a bare statement-list body (as astregistry hands it,
// with the enclosing braces already printed) inside a throwaway top-level
// function so tree-sitter's grammar, which only accepts complete source
// files, can parse it standalone.
func wrapAsFunc(body string) string {
	return "package p\nfunc scan() " + body + "\n"
}
