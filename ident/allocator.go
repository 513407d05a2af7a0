// Package ident implements the identifier allocator (spec §4.1): short,
// legal, collision-free names for emitted bindings, with support for names
// that must be "frozen" verbatim because dynamic code evaluation in the
// source could observe them (spec §4.5).
package ident

import (
	"fmt"
	"regexp"
	"strings"
)

// ScopeID identifies a naming scope (an emitted lexical block). The zero
// value is the root scope.
type ScopeID int

// Allocator is the §4.1 contract.
type Allocator interface {
	// Allocate returns a name not colliding with any name already allocated
	// or reserved in scope or any enclosing scope, and not a reserved word.
	Allocate(hint string, scope ScopeID) string
	// Reserve marks a name as taken without producing it.
	Reserve(name string, scope ScopeID)
	// FreezeWithName reserves name and marks it un-manglable: no later
	// allocation or renaming may reuse or replace it.
	FreezeWithName(name string, scope ScopeID)
	// NewScope creates a child scope nested under parent and returns its id.
	NewScope(parent ScopeID) ScopeID
	// NamesInScope exposes the name set of one scope (not including
	// ancestors), for the emission planner's shadow-conflict detection.
	NamesInScope(scope ScopeID) []string
	// IsFrozen reports whether name was frozen in scope or an ancestor.
	IsFrozen(name string, scope ScopeID) bool
}

var reservedWords = map[string]bool{
	// A representative reserved-word list for the output language; a real
	// printer adapter would extend this per output dialect.
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true,
	"do": true, "else": true, "export": true, "extends": true, "finally": true,
	"for": true, "function": true, "if": true, "import": true, "in": true,
	"instanceof": true, "new": true, "return": true, "super": true,
	"switch": true, "this": true, "throw": true, "try": true, "typeof": true,
	"var": true, "void": true, "while": true, "with": true, "yield": true,
	"let": true, "static": true, "enum": true, "await": true, "implements": true,
	"package": true, "protected": true, "interface": true, "private": true,
	"public": true, "null": true, "true": true, "false": true,
}

var unsafeHintChars = regexp.MustCompile(`[^A-Za-z0-9_$]`)

type scopeState struct {
	parent ScopeID
	used   map[string]bool
	frozen map[string]bool
}

// DefaultAllocator is the reference Allocator implementation.
type DefaultAllocator struct {
	mangle   bool
	scopes   map[ScopeID]*scopeState
	nextID   ScopeID
	shortGen map[ScopeID]int // per-scope-chain short-name counters
}

// NewAllocator creates an allocator. When mangle is false, Allocate always
// returns the sanitized hint (subject to uniqueness); when true, it prefers
// short generated names (spec §4.1).
func NewAllocator(mangle bool) *DefaultAllocator {
	a := &DefaultAllocator{
		mangle:   mangle,
		scopes:   map[ScopeID]*scopeState{0: {used: map[string]bool{}, frozen: map[string]bool{}}},
		shortGen: map[ScopeID]int{},
	}
	return a
}

// NewScope implements Allocator.
func (a *DefaultAllocator) NewScope(parent ScopeID) ScopeID {
	a.nextID++
	id := a.nextID
	a.scopes[id] = &scopeState{parent: parent, used: map[string]bool{}, frozen: map[string]bool{}}
	return id
}

func (a *DefaultAllocator) chain(scope ScopeID) []ScopeID {
	var chain []ScopeID
	cur, ok := scope, true
	seen := map[ScopeID]bool{}
	for ok && !seen[cur] {
		chain = append(chain, cur)
		seen[cur] = true
		st, present := a.scopes[cur]
		if !present || cur == 0 {
			break
		}
		cur, ok = st.parent, true
	}
	if len(chain) == 0 || chain[len(chain)-1] != 0 {
		chain = append(chain, 0)
	}
	return chain
}

func (a *DefaultAllocator) visibleIn(name string, scope ScopeID) bool {
	for _, s := range a.chain(scope) {
		st := a.scopes[s]
		if st == nil {
			continue
		}
		if st.used[name] || st.frozen[name] {
			return true
		}
	}
	return false
}

// IsFrozen implements Allocator.
func (a *DefaultAllocator) IsFrozen(name string, scope ScopeID) bool {
	for _, s := range a.chain(scope) {
		if st := a.scopes[s]; st != nil && st.frozen[name] {
			return true
		}
	}
	return false
}

// Reserve implements Allocator.
func (a *DefaultAllocator) Reserve(name string, scope ScopeID) {
	st := a.scopeOrRoot(scope)
	st.used[name] = true
}

// FreezeWithName implements Allocator.
func (a *DefaultAllocator) FreezeWithName(name string, scope ScopeID) {
	st := a.scopeOrRoot(scope)
	st.used[name] = true
	st.frozen[name] = true
}

func (a *DefaultAllocator) scopeOrRoot(scope ScopeID) *scopeState {
	if st, ok := a.scopes[scope]; ok {
		return st
	}
	return a.scopes[0]
}

// NamesInScope implements Allocator.
func (a *DefaultAllocator) NamesInScope(scope ScopeID) []string {
	st := a.scopeOrRoot(scope)
	names := make([]string, 0, len(st.used))
	for n := range st.used {
		names = append(names, n)
	}
	return names
}

// Allocate implements Allocator.
func (a *DefaultAllocator) Allocate(hint string, scope ScopeID) string {
	st := a.scopeOrRoot(scope)
	if a.mangle {
		name := a.nextShortName(scope)
		for a.visibleIn(name, scope) || reservedWords[name] {
			name = a.nextShortName(scope)
		}
		st.used[name] = true
		return name
	}
	base := sanitizeHint(hint)
	name := base
	n := 1
	for a.visibleIn(name, scope) || reservedWords[name] || name == "" {
		n++
		name = fmt.Sprintf("%s%d", base, n)
	}
	st.used[name] = true
	return name
}

func sanitizeHint(hint string) string {
	h := unsafeHintChars.ReplaceAllString(hint, "_")
	h = strings.TrimLeft(h, "0123456789")
	if h == "" {
		h = "v"
	}
	if reservedWords[h] {
		h = "_" + h
	}
	return h
}

// nextShortName produces the classic base-26 sequence a, b, c, ..., z, aa,
// ab, ... scoped per naming scope so sibling scopes can reuse short names
// independently (spec §4.1 "short ASCII (a, b, c, …, aa, ab, …)").
func (a *DefaultAllocator) nextShortName(scope ScopeID) string {
	n := a.shortGen[scope]
	a.shortGen[scope] = n + 1
	return base26(n)
}

func base26(n int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz"
	if n < 26 {
		return string(alphabet[n])
	}
	var b []byte
	n++ // switch to a 1-indexed bijective base-26 system
	for n > 0 {
		n--
		b = append([]byte{alphabet[n%26]}, b...)
		n /= 26
	}
	return string(b)
}
