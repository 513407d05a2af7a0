// Package astregistry implements closure.Registry against Go source text
// using go/ast, go/parser, go/types and astutil, grounded on the teacher
// pack's inspector/golang package (parse once with a shared token.FileSet,
// walk declarations, render sub-trees back to text with go/printer).
//
// It treats each top-level or literal func in the parsed source as a
// "function value", identified by the byte offset of its func keyword, and
// resolves its captured environment by resolving every free identifier in
// its body against the enclosing scopes reported by go/types.
package astregistry

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"go/types"
	"sort"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/viant/livegraph/closure"
	"github.com/viant/livegraph/introspect"
	"github.com/viant/livegraph/record"
)

// FuncKey identifies one function literal or declaration by its source
// position, which doubles as a stable Identity() for introspect.Value
// wrappers the tracer hands this registry.
type FuncKey uintptr

// Value wraps a FuncKey so it satisfies introspect.Value.
type Value struct{ Key FuncKey }

// Identity implements introspect.Value.
func (v Value) Identity() uintptr { return uintptr(v.Key) }

// Registry resolves function bodies and free-variable captures from a
// single parsed Go source file. Construct one per traced source unit.
type Registry struct {
	fset    *token.FileSet
	file    *ast.File
	info    *types.Info
	byKey   map[FuncKey]*ast.FuncDecl
	litByKey map[FuncKey]*ast.FuncLit
}

// New parses src and type-checks it well enough to resolve identifier
// scopes (types.Info.Defs/Uses), matching the teacher's single-fset,
// parse-then-walk structure.
func New(filename string, src []byte) (*Registry, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("astregistry: parse %s: %w", filename, err)
	}

	info := &types.Info{
		Defs:  map[*ast.Ident]types.Object{},
		Uses:  map[*ast.Ident]types.Object{},
		Scopes: map[ast.Node]*types.Scope{},
	}
	conf := types.Config{Error: func(error) {}, Importer: nil}
	// Best-effort: a single file without its imports resolved will still
	// populate Defs/Uses/Scopes for local bindings, which is all the
	// closure reifier needs; unresolved imports are reported as Invalid
	// types.Config errors and otherwise ignored.
	_, _ = conf.Check(file.Name.Name, fset, []*ast.File{file}, info)

	r := &Registry{
		fset:     fset,
		file:     file,
		info:     info,
		byKey:    map[FuncKey]*ast.FuncDecl{},
		litByKey: map[FuncKey]*ast.FuncLit{},
	}
	r.index()
	return r, nil
}

func (r *Registry) index() {
	ast.Inspect(r.file, func(n ast.Node) bool {
		switch decl := n.(type) {
		case *ast.FuncDecl:
			r.byKey[r.keyOf(decl.Pos())] = decl
		case *ast.FuncLit:
			r.litByKey[r.keyOf(decl.Pos())] = decl
		}
		return true
	})
}

func (r *Registry) keyOf(pos token.Pos) FuncKey { return FuncKey(pos) }

// KeyForDecl exposes the FuncKey for a top-level declaration named name, for
// callers building the initial FuncValue to hand the tracer.
func (r *Registry) KeyForDecl(name string) (FuncKey, bool) {
	for key, decl := range r.byKey {
		if decl.Name.Name == name {
			return key, true
		}
	}
	return 0, false
}

// LitKeys returns the FuncKey of every func literal found in the source, in
// source order, for callers (and tests) that need to address an anonymous
// closure rather than a named declaration.
func (r *Registry) LitKeys() []FuncKey {
	keys := make([]FuncKey, 0, len(r.litByKey))
	for key := range r.litByKey {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Lookup implements closure.Registry.
func (r *Registry) Lookup(fn closure.FuncValue) (closure.ClosureInfo, error) {
	key := FuncKey(fn.Identity())
	if decl, ok := r.byKey[key]; ok {
		return r.describe(decl.Type, decl.Body, decl.Pos())
	}
	if lit, ok := r.litByKey[key]; ok {
		return r.describe(lit.Type, lit.Body, lit.Pos())
	}
	return closure.ClosureInfo{}, fmt.Errorf("astregistry: no function at key %d", key)
}

func (r *Registry) describe(typ *ast.FuncType, body *ast.BlockStmt, pos token.Pos) (closure.ClosureInfo, error) {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, r.fset, body); err != nil {
		return closure.ClosureInfo{}, fmt.Errorf("astregistry: render body: %w", err)
	}

	var params []string
	if typ.Params != nil {
		for _, field := range typ.Params.List {
			for _, name := range field.Names {
				params = append(params, name.Name)
			}
		}
	}

	frames, err := r.captureFrames(typ, body, pos)
	if err != nil {
		return closure.ClosureInfo{}, err
	}

	return closure.ClosureInfo{
		BodyText:  buf.String(),
		ParamList: params,
		EnvChain:  frames,
	}, nil
}

// enclosingFuncLit reports the nearest ast.FuncLit strictly enclosing pos,
// using astutil's path-to-root walk rather than a second manual AST
// traversal. Used to split captured identifiers into an inner frame (bound
// by a directly enclosing closure, e.g. a returned function factory) and an
// outer frame (everything else in file scope), matching how nested JS
// closures reify as a chain of scope records (spec §4.5).
func (r *Registry) enclosingFuncLit(pos token.Pos) *ast.FuncLit {
	path, _ := astutil.PathEnclosingInterval(r.file, pos, pos)
	for _, n := range path {
		if fl, ok := n.(*ast.FuncLit); ok {
			return fl
		}
	}
	return nil
}

// captureFrames walks body's free identifiers (uses whose object was
// defined outside body) and splits them into an inner frame, for names
// whose declaration lives inside a func literal enclosing body, and an
// outer frame for everything else. Frames are keyed by their sorted name
// set so two functions capturing an identical binding set reify to the
// same scope record. This is a conservative approximation of true
// live-variable capture, acceptable because over-capturing only widens a
// reified scope's parameter list, never breaks correctness.
func (r *Registry) captureFrames(typ *ast.FuncType, body *ast.BlockStmt, declPos token.Pos) ([]closure.EnvFrame, error) {
	local := map[types.Object]bool{}
	markLocal := func(n ast.Node) bool {
		if ident, ok := n.(*ast.Ident); ok {
			if obj, ok := r.info.Defs[ident]; ok && obj != nil {
				local[obj] = true
			}
		}
		return true
	}
	// Parameter and named-result identifiers live on the func's type node,
	// not inside its body block, so both must be walked to know what counts
	// as locally bound.
	ast.Inspect(typ, markLocal)
	ast.Inspect(body, markLocal)

	innerSeen, outerSeen := map[string]bool{}, map[string]bool{}
	var innerNames, outerNames []string
	ast.Inspect(body, func(n ast.Node) bool {
		ident, ok := n.(*ast.Ident)
		if !ok {
			return true
		}
		obj, ok := r.info.Uses[ident]
		if !ok || obj == nil || local[obj] {
			return true
		}
		// Predeclared identifiers (int, len, nil, ...) are never captures.
		if _, isBuiltin := obj.(*types.Builtin); isBuiltin || obj.Parent() == types.Universe {
			return true
		}
		if fl := r.enclosingFuncLit(obj.Pos()); fl != nil && fl.Pos() != token.NoPos && fl.Pos() < declPos {
			if !innerSeen[ident.Name] {
				innerSeen[ident.Name] = true
				innerNames = append(innerNames, ident.Name)
			}
			return true
		}
		if !outerSeen[ident.Name] {
			outerSeen[ident.Name] = true
			outerNames = append(outerNames, ident.Name)
		}
		return true
	})
	sort.Strings(innerNames)
	sort.Strings(outerNames)

	var frames []closure.EnvFrame
	if len(innerNames) > 0 {
		frames = append(frames, frameFor(innerNames))
	}
	if len(outerNames) > 0 {
		frames = append(frames, frameFor(outerNames))
	}
	return frames, nil
}

func frameFor(names []string) closure.EnvFrame {
	bindings := make([]record.ScopeBinding, len(names))
	for i, n := range names {
		bindings[i] = record.ScopeBinding{Name: n}
	}
	return closure.EnvFrame{
		HashID:   "astframe:" + strconv.Quote(joinNames(names)),
		Bindings: bindings,
	}
}

func joinNames(names []string) string {
	var buf bytes.Buffer
	for i, n := range names {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(n)
	}
	return buf.String()
}

var _ introspect.Value = Value{}
