// Package bindings defines the kind-tagged syntax tree fragments captured
// during pattern matching and the name -> fragment map accumulated by a match.
package bindings

import (
	"errors"
	"fmt"
	"go/ast"
	"go/printer"
	"go/token"
	"strings"
)

// Kind tags the syntactic category a Fragment carries. Metavariables declare
// the Kind they are permitted to capture.
type Kind int

const (
	KindExpr  Kind = iota + 1 // a single expression
	KindStmts                 // a statement sequence
	KindType                  // an expression in type position
	KindDecl                  // a top-level declaration
	KindIdent                 // a bare identifier
)

func (k Kind) String() string {
	switch k {
	case KindExpr:
		return "expr"
	case KindStmts:
		return "stmts"
	case KindType:
		return "type"
	case KindDecl:
		return "decl"
	case KindIdent:
		return "ident"
	default:
		return "unknown"
	}
}

// KindFromString maps a textual kind hint (as written in a hole, e.g.
// ":[x:expr]") to its Kind. Returns 0 for an unknown hint.
func KindFromString(s string) Kind {
	switch s {
	case "expr", "expression":
		return KindExpr
	case "stmts", "statements":
		return KindStmts
	case "type":
		return KindType
	case "decl":
		return KindDecl
	case "ident", "identifier":
		return KindIdent
	default:
		return 0
	}
}

// Fragment is an owned, kind-tagged syntax tree value. A Fragment is a value
// type: Clone produces an independent copy, and holders must not mutate a
// fragment that has been handed out.
type Fragment struct {
	kind  Kind
	expr  ast.Expr   // KindExpr, KindType, KindIdent
	stmts []ast.Stmt // KindStmts
	decl  ast.Decl   // KindDecl
}

// NewExpr wraps an expression as a fragment.
func NewExpr(e ast.Expr) Fragment { return Fragment{kind: KindExpr, expr: e} }

// NewType wraps an expression occurring in type position as a fragment.
func NewType(e ast.Expr) Fragment { return Fragment{kind: KindType, expr: e} }

// NewIdent wraps a bare identifier as a fragment.
func NewIdent(id *ast.Ident) Fragment { return Fragment{kind: KindIdent, expr: id} }

// NewStmts wraps a statement sequence as a fragment. The fragment takes
// ownership of the slice.
func NewStmts(list []ast.Stmt) Fragment { return Fragment{kind: KindStmts, stmts: list} }

// NewDecl wraps a declaration as a fragment.
func NewDecl(d ast.Decl) Fragment { return Fragment{kind: KindDecl, decl: d} }

// Kind reports the syntactic category of the fragment.
func (f Fragment) Kind() Kind { return f.kind }

// Expr returns the underlying expression for KindExpr, KindType and
// KindIdent fragments, and nil otherwise.
func (f Fragment) Expr() ast.Expr { return f.expr }

// Stmts returns the underlying statement sequence for KindStmts fragments.
func (f Fragment) Stmts() []ast.Stmt { return f.stmts }

// Decl returns the underlying declaration for KindDecl fragments.
func (f Fragment) Decl() ast.Decl { return f.decl }

// Node returns the single node a fragment wraps, or nil for statement
// sequences (which have no single root).
func (f Fragment) Node() ast.Node {
	switch f.kind {
	case KindExpr, KindType, KindIdent:
		if f.expr == nil {
			return nil
		}
		return f.expr
	case KindDecl:
		if f.decl == nil {
			return nil
		}
		return f.decl
	default:
		return nil
	}
}

// Pos returns the source position of the fragment's first token, or
// token.NoPos for empty or synthesized fragments.
func (f Fragment) Pos() token.Pos {
	if f.kind == KindStmts {
		if len(f.stmts) == 0 {
			return token.NoPos
		}
		return f.stmts[0].Pos()
	}
	if n := f.Node(); n != nil {
		return n.Pos()
	}
	return token.NoPos
}

// Clone returns a deep copy of the fragment. Source positions are preserved,
// so a clone of a captured fragment still reports where it was captured.
func (f Fragment) Clone() Fragment { return f.clone(false) }

// CloneSynthesized returns a deep copy with every source position cleared to
// token.NoPos, marking the copy as generated rather than parsed.
func (f Fragment) CloneSynthesized() Fragment { return f.clone(true) }

func (f Fragment) clone(strip bool) Fragment {
	out := Fragment{kind: f.kind}
	switch f.kind {
	case KindExpr, KindType, KindIdent:
		out.expr = cloneExpr(f.expr, strip)
	case KindStmts:
		out.stmts = cloneStmts(f.stmts, strip)
	case KindDecl:
		out.decl = cloneDecl(f.decl, strip)
	}
	return out
}

// Equal reports whether two fragments are structurally equal, ignoring
// source positions and comments.
func (f Fragment) Equal(o Fragment) bool {
	if f.kind != o.kind {
		return false
	}
	switch f.kind {
	case KindExpr, KindType, KindIdent:
		return equalExpr(f.expr, o.expr)
	case KindStmts:
		return equalStmts(f.stmts, o.stmts)
	case KindDecl:
		return equalDecl(f.decl, o.decl)
	default:
		return false
	}
}

// String renders the fragment's source form, for error messages and tests.
func (f Fragment) String() string {
	fset := token.NewFileSet()
	switch f.kind {
	case KindStmts:
		parts := make([]string, 0, len(f.stmts))
		for _, s := range f.stmts {
			var sb strings.Builder
			if err := printer.Fprint(&sb, fset, s); err != nil {
				return fmt.Sprintf("<%v>", err)
			}
			parts = append(parts, sb.String())
		}
		return strings.Join(parts, "; ")
	default:
		n := f.Node()
		if n == nil {
			return "<empty>"
		}
		var sb strings.Builder
		if err := printer.Fprint(&sb, fset, n); err != nil {
			return fmt.Sprintf("<%v>", err)
		}
		return sb.String()
	}
}

// ErrConflict reports that a merge found the same metavariable bound to two
// structurally different fragments.
var ErrConflict = errors.New("conflicting binding")

// Bindings maps metavariable names to captured fragments. Entries accumulate
// monotonically during one match attempt; a rebinding to an unequal fragment
// fails that attempt.
type Bindings map[string]Fragment

// New returns an empty binding set.
func New() Bindings { return make(Bindings) }

// Get returns the fragment bound to name, if any.
func (b Bindings) Get(name string) (Fragment, bool) {
	f, ok := b[name]
	return f, ok
}

// Set binds name to f, overwriting any previous binding. Consistency checks
// are the matcher's job; Set is a raw store.
func (b Bindings) Set(name string, f Fragment) { b[name] = f }

// Copy returns a shallow copy of the map. Fragments are immutable values, so
// sharing them between copies is safe.
func (b Bindings) Copy() Bindings {
	out := make(Bindings, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Merge combines two binding sets into a new one. It fails with ErrConflict
// iff some name is present in both and bound to unequal fragments.
func (b Bindings) Merge(other Bindings) (Bindings, error) {
	out := b.Copy()
	for name, f := range other {
		if prev, ok := out[name]; ok {
			if !prev.Equal(f) {
				return nil, fmt.Errorf("%w: %q is %s, cannot rebind to %s",
					ErrConflict, name, prev, f)
			}
			continue
		}
		out[name] = f
	}
	return out, nil
}
