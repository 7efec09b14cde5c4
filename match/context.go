// Package match unifies pattern fragments against candidate syntax trees,
// substitutes templates from the resulting bindings, and drives whole-tree
// rewrites.
package match

import (
	"go/ast"

	"github.com/treefactor/treefactor/bindings"
)

// Resolver answers whether two path-like expressions denote the same
// underlying definition. The matcher treats it as an opaque oracle: literal
// spelling is never assumed to decide definition identity.
//
// known is false when the resolver has no answer for either operand; the
// matcher then falls back to structural comparison.
type Resolver interface {
	SameDef(a, b ast.Expr) (same, known bool)
}

// DefaultMaxDepth bounds how deep the fold driver descends into a target
// tree. Machine-generated trees deeper than this are skipped, not matched.
const DefaultMaxDepth = 10000

// MatchCtxt is one matching session: seed bindings, the semantic oracle and
// the traversal depth bound. A MatchCtxt is created per top-level operation;
// the matcher reads it but never mutates it, so a failed attempt leaves the
// seed bindings intact.
type MatchCtxt struct {
	Bindings bindings.Bindings
	Resolver Resolver
	MaxDepth int
}

// NewMatchCtxt returns a fresh session with empty bindings. r may be nil, in
// which case all path comparisons are purely structural.
func NewMatchCtxt(r Resolver) *MatchCtxt {
	return &MatchCtxt{
		Bindings: bindings.New(),
		Resolver: r,
		MaxDepth: DefaultMaxDepth,
	}
}

// WithBinding seeds the session with a pre-existing binding and returns the
// same context, for call chaining.
func (m *MatchCtxt) WithBinding(name string, f bindings.Fragment) *MatchCtxt {
	m.Bindings.Set(name, f)
	return m
}

func (m *MatchCtxt) maxDepth() int {
	if m.MaxDepth > 0 {
		return m.MaxDepth
	}
	return DefaultMaxDepth
}
