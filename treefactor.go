// Package treefactor locates and rewrites fragments of Go syntax trees
// according to textual patterns with metavariable holes.
//
// The one-shot helpers here parse a pattern and a replacement template once,
// then run the fold-match driver over a caller-provided tree:
//
//	out, err := treefactor.ReplaceExpr(file, "dup(:[x])", ":[x] + :[x]", nil)
//
// Callers that need seeded bindings, a custom rewrite callback or repeated
// application of a pre-parsed pattern use the pattern and match packages
// directly.
package treefactor

import (
	"go/ast"

	"github.com/treefactor/treefactor/bindings"
	"github.com/treefactor/treefactor/match"
	"github.com/treefactor/treefactor/pattern"
)

// Replace parses pat and repl at the given fragment kind and replaces every
// maximal, non-overlapping occurrence of pat in target with the substituted
// template. Trees with zero occurrences are returned unchanged (as a fresh
// copy); the input tree is never modified. r may be nil for purely
// structural matching.
func Replace(kind bindings.Kind, target ast.Node, pat, repl string, r match.Resolver) (ast.Node, error) {
	p, err := pattern.Parse(kind, pat)
	if err != nil {
		return nil, err
	}
	tmpl, err := pattern.Parse(kind, repl)
	if err != nil {
		return nil, err
	}
	mcx := match.NewMatchCtxt(r)
	return match.FoldMatch(p, target, mcx, func(_ bindings.Fragment, b bindings.Bindings) (bindings.Fragment, error) {
		return match.Subst(tmpl, b)
	})
}

// ReplaceExpr replaces all instances of the expression pattern pat with repl.
func ReplaceExpr(target ast.Node, pat, repl string, r match.Resolver) (ast.Node, error) {
	return Replace(bindings.KindExpr, target, pat, repl, r)
}

// ReplaceStmts replaces all instances of the statement-sequence pattern pat
// with repl.
func ReplaceStmts(target ast.Node, pat, repl string, r match.Resolver) (ast.Node, error) {
	return Replace(bindings.KindStmts, target, pat, repl, r)
}

// ReplaceType replaces all instances of the type pattern pat with repl.
func ReplaceType(target ast.Node, pat, repl string, r match.Resolver) (ast.Node, error) {
	return Replace(bindings.KindType, target, pat, repl, r)
}

// FindFirst parses pat at the given kind and returns the bindings of its
// earliest pre-order occurrence in target, without modifying anything.
func FindFirst(kind bindings.Kind, target ast.Node, pat string, r match.Resolver) (bindings.Bindings, bool, error) {
	p, err := pattern.Parse(kind, pat)
	if err != nil {
		return nil, false, err
	}
	b, ok := match.FindFirst(p, target, match.NewMatchCtxt(r))
	return b, ok, nil
}

// FindFirstWith is FindFirst under a caller-seeded match context, for
// patterns spanning multiple anchor points that must share bindings.
func FindFirstWith(mcx *match.MatchCtxt, p *pattern.Pattern, target ast.Node) (bindings.Bindings, bool) {
	return match.FindFirst(p, target, mcx)
}

// FoldMatchWith runs the fold-match driver under a caller-seeded context.
func FoldMatchWith(mcx *match.MatchCtxt, p *pattern.Pattern, target ast.Node, fn match.RewriteFunc) (ast.Node, error) {
	return match.FoldMatch(p, target, mcx, fn)
}
