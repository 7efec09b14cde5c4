package match

import (
	"fmt"
	"go/ast"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/treefactor/treefactor/bindings"
	"github.com/treefactor/treefactor/pattern"
)

// RewriteFunc computes the replacement for one successful match. matched is
// the fragment the pattern matched; b holds its captures. The returned
// fragment must have the same kind as the matched one.
type RewriteFunc func(matched bindings.Fragment, b bindings.Bindings) (bindings.Fragment, error)

// Result is one successful match found by FindAll: the matched fragment (in
// the original tree, with its original positions) and its bindings.
type Result struct {
	Matched  bindings.Fragment
	Bindings bindings.Bindings
}

// FoldMatch walks target in pre-order and, at every position where the
// pattern matches, replaces that position with the fragment fn computes from
// the match's bindings. The engine descends into the original children of
// unmatched nodes but never into a freshly substituted replacement, so a
// replacement that resembles the pattern is not rewritten again in the same
// pass. Each position is tried independently, seeded with mcx's initial
// bindings.
//
// The input tree is never mutated; FoldMatch rewrites a deep copy and
// returns it. A target without any occurrence comes back equal to the input.
func FoldMatch(p *pattern.Pattern, target ast.Node, mcx *MatchCtxt, fn RewriteFunc) (ast.Node, error) {
	f := &folder{
		p:        p,
		mcx:      mcx,
		fn:       fn,
		mode:     modeRewrite,
		max:      mcx.maxDepth(),
		replaced: make(map[ast.Node]bool),
	}
	out := astutil.Apply(bindings.CloneNode(target), f.pre, f.post)
	if f.err != nil {
		return nil, f.err
	}
	return out, nil
}

// FindFirst walks target in pre-order and returns the bindings of the
// earliest position where the pattern matches. The target is not modified.
func FindFirst(p *pattern.Pattern, target ast.Node, mcx *MatchCtxt) (bindings.Bindings, bool) {
	f := &folder{
		p:        p,
		mcx:      mcx,
		mode:     modeFirst,
		max:      mcx.maxDepth(),
		replaced: make(map[ast.Node]bool),
	}
	astutil.Apply(target, f.pre, f.post)
	if len(f.results) == 0 {
		return nil, false
	}
	return f.results[0].Bindings, true
}

// FindAll returns every non-overlapping match of the pattern in pre-order.
// Like FindFirst it does not modify the target, and like FoldMatch it does
// not look for further matches inside a matched fragment.
func FindAll(p *pattern.Pattern, target ast.Node, mcx *MatchCtxt) []Result {
	f := &folder{
		p:        p,
		mcx:      mcx,
		mode:     modeAll,
		max:      mcx.maxDepth(),
		replaced: make(map[ast.Node]bool),
	}
	astutil.Apply(target, f.pre, f.post)
	return f.results
}

type foldMode int

const (
	modeRewrite foldMode = iota
	modeFirst
	modeAll
)

type folder struct {
	p   *pattern.Pattern
	mcx *MatchCtxt
	fn  RewriteFunc

	mode     foldMode
	max      int
	depth    int
	results  []Result
	replaced map[ast.Node]bool
	err      error
}

func (f *folder) pre(c *astutil.Cursor) bool {
	descend := f.visit(c)
	if descend {
		f.depth++
	}
	return descend
}

func (f *folder) post(*astutil.Cursor) bool {
	f.depth--
	return true
}

func (f *folder) done() bool {
	return f.err != nil || (f.mode == modeFirst && len(f.results) > 0)
}

func (f *folder) visit(c *astutil.Cursor) bool {
	n := c.Node()
	if n == nil || f.done() {
		return false
	}
	if f.replaced[n] {
		// Freshly substituted subtree: opaque to further matching.
		return false
	}
	if f.depth >= f.max {
		return false
	}

	switch f.p.Kind() {
	case bindings.KindExpr, bindings.KindType:
		e, ok := n.(ast.Expr)
		if !ok {
			return true
		}
		if _, isIdent := e.(*ast.Ident); isIdent && identOnly(c.Parent(), c.Name()) {
			// Selector, label and name fields are not independent
			// expression positions.
			return true
		}
		return !f.try(c, bindings.NewExpr(e))
	case bindings.KindIdent:
		id, ok := n.(*ast.Ident)
		if !ok || identOnly(c.Parent(), c.Name()) {
			return true
		}
		return !f.try(c, bindings.NewIdent(id))
	case bindings.KindDecl:
		d, ok := n.(ast.Decl)
		if !ok {
			return true
		}
		return !f.try(c, bindings.NewDecl(d))
	case bindings.KindStmts:
		switch n := n.(type) {
		case *ast.BlockStmt:
			f.foldList(&n.List)
		case *ast.CaseClause:
			f.foldList(&n.Body)
		case *ast.CommClause:
			f.foldList(&n.Body)
		}
		return !f.done()
	default:
		return true
	}
}

// try attempts the pattern at a single node. It reports whether the node was
// consumed by a match and must therefore not be descended into.
func (f *folder) try(c *astutil.Cursor, candidate bindings.Fragment) bool {
	bnd, err := Match(f.p, candidate, f.mcx)
	if err != nil {
		return false
	}
	if f.mode != modeRewrite {
		f.results = append(f.results, Result{Matched: candidate, Bindings: bnd})
		return true
	}

	out, err := f.fn(candidate, bnd)
	if err != nil {
		f.err = err
		return true
	}
	repl := out.Node()
	if repl == nil {
		f.err = fmt.Errorf("rewrite produced an empty %s fragment", f.p.Kind())
		return true
	}
	c.Replace(repl)
	f.replaced[repl] = true
	return true
}

// foldList slides a statement-sequence pattern over one statement list,
// replacing every maximal non-overlapping window that matches. Replacement
// statements are recorded so the surrounding walk does not re-enter them.
func (f *folder) foldList(list *[]ast.Stmt) {
	src := *list
	out := make([]ast.Stmt, 0, len(src))
	changed := false

	i := 0
	for i < len(src) {
		if f.done() {
			break
		}
		bnd, n, err := MatchStmtsPrefix(f.p, src[i:], f.mcx)
		if err != nil || n == 0 {
			out = append(out, src[i])
			i++
			continue
		}

		window := make([]ast.Stmt, n)
		copy(window, src[i:i+n])
		if f.mode != modeRewrite {
			f.results = append(f.results, Result{Matched: bindings.NewStmts(window), Bindings: bnd})
			for _, st := range window {
				f.replaced[st] = true
			}
			i += n
			continue
		}

		repl, rerr := f.fn(bindings.NewStmts(window), bnd)
		if rerr != nil {
			f.err = rerr
			return
		}
		if repl.Kind() != bindings.KindStmts {
			f.err = fmt.Errorf("rewrite produced a %s fragment for a statement run", repl.Kind())
			return
		}
		for _, st := range repl.Stmts() {
			f.replaced[st] = true
			out = append(out, st)
		}
		changed = true
		i += n
	}
	out = append(out, src[i:]...)

	if changed {
		*list = out
	}
}
