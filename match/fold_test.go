package match

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treefactor/treefactor/bindings"
)

func parseTarget(t *testing.T, src string) *ast.File {
	t.Helper()
	file, err := parser.ParseFile(token.NewFileSet(), "target.go", src, 0)
	require.NoError(t, err)
	return file
}

func substFn(t *testing.T, kind bindings.Kind, text string) RewriteFunc {
	t.Helper()
	tmpl := mustPattern(t, kind, text)
	return func(_ bindings.Fragment, b bindings.Bindings) (bindings.Fragment, error) {
		return Subst(tmpl, b)
	}
}

func TestFoldMatch(t *testing.T) {
	t.Parallel()

	t.Run("replacements are opaque to further matching", func(t *testing.T) {
		t.Parallel()
		target := parseTarget(t, "package p\nfunc m() { v := f(f(x)); use(v) }\n")
		p := mustPattern(t, bindings.KindExpr, "f(:[y])")

		out, err := FoldMatch(p, target, NewMatchCtxt(nil), substFn(t, bindings.KindExpr, "g(:[y])"))
		require.NoError(t, err)

		// the outer call is rewritten; the f(x) spliced in from the capture
		// is part of the replacement and stays untouched
		want := parseTarget(t, "package p\nfunc m() { v := g(f(x)); use(v) }\n")
		assert.True(t, bindings.EqualNode(out, want))
	})

	t.Run("input tree is not mutated", func(t *testing.T) {
		t.Parallel()
		const src = "package p\nfunc m() { v := f(1); use(v) }\n"
		target := parseTarget(t, src)
		p := mustPattern(t, bindings.KindExpr, "f(:[y])")

		_, err := FoldMatch(p, target, NewMatchCtxt(nil), substFn(t, bindings.KindExpr, "g(:[y])"))
		require.NoError(t, err)
		assert.True(t, bindings.EqualNode(target, parseTarget(t, src)))
	})

	t.Run("no occurrence leaves the tree equal", func(t *testing.T) {
		t.Parallel()
		const src = "package p\nfunc m() { a(); b() }\n"
		target := parseTarget(t, src)
		p := mustPattern(t, bindings.KindExpr, "missing(:[y])")

		out, err := FoldMatch(p, target, NewMatchCtxt(nil), substFn(t, bindings.KindExpr, "g(:[y])"))
		require.NoError(t, err)
		assert.True(t, bindings.EqualNode(out, parseTarget(t, src)))
	})

	t.Run("every disjoint occurrence is rewritten", func(t *testing.T) {
		t.Parallel()
		target := parseTarget(t, "package p\nfunc m() { a(dup(1), dup(2)) }\n")
		p := mustPattern(t, bindings.KindExpr, "dup(:[y])")

		out, err := FoldMatch(p, target, NewMatchCtxt(nil), substFn(t, bindings.KindExpr, ":[y] + :[y]"))
		require.NoError(t, err)

		want := parseTarget(t, "package p\nfunc m() { a(1+1, 2+2) }\n")
		assert.True(t, bindings.EqualNode(out, want))
	})

	t.Run("statement window rewrite", func(t *testing.T) {
		t.Parallel()
		target := parseTarget(t, "package p\nfunc m() {\nsetup()\na()\nb()\nteardown()\n}\n")
		p := mustPattern(t, bindings.KindStmts, "a(); b()")

		out, err := FoldMatch(p, target, NewMatchCtxt(nil), substFn(t, bindings.KindStmts, "ab()"))
		require.NoError(t, err)

		want := parseTarget(t, "package p\nfunc m() {\nsetup()\nab()\nteardown()\n}\n")
		assert.True(t, bindings.EqualNode(out, want))
	})

	t.Run("sequence hole unwraps a pair", func(t *testing.T) {
		t.Parallel()
		target := parseTarget(t, "package p\nfunc m() {\nmu.Lock()\nf()\ng()\nmu.Unlock()\n}\n")
		p := mustPattern(t, bindings.KindStmts, "mu.Lock(); :[body:stmts]; mu.Unlock()")

		out, err := FoldMatch(p, target, NewMatchCtxt(nil), substFn(t, bindings.KindStmts, ":[body:stmts]"))
		require.NoError(t, err)

		want := parseTarget(t, "package p\nfunc m() {\nf()\ng()\n}\n")
		assert.True(t, bindings.EqualNode(out, want))
	})

	t.Run("rewrite errors abort the pass", func(t *testing.T) {
		t.Parallel()
		target := parseTarget(t, "package p\nfunc m() { f(1) }\n")
		p := mustPattern(t, bindings.KindExpr, "f(:[y])")

		_, err := FoldMatch(p, target, NewMatchCtxt(nil), substFn(t, bindings.KindExpr, "g(:[unbound])"))
		require.Error(t, err)
		var uerr *UnboundVariableError
		assert.ErrorAs(t, err, &uerr)
	})
}

func TestFindFirst(t *testing.T) {
	t.Parallel()

	t.Run("earliest occurrence in walk order", func(t *testing.T) {
		t.Parallel()
		target := parseTarget(t, "package p\nfunc m() { use(f(g(1)) + g(2)) }\n")
		p := mustPattern(t, bindings.KindExpr, "g(:[y])")

		b, ok := FindFirst(p, target, NewMatchCtxt(nil))
		require.True(t, ok)
		frag, bound := b.Get("y")
		require.True(t, bound)
		assert.Equal(t, "1", frag.String())
	})

	t.Run("absent pattern", func(t *testing.T) {
		t.Parallel()
		target := parseTarget(t, "package p\nfunc m() { a() }\n")
		p := mustPattern(t, bindings.KindExpr, "missing(:[y])")

		_, ok := FindFirst(p, target, NewMatchCtxt(nil))
		assert.False(t, ok)
	})

	t.Run("target is not mutated", func(t *testing.T) {
		t.Parallel()
		const src = "package p\nfunc m() { use(g(1)) }\n"
		target := parseTarget(t, src)
		p := mustPattern(t, bindings.KindExpr, "g(:[y])")

		_, ok := FindFirst(p, target, NewMatchCtxt(nil))
		require.True(t, ok)
		assert.True(t, bindings.EqualNode(target, parseTarget(t, src)))
	})
}

func TestFindAll(t *testing.T) {
	t.Parallel()

	t.Run("all disjoint occurrences", func(t *testing.T) {
		t.Parallel()
		target := parseTarget(t, "package p\nfunc m() { use(g(1), g(2)) }\n")
		p := mustPattern(t, bindings.KindExpr, "g(:[y])")

		results := FindAll(p, target, NewMatchCtxt(nil))
		require.Len(t, results, 2)

		var got []string
		for _, r := range results {
			frag, ok := r.Bindings.Get("y")
			require.True(t, ok)
			got = append(got, frag.String())
		}
		assert.Equal(t, []string{"1", "2"}, got)
	})

	t.Run("matches do not nest", func(t *testing.T) {
		t.Parallel()
		target := parseTarget(t, "package p\nfunc m() { use(g(g(1))) }\n")
		p := mustPattern(t, bindings.KindExpr, "g(:[y])")

		results := FindAll(p, target, NewMatchCtxt(nil))
		require.Len(t, results, 1)
		frag, ok := results[0].Bindings.Get("y")
		require.True(t, ok)
		assert.Equal(t, "g(1)", frag.String())
	})

	t.Run("statement windows do not overlap", func(t *testing.T) {
		t.Parallel()
		target := parseTarget(t, "package p\nfunc m() {\na()\nb()\na()\nb()\n}\n")
		p := mustPattern(t, bindings.KindStmts, "a(); b()")

		results := FindAll(p, target, NewMatchCtxt(nil))
		assert.Len(t, results, 2)
	})
}

func TestFoldDepthBound(t *testing.T) {
	t.Parallel()
	target := parseTarget(t, "package p\nfunc m() { use(f(g(h(1)))) }\n")
	p := mustPattern(t, bindings.KindExpr, "h(:[y])")

	_, ok := FindFirst(p, target, NewMatchCtxt(nil))
	require.True(t, ok)

	shallow := NewMatchCtxt(nil)
	shallow.MaxDepth = 3
	_, ok = FindFirst(p, target, shallow)
	assert.False(t, ok)
}
