package bindings

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustExpr(t *testing.T, src string) Fragment {
	t.Helper()
	e, err := parser.ParseExpr(src)
	require.NoError(t, err)
	return NewExpr(e)
}

func TestFragmentEqual(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{name: "identical identifiers", a: "x", b: "x", want: true},
		{name: "different identifiers", a: "x", b: "y", want: false},
		{name: "identical calls", a: "f(1, 2)", b: "f(1, 2)", want: true},
		{name: "different arity", a: "f(1)", b: "f(1, 2)", want: false},
		{name: "identical binary", a: "a + b*c", b: "a + b*c", want: true},
		{name: "different operator", a: "a + b", b: "a - b", want: false},
		{name: "selector chains", a: "a.b.c", b: "a.b.c", want: true},
		{name: "composite literal", a: "T{1, 2}", b: "T{1, 2}", want: true},
		{name: "func literal", a: "func() { f() }", b: "func() { f() }", want: true},
		{name: "func literal bodies differ", a: "func() { f() }", b: "func() { g() }", want: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, mustExpr(t, tt.a).Equal(mustExpr(t, tt.b)))
		})
	}
}

func TestFragmentEqualIgnoresPositions(t *testing.T) {
	t.Parallel()
	a := mustExpr(t, "f(x)")
	b := a.CloneSynthesized()
	assert.True(t, a.Equal(b))
	assert.Equal(t, token.NoPos, b.Pos())
	assert.NotEqual(t, token.NoPos, a.Pos())
}

func TestCloneIndependence(t *testing.T) {
	t.Parallel()
	orig := mustExpr(t, "f(x, y)")
	cl := orig.Clone()
	require.True(t, orig.Equal(cl))
	require.NotSame(t, orig.Expr(), cl.Expr())

	// mutating the clone must not be observable through the original
	call := cl.Expr().(*ast.CallExpr)
	call.Fun.(*ast.Ident).Name = "g"
	assert.Equal(t, "f(x, y)", orig.String())
	assert.Equal(t, "g(x, y)", cl.String())
}

func TestCloneFileKeepsComments(t *testing.T) {
	t.Parallel()
	src := `// Package p does things.
package p

// keep me
func m() { use(a) }

var x = 1 // trailing
`
	file, err := parser.ParseFile(token.NewFileSet(), "p.go", src, parser.ParseComments)
	require.NoError(t, err)

	cl := CloneNode(file).(*ast.File)
	require.Len(t, cl.Comments, len(file.Comments))
	for i := range file.Comments {
		assert.Equal(t, file.Comments[i].Text(), cl.Comments[i].Text())
		assert.NotSame(t, file.Comments[i], cl.Comments[i])
	}
	require.NotNil(t, cl.Doc)
	assert.Equal(t, file.Doc.Text(), cl.Doc.Text())

	fn := cl.Decls[0].(*ast.FuncDecl)
	require.NotNil(t, fn.Doc)
	assert.Equal(t, "keep me\n", fn.Doc.Text())
}

func TestMerge(t *testing.T) {
	t.Parallel()
	a := New()
	a.Set("x", mustExpr(t, "a"))
	a.Set("y", mustExpr(t, "b"))

	t.Run("disjoint", func(t *testing.T) {
		other := New()
		other.Set("z", mustExpr(t, "c"))
		merged, err := a.Merge(other)
		require.NoError(t, err)
		assert.Len(t, merged, 3)
	})

	t.Run("agreeing overlap", func(t *testing.T) {
		other := New()
		other.Set("x", mustExpr(t, "a"))
		merged, err := a.Merge(other)
		require.NoError(t, err)
		assert.Len(t, merged, 2)
	})

	t.Run("conflicting overlap", func(t *testing.T) {
		other := New()
		other.Set("x", mustExpr(t, "other"))
		_, err := a.Merge(other)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("merge does not mutate receiver", func(t *testing.T) {
		other := New()
		other.Set("z", mustExpr(t, "c"))
		_, err := a.Merge(other)
		require.NoError(t, err)
		_, ok := a.Get("z")
		assert.False(t, ok)
	})
}

func TestFragmentString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "a + b", mustExpr(t, "a + b").String())
	assert.Equal(t, "f(x)", mustExpr(t, "f( x )").String())
}
