package match

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/treefactor/treefactor/bindings"
	"github.com/treefactor/treefactor/pattern"
	"github.com/treefactor/treefactor/semantic"
)

func exprFrag(t *testing.T, src string) bindings.Fragment {
	t.Helper()
	e, err := parser.ParseExpr(src)
	require.NoError(t, err)
	return bindings.NewExpr(e)
}

func stmtsFrag(t *testing.T, src string) bindings.Fragment {
	t.Helper()
	file, err := parser.ParseFile(token.NewFileSet(), "cand.go", "package p\nfunc _() {\n"+src+"\n}\n", 0)
	require.NoError(t, err)
	return bindings.NewStmts(file.Decls[0].(*ast.FuncDecl).Body.List)
}

func mustPattern(t *testing.T, kind bindings.Kind, text string) *pattern.Pattern {
	t.Helper()
	p, err := pattern.Parse(kind, text)
	require.NoError(t, err)
	return p
}

// stubResolver gives the same answer for every pair of paths.
type stubResolver struct {
	same, known bool
}

func (s stubResolver) SameDef(a, b ast.Expr) (same, known bool) { return s.same, s.known }

// mockResolver records which path pairs the matcher consults.
type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) SameDef(a, b ast.Expr) (same, known bool) {
	args := m.Called(a, b)
	return args.Bool(0), args.Bool(1)
}

func TestMatchExpr(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		pat       string
		candidate string
		wantErr   bool
		wantBound map[string]string
	}{
		{
			name:      "hole captures subexpression",
			pat:       "f(:[x])",
			candidate: "f(a + b)",
			wantBound: map[string]string{"x": "a + b"},
		},
		{
			name:      "repeated hole with equal captures",
			pat:       ":[x] + :[x]",
			candidate: "a + a",
			wantBound: map[string]string{"x": "a"},
		},
		{
			name:      "repeated hole with unequal captures",
			pat:       ":[x] + :[x]",
			candidate: "a + b",
			wantErr:   true,
		},
		{
			name:      "callee mismatch",
			pat:       "f(:[x])",
			candidate: "g(1)",
			wantErr:   true,
		},
		{
			name:      "arity mismatch",
			pat:       "f(:[x])",
			candidate: "f(1, 2)",
			wantErr:   true,
		},
		{
			name:      "operator mismatch",
			pat:       ":[x] + :[y]",
			candidate: "a - b",
			wantErr:   true,
		},
		{
			name:      "ident hole rejects non-identifier",
			pat:       ":[f:ident](1)",
			candidate: "(a.b)(1)",
			wantErr:   true,
		},
		{
			name:      "ident hole accepts identifier",
			pat:       ":[f:ident](1)",
			candidate: "println(1)",
			wantBound: map[string]string{"f": "println"},
		},
		{
			name:      "nested structure",
			pat:       "f(g(:[x]), :[y])",
			candidate: "f(g(1+2), h())",
			wantBound: map[string]string{"x": "1 + 2", "y": "h()"},
		},
		{
			name:      "literal mismatch",
			pat:       "f(1)",
			candidate: "f(2)",
			wantErr:   true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := mustPattern(t, bindings.KindExpr, tt.pat)
			b, err := Match(p, exprFrag(t, tt.candidate), NewMatchCtxt(nil))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrNoMatch)
				return
			}
			require.NoError(t, err)
			for name, want := range tt.wantBound {
				frag, ok := b.Get(name)
				require.True(t, ok, "expected binding for %q", name)
				assert.Equal(t, want, frag.String())
			}
		})
	}
}

func TestMatchKindMismatch(t *testing.T) {
	t.Parallel()
	p := mustPattern(t, bindings.KindStmts, "f()")
	_, err := Match(p, exprFrag(t, "f()"), NewMatchCtxt(nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestMatchSeedBindings(t *testing.T) {
	t.Parallel()

	t.Run("seed constrains the hole", func(t *testing.T) {
		t.Parallel()
		mcx := NewMatchCtxt(nil).WithBinding("x", exprFrag(t, "a"))
		p := mustPattern(t, bindings.KindExpr, "f(:[x])")

		b, err := Match(p, exprFrag(t, "f(a)"), mcx)
		require.NoError(t, err)
		frag, ok := b.Get("x")
		require.True(t, ok)
		assert.Equal(t, "a", frag.String())

		_, err = Match(p, exprFrag(t, "f(b)"), mcx)
		require.Error(t, err)
	})

	t.Run("failure leaves the session intact", func(t *testing.T) {
		t.Parallel()
		mcx := NewMatchCtxt(nil).WithBinding("x", exprFrag(t, "a"))
		p := mustPattern(t, bindings.KindExpr, ":[x] + :[y]")

		_, err := Match(p, exprFrag(t, "b + c"), mcx)
		require.Error(t, err)

		assert.Len(t, mcx.Bindings, 1)
		frag, ok := mcx.Bindings.Get("x")
		require.True(t, ok)
		assert.Equal(t, "a", frag.String())
	})

	t.Run("success does not mutate the session", func(t *testing.T) {
		t.Parallel()
		mcx := NewMatchCtxt(nil)
		p := mustPattern(t, bindings.KindExpr, "f(:[x])")
		b, err := Match(p, exprFrag(t, "f(1)"), mcx)
		require.NoError(t, err)
		assert.Len(t, b, 1)
		assert.Empty(t, mcx.Bindings)
	})
}

func TestMatchStmts(t *testing.T) {
	t.Parallel()

	t.Run("sequence hole captures a run", func(t *testing.T) {
		t.Parallel()
		p := mustPattern(t, bindings.KindStmts, "mu.Lock(); :[body:stmts]; mu.Unlock()")
		b, err := Match(p, stmtsFrag(t, "mu.Lock()\nf()\ng()\nmu.Unlock()"), NewMatchCtxt(nil))
		require.NoError(t, err)
		frag, ok := b.Get("body")
		require.True(t, ok)
		assert.Equal(t, bindings.KindStmts, frag.Kind())
		assert.Len(t, frag.Stmts(), 2)
	})

	t.Run("sequence hole may capture the empty run", func(t *testing.T) {
		t.Parallel()
		p := mustPattern(t, bindings.KindStmts, "mu.Lock(); :[body:stmts]; mu.Unlock()")
		b, err := Match(p, stmtsFrag(t, "mu.Lock()\nmu.Unlock()"), NewMatchCtxt(nil))
		require.NoError(t, err)
		frag, ok := b.Get("body")
		require.True(t, ok)
		assert.Empty(t, frag.Stmts())
	})

	t.Run("backtracking past a greedy split", func(t *testing.T) {
		t.Parallel()
		// the run must stop before the final f() for the tail to match
		p := mustPattern(t, bindings.KindStmts, ":[head:stmts]; f()")
		b, err := Match(p, stmtsFrag(t, "a()\nb()\nf()"), NewMatchCtxt(nil))
		require.NoError(t, err)
		frag, ok := b.Get("head")
		require.True(t, ok)
		assert.Len(t, frag.Stmts(), 2)
	})

	t.Run("trailing statements rejected", func(t *testing.T) {
		t.Parallel()
		p := mustPattern(t, bindings.KindStmts, "f(); g()")
		_, err := Match(p, stmtsFrag(t, "f()\ng()\nh()"), NewMatchCtxt(nil))
		require.Error(t, err)
	})
}

func TestMatchStmtsPrefix(t *testing.T) {
	t.Parallel()

	t.Run("consumes a prefix", func(t *testing.T) {
		t.Parallel()
		p := mustPattern(t, bindings.KindStmts, "f(:[x]); g(:[x])")
		cs := stmtsFrag(t, "f(1)\ng(1)\nh()").Stmts()
		b, n, err := MatchStmtsPrefix(p, cs, NewMatchCtxt(nil))
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		frag, ok := b.Get("x")
		require.True(t, ok)
		assert.Equal(t, "1", frag.String())
	})

	t.Run("prefix mismatch", func(t *testing.T) {
		t.Parallel()
		p := mustPattern(t, bindings.KindStmts, "f(:[x]); g(:[x])")
		cs := stmtsFrag(t, "f(1)\ng(2)").Stmts()
		_, _, err := MatchStmtsPrefix(p, cs, NewMatchCtxt(nil))
		require.Error(t, err)
	})

	t.Run("non-statement pattern rejected", func(t *testing.T) {
		t.Parallel()
		p := mustPattern(t, bindings.KindExpr, "f()")
		_, _, err := MatchStmtsPrefix(p, stmtsFrag(t, "f()").Stmts(), NewMatchCtxt(nil))
		require.Error(t, err)
	})
}

func TestMatchDecl(t *testing.T) {
	t.Parallel()
	p := mustPattern(t, bindings.KindDecl, "var :[name:ident] = :[v]")
	b, err := Match(p, declFrag(t, "var count = n + 1"), NewMatchCtxt(nil))
	require.NoError(t, err)

	name, ok := b.Get("name")
	require.True(t, ok)
	assert.Equal(t, bindings.KindIdent, name.Kind())
	assert.Equal(t, "count", name.String())

	v, ok := b.Get("v")
	require.True(t, ok)
	assert.Equal(t, "n + 1", v.String())
}

func declFrag(t *testing.T, src string) bindings.Fragment {
	t.Helper()
	file, err := parser.ParseFile(token.NewFileSet(), "cand.go", "package p\n"+src+"\n", 0)
	require.NoError(t, err)
	return bindings.NewDecl(file.Decls[0])
}

func TestMatchResolver(t *testing.T) {
	t.Parallel()

	t.Run("paths compared through the oracle", func(t *testing.T) {
		t.Parallel()
		res := new(mockResolver)
		res.On("SameDef", mock.Anything, mock.Anything).Return(true, true).Once()

		p := mustPattern(t, bindings.KindExpr, "fmt.Println(:[x])")
		b, err := Match(p, exprFrag(t, "p.Println(1)"), NewMatchCtxt(res))
		require.NoError(t, err)
		frag, ok := b.Get("x")
		require.True(t, ok)
		assert.Equal(t, "1", frag.String())
		res.AssertExpectations(t)
	})

	t.Run("oracle rejects spelled-alike paths", func(t *testing.T) {
		t.Parallel()
		p := mustPattern(t, bindings.KindExpr, "fmt.Println(:[x])")
		_, err := Match(p, exprFrag(t, "fmt.Println(1)"), NewMatchCtxt(stubResolver{same: false, known: true}))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoMatch)
	})

	t.Run("unknown paths fall back to structure", func(t *testing.T) {
		t.Parallel()
		p := mustPattern(t, bindings.KindExpr, "fmt.Println(:[x])")
		b, err := Match(p, exprFrag(t, "fmt.Println(1)"), NewMatchCtxt(stubResolver{known: false}))
		require.NoError(t, err)
		assert.Len(t, b, 1)
	})

	t.Run("pattern path containing a hole is matched structurally", func(t *testing.T) {
		t.Parallel()
		// the placeholder is not a resolvable name; a resolver must not
		// get to veto the position before the hole is bound
		p := mustPattern(t, bindings.KindExpr, ":[x].Close")
		b, err := Match(p, exprFrag(t, "f.Close"), NewMatchCtxt(stubResolver{same: false, known: true}))
		require.NoError(t, err)
		frag, ok := b.Get("x")
		require.True(t, ok)
		assert.Equal(t, "f", frag.String())
	})

	t.Run("rebinding accepts oracle-equal captures", func(t *testing.T) {
		t.Parallel()
		p := mustPattern(t, bindings.KindExpr, ":[x] + :[x]")
		b, err := Match(p, exprFrag(t, "a + b"), NewMatchCtxt(stubResolver{same: true, known: true}))
		require.NoError(t, err)
		assert.Len(t, b, 1)
	})
}

func TestMatchWithTypeInfo(t *testing.T) {
	t.Parallel()

	t.Run("pattern names resolve against definitions", func(t *testing.T) {
		t.Parallel()
		checked, err := semantic.CheckFile("p.go", `package p

var v = 1

func a() int { return v }

func b() int {
	v := 2
	return v
}
`)
		require.NoError(t, err)

		// the pattern's v denotes the package-level v; the shadowing
		// local spells the same but is a different definition
		p := mustPattern(t, bindings.KindExpr, "v")

		withOracle := FindAll(p, checked.File, NewMatchCtxt(checked.Oracle))
		require.Len(t, withOracle, 1)

		structural := FindAll(p, checked.File, NewMatchCtxt(nil))
		assert.Len(t, structural, 3)
	})

	t.Run("rebinding resolves the original capture", func(t *testing.T) {
		t.Parallel()
		checked, err := semantic.CheckFile("p.go", `package p

var v = 1

var w = v + (v)
`)
		require.NoError(t, err)

		// v and (v) are structurally different spellings of the same
		// definition; only the oracle can accept the rebinding
		wInit := checked.File.Decls[1].(*ast.GenDecl).Specs[0].(*ast.ValueSpec).Values[0]
		p := mustPattern(t, bindings.KindExpr, ":[x] + :[x]")

		_, err = Match(p, bindings.NewExpr(wInit), NewMatchCtxt(nil))
		require.Error(t, err)

		b, err := Match(p, bindings.NewExpr(wInit), NewMatchCtxt(checked.Oracle))
		require.NoError(t, err)
		frag, ok := b.Get("x")
		require.True(t, ok)
		assert.Equal(t, "v", frag.String())
	})
}

func TestMatchCaptureIsolation(t *testing.T) {
	t.Parallel()
	// a capture must be a copy; later mutation of the candidate tree must
	// not be observable through the bindings
	cand := exprFrag(t, "f(victim)")
	p := mustPattern(t, bindings.KindExpr, "f(:[x])")
	b, err := Match(p, cand, NewMatchCtxt(nil))
	require.NoError(t, err)

	cand.Expr().(*ast.CallExpr).Args[0].(*ast.Ident).Name = "mutated"

	frag, ok := b.Get("x")
	require.True(t, ok)
	assert.Equal(t, "victim", frag.String())
}
