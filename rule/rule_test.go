package rule

import (
	"go/format"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("valid rules file", func(t *testing.T) {
		t.Parallel()
		path := writeRules(t, `
rules:
  - name: unwrap-double-negation
    match: "!(!:[x])"
    rewrite: ":[x]"
  - name: unwrap-lock-pair
    kind: stmts
    match: "mu.Lock(); :[body:stmts]; mu.Unlock()"
    rewrite: ":[body:stmts]"
`)
		rules, err := Load(path)
		require.NoError(t, err)
		require.Len(t, rules, 2)
		assert.Equal(t, "unwrap-double-negation", rules[0].Name)
		assert.Equal(t, "stmts", rules[1].Kind)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
		require.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()
		_, err := Load(writeRules(t, "rules: [unterminated"))
		require.Error(t, err)
	})

	t.Run("rewrite required", func(t *testing.T) {
		t.Parallel()
		_, err := Load(writeRules(t, `
rules:
  - name: half-a-rule
    match: "f(:[x])"
`))
		require.Error(t, err)
	})

	t.Run("unknown kind", func(t *testing.T) {
		t.Parallel()
		_, err := Load(writeRules(t, `
rules:
  - name: bad-kind
    kind: frob
    match: "f(:[x])"
    rewrite: "g(:[x])"
`))
		require.Error(t, err)
	})
}

func TestApply(t *testing.T) {
	t.Parallel()

	gofmt := func(src string) string {
		out, err := format.Source([]byte(src))
		require.NoError(t, err)
		return string(out)
	}

	t.Run("expression rule", func(t *testing.T) {
		t.Parallel()
		src := "package p\n\nfunc m() int {\n\treturn dup(21)\n}\n"
		rules := []Rule{{Name: "expand-dup", Match: "dup(:[x])", Rewrite: ":[x] + :[x]"}}

		out, err := Apply("m.go", []byte(src), rules)
		require.NoError(t, err)
		assert.Equal(t, gofmt("package p\n\nfunc m() int {\n\treturn 21 + 21\n}\n"), string(out))
	})

	t.Run("comments outside rewritten fragments survive", func(t *testing.T) {
		t.Parallel()
		src := "package p\n\n// keep me\nfunc m() { use(dup(a)) }\n"
		rules := []Rule{{Name: "expand-dup", Match: "dup(:[x])", Rewrite: ":[x] + :[x]"}}

		out, err := Apply("m.go", []byte(src), rules)
		require.NoError(t, err)
		assert.Contains(t, string(out), "// keep me")
		assert.Contains(t, string(out), "a + a")
	})

	t.Run("statement rule", func(t *testing.T) {
		t.Parallel()
		src := "package p\n\nfunc m() {\n\tmu.Lock()\n\twork()\n\tmu.Unlock()\n}\n"
		rules := []Rule{{
			Name:    "unwrap-lock-pair",
			Kind:    "stmts",
			Match:   "mu.Lock(); :[body:stmts]; mu.Unlock()",
			Rewrite: ":[body:stmts]",
		}}

		out, err := Apply("m.go", []byte(src), rules)
		require.NoError(t, err)
		assert.Equal(t, gofmt("package p\n\nfunc m() {\n\twork()\n}\n"), string(out))
	})

	t.Run("rules compose in order", func(t *testing.T) {
		t.Parallel()
		src := "package p\n\nvar x = dup(1)\n"
		rules := []Rule{
			{Name: "expand-dup", Match: "dup(:[x])", Rewrite: "twice(:[x])"},
			{Name: "expand-twice", Match: "twice(:[x])", Rewrite: ":[x] + :[x]"},
		}

		out, err := Apply("m.go", []byte(src), rules)
		require.NoError(t, err)
		assert.Equal(t, gofmt("package p\n\nvar x = 1 + 1\n"), string(out))
	})

	t.Run("unparseable rule is skipped", func(t *testing.T) {
		t.Parallel()
		src := "package p\n\nvar x = f(1)\n"
		rules := []Rule{{Name: "broken", Match: "f(", Rewrite: "g"}}

		out, err := Apply("m.go", []byte(src), rules)
		require.NoError(t, err)
		assert.Equal(t, gofmt(src), string(out))
	})

	t.Run("inconsistent rule aborts", func(t *testing.T) {
		t.Parallel()
		src := "package p\n\nvar x = f(1)\n"
		rules := []Rule{{Name: "unbound", Match: "f(:[x])", Rewrite: "g(:[missing])"}}

		_, err := Apply("m.go", []byte(src), rules)
		require.Error(t, err)
	})

	t.Run("unparseable source", func(t *testing.T) {
		t.Parallel()
		_, err := Apply("m.go", []byte("package p\nfunc {"), nil)
		require.Error(t, err)
	})
}
