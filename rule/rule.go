// Package rule loads YAML-defined rewrite rules and applies them to source
// files.
package rule

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/printer"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/treefactor/treefactor/bindings"
	"github.com/treefactor/treefactor/match"
	"github.com/treefactor/treefactor/pattern"
	"github.com/treefactor/treefactor/semantic"
)

// Rule is one pattern-rewrite pair. Kind selects the fragment kind the
// pattern is parsed at; it defaults to expr.
type Rule struct {
	Name    string `yaml:"name"`
	Kind    string `yaml:"kind"`
	Match   string `yaml:"match"`
	Rewrite string `yaml:"rewrite"`
}

// Kinds maps the rule's kind field to a fragment kind.
func (r Rule) kind() bindings.Kind {
	if r.Kind == "" {
		return bindings.KindExpr
	}
	return bindings.KindFromString(r.Kind)
}

// Config is the on-disk shape of a rules file.
type Config struct {
	Rules []Rule `yaml:"rules"`
}

// Load reads a YAML rules file.
func Load(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse rules %s: %w", path, err)
	}
	for i, r := range cfg.Rules {
		if r.Match == "" || r.Rewrite == "" {
			return nil, fmt.Errorf("rule %d (%s): match and rewrite are required", i, r.Name)
		}
		if r.kind() == 0 {
			return nil, fmt.Errorf("rule %d (%s): unknown kind %q", i, r.Name, r.Kind)
		}
	}
	return cfg.Rules, nil
}

// Apply rewrites one source file with every rule in order and returns the
// formatted result. Rules whose pattern text does not parse are skipped with
// a log message; substitution errors (an inconsistent rule) abort.
func Apply(filename string, src []byte, rules []Rule) ([]byte, error) {
	checked, err := semantic.CheckFile(filename, string(src))
	if err != nil {
		return nil, err
	}
	file := checked.File

	for _, r := range rules {
		pat, err := pattern.Parse(r.kind(), r.Match)
		if err != nil {
			log.Printf("skipping rule %q: %v", r.Name, err)
			continue
		}
		tmpl, err := pattern.Parse(r.kind(), r.Rewrite)
		if err != nil {
			log.Printf("skipping rule %q: %v", r.Name, err)
			continue
		}

		mcx := match.NewMatchCtxt(checked.Oracle)
		out, err := match.FoldMatch(pat, file, mcx, func(_ bindings.Fragment, b bindings.Bindings) (bindings.Fragment, error) {
			return match.Subst(tmpl, b)
		})
		if err != nil {
			return nil, fmt.Errorf("rule %q on %s: %w", r.Name, filename, err)
		}
		file = out.(*ast.File)
	}

	var buf bytes.Buffer
	if err := printer.Fprint(&buf, checked.Fset, file); err != nil {
		return nil, fmt.Errorf("print %s: %w", filename, err)
	}
	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		// Unformattable output indicates a rule produced a malformed
		// tree; surface it rather than writing broken code.
		return nil, fmt.Errorf("format %s: %w", filename, err)
	}
	return formatted, nil
}
