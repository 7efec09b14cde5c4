// Package pattern parses textual rewrite patterns into syntax tree fragments.
//
// A pattern is ordinary Go source text with comby-style metavariable holes:
//
//	:[x] + :[x]              expression pattern, hole captures an expression
//	:[f:ident](:[arg])       call whose callee must be a bare identifier
//	if :[cond] { :[body:stmts] }   statement pattern with a sequence hole
//
// Holes become placeholder identifiers in the parsed fragment; the returned
// Pattern carries the table mapping each placeholder name to the kind of
// fragment it is permitted to capture.
package pattern

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"github.com/treefactor/treefactor/bindings"
)

// ParseError reports malformed pattern text. It is surfaced before any
// matching begins; it never occurs mid-traversal.
type ParseError struct {
	Text string // the offending pattern text
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse pattern %q: %s", e.Text, e.Msg)
}

// Pattern is a parsed pattern (or substitution template): a fragment whose
// placeholder identifiers are metavariables. Patterns are read-only; the
// matcher clones captures out of candidates, never out of the pattern.
type Pattern struct {
	Frag  bindings.Fragment
	Metas map[string]bindings.Kind // placeholder name -> capturable kind
}

// Kind reports the syntactic category the pattern matches at.
func (p *Pattern) Kind() bindings.Kind { return p.Frag.Kind() }

// IsMeta reports whether name is one of the pattern's metavariables and, if
// so, which kind it captures.
func (p *Pattern) IsMeta(name string) (bindings.Kind, bool) {
	k, ok := p.Metas[name]
	return k, ok
}

// Parse parses pattern text at the given fragment kind.
func Parse(kind bindings.Kind, text string) (*Pattern, error) {
	switch kind {
	case bindings.KindExpr:
		return ParseExpr(text)
	case bindings.KindStmts:
		return ParseStmts(text)
	case bindings.KindType:
		return ParseType(text)
	case bindings.KindDecl:
		return ParseDecl(text)
	case bindings.KindIdent:
		p, err := ParseExpr(text)
		if err != nil {
			return nil, err
		}
		id, ok := p.Frag.Expr().(*ast.Ident)
		if !ok {
			return nil, &ParseError{Text: text, Msg: "not an identifier"}
		}
		p.Frag = bindings.NewIdent(id)
		return p, nil
	default:
		return nil, &ParseError{Text: text, Msg: fmt.Sprintf("cannot parse pattern at kind %s", kind)}
	}
}

// ParseExpr parses pattern text as a single expression.
func ParseExpr(text string) (*Pattern, error) {
	src, metas, err := render(text)
	if err != nil {
		return nil, err
	}
	expr, err := parser.ParseExpr(src)
	if err != nil {
		return nil, &ParseError{Text: text, Msg: err.Error()}
	}
	return &Pattern{Frag: bindings.NewExpr(expr), Metas: metas}, nil
}

// ParseType parses pattern text as a type.
func ParseType(text string) (*Pattern, error) {
	src, metas, err := render(text)
	if err != nil {
		return nil, err
	}
	file, err := parser.ParseFile(token.NewFileSet(), "pattern.go", "package p\nvar _ "+src+"\n", 0)
	if err != nil {
		return nil, &ParseError{Text: text, Msg: err.Error()}
	}
	gen, ok := file.Decls[0].(*ast.GenDecl)
	if !ok || len(gen.Specs) == 0 {
		return nil, &ParseError{Text: text, Msg: "not a type"}
	}
	spec := gen.Specs[0].(*ast.ValueSpec)
	if spec.Type == nil {
		return nil, &ParseError{Text: text, Msg: "not a type"}
	}
	return &Pattern{Frag: bindings.NewType(spec.Type), Metas: metas}, nil
}

// ParseStmts parses pattern text as a statement sequence.
func ParseStmts(text string) (*Pattern, error) {
	src, metas, err := render(text)
	if err != nil {
		return nil, err
	}
	file, err := parser.ParseFile(token.NewFileSet(), "pattern.go", "package p\nfunc _() {\n"+src+"\n}\n", 0)
	if err != nil {
		return nil, &ParseError{Text: text, Msg: err.Error()}
	}
	fn := file.Decls[0].(*ast.FuncDecl)
	if len(fn.Body.List) == 0 {
		return nil, &ParseError{Text: text, Msg: "empty statement pattern"}
	}
	return &Pattern{Frag: bindings.NewStmts(fn.Body.List), Metas: metas}, nil
}

// ParseDecl parses pattern text as a single top-level declaration.
func ParseDecl(text string) (*Pattern, error) {
	src, metas, err := render(text)
	if err != nil {
		return nil, err
	}
	file, err := parser.ParseFile(token.NewFileSet(), "pattern.go", "package p\n"+src+"\n", 0)
	if err != nil {
		return nil, &ParseError{Text: text, Msg: err.Error()}
	}
	if len(file.Decls) == 0 {
		return nil, &ParseError{Text: text, Msg: "empty declaration pattern"}
	}
	return &Pattern{Frag: bindings.NewDecl(file.Decls[0]), Metas: metas}, nil
}

// render replaces every hole with its placeholder identifier and collects
// the metavariable table. The same hole may appear multiple times, but its
// kind hints must agree.
func render(text string) (string, map[string]bindings.Kind, error) {
	tokens, err := NewLexer(text).Tokenize()
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	metas := make(map[string]bindings.Kind)
	for _, tok := range tokens {
		switch tok.Type {
		case TokenText:
			sb.WriteString(tok.Value)
		case TokenHole:
			if prev, ok := metas[tok.Hole.Name]; ok && prev != tok.Hole.Kind {
				return "", nil, &ParseError{
					Text: text,
					Msg: fmt.Sprintf("hole %q declared as both %s and %s",
						tok.Hole.Name, prev, tok.Hole.Kind),
				}
			}
			metas[tok.Hole.Name] = tok.Hole.Kind
			sb.WriteString(tok.Hole.Name)
		}
	}
	return sb.String(), metas, nil
}
