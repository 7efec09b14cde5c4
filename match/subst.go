package match

import (
	"fmt"
	"go/ast"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/treefactor/treefactor/bindings"
	"github.com/treefactor/treefactor/pattern"
)

// UnboundVariableError reports a template metavariable with no binding. This
// is a usage error (pattern and template disagree), not a match failure, and
// aborts the rewrite that hit it.
type UnboundVariableError struct {
	Name string
}

func (e *UnboundVariableError) Error() string {
	return fmt.Sprintf("unbound metavariable %q in template", e.Name)
}

// SubstError reports a binding that cannot be spliced into the position its
// metavariable occupies in the template (for example an arbitrary expression
// in a selector position, or a statement run in expression position).
type SubstError struct {
	Name string
	Msg  string
}

func (e *SubstError) Error() string {
	return fmt.Sprintf("cannot substitute metavariable %q: %s", e.Name, e.Msg)
}

// Subst instantiates a template: it returns a copy of tmpl with every
// metavariable occurrence replaced by a deep copy of its bound fragment.
// All positions in the result are synthesized (token.NoPos), so downstream
// consumers can tell generated nodes from parsed source. Every metavariable
// in the template must be bound.
func Subst(tmpl *pattern.Pattern, b bindings.Bindings) (bindings.Fragment, error) {
	s := &substituter{metas: tmpl.Metas, b: b}
	work := tmpl.Frag.CloneSynthesized()

	switch work.Kind() {
	case bindings.KindStmts:
		// No single root for a statement sequence; borrow a block.
		block := &ast.BlockStmt{List: work.Stmts()}
		out := astutil.Apply(block, s.pre, nil)
		if s.err != nil {
			return bindings.Fragment{}, s.err
		}
		return bindings.NewStmts(out.(*ast.BlockStmt).List), nil
	case bindings.KindExpr, bindings.KindType, bindings.KindIdent:
		out := astutil.Apply(work.Expr(), s.pre, nil)
		if s.err != nil {
			return bindings.Fragment{}, s.err
		}
		return bindings.NewExpr(out.(ast.Expr)), nil
	case bindings.KindDecl:
		out := astutil.Apply(work.Decl(), s.pre, nil)
		if s.err != nil {
			return bindings.Fragment{}, s.err
		}
		return bindings.NewDecl(out.(ast.Decl)), nil
	default:
		return bindings.Fragment{}, &SubstError{Msg: "empty template"}
	}
}

type substituter struct {
	metas map[string]bindings.Kind
	b     bindings.Bindings
	err   error
}

func (s *substituter) pre(c *astutil.Cursor) bool {
	if s.err != nil {
		return false
	}

	// Statement-sequence splice: an expression statement wrapping a stmts
	// metavariable is replaced by the whole bound run.
	if es, ok := c.Node().(*ast.ExprStmt); ok {
		if id, ok := es.X.(*ast.Ident); ok {
			if kind, isMeta := s.metas[id.Name]; isMeta && kind == bindings.KindStmts {
				frag, bound := s.b.Get(id.Name)
				if !bound {
					s.err = &UnboundVariableError{Name: id.Name}
					return false
				}
				if c.Index() < 0 {
					s.err = &SubstError{Name: id.Name, Msg: "statement run outside a statement list"}
					return false
				}
				for _, st := range frag.CloneSynthesized().Stmts() {
					c.InsertBefore(st)
				}
				c.Delete()
				return false
			}
		}
	}

	id, ok := c.Node().(*ast.Ident)
	if !ok {
		return true
	}
	kind, isMeta := s.metas[id.Name]
	if !isMeta {
		return true
	}
	frag, bound := s.b.Get(id.Name)
	if !bound {
		s.err = &UnboundVariableError{Name: id.Name}
		return false
	}
	if kind == bindings.KindStmts || frag.Kind() == bindings.KindStmts {
		s.err = &SubstError{Name: id.Name, Msg: "statement run in expression position"}
		return false
	}

	repl := frag.CloneSynthesized().Expr()
	if identOnly(c.Parent(), c.Name()) {
		if _, ok := repl.(*ast.Ident); !ok {
			s.err = &SubstError{Name: id.Name, Msg: "non-identifier in identifier-only position"}
			return false
		}
	}
	c.Replace(repl)
	return false
}

// identOnly reports whether the given parent field only admits *ast.Ident,
// so that replacing it with a general expression would be ill-formed.
func identOnly(parent ast.Node, field string) bool {
	switch parent.(type) {
	case *ast.SelectorExpr:
		return field == "Sel"
	case *ast.LabeledStmt, *ast.BranchStmt:
		return field == "Label"
	case *ast.Field, *ast.ValueSpec:
		return field == "Names"
	case *ast.TypeSpec, *ast.FuncDecl, *ast.File, *ast.ImportSpec:
		return field == "Name"
	default:
		return false
	}
}
