package match

import (
	"errors"
	"fmt"
	"go/ast"

	"github.com/treefactor/treefactor/bindings"
	"github.com/treefactor/treefactor/pattern"
)

// ErrNoMatch is the expected negative result of a match attempt. Every local
// failure (shape mismatch, arity mismatch, kind mismatch, inconsistent
// rebinding) wraps it; callers recover by moving to the next position.
var ErrNoMatch = errors.New("no match")

func noMatch(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNoMatch, fmt.Sprintf(format, args...))
}

// Match unifies a pattern fragment against a candidate fragment. On success
// it returns the session's bindings extended with the pattern's captures; on
// failure it returns an error wrapping ErrNoMatch and mcx's bindings are
// left untouched.
func Match(p *pattern.Pattern, c bindings.Fragment, mcx *MatchCtxt) (bindings.Bindings, error) {
	m := &matcher{
		metas: p.Metas,
		b:     mcx.Bindings.Copy(),
		orig:  make(map[string]bindings.Fragment),
		res:   mcx.Resolver,
	}
	if err := m.fragment(p.Frag, c); err != nil {
		return nil, err
	}
	return m.b, nil
}

// MatchStmtsPrefix unifies a statement-sequence pattern against a prefix of
// the candidate statements, returning the bindings and the number of
// candidate statements consumed.
func MatchStmtsPrefix(p *pattern.Pattern, cs []ast.Stmt, mcx *MatchCtxt) (bindings.Bindings, int, error) {
	if p.Kind() != bindings.KindStmts {
		return nil, 0, noMatch("pattern kind %s cannot match a statement run", p.Kind())
	}
	m := &matcher{
		metas: p.Metas,
		b:     mcx.Bindings.Copy(),
		orig:  make(map[string]bindings.Fragment),
		res:   mcx.Resolver,
	}
	n, err := m.stmtSeq(p.Frag.Stmts(), cs, false)
	if err != nil {
		return nil, 0, err
	}
	return m.b, n, nil
}

// matcher is the state of one match attempt. It works on a private copy of
// the session's bindings, so failure cannot leak partial captures. orig keeps
// the uncloned candidate fragment per capture; the semantic oracle can only
// resolve nodes it has type information for, and the stored clones are not
// those nodes.
type matcher struct {
	metas map[string]bindings.Kind
	b     bindings.Bindings
	orig  map[string]bindings.Fragment
	res   Resolver
}

func exprLike(k bindings.Kind) bool {
	return k == bindings.KindExpr || k == bindings.KindType || k == bindings.KindIdent
}

func (m *matcher) fragment(p, c bindings.Fragment) error {
	switch {
	case exprLike(p.Kind()) && exprLike(c.Kind()):
		return m.expr(p.Expr(), c.Expr())
	case p.Kind() == bindings.KindStmts && c.Kind() == bindings.KindStmts:
		_, err := m.stmtSeq(p.Stmts(), c.Stmts(), true)
		return err
	case p.Kind() == bindings.KindDecl && c.Kind() == bindings.KindDecl:
		return m.decl(p.Decl(), c.Decl())
	default:
		return noMatch("kind mismatch: pattern is %s, candidate is %s", p.Kind(), c.Kind())
	}
}

// meta reports whether e is a metavariable occurrence.
func (m *matcher) meta(e ast.Expr) (string, bindings.Kind, bool) {
	id, ok := e.(*ast.Ident)
	if !ok {
		return "", 0, false
	}
	k, ok := m.metas[id.Name]
	return id.Name, k, ok
}

// seqMeta reports whether s is a statement-sequence metavariable, i.e. an
// expression statement wrapping a hole of kind stmts.
func (m *matcher) seqMeta(s ast.Stmt) (string, bool) {
	es, ok := s.(*ast.ExprStmt)
	if !ok {
		return "", false
	}
	name, kind, ok := m.meta(es.X)
	if !ok || kind != bindings.KindStmts {
		return "", false
	}
	return name, true
}

// bind captures c under name, or checks consistency against an existing
// binding. The capture is cloned so later mutation of the candidate tree
// cannot be observed through the binding.
func (m *matcher) bind(name string, kind bindings.Kind, c bindings.Fragment) error {
	switch kind {
	case bindings.KindExpr, bindings.KindType:
		if !exprLike(c.Kind()) {
			return noMatch("metavariable %q requires an %s, candidate is %s", name, kind, c.Kind())
		}
		c = bindings.NewExpr(c.Expr())
	case bindings.KindIdent:
		id, ok := c.Expr().(*ast.Ident)
		if !ok {
			return noMatch("metavariable %q requires an identifier", name)
		}
		c = bindings.NewIdent(id)
	case bindings.KindStmts:
		if c.Kind() != bindings.KindStmts {
			return noMatch("metavariable %q requires a statement run, candidate is %s", name, c.Kind())
		}
	}

	if prev, ok := m.b.Get(name); ok {
		// prefer the uncloned capture: the oracle resolves in-tree nodes
		// directly, where a clone would need the package-scope fallback
		if o, ok := m.orig[name]; ok {
			prev = o
		}
		if !m.equivalent(prev, c) {
			return noMatch("metavariable %q already bound to %s, candidate is %s", name, prev, c)
		}
		return nil
	}
	m.b.Set(name, c.Clone())
	m.orig[name] = c
	return nil
}

// equivalent compares a previous capture with a new candidate: structural
// equality first, then the semantic oracle for path-like expressions that
// may be spelled differently yet denote the same definition.
func (m *matcher) equivalent(prev, c bindings.Fragment) bool {
	if prev.Equal(c) {
		return true
	}
	if m.res != nil && exprLike(prev.Kind()) && exprLike(c.Kind()) &&
		pathLike(prev.Expr()) && pathLike(c.Expr()) {
		same, known := m.res.SameDef(prev.Expr(), c.Expr())
		return known && same
	}
	return false
}

// metaFree reports whether no component of the path-like expression e is a
// metavariable placeholder.
func (m *matcher) metaFree(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.Ident:
		_, isMeta := m.metas[e.Name]
		return !isMeta
	case *ast.SelectorExpr:
		return m.metaFree(e.X) && m.metaFree(e.Sel)
	default:
		return true
	}
}

func (m *matcher) copyOrig() map[string]bindings.Fragment {
	out := make(map[string]bindings.Fragment, len(m.orig))
	for k, v := range m.orig {
		out[k] = v
	}
	return out
}

// pathLike reports whether e is a name or a dotted path, the forms the
// semantic oracle can resolve to a definition.
func pathLike(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.Ident:
		return true
	case *ast.SelectorExpr:
		return pathLike(e.X)
	case *ast.ParenExpr:
		return pathLike(e.X)
	default:
		return false
	}
}

func (m *matcher) expr(p, c ast.Expr) error {
	if p == nil || c == nil {
		if p == nil && c == nil {
			return nil
		}
		return noMatch("optional subexpression present on one side only")
	}

	if name, kind, ok := m.meta(p); ok {
		if kind == bindings.KindStmts {
			return noMatch("statement metavariable %q in expression position", name)
		}
		return m.bind(name, kind, bindings.NewExpr(c))
	}

	// A path in the pattern may be spelled differently from the candidate
	// and still denote the same definition; the oracle decides, not the
	// token text. A path containing a hole is not a resolvable name yet,
	// so it goes to structural matching, which binds the hole.
	if m.res != nil && pathLike(p) && pathLike(c) && m.metaFree(p) {
		if same, known := m.res.SameDef(p, c); known {
			if same {
				return nil
			}
			return noMatch("%s and %s denote different definitions", render(p), render(c))
		}
	}

	switch p := p.(type) {
	case *ast.Ident:
		cc, ok := c.(*ast.Ident)
		if !ok || p.Name != cc.Name {
			return noMatch("identifier %s does not match %s", p.Name, render(c))
		}
		return nil
	case *ast.BasicLit:
		cc, ok := c.(*ast.BasicLit)
		if !ok || p.Kind != cc.Kind || p.Value != cc.Value {
			return noMatch("literal %s does not match %s", p.Value, render(c))
		}
		return nil
	case *ast.Ellipsis:
		cc, ok := c.(*ast.Ellipsis)
		if !ok {
			return m.shapeErr(p, c)
		}
		return m.expr(p.Elt, cc.Elt)
	case *ast.FuncLit:
		cc, ok := c.(*ast.FuncLit)
		if !ok {
			return m.shapeErr(p, c)
		}
		if err := m.expr(p.Type, cc.Type); err != nil {
			return err
		}
		return m.block(p.Body, cc.Body)
	case *ast.CompositeLit:
		cc, ok := c.(*ast.CompositeLit)
		if !ok {
			return m.shapeErr(p, c)
		}
		if err := m.expr(p.Type, cc.Type); err != nil {
			return err
		}
		return m.exprs(p.Elts, cc.Elts)
	case *ast.ParenExpr:
		cc, ok := c.(*ast.ParenExpr)
		if !ok {
			return m.shapeErr(p, c)
		}
		return m.expr(p.X, cc.X)
	case *ast.SelectorExpr:
		cc, ok := c.(*ast.SelectorExpr)
		if !ok {
			return m.shapeErr(p, c)
		}
		if err := m.expr(p.X, cc.X); err != nil {
			return err
		}
		return m.ident(p.Sel, cc.Sel)
	case *ast.IndexExpr:
		cc, ok := c.(*ast.IndexExpr)
		if !ok {
			return m.shapeErr(p, c)
		}
		if err := m.expr(p.X, cc.X); err != nil {
			return err
		}
		return m.expr(p.Index, cc.Index)
	case *ast.IndexListExpr:
		cc, ok := c.(*ast.IndexListExpr)
		if !ok {
			return m.shapeErr(p, c)
		}
		if err := m.expr(p.X, cc.X); err != nil {
			return err
		}
		return m.exprs(p.Indices, cc.Indices)
	case *ast.SliceExpr:
		cc, ok := c.(*ast.SliceExpr)
		if !ok || p.Slice3 != cc.Slice3 {
			return m.shapeErr(p, c)
		}
		if err := m.expr(p.X, cc.X); err != nil {
			return err
		}
		if err := m.expr(p.Low, cc.Low); err != nil {
			return err
		}
		if err := m.expr(p.High, cc.High); err != nil {
			return err
		}
		return m.expr(p.Max, cc.Max)
	case *ast.TypeAssertExpr:
		cc, ok := c.(*ast.TypeAssertExpr)
		if !ok {
			return m.shapeErr(p, c)
		}
		if err := m.expr(p.X, cc.X); err != nil {
			return err
		}
		return m.expr(p.Type, cc.Type)
	case *ast.CallExpr:
		cc, ok := c.(*ast.CallExpr)
		if !ok || p.Ellipsis.IsValid() != cc.Ellipsis.IsValid() {
			return m.shapeErr(p, c)
		}
		if err := m.expr(p.Fun, cc.Fun); err != nil {
			return err
		}
		return m.exprs(p.Args, cc.Args)
	case *ast.StarExpr:
		cc, ok := c.(*ast.StarExpr)
		if !ok {
			return m.shapeErr(p, c)
		}
		return m.expr(p.X, cc.X)
	case *ast.UnaryExpr:
		cc, ok := c.(*ast.UnaryExpr)
		if !ok || p.Op != cc.Op {
			return m.shapeErr(p, c)
		}
		return m.expr(p.X, cc.X)
	case *ast.BinaryExpr:
		cc, ok := c.(*ast.BinaryExpr)
		if !ok || p.Op != cc.Op {
			return m.shapeErr(p, c)
		}
		if err := m.expr(p.X, cc.X); err != nil {
			return err
		}
		return m.expr(p.Y, cc.Y)
	case *ast.KeyValueExpr:
		cc, ok := c.(*ast.KeyValueExpr)
		if !ok {
			return m.shapeErr(p, c)
		}
		if err := m.expr(p.Key, cc.Key); err != nil {
			return err
		}
		return m.expr(p.Value, cc.Value)
	case *ast.ArrayType:
		cc, ok := c.(*ast.ArrayType)
		if !ok {
			return m.shapeErr(p, c)
		}
		if err := m.expr(p.Len, cc.Len); err != nil {
			return err
		}
		return m.expr(p.Elt, cc.Elt)
	case *ast.StructType:
		cc, ok := c.(*ast.StructType)
		if !ok {
			return m.shapeErr(p, c)
		}
		return m.fieldList(p.Fields, cc.Fields)
	case *ast.FuncType:
		cc, ok := c.(*ast.FuncType)
		if !ok {
			return m.shapeErr(p, c)
		}
		if err := m.fieldList(p.TypeParams, cc.TypeParams); err != nil {
			return err
		}
		if err := m.fieldList(p.Params, cc.Params); err != nil {
			return err
		}
		return m.fieldList(p.Results, cc.Results)
	case *ast.InterfaceType:
		cc, ok := c.(*ast.InterfaceType)
		if !ok {
			return m.shapeErr(p, c)
		}
		return m.fieldList(p.Methods, cc.Methods)
	case *ast.MapType:
		cc, ok := c.(*ast.MapType)
		if !ok {
			return m.shapeErr(p, c)
		}
		if err := m.expr(p.Key, cc.Key); err != nil {
			return err
		}
		return m.expr(p.Value, cc.Value)
	case *ast.ChanType:
		cc, ok := c.(*ast.ChanType)
		if !ok || p.Dir != cc.Dir {
			return m.shapeErr(p, c)
		}
		return m.expr(p.Value, cc.Value)
	default:
		return noMatch("unsupported pattern node %T", p)
	}
}

func (m *matcher) shapeErr(p, c ast.Node) error {
	return noMatch("shape mismatch: pattern %T, candidate %T", p, c)
}

func (m *matcher) exprs(ps, cs []ast.Expr) error {
	if len(ps) != len(cs) {
		return noMatch("arity mismatch: pattern has %d elements, candidate %d", len(ps), len(cs))
	}
	for i := range ps {
		if err := m.expr(ps[i], cs[i]); err != nil {
			return err
		}
	}
	return nil
}

// ident matches identifier-only positions (selectors, labels, names). A
// metavariable here must capture an identifier.
func (m *matcher) ident(p, c *ast.Ident) error {
	if p == nil || c == nil {
		if p == nil && c == nil {
			return nil
		}
		return noMatch("optional identifier present on one side only")
	}
	if name, kind, ok := m.meta(p); ok {
		if kind != bindings.KindIdent && kind != bindings.KindExpr {
			return noMatch("metavariable %q of kind %s in identifier position", name, kind)
		}
		return m.bind(name, kind, bindings.NewIdent(c))
	}
	if p.Name != c.Name {
		return noMatch("identifier %s does not match %s", p.Name, c.Name)
	}
	return nil
}

func (m *matcher) idents(ps, cs []*ast.Ident) error {
	if len(ps) != len(cs) {
		return noMatch("arity mismatch: %d names vs %d", len(ps), len(cs))
	}
	for i := range ps {
		if err := m.ident(ps[i], cs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *matcher) fieldList(p, c *ast.FieldList) error {
	if p == nil || c == nil {
		if p == nil && c == nil {
			return nil
		}
		return noMatch("field list present on one side only")
	}
	if len(p.List) != len(c.List) {
		return noMatch("arity mismatch: %d fields vs %d", len(p.List), len(c.List))
	}
	for i := range p.List {
		pf, cf := p.List[i], c.List[i]
		if err := m.idents(pf.Names, cf.Names); err != nil {
			return err
		}
		if err := m.expr(pf.Type, cf.Type); err != nil {
			return err
		}
		if (pf.Tag == nil) != (cf.Tag == nil) {
			return noMatch("struct tag present on one side only")
		}
		if pf.Tag != nil && (pf.Tag.Kind != cf.Tag.Kind || pf.Tag.Value != cf.Tag.Value) {
			return noMatch("struct tag %s does not match %s", pf.Tag.Value, cf.Tag.Value)
		}
	}
	return nil
}

func (m *matcher) block(p, c *ast.BlockStmt) error {
	if p == nil || c == nil {
		if p == nil && c == nil {
			return nil
		}
		return noMatch("block present on one side only")
	}
	_, err := m.stmtSeq(p.List, c.List, true)
	return err
}

// stmtSeq matches a pattern statement list against candidate statements.
// Sequence metavariables capture variable-length runs; shorter runs are
// preferred, and the attempt backtracks when the remainder fails. When exact
// is true the whole candidate list must be consumed; otherwise stmtSeq
// reports how many candidate statements the match consumed.
func (m *matcher) stmtSeq(ps, cs []ast.Stmt, exact bool) (int, error) {
	if len(ps) == 0 {
		if exact && len(cs) != 0 {
			return 0, noMatch("candidate has %d trailing statements", len(cs))
		}
		return 0, nil
	}

	if name, ok := m.seqMeta(ps[0]); ok {
		for k := 0; k <= len(cs); k++ {
			saved, savedOrig := m.b.Copy(), m.copyOrig()
			run := make([]ast.Stmt, k)
			copy(run, cs[:k])
			if err := m.bind(name, bindings.KindStmts, bindings.NewStmts(run)); err == nil {
				if n, err := m.stmtSeq(ps[1:], cs[k:], exact); err == nil {
					return k + n, nil
				}
			}
			m.b, m.orig = saved, savedOrig
		}
		return 0, noMatch("no statement run satisfies metavariable %q", name)
	}

	if len(cs) == 0 {
		return 0, noMatch("pattern has %d unmatched statements", len(ps))
	}
	if err := m.stmt(ps[0], cs[0]); err != nil {
		return 0, err
	}
	n, err := m.stmtSeq(ps[1:], cs[1:], exact)
	if err != nil {
		return 0, err
	}
	return n + 1, nil
}

func (m *matcher) stmt(p, c ast.Stmt) error {
	if p == nil || c == nil {
		if p == nil && c == nil {
			return nil
		}
		return noMatch("optional statement present on one side only")
	}

	switch p := p.(type) {
	case *ast.DeclStmt:
		cc, ok := c.(*ast.DeclStmt)
		if !ok {
			return m.shapeErr(p, c)
		}
		return m.decl(p.Decl, cc.Decl)
	case *ast.EmptyStmt:
		if _, ok := c.(*ast.EmptyStmt); !ok {
			return m.shapeErr(p, c)
		}
		return nil
	case *ast.LabeledStmt:
		cc, ok := c.(*ast.LabeledStmt)
		if !ok {
			return m.shapeErr(p, c)
		}
		if err := m.ident(p.Label, cc.Label); err != nil {
			return err
		}
		return m.stmt(p.Stmt, cc.Stmt)
	case *ast.ExprStmt:
		cc, ok := c.(*ast.ExprStmt)
		if !ok {
			return m.shapeErr(p, c)
		}
		return m.expr(p.X, cc.X)
	case *ast.SendStmt:
		cc, ok := c.(*ast.SendStmt)
		if !ok {
			return m.shapeErr(p, c)
		}
		if err := m.expr(p.Chan, cc.Chan); err != nil {
			return err
		}
		return m.expr(p.Value, cc.Value)
	case *ast.IncDecStmt:
		cc, ok := c.(*ast.IncDecStmt)
		if !ok || p.Tok != cc.Tok {
			return m.shapeErr(p, c)
		}
		return m.expr(p.X, cc.X)
	case *ast.AssignStmt:
		cc, ok := c.(*ast.AssignStmt)
		if !ok || p.Tok != cc.Tok {
			return m.shapeErr(p, c)
		}
		if err := m.exprs(p.Lhs, cc.Lhs); err != nil {
			return err
		}
		return m.exprs(p.Rhs, cc.Rhs)
	case *ast.GoStmt:
		cc, ok := c.(*ast.GoStmt)
		if !ok {
			return m.shapeErr(p, c)
		}
		return m.expr(p.Call, cc.Call)
	case *ast.DeferStmt:
		cc, ok := c.(*ast.DeferStmt)
		if !ok {
			return m.shapeErr(p, c)
		}
		return m.expr(p.Call, cc.Call)
	case *ast.ReturnStmt:
		cc, ok := c.(*ast.ReturnStmt)
		if !ok {
			return m.shapeErr(p, c)
		}
		return m.exprs(p.Results, cc.Results)
	case *ast.BranchStmt:
		cc, ok := c.(*ast.BranchStmt)
		if !ok || p.Tok != cc.Tok {
			return m.shapeErr(p, c)
		}
		return m.ident(p.Label, cc.Label)
	case *ast.BlockStmt:
		cc, ok := c.(*ast.BlockStmt)
		if !ok {
			return m.shapeErr(p, c)
		}
		return m.block(p, cc)
	case *ast.IfStmt:
		cc, ok := c.(*ast.IfStmt)
		if !ok {
			return m.shapeErr(p, c)
		}
		if err := m.stmt(p.Init, cc.Init); err != nil {
			return err
		}
		if err := m.expr(p.Cond, cc.Cond); err != nil {
			return err
		}
		if err := m.block(p.Body, cc.Body); err != nil {
			return err
		}
		return m.stmt(p.Else, cc.Else)
	case *ast.CaseClause:
		cc, ok := c.(*ast.CaseClause)
		if !ok {
			return m.shapeErr(p, c)
		}
		if err := m.exprs(p.List, cc.List); err != nil {
			return err
		}
		_, err := m.stmtSeq(p.Body, cc.Body, true)
		return err
	case *ast.SwitchStmt:
		cc, ok := c.(*ast.SwitchStmt)
		if !ok {
			return m.shapeErr(p, c)
		}
		if err := m.stmt(p.Init, cc.Init); err != nil {
			return err
		}
		if err := m.expr(p.Tag, cc.Tag); err != nil {
			return err
		}
		return m.block(p.Body, cc.Body)
	case *ast.TypeSwitchStmt:
		cc, ok := c.(*ast.TypeSwitchStmt)
		if !ok {
			return m.shapeErr(p, c)
		}
		if err := m.stmt(p.Init, cc.Init); err != nil {
			return err
		}
		if err := m.stmt(p.Assign, cc.Assign); err != nil {
			return err
		}
		return m.block(p.Body, cc.Body)
	case *ast.CommClause:
		cc, ok := c.(*ast.CommClause)
		if !ok {
			return m.shapeErr(p, c)
		}
		if err := m.stmt(p.Comm, cc.Comm); err != nil {
			return err
		}
		_, err := m.stmtSeq(p.Body, cc.Body, true)
		return err
	case *ast.SelectStmt:
		cc, ok := c.(*ast.SelectStmt)
		if !ok {
			return m.shapeErr(p, c)
		}
		return m.block(p.Body, cc.Body)
	case *ast.ForStmt:
		cc, ok := c.(*ast.ForStmt)
		if !ok {
			return m.shapeErr(p, c)
		}
		if err := m.stmt(p.Init, cc.Init); err != nil {
			return err
		}
		if err := m.expr(p.Cond, cc.Cond); err != nil {
			return err
		}
		if err := m.stmt(p.Post, cc.Post); err != nil {
			return err
		}
		return m.block(p.Body, cc.Body)
	case *ast.RangeStmt:
		cc, ok := c.(*ast.RangeStmt)
		if !ok || p.Tok != cc.Tok {
			return m.shapeErr(p, c)
		}
		if err := m.expr(p.Key, cc.Key); err != nil {
			return err
		}
		if err := m.expr(p.Value, cc.Value); err != nil {
			return err
		}
		if err := m.expr(p.X, cc.X); err != nil {
			return err
		}
		return m.block(p.Body, cc.Body)
	default:
		return noMatch("unsupported pattern statement %T", p)
	}
}

func (m *matcher) decl(p, c ast.Decl) error {
	if p == nil || c == nil {
		if p == nil && c == nil {
			return nil
		}
		return noMatch("optional declaration present on one side only")
	}
	switch p := p.(type) {
	case *ast.GenDecl:
		cc, ok := c.(*ast.GenDecl)
		if !ok || p.Tok != cc.Tok {
			return m.shapeErr(p, c)
		}
		if len(p.Specs) != len(cc.Specs) {
			return noMatch("arity mismatch: %d specs vs %d", len(p.Specs), len(cc.Specs))
		}
		for i := range p.Specs {
			if err := m.spec(p.Specs[i], cc.Specs[i]); err != nil {
				return err
			}
		}
		return nil
	case *ast.FuncDecl:
		cc, ok := c.(*ast.FuncDecl)
		if !ok {
			return m.shapeErr(p, c)
		}
		if err := m.fieldList(p.Recv, cc.Recv); err != nil {
			return err
		}
		if err := m.ident(p.Name, cc.Name); err != nil {
			return err
		}
		if err := m.expr(p.Type, cc.Type); err != nil {
			return err
		}
		return m.block(p.Body, cc.Body)
	default:
		return noMatch("unsupported pattern declaration %T", p)
	}
}

func (m *matcher) spec(p, c ast.Spec) error {
	switch p := p.(type) {
	case *ast.ImportSpec:
		cc, ok := c.(*ast.ImportSpec)
		if !ok {
			return m.shapeErr(p, c)
		}
		if err := m.ident(p.Name, cc.Name); err != nil {
			return err
		}
		if p.Path.Value != cc.Path.Value {
			return noMatch("import path %s does not match %s", p.Path.Value, cc.Path.Value)
		}
		return nil
	case *ast.ValueSpec:
		cc, ok := c.(*ast.ValueSpec)
		if !ok {
			return m.shapeErr(p, c)
		}
		if err := m.idents(p.Names, cc.Names); err != nil {
			return err
		}
		if err := m.expr(p.Type, cc.Type); err != nil {
			return err
		}
		return m.exprs(p.Values, cc.Values)
	case *ast.TypeSpec:
		cc, ok := c.(*ast.TypeSpec)
		if !ok {
			return m.shapeErr(p, c)
		}
		if err := m.ident(p.Name, cc.Name); err != nil {
			return err
		}
		if err := m.fieldList(p.TypeParams, cc.TypeParams); err != nil {
			return err
		}
		return m.expr(p.Type, cc.Type)
	default:
		return noMatch("unsupported pattern spec %T", p)
	}
}

func render(n ast.Node) string {
	switch n := n.(type) {
	case ast.Expr:
		return bindings.NewExpr(n).String()
	default:
		return fmt.Sprintf("%T", n)
	}
}
