package bindings

import (
	"fmt"
	"go/ast"
	"go/token"
)

// CloneNode deep-copies an arbitrary supported node, preserving positions.
// It accepts the node kinds a rewrite target can be: files, declarations,
// statements and expressions.
func CloneNode(n ast.Node) ast.Node {
	return cloneNode(n, false)
}

func cloneNode(n ast.Node, strip bool) ast.Node {
	switch n := n.(type) {
	case nil:
		return nil
	case *ast.File:
		return cloneFile(n, strip)
	case ast.Expr:
		return cloneExpr(n, strip)
	case ast.Stmt:
		return cloneStmt(n, strip)
	case ast.Decl:
		return cloneDecl(n, strip)
	case ast.Spec:
		return cloneSpec(n, strip)
	case *ast.Field:
		return cloneField(n, strip)
	case *ast.FieldList:
		return cloneFieldList(n, strip)
	default:
		panic(fmt.Sprintf("bindings: cannot clone %T", n))
	}
}

func clonePos(p token.Pos, strip bool) token.Pos {
	if strip {
		return token.NoPos
	}
	return p
}

func cloneFile(f *ast.File, strip bool) *ast.File {
	if f == nil {
		return nil
	}
	out := &ast.File{
		Doc:     cloneCommentGroup(f.Doc, strip),
		Package: clonePos(f.Package, strip),
		Name:    cloneIdent(f.Name, strip),
	}
	for _, d := range f.Decls {
		out.Decls = append(out.Decls, cloneDecl(d, strip))
	}
	// go/printer emits a file's comments from this list, so dropping it
	// would strip every comment from printed output
	for _, cg := range f.Comments {
		out.Comments = append(out.Comments, cloneCommentGroup(cg, strip))
	}
	return out
}

func cloneCommentGroup(cg *ast.CommentGroup, strip bool) *ast.CommentGroup {
	if cg == nil {
		return nil
	}
	out := &ast.CommentGroup{List: make([]*ast.Comment, len(cg.List))}
	for i, c := range cg.List {
		out.List[i] = &ast.Comment{Slash: clonePos(c.Slash, strip), Text: c.Text}
	}
	return out
}

func cloneIdent(id *ast.Ident, strip bool) *ast.Ident {
	if id == nil {
		return nil
	}
	return &ast.Ident{NamePos: clonePos(id.NamePos, strip), Name: id.Name}
}

func cloneIdents(ids []*ast.Ident, strip bool) []*ast.Ident {
	if ids == nil {
		return nil
	}
	out := make([]*ast.Ident, len(ids))
	for i, id := range ids {
		out[i] = cloneIdent(id, strip)
	}
	return out
}

func cloneExprs(list []ast.Expr, strip bool) []ast.Expr {
	if list == nil {
		return nil
	}
	out := make([]ast.Expr, len(list))
	for i, e := range list {
		out[i] = cloneExpr(e, strip)
	}
	return out
}

func cloneStmts(list []ast.Stmt, strip bool) []ast.Stmt {
	if list == nil {
		return nil
	}
	out := make([]ast.Stmt, len(list))
	for i, s := range list {
		out[i] = cloneStmt(s, strip)
	}
	return out
}

func cloneField(f *ast.Field, strip bool) *ast.Field {
	if f == nil {
		return nil
	}
	return &ast.Field{
		Doc:     cloneCommentGroup(f.Doc, strip),
		Names:   cloneIdents(f.Names, strip),
		Type:    cloneExpr(f.Type, strip),
		Tag:     cloneBasicLit(f.Tag, strip),
		Comment: cloneCommentGroup(f.Comment, strip),
	}
}

func cloneFieldList(fl *ast.FieldList, strip bool) *ast.FieldList {
	if fl == nil {
		return nil
	}
	out := &ast.FieldList{
		Opening: clonePos(fl.Opening, strip),
		Closing: clonePos(fl.Closing, strip),
	}
	for _, f := range fl.List {
		out.List = append(out.List, cloneField(f, strip))
	}
	return out
}

func cloneBasicLit(l *ast.BasicLit, strip bool) *ast.BasicLit {
	if l == nil {
		return nil
	}
	return &ast.BasicLit{ValuePos: clonePos(l.ValuePos, strip), Kind: l.Kind, Value: l.Value}
}

func cloneBlock(b *ast.BlockStmt, strip bool) *ast.BlockStmt {
	if b == nil {
		return nil
	}
	return &ast.BlockStmt{
		Lbrace: clonePos(b.Lbrace, strip),
		List:   cloneStmts(b.List, strip),
		Rbrace: clonePos(b.Rbrace, strip),
	}
}

func cloneExpr(e ast.Expr, strip bool) ast.Expr {
	switch e := e.(type) {
	case nil:
		return nil
	case *ast.Ident:
		return cloneIdent(e, strip)
	case *ast.BasicLit:
		return cloneBasicLit(e, strip)
	case *ast.Ellipsis:
		return &ast.Ellipsis{Ellipsis: clonePos(e.Ellipsis, strip), Elt: cloneExpr(e.Elt, strip)}
	case *ast.FuncLit:
		return &ast.FuncLit{
			Type: cloneExpr(e.Type, strip).(*ast.FuncType),
			Body: cloneBlock(e.Body, strip),
		}
	case *ast.CompositeLit:
		return &ast.CompositeLit{
			Type:   cloneExpr(e.Type, strip),
			Lbrace: clonePos(e.Lbrace, strip),
			Elts:   cloneExprs(e.Elts, strip),
			Rbrace: clonePos(e.Rbrace, strip),
		}
	case *ast.ParenExpr:
		return &ast.ParenExpr{
			Lparen: clonePos(e.Lparen, strip),
			X:      cloneExpr(e.X, strip),
			Rparen: clonePos(e.Rparen, strip),
		}
	case *ast.SelectorExpr:
		return &ast.SelectorExpr{X: cloneExpr(e.X, strip), Sel: cloneIdent(e.Sel, strip)}
	case *ast.IndexExpr:
		return &ast.IndexExpr{
			X:      cloneExpr(e.X, strip),
			Lbrack: clonePos(e.Lbrack, strip),
			Index:  cloneExpr(e.Index, strip),
			Rbrack: clonePos(e.Rbrack, strip),
		}
	case *ast.IndexListExpr:
		return &ast.IndexListExpr{
			X:       cloneExpr(e.X, strip),
			Lbrack:  clonePos(e.Lbrack, strip),
			Indices: cloneExprs(e.Indices, strip),
			Rbrack:  clonePos(e.Rbrack, strip),
		}
	case *ast.SliceExpr:
		return &ast.SliceExpr{
			X:      cloneExpr(e.X, strip),
			Lbrack: clonePos(e.Lbrack, strip),
			Low:    cloneExpr(e.Low, strip),
			High:   cloneExpr(e.High, strip),
			Max:    cloneExpr(e.Max, strip),
			Slice3: e.Slice3,
			Rbrack: clonePos(e.Rbrack, strip),
		}
	case *ast.TypeAssertExpr:
		return &ast.TypeAssertExpr{
			X:      cloneExpr(e.X, strip),
			Lparen: clonePos(e.Lparen, strip),
			Type:   cloneExpr(e.Type, strip),
			Rparen: clonePos(e.Rparen, strip),
		}
	case *ast.CallExpr:
		return &ast.CallExpr{
			Fun:      cloneExpr(e.Fun, strip),
			Lparen:   clonePos(e.Lparen, strip),
			Args:     cloneExprs(e.Args, strip),
			Ellipsis: clonePos(e.Ellipsis, strip),
			Rparen:   clonePos(e.Rparen, strip),
		}
	case *ast.StarExpr:
		return &ast.StarExpr{Star: clonePos(e.Star, strip), X: cloneExpr(e.X, strip)}
	case *ast.UnaryExpr:
		return &ast.UnaryExpr{OpPos: clonePos(e.OpPos, strip), Op: e.Op, X: cloneExpr(e.X, strip)}
	case *ast.BinaryExpr:
		return &ast.BinaryExpr{
			X:     cloneExpr(e.X, strip),
			OpPos: clonePos(e.OpPos, strip),
			Op:    e.Op,
			Y:     cloneExpr(e.Y, strip),
		}
	case *ast.KeyValueExpr:
		return &ast.KeyValueExpr{
			Key:   cloneExpr(e.Key, strip),
			Colon: clonePos(e.Colon, strip),
			Value: cloneExpr(e.Value, strip),
		}
	case *ast.ArrayType:
		return &ast.ArrayType{
			Lbrack: clonePos(e.Lbrack, strip),
			Len:    cloneExpr(e.Len, strip),
			Elt:    cloneExpr(e.Elt, strip),
		}
	case *ast.StructType:
		return &ast.StructType{
			Struct:     clonePos(e.Struct, strip),
			Fields:     cloneFieldList(e.Fields, strip),
			Incomplete: e.Incomplete,
		}
	case *ast.FuncType:
		return &ast.FuncType{
			Func:       clonePos(e.Func, strip),
			TypeParams: cloneFieldList(e.TypeParams, strip),
			Params:     cloneFieldList(e.Params, strip),
			Results:    cloneFieldList(e.Results, strip),
		}
	case *ast.InterfaceType:
		return &ast.InterfaceType{
			Interface:  clonePos(e.Interface, strip),
			Methods:    cloneFieldList(e.Methods, strip),
			Incomplete: e.Incomplete,
		}
	case *ast.MapType:
		return &ast.MapType{
			Map:   clonePos(e.Map, strip),
			Key:   cloneExpr(e.Key, strip),
			Value: cloneExpr(e.Value, strip),
		}
	case *ast.ChanType:
		return &ast.ChanType{
			Begin: clonePos(e.Begin, strip),
			Arrow: clonePos(e.Arrow, strip),
			Dir:   e.Dir,
			Value: cloneExpr(e.Value, strip),
		}
	default:
		panic(fmt.Sprintf("bindings: cannot clone expression %T", e))
	}
}

func cloneStmt(s ast.Stmt, strip bool) ast.Stmt {
	switch s := s.(type) {
	case nil:
		return nil
	case *ast.DeclStmt:
		return &ast.DeclStmt{Decl: cloneDecl(s.Decl, strip)}
	case *ast.EmptyStmt:
		return &ast.EmptyStmt{Semicolon: clonePos(s.Semicolon, strip), Implicit: s.Implicit}
	case *ast.LabeledStmt:
		return &ast.LabeledStmt{
			Label: cloneIdent(s.Label, strip),
			Colon: clonePos(s.Colon, strip),
			Stmt:  cloneStmt(s.Stmt, strip),
		}
	case *ast.ExprStmt:
		return &ast.ExprStmt{X: cloneExpr(s.X, strip)}
	case *ast.SendStmt:
		return &ast.SendStmt{
			Chan:  cloneExpr(s.Chan, strip),
			Arrow: clonePos(s.Arrow, strip),
			Value: cloneExpr(s.Value, strip),
		}
	case *ast.IncDecStmt:
		return &ast.IncDecStmt{X: cloneExpr(s.X, strip), TokPos: clonePos(s.TokPos, strip), Tok: s.Tok}
	case *ast.AssignStmt:
		return &ast.AssignStmt{
			Lhs:    cloneExprs(s.Lhs, strip),
			TokPos: clonePos(s.TokPos, strip),
			Tok:    s.Tok,
			Rhs:    cloneExprs(s.Rhs, strip),
		}
	case *ast.GoStmt:
		return &ast.GoStmt{Go: clonePos(s.Go, strip), Call: cloneExpr(s.Call, strip).(*ast.CallExpr)}
	case *ast.DeferStmt:
		return &ast.DeferStmt{Defer: clonePos(s.Defer, strip), Call: cloneExpr(s.Call, strip).(*ast.CallExpr)}
	case *ast.ReturnStmt:
		return &ast.ReturnStmt{Return: clonePos(s.Return, strip), Results: cloneExprs(s.Results, strip)}
	case *ast.BranchStmt:
		return &ast.BranchStmt{
			TokPos: clonePos(s.TokPos, strip),
			Tok:    s.Tok,
			Label:  cloneIdent(s.Label, strip),
		}
	case *ast.BlockStmt:
		return cloneBlock(s, strip)
	case *ast.IfStmt:
		return &ast.IfStmt{
			If:   clonePos(s.If, strip),
			Init: cloneStmt(s.Init, strip),
			Cond: cloneExpr(s.Cond, strip),
			Body: cloneBlock(s.Body, strip),
			Else: cloneStmt(s.Else, strip),
		}
	case *ast.CaseClause:
		return &ast.CaseClause{
			Case:  clonePos(s.Case, strip),
			List:  cloneExprs(s.List, strip),
			Colon: clonePos(s.Colon, strip),
			Body:  cloneStmts(s.Body, strip),
		}
	case *ast.SwitchStmt:
		return &ast.SwitchStmt{
			Switch: clonePos(s.Switch, strip),
			Init:   cloneStmt(s.Init, strip),
			Tag:    cloneExpr(s.Tag, strip),
			Body:   cloneBlock(s.Body, strip),
		}
	case *ast.TypeSwitchStmt:
		return &ast.TypeSwitchStmt{
			Switch: clonePos(s.Switch, strip),
			Init:   cloneStmt(s.Init, strip),
			Assign: cloneStmt(s.Assign, strip),
			Body:   cloneBlock(s.Body, strip),
		}
	case *ast.CommClause:
		return &ast.CommClause{
			Case:  clonePos(s.Case, strip),
			Comm:  cloneStmt(s.Comm, strip),
			Colon: clonePos(s.Colon, strip),
			Body:  cloneStmts(s.Body, strip),
		}
	case *ast.SelectStmt:
		return &ast.SelectStmt{Select: clonePos(s.Select, strip), Body: cloneBlock(s.Body, strip)}
	case *ast.ForStmt:
		return &ast.ForStmt{
			For:  clonePos(s.For, strip),
			Init: cloneStmt(s.Init, strip),
			Cond: cloneExpr(s.Cond, strip),
			Post: cloneStmt(s.Post, strip),
			Body: cloneBlock(s.Body, strip),
		}
	case *ast.RangeStmt:
		return &ast.RangeStmt{
			For:    clonePos(s.For, strip),
			Key:    cloneExpr(s.Key, strip),
			Value:  cloneExpr(s.Value, strip),
			TokPos: clonePos(s.TokPos, strip),
			Tok:    s.Tok,
			Range:  clonePos(s.Range, strip),
			X:      cloneExpr(s.X, strip),
			Body:   cloneBlock(s.Body, strip),
		}
	default:
		panic(fmt.Sprintf("bindings: cannot clone statement %T", s))
	}
}

func cloneDecl(d ast.Decl, strip bool) ast.Decl {
	switch d := d.(type) {
	case nil:
		return nil
	case *ast.GenDecl:
		out := &ast.GenDecl{
			Doc:    cloneCommentGroup(d.Doc, strip),
			TokPos: clonePos(d.TokPos, strip),
			Tok:    d.Tok,
			Lparen: clonePos(d.Lparen, strip),
			Rparen: clonePos(d.Rparen, strip),
		}
		for _, sp := range d.Specs {
			out.Specs = append(out.Specs, cloneSpec(sp, strip))
		}
		return out
	case *ast.FuncDecl:
		return &ast.FuncDecl{
			Doc:  cloneCommentGroup(d.Doc, strip),
			Recv: cloneFieldList(d.Recv, strip),
			Name: cloneIdent(d.Name, strip),
			Type: cloneExpr(d.Type, strip).(*ast.FuncType),
			Body: cloneBlock(d.Body, strip),
		}
	default:
		panic(fmt.Sprintf("bindings: cannot clone declaration %T", d))
	}
}

func cloneSpec(sp ast.Spec, strip bool) ast.Spec {
	switch sp := sp.(type) {
	case *ast.ImportSpec:
		return &ast.ImportSpec{
			Doc:     cloneCommentGroup(sp.Doc, strip),
			Name:    cloneIdent(sp.Name, strip),
			Path:    cloneBasicLit(sp.Path, strip),
			Comment: cloneCommentGroup(sp.Comment, strip),
			EndPos:  clonePos(sp.EndPos, strip),
		}
	case *ast.ValueSpec:
		return &ast.ValueSpec{
			Doc:     cloneCommentGroup(sp.Doc, strip),
			Names:   cloneIdents(sp.Names, strip),
			Type:    cloneExpr(sp.Type, strip),
			Values:  cloneExprs(sp.Values, strip),
			Comment: cloneCommentGroup(sp.Comment, strip),
		}
	case *ast.TypeSpec:
		return &ast.TypeSpec{
			Doc:        cloneCommentGroup(sp.Doc, strip),
			Name:       cloneIdent(sp.Name, strip),
			TypeParams: cloneFieldList(sp.TypeParams, strip),
			Assign:     clonePos(sp.Assign, strip),
			Type:       cloneExpr(sp.Type, strip),
			Comment:    cloneCommentGroup(sp.Comment, strip),
		}
	default:
		panic(fmt.Sprintf("bindings: cannot clone spec %T", sp))
	}
}
