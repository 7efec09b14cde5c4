package bindings

import "go/ast"

// Structural equality over syntax trees, ignoring positions and comments.
// This is purely syntactic; semantic equivalence of differently spelled
// paths is the matcher's concern, not this package's.

// EqualNode reports whether two nodes are structurally equal.
func EqualNode(a, b ast.Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case *ast.File:
		bf, ok := b.(*ast.File)
		if !ok || !equalIdent(a.Name, bf.Name) || len(a.Decls) != len(bf.Decls) {
			return false
		}
		for i := range a.Decls {
			if !equalDecl(a.Decls[i], bf.Decls[i]) {
				return false
			}
		}
		return true
	case ast.Expr:
		be, ok := b.(ast.Expr)
		return ok && equalExpr(a, be)
	case ast.Stmt:
		bs, ok := b.(ast.Stmt)
		return ok && equalStmt(a, bs)
	case ast.Decl:
		bd, ok := b.(ast.Decl)
		return ok && equalDecl(a, bd)
	case ast.Spec:
		bsp, ok := b.(ast.Spec)
		return ok && equalSpec(a, bsp)
	case *ast.Field:
		bf, ok := b.(*ast.Field)
		return ok && equalField(a, bf)
	case *ast.FieldList:
		bfl, ok := b.(*ast.FieldList)
		return ok && equalFieldList(a, bfl)
	default:
		return false
	}
}

func equalIdent(a, b *ast.Ident) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Name == b.Name
}

func equalIdents(a, b []*ast.Ident) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalIdent(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalExprs(a, b []ast.Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalExpr(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalStmts(a, b []ast.Stmt) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalStmt(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalBasicLit(a, b *ast.BasicLit) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Kind == b.Kind && a.Value == b.Value
}

func equalField(a, b *ast.Field) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return equalIdents(a.Names, b.Names) && equalExpr(a.Type, b.Type) && equalBasicLit(a.Tag, b.Tag)
}

func equalFieldList(a, b *ast.FieldList) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if len(a.List) != len(b.List) {
		return false
	}
	for i := range a.List {
		if !equalField(a.List[i], b.List[i]) {
			return false
		}
	}
	return true
}

func equalBlock(a, b *ast.BlockStmt) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return equalStmts(a.List, b.List)
}

func equalExpr(a, b ast.Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case *ast.Ident:
		bb, ok := b.(*ast.Ident)
		return ok && equalIdent(a, bb)
	case *ast.BasicLit:
		bb, ok := b.(*ast.BasicLit)
		return ok && equalBasicLit(a, bb)
	case *ast.Ellipsis:
		bb, ok := b.(*ast.Ellipsis)
		return ok && equalExpr(a.Elt, bb.Elt)
	case *ast.FuncLit:
		bb, ok := b.(*ast.FuncLit)
		return ok && equalExpr(a.Type, bb.Type) && equalBlock(a.Body, bb.Body)
	case *ast.CompositeLit:
		bb, ok := b.(*ast.CompositeLit)
		return ok && equalExpr(a.Type, bb.Type) && equalExprs(a.Elts, bb.Elts)
	case *ast.ParenExpr:
		bb, ok := b.(*ast.ParenExpr)
		return ok && equalExpr(a.X, bb.X)
	case *ast.SelectorExpr:
		bb, ok := b.(*ast.SelectorExpr)
		return ok && equalExpr(a.X, bb.X) && equalIdent(a.Sel, bb.Sel)
	case *ast.IndexExpr:
		bb, ok := b.(*ast.IndexExpr)
		return ok && equalExpr(a.X, bb.X) && equalExpr(a.Index, bb.Index)
	case *ast.IndexListExpr:
		bb, ok := b.(*ast.IndexListExpr)
		return ok && equalExpr(a.X, bb.X) && equalExprs(a.Indices, bb.Indices)
	case *ast.SliceExpr:
		bb, ok := b.(*ast.SliceExpr)
		return ok && equalExpr(a.X, bb.X) && equalExpr(a.Low, bb.Low) &&
			equalExpr(a.High, bb.High) && equalExpr(a.Max, bb.Max) && a.Slice3 == bb.Slice3
	case *ast.TypeAssertExpr:
		bb, ok := b.(*ast.TypeAssertExpr)
		return ok && equalExpr(a.X, bb.X) && equalExpr(a.Type, bb.Type)
	case *ast.CallExpr:
		bb, ok := b.(*ast.CallExpr)
		return ok && equalExpr(a.Fun, bb.Fun) && equalExprs(a.Args, bb.Args) &&
			a.Ellipsis.IsValid() == bb.Ellipsis.IsValid()
	case *ast.StarExpr:
		bb, ok := b.(*ast.StarExpr)
		return ok && equalExpr(a.X, bb.X)
	case *ast.UnaryExpr:
		bb, ok := b.(*ast.UnaryExpr)
		return ok && a.Op == bb.Op && equalExpr(a.X, bb.X)
	case *ast.BinaryExpr:
		bb, ok := b.(*ast.BinaryExpr)
		return ok && a.Op == bb.Op && equalExpr(a.X, bb.X) && equalExpr(a.Y, bb.Y)
	case *ast.KeyValueExpr:
		bb, ok := b.(*ast.KeyValueExpr)
		return ok && equalExpr(a.Key, bb.Key) && equalExpr(a.Value, bb.Value)
	case *ast.ArrayType:
		bb, ok := b.(*ast.ArrayType)
		return ok && equalExpr(a.Len, bb.Len) && equalExpr(a.Elt, bb.Elt)
	case *ast.StructType:
		bb, ok := b.(*ast.StructType)
		return ok && equalFieldList(a.Fields, bb.Fields)
	case *ast.FuncType:
		bb, ok := b.(*ast.FuncType)
		return ok && equalFieldList(a.TypeParams, bb.TypeParams) &&
			equalFieldList(a.Params, bb.Params) && equalFieldList(a.Results, bb.Results)
	case *ast.InterfaceType:
		bb, ok := b.(*ast.InterfaceType)
		return ok && equalFieldList(a.Methods, bb.Methods)
	case *ast.MapType:
		bb, ok := b.(*ast.MapType)
		return ok && equalExpr(a.Key, bb.Key) && equalExpr(a.Value, bb.Value)
	case *ast.ChanType:
		bb, ok := b.(*ast.ChanType)
		return ok && a.Dir == bb.Dir && equalExpr(a.Value, bb.Value)
	default:
		return false
	}
}

func equalStmt(a, b ast.Stmt) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case *ast.DeclStmt:
		bb, ok := b.(*ast.DeclStmt)
		return ok && equalDecl(a.Decl, bb.Decl)
	case *ast.EmptyStmt:
		_, ok := b.(*ast.EmptyStmt)
		return ok
	case *ast.LabeledStmt:
		bb, ok := b.(*ast.LabeledStmt)
		return ok && equalIdent(a.Label, bb.Label) && equalStmt(a.Stmt, bb.Stmt)
	case *ast.ExprStmt:
		bb, ok := b.(*ast.ExprStmt)
		return ok && equalExpr(a.X, bb.X)
	case *ast.SendStmt:
		bb, ok := b.(*ast.SendStmt)
		return ok && equalExpr(a.Chan, bb.Chan) && equalExpr(a.Value, bb.Value)
	case *ast.IncDecStmt:
		bb, ok := b.(*ast.IncDecStmt)
		return ok && a.Tok == bb.Tok && equalExpr(a.X, bb.X)
	case *ast.AssignStmt:
		bb, ok := b.(*ast.AssignStmt)
		return ok && a.Tok == bb.Tok && equalExprs(a.Lhs, bb.Lhs) && equalExprs(a.Rhs, bb.Rhs)
	case *ast.GoStmt:
		bb, ok := b.(*ast.GoStmt)
		return ok && equalExpr(a.Call, bb.Call)
	case *ast.DeferStmt:
		bb, ok := b.(*ast.DeferStmt)
		return ok && equalExpr(a.Call, bb.Call)
	case *ast.ReturnStmt:
		bb, ok := b.(*ast.ReturnStmt)
		return ok && equalExprs(a.Results, bb.Results)
	case *ast.BranchStmt:
		bb, ok := b.(*ast.BranchStmt)
		return ok && a.Tok == bb.Tok && equalIdent(a.Label, bb.Label)
	case *ast.BlockStmt:
		bb, ok := b.(*ast.BlockStmt)
		return ok && equalBlock(a, bb)
	case *ast.IfStmt:
		bb, ok := b.(*ast.IfStmt)
		return ok && equalStmt(a.Init, bb.Init) && equalExpr(a.Cond, bb.Cond) &&
			equalBlock(a.Body, bb.Body) && equalStmt(a.Else, bb.Else)
	case *ast.CaseClause:
		bb, ok := b.(*ast.CaseClause)
		return ok && equalExprs(a.List, bb.List) && equalStmts(a.Body, bb.Body)
	case *ast.SwitchStmt:
		bb, ok := b.(*ast.SwitchStmt)
		return ok && equalStmt(a.Init, bb.Init) && equalExpr(a.Tag, bb.Tag) && equalBlock(a.Body, bb.Body)
	case *ast.TypeSwitchStmt:
		bb, ok := b.(*ast.TypeSwitchStmt)
		return ok && equalStmt(a.Init, bb.Init) && equalStmt(a.Assign, bb.Assign) && equalBlock(a.Body, bb.Body)
	case *ast.CommClause:
		bb, ok := b.(*ast.CommClause)
		return ok && equalStmt(a.Comm, bb.Comm) && equalStmts(a.Body, bb.Body)
	case *ast.SelectStmt:
		bb, ok := b.(*ast.SelectStmt)
		return ok && equalBlock(a.Body, bb.Body)
	case *ast.ForStmt:
		bb, ok := b.(*ast.ForStmt)
		return ok && equalStmt(a.Init, bb.Init) && equalExpr(a.Cond, bb.Cond) &&
			equalStmt(a.Post, bb.Post) && equalBlock(a.Body, bb.Body)
	case *ast.RangeStmt:
		bb, ok := b.(*ast.RangeStmt)
		return ok && a.Tok == bb.Tok && equalExpr(a.Key, bb.Key) && equalExpr(a.Value, bb.Value) &&
			equalExpr(a.X, bb.X) && equalBlock(a.Body, bb.Body)
	default:
		return false
	}
}

func equalDecl(a, b ast.Decl) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case *ast.GenDecl:
		bb, ok := b.(*ast.GenDecl)
		if !ok || a.Tok != bb.Tok || len(a.Specs) != len(bb.Specs) {
			return false
		}
		for i := range a.Specs {
			if !equalSpec(a.Specs[i], bb.Specs[i]) {
				return false
			}
		}
		return true
	case *ast.FuncDecl:
		bb, ok := b.(*ast.FuncDecl)
		return ok && equalFieldList(a.Recv, bb.Recv) && equalIdent(a.Name, bb.Name) &&
			equalExpr(a.Type, bb.Type) && equalBlock(a.Body, bb.Body)
	default:
		return false
	}
}

func equalSpec(a, b ast.Spec) bool {
	switch a := a.(type) {
	case *ast.ImportSpec:
		bb, ok := b.(*ast.ImportSpec)
		return ok && equalIdent(a.Name, bb.Name) && equalBasicLit(a.Path, bb.Path)
	case *ast.ValueSpec:
		bb, ok := b.(*ast.ValueSpec)
		return ok && equalIdents(a.Names, bb.Names) && equalExpr(a.Type, bb.Type) &&
			equalExprs(a.Values, bb.Values)
	case *ast.TypeSpec:
		bb, ok := b.(*ast.TypeSpec)
		return ok && equalIdent(a.Name, bb.Name) && equalFieldList(a.TypeParams, bb.TypeParams) &&
			equalExpr(a.Type, bb.Type)
	default:
		return false
	}
}
