// Package semantic backs the matcher's definition-equality oracle with
// go/types information: two differently spelled paths are the same iff they
// resolve to the same object.
package semantic

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/packages"
)

// Oracle answers definition-identity queries from a type-checked package.
// Nodes the checker saw resolve through types.Info; nodes it never saw — a
// parsed pattern, or a capture cloned out of the tree — resolve by spelling
// against the package scope. Names that resolve neither way are reported as
// unknown rather than guessed.
type Oracle struct {
	info *types.Info
	pkg  *types.Package
}

// NewOracle wraps existing type information. info and pkg may come from a
// go/types check, a packages.Load or an analysis.Pass; pkg may be nil, in
// which case only nodes present in info resolve.
func NewOracle(info *types.Info, pkg *types.Package) *Oracle {
	return &Oracle{info: info, pkg: pkg}
}

// SameDef reports whether a and b denote the same definition. known is false
// when either side does not resolve to an object.
func (o *Oracle) SameDef(a, b ast.Expr) (same, known bool) {
	if o == nil || o.info == nil {
		return false, false
	}
	oa := o.objectOf(a)
	ob := o.objectOf(b)
	if oa == nil || ob == nil {
		return false, false
	}
	return oa == ob, true
}

func (o *Oracle) objectOf(e ast.Expr) types.Object {
	switch e := e.(type) {
	case *ast.Ident:
		if obj := o.info.ObjectOf(e); obj != nil {
			return obj
		}
		// not a node the checker saw: resolve the spelling in package scope
		if o.pkg != nil {
			return o.pkg.Scope().Lookup(e.Name)
		}
		return nil
	case *ast.SelectorExpr:
		if obj := o.info.ObjectOf(e.Sel); obj != nil {
			return obj
		}
		if pn, ok := o.objectOf(e.X).(*types.PkgName); ok {
			return pn.Imported().Scope().Lookup(e.Sel.Name)
		}
		return nil
	case *ast.ParenExpr:
		return o.objectOf(e.X)
	default:
		return nil
	}
}

// File bundles one parsed, type-checked source file with its oracle.
type File struct {
	Fset   *token.FileSet
	File   *ast.File
	Oracle *Oracle
}

// CheckFile parses and type-checks a single file. Checking is best effort:
// unresolved imports leave their uses unknown to the oracle instead of
// failing the whole operation.
func CheckFile(filename, src string) (*File, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	info := &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Scopes:     make(map[ast.Node]*types.Scope),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
	}
	conf := types.Config{
		Importer: nil,
		Error:    func(error) {}, // collect what resolves, ignore the rest
	}
	pkg, _ := conf.Check(file.Name.Name, fset, []*ast.File{file}, info)

	return &File{Fset: fset, File: file, Oracle: NewOracle(info, pkg)}, nil
}

// LoadPackages loads fully type-checked packages rooted at dir, for callers
// that need cross-package resolution.
func LoadPackages(dir string, patterns ...string) ([]*packages.Package, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
			packages.NeedTypes | packages.NeedTypesInfo | packages.NeedDeps,
		Dir: dir,
	}
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}
	return pkgs, nil
}
