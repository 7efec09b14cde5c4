// Package analyzer exposes a pattern as a vet-style analysis.Analyzer that
// reports every occurrence in the checked packages.
package analyzer

import (
	"fmt"

	"golang.org/x/tools/go/analysis"

	"github.com/treefactor/treefactor/bindings"
	"github.com/treefactor/treefactor/match"
	"github.com/treefactor/treefactor/pattern"
	"github.com/treefactor/treefactor/semantic"
)

// New builds an analyzer that flags every non-overlapping occurrence of the
// pattern. kind selects the fragment kind the pattern text is parsed at.
func New(name string, kind bindings.Kind, patternText string) (*analysis.Analyzer, error) {
	p, err := pattern.Parse(kind, patternText)
	if err != nil {
		return nil, err
	}
	return &analysis.Analyzer{
		Name: name,
		Doc:  fmt.Sprintf("reports occurrences of the %s pattern %q", kind, patternText),
		Run: func(pass *analysis.Pass) (any, error) {
			mcx := match.NewMatchCtxt(semantic.NewOracle(pass.TypesInfo, pass.Pkg))
			for _, file := range pass.Files {
				for _, res := range match.FindAll(p, file, mcx) {
					pass.Reportf(res.Matched.Pos(), "%s matches pattern %q", res.Matched, patternText)
				}
			}
			return nil, nil
		},
	}, nil
}
