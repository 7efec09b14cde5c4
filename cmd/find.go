package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/treefactor/treefactor/bindings"
	"github.com/treefactor/treefactor/match"
	"github.com/treefactor/treefactor/pattern"
	"github.com/treefactor/treefactor/semantic"
)

var (
	findPattern string
	findKind    string
)

var findCmd = &cobra.Command{
	Use:   "find [paths...]",
	Short: "Report every occurrence of a pattern",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}
		kind := bindings.KindFromString(findKind)
		if kind == 0 {
			logger.Fatal("Unknown fragment kind", zap.String("kind", findKind))
		}
		p, err := pattern.Parse(kind, findPattern)
		if err != nil {
			logger.Fatal("Failed to parse pattern", zap.Error(err))
		}

		runFind(p, args)
	},
}

func init() {
	findCmd.Flags().StringVarP(&findPattern, "pattern", "p", "", "Pattern text with :[name] holes")
	findCmd.Flags().StringVar(&findKind, "kind", "expr", "Fragment kind of the pattern (expr, stmts, type, ident, decl)")
	_ = findCmd.MarkFlagRequired("pattern")
}

func runFind(p *pattern.Pattern, paths []string) {
	files, err := collectGoFiles(paths)
	if err != nil {
		logger.Error("Error collecting files", zap.Error(err))
		os.Exit(1)
	}

	total := 0
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			logger.Error("Error reading file", zap.String("file", file), zap.Error(err))
			continue
		}
		checked, err := semantic.CheckFile(file, string(src))
		if err != nil {
			logger.Error("Error parsing file", zap.String("file", file), zap.Error(err))
			continue
		}

		mcx := match.NewMatchCtxt(checked.Oracle)
		for _, res := range match.FindAll(p, checked.File, mcx) {
			pos := checked.Fset.Position(res.Matched.Pos())
			fileStyle.Printf("%s:%d:%d: ", pos.Filename, pos.Line, pos.Column)
			fmt.Println(res.Matched)
			total++
		}
	}

	if total == 0 {
		fmt.Println("no matches")
		os.Exit(1)
	}
}
