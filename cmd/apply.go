package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/treefactor/treefactor/rule"
)

var (
	dryRun bool
	write  bool
)

var applyCmd = &cobra.Command{
	Use:   "apply [paths...]",
	Short: "Apply the rewrite rules to files",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		rules, err := rule.Load(rulesFile)
		if err != nil {
			logger.Fatal("Failed to load rules", zap.String("path", rulesFile), zap.Error(err))
		}

		runApply(ctx, logger, rules, args, dryRun, write)
	},
}

func init() {
	applyCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show rewrites as diffs without applying them")
	applyCmd.Flags().BoolVarP(&write, "write", "w", false, "Write results back to the source files")
}

func runApply(ctx context.Context, logger *zap.Logger, rules []rule.Rule, paths []string, dryRun, write bool) {
	files, err := collectGoFiles(paths)
	if err != nil {
		logger.Error("Error collecting files", zap.Error(err))
		os.Exit(1)
	}

	bar := progressbar.Default(int64(len(files)), "rewriting")
	changed := 0
	for _, file := range files {
		if ctx.Err() != nil {
			logger.Error("Timed out", zap.Error(ctx.Err()))
			os.Exit(1)
		}
		_ = bar.Add(1)

		src, err := os.ReadFile(file)
		if err != nil {
			logger.Error("Error reading file", zap.String("file", file), zap.Error(err))
			continue
		}
		out, err := rule.Apply(file, src, rules)
		if err != nil {
			logger.Error("Error applying rules", zap.String("file", file), zap.Error(err))
			continue
		}
		if bytes.Equal(src, out) {
			continue
		}
		changed++

		switch {
		case dryRun:
			printDiff(file, string(src), string(out))
		case write:
			if err := os.WriteFile(file, out, 0o644); err != nil {
				logger.Error("Error writing file", zap.String("file", file), zap.Error(err))
			}
		default:
			fmt.Print(string(out))
		}
	}

	logger.Info("Done", zap.Int("files", len(files)), zap.Int("changed", changed))
}

func collectGoFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("access %s: %w", path, err)
		}
		if !info.IsDir() {
			if strings.HasSuffix(path, ".go") {
				files = append(files, path)
			}
			continue
		}
		err = filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() {
				name := fi.Name()
				if name == "vendor" || name == "testdata" || strings.HasPrefix(name, ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(p, ".go") {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", path, err)
		}
	}
	return files, nil
}

var (
	fileStyle   = color.New(color.FgCyan, color.Bold)
	removeStyle = color.New(color.FgRed)
	insertStyle = color.New(color.FgGreen)
)

// printDiff shows the changed region of a rewrite: the longest common
// prefix and suffix of the two versions are elided line-wise, the middle is
// printed -/+ style.
func printDiff(filename, before, after string) {
	oldLines := strings.Split(before, "\n")
	newLines := strings.Split(after, "\n")

	prefix := 0
	for prefix < len(oldLines) && prefix < len(newLines) && oldLines[prefix] == newLines[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(oldLines)-prefix && suffix < len(newLines)-prefix &&
		oldLines[len(oldLines)-1-suffix] == newLines[len(newLines)-1-suffix] {
		suffix++
	}

	fileStyle.Printf("--- %s\n", filename)
	for _, line := range oldLines[prefix : len(oldLines)-suffix] {
		removeStyle.Printf("- %s\n", line)
	}
	for _, line := range newLines[prefix : len(newLines)-suffix] {
		insertStyle.Printf("+ %s\n", line)
	}
}
