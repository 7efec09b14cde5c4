package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/treefactor/treefactor/rule"
)

// initCmd writes a starter rules file.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter rewrite rules file",
	Run: func(cmd *cobra.Command, args []string) {
		if err := initRulesFile(rulesFile); err != nil {
			logger.Error("Error initializing rules file", zap.Error(err))
			return
		}
		fmt.Printf("Rules file created: %s\n", rulesFile)
	},
}

func initRulesFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	cfg := rule.Config{
		Rules: []rule.Rule{
			{
				Name:    "example-simplify-double-negation",
				Kind:    "expr",
				Match:   "!(!:[x])",
				Rewrite: ":[x]",
			},
		},
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
