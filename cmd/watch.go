package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/treefactor/treefactor/rule"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Watch directories and re-apply the rules on change",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide directory paths")
			os.Exit(1)
		}
		rules, err := rule.Load(rulesFile)
		if err != nil {
			logger.Fatal("Failed to load rules", zap.String("path", rulesFile), zap.Error(err))
		}
		if err := runWatch(rules, args); err != nil {
			logger.Fatal("Watch failed", zap.Error(err))
		}
	},
}

func runWatch(rules []rule.Rule, dirs []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, dir := range dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("adding directory to watcher: %w", err)
		}
	}
	logger.Info("Watching for changes", zap.Strings("dirs", dirs))

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write != fsnotify.Write || !strings.HasSuffix(event.Name, ".go") {
				continue
			}
			// editors fire several writes in a row; let them settle
			time.Sleep(100 * time.Millisecond)
			runApply(context.Background(), logger, rules, []string{event.Name}, true, false)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("Watcher error", zap.Error(err))
		}
	}
}
