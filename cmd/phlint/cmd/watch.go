package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/phlint-dev/phlint/internal/config"
)

// runWatch re-runs a full check whenever one of the checked files or the
// config file changes: one fsnotify.Watcher, a small debounce window
// collapsing bursts of writes into a single re-run.
func runWatch(args []string, cfg config.Config) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Close()

	watched := map[string]bool{}
	addWatch := func(path string) {
		dir := filepath.Dir(path)
		if watched[dir] {
			return
		}
		if err := w.Add(dir); err == nil {
			watched[dir] = true
		}
	}
	for _, f := range args {
		addWatch(f)
	}
	if cfgFile != "" {
		addWatch(cfgFile)
	}

	runAndReport := func() {
		result, err := runOnce(args, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "phlint: %v\n", err)
			return
		}
		printResult(result)
	}
	runAndReport()

	const debounce = 150 * time.Millisecond
	var timer *time.Timer
	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(event, args) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, runAndReport)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "phlint: watch error: %v\n", err)
		}
	}
}

func relevantEvent(event fsnotify.Event, watchedFiles []string) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
		return false
	}
	for _, f := range watchedFiles {
		if filepath.Clean(f) == filepath.Clean(event.Name) {
			return true
		}
	}
	return cfgFile != "" && filepath.Base(event.Name) == filepath.Base(cfgFile)
}
