package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/nibzard/tasklist-go/internal/config"
	"github.com/nibzard/tasklist-go/internal/kv"
	"github.com/nibzard/tasklist-go/internal/locale"
	"github.com/nibzard/tasklist-go/internal/logging"
	"github.com/nibzard/tasklist-go/internal/storage"
	"github.com/nibzard/tasklist-go/internal/todo"
)

// doctorCommand checks config, store reachability and the stored value.
func doctorCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasklist doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	w := stdout
	fmt.Fprintln(w, "Tasklist Doctor")
	fmt.Fprintln(w, "===============")
	fmt.Fprintln(w)

	allOK := true

	// Config
	fmt.Fprintf(w, "Project root: %s\n", cfg.ProjectRoot)
	if len(cfg.Files) == 0 {
		fmt.Fprintln(w, "Config files: none (defaults)")
	}
	for _, f := range cfg.Files {
		fmt.Fprintf(w, "Config file: %s\n", f)
	}
	if *verbose {
		for _, s := range cfg.Settings() {
			fmt.Fprintf(w, "  %-15s %-30v (%s)\n", s.Key, s.Value, s.Source)
		}
	}
	if _, ok := locale.Lookup(cfg.Locale); ok {
		fmt.Fprintf(w, "  ✅ Locale: %s\n", cfg.Locale)
	} else {
		fmt.Fprintf(w, "  ⚠️  Locale: %s not available, using %s\n", cfg.Locale, locale.Default)
	}
	fmt.Fprintln(w)

	// Store
	fmt.Fprintf(w, "Store: %s (key %q)\n", cfg.Store, cfg.StoreKey)
	switch cfg.Store {
	case kv.BackendFile:
		fmt.Fprintf(w, "  Directory: %s\n", cfg.StoreDir)
	case kv.BackendRedis:
		fmt.Fprintf(w, "  Address: %s (db %d)\n", cfg.RedisAddr, cfg.RedisDB)
	case kv.BackendMemory:
		fmt.Fprintln(w, "  ⚠️  Memory store does not persist between runs")
	}

	store, err := kv.Open(ctx, cfg.StoreOptions())
	if err != nil {
		fmt.Fprintf(w, "  ❌ Unreachable: %v\n", err)
		allOK = false
	} else {
		defer store.Close()
		fmt.Fprintln(w, "  ✅ Reachable")
		if !checkStoredValue(ctx, store, cfg.StoreKey, *verbose) {
			allOK = false
		}
	}
	fmt.Fprintln(w)

	// Log directory
	logDir, err := logging.FindLogDir(cfg.LogDir, cfg.ProjectRoot)
	if err != nil {
		fmt.Fprintf(w, "Log directory: ❌ %v\n", err)
		allOK = false
	} else {
		fmt.Fprintf(w, "Log directory: %s\n", logDir)
		if _, err := os.Stat(logDir); err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintln(w, "  ⚠️  Not found (will be created on first run)")
			} else {
				fmt.Fprintf(w, "  ❌ Error: %v\n", err)
				allOK = false
			}
		} else {
			fmt.Fprintln(w, "  ✅ OK")
		}
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. tasklist may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

// checkStoredValue validates the collection stored under key.
func checkStoredValue(ctx context.Context, store kv.Store, key string, verbose bool) bool {
	w := stdout
	client := storage.New(store, storage.WithKey(key), storage.WithLatency(0))

	data, ok, err := client.Raw(ctx)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Read error: %v\n", err)
		return false
	}
	if !ok {
		fmt.Fprintln(w, "  ✅ No collection stored yet")
		return true
	}

	if err := todo.Validate(data); err != nil {
		fmt.Fprintln(w, "  ❌ Validation failed:")
		for _, e := range unwrapAll(err) {
			fmt.Fprintf(w, "     - %v\n", e)
		}
		return false
	}

	list, err := todo.Decode(data)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Decode error: %v\n", err)
		return false
	}
	c := list.Counts()
	fmt.Fprintf(w, "  ✅ Valid: %d tasks (%d active, %d completed)\n", c.Total, c.Active, c.Completed)
	if verbose {
		printTaskList(w, list)
	}
	return true
}

func unwrapAll(err error) []error {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return joined.Unwrap()
	}
	return []error{err}
}
