package cmd

import (
	"flag"
	"fmt"

	"github.com/nibzard/tasklist-go/internal/config"
)

// configCommand prints the effective configuration or an example file.
func configCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasklist config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	example := fs.Bool("example", false, "Print an example tasklist.toml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *example {
		fmt.Fprint(stdout, config.ExampleConfig())
		return nil
	}

	for _, f := range cfg.Files {
		fmt.Fprintf(stdout, "# loaded %s\n", f)
	}
	for _, s := range cfg.Settings() {
		fmt.Fprintf(stdout, "%s = %v  # %s\n", s.Key, formatValue(s.Value), s.Source)
	}
	return nil
}

func formatValue(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprint(v)
}
