package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/cosmos/internal/config"
	"github.com/vango-dev/cosmos/internal/errors"
)

// sampleFixtures are written by init next to a fresh cosmos.json.
var sampleFixtures = map[string]string{
	"counter.yaml": `component: Counter
fixture:
  label: Clicks
  reduxState:
    count: 3
`,
	"toggle.yaml": `component: Toggle
fixture:
  label: Wifi
  state:
    "on": true
`,
}

func initCmd() *cobra.Command {
	var noSamples bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create cosmos.json and sample fixtures",
		Long: `Create a cosmos.json with default settings in dir (default: the
working directory), plus a fixtures directory with sample fixtures for
the bundled Counter and Toggle components.

Examples:
  cosmos init
  cosmos init ./preview --no-samples`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(dir, !noSamples)
		},
	}

	cmd.Flags().BoolVar(&noSamples, "no-samples", false, "Do not write sample fixtures")

	return cmd
}

func runInit(dir string, samples bool) error {
	if config.Exists(dir) {
		return errors.Newf(errors.CategoryCLI, "%s already exists", filepath.Join(dir, config.ConfigFileName)).
			WithSuggestion("edit the existing file or choose another directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.New("E102").WithSubject(dir).Wrap(err)
	}

	cfg := config.New()
	path := filepath.Join(dir, config.ConfigFileName)
	if err := cfg.SaveTo(path); err != nil {
		return err
	}
	success("Created %s", path)

	if !samples {
		return nil
	}

	fixturesDir := cfg.FixturesPath()
	if err := os.MkdirAll(fixturesDir, 0o755); err != nil {
		return errors.New("E203").WithSubject(fixturesDir).Wrap(err)
	}
	for name, body := range sampleFixtures {
		p := filepath.Join(fixturesDir, name)
		if _, err := os.Stat(p); err == nil {
			warn("Skipping %s, it already exists", p)
			continue
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			return errors.New("E203").WithSubject(p).Wrap(err)
		}
		success("Created %s", p)
	}

	fmt.Println()
	info("Run: cosmos serve")
	return nil
}
