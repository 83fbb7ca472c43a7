package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/cosmos/internal/config"
	"github.com/vango-dev/cosmos/pkg/server"
)

func serveCmd() *cobra.Command {
	var (
		port        int
		host        string
		openBrowser bool
		noWatch     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the preview server",
		Long: `Start the fixture preview server.

Fixtures are rendered on first request and kept mounted, so actions
dispatched to a fixture store accumulate until the fixture file changes
or the fixture is unmounted with DELETE /api/fixtures/{name}.

Features:
  • HTML preview at /fixtures/{name}
  • Live updates over /ws/{name}
  • JSON API under /api/fixtures
  • Prometheus metrics (if enabled)

Examples:
  cosmos serve
  cosmos serve --port=8080
  cosmos serve --host=0.0.0.0 --no-watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Dev.Port = port
			}
			if host != "" {
				cfg.Dev.Host = host
			}
			if noWatch {
				cfg.Fixtures.Watch = false
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cfg, openBrowser)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from cosmos.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from cosmos.json)")
	cmd.Flags().BoolVarP(&openBrowser, "open", "o", false, "Open browser on start")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload fixtures when files change")

	return cmd
}

func runServe(cfg *config.Config, openBrowser bool) error {
	logger := newLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, dir, err := openSource(ctx, cfg, logger)
	if err != nil {
		return err
	}

	serverCfg := server.DefaultServerConfig().
		WithAddress(cfg.DevAddress()).
		WithReduxOptions(cfg.ReduxOptions()...).
		WithLogger(logger)
	if !cfg.Metrics.Enabled {
		serverCfg = serverCfg.WithMetricsPath("")
	} else {
		serverCfg = serverCfg.WithMetricsPath(cfg.Metrics.Path)
	}
	srv := server.New(src, newRegistry(), serverCfg)

	fmt.Println()
	success("Preview server on %s", cfg.DevURL())
	if cfg.UsesS3() {
		info("Fixtures: s3://%s/%s", cfg.Fixtures.S3.Bucket, cfg.Fixtures.S3.Prefix)
	} else {
		info("Fixtures: %s", cfg.FixturesPath())
	}
	if cfg.Metrics.Enabled {
		info("Metrics:  %s%s", cfg.DevURL(), cfg.Metrics.Path)
	}
	fmt.Println()

	if dir != nil && cfg.Fixtures.Watch {
		go func() {
			if err := srv.Watch(ctx, dir); err != nil {
				warn("Not watching fixtures: %v", err)
			}
		}()
	}

	if openBrowser {
		go openURL(cfg.DevURL())
	}

	return srv.Run(ctx)
}

// openURL opens a URL in the default browser.
func openURL(url string) {
	var cmd *exec.Cmd

	switch {
	case commandExists("xdg-open"):
		cmd = exec.Command("xdg-open", url)
	case commandExists("open"):
		cmd = exec.Command("open", url)
	case commandExists("start"):
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}

	cmd.Start()
}

// commandExists checks if a command exists in PATH.
func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
