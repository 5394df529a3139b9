package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"aya-hq/companion/pkg/cli"
	"aya-hq/companion/pkg/config"
	"aya-hq/companion/pkg/server"

	"github.com/spf13/cobra"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the AYA Companion API server",
	Long: `Start the AYA Companion API server with the specified configuration.

The server listens on the configured address, serves the chat and session
API, and forwards conversations to the configured model endpoint.

Examples:
  # Start with configuration from the environment
  DATABRICKS_ENDPOINT=https://... DATABRICKS_PAT=... aya run

  # Start with a config file
  aya run --config /etc/aya/config.yaml

  # Override listen address
  aya run --listen 0.0.0.0:8080

  # Validate config without starting server
  aya run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err.Error())
	}

	if runFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration valid")
		return nil
	}

	a, err := newApp(cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer a.close()

	printBanner(cmd, cfg)

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	if err := a.janitor.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	srv := a.server()
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(ctx)
	}()

	if err := waitForServerReady(srv, errChan, 5*time.Second); err != nil {
		return cli.NewCommandError("run", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Server listening on http://%s\n", srv.Addr())
	fmt.Fprintf(out, "✓ Chat endpoint: http://%s/api/chat/message\n", srv.Addr())
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Fprintf(out, "✓ Metrics endpoint: http://%s%s\n", srv.Addr(), cfg.Telemetry.Metrics.Path)
	}
	if next := a.janitor.NextRun(); next != nil {
		fmt.Fprintf(out, "✓ Next session cleanup: %s\n", next.Format(time.RFC3339))
	}
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	if err := <-errChan; err != nil {
		slog.Error("server stopped with error", "error", err)
		return cli.NewCommandError("run", err)
	}

	fmt.Fprintln(out, "✓ Server stopped")
	return nil
}

func printBanner(cmd *cobra.Command, cfg *config.Config) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "AYA Companion v%s\n", Version)
	if cfgFile != "" {
		fmt.Fprintf(out, "Loading configuration from: %s\n", cfgFile)
	}
	fmt.Fprintln(out, "✓ Configuration loaded")

	slog.Debug("model endpoint configured",
		"provider", cfg.Model.Name,
		"timeout", cfg.Model.Timeout,
	)
	slog.Debug("session store configured",
		"max_messages", cfg.Sessions.MaxMessages,
		"max_age", cfg.Sessions.MaxAge,
		"rate_limit", cfg.Sessions.RateLimit.Enabled,
	)
	if cfg.Telemetry.Tracing.Enabled {
		slog.Debug("tracing enabled", "endpoint", cfg.Telemetry.Tracing.Endpoint)
	}
}

// waitForServerReady polls until srv is listening, Start fails or timeout
// elapses.
func waitForServerReady(srv *server.Server, errChan <-chan error, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		if srv.Addr() != "" {
			return nil
		}
		select {
		case err := <-errChan:
			if err == nil {
				return fmt.Errorf("server exited before it was ready")
			}
			return err
		case <-ctx.Done():
			return fmt.Errorf("server not ready after %s", timeout)
		case <-ticker.C:
		}
	}
}
