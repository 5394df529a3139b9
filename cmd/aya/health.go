package main

import (
	"context"
	"io"
	"os"
	"time"

	"aya-hq/companion/pkg/assistant"
	"aya-hq/companion/pkg/cli"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe the model endpoint",
	Long: `Send a minimal request to the configured model endpoint and report
whether it answered. Exits with status 3 when the endpoint is unhealthy.

Examples:
  aya health
  aya health --output json`,
	RunE: runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()

	return probe(cmd.Context(), a.assistant, cli.NewFormatter(format), cmd.OutOrStdout())
}

// prober is satisfied by *assistant.Service.
type prober interface {
	HealthCheck(ctx context.Context) assistant.HealthStatus
	Provider() string
}

// probe prints the health of p and returns an UnhealthyError when it failed.
func probe(ctx context.Context, p prober, f cli.Formatter, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	status := p.HealthCheck(ctx)

	var data any = struct {
		Provider string `json:"provider"`
		assistant.HealthStatus
	}{Provider: p.Provider(), HealthStatus: status}

	if _, ok := f.(*cli.TextFormatter); ok {
		fields := cli.Fields{
			"provider":  p.Provider(),
			"status":    status.Status,
			"timestamp": status.Timestamp.Format(time.RFC3339),
		}
		if status.StatusCode != 0 {
			fields["status_code"] = status.StatusCode
		}
		if status.Error != "" {
			fields["error"] = status.Error
		}
		data = fields
	}

	if err := f.FormatTo(out, data); err != nil {
		return err
	}
	if !status.Healthy() {
		return &cli.UnhealthyError{Component: p.Provider(), Reason: status.Error}
	}
	return nil
}
