/*
Package cli provides command-line helpers for the aya command.

Output Formatting:

Commands print results as text or JSON:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, status); err != nil {
		return err
	}

The text formatter prints cli.Fields as an aligned table sorted by key.

Errors and Exit Codes:

ConfigError, CommandError and UnhealthyError carry enough context for
ExitCode to choose the process exit status.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
