package main

import (
	"runtime"

	"aya-hq/companion/pkg/cli"
	"aya-hq/companion/pkg/telemetry/health"

	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set by build flags)
	Version = "0.1.0"
	// GitCommit is the git commit hash (set by build flags)
	GitCommit = "unknown"
	// BuildDate is the build timestamp (set by build flags)
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print detailed version information including Git commit and build date.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cli.ParseFormat(outputFormat)
		if err != nil {
			return err
		}
		return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), versionOutput(format))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func versionInfo() health.VersionInfo {
	return health.NewVersionInfo(Version, GitCommit, BuildDate)
}

func versionOutput(format cli.OutputFormat) any {
	info := versionInfo()
	if format == cli.FormatJSON {
		return info
	}
	return cli.Fields{
		"Version":    info.Version,
		"Git Commit": info.Commit,
		"Build Date": info.BuildTime,
		"Go Version": info.GoVersion,
		"OS/Arch":    runtime.GOOS + "/" + runtime.GOARCH,
	}
}
