package main

import (
	"fmt"
	"os"

	"aya-hq/companion/pkg/cli"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile      string
	verbose      bool
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "aya",
	Short: "AYA Companion - multilingual patient assistant backend",
	Long: `AYA Companion answers questions from patients and caregivers of the
adolescent and young adult cancer program, in English, Spanish, Chinese,
Russian, Arabic, Hebrew and Yiddish.

It keeps a short conversation history per session, removes personal
information from messages before they leave the server, and forwards each
conversation to a hosted model endpoint with a locale-aware system prompt.

Configuration is read from a YAML file (--config) and from the environment
(AYA_* variables, or DATABRICKS_ENDPOINT and DATABRICKS_PAT).`,
	Version:      Version,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (environment only when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format (text, json)")
}
