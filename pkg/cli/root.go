package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/getsubst/subst/pkg/logging"
)

var (
	// Persistent flags available to all subcommands
	jsonOutput bool
	logLevel   string

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "subst",
	Short: "subst substitutes %key% placeholders in strings and structured documents",
	Long: `subst resolves %key% placeholders against ordered variable scopes and a
process-wide global scope, preserving document structure and key order.

Templates can be plain text, JSON, YAML, or XML documents. Scopes are
supplied as files or inline key=value assignments; global variables can
be kept in a globals file shared between runs.`,
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Execute()
}

// Execute runs the root command. It is called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cliLogger returns a stderr logger honoring --log-level.
func cliLogger() *slog.Logger {
	return logging.New(logging.Config{Level: logging.ParseLevel(logLevel)})
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}
