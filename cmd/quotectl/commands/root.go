package commands

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/anshumaan69/tenderflow/internal/observability"
)

var (
	verbose     bool
	catalogPath string
)

var rootCmd = &cobra.Command{
	Use:   "quotectl",
	Short: "TenderFlow CLI - turn RFP documents into priced quotes",
	Long: `quotectl runs the TenderFlow extraction-to-quote pipeline locally.
It reads a PDF or text RFP, extracts requirements with the configured language model,
matches them against the product catalog and prints the quote as JSON or CSV.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "YAML catalog overriding the configured one")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func newLogger() zerolog.Logger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return observability.NewLogger(observability.LogConfig{
		Level:       level,
		Format:      "console",
		Output:      os.Stderr,
		ServiceName: "quotectl",
	})
}
