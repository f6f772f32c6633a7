package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/anshumaan69/tenderflow/config"
	"github.com/anshumaan69/tenderflow/internal/app"
	"github.com/anshumaan69/tenderflow/internal/usecase"
)

var (
	quoteFormat   string
	quoteStrategy string
	quoteTimeout  time.Duration
)

var quoteCmd = &cobra.Command{
	Use:   "quote <file>",
	Short: "Generate a quote from an RFP document",
	Long:  "Extract requirements from a PDF or text RFP and print the priced quote.",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuote,
}

func init() {
	quoteCmd.Flags().StringVarP(&quoteFormat, "format", "f", "json", "output format: json or csv")
	quoteCmd.Flags().StringVarP(&quoteStrategy, "strategy", "s", "", "matching strategy override: structured or vector")
	quoteCmd.Flags().DurationVar(&quoteTimeout, "timeout", 5*time.Minute, "overall pipeline timeout")
	rootCmd.AddCommand(quoteCmd)
}

func runQuote(cmd *cobra.Command, args []string) error {
	if quoteFormat != "json" && quoteFormat != "csv" {
		return fmt.Errorf("format must be 'json' or 'csv', got: %s", quoteFormat)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if quoteStrategy != "" {
		cfg.Matching.Strategy = quoteStrategy
	}
	if catalogPath != "" {
		cfg.Catalog.Path = catalogPath
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), quoteTimeout)
	defer cancel()

	a, err := app.Build(ctx, cfg, newLogger())
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	defer a.Close()

	result := a.Quotes.ProcessUpload(ctx, data)

	out := cmd.OutOrStdout()
	if quoteFormat == "csv" {
		if err := usecase.WriteQuoteCSV(out, result); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	} else {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
	}

	if result.Failed() {
		return fmt.Errorf("quote failed during %s: %s", result.Error.Stage, result.Error.Message)
	}
	return nil
}
