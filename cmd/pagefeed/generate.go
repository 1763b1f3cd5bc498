package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/pagefeed/internal/config"
	"github.com/jonathan/pagefeed/internal/fingerprint"
)

var generateCmd = &cobra.Command{
	Use:   "generate <url>",
	Short: "Generate an RSS feed for a single page and print it",
	Long:  `Runs extraction and feed generation once for the given page URL and writes the RSS XML to stdout.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	pipe, cleanup, err := newPipeline(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to assemble pipeline: %w", err)
	}
	defer cleanup()

	outcome, err := pipe.Run(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	log.Printf("[generate] model=%s items=%d fingerprint=%s", outcome.Model, outcome.Items, fingerprint.Short(outcome.Fingerprint))
	fmt.Println(outcome.XML)
	return nil
}
