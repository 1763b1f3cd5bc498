// Package main provides the entry point for the pagefeed HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pagefeed",
	Short: "Pagefeed RSS generation server",
	Long:  "Pagefeed turns ordinary web pages into RSS 2.0 feeds by extracting readable page content and asking a language model to shape it into feed items.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
