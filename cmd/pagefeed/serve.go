package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/pagefeed/internal/config"
	"github.com/jonathan/pagefeed/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the feed API server",
	Long:  `Start an HTTP server that exposes GET /api/rss for turning web pages into RSS feeds.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", config.DefaultPort, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	pipe, cleanup, err := newPipeline(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to assemble pipeline: %w", err)
	}
	defer cleanup()

	srv := server.New(server.Config{Port: cfg.Port, Feeds: pipe})
	return srv.Start()
}
