// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command bbedit creates and edits Libris entities from YAML draft files.
//
// It drives the same submission wizard as the web editor: the draft fills the
// aliases, data and note steps, every tab is visited so each step is validated,
// and the submission is posted with the editor's access token.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/libris/internal/client"
	"github.com/taibuivan/libris/internal/platform/config"
)

var (
	// Global flags
	apiURL  string
	token   string
	timeout time.Duration
	verbose bool

	// Resolved in PersistentPreRunE
	cfg    *config.ClientConfig
	api    *client.Client
	logger *slog.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bbedit",
	Short: "Create and edit Libris entities from YAML drafts",
	Long: `bbedit submits entity revisions to a Libris API server.

The API URL and token are read from LIBRIS_API_URL and LIBRIS_TOKEN and can be
overridden with flags. Entity types are given as "work", "edition-group", ...`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		var err error
		cfg, err = config.LoadClient()
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("api-url") {
			cfg.APIURL = apiURL
		}
		if cmd.Flags().Changed("token") {
			cfg.Token = token
		}
		if cmd.Flags().Changed("timeout") {
			cfg.Timeout = timeout
		}

		api = client.New(cfg.APIURL, cfg.Token, cfg.Timeout)
		logger.Debug("client_configured", slog.String("api_url", cfg.APIURL), slog.Bool("authenticated", cfg.Token != ""))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Libris API base URL (overrides LIBRIS_API_URL)")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Editor access token (overrides LIBRIS_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "HTTP timeout (overrides LIBRIS_TIMEOUT)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(createCmd, editCmd, showCmd, revisionsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
