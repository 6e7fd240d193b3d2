// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/numbersmith/number-inventory-service/internal/config"
	logging "github.com/numbersmith/number-inventory-service/pkg/log"
)

// app carries state shared by the subcommands
type app struct {
	configDir string
	logLevel  string
	cfg       *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "numbers_svc",
		Short: "Discover and acquire phone numbers from a number provider",
		Long: `numbers_svc searches a phone-number provider for available numbers,
deduplicates them across pages and area codes, and purchases the ones you pick.

Run "numbers_svc serve" for the HTTP API or use the search and acquire
commands directly. Configuration comes from config.yaml and NUMBERS_*
environment variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configDir)
			if err != nil {
				return err
			}
			if a.logLevel != "" {
				cfg.LogLevel = a.logLevel
			}
			a.cfg = cfg

			// the server logs to stdout; CLI commands keep stdout for their output
			if cmd.Name() == "serve" {
				logging.InitStructureLogConfig(cfg.LogLevel, cfg.LogAddSource)
			} else {
				slog.SetDefault(slog.New(logging.NewHandler(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogAddSource)))
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "directory holding config.yaml")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(a),
		newSearchCmd(a),
		newAcquireCmd(a),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
