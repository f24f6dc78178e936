package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/pdfmail/internal/config"
	"github.com/dmitrymomot/pdfmail/middlewares"
	"github.com/dmitrymomot/pdfmail/pkg/logger"
)

const flushTimeout = 2 * time.Second

// runtimeState is shared by every subcommand. PersistentPreRunE fills it.
type runtimeState struct {
	cfg    config.Config
	logger *slog.Logger
	load   func() (config.Config, error)
}

func newRootCommand() *cobra.Command {
	return newRootCommandWith(config.Load)
}

func newRootCommandWith(load func() (config.Config, error)) *cobra.Command {
	rt := &runtimeState{load: load}

	root := &cobra.Command{
		Use:           "pdfmail",
		Short:         "Email content items as PDF attachments",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			cfg, err := rt.load()
			if err != nil {
				return err
			}
			rt.cfg = cfg
			rt.logger = logger.New(cfg.Log, middlewares.RequestIDExtractor())
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			logger.Flush(flushTimeout)
		},
	}

	root.AddCommand(
		newServeCommand(rt),
		newWorkerCommand(rt),
		newMigrateCommand(rt),
		newContentCommand(rt),
	)
	return root
}
