package main

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newWorkerCommand(rt *runtimeState) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Process disposal jobs and the stale artifact sweep",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return work(cmd.Context(), rt)
		},
	}
}

func work(ctx context.Context, rt *runtimeState) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d, err := openDeps(ctx, rt)
	if err != nil {
		return err
	}
	if err := d.startJobs(); err != nil {
		return errors.Join(err, d.Close(context.Background()))
	}
	d.onClose(d.jobs.Shutdown())

	if err := d.jobs.StartFunc()(ctx); err != nil {
		return errors.Join(err, d.Close(context.Background()))
	}
	d.logger.InfoContext(ctx, "worker started", slog.String("queue", d.cfg.Disposal.Queue))

	<-ctx.Done()
	d.logger.Info("worker stopping")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), d.cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return d.Close(shutdownCtx)
}
