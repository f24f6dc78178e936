package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/pdfmail/internal/content"
	"github.com/dmitrymomot/pdfmail/pkg/db"
	"github.com/dmitrymomot/pdfmail/pkg/job"
)

func newMigrateCommand(rt *runtimeState) *cobra.Command {
	var jobsOnly, contentOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations for content and the job queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return migrate(cmd.Context(), rt, !jobsOnly, !contentOnly)
		},
	}
	cmd.Flags().BoolVar(&jobsOnly, "jobs-only", false, "only migrate the job queue tables")
	cmd.Flags().BoolVar(&contentOnly, "content-only", false, "only migrate the content tables")
	cmd.MarkFlagsMutuallyExclusive("jobs-only", "content-only")
	return cmd
}

func migrate(ctx context.Context, rt *runtimeState, withContent, withJobs bool) error {
	pool, err := db.Connect(ctx, rt.cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	if withContent {
		if err := db.Migrate(ctx, pool, content.Migrations(), rt.cfg.DB.MigrationsTable, rt.logger); err != nil {
			return err
		}
	}
	if withJobs {
		if err := job.Migrate(ctx, pool, rt.logger); err != nil {
			return err
		}
	}
	return nil
}
