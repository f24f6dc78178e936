package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/pdfmail/internal/content"
)

func newContentCommand(rt *runtimeState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Manage content items",
	}
	cmd.AddCommand(newContentPutCommand(rt))
	return cmd
}

func newContentPutCommand(rt *runtimeState) *cobra.Command {
	var (
		id       int64
		label    string
		bodyFile string
	)

	cmd := &cobra.Command{
		Use:   "put",
		Short: "Create a content item, or update it when --id is set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			body, err := readBody(cmd.InOrStdin(), bodyFile)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			d, err := openDeps(ctx, rt)
			if err != nil {
				return err
			}
			defer func() { _ = d.Close(context.WithoutCancel(ctx)) }()

			var inv invalidator
			if c, ok := d.contentReader().(*content.Cached); ok {
				inv = c
			}

			e := &content.Entity{ID: id, Label: label, Body: body}
			return putContent(ctx, content.NewStore(d.pool), inv, cmd.OutOrStdout(), e)
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "id of the item to update")
	cmd.Flags().StringVar(&label, "label", "", "item label, also used as the PDF file name")
	cmd.Flags().StringVar(&bodyFile, "body-file", "", `HTML body file, "-" reads stdin`)
	_ = cmd.MarkFlagRequired("label")
	return cmd
}

type saver interface {
	Save(ctx context.Context, e *content.Entity) error
}

type invalidator interface {
	Invalidate(ctx context.Context, id int64) error
}

// putContent saves e and drops its cached copy so the next view and the
// next PDF use the new body.
func putContent(ctx context.Context, s saver, inv invalidator, out io.Writer, e *content.Entity) error {
	if err := s.Save(ctx, e); err != nil {
		return err
	}
	if inv != nil {
		if err := inv.Invalidate(ctx, e.ID); err != nil {
			return fmt.Errorf("content %d saved but cache not invalidated: %w", e.ID, err)
		}
	}
	_, err := fmt.Fprintf(out, "%d\t%s\n", e.ID, content.ViewURL(e.ID))
	return err
}

func readBody(stdin io.Reader, path string) (string, error) {
	switch path {
	case "":
		return "", nil
	case "-":
		b, err := io.ReadAll(stdin)
		return string(b), err
	default:
		b, err := os.ReadFile(path)
		return string(b), err
	}
}
