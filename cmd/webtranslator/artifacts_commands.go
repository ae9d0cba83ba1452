package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"webtranslator/internal/logging"
)

func newArtifactsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artifacts",
		Short: "Inspect and clean stored audio artifacts",
	}
	cmd.AddCommand(newArtifactsListCommand(ctx))
	cmd.AddCommand(newArtifactsSweepCommand(ctx))
	return cmd
}

func newArtifactsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored artifacts, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore(logging.NewNop())
			if err != nil {
				return err
			}
			items, err := store.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintf(out, "No artifacts in %s\n", store.Dir())
				return nil
			}

			rows := make([][]string, 0, len(items))
			var total int64
			for _, a := range items {
				total += a.Size
				rows = append(rows, []string{
					a.Name(),
					humanize.Bytes(uint64(a.Size)),
					humanize.Time(a.ModTime),
					store.URLFor(a),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Artifact", "Size", "Modified", "URL"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
				shouldColorize(out),
			))
			fmt.Fprintf(out, "%d artifacts, %s total\n", len(items), humanize.Bytes(uint64(total)))
			return nil
		},
	}
}

func newArtifactsSweepCommand(ctx *commandContext) *cobra.Command {
	var maxAgeFlag string

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Remove artifacts older than the retention max age",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			maxAge := cfg.RetentionMaxAge()
			if value := strings.TrimSpace(maxAgeFlag); value != "" {
				parsed, err := time.ParseDuration(value)
				if err != nil {
					return fmt.Errorf("invalid --max-age: %w", err)
				}
				maxAge = parsed
			}
			out := cmd.OutOrStdout()
			if maxAge <= 0 {
				fmt.Fprintln(out, "Retention disabled (max age is 0); nothing removed")
				return nil
			}

			store, err := ctx.openStore(logging.NewNop())
			if err != nil {
				return err
			}
			result := store.Sweep(cmd.Context(), maxAge)
			if result.Skipped {
				fmt.Fprintln(out, "Another sweep is running; skipped")
				return nil
			}
			fmt.Fprintf(out, "Removed %d artifacts older than %s (%s reclaimed)\n",
				len(result.Removed), maxAge, humanize.Bytes(uint64(result.ReclaimedBytes())))
			for _, cleanupErr := range result.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "failed to remove %s: %v\n", cleanupErr.Path, cleanupErr.Error)
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d artifacts could not be removed", len(result.Errors))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&maxAgeFlag, "max-age", "", "Override retention.max_age (e.g. 30m, 12h)")
	return cmd
}
