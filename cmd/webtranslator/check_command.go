package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"webtranslator/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var network bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run readiness checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg, preflight.Options{Network: network})

			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{r.Name, checkState(r), r.Detail})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Check", "Status", "Detail"},
				rows,
				nil,
				shouldColorize(out),
			))

			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d check(s) failed", len(failed))
			}
			fmt.Fprintln(out, "All required checks passed")
			return nil
		},
	}
	cmd.Flags().BoolVar(&network, "network", false, "Also probe the translation and speech endpoints")
	return cmd
}

func checkState(r preflight.Result) string {
	switch {
	case r.Passed:
		return "ok"
	case r.Optional:
		return "warn"
	default:
		return "FAIL"
	}
}
