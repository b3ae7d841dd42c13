package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"podium/internal/config"
	"podium/internal/preflight"
	"podium/internal/queue"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show environment checks and queue health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *queue.Store) error {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				for _, line := range renderSectionHeader("Environment", colorize) {
					fmt.Fprintln(out, line)
				}
				for _, result := range preflight.RunAll(cmd.Context(), cfg) {
					kind := statusOK
					if !result.Passed {
						kind = statusError
					}
					fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
				}

				health, err := store.Health(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(out)
				for _, line := range renderSectionHeader("Queue", colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderStatusLine("Total", statusInfo, strconv.Itoa(health.Total), colorize))
				fmt.Fprintln(out, renderStatusLine("Pending", statusInfo, strconv.Itoa(health.Pending), colorize))
				fmt.Fprintln(out, renderStatusLine("Processing", statusInfo, strconv.Itoa(health.Processing), colorize))
				fmt.Fprintln(out, renderStatusLine("Completed", statusOK, strconv.Itoa(health.Completed), colorize))
				failedKind := statusOK
				if health.Failed > 0 {
					failedKind = statusWarn
				}
				fmt.Fprintln(out, renderStatusLine("Failed", failedKind, strconv.Itoa(health.Failed), colorize))
				return nil
			})
		},
	}
}
