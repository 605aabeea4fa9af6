package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent subtitle downloads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.historyStore()
			if err != nil {
				return err
			}
			if store == nil {
				return fmt.Errorf("history is disabled; enable it in the [history] config section")
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No downloads recorded.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				special := entry.Special
				if special == "" {
					special = "Normal"
				}
				rows = append(rows, []string{
					entry.DownloadAt.Local().Format("2006-01-02 15:04"),
					entry.Title,
					entry.Language,
					special,
					entry.Path,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Date", "Title", "Language", "Type", "Path"},
				rows,
				nil,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show (0 for all)")
	return cmd
}
