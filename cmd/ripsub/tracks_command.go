package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ripsub/internal/download"
	"ripsub/internal/language"
)

func newTracksCommand(ctx *commandContext) *cobra.Command {
	var allLanguages bool

	cmd := &cobra.Command{
		Use:   "tracks <url>",
		Short: "List available subtitle tracks without downloading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := ctx.downloadOptions()
			if err != nil {
				return err
			}
			if allLanguages {
				options.Languages = nil
			}

			registry, err := ctx.registry()
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			found, err := registry.Find(args[0])
			if err != nil {
				return err
			}
			mediaList, err := found.Scrape(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			downloader := download.New(client, options, logger, nil)
			out := cmd.OutOrStdout()
			for _, media := range mediaList {
				tracks, err := downloader.Tracks(cmd.Context(), media)
				if err != nil {
					return err
				}

				title := media.Title
				if media.ReleaseYear > 0 {
					title = fmt.Sprintf("%s (%d)", media.Title, media.ReleaseYear)
				}
				printHeading(out, title)

				if len(tracks) == 0 {
					fmt.Fprintln(out, "No matching subtitle tracks.")
					continue
				}

				rows := make([][]string, 0, len(tracks))
				for _, track := range tracks {
					special := track.Special.String()
					if special == "" {
						special = "Normal"
					}
					rows = append(rows, []string{
						language.DisplayName(track.Language),
						track.Language,
						track.Name,
						special,
						track.Rendition.GroupID,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Language", "Code", "Name", "Type", "Group"},
					rows,
					nil,
				))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&allLanguages, "all", "a", false, "Ignore the configured language filter")
	return cmd
}
