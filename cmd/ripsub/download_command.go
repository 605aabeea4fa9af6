package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ripsub/internal/download"
	"ripsub/internal/language"
	"ripsub/internal/scraper"
)

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var languagesFlag []string
	var outputFlag string
	var zipFlag bool
	var overwriteFlag bool
	var noSRTFlag bool

	cmd := &cobra.Command{
		Use:   "download <url>...",
		Short: "Download subtitles for one or more store URLs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := ctx.downloadOptions()
			if err != nil {
				return err
			}
			if len(languagesFlag) > 0 {
				options.Languages = language.NormalizeList(languagesFlag)
			}
			if outputFlag != "" {
				options.Folder = outputFlag
			}
			if cmd.Flags().Changed("zip") {
				options.Zip = zipFlag
			}
			if cmd.Flags().Changed("overwrite") {
				options.OverwriteExisting = overwriteFlag
			}
			if noSRTFlag {
				options.ConvertToSRT = false
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
			store, err := ctx.historyStore()
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			downloader := download.New(client, options, logger, store)

			var failures int
			for _, url := range args {
				if err := runDownload(cmd, registry, downloader, url); err != nil {
					failures++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", url, err)
				}
			}
			if failures > 0 {
				return fmt.Errorf("%d of %d URLs failed", failures, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&languagesFlag, "language", "l", nil, "Language filter (overrides config)")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Download folder (overrides config)")
	cmd.Flags().BoolVar(&zipFlag, "zip", false, "Bundle multiple files into a zip archive")
	cmd.Flags().BoolVar(&overwriteFlag, "overwrite", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&noSRTFlag, "no-srt", false, "Keep WebVTT output instead of converting to SubRip")

	return cmd
}

func runDownload(cmd *cobra.Command, registry *scraper.Registry, downloader *download.Downloader, url string) error {
	found, err := registry.Find(url)
	if err != nil {
		return err
	}

	mediaList, err := found.Scrape(cmd.Context(), url)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, media := range mediaList {
		title := media.Title
		if media.ReleaseYear > 0 {
			title = fmt.Sprintf("%s (%d)", media.Title, media.ReleaseYear)
		}
		printHeading(out, title)

		result, err := downloader.Download(cmd.Context(), media)
		if err != nil {
			return err
		}
		printDownloadSummary(out, result)
	}
	return nil
}

func printDownloadSummary(out io.Writer, result *download.Result) {
	rows := make([][]string, 0, len(result.Tracks))
	for _, track := range result.Tracks {
		status := "ok"
		location := track.Path
		switch {
		case errors.Is(track.Err, download.ErrAlreadySaved):
			status = "skipped"
			location = track.Err.Error()
		case track.Err != nil:
			status = "failed"
			location = track.Err.Error()
		}
		special := track.Track.Special.String()
		if special == "" {
			special = "Normal"
		}
		rows = append(rows, []string{
			language.DisplayName(track.Track.Language),
			track.Track.Language,
			special,
			status,
			fmt.Sprintf("%d", track.Captions),
			location,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Language", "Code", "Type", "Status", "Captions", "Output"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
	fmt.Fprintf(out, "%d of %d tracks downloaded\n", result.Succeeded(), len(result.Tracks))
	if result.ArchivePath != "" {
		fmt.Fprintf(out, "Archive: %s\n", result.ArchivePath)
	}
}
