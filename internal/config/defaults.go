package config

import "ripsub/internal/subtitle"

const (
	defaultDownloadFolder     = "~/Downloads"
	defaultUserAgent          = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/140.0.0.0 Safari/537.36"
	defaultScraperTimeout     = 30
	defaultScraperConcurrency = 4
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultHistoryPath        = "~/.local/share/ripsub/history.db"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Downloads: Downloads{
			Folder: defaultDownloadFolder,
		},
		Subtitles: Subtitles{
			FixRTL:           true,
			RTLLanguages:     append([]string(nil), subtitle.DefaultRTLLanguages...),
			RemoveDuplicates: true,
			ConvertToSRT:     true,
			WebVTT: WebVTT{
				SubRipAlignmentConversion: false,
			},
		},
		Scrapers: Scrapers{
			TimeoutSeconds: defaultScraperTimeout,
			Concurrency:    defaultScraperConcurrency,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
	}
}
