package main

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"ripsub/internal/config"
	"ripsub/internal/download"
	"ripsub/internal/history"
	"ripsub/internal/logging"
	"ripsub/internal/scraper"
	"ripsub/internal/subtitle"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfig(cfg)
}

func (c *commandContext) client() (*scraper.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	timeout := time.Duration(cfg.Scrapers.TimeoutSeconds) * time.Second
	return scraper.NewClient(cfg.Scrapers.UserAgent, timeout), nil
}

func (c *commandContext) registry() (*scraper.Registry, error) {
	client, err := c.client()
	if err != nil {
		return nil, err
	}
	appletv := scraper.NewAppleTV(client)
	return scraper.NewRegistry(appletv, scraper.NewITunes(client, appletv)), nil
}

// historyStore opens the download history when enabled. A nil store with
// a nil error means history is disabled.
func (c *commandContext) historyStore() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, nil
	}
	return history.Open(cfg.History.Path)
}

func (c *commandContext) downloadOptions() (download.Options, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return download.Options{}, err
	}
	return download.Options{
		Folder:            cfg.Downloads.Folder,
		Languages:         cfg.Downloads.Languages,
		OverwriteExisting: cfg.Downloads.OverwriteExisting,
		Zip:               cfg.Downloads.Zip,
		Polish: subtitle.PolishOptions{
			FixRTL:           cfg.Subtitles.FixRTL,
			RTLLanguages:     cfg.Subtitles.RTLLanguages,
			RemoveDuplicates: cfg.Subtitles.RemoveDuplicates,
		},
		Convert: subtitle.ConvertOptions{
			SubRipAlignment: cfg.Subtitles.WebVTT.SubRipAlignmentConversion,
		},
		ConvertToSRT: cfg.Subtitles.ConvertToSRT,
		Concurrency:  cfg.Scrapers.Concurrency,
	}, nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
