package config

import (
	"fmt"
	"os"
	"strings"

	"ripsub/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizeDownloads(); err != nil {
		return err
	}
	c.normalizeSubtitles()
	c.normalizeScrapers()
	c.normalizeLogging()
	return c.normalizeHistory()
}

func (c *Config) normalizeDownloads() error {
	if strings.TrimSpace(c.Downloads.Folder) == "" {
		c.Downloads.Folder = defaultDownloadFolder
	}
	var err error
	if c.Downloads.Folder, err = expandPath(c.Downloads.Folder); err != nil {
		return fmt.Errorf("downloads.folder: %w", err)
	}
	c.Downloads.Languages = language.NormalizeList(c.Downloads.Languages)
	return nil
}

func (c *Config) normalizeSubtitles() {
	c.Subtitles.RTLLanguages = language.NormalizeList(c.Subtitles.RTLLanguages)
}

func (c *Config) normalizeScrapers() {
	c.Scrapers.UserAgent = strings.TrimSpace(c.Scrapers.UserAgent)
	if c.Scrapers.UserAgent == "" {
		if value, ok := os.LookupEnv("RIPSUB_USER_AGENT"); ok {
			c.Scrapers.UserAgent = strings.TrimSpace(value)
		}
	}
	if c.Scrapers.UserAgent == "" {
		c.Scrapers.UserAgent = defaultUserAgent
	}
	if c.Scrapers.TimeoutSeconds == 0 {
		c.Scrapers.TimeoutSeconds = defaultScraperTimeout
	}
	if c.Scrapers.Concurrency == 0 {
		c.Scrapers.Concurrency = defaultScraperConcurrency
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeHistory() error {
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	var err error
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}
