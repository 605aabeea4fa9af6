package scraper

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
)

var itunesURLRegex = regexp.MustCompile(
	`(https?://itunes\.apple\.com/(?:[a-z]{2}/)?(?:movie|tv-show|tv-season|show)/(?:[\w\-%]+/)?id\d{9,10})(?:\?.*)?`,
)

// ITunes scrapes itunes.apple.com store pages. The store responds with a
// permanent redirect to the matching tv.apple.com page, which carries the
// playlist data; scraping is delegated to the Apple TV scraper from there.
type ITunes struct {
	client  *Client
	appletv *AppleTV
}

func NewITunes(client *Client, appletv *AppleTV) *ITunes {
	return &ITunes{client: client, appletv: appletv}
}

func (s *ITunes) ID() string   { return "itunes" }
func (s *ITunes) Name() string { return "iTunes" }

func (s *ITunes) Match(rawURL string) bool {
	loc := itunesURLRegex.FindStringIndex(rawURL)
	return loc != nil && loc[0] == 0
}

func (s *ITunes) Scrape(ctx context.Context, rawURL string) ([]Media, error) {
	match := itunesURLRegex.FindStringSubmatch(rawURL)
	if match == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoScraper, rawURL)
	}
	return s.scrapeStoreURL(ctx, match[1])
}

func (s *ITunes) scrapeStoreURL(ctx context.Context, rawURL string) ([]Media, error) {
	resp, err := s.client.GetNoRedirect(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	location := resp.Header.Get("Location")
	if resp.StatusCode != http.StatusMovedPermanently || location == "" {
		return nil, fmt.Errorf("iTunes URL %q did not redirect to an Apple TV URL (status %s)", rawURL, resp.Status)
	}
	if !s.appletv.Match(location) {
		return nil, fmt.Errorf("iTunes redirect target %q is not a valid Apple TV URL", location)
	}

	return s.appletv.Scrape(ctx, location)
}
