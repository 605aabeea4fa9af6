package scraper

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNoScraper indicates no registered scraper recognizes a URL.
	ErrNoScraper = errors.New("no scraper matches URL")
	// ErrNoPlaylist indicates the media exists but exposes no subtitle playlist.
	ErrNoPlaylist = errors.New("no playlist found")
	// ErrUnsupportedMedia indicates the media type cannot be scraped.
	ErrUnsupportedMedia = errors.New("unsupported media")
)

// Media is one scraped title together with its master playlist location.
type Media struct {
	ID          string
	Title       string
	ReleaseYear int
	// Source is the store abbreviation used in file names, e.g. "iT".
	Source      string
	PlaylistURL string
}

// Scraper locates media metadata and playlists for one streaming site.
type Scraper interface {
	// ID is a stable machine name, e.g. "appletv".
	ID() string
	// Name is the human-readable site name.
	Name() string
	// Match reports whether the scraper recognizes the URL.
	Match(url string) bool
	// Scrape resolves a URL to one or more media entries.
	Scrape(ctx context.Context, url string) ([]Media, error)
}

// Registry routes URLs to registered scrapers in registration order.
type Registry struct {
	scrapers []Scraper
}

func NewRegistry(scrapers ...Scraper) *Registry {
	return &Registry{scrapers: scrapers}
}

func (r *Registry) Register(s Scraper) {
	r.scrapers = append(r.scrapers, s)
}

// Find returns the first scraper that claims the URL.
func (r *Registry) Find(url string) (Scraper, error) {
	for _, s := range r.scrapers {
		if s.Match(url) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoScraper, url)
}

// Scrapers returns the registered scrapers in registration order.
func (r *Registry) Scrapers() []Scraper {
	return append([]Scraper(nil), r.scrapers...)
}
