package scraper

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	appleTVAPIURL = "https://tv.apple.com/api/uts/v3/movies/"
	// iTunes storefront abbreviation used in release names.
	itunesSourceAbbreviation = "iT"
)

var appleTVURLRegex = regexp.MustCompile(
	`(https?://tv\.apple\.com/([a-z]{2})/(movie|show)/(?:[\w\-%]+/)?(umc\.cmc\.[a-z\d]{24,25}))(?:\?.*)?`,
)

// apiRequestParams are the fixed query parameters expected by the Apple
// TV web API; the storefront ID is appended per request.
var apiRequestParams = url.Values{
	"utscf":  {"OjAAAAAAAAA~"},
	"utsk":   {"6e3013c6d6fae3c2::::::235656c069bb0efb"},
	"caller": {"web"},
	"v":      {"58"},
	"pfm":    {"web"},
	"locale": {"en-US"},
}

// AppleTV scrapes tv.apple.com movie and show pages. Apple TV+ exclusive
// content is DRM protected and rejected; iTunes-channel titles resolve to
// an HLS playlist through the store API payload.
type AppleTV struct {
	client *Client
	apiURL string
}

func NewAppleTV(client *Client) *AppleTV {
	return &AppleTV{client: client, apiURL: appleTVAPIURL}
}

func (s *AppleTV) ID() string   { return "appletv" }
func (s *AppleTV) Name() string { return "Apple TV" }

func (s *AppleTV) Match(rawURL string) bool {
	loc := appleTVURLRegex.FindStringIndex(rawURL)
	return loc != nil && loc[0] == 0
}

func (s *AppleTV) Scrape(ctx context.Context, rawURL string) ([]Media, error) {
	match := appleTVURLRegex.FindStringSubmatch(rawURL)
	if match == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoScraper, rawURL)
	}
	countryCode := strings.ToUpper(match[2])
	mediaID := match[4]

	storefront, ok := storefronts[countryCode]
	if !ok {
		return nil, fmt.Errorf("no storefront ID mapping for country %q", countryCode)
	}

	params := url.Values{}
	for key, values := range apiRequestParams {
		params[key] = values
	}
	params.Set("sf", storefront)

	var response apiResponse
	requestURL := s.apiURL + mediaID + "?" + params.Encode()
	if err := s.client.GetJSON(ctx, requestURL, &response); err != nil {
		return nil, err
	}

	return s.mediaFromAPIData(mediaID, &response.Data)
}

func (s *AppleTV) mediaFromAPIData(mediaID string, data *apiData) ([]Media, error) {
	var itunesChannel, appleTVPlusChannel string
	for _, channel := range data.Channels {
		switch {
		case channel.IsAppleTVPlus:
			appleTVPlusChannel = channel.ID
		case channel.IsITunes:
			itunesChannel = channel.ID
		}
	}

	if appleTVPlusChannel != "" {
		mediaType := data.Content.Type
		if mediaType != "Movie" && mediaType != "Show" {
			return nil, fmt.Errorf("%w: media type %q", ErrUnsupportedMedia, mediaType)
		}
		for _, playable := range data.Playables {
			if playable.ChannelID == appleTVPlusChannel {
				return nil, fmt.Errorf("%w: Apple TV+ content is DRM protected", ErrUnsupportedMedia)
			}
		}
	}

	if itunesChannel == "" {
		return nil, fmt.Errorf("%w: no iTunes channel for %q", ErrNoPlaylist, mediaID)
	}

	var results []Media
	for _, playable := range data.Playables {
		if playable.ChannelID != itunesChannel {
			continue
		}
		media := Media{
			ID:          mediaID,
			Title:       firstNonEmpty(playable.Title, data.Content.Title),
			ReleaseYear: releaseYear(data.Content.ReleaseDate),
			Source:      itunesSourceAbbreviation,
			PlaylistURL: playlistURL(&playable),
		}
		if media.PlaylistURL == "" {
			continue
		}
		results = append(results, media)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoPlaylist, mediaID)
	}
	return results, nil
}

func playlistURL(playable *apiPlayable) string {
	if playable.ItunesMediaAPIData == nil {
		return ""
	}
	for _, offer := range playable.ItunesMediaAPIData.Offers {
		if offer.HLSURL != "" {
			return offer.HLSURL
		}
	}
	return ""
}

func releaseYear(releaseDateMillis int64) int {
	if releaseDateMillis <= 0 {
		return 0
	}
	return time.UnixMilli(releaseDateMillis).UTC().Year()
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

type apiResponse struct {
	Data apiData `json:"data"`
}

type apiData struct {
	Content   apiContent             `json:"content"`
	Channels  map[string]apiChannel  `json:"channels"`
	Playables map[string]apiPlayable `json:"playables"`
}

type apiContent struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	ReleaseDate int64  `json:"releaseDate"`
}

type apiChannel struct {
	ID            string `json:"id"`
	IsAppleTVPlus bool   `json:"isAppleTvPlus"`
	IsITunes      bool   `json:"isItunes"`
}

type apiPlayable struct {
	ChannelID          string              `json:"channelId"`
	Title              string              `json:"canonicalTitle"`
	PunchoutURLs       map[string]string   `json:"punchoutUrls"`
	ItunesMediaAPIData *itunesMediaAPIData `json:"itunesMediaApiData"`
}

type itunesMediaAPIData struct {
	Offers []itunesOffer `json:"offers"`
}

type itunesOffer struct {
	Kind   string `json:"kind"`
	HLSURL string `json:"hlsUrl"`
}
