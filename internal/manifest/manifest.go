package manifest

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrNotPlaylist = errors.New("not an M3U8 playlist")

const (
	playlistHeader = "#EXTM3U"
	mediaTag       = "#EXT-X-MEDIA:"
	infTag         = "#EXTINF:"
)

// Rendition is one EXT-X-MEDIA entry from a master playlist. Fields hold
// the raw attribute strings as written in the manifest; URI is resolved
// against the playlist location.
type Rendition struct {
	Type              string
	GroupID           string
	Language          string
	AssocLanguage     string
	Name              string
	Forced            string
	Default           string
	AutoSelect        string
	InstreamID        string
	Channels          string
	StableRenditionID string
	Characteristics   string
	URI               string
}

// CharacteristicTokens splits the comma-separated CHARACTERISTICS value.
func (r *Rendition) CharacteristicTokens() []string {
	if r.Characteristics == "" {
		return nil
	}
	parts := strings.Split(r.Characteristics, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tokens = append(tokens, trimmed)
		}
	}
	return tokens
}

// Master holds the renditions of a master playlist in encounter order.
type Master struct {
	Renditions []Rendition
}

// Media holds the segment URIs of a media playlist in encounter order,
// resolved against the playlist location.
type Media struct {
	Segments []string
}

// ParseMaster extracts EXT-X-MEDIA renditions from a master playlist.
// baseURL anchors relative URIs and may be empty.
func ParseMaster(content, baseURL string) (*Master, error) {
	lines, err := playlistLines(content)
	if err != nil {
		return nil, err
	}

	master := &Master{}
	for _, line := range lines {
		if !strings.HasPrefix(line, mediaTag) {
			continue
		}
		attrs, err := parseAttributeList(strings.TrimPrefix(line, mediaTag))
		if err != nil {
			return nil, fmt.Errorf("parse EXT-X-MEDIA: %w", err)
		}
		rendition := Rendition{
			Type:              attrs["TYPE"],
			GroupID:           attrs["GROUP-ID"],
			Language:          attrs["LANGUAGE"],
			AssocLanguage:     attrs["ASSOC-LANGUAGE"],
			Name:              attrs["NAME"],
			Forced:            attrs["FORCED"],
			Default:           attrs["DEFAULT"],
			AutoSelect:        attrs["AUTOSELECT"],
			InstreamID:        attrs["INSTREAM-ID"],
			Channels:          attrs["CHANNELS"],
			StableRenditionID: attrs["STABLE-RENDITION-ID"],
			Characteristics:   attrs["CHARACTERISTICS"],
		}
		if uri := attrs["URI"]; uri != "" {
			rendition.URI = resolveURI(uri, baseURL)
		}
		master.Renditions = append(master.Renditions, rendition)
	}
	return master, nil
}

// ParseMedia extracts segment URIs from a media playlist. Segment order
// follows the playlist; callers must preserve it through download and
// concatenation.
func ParseMedia(content, baseURL string) (*Media, error) {
	lines, err := playlistLines(content)
	if err != nil {
		return nil, err
	}

	media := &Media{}
	expectSegment := false
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, infTag):
			expectSegment = true
		case strings.HasPrefix(line, "#"):
			// Other tags never interrupt an EXTINF/URI pair.
		case expectSegment:
			media.Segments = append(media.Segments, resolveURI(line, baseURL))
			expectSegment = false
		}
	}
	return media, nil
}

func playlistLines(content string) ([]string, error) {
	content = strings.TrimPrefix(content, "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")

	raw := strings.Split(content, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) == 0 || lines[0] != playlistHeader {
		return nil, ErrNotPlaylist
	}
	return lines, nil
}

func resolveURI(uri, baseURL string) string {
	if baseURL == "" {
		return uri
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return uri
	}
	ref, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	return base.ResolveReference(ref).String()
}

// parseAttributeList splits an M3U8 attribute list into key/value pairs.
// Values may be quoted; quoted values can contain commas. Keys are
// uppercased per RFC 8216.
func parseAttributeList(input string) (map[string]string, error) {
	attrs := make(map[string]string)
	rest := input
	for rest != "" {
		eq := strings.IndexByte(rest, '=')
		if eq < 0 {
			return nil, fmt.Errorf("attribute list %q: missing '='", input)
		}
		key := strings.ToUpper(strings.TrimSpace(rest[:eq]))
		if key == "" {
			return nil, fmt.Errorf("attribute list %q: empty attribute name", input)
		}
		rest = rest[eq+1:]

		var value string
		if strings.HasPrefix(rest, `"`) {
			end := strings.IndexByte(rest[1:], '"')
			if end < 0 {
				return nil, fmt.Errorf("attribute list %q: unterminated quote", input)
			}
			value = rest[1 : end+1]
			rest = rest[end+2:]
			rest = strings.TrimPrefix(rest, ",")
		} else {
			if comma := strings.IndexByte(rest, ','); comma >= 0 {
				value = rest[:comma]
				rest = rest[comma+1:]
			} else {
				value = rest
				rest = ""
			}
		}
		attrs[key] = value
	}
	return attrs, nil
}
