package manifest

import (
	"strings"

	"ripsub/internal/subtitle"
)

// Attribute names a filterable rendition attribute. The set is closed;
// filtering on a name outside it never matches.
type Attribute string

const (
	AttrAssocLanguage     Attribute = "assoc-language"
	AttrAutoSelect        Attribute = "autoselect"
	AttrChannels          Attribute = "channels"
	AttrCharacteristics   Attribute = "characteristics"
	AttrDefault           Attribute = "default"
	AttrForced            Attribute = "forced"
	AttrGroupID           Attribute = "group-id"
	AttrInstreamID        Attribute = "instream-id"
	AttrLanguage          Attribute = "language"
	AttrName              Attribute = "name"
	AttrStableRenditionID Attribute = "stable-rendition-id"
	AttrType              Attribute = "type"
)

const (
	mediaTypeSubtitles   = "SUBTITLES"
	forcedFlagYes        = "YES"
	accessibilityMarker  = "public.accessibility"
	defaultSubtitleGroup = "subtitles_ak"
)

// primarySubtitleGroups lists the group IDs Apple uses for the primary
// subtitle CDN. Other subtitles_* groups carry the same tracks on
// alternate CDNs and are normally skipped.
var primarySubtitleGroups = []string{
	defaultSubtitleGroup,
	"subtitles_vod-ak-amt.tv.apple.com",
}

// Filters maps attribute names to acceptable values. A rendition matches
// when every entry matches one of its listed values case-insensitively.
// An unknown attribute name excludes every rendition.
type Filters map[Attribute][]string

// WithLanguages returns a copy of the filters with the language filter
// replaced. A nil or empty list removes it.
func (f Filters) WithLanguages(languages []string) Filters {
	merged := make(Filters, len(f)+1)
	for key, values := range f {
		merged[key] = values
	}
	if len(languages) > 0 {
		merged[AttrLanguage] = languages
	} else {
		delete(merged, AttrLanguage)
	}
	return merged
}

func (r *Rendition) attributeValue(attr Attribute) (string, bool) {
	switch attr {
	case AttrAssocLanguage:
		return r.AssocLanguage, true
	case AttrAutoSelect:
		return r.AutoSelect, true
	case AttrChannels:
		return r.Channels, true
	case AttrCharacteristics:
		return r.Characteristics, true
	case AttrDefault:
		return r.Default, true
	case AttrForced:
		return r.Forced, true
	case AttrGroupID:
		return r.GroupID, true
	case AttrInstreamID:
		return r.InstreamID, true
	case AttrLanguage:
		return r.Language, true
	case AttrName:
		return r.Name, true
	case AttrStableRenditionID:
		return r.StableRenditionID, true
	case AttrType:
		return r.Type, true
	}
	return "", false
}

func matchesFilters(rendition *Rendition, filters Filters) bool {
	for attr, accepted := range filters {
		value, known := rendition.attributeValue(attr)
		if !known || value == "" {
			return false
		}
		if !matchesAny(attr, value, accepted) {
			return false
		}
	}
	return true
}

func matchesAny(attr Attribute, value string, accepted []string) bool {
	for _, want := range accepted {
		if attr == AttrLanguage {
			if matchesLanguage(value, want) {
				return true
			}
			continue
		}
		if strings.EqualFold(value, want) {
			return true
		}
	}
	return false
}

// matchesLanguage allows a bare language filter ("en") to match any
// regional variant ("en-US"), while a regional filter must match exactly.
func matchesLanguage(value, want string) bool {
	if strings.EqualFold(value, want) {
		return true
	}
	if strings.Contains(want, "-") {
		return false
	}
	base, _, _ := strings.Cut(value, "-")
	return strings.EqualFold(base, want)
}

// SelectSubtitles yields the subtitle renditions of a master playlist that
// satisfy the given filters, in manifest encounter order. An empty result
// means nothing matched; it is not an error.
func SelectSubtitles(master *Master, filters Filters) []Rendition {
	var matched []Rendition
	for i := range master.Renditions {
		rendition := &master.Renditions[i]
		if rendition.Type != mediaTypeSubtitles {
			continue
		}
		if !matchesFilters(rendition, filters) {
			continue
		}
		matched = append(matched, *rendition)
	}
	return matched
}

// Classify maps a subtitle rendition to its special type. Forced wins
// over closed captions when a rendition somehow declares both.
func Classify(rendition *Rendition) subtitle.SpecialType {
	if rendition.Forced == forcedFlagYes {
		return subtitle.SpecialForced
	}
	for _, token := range rendition.CharacteristicTokens() {
		if strings.HasPrefix(token, accessibilityMarker) {
			return subtitle.SpecialClosedCaptions
		}
	}
	return subtitle.SpecialNone
}

// IsPrimaryGroup reports whether a rendition belongs to the primary
// subtitle group rather than an alternate-CDN duplicate.
func IsPrimaryGroup(rendition *Rendition) bool {
	for _, group := range primarySubtitleGroups {
		if rendition.GroupID == group {
			return true
		}
	}
	return false
}
