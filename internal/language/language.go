package language

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type entry struct {
	code2   string   // ISO 639-1 (2-letter)
	code3   string   // ISO 639-2 primary (3-letter)
	alt3    string   // ISO 639-2 alternate (e.g. "fre" vs "fra")
	display string   // Human-readable name
	words   []string // Full word forms (e.g. "english")
}

var languages = []entry{
	{"en", "eng", "", "English", []string{"english"}},
	{"es", "spa", "", "Spanish", []string{"spanish"}},
	{"fr", "fra", "fre", "French", []string{"french"}},
	{"de", "deu", "ger", "German", []string{"german"}},
	{"it", "ita", "", "Italian", []string{"italian"}},
	{"pt", "por", "", "Portuguese", []string{"portuguese"}},
	{"ja", "jpn", "", "Japanese", []string{"japanese"}},
	{"ko", "kor", "", "Korean", []string{"korean"}},
	{"zh", "zho", "chi", "Chinese", []string{"chinese"}},
	{"ru", "rus", "", "Russian", []string{"russian"}},
	{"ar", "ara", "", "Arabic", []string{"arabic"}},
	{"he", "heb", "", "Hebrew", []string{"hebrew"}},
	{"hi", "hin", "", "Hindi", []string{"hindi"}},
	{"nl", "nld", "dut", "Dutch", []string{"dutch"}},
	{"pl", "pol", "", "Polish", []string{"polish"}},
	{"sv", "swe", "", "Swedish", []string{"swedish"}},
	{"da", "dan", "", "Danish", []string{"danish"}},
	{"no", "nor", "", "Norwegian", []string{"norwegian"}},
	{"fi", "fin", "", "Finnish", []string{"finnish"}},
	{"tr", "tur", "", "Turkish", []string{"turkish"}},
	{"fa", "fas", "per", "Persian", []string{"persian", "farsi"}},
	{"th", "tha", "", "Thai", []string{"thai"}},
	{"cs", "ces", "cze", "Czech", []string{"czech"}},
	{"el", "ell", "gre", "Greek", []string{"greek"}},
	{"uk", "ukr", "", "Ukrainian", []string{"ukrainian"}},
	{"vi", "vie", "", "Vietnamese", []string{"vietnamese"}},
	{"id", "ind", "", "Indonesian", []string{"indonesian"}},
	{"ms", "msa", "may", "Malay", []string{"malay"}},
	{"hu", "hun", "", "Hungarian", []string{"hungarian"}},
	{"ro", "ron", "rum", "Romanian", []string{"romanian"}},
}

var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry

	titleCaser = cases.Title(language.Und)
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	return nil
}

// Base strips a region subtag: "en-US" becomes "en". Input casing is
// normalized to lowercase.
func Base(code string) string {
	base, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(code)), "-")
	return base
}

// ToISO2 converts any recognized language code or word to ISO 639-1.
// Unrecognized 2-letter codes pass through; anything else returns "".
func ToISO2(code string) string {
	base := Base(code)
	if base == "" {
		return ""
	}
	if e := lookup(base); e != nil {
		return e.code2
	}
	if len(base) == 2 {
		return base
	}
	return ""
}

// DisplayName returns a human-readable name for a language code. Regional
// variants keep their region: "pt-BR" renders as "Portuguese (BR)".
// Unrecognized codes are title-cased.
func DisplayName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return "Unknown"
	}
	base, region, hasRegion := strings.Cut(code, "-")
	name := ""
	if e := lookup(base); e != nil {
		name = e.display
	} else {
		name = titleCaser.String(strings.ToLower(base))
	}
	if hasRegion && region != "" {
		return name + " (" + strings.ToUpper(region) + ")"
	}
	return name
}

// Matches reports whether a rendition language tag satisfies a user filter
// value. A bare filter ("en") matches any regional variant ("en-US"); a
// regional filter must match exactly. Word forms and 3-letter codes in the
// filter are normalized first.
func Matches(renditionTag, filter string) bool {
	tag := strings.ToLower(strings.TrimSpace(renditionTag))
	want := strings.ToLower(strings.TrimSpace(filter))
	if tag == "" || want == "" {
		return false
	}
	if tag == want {
		return true
	}
	if !strings.Contains(want, "-") {
		normalized := ToISO2(want)
		if normalized == "" {
			normalized = want
		}
		return Base(tag) == normalized
	}
	return false
}

// NormalizeList deduplicates and normalizes a list of language filter values
// to ISO 639-1 where possible, preserving order and regional subtags.
func NormalizeList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	normalized := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		trimmed := strings.ToLower(strings.TrimSpace(value))
		if trimmed == "" {
			continue
		}
		if !strings.Contains(trimmed, "-") {
			if mapped := ToISO2(trimmed); mapped != "" {
				trimmed = mapped
			}
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		normalized = append(normalized, trimmed)
	}
	return normalized
}
