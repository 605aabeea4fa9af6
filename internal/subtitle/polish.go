package subtitle

import "strings"

// rtlEmbedding is U+202B RIGHT-TO-LEFT EMBEDDING, prepended to every visual
// line of an RTL caption so each line renders right-to-left independently.
const rtlEmbedding = '‫'

// rtlControlChars are the bidirectional control characters stripped before
// re-applying direction marks, which keeps the fix idempotent.
var rtlControlChars = [...]rune{'‎', '‏', '‪', '‫', '‬', '‭', '‮'}

// DefaultRTLLanguages is the built-in set of language codes treated as
// right-to-left when no explicit list is configured.
var DefaultRTLLanguages = []string{"ar", "he"}

// PolishOptions controls the post-parse normalization pass.
type PolishOptions struct {
	FixRTL           bool
	RTLLanguages     []string // nil means DefaultRTLLanguages
	RemoveDuplicates bool
}

// Polish normalizes a parsed document in place: forces RTL text direction on
// caption payloads when the document language is right-to-left, and removes
// blocks that structurally equal their immediate predecessor. Non-adjacent
// duplicates are kept on purpose: streaming segments only duplicate the
// boundary caption between consecutive segments.
func Polish(doc *Document, opts PolishOptions) {
	languages := opts.RTLLanguages
	if languages == nil {
		languages = DefaultRTLLanguages
	}
	fixRTL := opts.FixRTL && isRTLLanguage(doc.Language, languages)

	if !fixRTL && !opts.RemoveDuplicates {
		return
	}

	kept := make([]Block, 0, len(doc.Blocks))
	var prev Block
	for _, block := range doc.Blocks {
		if fixRTL {
			if caption, ok := block.(*Caption); ok {
				caption.Payload = forceRTL(caption.Payload)
			}
		}
		duplicate := opts.RemoveDuplicates && prev != nil && EqualBlocks(block, prev)
		prev = block
		if duplicate {
			continue
		}
		kept = append(kept, block)
	}
	doc.Blocks = kept
}

// forceRTL strips any existing bidirectional control characters and then
// prepends a right-to-left embedding mark to every line of the payload.
func forceRTL(payload string) string {
	var b strings.Builder
	b.Grow(len(payload))
	for _, r := range payload {
		if !isRTLControl(r) {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	return string(rtlEmbedding) + strings.ReplaceAll(cleaned, "\n", "\n"+string(rtlEmbedding))
}

func isRTLControl(r rune) bool {
	for _, c := range rtlControlChars {
		if r == c {
			return true
		}
	}
	return false
}

// isRTLLanguage matches the base subtag of a language code ("ar-SA" matches
// "ar") against the configured RTL set, case-insensitively.
func isRTLLanguage(code string, languages []string) bool {
	base, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(code)), "-")
	if base == "" {
		return false
	}
	for _, lang := range languages {
		if base == strings.ToLower(strings.TrimSpace(lang)) {
			return true
		}
	}
	return false
}
