package subtitle

import (
	"strings"
	"unicode/utf8"
)

const (
	// topAlignmentTag is the SubRip override tag for top-of-screen placement.
	topAlignmentTag = `{\an8}`
	// topAlignmentTrigger is the WebVTT cue setting that places a cue at the
	// top of the video, which SubRip can only express with an override tag.
	topAlignmentTrigger = "line:0.00%"
)

// ConvertOptions controls the WebVTT to SubRip conversion.
type ConvertOptions struct {
	// SubRipAlignment translates top-positioned cues into {\an8}-prefixed
	// SubRip captions.
	SubRipAlignment bool
}

// ToSubRip converts a WebVTT document into a SubRip document. Only caption
// blocks carry over; comment, style, and region blocks have no SubRip
// representation and are dropped. Cue identifiers and settings are dropped
// for the same reason. The conversion is total: it cannot fail.
func ToSubRip(doc *Document, opts ConvertOptions) *Document {
	out := NewDocument(FormatSubRip, doc.Language)
	out.Special = doc.Special

	for _, block := range doc.Blocks {
		caption, ok := block.(*Caption)
		if !ok {
			continue
		}
		payload := caption.Payload
		if opts.SubRipAlignment && strings.Contains(caption.Settings, topAlignmentTrigger) {
			payload = insertAlignmentTag(payload)
		}
		out.Append(&Caption{Timing: caption.Timing, Payload: payload})
	}

	return out
}

// insertAlignmentTag prefixes the payload with the top-alignment tag. When
// the payload opens with a directional control character the tag goes after
// it, so the line keeps its forced text direction.
func insertAlignmentTag(payload string) string {
	if r, size := utf8.DecodeRuneInString(payload); isRTLControl(r) {
		return payload[:size] + topAlignmentTag + payload[size:]
	}
	return topAlignmentTag + payload
}
