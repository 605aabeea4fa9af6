package subtitle

import (
	"regexp"
	"strings"
)

// WebVTT cue reference:
// https://www.w3.org/TR/webvtt1/#cues

const (
	webvttHeader  = "WEBVTT"
	commentHeader = "NOTE"
	styleHeader   = "STYLE"
	regionHeader  = "REGION"
)

var captionTimingRegex = regexp.MustCompile(
	`^((?:\d{1,4}:)?[0-5]\d:[0-5]\d[.,]\d{3} --> (?:\d{1,4}:)?[0-5]\d:[0-5]\d[.,]\d{3})[ \t]*(.*)$`)

// ParseWebVTT parses WebVTT text into a document. Parsing is lenient on
// purpose: the WEBVTT header is not required and unrecognized top-level
// content is skipped, because upstream segment sources are not reliably
// conformant. Do not tighten this without a compatibility review.
func ParseWebVTT(data string) (*Document, error) {
	doc := NewDocument(FormatWebVTT, "")

	data = strings.TrimPrefix(data, "\ufeff")
	data = strings.ReplaceAll(data, "\r\n", "\n")
	lines := strings.Split(data, "\n")

	// prev holds the most recent unconsumed line; a non-blank prev becomes
	// the identifier of the next caption.
	prev := ""
	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if match := captionTimingRegex.FindStringSubmatch(line); match != nil {
			timing, err := ParseTimestamp(match[1])
			if err != nil {
				return nil, err
			}
			payload, next := collectPayload(lines, i+1)
			doc.Append(&Caption{
				Timing:     timing,
				Payload:    payload,
				Identifier: prev,
				Settings:   strings.TrimSpace(match[2]),
			})
			i, prev = next, ""
			continue
		}

		if payload, inline, ok := matchCommentHeader(line); ok {
			rest, next := collectPayload(lines, i+1)
			if rest != "" {
				if payload != "" {
					payload += "\n" + rest
				} else {
					payload = rest
				}
			}
			doc.Append(&Comment{Payload: payload, Inline: inline})
			i, prev = next, ""
			continue
		}

		switch strings.TrimRight(line, " \t") {
		case regionHeader:
			payload, next := collectPayload(lines, i+1)
			doc.Append(&Region{Payload: payload})
			i, prev = next, ""
		case styleHeader:
			payload, next := collectPayload(lines, i+1)
			doc.Append(&Style{Payload: payload})
			i, prev = next, ""
		default:
			if isWebVTTHeader(line) {
				prev = ""
			} else {
				prev = line
			}
		}
	}

	return doc, nil
}

// collectPayload gathers consecutive non-blank lines starting at start and
// returns them newline-joined, along with the index of the terminating blank
// line (or the last line at end of input).
func collectPayload(lines []string, start int) (string, int) {
	i := start
	for ; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			break
		}
	}
	if i == len(lines) {
		return strings.Join(lines[start:], "\n"), i - 1
	}
	return strings.Join(lines[start:i], "\n"), i
}

// matchCommentHeader recognizes the NOTE header line. The inline form
// ("NOTE some text") captures the remainder of the line as payload.
func matchCommentHeader(line string) (payload string, inline, ok bool) {
	if strings.TrimRight(line, " \t") == commentHeader {
		return "", false, true
	}
	if strings.HasPrefix(line, commentHeader+" ") || strings.HasPrefix(line, commentHeader+"\t") {
		remainder := strings.TrimSpace(line[len(commentHeader):])
		return remainder, remainder != "", true
	}
	return "", false, false
}

func isWebVTTHeader(line string) bool {
	trimmed := strings.TrimRight(line, " \t")
	return trimmed == webvttHeader ||
		strings.HasPrefix(trimmed, webvttHeader+" ") ||
		strings.HasPrefix(trimmed, webvttHeader+"\t")
}
