package subtitle

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedTimestamp reports caption timing text that does not match the
// HH:MM:SS.mmm / HH:MM:SS,mmm grammar.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

const timestampSeparator = " --> "

// Hours are optional on input (WebVTT permits MM:SS.mmm) and may exceed 24;
// minutes and seconds are constrained to 0-59 by the format grammar.
var timecodeRegex = regexp.MustCompile(`^(?:(\d{1,4}):)?([0-5]\d):([0-5]\d)[.,](\d{3})$`)

// Timestamp is a caption's start/end pair. Both sides are offsets from the
// document's zero point with millisecond precision. start <= end is expected
// but not enforced; a violation is a quality issue in the source material,
// not a parse error.
type Timestamp struct {
	Start time.Duration
	End   time.Duration
}

// ParseTimestamp parses a full timing line of the form
// "HH:MM:SS.mmm --> HH:MM:SS.mmm". A comma is accepted in place of the
// millisecond dot on either side.
func ParseTimestamp(text string) (Timestamp, error) {
	start, end, ok := strings.Cut(text, timestampSeparator)
	if !ok {
		return Timestamp{}, fmt.Errorf("%w: missing %q separator in %q", ErrMalformedTimestamp, "-->", text)
	}

	startTime, err := parseTimecode(strings.TrimSpace(start))
	if err != nil {
		return Timestamp{}, err
	}
	endTime, err := parseTimecode(strings.TrimSpace(end))
	if err != nil {
		return Timestamp{}, err
	}

	return Timestamp{Start: startTime, End: endTime}, nil
}

func parseTimecode(text string) (time.Duration, error) {
	match := timecodeRegex.FindStringSubmatch(text)
	if match == nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimestamp, text)
	}

	var hours int
	if match[1] != "" {
		hours, _ = strconv.Atoi(match[1])
	}
	minutes, _ := strconv.Atoi(match[2])
	seconds, _ := strconv.Atoi(match[3])
	millis, _ := strconv.Atoi(match[4])

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, nil
}

// Render formats the timestamp pair as a timing line using the millisecond
// separator mandated by the target format: "." for WebVTT, "," for SubRip.
func (t Timestamp) Render(format Format) string {
	sep := byte('.')
	if format == FormatSubRip {
		sep = ','
	}
	return formatTimecode(t.Start, sep) + timestampSeparator + formatTimecode(t.End, sep)
}

func formatTimecode(d time.Duration, millisSep byte) string {
	millis := d.Milliseconds()
	hours := millis / 3_600_000
	millis -= hours * 3_600_000
	minutes := millis / 60_000
	millis -= minutes * 60_000
	seconds := millis / 1000
	millis -= seconds * 1000

	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, seconds, millisSep, millis)
}
