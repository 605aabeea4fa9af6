package subtitle

import (
	"errors"
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		start time.Duration
		end   time.Duration
	}{
		{
			name:  "webvtt dot separator",
			input: "00:00:01.000 --> 00:00:02.500",
			start: time.Second,
			end:   2500 * time.Millisecond,
		},
		{
			name:  "subrip comma separator",
			input: "01:02:03,456 --> 01:02:04,789",
			start: time.Hour + 2*time.Minute + 3*time.Second + 456*time.Millisecond,
			end:   time.Hour + 2*time.Minute + 4*time.Second + 789*time.Millisecond,
		},
		{
			name:  "mixed separators",
			input: "00:00:01.000 --> 00:00:02,000",
			start: time.Second,
			end:   2 * time.Second,
		},
		{
			name:  "hours omitted",
			input: "01:30.000 --> 01:31.000",
			start: time.Minute + 30*time.Second,
			end:   time.Minute + 31*time.Second,
		},
		{
			name:  "hours beyond a day",
			input: "25:00:00.000 --> 26:00:00.000",
			start: 25 * time.Hour,
			end:   26 * time.Hour,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, err := ParseTimestamp(tt.input)
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) returned error: %v", tt.input, err)
			}
			if ts.Start != tt.start || ts.End != tt.end {
				t.Errorf("ParseTimestamp(%q) = (%v, %v), want (%v, %v)",
					tt.input, ts.Start, ts.End, tt.start, tt.end)
			}
		})
	}
}

func TestParseTimestampMalformed(t *testing.T) {
	inputs := []string{
		"",
		"00:00:01.000",
		"00:00:01.000 -> 00:00:02.000",
		"00:00:01.000-->00:00:02.000",
		"00:61:01.000 --> 00:00:02.000",
		"00:00:61.000 --> 00:00:02.000",
		"00:00:01.00 --> 00:00:02.000",
		"00:00:01.0000 --> 00:00:02.000",
		"garbage --> 00:00:02.000",
		"00:00:01.000 --> garbage",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			if _, err := ParseTimestamp(input); !errors.Is(err, ErrMalformedTimestamp) {
				t.Errorf("ParseTimestamp(%q) error = %v, want ErrMalformedTimestamp", input, err)
			}
		})
	}
}

func TestTimestampRender(t *testing.T) {
	ts := Timestamp{
		Start: time.Hour + 2*time.Minute + 3*time.Second + 4*time.Millisecond,
		End:   time.Hour + 2*time.Minute + 5*time.Second + 60*time.Millisecond,
	}

	if got := ts.Render(FormatWebVTT); got != "01:02:03.004 --> 01:02:05.060" {
		t.Errorf("WebVTT render = %q", got)
	}
	if got := ts.Render(FormatSubRip); got != "01:02:03,004 --> 01:02:05,060" {
		t.Errorf("SubRip render = %q", got)
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	timestamps := []Timestamp{
		{Start: 0, End: 0},
		{Start: time.Second, End: 2 * time.Second},
		{Start: 59*time.Minute + 59*time.Second + 999*time.Millisecond, End: time.Hour},
		{Start: 25 * time.Hour, End: 26*time.Hour + 30*time.Minute},
		{Start: 123 * time.Millisecond, End: 321 * time.Millisecond},
	}
	for _, want := range timestamps {
		for _, format := range []Format{FormatWebVTT, FormatSubRip} {
			rendered := want.Render(format)
			got, err := ParseTimestamp(rendered)
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) returned error: %v", rendered, err)
			}
			if got != want {
				t.Errorf("round trip via %v: got %+v, want %+v", format, got, want)
			}
		}
	}
}
