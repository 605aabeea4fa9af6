package subtitle

import (
	"errors"
	"testing"
	"time"
)

func TestToSubRipDropsNonCaptionBlocks(t *testing.T) {
	doc := NewDocument(FormatWebVTT, "en")
	doc.Append(
		&Comment{Payload: "head", Inline: true},
		&Style{Payload: "::cue { }"},
		&Region{Payload: "id:top"},
		&Caption{
			Timing:     Timestamp{Start: time.Second, End: 2 * time.Second},
			Payload:    "Hello",
			Identifier: "cue-1",
			Settings:   "align:start",
		},
	)

	converted := ToSubRip(doc, ConvertOptions{})
	if converted.Format != FormatSubRip {
		t.Errorf("format = %v, want SubRip", converted.Format)
	}
	if len(converted.Blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(converted.Blocks))
	}
	caption := converted.Blocks[0].(*Caption)
	if caption.Identifier != "" || caption.Settings != "" {
		t.Errorf("identifier/settings should be dropped, got %+v", caption)
	}
	if caption.Payload != "Hello" {
		t.Errorf("payload = %q", caption.Payload)
	}
}

func TestToSubRipDeterministic(t *testing.T) {
	doc := NewDocument(FormatWebVTT, "en")
	doc.Append(
		&Caption{Timing: Timestamp{Start: time.Second, End: 2 * time.Second}, Payload: "A", Settings: "line:0.00%"},
		&Caption{Timing: Timestamp{Start: 3 * time.Second, End: 4 * time.Second}, Payload: "B"},
	)

	first := ToSubRip(doc, ConvertOptions{SubRipAlignment: true})
	second := ToSubRip(doc, ConvertOptions{SubRipAlignment: true})
	if len(first.Blocks) != len(second.Blocks) {
		t.Fatalf("block counts differ: %d vs %d", len(first.Blocks), len(second.Blocks))
	}
	for i := range first.Blocks {
		if !EqualBlocks(first.Blocks[i], second.Blocks[i]) {
			t.Errorf("block %d differs between conversions", i)
		}
	}
}

func TestToSubRipAlignmentTag(t *testing.T) {
	tests := []struct {
		name      string
		settings  string
		payload   string
		alignment bool
		want      string
	}{
		{
			name:      "top cue gets tag",
			settings:  "line:0.00% align:center",
			payload:   "Hello",
			alignment: true,
			want:      `{\an8}Hello`,
		},
		{
			name:      "tag goes after leading RTL mark",
			settings:  "line:0.00%",
			payload:   "‫مرحبا",
			alignment: true,
			want:      "‫{\\an8}مرحبا",
		},
		{
			name:      "disabled flag leaves payload alone",
			settings:  "line:0.00%",
			payload:   "Hello",
			alignment: false,
			want:      "Hello",
		},
		{
			name:      "non-top cue untouched",
			settings:  "line:85.00%",
			payload:   "Hello",
			alignment: true,
			want:      "Hello",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := NewDocument(FormatWebVTT, "en")
			doc.Append(&Caption{
				Timing:   Timestamp{Start: time.Second, End: 2 * time.Second},
				Payload:  tt.payload,
				Settings: tt.settings,
			})
			converted := ToSubRip(doc, ConvertOptions{SubRipAlignment: tt.alignment})
			got := converted.Blocks[0].(*Caption).Payload
			if got != tt.want {
				t.Errorf("payload = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConvertEndToEnd(t *testing.T) {
	input := "WEBVTT\n\n00:00:01.000 --> 00:00:02.000 line:0.00%\nHello\n\n"
	doc := mustParseWebVTT(t, input)
	converted := ToSubRip(doc, ConvertOptions{SubRipAlignment: true})
	rendered, err := converted.Render()
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	want := "1\n00:00:01,000 --> 00:00:02,000\n{\\an8}Hello"
	if rendered != want {
		t.Errorf("rendered = %q, want %q", rendered, want)
	}
}

func TestRenderSubRipMultipleCaptions(t *testing.T) {
	doc := NewDocument(FormatSubRip, "en")
	doc.Append(
		&Caption{Timing: Timestamp{Start: time.Second, End: 2 * time.Second}, Payload: "First"},
		&Caption{Timing: Timestamp{Start: 3 * time.Second, End: 4 * time.Second}, Payload: "Second\nline"},
	)
	rendered, err := doc.Render()
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	want := "1\n00:00:01,000 --> 00:00:02,000\nFirst\n\n2\n00:00:03,000 --> 00:00:04,000\nSecond\nline"
	if rendered != want {
		t.Errorf("rendered = %q, want %q", rendered, want)
	}
}

func TestRenderSubRipRejectsNonCaptionBlocks(t *testing.T) {
	doc := NewDocument(FormatSubRip, "en")
	doc.Append(&Comment{Payload: "not representable"})
	if _, err := doc.Render(); !errors.Is(err, ErrUnsupportedConversion) {
		t.Errorf("Render error = %v, want ErrUnsupportedConversion", err)
	}
}

func TestParseSubRipUnsupported(t *testing.T) {
	if _, err := ParseSubRip("1\n00:00:01,000 --> 00:00:02,000\nHello"); !errors.Is(err, ErrUnsupportedConversion) {
		t.Errorf("ParseSubRip error = %v, want ErrUnsupportedConversion", err)
	}
}
