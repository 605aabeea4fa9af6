package subtitle

import (
	"testing"
	"time"
)

func TestMergePreservesOrder(t *testing.T) {
	first := NewDocument(FormatWebVTT, "en")
	first.Append(
		&Caption{Timing: Timestamp{Start: time.Second, End: 2 * time.Second}, Payload: "one"},
		&Comment{Payload: "translator credit", Inline: true},
	)

	second := NewDocument(FormatWebVTT, "fr")
	second.Append(
		&Caption{Timing: Timestamp{Start: 3 * time.Second, End: 4 * time.Second}, Payload: "two"},
		&Style{Payload: "::cue { color: yellow }"},
	)

	first.Merge(second)

	if len(first.Blocks) != 4 {
		t.Fatalf("got %d blocks, want 4", len(first.Blocks))
	}
	if first.Language != "en" {
		t.Fatalf("merge must not adopt the other document's metadata, language = %q", first.Language)
	}
	captions := first.Captions()
	if len(captions) != 2 || captions[0].Payload != "one" || captions[1].Payload != "two" {
		t.Fatalf("unexpected caption order: %+v", captions)
	}
	if _, ok := first.Blocks[3].(*Style); !ok {
		t.Fatalf("trailing block = %T, want *Style", first.Blocks[3])
	}
}

func TestMergeCopiesBlocks(t *testing.T) {
	source := NewDocument(FormatWebVTT, "en")
	caption := &Caption{Timing: Timestamp{Start: time.Second, End: 2 * time.Second}, Payload: "original"}
	source.Append(caption)

	merged := NewDocument(FormatWebVTT, "en")
	merged.Merge(source)

	caption.Payload = "mutated"
	if got := merged.Captions()[0].Payload; got != "original" {
		t.Fatalf("merged caption payload = %q, want an independent copy", got)
	}

	// A nil document is a no-op.
	merged.Merge(nil)
	if len(merged.Blocks) != 1 {
		t.Fatalf("got %d blocks after nil merge, want 1", len(merged.Blocks))
	}
}
