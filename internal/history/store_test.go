package history_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"ripsub/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	first, err := store.Record(ctx, history.Entry{
		MediaID:  "umc.cmc.abc",
		Title:    "Some Movie",
		Scraper:  "appletv",
		Language: "en-US",
		Path:     "/downloads/Some.Movie.2024.iT.WEB.en-US.srt",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("expected assigned ID")
	}
	if first.DownloadAt.IsZero() {
		t.Fatal("expected download timestamp to be set")
	}

	_, err = store.Record(ctx, history.Entry{
		MediaID:    "umc.cmc.abc",
		Title:      "Some Movie",
		Scraper:    "appletv",
		Language:   "fr-FR",
		Special:    "CC",
		Path:       "/downloads/Some.Movie.2024.iT.WEB.fr-FR.cc.srt",
		DownloadAt: time.Now().UTC().Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("Record second: %v", err)
	}

	entries, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Language != "fr-FR" {
		t.Fatalf("expected newest first, got %q", entries[0].Language)
	}

	limited, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List limited: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("got %d entries, want 1", len(limited))
	}
}

func TestSeen(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, err := store.Record(ctx, history.Entry{
		MediaID:  "umc.cmc.xyz",
		Title:    "Show",
		Scraper:  "appletv",
		Language: "en-US",
		Special:  "Forced",
		Path:     "/downloads/show.srt",
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	seen, err := store.Seen(ctx, "umc.cmc.xyz", "en-US", "Forced")
	if err != nil {
		t.Fatalf("Seen: %v", err)
	}
	if !seen {
		t.Fatal("expected recorded entry to be seen")
	}

	seen, err = store.Seen(ctx, "umc.cmc.xyz", "en-US", "")
	if err != nil {
		t.Fatalf("Seen: %v", err)
	}
	if seen {
		t.Fatal("different special type should not be seen")
	}
}
