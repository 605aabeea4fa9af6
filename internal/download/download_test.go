package download

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ripsub/internal/history"
	"ripsub/internal/logging"
	"ripsub/internal/scraper"
	"ripsub/internal/subtitle"
)

func TestFetchSegmentsPreservesOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Delay the first segment so completion order differs from
		// request order.
		if strings.HasSuffix(r.URL.Path, "/0") {
			time.Sleep(50 * time.Millisecond)
		}
		fmt.Fprintf(w, "body-%s", filepath.Base(r.URL.Path))
	}))
	defer server.Close()

	urls := make([]string, 6)
	for i := range urls {
		urls[i] = fmt.Sprintf("%s/seg/%d", server.URL, i)
	}

	client := scraper.NewClient("test", 5*time.Second)
	bodies, err := fetchSegments(context.Background(), client, urls, 4)
	if err != nil {
		t.Fatalf("fetchSegments: %v", err)
	}
	for i, body := range bodies {
		if want := fmt.Sprintf("body-%d", i); body != want {
			t.Errorf("segment %d = %q, want %q", i, body, want)
		}
	}
}

func TestFetchSegmentsPropagatesFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/2") {
			http.Error(w, "gone", http.StatusNotFound)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	urls := make([]string, 4)
	for i := range urls {
		urls[i] = fmt.Sprintf("%s/seg/%d", server.URL, i)
	}

	client := scraper.NewClient("test", 5*time.Second)
	if _, err := fetchSegments(context.Background(), client, urls, 2); err == nil {
		t.Fatal("expected error from failing segment")
	}
}

func TestFetchSegmentsNeverReportsPartialSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "body-%s", filepath.Base(r.URL.Path))
	}))
	defer server.Close()

	urls := []string{server.URL + "/seg/0", server.URL + "/seg/1"}
	client := scraper.NewClient("test", 5*time.Second)

	// Sweep cancellation moments around the first response so the feed
	// loop sometimes stops before handing out the second segment. Whatever
	// the interleaving, a nil error must mean every body arrived.
	for run := 0; run < 300; run++ {
		run := run
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(time.Duration(run%6) * time.Microsecond)
			cancel()
		}()
		bodies, err := fetchSegments(ctx, client, urls, 1)
		cancel()
		if err != nil {
			continue
		}
		for i, body := range bodies {
			if body == "" {
				t.Fatalf("run %d: nil error but segment %d is empty", run, i)
			}
		}
	}
}

func TestConcatSegmentsStripsRepeatedHeaders(t *testing.T) {
	first := "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nOne\n"
	second := "WEBVTT\n\n00:00:03.000 --> 00:00:04.000\nTwo\n"

	doc, err := subtitle.ParseWebVTT(concatSegments([]string{first, second}))
	if err != nil {
		t.Fatalf("ParseWebVTT: %v", err)
	}
	captions := doc.Captions()
	if len(captions) != 2 {
		t.Fatalf("got %d captions, want 2", len(captions))
	}
	if captions[0].Payload != "One" || captions[1].Payload != "Two" {
		t.Fatalf("unexpected payloads: %q, %q", captions[0].Payload, captions[1].Payload)
	}
}

func TestStripHeaderKeepsCues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "header with metadata",
			body: "WEBVTT X-TIMESTAMP-MAP=MPEGTS:0\n\n00:00:01.000 --> 00:00:02.000\nOne",
			want: "00:00:01.000 --> 00:00:02.000\nOne",
		},
		{
			name: "no blank line after header",
			body: "WEBVTT\n00:00:01.000 --> 00:00:02.000\nOne\n\n00:00:03.000 --> 00:00:04.000\nTwo",
			want: "00:00:01.000 --> 00:00:02.000\nOne\n\n00:00:03.000 --> 00:00:04.000\nTwo",
		},
		{
			name: "crlf header",
			body: "WEBVTT\r\n\r\n00:00:01.000 --> 00:00:02.000\r\nOne",
			want: "00:00:01.000 --> 00:00:02.000\r\nOne",
		},
		{
			name: "no header",
			body: "00:00:01.000 --> 00:00:02.000\nOne",
			want: "00:00:01.000 --> 00:00:02.000\nOne",
		},
		{
			name: "header-like identifier",
			body: "WEBVTTX\n00:00:01.000 --> 00:00:02.000\nOne",
			want: "WEBVTTX\n00:00:01.000 --> 00:00:02.000\nOne",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripHeader(tt.body); got != tt.want {
				t.Errorf("stripHeader(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

// fakeCDN serves a master playlist with English, English forced, and
// Arabic tracks plus their media playlists and WebVTT segments.
func fakeCDN(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/main.m3u8", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "#EXTM3U\n"+
			`#EXT-X-MEDIA:TYPE=SUBTITLES,GROUP-ID="subtitles_ak",LANGUAGE="en-US",NAME="English",URI="en/prog.m3u8"`+"\n"+
			`#EXT-X-MEDIA:TYPE=SUBTITLES,GROUP-ID="subtitles_ak",LANGUAGE="en-US",NAME="English (Forced)",FORCED=YES,URI="en-forced/prog.m3u8"`+"\n"+
			`#EXT-X-MEDIA:TYPE=SUBTITLES,GROUP-ID="subtitles_ak",LANGUAGE="ar",NAME="Arabic",URI="ar/prog.m3u8"`+"\n"+
			`#EXT-X-MEDIA:TYPE=SUBTITLES,GROUP-ID="subtitles_ap3",LANGUAGE="en-US",NAME="English",URI="alt/prog.m3u8"`+"\n")
	})
	media := func(lang string) string {
		return "#EXTM3U\n#EXTINF:60.0,\n" + lang + "/seg0.webvtt\n#EXTINF:60.0,\n" + lang + "/seg1.webvtt\n"
	}
	mux.HandleFunc("/en/prog.m3u8", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, media("/en"))
	})
	mux.HandleFunc("/en-forced/prog.m3u8", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, media("/en-forced"))
	})
	mux.HandleFunc("/ar/prog.m3u8", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, media("/ar"))
	})
	segment := func(text string, index int) string {
		return fmt.Sprintf("WEBVTT\n\n00:00:0%d.000 --> 00:00:0%d.000\n%s %d\n", index+1, index+2, text, index)
	}
	for _, lang := range []string{"en", "en-forced"} {
		lang := lang
		for i := 0; i < 2; i++ {
			i := i
			mux.HandleFunc(fmt.Sprintf("/%s/seg%d.webvtt", lang, i), func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, segment("Hello", i))
			})
		}
	}
	for i := 0; i < 2; i++ {
		i := i
		mux.HandleFunc(fmt.Sprintf("/ar/seg%d.webvtt", i), func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, segment("مرحبا", i))
		})
	}

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testMedia(server *httptest.Server) scraper.Media {
	return scraper.Media{
		ID:          "umc.cmc.test",
		Title:       "Some Movie",
		ReleaseYear: 2024,
		Source:      "iT",
		PlaylistURL: server.URL + "/main.m3u8",
	}
}

func TestTracksAppliesLanguageFilterAndPrimaryGroup(t *testing.T) {
	server := fakeCDN(t)
	client := scraper.NewClient("test", 5*time.Second)

	d := New(client, Options{Languages: []string{"en"}}, logging.NewNop(), nil)
	tracks, err := d.Tracks(context.Background(), testMedia(server))
	if err != nil {
		t.Fatalf("Tracks: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(tracks))
	}
	if tracks[0].Special != subtitle.SpecialNone || tracks[1].Special != subtitle.SpecialForced {
		t.Fatalf("unexpected classifications: %v, %v", tracks[0].Special, tracks[1].Special)
	}
	for _, track := range tracks {
		if track.Rendition.GroupID != "subtitles_ak" {
			t.Errorf("alternate CDN group leaked through: %q", track.Rendition.GroupID)
		}
	}
}

func TestDownloadWritesConvertedFiles(t *testing.T) {
	server := fakeCDN(t)
	client := scraper.NewClient("test", 5*time.Second)
	folder := t.TempDir()

	d := New(client, Options{
		Folder:       folder,
		Languages:    []string{"en"},
		ConvertToSRT: true,
		Polish:       subtitle.PolishOptions{RemoveDuplicates: true},
		Concurrency:  2,
	}, logging.NewNop(), nil)

	result, err := d.Download(context.Background(), testMedia(server))
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if result.Succeeded() != 2 {
		t.Fatalf("succeeded = %d, want 2", result.Succeeded())
	}

	normalPath := filepath.Join(folder, "Some.Movie.2024.iT.WEB.en-US.srt")
	forcedPath := filepath.Join(folder, "Some.Movie.2024.iT.WEB.en-US.forced.srt")
	for _, path := range []string{normalPath, forcedPath} {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("expected output file %q: %v", path, err)
		}
		content := string(data)
		if !strings.Contains(content, "00:00:01,000 --> 00:00:02,000") {
			t.Errorf("file %q lacks SubRip timestamps:\n%s", path, content)
		}
		if !strings.HasPrefix(content, "1\n") {
			t.Errorf("file %q does not start with a SubRip index:\n%s", path, content)
		}
	}
}

func TestDownloadAppliesRTLFix(t *testing.T) {
	server := fakeCDN(t)
	client := scraper.NewClient("test", 5*time.Second)
	folder := t.TempDir()

	d := New(client, Options{
		Folder:    folder,
		Languages: []string{"ar"},
		Polish:    subtitle.PolishOptions{FixRTL: true},
	}, logging.NewNop(), nil)

	result, err := d.Download(context.Background(), testMedia(server))
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if result.Succeeded() != 1 {
		t.Fatalf("succeeded = %d, want 1", result.Succeeded())
	}

	data, err := os.ReadFile(result.Tracks[0].Path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "‫مرحبا") {
		t.Fatalf("RTL embedding mark missing:\n%q", data)
	}
}

func TestDownloadZipsMultipleFiles(t *testing.T) {
	server := fakeCDN(t)
	client := scraper.NewClient("test", 5*time.Second)
	folder := t.TempDir()

	d := New(client, Options{
		Folder:    folder,
		Languages: []string{"en"},
		Zip:       true,
	}, logging.NewNop(), nil)

	result, err := d.Download(context.Background(), testMedia(server))
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if result.ArchivePath == "" {
		t.Fatal("expected an archive path")
	}
	if filepath.Ext(result.ArchivePath) != ".zip" {
		t.Fatalf("archive path = %q", result.ArchivePath)
	}
	if _, err := os.Stat(result.ArchivePath); err != nil {
		t.Fatalf("archive missing: %v", err)
	}
	entries, err := os.ReadDir(folder)
	if err != nil {
		t.Fatal(err)
	}
	var visible []string
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), ".") {
			visible = append(visible, entry.Name())
		}
	}
	if len(visible) != 1 {
		t.Fatalf("expected only the archive in the folder, found %v", visible)
	}
}

func TestDownloadRecordsHistory(t *testing.T) {
	server := fakeCDN(t)
	client := scraper.NewClient("test", 5*time.Second)
	folder := t.TempDir()

	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer store.Close()

	d := New(client, Options{Folder: folder, Languages: []string{"ar"}}, logging.NewNop(), store)
	if _, err := d.Download(context.Background(), testMedia(server)); err != nil {
		t.Fatalf("Download: %v", err)
	}

	entries, err := store.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d history entries, want 1", len(entries))
	}
	if entries[0].MediaID != "umc.cmc.test" || entries[0].Language != "ar" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}

func TestDownloadSkipsRecordedTracks(t *testing.T) {
	server := fakeCDN(t)
	client := scraper.NewClient("test", 5*time.Second)
	folder := t.TempDir()

	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer store.Close()

	d := New(client, Options{Folder: folder, Languages: []string{"ar"}}, logging.NewNop(), store)
	if _, err := d.Download(context.Background(), testMedia(server)); err != nil {
		t.Fatalf("first Download: %v", err)
	}

	result, err := d.Download(context.Background(), testMedia(server))
	if err != nil {
		t.Fatalf("second Download: %v", err)
	}
	if result.Succeeded() != 0 {
		t.Fatalf("succeeded = %d, want 0", result.Succeeded())
	}
	if !errors.Is(result.Tracks[0].Err, ErrAlreadySaved) {
		t.Fatalf("track error = %v, want ErrAlreadySaved", result.Tracks[0].Err)
	}

	// Overwriting runs ignore history.
	overwrite := New(client, Options{
		Folder:            folder,
		Languages:         []string{"ar"},
		OverwriteExisting: true,
	}, logging.NewNop(), store)
	result, err = overwrite.Download(context.Background(), testMedia(server))
	if err != nil {
		t.Fatalf("overwrite Download: %v", err)
	}
	if result.Succeeded() != 1 {
		t.Fatalf("overwrite succeeded = %d, want 1", result.Succeeded())
	}
}

func TestDownloadNoMatchingTracks(t *testing.T) {
	server := fakeCDN(t)
	client := scraper.NewClient("test", 5*time.Second)

	d := New(client, Options{Folder: t.TempDir(), Languages: []string{"ja"}}, logging.NewNop(), nil)
	_, err := d.Download(context.Background(), testMedia(server))
	if err == nil {
		t.Fatal("expected error for unmatched language filter")
	}
}
