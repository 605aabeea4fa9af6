package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"ripsub/internal/fileutil"
	"ripsub/internal/history"
	"ripsub/internal/logging"
	"ripsub/internal/manifest"
	"ripsub/internal/scraper"
	"ripsub/internal/subtitle"
)

// ErrNoTracks indicates that a playlist carries no subtitle rendition
// matching the configured filters.
var ErrNoTracks = errors.New("no matching subtitle tracks")

// ErrAlreadySaved marks a track skipped because history already records a
// download for the same title, language, and type.
var ErrAlreadySaved = errors.New("already downloaded")

// Options configures a Downloader run.
type Options struct {
	// Folder receives the finished subtitle files.
	Folder string
	// Languages filters tracks; empty downloads every language.
	Languages []string
	// OverwriteExisting replaces files instead of suffixing them.
	OverwriteExisting bool
	// Zip bundles multi-file results into one archive.
	Zip bool

	Polish  subtitle.PolishOptions
	Convert subtitle.ConvertOptions
	// ConvertToSRT emits SubRip instead of WebVTT.
	ConvertToSRT bool

	// Concurrency bounds parallel segment fetches per track.
	Concurrency int
}

// Track is one selectable subtitle rendition of a scraped title.
type Track struct {
	Rendition manifest.Rendition
	Language  string
	Name      string
	Special   subtitle.SpecialType
}

// TrackResult is the outcome of one track pipeline.
type TrackResult struct {
	Track    Track
	Path     string
	Captions int
	Err      error
}

// Result summarizes one Download run.
type Result struct {
	Media       scraper.Media
	SessionID   string
	Tracks      []TrackResult
	ArchivePath string
}

// Succeeded counts tracks that produced a file.
func (r *Result) Succeeded() int {
	count := 0
	for _, track := range r.Tracks {
		if track.Err == nil {
			count++
		}
	}
	return count
}

// Downloader runs subtitle track pipelines for scraped media.
type Downloader struct {
	client  *scraper.Client
	options Options
	logger  *slog.Logger
	store   *history.Store
}

// New builds a Downloader. store may be nil to disable history recording.
func New(client *scraper.Client, options Options, logger *slog.Logger, store *history.Store) *Downloader {
	return &Downloader{
		client:  client,
		options: options,
		logger:  logging.NewComponentLogger(logger, "downloader"),
		store:   store,
	}
}

// Tracks lists the subtitle tracks of a title that pass the language
// filter, in manifest order.
func (d *Downloader) Tracks(ctx context.Context, media scraper.Media) ([]Track, error) {
	if media.PlaylistURL == "" {
		return nil, fmt.Errorf("%w: media %q has no playlist", ErrNoTracks, media.Title)
	}

	body, err := d.client.GetText(ctx, media.PlaylistURL)
	if err != nil {
		return nil, err
	}
	master, err := manifest.ParseMaster(body, media.PlaylistURL)
	if err != nil {
		return nil, fmt.Errorf("parse master playlist: %w", err)
	}

	filters := manifest.Filters{}.WithLanguages(d.options.Languages)
	renditions := manifest.SelectSubtitles(master, filters)

	tracks := make([]Track, 0, len(renditions))
	seenAlternate := false
	for _, rendition := range renditions {
		if !manifest.IsPrimaryGroup(&rendition) {
			seenAlternate = true
			continue
		}
		tracks = append(tracks, Track{
			Rendition: rendition,
			Language:  rendition.Language,
			Name:      rendition.Name,
			Special:   manifest.Classify(&rendition),
		})
	}
	if len(tracks) == 0 && seenAlternate {
		// Some manifests only expose alternate-CDN groups.
		for _, rendition := range renditions {
			tracks = append(tracks, Track{
				Rendition: rendition,
				Language:  rendition.Language,
				Name:      rendition.Name,
				Special:   manifest.Classify(&rendition),
			})
		}
	}
	return tracks, nil
}

// Download runs the full pipeline for every matching track of media and
// writes the results to the configured folder.
func (d *Downloader) Download(ctx context.Context, media scraper.Media) (*Result, error) {
	tracks, err := d.Tracks(ctx, media)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoTracks, media.Title)
	}

	if err := os.MkdirAll(d.options.Folder, 0o755); err != nil {
		return nil, fmt.Errorf("create download folder: %w", err)
	}

	folderLock := flock.New(filepath.Join(d.options.Folder, ".ripsub.lock"))
	locked, err := folderLock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire download folder lock: %w", err)
	}
	if !locked {
		return nil, errors.New("another ripsub instance is downloading to this folder")
	}
	defer folderLock.Unlock()

	result := &Result{Media: media, SessionID: uuid.NewString()}
	logger := d.logger.With(
		logging.String("session", result.SessionID),
		logging.String("title", media.Title),
	)

	sessionDir := filepath.Join(d.options.Folder, ".ripsub-"+result.SessionID)
	if err := os.MkdirAll(sessionDir, 0o755); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}
	defer os.RemoveAll(sessionDir)

	for _, track := range tracks {
		trackResult := TrackResult{Track: track}
		if d.seen(ctx, media, track) {
			trackResult.Err = ErrAlreadySaved
			logger.Info("track already downloaded, skipping",
				logging.String("language", track.Language),
				logging.String("special", track.Special.String()))
			result.Tracks = append(result.Tracks, trackResult)
			continue
		}
		path, captions, err := d.downloadTrack(ctx, media, track, sessionDir)
		if err != nil {
			trackResult.Err = err
			logger.Warn("track failed",
				logging.String("language", track.Language),
				logging.String("special", track.Special.String()),
				logging.Error(err))
		} else {
			trackResult.Path = path
			trackResult.Captions = captions
			logger.Info("track downloaded",
				logging.String("language", track.Language),
				logging.String("special", track.Special.String()),
				logging.Int("captions", captions))
		}
		result.Tracks = append(result.Tracks, trackResult)
	}

	if err := d.publish(result, sessionDir); err != nil {
		return nil, err
	}
	d.record(ctx, result)
	return result, nil
}

func (d *Downloader) downloadTrack(ctx context.Context, media scraper.Media, track Track, dir string) (string, int, error) {
	body, err := d.client.GetText(ctx, track.Rendition.URI)
	if err != nil {
		return "", 0, err
	}
	playlist, err := manifest.ParseMedia(body, track.Rendition.URI)
	if err != nil {
		return "", 0, fmt.Errorf("parse media playlist: %w", err)
	}
	if len(playlist.Segments) == 0 {
		return "", 0, fmt.Errorf("media playlist for %q has no segments", track.Language)
	}

	bodies, err := fetchSegments(ctx, d.client, playlist.Segments, d.options.Concurrency)
	if err != nil {
		return "", 0, err
	}

	doc, err := subtitle.ParseWebVTT(concatSegments(bodies))
	if err != nil {
		return "", 0, fmt.Errorf("parse subtitles: %w", err)
	}
	doc.Language = track.Language
	doc.Special = track.Special

	subtitle.Polish(doc, d.options.Polish)
	if d.options.ConvertToSRT {
		doc = subtitle.ToSubRip(doc, d.options.Convert)
	}

	data, err := doc.Bytes()
	if err != nil {
		return "", 0, err
	}

	name := fileutil.ReleaseName{
		Title:        media.Title,
		Year:         media.ReleaseYear,
		MediaSource:  media.Source,
		SourceType:   "WEB",
		LanguageCode: track.Language,
		Special:      track.Special.String(),
		Extension:    doc.Format.Extension(),
	}
	path := filepath.Join(dir, name.String())
	if err := fileutil.WriteFile(path, data); err != nil {
		return "", 0, err
	}
	return path, len(doc.Captions()), nil
}

// publish moves finished files from the session directory into the
// download folder, archiving them first when multiple files were produced
// and zipping is enabled.
func (d *Downloader) publish(result *Result, sessionDir string) error {
	var files []string
	for i := range result.Tracks {
		if result.Tracks[i].Err == nil {
			files = append(files, result.Tracks[i].Path)
		}
	}
	if len(files) == 0 {
		return nil
	}

	if d.options.Zip && len(files) > 1 {
		archiveName := fileutil.ReleaseName{
			Title:       result.Media.Title,
			Year:        result.Media.ReleaseYear,
			MediaSource: result.Media.Source,
			SourceType:  "WEB",
			Extension:   "zip",
		}
		archivePath := d.destinationPath(filepath.Join(d.options.Folder, archiveName.String()))
		if err := fileutil.ZipFiles(archivePath, files); err != nil {
			return err
		}
		result.ArchivePath = archivePath
		for i := range result.Tracks {
			if result.Tracks[i].Err == nil {
				result.Tracks[i].Path = archivePath
			}
		}
		return nil
	}

	for i := range result.Tracks {
		if result.Tracks[i].Err != nil {
			continue
		}
		target := d.destinationPath(filepath.Join(d.options.Folder, filepath.Base(result.Tracks[i].Path)))
		if err := os.Rename(result.Tracks[i].Path, target); err != nil {
			return fmt.Errorf("move %q: %w", result.Tracks[i].Path, err)
		}
		result.Tracks[i].Path = target
	}
	return nil
}

// seen reports whether history already records this track. Overwriting
// runs never skip, and history lookup failures fall back to downloading.
func (d *Downloader) seen(ctx context.Context, media scraper.Media, track Track) bool {
	if d.store == nil || d.options.OverwriteExisting {
		return false
	}
	recorded, err := d.store.Seen(ctx, media.ID, track.Language, track.Special.String())
	if err != nil {
		d.logger.Warn("history lookup failed", logging.Error(err))
		return false
	}
	return recorded
}

func (d *Downloader) destinationPath(path string) string {
	if d.options.OverwriteExisting {
		return path
	}
	return fileutil.NonConflictingPath(path)
}

func (d *Downloader) record(ctx context.Context, result *Result) {
	if d.store == nil {
		return
	}
	for _, track := range result.Tracks {
		if track.Err != nil {
			continue
		}
		_, err := d.store.Record(ctx, history.Entry{
			MediaID:  result.Media.ID,
			Title:    result.Media.Title,
			Scraper:  result.Media.Source,
			Language: track.Track.Language,
			Special:  track.Track.Special.String(),
			Path:     track.Path,
		})
		if err != nil {
			d.logger.Warn("history record failed", logging.Error(err))
		}
	}
}
