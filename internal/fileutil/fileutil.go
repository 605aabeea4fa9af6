// Package fileutil provides file naming and filesystem helpers for
// subtitle output: release-style file names, conflict-free paths, and
// zip archiving.
package fileutil

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// titleReplacements maps characters that are unsafe or ugly in file names
// to their release-name form. Order-sensitive entries (multi-character
// sequences) are applied before single characters.
var titleReplacements = []struct {
	old string
	new string
}{
	{": ", "."},
	{" - ", "-"},
	{", ", "."},
	{". ", "."},
	{" ", "."},
	{":", "."},
	{"|", "."},
	{"/", "."},
	{"\\", ""},
	{"<", ""},
	{">", ""},
	{"(", ""},
	{")", ""},
	{"\"", ""},
	{"?", ""},
	{"*", ""},
}

var multipleDots = regexp.MustCompile(`\.+`)

// SanitizeTitle converts a media title to a file-name-friendly form:
// spaces and separators become dots, forbidden characters are dropped,
// and runs of dots collapse to one.
func SanitizeTitle(title string) string {
	title = strings.TrimSpace(title)
	for _, r := range titleReplacements {
		title = strings.ReplaceAll(title, r.old, r.new)
	}
	title = multipleDots.ReplaceAllString(title, ".")
	return strings.Trim(title, ".")
}

// ReleaseName describes the parts of a release-style file name. Zero
// values are omitted from the result.
type ReleaseName struct {
	Title          string
	Year           int
	SeasonNumber   int
	EpisodeNumber  int
	EpisodeName    string
	MediaSource    string
	SourceType     string
	AdditionalInfo []string
	LanguageCode   string
	Special        string
	Extension      string
}

// String assembles the dot-separated release name, e.g.
// "Some.Movie.2024.iT.WEB.en-US.cc.vtt".
func (r ReleaseName) String() string {
	parts := []string{SanitizeTitle(r.Title)}

	if r.Year > 0 {
		parts = append(parts, fmt.Sprintf("%d", r.Year))
	}
	if r.SeasonNumber > 0 || r.EpisodeNumber > 0 {
		parts = append(parts, fmt.Sprintf("S%02dE%02d", r.SeasonNumber, r.EpisodeNumber))
	}
	if r.EpisodeName != "" {
		parts = append(parts, SanitizeTitle(r.EpisodeName))
	}
	if r.MediaSource != "" {
		parts = append(parts, r.MediaSource)
	}
	if r.SourceType != "" {
		parts = append(parts, r.SourceType)
	}
	parts = append(parts, r.AdditionalInfo...)
	if r.LanguageCode != "" {
		parts = append(parts, r.LanguageCode)
	}
	if r.Special != "" {
		parts = append(parts, strings.ToLower(r.Special))
	}
	if r.Extension != "" {
		parts = append(parts, r.Extension)
	}

	return strings.Join(parts, ".")
}

// NonConflictingPath returns path unchanged if nothing exists there,
// otherwise the first "<stem>-<n><ext>" variant that is free.
func NonConflictingPath(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d%s", stem, i, ext)
		if _, err := os.Stat(candidate); err != nil {
			return candidate
		}
	}
}

// WriteFile writes data to path, creating parent directories as needed.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return nil
}

// ZipFiles archives the given files into a zip at zipPath, storing each
// under its base name. Files are compressed with deflate.
func ZipFiles(zipPath string, files []string) (err error) {
	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("create archive %q: %w", zipPath, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	writer := zip.NewWriter(out)
	for _, file := range files {
		if err := addZipEntry(writer, file); err != nil {
			writer.Close()
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize archive %q: %w", zipPath, err)
	}
	return nil
}

func addZipEntry(writer *zip.Writer, file string) error {
	in, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open %q: %w", file, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %q: %w", file, err)
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("archive header for %q: %w", file, err)
	}
	header.Name = filepath.Base(file)
	header.Method = zip.Deflate

	entry, err := writer.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("create archive entry %q: %w", header.Name, err)
	}
	if _, err := io.Copy(entry, in); err != nil {
		return fmt.Errorf("write archive entry %q: %w", header.Name, err)
	}
	return nil
}
