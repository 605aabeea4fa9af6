// Package manifest parses HLS playlists far enough to locate subtitle
// renditions and their media segments. It is not a general M3U8
// implementation; only the tags the subtitle pipeline needs are
// understood, and everything else is skipped.
package manifest
