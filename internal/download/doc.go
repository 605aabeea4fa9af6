// Package download drives the subtitle pipeline for one scraped title:
// master playlist fetch, track selection, ordered segment download,
// parsing, polish, optional SubRip conversion, and file output.
//
// Track pipelines are independent; a failure in one track never aborts
// the others. Segment downloads within a track run concurrently but the
// concatenation order always follows the media playlist.
package download
