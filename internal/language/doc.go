// Package language normalizes subtitle language codes and names.
//
// Manifest renditions carry BCP 47-style tags ("en", "en-US", "pt-BR")
// while users filter with two-letter codes, three-letter codes, or plain
// words ("english"). All conversions live here so the track selector, CLI
// output, and file naming agree on what a language code means.
package language
