// Package subtitle implements the subtitle document engine: timecode
// parsing and formatting, the block model shared by WebVTT and SubRip
// documents, the WebVTT parser, both serializers, the WebVTT to SubRip
// converter, and the polish pass (RTL direction fixing and adjacent
// duplicate removal).
//
// The package is pure computation over in-memory text. It performs no I/O,
// so a document can be parsed, polished, converted, and rendered on any
// goroutine as long as each document is owned by a single pipeline.
package subtitle
