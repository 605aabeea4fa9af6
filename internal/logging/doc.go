// Package logging builds slog loggers with console and JSON handlers.
//
// The console handler renders one line per record: timestamp, level,
// optional component prefix, message, then key=value attributes. The JSON
// handler is the stdlib handler with normalized key names.
package logging
