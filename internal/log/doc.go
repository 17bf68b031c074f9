// Package log provides logging utilities built on top of the standard slog
// package.
//
// This package extends slog to provide:
//   - Truncation of oversized attribute values (harvested page text can run
//     to hundreds of kilobytes; a log line must not)
//   - Removal of control characters so multi-line page text cannot break
//     line-oriented log output
//   - Configurable log levels with verbose mode support
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Info("saved text",
//	    "url", url,
//	    "snippet", text, // truncated and flattened before output
//	)
package log
