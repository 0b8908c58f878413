// Package log provides the logging abstraction shared by padship components.
//
// Components log through the small Logger interface below. A zerolog backed
// implementation is provided for the CLI, and a no-op logger for tests and
// for embedding padship in programs that do their own logging.
//
//	logger := log.NewZerologAdapter(zerolog.InfoLevel)
//	logger.Info("listening", log.String("addr", ":7777"))
//
// Any other logging library can be plugged in by implementing Logger.
package log
