// Package logger provides structured logging utilities built on Go's standard
// slog package: a small factory with environment presets and a set of
// attribute helpers for common fields.
//
// # Basic Usage
//
//	log := logger.New(
//		logger.WithDevelopment("portal"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	log.Info("server starting",
//		logger.Component("server"),
//		logger.Event("startup"),
//	)
//
// # Environment Configurations
//
//	// Development: text format, debug level, stdout
//	devLogger := logger.New(logger.WithDevelopment("portal"))
//
//	// Production: JSON format, info level, stdout
//	prodLogger := logger.New(logger.WithProduction("portal"))
//
// NewFromConfig applies LOG_LEVEL and LOG_FORMAT on top of the preset.
//
// # Attribute Helpers
//
// Helpers such as Error, RequestID and UserID return an empty slog.Attr for
// zero inputs, which slog ignores, so they can be passed without nil checks.
package logger
