// Package logger provides a thin factory around log/slog plus helper
// attribute constructors used across the guardkit packages.
//
// Helper constructors such as Error, Component, UserID and Guard return
// commonly-used slog.Attr instances to keep attribute naming consistent
// across the codebase.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithFormat(logger.FormatText),
//	    logger.WithLevel(slog.LevelDebug),
//	)
//
//	log.Info("user authenticated",
//	    logger.UserID(42),
//	    logger.Guard("web"),
//	)
package logger
