// Package logger provides structured logging for snapset.
//
// It wraps log/slog:
//
//   - logger.go: Logger interface, handler selection, dynamic level
//   - context.go: carrying a Logger and a run ID through context.Context
//
// The process-wide level lives in a slog.LevelVar so it can be changed at
// runtime, for example when a watched config file is rewritten.
package logger
