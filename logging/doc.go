// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. Components default to NoOpLogger, keeping library use
// silent unless a logger is injected.
package logging
