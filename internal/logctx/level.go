package logctx

import (
	"errors"
	"log/slog"

	"github.com/ggoodman/mcp-registry-go/mcp"
)

// ErrInvalidLoggingLevel indicates the provided level is not one of the
// protocol-defined LoggingLevel values.
var ErrInvalidLoggingLevel = errors.New("invalid logging level")

// SetLevel maps an MCP LoggingLevel onto lv. Levels above error collapse to
// error and notice collapses to info.
func SetLevel(lv *slog.LevelVar, level mcp.LoggingLevel) error {
	if !mcp.IsValidLoggingLevel(level) {
		return ErrInvalidLoggingLevel
	}
	switch level {
	case mcp.LoggingLevelDebug:
		lv.Set(slog.LevelDebug)
	case mcp.LoggingLevelInfo, mcp.LoggingLevelNotice:
		lv.Set(slog.LevelInfo)
	case mcp.LoggingLevelWarning:
		lv.Set(slog.LevelWarn)
	default:
		lv.Set(slog.LevelError)
	}
	return nil
}
