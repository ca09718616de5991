package internal

import "log/slog"

// Logger is embedded by stateful components to provide leveled, structured
// logging without requiring a logger be configured. The zero value is a
// silent no-op logger, matching the teacher's own unconfigured-by-default
// convention (see the Reset/Configure methods across the pack).
type Logger struct {
	Log *slog.Logger
}

// SetLogger installs l as the destination for future log calls. Passing nil
// silences the component again.
func (g *Logger) SetLogger(l *slog.Logger) { g.Log = l }

func (g Logger) Error(msg string, attrs ...slog.Attr) { LogAttrs(g.Log, slog.LevelError, msg, attrs...) }
func (g Logger) Warn(msg string, attrs ...slog.Attr)  { LogAttrs(g.Log, slog.LevelWarn, msg, attrs...) }
func (g Logger) Info(msg string, attrs ...slog.Attr)  { LogAttrs(g.Log, slog.LevelInfo, msg, attrs...) }
func (g Logger) Debug(msg string, attrs ...slog.Attr) { LogAttrs(g.Log, slog.LevelDebug, msg, attrs...) }
func (g Logger) Trace(msg string, attrs ...slog.Attr) { LogAttrs(g.Log, LevelTrace, msg, attrs...) }
