package lib

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
)

func ParseSLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(s))
	return level, err
}

func NiceLogger(w io.Writer, level slog.Level) *slog.Logger {
	// https://www.reddit.com/r/golang/comments/15nwnkl/achieve_lshortfile_with_slog/jy8emik/
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     &level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				source, _ := a.Value.Any().(*slog.Source)
				if source != nil {
					source.File = filepath.Base(source.File)
				}
			}
			return a
		},
	}))
}

// LevelLogger is NiceLogger with the level given by name, e.g. "debug" or "WARN".
func LevelLogger(w io.Writer, level string) (*slog.Logger, error) {
	l, err := ParseSLogLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	return NiceLogger(w, l), nil
}

// DiscardLogger drops everything, for tests and quiet callers.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
