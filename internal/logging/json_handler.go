package logging

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

const jsonTimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// newJSONHandler emits one object per line for log shippers. Durations are
// written as milliseconds under a "_ms" suffixed key.
func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	opts := slog.HandlerOptions{
		Level:     lvl,
		AddSource: addSource,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if len(groups) == 0 {
				switch attr.Key {
				case slog.TimeKey:
					attr.Key = "ts"
					if attr.Value.Kind() == slog.KindTime {
						attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(jsonTimestampLayout))
					}
					return attr
				case slog.LevelKey:
					attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
					return attr
				case slog.SourceKey:
					if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
						attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
					}
					return attr
				}
			}
			if attr.Value.Kind() == slog.KindDuration {
				return slog.Int64(attr.Key+"_ms", attr.Value.Duration().Milliseconds())
			}
			return attr
		},
	}
	return slog.NewJSONHandler(w, &opts)
}
