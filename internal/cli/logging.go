package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/rs/zerolog"
	slogzerolog "github.com/samber/slog-zerolog/v2"
)

// NewLogger builds the process logger: slog in front, zerolog behind.
// Text format writes zerolog's console layout; json writes one JSON object
// per line. Logs always go to w (stderr) so stdout stays parseable.
func NewLogger(w io.Writer, format string, level slog.Level) *slog.Logger {
	var zl zerolog.Logger
	if format == "json" {
		zl = zerolog.New(w).With().Timestamp().Logger()
	} else {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).With().Timestamp().Logger()
	}
	return slog.New(slogzerolog.Option{Level: level, Logger: &zl}.NewZerologHandler())
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown level %q (want debug, info, warn or error)", s)
	}
	return level, nil
}
