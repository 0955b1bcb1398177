package logger

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	l    zerolog.Logger
	once sync.Once
)

// L returns the process-wide logger. APP_ENV=development switches to the
// human-readable console writer.
func L() zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		if os.Getenv("APP_ENV") == "development" {
			l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		} else {
			l = zerolog.New(os.Stderr).With().Timestamp().Logger()
		}
	})
	return l
}
