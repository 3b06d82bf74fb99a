// Package logging wires the process-wide zerolog logger used everywhere
// else in this module (notably the scalar inlining pass and the runtime
// driver), in the teacher's style: a global logger configured once at
// startup rather than threaded through every call.
package logging

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. When pretty is true it writes
// a human-readable console format (for local runs); otherwise it writes
// structured JSON (for production).
func Init(levelName string, pretty bool) {
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if pretty {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}
