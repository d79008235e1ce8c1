// SPDX-License-Identifier: Apache-2.0

package zerolog

import (
	"io"
	stdlog "log"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/go-logr/zerologr"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	LogLevel string
	// JSON disables the console writer, logs are written as JSON lines.
	JSON bool
	// Out defaults to stderr.
	Out io.Writer
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.TimestampFieldName = "timestamp"
	zerolog.ErrorFieldName = "error.message"
	zerolog.ErrorStackFieldName = "error.stack"
	// the v-level is redundant with the zerolog level
	zerologr.VerbosityFieldName = ""

	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return path.Base(file) + ":" + strconv.Itoa(line)
	}
}

// NewZerolog returns a zerolog logger that emits a timestamp and the caller's
// filename. Unknown levels default to no level.
//
// Trace and debug logs are sampled: up to 100 trace logs per minute are
// kept, and once 1000 debug logs per minute are reached only every 5th one
// is.
func NewZerolog(cfg *Config) *zerolog.Logger {
	level, _ := zerolog.ParseLevel(cfg.LogLevel)

	var out io.Writer = os.Stderr
	if cfg.Out != nil {
		out = cfg.Out
	}
	if !cfg.JSON {
		out = zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.TimeFormat = time.RFC3339Nano
			w.Out = out
		})
	}

	logger := zerolog.New(out).
		Sample(zerolog.LevelSampler{
			TraceSampler: &zerolog.BurstSampler{
				Burst:  100,
				Period: time.Minute,
			},
			DebugSampler: &zerolog.BurstSampler{
				Burst:       1000,
				Period:      time.Minute,
				NextSampler: &zerolog.BasicSampler{N: 5},
			},
		}).
		With().
		Timestamp().
		Caller().
		Stack().
		Logger().
		Level(level)

	return &logger
}

// SetGlobalLogger routes the stdlib log package and the zerolog global
// loggers to the logger on input.
func SetGlobalLogger(logger *zerolog.Logger) {
	stdlog.SetFlags(0)
	stdlog.SetOutput(logger)
	log.Logger = *logger
	zerolog.DefaultContextLogger = logger
}
