// Package logger holds the process-wide zerolog logger.
//
// Call Init once from main; everything else receives the returned
// zerolog.Logger by injection or fetches it with Get.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options is read only by the first Init call.
type Options struct {
	// Level is one of trace, debug, info, warn, error. Anything else means info.
	Level string
	// Pretty switches from JSON lines to the coloured console writer.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer
	// Service is stamped on every entry as "service" when set.
	Service string
}

var (
	mu      sync.Mutex
	current *zerolog.Logger
)

// Init builds the logger from opts. Later calls return the first logger
// unchanged until Reset is called.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if current != nil {
		return *current
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	lvl := parseLevel(opts.Level)
	zerolog.SetGlobalLevel(lvl)

	l := zerolog.New(writer(opts)).Level(lvl).With().Timestamp().Caller()
	if opts.Service != "" {
		l = l.Str("service", opts.Service)
	}
	built := l.Logger()
	current = &built
	return built
}

// Get returns the logger built by Init and panics when Init was never called.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if current == nil {
		panic("logger: Get called before Init")
	}
	return *current
}

// Reset forgets the current logger. Tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = nil
}

func writer(opts Options) io.Writer {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return out
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
