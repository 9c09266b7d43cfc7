// Package logger wraps zerolog with a process-wide logger configured once at
// startup from the application config.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	// Level is one of trace, debug, info, warn, error. Defaults to info.
	Level string
	// Format is json or console. Defaults to json.
	Format string
	Output io.Writer
}

var (
	log zerolog.Logger
	mu  sync.RWMutex
)

func init() {
	Init(Config{})
}

// Init (re)configures the global logger. Safe to call more than once.
func Init(cfg Config) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	out := cfg.Output
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05"}
	}

	mu.Lock()
	log = zerolog.New(out).With().Timestamp().Logger()
	mu.Unlock()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Get returns a copy of the global logger.
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// With returns a child logger carrying the given component name.
func With(component string) zerolog.Logger {
	l := Get()
	return l.With().Str("component", component).Logger()
}

func Debug() *zerolog.Event {
	l := Get()
	return l.Debug()
}

func Info() *zerolog.Event {
	l := Get()
	return l.Info()
}

func Warn() *zerolog.Event {
	l := Get()
	return l.Warn()
}

func Error() *zerolog.Event {
	l := Get()
	return l.Error()
}

func Fatal() *zerolog.Event {
	l := Get()
	return l.Fatal()
}
