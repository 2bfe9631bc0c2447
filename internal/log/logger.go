package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger and remembers which component it logs for.
type Logger struct {
	*slog.Logger
	base      *slog.Logger // without the component attribute
	component string
}

// Config holds logger configuration
type Config struct {
	Level     slog.Level
	Component string
	Output    io.Writer
	Handler   slog.Handler
}

// DefaultConfig returns sensible defaults for logging
func DefaultConfig() Config {
	return Config{
		Level:     slog.LevelInfo,
		Component: ComponentApp,
		Output:    os.Stdout,
	}
}

// New creates a new logger with the given configuration. Every record carries
// the component attribute.
func New(config Config) *Logger {
	handler := config.Handler
	if handler == nil {
		out := config.Output
		if out == nil {
			out = os.Stdout
		}
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: config.Level})
	}
	component := config.Component
	if component == "" {
		component = ComponentApp
	}

	return newLogger(slog.New(handler), component)
}

func newLogger(base *slog.Logger, component string) *Logger {
	return &Logger{
		Logger:    base.With(FieldComponent, component),
		base:      base,
		component: component,
	}
}

// ParseLevel maps LOG_LEVEL values to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// With returns a new logger with the given attributes
func (l *Logger) With(args ...any) *Logger {
	return newLogger(l.base.With(args...), l.component)
}

// WithComponent returns a logger sharing l's attributes under another component name.
func (l *Logger) WithComponent(component string) *Logger {
	return newLogger(l.base, component)
}

// Slog returns the underlying *slog.Logger for packages that take one.
func (l *Logger) Slog() *slog.Logger {
	return l.Logger
}

// SetDefault sets the default logger for the application
func SetDefault(logger *Logger) {
	slog.SetDefault(logger.Logger)
}

// Component returns the logger's component name
func (l *Logger) Component() string {
	return l.component
}
