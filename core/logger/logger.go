package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config is the environment-driven logger configuration.
type Config struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:""` // text or json; empty follows the environment preset

	// File, when set, also writes to a size-rotated log file.
	File       string `env:"LOG_FILE" envDefault:""`
	MaxSizeMB  int    `env:"LOG_FILE_MAX_SIZE_MB" envDefault:"50"`
	MaxBackups int    `env:"LOG_FILE_MAX_BACKUPS" envDefault:"5"`
	MaxAgeDays int    `env:"LOG_FILE_MAX_AGE_DAYS" envDefault:"28"`
}

type options struct {
	level  slog.Level
	json   bool
	output io.Writer
	attrs  []slog.Attr
}

// Option configures New.
type Option func(*options)

// WithLevel sets the minimum level.
func WithLevel(level slog.Level) Option {
	return func(o *options) { o.level = level }
}

// WithJSONFormatter switches to the JSON handler.
func WithJSONFormatter() Option {
	return func(o *options) { o.json = true }
}

// WithTextFormatter switches to the text handler.
func WithTextFormatter() Option {
	return func(o *options) { o.json = false }
}

// WithOutput sets the destination writer.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithRotatingFile tees output into a lumberjack-rotated file.
func WithRotatingFile(cfg Config) Option {
	return func(o *options) {
		if cfg.File == "" {
			return
		}
		o.output = io.MultiWriter(o.output, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		})
	}
}

// WithAttr adds attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(o *options) { o.attrs = append(o.attrs, attrs...) }
}

// WithDevelopment: text output, debug level, service name attached.
func WithDevelopment(service string) Option {
	return func(o *options) {
		o.level = slog.LevelDebug
		o.json = false
		o.attrs = append(o.attrs, slog.String("service", service), slog.String("env", "development"))
	}
}

// WithProduction: JSON output, info level, service name attached.
func WithProduction(service string) Option {
	return func(o *options) {
		o.level = slog.LevelInfo
		o.json = true
		o.attrs = append(o.attrs, slog.String("service", service), slog.String("env", "production"))
	}
}

// New builds a *slog.Logger. Without options it logs text at info level to stdout.
func New(opts ...Option) *slog.Logger {
	o := &options{
		level:  slog.LevelInfo,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(o)
	}

	handlerOpts := &slog.HandlerOptions{Level: o.level}

	var h slog.Handler
	if o.json {
		h = slog.NewJSONHandler(o.output, handlerOpts)
	} else {
		h = slog.NewTextHandler(o.output, handlerOpts)
	}
	if len(o.attrs) > 0 {
		h = h.WithAttrs(o.attrs)
	}

	return slog.New(h)
}

// NewFromConfig picks the environment preset and applies LOG_LEVEL / LOG_FORMAT
// overrides on top of it.
func NewFromConfig(cfg Config, service string, production bool, extra ...Option) *slog.Logger {
	opts := make([]Option, 0, 3+len(extra))
	if production {
		opts = append(opts, WithProduction(service))
	} else {
		opts = append(opts, WithDevelopment(service))
	}
	if cfg.Level != "" {
		opts = append(opts, WithLevel(ParseLevel(cfg.Level)))
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "json":
		opts = append(opts, WithJSONFormatter())
	case "text":
		opts = append(opts, WithTextFormatter())
	}
	opts = append(opts, extra...)
	opts = append(opts, WithRotatingFile(cfg))
	return New(opts...)
}

// ParseLevel accepts debug, info, warn and error (case-insensitive).
// Anything else maps to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops everything. Used as a default for
// optional logger dependencies.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
