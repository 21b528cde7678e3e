package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// ConsoleOutput selects stderr instead of a rotated log file
const ConsoleOutput = "stderr"

// InitLogger builds the application logger and installs it as slog's default.
// An empty logging.file logs to $XDG_STATE_HOME/anistream/anistream.log,
// "stderr" logs to the console.
func InitLogger(cfg *LoggingConfig) (*slog.Logger, error) {
	writer, isConsole, err := logWriter(cfg)
	if err != nil {
		return nil, err
	}

	logger := slog.New(newHandler(writer, isConsole, cfg))
	slog.SetDefault(logger)

	return logger, nil
}

// logWriter returns the rotated file writer, or stderr for console output
func logWriter(cfg *LoggingConfig) (io.Writer, bool, error) {
	switch strings.ToLower(cfg.File) {
	case ConsoleOutput, "-":
		return os.Stderr, true, nil
	case "":
		cfg.File = filepath.Join(getStateDir(), AppName, AppName+".log")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nil, false, fmt.Errorf("failed to create log directory: %w", err)
	}

	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSize, // megabytes
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge, // days
		Compress:   cfg.Compress,
	}, false, nil
}

func newHandler(w io.Writer, isConsole bool, cfg *LoggingConfig) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Level),
	}

	switch strings.ToLower(cfg.Format) {
	case "json":
		return slog.NewJSONHandler(w, opts)
	default:
		// Colors only make sense on a terminal
		if cfg.Color && isConsole {
			return NewColoredTextHandler(w, opts)
		}
		return slog.NewTextHandler(w, opts)
	}
}

// ColoredTextHandler wraps slog.TextHandler to add colors for console output
type ColoredTextHandler struct {
	handler slog.Handler
	writer  io.Writer
	opts    *slog.HandlerOptions
}

// NewColoredTextHandler creates a new handler that adds colors for console output
func NewColoredTextHandler(w io.Writer, opts *slog.HandlerOptions) *ColoredTextHandler {
	// Create a text handler that writes to a buffer
	textHandler := slog.NewTextHandler(w, opts)
	return &ColoredTextHandler{
		handler: textHandler,
		writer:  w,
		opts:    opts,
	}
}

// Handle implements slog.Handler interface
func (h *ColoredTextHandler) Handle(ctx context.Context, r slog.Record) error {
	// Get the original text representation
	var buf strings.Builder
	textHandler := slog.NewTextHandler(&buf, h.opts)
	err := textHandler.Handle(ctx, r)
	if err != nil {
		return err
	}

	// Get the level to determine color
	level := r.Level.String()

	// Apply color based on level
	coloredLine := h.addColor(buf.String(), level)

	// Write the colored line to the actual writer
	_, err = h.writer.Write([]byte(coloredLine))
	return err
}

// addColor applies ANSI color codes based on log level
func (h *ColoredTextHandler) addColor(line, level string) string {
	var colorFunc func(string) string

	// Determine color based on log level
	switch level {
	case "DEBUG":
		// Gray for debug
		colorFunc = func(s string) string {
			return fmt.Sprintf("\033[90m%s\033[0m", s) // bright black/gray
		}
	case "INFO":
		// Green for info
		colorFunc = func(s string) string {
			return fmt.Sprintf("\033[32m%s\033[0m", s) // green
		}
	case "WARN":
		// Yellow for warning
		colorFunc = func(s string) string {
			return fmt.Sprintf("\033[33m%s\033[0m", s) // yellow
		}
	case "ERROR":
		// Red for error
		colorFunc = func(s string) string {
			return fmt.Sprintf("\033[31m%s\033[0m", s) // red
		}
	default:
		return line // Return unchanged if no match
	}

	// Colorize the first word (typically the level) in the log line
	parts := strings.SplitN(line, " ", 2)
	if len(parts) >= 2 {
		coloredPart := colorFunc(parts[0])
		return coloredPart + " " + parts[1]
	}
	return colorFunc(line)
}

// WithAttrs implements slog.Handler interface
func (h *ColoredTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ColoredTextHandler{
		handler: h.handler.WithAttrs(attrs),
		writer:  h.writer,
		opts:    h.opts,
	}
}

// WithGroup implements slog.Handler interface
func (h *ColoredTextHandler) WithGroup(name string) slog.Handler {
	return &ColoredTextHandler{
		handler: h.handler.WithGroup(name),
		writer:  h.writer,
		opts:    h.opts,
	}
}

// Enabled implements slog.Handler interface
func (h *ColoredTextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// parseLogLevel parses a log level string
func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
