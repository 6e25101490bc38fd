package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with scheduler-specific helpers
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Text handler in development, JSON in release
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
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

// WithActor adds the acting staff member to logger context
func (l *Logger) WithActor(actorID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("actor_id", actorID)),
	}
}

// WithStation adds a station id to logger context
func (l *Logger) WithStation(stationID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("station_id", stationID)),
	}
}

// WithError adds an error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// HTTP logging methods

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.Int("size", c.Writer.Size()),
	)
}

// Queue lifecycle logging methods

// LogEntryQueued logs a new queue entry
func (l *Logger) LogEntryQueued(ctx context.Context, entryID, stationID, queueNumber string, position int) {
	l.Logger.InfoContext(ctx,
		"Entry Queued",
		slog.String("entry_id", entryID),
		slog.String("station_id", stationID),
		slog.String("queue_number", queueNumber),
		slog.Int("position", position),
	)
}

// LogEntryTransition logs a lifecycle transition
func (l *Logger) LogEntryTransition(ctx context.Context, entryID, from, to, actorID string) {
	l.Logger.InfoContext(ctx,
		"Entry Transition",
		slog.String("entry_id", entryID),
		slog.String("from", from),
		slog.String("to", to),
		slog.String("actor_id", actorID),
	)
}

// LogEntryAutoCancelled logs an entry cancelled by the skip policy
func (l *Logger) LogEntryAutoCancelled(ctx context.Context, entryID string, skipCount int) {
	l.Logger.WarnContext(ctx,
		"Entry Auto-Cancelled",
		slog.String("entry_id", entryID),
		slog.Int("skip_count", skipCount),
	)
}

// LogStationPaused logs a station pause/resume
func (l *Logger) LogStationPaused(ctx context.Context, stationID string, paused bool, reason string) {
	l.Logger.InfoContext(ctx,
		"Station Pause State Changed",
		slog.String("station_id", stationID),
		slog.Bool("paused", paused),
		slog.String("reason", reason),
	)
}

// LogTokensReset logs a daily token counter reset
func (l *Logger) LogTokensReset(ctx context.Context, stations int, actorID string) {
	l.Logger.InfoContext(ctx,
		"Daily Tokens Reset",
		slog.Int("stations", stations),
		slog.String("actor_id", actorID),
	)
}

// Helper methods for common patterns

// ErrorWithContext logs an error message with context
func (l *Logger) ErrorWithContext(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	args := make([]interface{}, 0, len(fields)*2+2)
	args = append(args, slog.String("error", err.Error()))
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	l.Logger.ErrorContext(ctx, msg, args...)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
