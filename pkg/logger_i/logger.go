package logger_i

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/akolanti/ContractRAG/internal/config"
)

// Logger resolves the process handler on every call, so loggers created at
// package init still honour the handler installed later by Init.
type Logger struct {
	attrs []any
}

// Init installs the process-wide slog handler: JSON in production, text otherwise.
func Init(isProd bool) {
	InitTo(os.Stdout, isProd)
}

// InitTo is Init writing to w. The CLI logs to stderr so stdout stays
// free for command output and the MCP stdio transport.
func InitTo(w io.Writer, isProd bool) {
	options := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}

	var handler slog.Handler
	if isProd {
		options.Level = config.LOG_LEVEL_PROD
		handler = slog.NewJSONHandler(w, options)
	} else {
		handler = slog.NewTextHandler(w, options)
	}
	slog.SetDefault(slog.New(handler))
}

func NewLogger(section string) *Logger {
	return &Logger{
		attrs: []any{"component", section},
	}
}

func (l *Logger) inner() *slog.Logger {
	return slog.Default().With(l.attrs...)
}

// WithTrace tags the logger with the trace id carried by ctx, if any.
func (l *Logger) WithTrace(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	if trace, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok && trace != "" {
		return l.With("traceId", trace)
	}
	return l
}

func (l *Logger) Info(msg string, args ...any) {
	l.inner().Info(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.inner().Error(msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.inner().Warn(msg, args...)
}

func (l *Logger) Debug(msg string, args ...any) {
	l.inner().Debug(msg, args...)
}

func (l *Logger) With(args ...any) *Logger {
	attrs := make([]any, 0, len(l.attrs)+len(args))
	attrs = append(attrs, l.attrs...)
	return &Logger{
		attrs: append(attrs, args...),
	}
}
