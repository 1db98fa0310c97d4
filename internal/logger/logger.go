// Package logger provides structured logging functionality
// using the Uber zap logging library. It supports log levels and output customization.
package logger

import (
	"errors"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

// Log is a global SugaredLogger instance from the zap logging library.
// It provides a structured and leveled logging API with a simpler interface
// for common use cases like formatted output and key-value logging.
// Log defaults to a no-op logger until Init() is called, so packages may
// log safely from tests that never initialize logging.
var Log = zap.NewNop().Sugar()

type trackedResponse struct {
	status int
	size   int
}

type trackingResponseWriter struct {
	http.ResponseWriter
	tracked *trackedResponse
}

// Write implements the io.Writer interface for the logging middleware.
// It counts the bytes written to the underlying response.
func (w *trackingResponseWriter) Write(b []byte) (int, error) {
	size, err := w.ResponseWriter.Write(b)
	w.tracked.size += size
	return size, err
}

// WriteHeader records the HTTP status code before delegating to the
// underlying response writer.
func (w *trackingResponseWriter) WriteHeader(statusCode int) {
	w.ResponseWriter.WriteHeader(statusCode)
	w.tracked.status = statusCode
}

// Init initializes the global logger configuration.
// It sets the output destination and global log level.
func Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = lvl
	zl, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = zl.Sugar()

	return nil
}

// Sync flushes any buffered log entries to the output.
// It should be called when shutting down to ensure all logs are written.
func Sync() error {
	if err := Log.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) {
		return err
	}

	return nil
}

// WithLoggingHTTPMiddleware wraps an http.Handler with structured logging.
// The stub server uses it to log method, URI, response status, duration
// and response size for every request.
func WithLoggingHTTPMiddleware(h http.Handler) http.Handler {
	logFn := func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		tracked := &trackedResponse{}
		tw := trackingResponseWriter{
			ResponseWriter: w,
			tracked:        tracked,
		}
		h.ServeHTTP(&tw, r)

		Log.Infoln(
			"uri", r.RequestURI,
			"method", r.Method,
			"status", tracked.status,
			"duration", time.Since(start),
			"size", tracked.size,
		)
	}

	return http.HandlerFunc(logFn)
}
