// Package iologger provides slog-based logging initialization and configuration.
package iologger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gnames/gnanimal/pkg/config"
)

// LogFile is the name of the log file inside of the log directory.
const LogFile = "gnanimal.log"

var (
	mu   sync.Mutex
	file *os.File
)

// Init sets the default slog logger according to cfg. For the "file"
// destination logs are appended to LogFile in logDir. A log file opened
// by a previous call is closed.
func Init(logDir string, cfg config.LogConfig) error {
	mu.Lock()
	defer mu.Unlock()

	var writer io.Writer
	var newFile *os.File
	switch cfg.Destination {
	case "stdout":
		writer = os.Stdout
	case "file":
		logPath := filepath.Join(logDir, LogFile)
		f, err := os.OpenFile(
			logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644,
		)
		if err != nil {
			return CreateLogFileError(logPath, err)
		}
		newFile = f
		writer = f
	default:
		writer = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(writer, opts)
	default:
		handler = slog.NewJSONHandler(writer, opts)
	}
	slog.SetDefault(slog.New(handler).With("app", config.AppName))

	if file != nil {
		file.Close()
	}
	file = newFile
	return nil
}

// Close closes the log file, if any. Logging goes to STDERR afterwards.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		return nil
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	err := file.Close()
	file = nil
	return err
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
