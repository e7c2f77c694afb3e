// Package logger exposes the process-wide structured logger used throughout the engine.
package logger

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	once      sync.Once
	singleton *log.Logger
)

// Logger returns the shared logger, creating it on first use with an info level.
//
// Returns:
//   - *log.Logger: the shared logger
func Logger() *log.Logger {
	once.Do(func() {
		singleton = log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    false,
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          "oxy-anim",
		})
		singleton.SetLevel(log.InfoLevel)
	})
	return singleton
}

// SetLevel changes the minimum level of the shared logger.
// Unknown level names fall back to info.
//
// Parameters:
//   - level: one of "debug", "info", "warn", "error" or "fatal"
func SetLevel(level string) {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.InfoLevel
	}
	Logger().SetLevel(lvl)
}

func Debug(msg string, keyvals ...any) {
	Logger().Debug(msg, keyvals...)
}

func Info(msg string, keyvals ...any) {
	Logger().Info(msg, keyvals...)
}

func Warn(msg string, keyvals ...any) {
	Logger().Warn(msg, keyvals...)
}

func Error(msg string, keyvals ...any) {
	Logger().Error(msg, keyvals...)
}

// Init configures the shared logger for the process. It is safe to call more than once.
//
// Parameters:
//   - level: the minimum level, see SetLevel
//
// Returns:
//   - *log.Logger: the shared logger
func Init(level string) *log.Logger {
	SetLevel(level)
	return Logger()
}
