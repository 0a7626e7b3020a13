// Package logger provides the global file logger used by locator-finder.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	globalLogger *logrus.Logger
	logFile      *os.File
	level        = logrus.InfoLevel
	mu           sync.Mutex
)

// Init initializes the global logger with the specified log file path.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	// Close previous log file if exists
	if logFile != nil {
		logFile.Close()
		logFile = nil
		globalLogger = nil
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	logFile = f
	globalLogger = logrus.New()
	globalLogger.SetOutput(f)
	globalLogger.SetLevel(level)
	globalLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000000",
		DisableColors:   true,
	})

	return nil
}

// SetVerbose switches between debug and info level.
func SetVerbose(verbose bool) {
	mu.Lock()
	defer mu.Unlock()

	level = logrus.InfoLevel
	if verbose {
		level = logrus.DebugLevel
	}
	if globalLogger != nil {
		globalLogger.SetLevel(level)
	}
}

// Close closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	globalLogger = nil
}

func logf(lvl logrus.Level, format string, v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if globalLogger != nil {
		globalLogger.Logf(lvl, format, v...)
	}
}

// Info logs an info message.
func Info(format string, v ...interface{}) { logf(logrus.InfoLevel, format, v...) }

// Debug logs a debug message.
func Debug(format string, v ...interface{}) { logf(logrus.DebugLevel, format, v...) }

// Error logs an error message.
func Error(format string, v ...interface{}) { logf(logrus.ErrorLevel, format, v...) }

// Warn logs a warning message.
func Warn(format string, v ...interface{}) { logf(logrus.WarnLevel, format, v...) }

// GetWriter returns the underlying writer for use by drivers.
func GetWriter() io.Writer {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		return logFile
	}
	return io.Discard
}
