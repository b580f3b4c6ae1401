package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level defines the log level
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var levelNames = map[Level]string{
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO",
	WarnLevel:  "WARN",
	ErrorLevel: "ERROR",
}

var (
	currentLevel = InfoLevel
	mu           sync.RWMutex
	std          = log.New(os.Stderr, "", log.LstdFlags)
)

// ParseLevel converts a level string to a Level, defaulting to InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	}
	return InfoLevel
}

// SetLevel sets the global log level
func SetLevel(levelStr string) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = ParseLevel(levelStr)
}

// SetOutput sets the output destination for the logger
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	std.SetOutput(w)
}

// Debugf logs a formatted message at DebugLevel
func Debugf(format string, v ...interface{}) {
	logf(DebugLevel, format, v...)
}

// Infof logs a formatted message at InfoLevel
func Infof(format string, v ...interface{}) {
	logf(InfoLevel, format, v...)
}

// Warnf logs a formatted message at WarnLevel
func Warnf(format string, v ...interface{}) {
	logf(WarnLevel, format, v...)
}

// Errorf logs a formatted message at ErrorLevel
func Errorf(format string, v ...interface{}) {
	logf(ErrorLevel, format, v...)
}

// Fatalf logs a formatted message and exits
func Fatalf(format string, v ...interface{}) {
	std.Output(2, fmt.Sprintf("[FATAL] "+format, v...))
	os.Exit(1)
}

func logf(level Level, format string, v ...interface{}) {
	mu.RLock()
	enabled := level >= currentLevel
	mu.RUnlock()
	if !enabled {
		return
	}
	// Use standard log package to handle timestamp and concurrency
	std.Output(3, fmt.Sprintf("[%s] %s", levelNames[level], fmt.Sprintf(format, v...)))
}
