package logger

import (
	"sync"
)

// Log levels used across the application.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

var (
	// globalLogger holds the singleton logger instance.
	globalLogger *Logger
	once         sync.Once
)

// Get returns a singleton console logger configured with the provided level.
// The first call initializes the logger; subsequent calls ignore the level
// and return the already initialized instance.
func Get(level string) *Logger {
	return Init(level, FormatConsole, "")
}

// Init is Get with an explicit output format and a service name attached to every entry.
func Init(level, format, service string) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(level, format, service)
	})
	return globalLogger
}
