// Package logger provides verbose logging for the dbgm CLI.
// When verbose mode is enabled via the --verbose flag, messages are printed
// to stderr to show how folders are scanned and how the catalog reconciles
// their changes. Nothing is printed otherwise.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Logger tags messages with the component that wrote them.
type Logger struct {
	component string
}

// New returns a logger for component. Its messages read
// "[LEVEL] component: message".
func New(component string) *Logger {
	return &Logger{component: component}
}

// Debug prints a message if verbose mode is enabled.
func (l *Logger) Debug(format string, args ...any) {
	write("DEBUG", l.component, format, args)
}

// Info prints an informational message if verbose mode is enabled.
func (l *Logger) Info(format string, args ...any) {
	write("INFO", l.component, format, args)
}

// Warn prints a warning message if verbose mode is enabled.
func (l *Logger) Warn(format string, args ...any) {
	write("WARN", l.component, format, args)
}

// Debug prints an untagged message if verbose mode is enabled.
func Debug(format string, args ...any) {
	write("DEBUG", "", format, args)
}

// Info prints an untagged informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	write("INFO", "", format, args)
}

// Warn prints an untagged warning if verbose mode is enabled.
func Warn(format string, args ...any) {
	write("WARN", "", format, args)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

func write(level, component, format string, args []any) {
	mu.Lock()
	defer mu.Unlock()
	if !verbose {
		return
	}
	prefix := "[" + level + "] "
	if component != "" {
		prefix += component + ": "
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}
