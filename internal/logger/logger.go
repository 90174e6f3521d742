// Package logger is docket's leveled stderr logger. The threshold defaults
// to LevelError so a plain run prints only failures that degraded the
// export; --verbose or --log-level lowers it.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Level orders log messages by severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel accepts a level name in any case.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelError, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", s)
}

var (
	mu        sync.RWMutex
	threshold Level     = LevelError
	output    io.Writer = os.Stderr
)

// SetLevel sets the lowest level that is printed.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	threshold = l
}

// SetVerbose prints everything when v is true and only errors otherwise.
func SetVerbose(v bool) {
	if v {
		SetLevel(LevelDebug)
	} else {
		SetLevel(LevelError)
	}
}

// IsVerbose reports whether debug messages are printed.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return threshold <= LevelDebug
}

// SetOutput redirects log output. Tests use it to capture messages.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func logf(l Level, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if l < threshold {
		return
	}
	fmt.Fprintf(output, "[%s] %s\n", l, fmt.Sprintf(format, args...))
}

func Debug(format string, args ...any) { logf(LevelDebug, format, args...) }
func Info(format string, args ...any)  { logf(LevelInfo, format, args...) }
func Warn(format string, args ...any)  { logf(LevelWarn, format, args...) }
func Error(format string, args ...any) { logf(LevelError, format, args...) }

// Section prints a header between the phases of a run at info level.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if threshold <= LevelInfo {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}
