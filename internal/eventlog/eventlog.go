// Package eventlog is the watchdog's append-only diagnostic sink. It keeps
// the historical line shape ("[HH:MM:SS] role | SEV | message") while
// routing through logrus so levels, hooks, and best-effort file handling
// follow the same idiom the rest of the supervision stack uses.
package eventlog

import (
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Path is the fixed log file the original design writes to, relative to
// the process's working directory.
const Path = "logger.txt"

// Logger appends one line per event. It opens and closes the file on every
// write, same as the original: concurrent writers interleave lines, which
// is an accepted diagnostic cost rather than something worth a shared
// file handle and its own lock contention.
type Logger struct {
	identifier string
	mu         sync.Mutex
	path       string
}

// New returns a Logger tagged with identifier ("WatchDog" or "UserProc").
func New(identifier string) *Logger {
	return &Logger{identifier: identifier, path: Path}
}

// WithPath overrides the log file location, mainly so tests don't trample
// a shared logger.txt in the repo root.
func (l *Logger) WithPath(path string) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.path = path
	return l
}

// Info logs an informational event, e.g. a heartbeat send.
func (l *Logger) Info(msg string) { l.write(logrus.InfoLevel, msg) }

// Warn logs a degraded-but-recoverable event, e.g. a short signal count.
func (l *Logger) Warn(msg string) { l.write(logrus.WarnLevel, msg) }

// Err logs an operational failure or an expected-but-severe event such as
// "Reviving other process".
func (l *Logger) Err(msg string) { l.write(logrus.ErrorLevel, msg) }

func (l *Logger) write(level logrus.Level, msg string) {
	l.mu.Lock()
	path := l.path
	identifier := l.identifier
	l.mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		// Logging is best-effort: a failed open must never be fatal to
		// the caller.
		return
	}
	defer f.Close()

	logger := logrus.New()
	logger.SetOutput(f)
	logger.SetFormatter(&lineFormatter{identifier: identifier})
	logger.SetLevel(logrus.InfoLevel)

	switch level {
	case logrus.WarnLevel:
		logger.Warn(msg)
	case logrus.ErrorLevel:
		logger.Error(msg)
	default:
		logger.Info(msg)
	}
}

// lineFormatter renders the exact historical wire format, independent of
// whatever logrus would otherwise choose (text or JSON).
type lineFormatter struct {
	identifier string
}

func (f *lineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	sev := severityTag(entry.Level)
	line := fmt.Sprintf("[%s] %s | %s | %s\n",
		entry.Time.Format("15:04:05"), f.identifier, sev, entry.Message)
	return []byte(line), nil
}

func severityTag(level logrus.Level) string {
	switch level {
	case logrus.ErrorLevel:
		return "ERR "
	case logrus.WarnLevel:
		return "WARN"
	default:
		return "INFO"
	}
}
