// Package logging provides session-scoped logging for a single diskforge
// run. Every component call site gets a Logger tagged with its component
// name and the run's ID, writing to both a per-run log file and (for
// Info/Error) the console.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Session owns the run's log file and is shared by every component Logger.
type Session struct {
	mu      sync.Mutex
	file    *os.File
	path    string
	runID   string
	console bool
}

// NewSession creates the run's log file under logDir, named by the run ID.
func NewSession(logDir, runID string, console bool) (*Session, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: create log dir: %w", err)
	}
	path := filepath.Join(logDir, fmt.Sprintf("run-%s.log", runID))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	s := &Session{file: file, path: path, runID: runID, console: console}
	s.writeLine("INFO", "session", "run %s started at %s", runID, time.Now().Format(time.RFC3339))
	return s, nil
}

// Path returns the session log file's path.
func (s *Session) Path() string { return s.path }

// Close closes the underlying log file.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	fmt.Fprintf(s.file, "[%s] INFO session: run %s ended at %s\n", time.Now().Format("15:04:05"), s.runID, time.Now().Format(time.RFC3339))
	return s.file.Close()
}

// With returns a Logger that prefixes every line with component.
func (s *Session) With(component string) *Logger {
	return &Logger{session: s, component: component}
}

func (s *Session) writeLine(level, component, format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("15:04:05")
	if s.file != nil {
		fmt.Fprintf(s.file, "[%s] %s %s %s: %s\n", timestamp, s.runID, level, component, msg)
	}
	if s.console && (level == "INFO" || level == "ERROR") {
		if level == "ERROR" {
			fmt.Fprintf(os.Stderr, "%s %s: %s\n", s.runID, component, msg)
		} else {
			fmt.Printf("%s %s: %s\n", s.runID, component, msg)
		}
	}
}

// Logger is a component-scoped handle onto a Session.
type Logger struct {
	session   *Session
	component string
}

// Debug writes a debug-level line to the log file only.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.session.writeLine("DEBUG", l.component, format, args...)
}

// Info writes an info-level line to the log file and console.
func (l *Logger) Info(format string, args ...interface{}) {
	l.session.writeLine("INFO", l.component, format, args...)
}

// Error writes an error-level line to the log file and console.
func (l *Logger) Error(format string, args ...interface{}) {
	l.session.writeLine("ERROR", l.component, format, args...)
}
