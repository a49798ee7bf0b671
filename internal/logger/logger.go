package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/CavaJ/ImagingInterview/internal/config"
)

// Level orders log severities; messages below the configured level are dropped.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

// ParseLevel maps a config string to a Level, defaulting to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarning
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger provides leveled logging (debug/info/warning/error) to files and stdout/stderr.
type Logger struct {
	debugLog   *log.Logger
	infoLog    *log.Logger
	warningLog *log.Logger
	errorLog   *log.Logger
	level      Level
	logDir     string
	files      []*os.File
	mu         sync.Mutex
}

// NewLogger creates a Logger writing to the console and to per-level files
// inside the configured log directory.
func NewLogger(cfg *config.Config) (*Logger, error) {
	if err := os.MkdirAll(cfg.LogDirectory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logger := &Logger{
		logDir: cfg.LogDirectory,
		level:  ParseLevel(cfg.LogLevel),
	}

	if err := logger.setupLoggers(cfg.Quiet); err != nil {
		logger.Close()
		return nil, err
	}
	return logger, nil
}

// NewWithWriters builds a Logger that writes every level to the given writers
// and keeps no files. Passing io.Discard silences a level.
func NewWithWriters(info, warning, errs io.Writer, level Level) *Logger {
	l := &Logger{level: level}
	l.initLoggers(info, info, warning, errs)
	return l
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return NewWithWriters(io.Discard, io.Discard, io.Discard, LevelError)
}

// setupLoggers opens the per-level files and fans them out with the console.
func (l *Logger) setupLoggers(quiet bool) error {
	infoFile, err := l.openLogFile(filepath.Join(l.logDir, "info.log"))
	if err != nil {
		return err
	}
	warningFile, err := l.openLogFile(filepath.Join(l.logDir, "warning.log"))
	if err != nil {
		return err
	}
	errorFile, err := l.openLogFile(filepath.Join(l.logDir, "error.log"))
	if err != nil {
		return err
	}

	var stdout, stderr io.Writer = os.Stdout, os.Stderr
	if quiet {
		stdout = io.Discard
	}

	infoWriter := io.MultiWriter(stdout, infoFile)
	warningWriter := io.MultiWriter(stdout, warningFile)
	errorWriter := io.MultiWriter(stderr, errorFile)

	l.initLoggers(infoWriter, infoWriter, warningWriter, errorWriter)
	return nil
}

func (l *Logger) initLoggers(debug, info, warning, errs io.Writer) {
	l.debugLog = log.New(debug, "DEBUG   ", log.Ldate|log.Ltime)
	l.infoLog = log.New(info, "INFO    ", log.Ldate|log.Ltime)
	l.warningLog = log.New(warning, "WARNING ", log.Ldate|log.Ltime)
	l.errorLog = log.New(errs, "ERROR   ", log.Ldate|log.Ltime)
}

// openLogFile opens or creates a log file for appending.
func (l *Logger) openLogFile(filename string) (*os.File, error) {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", filename, err)
	}
	l.files = append(l.files, file)
	return file, nil
}

// Debug writes a formatted debug-level log entry.
func (l *Logger) Debug(format string, v ...interface{}) {
	l.write(LevelDebug, l.debugLog, format, v...)
}

// Info writes a formatted info-level log entry.
func (l *Logger) Info(format string, v ...interface{}) {
	l.write(LevelInfo, l.infoLog, format, v...)
}

// Warning writes a formatted warning-level log entry.
func (l *Logger) Warning(format string, v ...interface{}) {
	l.write(LevelWarning, l.warningLog, format, v...)
}

// Error writes a formatted error-level log entry. Errors are never filtered.
func (l *Logger) Error(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errorLog.Printf(format, v...)
}

func (l *Logger) write(level Level, target *log.Logger, format string, v ...interface{}) {
	if level < l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	target.Printf(format, v...)
}

// LogDirectory returns the directory holding the log files, empty for writer-only loggers.
func (l *Logger) LogDirectory() string {
	return l.logDir
}

// CleanLogs truncates the specified log file.
func (l *Logger) CleanLogs(fileName string) error {
	if l.logDir == "" {
		return nil
	}
	filePath := filepath.Join(l.logDir, filepath.Base(fileName))
	file, err := os.OpenFile(filePath, os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		l.Error("Error opening file: %v", err)
		return err
	}
	defer file.Close()

	l.Info("Log %s has been cleared", fileName)
	return nil
}

// Close releases the log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	var firstErr error
	for _, f := range l.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.files = nil
	return firstErr
}
