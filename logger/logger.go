package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
)

// LogLevel defines the severity of the log
type LogLevel int

const (
	LogLevelSilent LogLevel = iota
	LogLevelError
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// LogFormat defines the output format of the log
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// Logger is the interface for logging service messages and SQL executions.
type Logger interface {
	SetLevel(level LogLevel)
	SetFormat(format LogFormat)
	SetOutput(w io.Writer)
	WithFields(fields map[string]any) Logger
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	// SQL logs one statement execution: its task name, text, elapsed time
	// and terminal error (nil on success).
	SQL(name, sql string, duration time.Duration, err error)
}

// stdLogger is the default implementation of Logger.
type stdLogger struct {
	mu     sync.Mutex
	level  LogLevel
	format LogFormat
	writer io.Writer
	fields map[string]any
}

// NewStdLogger creates a text logger at info level writing to stdout.
func NewStdLogger() Logger {
	return &stdLogger{
		level:  LogLevelInfo,
		format: LogFormatText,
		writer: os.Stdout,
		fields: make(map[string]any),
	}
}

func (l *stdLogger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *stdLogger) SetFormat(format LogFormat) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.format = format
}

func (l *stdLogger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer = w
}

func (l *stdLogger) WithFields(fields map[string]any) Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &stdLogger{
		level:  l.level,
		format: l.format,
		writer: l.writer,
		fields: merged,
	}
}

func (l *stdLogger) Debug(format string, args ...any) {
	if l.level >= LogLevelDebug {
		l.log("DEBUG", fmt.Sprintf(format, args...), nil)
	}
}

func (l *stdLogger) Info(format string, args ...any) {
	if l.level >= LogLevelInfo {
		l.log("INFO", fmt.Sprintf(format, args...), nil)
	}
}

func (l *stdLogger) Warn(format string, args ...any) {
	if l.level >= LogLevelWarn {
		l.log("WARN", fmt.Sprintf(format, args...), nil)
	}
}

func (l *stdLogger) Error(format string, args ...any) {
	if l.level >= LogLevelError {
		l.log("ERROR", fmt.Sprintf(format, args...), nil)
	}
}

func (l *stdLogger) SQL(name, sql string, duration time.Duration, err error) {
	if err != nil {
		if l.level >= LogLevelError {
			l.log("SQL", fmt.Sprintf("task %q failed after %v: %v", name, duration, err), map[string]any{
				"task":     name,
				"duration": duration.String(),
				"error":    err.Error(),
			})
		}
		return
	}
	if l.level >= LogLevelInfo {
		l.log("SQL", fmt.Sprintf("%stask %q done in %v%s", sqlColor(sql), name, duration, ansiReset), map[string]any{
			"task":     name,
			"sql":      sql,
			"duration": duration.String(),
		})
	}
}

// log writes one record. extra carries structured fields used by JSON output
// in place of the formatted text message.
func (l *stdLogger) log(level, msg string, extra map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if l.format == LogFormatJSON {
		data := make(map[string]any, len(l.fields)+len(extra)+3)
		for k, v := range l.fields {
			data[k] = v
		}
		data["time"] = now.Format(time.RFC3339)
		data["level"] = level
		if extra != nil {
			for k, v := range extra {
				data[k] = v
			}
		} else {
			data["msg"] = msg
		}
		json.NewEncoder(l.writer).Encode(data)
		return
	}

	fieldStr := ""
	if len(l.fields) > 0 {
		fieldStr = fmt.Sprintf(" fields: %v", l.fields)
	}
	fmt.Fprintf(l.writer, "[STATIOND] %s %s: %s%s\n", now.Format("2006-01-02 15:04:05"), level, msg, fieldStr)
}

func sqlColor(sqlStr string) string {
	s := strings.TrimSpace(strings.ToUpper(sqlStr))
	switch {
	case strings.HasPrefix(s, "SELECT"):
		return ansiYellow
	case strings.HasPrefix(s, "INSERT"), strings.HasPrefix(s, "UPDATE"):
		return ansiGreen
	case strings.HasPrefix(s, "DELETE"):
		return ansiRed
	default:
		return ansiCyan
	}
}
