package middleware

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/shrek82/stationd/executor"
)

// SlowLogMiddleware logs statements whose execution exceeded the
// threshold, after the batch completes.
type SlowLogMiddleware struct {
	Threshold time.Duration
	LogPath   string
	logger    *log.Logger
	file      *os.File
}

// NewSlowLog creates a SlowLogMiddleware. Statements slower than
// threshold are logged to logPath, or to standard output when empty.
func NewSlowLog(threshold time.Duration, logPath string) *SlowLogMiddleware {
	return &SlowLogMiddleware{Threshold: threshold, LogPath: logPath}
}

// SetOutput redirects the log, mainly for tests.
func (m *SlowLogMiddleware) SetOutput(w io.Writer) {
	m.logger = log.New(w, "[SLOW SQL] ", log.LstdFlags)
}

func (m *SlowLogMiddleware) Name() string { return "SlowLog" }

func (m *SlowLogMiddleware) Init(e *executor.Executor) error {
	if m.logger != nil {
		return nil
	}
	if m.LogPath != "" {
		f, err := os.OpenFile(m.LogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open slow log file: %w", err)
		}
		m.file = f
		m.logger = log.New(f, "[SLOW SQL] ", log.LstdFlags)
	} else {
		m.logger = log.New(os.Stdout, "[SLOW SQL] ", log.LstdFlags)
	}
	return nil
}

func (m *SlowLogMiddleware) Shutdown() error {
	if m.file != nil {
		return m.file.Close()
	}
	return nil
}

func (m *SlowLogMiddleware) Process(ctx context.Context, batch *executor.Batch, next executor.BatchFunc) ([]executor.Outcome, error) {
	outcomes, err := next(ctx, batch)
	for _, out := range outcomes {
		if out.Duration > m.Threshold {
			m.logger.Printf("task=%s duration=%v success=%t sql=%s", out.Name, out.Duration, out.Success, out.SQL)
		}
	}
	return outcomes, err
}
