package infrastructure

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// RunLogTimestampLayout is the ISO-8601 layout prefixed to every run log line.
const RunLogTimestampLayout = "2006-01-02T15:04:05.000000"

// RunLog is the plain-text, append-only log of a report run. It holds one
// file handle for the life of the run; every line is flushed as it is
// written so a crash keeps what was logged so far.
type RunLog struct {
	mu   sync.Mutex
	path string
	file *os.File
	w    *bufio.Writer
	echo io.Writer
	now  func() time.Time
}

// OpenRunLog opens path for appending, creating it and its directory when
// absent. Lines are also copied to echo when it is non-nil.
func OpenRunLog(path string, echo io.Writer) (*RunLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create run log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open run log %s: %w", path, err)
	}
	return &RunLog{
		path: path,
		file: f,
		w:    bufio.NewWriter(f),
		echo: echo,
		now:  time.Now,
	}, nil
}

// Printf writes one timestamped line.
func (l *RunLog) Printf(format string, args ...any) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return fmt.Errorf("run log is closed")
	}

	line := fmt.Sprintf("%s - %s\n", l.now().Format(RunLogTimestampLayout), fmt.Sprintf(format, args...))
	if _, err := l.w.WriteString(line); err != nil {
		return fmt.Errorf("failed to write run log: %w", err)
	}
	if err := l.w.Flush(); err != nil {
		return fmt.Errorf("failed to flush run log: %w", err)
	}
	if l.echo != nil {
		_, _ = io.WriteString(l.echo, line)
	}
	return nil
}

// Path returns the file name of the run log.
func (l *RunLog) Path() string {
	return l.path
}

// Close flushes and closes the log. It is safe to call more than once.
func (l *RunLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	flushErr := l.w.Flush()
	closeErr := l.file.Close()
	l.file = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
