// Package logging provides the process-wide debug log for a gitscribe
// invocation. The log is written to a file, never to the terminal, because
// stdout and stderr belong to the interactive review UI.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DebugLogger records pipeline activity for a single invocation. The backing
// file is created lazily on the first write, so sessions that never log leave
// no file behind. All methods are nil-safe; callers hold whatever
// GetCurrentLogger returned without checking.
type DebugLogger struct {
	sessionID string
	dir       string
	mu        sync.Mutex
	file      *os.File
	zl        zerolog.Logger
	startTime time.Time
}

var (
	currentLogger *DebugLogger
	loggerMutex   sync.Mutex
)

// StartSessionLogging installs a logger for this invocation. Any previous
// logger is closed first.
func StartSessionLogging(sessionID string) *DebugLogger {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()

	if currentLogger != nil {
		currentLogger.Close()
	}

	dir := defaultLogDir()
	logger := &DebugLogger{
		sessionID: sessionID,
		dir:       dir,
		startTime: time.Now(),
	}
	currentLogger = logger
	return logger
}

// GetCurrentLogger returns the active logger, or nil when logging was never
// started.
func GetCurrentLogger() *DebugLogger {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()
	return currentLogger
}

func defaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "gitscribe", "logs")
	}
	return filepath.Join(home, ".gitscribe", "logs")
}

// ensureFile opens the log file on first use. Caller holds d.mu.
func (d *DebugLogger) ensureFile() error {
	if d.file != nil {
		return nil
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	name := fmt.Sprintf("gitscribe_%s.log", d.startTime.Format("20060102_150405"))
	file, err := os.OpenFile(filepath.Join(d.dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	d.file = file
	d.zl = zerolog.New(file).With().
		Timestamp().
		Str("session", d.sessionID).
		Logger()
	return nil
}

// Log writes a formatted debug line.
func (d *DebugLogger) Log(format string, args ...interface{}) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ensureFile() != nil {
		return
	}
	d.zl.Debug().
		Dur("elapsed", time.Since(d.startTime).Round(time.Millisecond)).
		Msgf(format, args...)
}

// LogError records an error with the operation it occurred in.
func (d *DebugLogger) LogError(operation string, err error) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ensureFile() != nil {
		return
	}
	d.zl.Error().
		Str("operation", operation).
		Err(err).
		Msg("operation failed")
}

// LogRequest records an outgoing generation request.
func (d *DebugLogger) LogRequest(requestID, provider string, systemPrompt, userPrompt string) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ensureFile() != nil {
		return
	}
	d.zl.Debug().
		Str("request_id", requestID).
		Str("provider", provider).
		Int("system_prompt_chars", len(systemPrompt)).
		Int("user_prompt_chars", len(userPrompt)).
		Str("user_prompt", userPrompt).
		Msg("llm request")
}

// LogResponse records the raw provider response for a request.
func (d *DebugLogger) LogResponse(requestID string, response string) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ensureFile() != nil {
		return
	}
	d.zl.Debug().
		Str("request_id", requestID).
		Int("response_chars", len(response)).
		Str("response", response).
		Msg("llm response")
}

// Close flushes and closes the log file if one was opened.
func (d *DebugLogger) Close() {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.file == nil {
		return
	}
	d.zl.Debug().
		Dur("total_duration", time.Since(d.startTime).Round(time.Millisecond)).
		Msg("session log closed")
	d.file.Close()
	d.file = nil
}
