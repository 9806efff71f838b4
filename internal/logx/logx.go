package logx

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"gridstack/internal/paths"
)

// New creates a logger that writes to a timestamped file inside the
// workspace's logs directory. Every line is prefixed with a fresh request id,
// which is also returned so callers can report it. The returned closer should
// be closed when logging is no longer needed.
func New(ws paths.Workspace) (*log.Logger, string, io.Closer, error) {
	if err := paths.EnsureDir(ws.LogsDir); err != nil {
		return nil, "", nil, fmt.Errorf("ensure logs directory: %w", err)
	}

	requestID := uuid.NewString()
	filename := time.Now().Format("20060102-150405") + "-" + requestID[:8] + ".log"
	file, err := os.OpenFile(filepath.Join(ws.LogsDir, filename), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, "", nil, fmt.Errorf("open log file: %w", err)
	}

	logger := log.New(file, "["+requestID+"] ", log.LstdFlags|log.Lmicroseconds|log.Lmsgprefix)
	return logger, requestID, file, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}
