// internal/protocol/protocol.go
package protocol

import (
	"context"
	"sync"
	"time"

	"escpos-service/internal/model"
)

// CaptureSource is a port print jobs arrive on.
//
// Read returns whatever bytes arrived within the source's read timeout; an
// empty result with a nil error means the line was idle. A source that knows
// where a job ends (a TCP connection closing) returns io.EOF at that point
// and keeps serving later jobs on the next Read
type CaptureSource interface {
	// Connection lifecycle
	Open(ctx context.Context) error
	Close() error
	IsOpen() bool

	// Data communication
	Read(ctx context.Context, maxBytes int) ([]byte, error)

	// Source information
	Name() string
	Type() model.SourceType
	Address() string
	Stats() ProtocolStats
}

// ProtocolStats provides protocol-level statistics
type ProtocolStats struct {
	BytesRead    int64     `json:"bytes_read"`
	ReadCount    int64     `json:"read_count"`
	ErrorCount   int64     `json:"error_count"`
	LastActivity time.Time `json:"last_activity"`
	IsConnected  bool      `json:"is_connected"`
}

// statsTracker is embedded by every source
type statsTracker struct {
	mu    sync.Mutex
	stats ProtocolStats
}

func (s *statsTracker) recordRead(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n == 0 {
		return
	}
	s.stats.BytesRead += int64(n)
	s.stats.ReadCount++
	s.stats.LastActivity = time.Now()
}

func (s *statsTracker) recordError() {
	s.mu.Lock()
	s.stats.ErrorCount++
	s.mu.Unlock()
}

func (s *statsTracker) setConnected(v bool) {
	s.mu.Lock()
	s.stats.IsConnected = v
	s.mu.Unlock()
}

// Stats returns a snapshot of the counters
func (s *statsTracker) Stats() ProtocolStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}
