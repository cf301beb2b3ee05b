// internal/protocol/tcp_connection.go
package protocol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"escpos-service/internal/config"
	"escpos-service/internal/model"
)

// TCPSource listens on a raw print port (usually 9100). Every accepted
// connection carries one job; its close marks the job boundary
type TCPSource struct {
	statsTracker
	name     string
	config   config.TCPPortConfig
	listener *net.TCPListener
	conn     net.Conn
	logger   *zap.Logger
	mutex    sync.RWMutex
}

// NewTCPSource creates a new raw-port capture source
func NewTCPSource(name string, cfg config.TCPPortConfig, logger *zap.Logger) *TCPSource {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 100 * time.Millisecond
	}
	return &TCPSource{
		name:   name,
		config: cfg,
		logger: logger.With(
			zap.String("protocol", "tcp"),
			zap.String("listen", cfg.Listen),
		),
	}
}

// Open starts listening
func (ts *TCPSource) Open(ctx context.Context) error {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	if ts.listener != nil {
		return nil
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", ts.config.Listen)
	if err != nil {
		ts.recordError()
		return fmt.Errorf("failed to listen on %s: %w", ts.config.Listen, err)
	}

	ts.listener = ln.(*net.TCPListener)
	ts.setConnected(true)
	ts.logger.Info("Raw print port listening", zap.String("address", ts.listener.Addr().String()))
	return nil
}

// Close stops listening and drops any open connection
func (ts *TCPSource) Close() error {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	if ts.conn != nil {
		ts.conn.Close()
		ts.conn = nil
	}
	if ts.listener == nil {
		return nil
	}
	err := ts.listener.Close()
	ts.listener = nil
	ts.setConnected(false)
	if err != nil {
		return fmt.Errorf("failed to close listener: %w", err)
	}
	return nil
}

// IsOpen returns whether the listener is open
func (ts *TCPSource) IsOpen() bool {
	ts.mutex.RLock()
	defer ts.mutex.RUnlock()
	return ts.listener != nil
}

// Read returns bytes from the current connection, accepting one if none is
// open. io.EOF is returned once when a connection closes
func (ts *TCPSource) Read(ctx context.Context, maxBytes int) ([]byte, error) {
	ts.mutex.Lock()
	defer ts.mutex.Unlock()

	if ts.listener == nil {
		return nil, fmt.Errorf("tcp listener not open")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(ts.config.ReadTimeout)
	if ts.conn == nil {
		if err := ts.listener.SetDeadline(deadline); err != nil {
			return nil, fmt.Errorf("failed to set accept deadline: %w", err)
		}
		conn, err := ts.listener.Accept()
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				return nil, nil
			}
			ts.recordError()
			return nil, fmt.Errorf("failed to accept connection: %w", err)
		}
		ts.logger.Debug("Print client connected", zap.String("remote", conn.RemoteAddr().String()))
		ts.conn = conn
		deadline = time.Now().Add(ts.config.ReadTimeout)
	}

	if err := ts.conn.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("failed to set read deadline: %w", err)
	}
	buffer := make([]byte, maxBytes)
	n, err := ts.conn.Read(buffer)
	ts.recordRead(n)
	switch {
	case err == nil:
		return buffer[:n], nil
	case errors.Is(err, os.ErrDeadlineExceeded):
		return buffer[:n], nil
	case errors.Is(err, io.EOF):
		ts.conn.Close()
		ts.conn = nil
		return buffer[:n], io.EOF
	default:
		ts.conn.Close()
		ts.conn = nil
		ts.recordError()
		return buffer[:n], fmt.Errorf("failed to read from connection: %w", err)
	}
}

// Name returns the configured source name
func (ts *TCPSource) Name() string { return ts.name }

// Type returns the source type
func (ts *TCPSource) Type() model.SourceType { return model.SourceTypeTCP }

// Address returns the listening address
func (ts *TCPSource) Address() string {
	ts.mutex.RLock()
	defer ts.mutex.RUnlock()
	if ts.listener != nil {
		return ts.listener.Addr().String()
	}
	return ts.config.Listen
}
