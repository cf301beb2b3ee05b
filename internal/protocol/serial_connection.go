// internal/protocol/serial_connection.go
package protocol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"

	"escpos-service/internal/config"
	"escpos-service/internal/model"
)

// SerialSource captures jobs from a serial line the POS host prints to
type SerialSource struct {
	statsTracker
	name   string
	config config.SerialPortConfig
	port   serial.Port
	logger *zap.Logger
	mutex  sync.RWMutex
}

// NewSerialSource creates a new serial capture source
func NewSerialSource(name string, cfg config.SerialPortConfig, logger *zap.Logger) *SerialSource {
	cfg = defaultSerialConfig(cfg)
	return &SerialSource{
		name:   name,
		config: cfg,
		logger: logger.With(
			zap.String("protocol", "serial"),
			zap.String("port", cfg.Port),
		),
	}
}

func serialMode(cfg config.SerialPortConfig) *serial.Mode {
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		StopBits: serial.OneStopBit,
	}
	if cfg.StopBits == 2 {
		mode.StopBits = serial.TwoStopBits
	}

	switch cfg.Parity {
	case "odd":
		mode.Parity = serial.OddParity
	case "even":
		mode.Parity = serial.EvenParity
	default:
		mode.Parity = serial.NoParity
	}
	return mode
}

// Open opens the serial port
func (ss *SerialSource) Open(ctx context.Context) error {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()

	if ss.port != nil {
		return nil
	}

	ss.logger.Info("Opening serial port", zap.Int("baud_rate", ss.config.BaudRate))

	port, err := serial.Open(ss.config.Port, serialMode(ss.config))
	if err != nil {
		ss.recordError()
		return fmt.Errorf("failed to open serial port: %w", err)
	}

	if err := port.SetReadTimeout(ss.config.Timeout); err != nil {
		port.Close()
		return fmt.Errorf("failed to set read timeout: %w", err)
	}

	ss.port = port
	ss.setConnected(true)
	return nil
}

// Close closes the serial port
func (ss *SerialSource) Close() error {
	ss.mutex.Lock()
	defer ss.mutex.Unlock()

	if ss.port == nil {
		return nil
	}

	err := ss.port.Close()
	ss.port = nil
	ss.setConnected(false)
	if err != nil {
		return fmt.Errorf("failed to close serial port: %w", err)
	}
	return nil
}

// IsOpen returns whether the port is open
func (ss *SerialSource) IsOpen() bool {
	ss.mutex.RLock()
	defer ss.mutex.RUnlock()
	return ss.port != nil
}

// Read reads whatever arrived within the read timeout
func (ss *SerialSource) Read(ctx context.Context, maxBytes int) ([]byte, error) {
	ss.mutex.RLock()
	port := ss.port
	ss.mutex.RUnlock()

	if port == nil {
		return nil, fmt.Errorf("serial port not open")
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	buffer := make([]byte, maxBytes)
	n, err := port.Read(buffer)
	if err != nil && !errors.Is(err, io.EOF) {
		ss.recordError()
		return nil, fmt.Errorf("failed to read from serial port: %w", err)
	}
	ss.recordRead(n)
	return buffer[:n], nil
}

// Name returns the configured source name
func (ss *SerialSource) Name() string { return ss.name }

// Type returns the source type
func (ss *SerialSource) Type() model.SourceType { return model.SourceTypeSerial }

// Address returns the port path
func (ss *SerialSource) Address() string { return ss.config.Port }

func defaultSerialConfig(cfg config.SerialPortConfig) config.SerialPortConfig {
	if cfg.BaudRate == 0 {
		cfg.BaudRate = 9600
	}
	if cfg.DataBits == 0 {
		cfg.DataBits = 8
	}
	if cfg.StopBits == 0 {
		cfg.StopBits = 1
	}
	if cfg.Parity == "" {
		cfg.Parity = "none"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 100 * time.Millisecond
	}
	return cfg
}
