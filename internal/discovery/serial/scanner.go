// internal/discovery/serial/scanner.go
package serial

import (
	"context"
	"fmt"
	"strings"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
	"go.uber.org/zap"

	"escpos-service/internal/discovery"
	"escpos-service/internal/model"
)

// Scanner lists serial ports, including USB-serial adapters
type Scanner struct {
	logger *zap.Logger
	inUse  func(address string) bool
}

// NewScanner creates a new serial scanner. inUse may be nil
func NewScanner(logger *zap.Logger, inUse func(address string) bool) *Scanner {
	if inUse == nil {
		inUse = func(string) bool { return false }
	}
	return &Scanner{
		logger: logger.With(zap.String("scanner", "serial")),
		inUse:  inUse,
	}
}

// GetScannerType returns scanner type
func (s *Scanner) GetScannerType() string {
	return "serial"
}

// IsAvailable checks if serial scanning is available
func (s *Scanner) IsAvailable() bool {
	return true
}

// Scan lists serial ports with their USB identity where known
func (s *Scanner) Scan(ctx context.Context) ([]*discovery.DiscoveredPort, error) {
	s.logger.Debug("Starting serial port scan")

	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		s.logger.Debug("Detailed port listing failed, falling back", zap.Error(err))
		return s.scanNames()
	}

	ports := make([]*discovery.DiscoveredPort, 0, len(details))
	for _, d := range details {
		if ctx.Err() != nil {
			return ports, ctx.Err()
		}
		port := &discovery.DiscoveredPort{
			Type:       model.SourceTypeSerial,
			Address:    d.Name,
			InUse:      s.inUse(d.Name),
			Confidence: 0.2,
		}
		if d.IsUSB {
			port.VendorID = strings.ToLower(d.VID)
			port.ProductID = strings.ToLower(d.PID)
			port.SerialNumber = d.SerialNumber
			port.Description = d.Product
			port.Confidence = 0.5
		}
		ports = append(ports, port)
	}

	s.logger.Debug("Serial scan completed", zap.Int("ports_found", len(ports)))
	return ports, nil
}

func (s *Scanner) scanNames() ([]*discovery.DiscoveredPort, error) {
	names, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to get serial ports: %w", err)
	}

	ports := make([]*discovery.DiscoveredPort, 0, len(names))
	for _, name := range names {
		ports = append(ports, &discovery.DiscoveredPort{
			Type:       model.SourceTypeSerial,
			Address:    name,
			InUse:      s.inUse(name),
			Confidence: 0.2,
		})
	}
	return ports, nil
}
