// internal/discovery/tcp/scanner.go
package tcp

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"go.uber.org/zap"

	"escpos-service/internal/discovery"
	"escpos-service/internal/model"
)

// RawPrintPort is the conventional raw (JetDirect) print port
const RawPrintPort = 9100

// Scanner lists local addresses a POS host could print to
type Scanner struct {
	logger      *zap.Logger
	port        int
	dialTimeout time.Duration
	interfaces  func() ([]net.Addr, error)
}

// NewScanner creates a new TCP scanner for port, or RawPrintPort when 0
func NewScanner(logger *zap.Logger, port int) *Scanner {
	if port == 0 {
		port = RawPrintPort
	}
	return &Scanner{
		logger:      logger.With(zap.String("scanner", "tcp")),
		port:        port,
		dialTimeout: 200 * time.Millisecond,
		interfaces:  net.InterfaceAddrs,
	}
}

// GetScannerType returns scanner type
func (s *Scanner) GetScannerType() string {
	return "tcp"
}

// IsAvailable checks if TCP scanning is available
func (s *Scanner) IsAvailable() bool {
	return true
}

// Scan reports one candidate listen address per local IPv4 address and
// whether something already accepts connections there
func (s *Scanner) Scan(ctx context.Context) ([]*discovery.DiscoveredPort, error) {
	addrs, err := s.interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to list interface addresses: %w", err)
	}

	dialer := net.Dialer{Timeout: s.dialTimeout}
	ports := []*discovery.DiscoveredPort{}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.To4() == nil {
			continue
		}

		address := net.JoinHostPort(ipNet.IP.String(), strconv.Itoa(s.port))
		inUse := false
		if conn, err := dialer.DialContext(ctx, "tcp", address); err == nil {
			conn.Close()
			inUse = true
		}

		ports = append(ports, &discovery.DiscoveredPort{
			Type:        model.SourceTypeTCP,
			Address:     address,
			Description: "raw print port",
			InUse:       inUse,
			Confidence:  0.3,
		})
	}

	s.logger.Debug("TCP scan completed", zap.Int("ports_found", len(ports)))
	return ports, nil
}
