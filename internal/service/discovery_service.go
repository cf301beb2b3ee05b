// internal/service/discovery_service.go
package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"escpos-service/internal/config"
	"escpos-service/internal/discovery"
	"escpos-service/internal/discovery/serial"
	"escpos-service/internal/discovery/tcp"
	"escpos-service/internal/discovery/usb"
	"escpos-service/internal/model"
	"escpos-service/internal/utils"
)

// DiscoveryService finds ports print jobs can be captured from
type DiscoveryService struct {
	scannerManager *discovery.ScannerManager
	config         *config.Config
	logger         *utils.ServiceLogger
}

// NewDiscoveryService creates a new discovery service
func NewDiscoveryService(config *config.Config, logger *zap.Logger) *DiscoveryService {
	ds := &DiscoveryService{
		scannerManager: discovery.NewScannerManager(logger),
		config:         config,
		logger:         utils.NewServiceLogger(logger, "discovery-service"),
	}
	ds.initializeScanners()
	return ds
}

// newDiscoveryServiceWith wires a prepared scanner manager
func newDiscoveryServiceWith(manager *discovery.ScannerManager, config *config.Config, logger *zap.Logger) *DiscoveryService {
	return &DiscoveryService{
		scannerManager: manager,
		config:         config,
		logger:         utils.NewServiceLogger(logger, "discovery-service"),
	}
}

// initializeScanners registers all available scanners
func (ds *DiscoveryService) initializeScanners() {
	if serialScanner := serial.NewScanner(ds.logger.Logger, nil); serialScanner.IsAvailable() {
		ds.scannerManager.RegisterScanner(serialScanner)
	}

	if usbScanner := usb.NewScanner(ds.logger.Logger, 0); usbScanner.IsAvailable() {
		ds.scannerManager.RegisterScanner(usbScanner)
	}

	if tcpScanner := tcp.NewScanner(ds.logger.Logger, tcp.RawPrintPort); tcpScanner.IsAvailable() {
		ds.scannerManager.RegisterScanner(tcpScanner)
	}

	ds.logger.Info("Discovery scanners initialized",
		zap.Strings("available_scanners", ds.scannerManager.GetAvailableScanners()),
	)
}

// AvailableScanners lists usable scanner types
func (ds *DiscoveryService) AvailableScanners() []string {
	return ds.scannerManager.GetAvailableScanners()
}

// ScanPorts scans for capture ports; scanType is all, serial, usb or tcp
func (ds *DiscoveryService) ScanPorts(ctx context.Context, scanType string) ([]*discovery.DiscoveredPort, error) {
	ds.logger.Info("Starting port scan", zap.String("type", scanType))

	var ports []*discovery.DiscoveredPort
	var err error

	switch scanType {
	case "", "all":
		ports, err = ds.scannerManager.ScanAll(ctx)
	case "serial", "usb", "tcp":
		ports, err = ds.scannerManager.ScanByType(ctx, scanType)
	default:
		return nil, fmt.Errorf("unsupported scan type: %s", scanType)
	}
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	for _, port := range ports {
		if ds.configured(port) {
			port.InUse = true
		}
	}

	ds.logger.Info("Port scan completed",
		zap.Int("ports_found", len(ports)),
		zap.String("scan_type", scanType),
	)
	return ports, nil
}

// configured reports whether a capture source already uses port
func (ds *DiscoveryService) configured(port *discovery.DiscoveredPort) bool {
	for _, src := range ds.config.Capture.Sources {
		switch port.Type {
		case model.SourceTypeSerial:
			if src.Type == config.SourceSerial && src.Serial.Port == port.Address {
				return true
			}
		case model.SourceTypeUSB:
			if src.Type == config.SourceUSB && usbAddress(src.USB) == port.Address {
				return true
			}
		}
	}
	return false
}

func usbAddress(cfg config.USBPortConfig) string {
	return fmt.Sprintf("%04x:%04x", cfg.VendorID, cfg.ProductID)
}

// SuggestSource proposes a capture source configuration for a port
func SuggestSource(port *discovery.DiscoveredPort) (*config.CaptureSource, error) {
	src := &config.CaptureSource{Table: "escpos"}

	switch port.Type {
	case model.SourceTypeSerial:
		src.Type = config.SourceSerial
		src.Name = "serial-" + strings.TrimPrefix(strings.ReplaceAll(port.Address, "/", "-"), "-dev-")
		src.Serial = config.SerialPortConfig{Port: port.Address, BaudRate: 9600, DataBits: 8, StopBits: 1, Parity: "none"}
	case model.SourceTypeUSB:
		vid, err := strconv.ParseUint(port.VendorID, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid vendor ID %q: %w", port.VendorID, err)
		}
		pid, err := strconv.ParseUint(port.ProductID, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid product ID %q: %w", port.ProductID, err)
		}
		src.Type = config.SourceUSB
		src.Name = fmt.Sprintf("usb-%04x-%04x", vid, pid)
		src.USB = config.USBPortConfig{VendorID: uint16(vid), ProductID: uint16(pid)}
		if vid == 0x04b8 {
			src.Table = "epson"
		}
	case model.SourceTypeTCP:
		src.Type = config.SourceTCP
		src.Name = "tcp-" + strings.ReplaceAll(port.Address, ":", "-")
		src.TCP = config.TCPPortConfig{Listen: port.Address}
	default:
		return nil, fmt.Errorf("unsupported port type: %s", port.Type)
	}
	return src, nil
}
