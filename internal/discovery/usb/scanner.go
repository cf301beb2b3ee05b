// internal/discovery/usb/scanner.go
package usb

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/google/gousb"
	"go.uber.org/zap"

	"escpos-service/internal/discovery"
	"escpos-service/internal/model"
)

// USBClassPrinter is the USB printer device/interface class
const USBClassPrinter = gousb.ClassPrinter

// Scanner implements USB printer discovery
type Scanner struct {
	logger       *zap.Logger
	knownDevices *DeviceDatabase
	timeout      time.Duration
}

// NewScanner creates a new USB scanner
func NewScanner(logger *zap.Logger, timeout time.Duration) *Scanner {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Scanner{
		logger:       logger.With(zap.String("scanner", "usb")),
		knownDevices: NewDeviceDatabase(),
		timeout:      timeout,
	}
}

// GetScannerType returns scanner type identifier
func (s *Scanner) GetScannerType() string {
	return "usb"
}

// IsAvailable checks if USB scanning is available on this system
func (s *Scanner) IsAvailable() bool {
	switch runtime.GOOS {
	case "linux", "darwin", "windows":
		return true
	default:
		s.logger.Warn("USB scanning support unknown for OS", zap.String("os", runtime.GOOS))
		return false
	}
}

// Scan lists USB devices that are printers by class or by known vendor
func (s *Scanner) Scan(ctx context.Context) ([]*discovery.DiscoveredPort, error) {
	startTime := time.Now()

	usbCtx := gousb.NewContext()
	defer func() {
		if err := usbCtx.Close(); err != nil {
			s.logger.Warn("Failed to close USB context", zap.Error(err))
		}
	}()

	devices, err := usbCtx.OpenDevices(s.shouldExamineDevice)
	defer s.closeAllDevices(devices)
	if err != nil && len(devices) == 0 {
		return nil, fmt.Errorf("failed to enumerate USB devices: %w", err)
	}

	scanCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ports := make([]*discovery.DiscoveredPort, 0, len(devices))
	for _, device := range devices {
		if scanCtx.Err() != nil {
			break
		}
		ports = append(ports, s.describeDevice(device))
	}

	s.logger.Info("USB scan completed",
		zap.Int("devices_found", len(ports)),
		zap.Duration("scan_duration", time.Since(startTime)),
	)
	return ports, nil
}

// shouldExamineDevice selects printers by class or known vendor
func (s *Scanner) shouldExamineDevice(desc *gousb.DeviceDesc) bool {
	return s.knownDevices.IsKnownVendor(desc.Vendor) || HasPrinterInterface(desc)
}

// HasPrinterInterface reports whether any interface of desc is a printer
func HasPrinterInterface(desc *gousb.DeviceDesc) bool {
	if desc.Class == USBClassPrinter {
		return true
	}
	for _, cfg := range desc.Configs {
		for _, intf := range cfg.Interfaces {
			for _, alt := range intf.AltSettings {
				if alt.Class == USBClassPrinter {
					return true
				}
			}
		}
	}
	return false
}

// describeDevice builds a port entry for one device
func (s *Scanner) describeDevice(device *gousb.Device) *discovery.DiscoveredPort {
	desc := device.Desc
	port := &discovery.DiscoveredPort{
		Type:       model.SourceTypeUSB,
		Address:    fmt.Sprintf("%s:%s", desc.Vendor, desc.Product),
		VendorID:   desc.Vendor.String(),
		ProductID:  desc.Product.String(),
		Printer:    HasPrinterInterface(desc),
		Confidence: 0.4,
	}

	if vendor := s.knownDevices.GetVendorInfo(desc.Vendor); vendor != nil {
		port.Manufacturer = vendor.Name
		port.Confidence = 0.6
		if name := vendor.GetProduct(desc.Product); name != "" {
			port.Description = name
			port.Confidence = 0.9
		}
	}

	if port.Manufacturer == "" {
		port.Manufacturer = s.stringDescriptor(device.Manufacturer)
	}
	if port.Description == "" {
		port.Description = s.stringDescriptor(device.Product)
	}
	port.SerialNumber = s.stringDescriptor(device.SerialNumber)
	return port
}

// stringDescriptor reads one string descriptor, ignoring failures
func (s *Scanner) stringDescriptor(read func() (string, error)) string {
	str, err := read()
	if err != nil {
		s.logger.Debug("Failed to get string descriptor", zap.Error(err))
		return ""
	}
	return strings.TrimSpace(str)
}

// closeAllDevices safely closes all opened USB devices
func (s *Scanner) closeAllDevices(devices []*gousb.Device) {
	for _, device := range devices {
		if device == nil {
			continue
		}
		if err := device.Close(); err != nil {
			s.logger.Warn("Failed to close USB device", zap.Error(err))
		}
	}
}
