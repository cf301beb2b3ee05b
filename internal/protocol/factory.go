// internal/protocol/factory.go
package protocol

import (
	"fmt"

	"go.uber.org/zap"

	"escpos-service/internal/config"
)

// NewCaptureSource creates a capture source from its configuration
func NewCaptureSource(cfg config.CaptureSource, logger *zap.Logger) (CaptureSource, error) {
	logger = logger.With(zap.String("source", cfg.Name))

	switch cfg.Type {
	case config.SourceSerial:
		if cfg.Serial.Port == "" {
			return nil, fmt.Errorf("serial port is required")
		}
		return NewSerialSource(cfg.Name, cfg.Serial, logger), nil
	case config.SourceTCP:
		if cfg.TCP.Listen == "" {
			return nil, fmt.Errorf("tcp listen address is required")
		}
		return NewTCPSource(cfg.Name, cfg.TCP, logger), nil
	case config.SourceUSB:
		if cfg.USB.VendorID == 0 || cfg.USB.ProductID == 0 {
			return nil, fmt.Errorf("usb vendor_id and product_id are required")
		}
		return NewUSBSource(cfg.Name, cfg.USB, logger), nil
	default:
		return nil, fmt.Errorf("unsupported capture source type: %s", cfg.Type)
	}
}
