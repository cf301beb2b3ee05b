// internal/protocol/usb_connection.go
package protocol

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/gousb"
	"go.uber.org/zap"

	"escpos-service/internal/config"
	"escpos-service/internal/model"
)

// USBSource reads print data from the bulk-in endpoint of a USB bridge
// sitting between the POS host and the printer
type USBSource struct {
	statsTracker
	name    string
	config  config.USBPortConfig
	ctx     *gousb.Context
	device  *gousb.Device
	intf    *gousb.Interface
	done    func()
	inEndpt *gousb.InEndpoint
	logger  *zap.Logger
	mutex   sync.RWMutex
}

// NewUSBSource creates a new USB capture source
func NewUSBSource(name string, cfg config.USBPortConfig, logger *zap.Logger) *USBSource {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 100 * time.Millisecond
	}
	if cfg.BulkTransferSize <= 0 {
		cfg.BulkTransferSize = 512
	}
	return &USBSource{
		name:   name,
		config: cfg,
		logger: logger.With(
			zap.String("protocol", "usb"),
			zap.String("vendor_id", gousb.ID(cfg.VendorID).String()),
			zap.String("product_id", gousb.ID(cfg.ProductID).String()),
		),
	}
}

// Open claims the default interface and its first bulk-in endpoint
func (us *USBSource) Open(ctx context.Context) error {
	us.mutex.Lock()
	defer us.mutex.Unlock()

	if us.device != nil {
		return nil
	}

	us.logger.Info("Opening USB capture device")

	usbCtx := gousb.NewContext()
	device, err := usbCtx.OpenDeviceWithVIDPID(gousb.ID(us.config.VendorID), gousb.ID(us.config.ProductID))
	if err != nil {
		usbCtx.Close()
		us.recordError()
		return fmt.Errorf("failed to open USB device: %w", err)
	}
	if device == nil {
		usbCtx.Close()
		return fmt.Errorf("USB device %s:%s not found",
			gousb.ID(us.config.VendorID), gousb.ID(us.config.ProductID))
	}

	if err := device.SetAutoDetach(true); err != nil {
		us.logger.Warn("Failed to enable kernel driver auto-detach", zap.Error(err))
	}

	intf, done, err := device.DefaultInterface()
	if err != nil {
		device.Close()
		usbCtx.Close()
		return fmt.Errorf("failed to claim interface: %w", err)
	}

	inEndpt, err := findBulkIn(intf)
	if err != nil {
		done()
		device.Close()
		usbCtx.Close()
		return err
	}

	us.ctx = usbCtx
	us.device = device
	us.intf = intf
	us.done = done
	us.inEndpt = inEndpt
	us.setConnected(true)

	us.logger.Info("USB capture device opened", zap.Int("endpoint", inEndpt.Desc.Number))
	return nil
}

func findBulkIn(intf *gousb.Interface) (*gousb.InEndpoint, error) {
	for _, ep := range intf.Setting.Endpoints {
		if ep.Direction == gousb.EndpointDirectionIn && ep.TransferType == gousb.TransferTypeBulk {
			in, err := intf.InEndpoint(ep.Number)
			if err != nil {
				return nil, fmt.Errorf("failed to get in endpoint: %w", err)
			}
			return in, nil
		}
	}
	return nil, fmt.Errorf("no bulk-in endpoint on interface %d", intf.Setting.Number)
}

// Close releases the interface and device
func (us *USBSource) Close() error {
	us.mutex.Lock()
	defer us.mutex.Unlock()

	if us.device == nil {
		return nil
	}

	if us.done != nil {
		us.done()
		us.done = nil
	}
	us.device.Close()
	us.device = nil
	us.ctx.Close()
	us.ctx = nil
	us.intf = nil
	us.inEndpt = nil
	us.setConnected(false)

	us.logger.Info("USB capture device closed")
	return nil
}

// IsOpen returns whether the device is open
func (us *USBSource) IsOpen() bool {
	us.mutex.RLock()
	defer us.mutex.RUnlock()
	return us.device != nil
}

// Read performs one bulk transfer bounded by the configured timeout
func (us *USBSource) Read(ctx context.Context, maxBytes int) ([]byte, error) {
	us.mutex.RLock()
	in := us.inEndpt
	us.mutex.RUnlock()

	if in == nil {
		return nil, fmt.Errorf("USB device not open")
	}

	if maxBytes > us.config.BulkTransferSize {
		maxBytes = us.config.BulkTransferSize
	}

	readCtx, cancel := context.WithTimeout(ctx, us.config.Timeout)
	defer cancel()

	buffer := make([]byte, maxBytes)
	n, err := in.ReadContext(readCtx, buffer)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, gousb.ErrorTimeout) {
			us.recordRead(n)
			return buffer[:n], nil
		}
		us.recordError()
		return nil, fmt.Errorf("failed to read from USB device: %w", err)
	}
	us.recordRead(n)
	return buffer[:n], nil
}

// Name returns the configured source name
func (us *USBSource) Name() string { return us.name }

// Type returns the source type
func (us *USBSource) Type() model.SourceType { return model.SourceTypeUSB }

// Address returns the vid:pid pair
func (us *USBSource) Address() string {
	return fmt.Sprintf("%s:%s", gousb.ID(us.config.VendorID), gousb.ID(us.config.ProductID))
}
