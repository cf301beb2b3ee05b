// internal/service/discovery_service_test.go
package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"escpos-service/internal/config"
	"escpos-service/internal/discovery"
	"escpos-service/internal/model"
)

type staticScanner struct {
	kind  string
	ports []*discovery.DiscoveredPort
}

func (s *staticScanner) Scan(ctx context.Context) ([]*discovery.DiscoveredPort, error) {
	return s.ports, nil
}
func (s *staticScanner) GetScannerType() string { return s.kind }
func (s *staticScanner) IsAvailable() bool      { return true }

func TestScanPortsMarksConfiguredSources(t *testing.T) {
	cfg := &config.Config{Capture: config.CaptureConfig{Sources: []config.CaptureSource{
		{Name: "till", Type: config.SourceSerial, Serial: config.SerialPortConfig{Port: "/dev/ttyUSB0"}},
		{Name: "bridge", Type: config.SourceUSB, USB: config.USBPortConfig{VendorID: 0x04b8, ProductID: 0x0202}},
	}}}

	manager := discovery.NewScannerManager(zap.NewNop())
	manager.RegisterScanner(&staticScanner{kind: "serial", ports: []*discovery.DiscoveredPort{
		{Type: model.SourceTypeSerial, Address: "/dev/ttyUSB0"},
		{Type: model.SourceTypeSerial, Address: "/dev/ttyUSB1"},
	}})
	manager.RegisterScanner(&staticScanner{kind: "usb", ports: []*discovery.DiscoveredPort{
		{Type: model.SourceTypeUSB, Address: "04b8:0202", VendorID: "04b8", ProductID: "0202"},
	}})
	ds := newDiscoveryServiceWith(manager, cfg, zap.NewNop())

	ports, err := ds.ScanPorts(context.Background(), "all")
	require.NoError(t, err)
	require.Len(t, ports, 3)
	assert.True(t, ports[0].InUse)
	assert.False(t, ports[1].InUse)
	assert.True(t, ports[2].InUse)

	serialOnly, err := ds.ScanPorts(context.Background(), "serial")
	require.NoError(t, err)
	assert.Len(t, serialOnly, 2)

	_, err = ds.ScanPorts(context.Background(), "bluetooth")
	assert.Error(t, err)

	_, err = ds.ScanPorts(context.Background(), "tcp")
	assert.Error(t, err)

	assert.Equal(t, []string{"serial", "usb"}, ds.AvailableScanners())
}

func TestSuggestSource(t *testing.T) {
	src, err := SuggestSource(&discovery.DiscoveredPort{Type: model.SourceTypeSerial, Address: "/dev/ttyUSB0"})
	require.NoError(t, err)
	assert.Equal(t, "serial-ttyUSB0", src.Name)
	assert.Equal(t, 9600, src.Serial.BaudRate)

	src, err = SuggestSource(&discovery.DiscoveredPort{Type: model.SourceTypeUSB, VendorID: "04b8", ProductID: "0e15"})
	require.NoError(t, err)
	assert.Equal(t, config.SourceUSB, src.Type)
	assert.Equal(t, uint16(0x04b8), src.USB.VendorID)
	assert.Equal(t, uint16(0x0e15), src.USB.ProductID)
	assert.Equal(t, "epson", src.Table)

	src, err = SuggestSource(&discovery.DiscoveredPort{Type: model.SourceTypeTCP, Address: "10.0.0.5:9100"})
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5:9100", src.TCP.Listen)

	_, err = SuggestSource(&discovery.DiscoveredPort{Type: model.SourceTypeUSB, VendorID: "zz"})
	assert.Error(t, err)
}
