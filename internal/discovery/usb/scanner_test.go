// internal/discovery/usb/scanner_test.go
package usb

import (
	"testing"

	"github.com/google/gousb"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestDeviceDatabase(t *testing.T) {
	db := NewDeviceDatabase()

	assert.True(t, db.IsKnownVendor(0x04B8))
	assert.False(t, db.IsKnownVendor(0xFFFF))

	epson := db.GetVendorInfo(0x04B8)
	assert.Equal(t, "TM-T88V", epson.GetProduct(0x0203))
	assert.Equal(t, "", epson.GetProduct(0x9999))
	assert.Equal(t, "epson", epson.Table)
	assert.Equal(t, 13, db.GetTotalProductCount())
}

func TestHasPrinterInterface(t *testing.T) {
	printer := &gousb.DeviceDesc{
		Configs: map[int]gousb.ConfigDesc{
			1: {Interfaces: []gousb.InterfaceDesc{{
				AltSettings: []gousb.InterfaceSetting{{Class: gousb.ClassPrinter}},
			}}},
		},
	}
	hid := &gousb.DeviceDesc{Class: gousb.ClassHID}

	assert.True(t, HasPrinterInterface(printer))
	assert.True(t, HasPrinterInterface(&gousb.DeviceDesc{Class: gousb.ClassPrinter}))
	assert.False(t, HasPrinterInterface(hid))

	s := NewScanner(zap.NewNop(), 0)
	assert.True(t, s.shouldExamineDevice(&gousb.DeviceDesc{Vendor: 0x0519}))
	assert.False(t, s.shouldExamineDevice(hid))
}
