// internal/protocol/protocol_test.go
package protocol

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"escpos-service/internal/config"
	"escpos-service/internal/model"
)

func TestNewCaptureSource(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name    string
		cfg     config.CaptureSource
		want    model.SourceType
		wantErr bool
	}{
		{"serial", config.CaptureSource{Name: "a", Type: config.SourceSerial, Serial: config.SerialPortConfig{Port: "/dev/ttyUSB0"}}, model.SourceTypeSerial, false},
		{"serial without port", config.CaptureSource{Name: "a", Type: config.SourceSerial}, "", true},
		{"tcp", config.CaptureSource{Name: "b", Type: config.SourceTCP, TCP: config.TCPPortConfig{Listen: ":9100"}}, model.SourceTypeTCP, false},
		{"usb", config.CaptureSource{Name: "c", Type: config.SourceUSB, USB: config.USBPortConfig{VendorID: 0x04b8, ProductID: 0x0202}}, model.SourceTypeUSB, false},
		{"usb without ids", config.CaptureSource{Name: "c", Type: config.SourceUSB}, "", true},
		{"bluetooth", config.CaptureSource{Name: "d", Type: "bluetooth"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewCaptureSource(tt.cfg, logger)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, src.Type())
			assert.Equal(t, tt.cfg.Name, src.Name())
			assert.False(t, src.IsOpen())
		})
	}
}

func TestSerialDefaults(t *testing.T) {
	src := NewSerialSource("s", config.SerialPortConfig{Port: "/dev/ttyS0"}, zap.NewNop())
	assert.Equal(t, 9600, src.config.BaudRate)
	assert.Equal(t, 8, src.config.DataBits)
	assert.Equal(t, "none", src.config.Parity)
	assert.Equal(t, "/dev/ttyS0", src.Address())

	_, err := src.Read(context.Background(), 16)
	assert.Error(t, err)
}

func TestTCPSourceJobBoundary(t *testing.T) {
	src := NewTCPSource("raw", config.TCPPortConfig{Listen: "127.0.0.1:0", ReadTimeout: 50 * time.Millisecond}, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, src.Open(ctx))
	defer src.Close()

	// idle listener
	data, err := src.Read(ctx, 64)
	require.NoError(t, err)
	assert.Empty(t, data)

	conn, err := net.Dial("tcp", src.Address())
	require.NoError(t, err)
	_, err = conn.Write([]byte("\x1b@hello\n"))
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	var got []byte
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		chunk, err := src.Read(ctx, 64)
		got = append(got, chunk...)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
	}
	assert.Equal(t, []byte("\x1b@hello\n"), got)

	stats := src.Stats()
	assert.Equal(t, int64(8), stats.BytesRead)
	assert.True(t, stats.IsConnected)
}

func TestTCPSourceClosed(t *testing.T) {
	src := NewTCPSource("raw", config.TCPPortConfig{Listen: "127.0.0.1:0"}, zap.NewNop())
	_, err := src.Read(context.Background(), 8)
	assert.Error(t, err)
	assert.NoError(t, src.Close())
}
