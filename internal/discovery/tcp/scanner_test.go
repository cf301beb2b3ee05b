// internal/discovery/tcp/scanner_test.go
package tcp

import (
	"context"
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"escpos-service/internal/model"
)

func TestScanReportsListeningPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	port := ln.Addr().(*net.TCPAddr).Port
	s := NewScanner(zap.NewNop(), port)
	s.interfaces = func() ([]net.Addr, error) {
		return []net.Addr{
			&net.IPNet{IP: net.IPv4(127, 0, 0, 1), Mask: net.CIDRMask(8, 32)},
			&net.IPNet{IP: net.ParseIP("::1"), Mask: net.CIDRMask(128, 128)},
		}, nil
	}

	ports, err := s.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, ports, 1)
	assert.Equal(t, model.SourceTypeTCP, ports[0].Type)
	assert.Equal(t, "127.0.0.1:"+strconv.Itoa(port), ports[0].Address)
	assert.True(t, ports[0].InUse)
}

func TestDefaultPort(t *testing.T) {
	s := NewScanner(zap.NewNop(), 0)
	assert.Equal(t, RawPrintPort, s.port)
	assert.Equal(t, "tcp", s.GetScannerType())
}
