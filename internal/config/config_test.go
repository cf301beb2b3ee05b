// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "app:\n  environment: test\n"))
	require.NoError(t, err)

	assert.Equal(t, "8085", cfg.Server.Port)
	assert.Equal(t, "escpos", cfg.Decoder.DefaultTable)
	assert.Equal(t, 500*time.Millisecond, cfg.Capture.IdleGap)
	assert.Equal(t, 168*time.Hour, cfg.Decoder.JobRetention)
	assert.Equal(t, "test", cfg.App.Environment)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadFileCaptureSources(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, `
capture:
  enabled: true
  sources:
    - name: counter
      type: tcp
      tcp:
        listen: ":9100"
    - name: kitchen
      type: serial
      table: epson
      serial:
        port: /dev/ttyUSB0
        baud_rate: 19200
`))
	require.NoError(t, err)
	require.Len(t, cfg.Capture.Sources, 2)
	assert.Equal(t, ":9100", cfg.Capture.Sources[0].TCP.Listen)
	assert.Equal(t, 19200, cfg.Capture.Sources[1].Serial.BaudRate)
	assert.Equal(t, "epson", cfg.Capture.Sources[1].Table)
}

func TestLoadFileValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"environment", "app:\n  environment: moon\n", "app.environment"},
		{"level", "logging:\n  level: loud\n", "logging.level"},
		{"source type", "capture:\n  enabled: true\n  sources:\n    - name: x\n      type: parallel\n", "not one of"},
		{"serial port", "capture:\n  enabled: true\n  sources:\n    - name: x\n      type: serial\n", "serial.port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("ESCPOS_SERVICE_DECODER_DEFAULT_TABLE", "epson")
	cfg, err := LoadFile(writeConfig(t, "app:\n  environment: test\n"))
	require.NoError(t, err)
	assert.Equal(t, "epson", cfg.Decoder.DefaultTable)
}

func TestMissingExplicitFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "jobs", SSLMode: "disable"}}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=jobs sslmode=disable", cfg.GetDatabaseDSN())
}
