// cmd/escpos-decode/main_test.go
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRunTrace(t *testing.T) {
	path := writeFile(t, "receipt.bin", []byte("\x1b@Hello\n\x1dV\x00"))

	var out bytes.Buffer
	require.NoError(t, run(path, "escpos", false, true, &out))

	trace := out.String()
	assert.Contains(t, trace, "INITIALIZE")
	assert.Contains(t, trace, "CUT")
	assert.Contains(t, trace, "0 unknown")
	assert.Contains(t, trace, "Hello")
}

func TestRunThermalJSON(t *testing.T) {
	path := writeFile(t, "receipt.thermal", []byte(`ESC "@" "Hi" LF`))

	var out bytes.Buffer
	require.NoError(t, run(path, "epson", true, false, &out))

	var got output
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "epson", got.Table)
	assert.Equal(t, "INITIALIZE", got.Commands[0].Name)
	assert.Contains(t, got.Summary.Text, "Hi")
}

func TestRunErrors(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run(writeFile(t, "x.bin", []byte("A")), "nope", false, false, &out))
	assert.Error(t, run(filepath.Join(t.TempDir(), "missing.bin"), "escpos", false, false, &out))
	assert.Error(t, run(writeFile(t, "bad.thermal", []byte(`"open`)), "escpos", false, false, &out))
}

func TestRunSample(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(samplePath, "escpos", false, false, &out))
	assert.Contains(t, out.String(), "CODE_2D/QR_PRINT")
	assert.Contains(t, out.String(), "PULSE")
}
