// internal/model/job.go
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"escpos-service/internal/escpos"
)

// JobStatus represents the outcome of a decode job
type JobStatus string

const (
	JobStatusDecoded JobStatus = "DECODED"
	JobStatusPartial JobStatus = "PARTIAL" // decoded, but unknown sequences were found
	JobStatusEmpty   JobStatus = "EMPTY"
)

// SourceType represents where job bytes came from
type SourceType string

const (
	SourceTypeAPI    SourceType = "API"
	SourceTypeSerial SourceType = "SERIAL"
	SourceTypeTCP    SourceType = "TCP"
	SourceTypeUSB    SourceType = "USB"
)

// RawEncoding names how raw job bytes are stored
type RawEncoding string

const (
	RawEncodingNone RawEncoding = ""
	RawEncodingZstd RawEncoding = "zstd"
)

// JSONObject type for PostgreSQL JSONB objects
type JSONObject map[string]interface{}

// Scan implements sql.Scanner
func (j *JSONObject) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("unsupported JSONB value %T", value)
	}
	return json.Unmarshal(b, j)
}

// Value implements driver.Valuer
func (j JSONObject) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// DecodeJob represents one decoded print job
type DecodeJob struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	Source        string          `json:"source" db:"source"`
	SourceType    SourceType      `json:"source_type" db:"source_type"`
	TableName     string          `json:"table_name" db:"table_name"`
	Status        JobStatus       `json:"status" db:"status"`
	ByteCount     int             `json:"byte_count" db:"byte_count"`
	CommandCount  int             `json:"command_count" db:"command_count"`
	UnknownCount  int             `json:"unknown_count" db:"unknown_count"`
	TextPreview   string          `json:"text_preview" db:"text_preview"`
	PaperLengthMM decimal.Decimal `json:"paper_length_mm" db:"paper_length_mm"`
	Summary       JSONObject      `json:"summary" db:"summary"`
	RawEncoding   RawEncoding     `json:"raw_encoding,omitempty" db:"raw_encoding"`
	Raw           []byte          `json:"-" db:"raw"`
	DurationMs    int             `json:"duration_ms" db:"duration_ms"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// HasUnknown reports whether the job contained unrecognized sequences
func (j *DecodeJob) HasUnknown() bool {
	return j.UnknownCount > 0
}

// CommandView is the wire form of a decoded command
type CommandView struct {
	Index       int    `json:"index"`
	Offset      int    `json:"offset"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	PayloadKind string `json:"payload_kind"`
	Prefix      string `json:"prefix,omitempty"`
	Payload     string `json:"payload,omitempty"`
	Nested      string `json:"nested,omitempty"`
	Description string `json:"description"`
}

// DecodeResult is the full outcome of decoding one buffer
type DecodeResult struct {
	Job      *DecodeJob     `json:"job"`
	Commands []CommandView  `json:"commands"`
	Events   []escpos.Event `json:"events"`
	Summary  escpos.Summary `json:"summary"`
}
