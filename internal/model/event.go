// internal/model/event.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of event
type EventType string

const (
	EventJobDecoded       EventType = "JOB_DECODED"
	EventJobDeleted       EventType = "JOB_DELETED"
	EventCaptureStarted   EventType = "CAPTURE_STARTED"
	EventCaptureStopped   EventType = "CAPTURE_STOPPED"
	EventCaptureError     EventType = "CAPTURE_ERROR"
	EventJobsCleanedUp    EventType = "JOBS_CLEANED_UP"
	EventUnknownSequences EventType = "UNKNOWN_SEQUENCES"
)

// JobEvent represents an event in the system
type JobEvent struct {
	ID        uuid.UUID  `json:"id"`
	EventType EventType  `json:"event_type"`
	JobID     *uuid.UUID `json:"job_id,omitempty"`
	Source    string     `json:"source"`
	Data      JSONObject `json:"data"`
	Timestamp time.Time  `json:"timestamp"`
	Severity  string     `json:"severity"` // INFO, WARNING, ERROR
}

// NewJobEvent creates an event stamped with a fresh id and the current time
func NewJobEvent(eventType EventType, source string, jobID *uuid.UUID, data JSONObject) *JobEvent {
	severity := "INFO"
	switch eventType {
	case EventCaptureError:
		severity = "ERROR"
	case EventUnknownSequences:
		severity = "WARNING"
	}
	return &JobEvent{
		ID:        uuid.New(),
		EventType: eventType,
		JobID:     jobID,
		Source:    source,
		Data:      data,
		Timestamp: time.Now(),
		Severity:  severity,
	}
}

// CaptureSourceInfo describes a configured capture source
type CaptureSourceInfo struct {
	Name      string     `json:"name"`
	Type      SourceType `json:"type"`
	Address   string     `json:"address"`
	Table     string     `json:"table"`
	Running   bool       `json:"running"`
	JobsSeen  int64      `json:"jobs_seen"`
	BytesSeen int64      `json:"bytes_seen"`
	LastError string     `json:"last_error,omitempty"`
	LastJobAt *time.Time `json:"last_job_at,omitempty"`
}
