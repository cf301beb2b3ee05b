// internal/repository/interfaces.go
package repository

import (
	"context"
	"errors"
	"time"

	"escpos-service/internal/model"

	"github.com/google/uuid"
)

// ErrJobNotFound is returned when no job has the requested id
var ErrJobNotFound = errors.New("job not found")

// JobRepository defines decode job data access operations
type JobRepository interface {
	// CRUD operations
	Create(ctx context.Context, job *model.DecodeJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.DecodeJob, error)
	GetRaw(ctx context.Context, id uuid.UUID) ([]byte, model.RawEncoding, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Listing and filtering
	List(ctx context.Context, filter *JobFilter) ([]*model.DecodeJob, int, error)

	// Analytics and reporting
	GetJobStats(ctx context.Context, filter *JobFilter) (*JobStats, error)

	// Cleanup
	DeleteOlderThan(ctx context.Context, olderThan time.Time) (int64, error)
}

// EventRepository stores the job event journal
type EventRepository interface {
	Create(ctx context.Context, event *model.JobEvent) error
	ListRecent(ctx context.Context, limit int) ([]*model.JobEvent, error)
}

// Filter structures

// JobFilter represents job listing filters
type JobFilter struct {
	Source     *string           `json:"source,omitempty"`
	SourceType *model.SourceType `json:"source_type,omitempty"`
	Status     *model.JobStatus  `json:"status,omitempty"`
	StartDate  *time.Time        `json:"start_date,omitempty"`
	EndDate    *time.Time        `json:"end_date,omitempty"`
	Page       int               `json:"page"`
	PerPage    int               `json:"per_page"`
	SortOrder  string            `json:"sort_order"`
}

// Normalize clamps paging to sane values
func (f *JobFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 || f.PerPage > 100 {
		f.PerPage = 20
	}
	if f.SortOrder != "asc" {
		f.SortOrder = "desc"
	}
}

// Matches reports whether job passes the filter
func (f *JobFilter) Matches(job *model.DecodeJob) bool {
	if f.Source != nil && job.Source != *f.Source {
		return false
	}
	if f.SourceType != nil && job.SourceType != *f.SourceType {
		return false
	}
	if f.Status != nil && job.Status != *f.Status {
		return false
	}
	if f.StartDate != nil && job.CreatedAt.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && job.CreatedAt.After(*f.EndDate) {
		return false
	}
	return true
}

// Statistics structures

// JobStats represents decode job statistics
type JobStats struct {
	TotalJobs     int                     `json:"total_jobs"`
	TotalBytes    int64                   `json:"total_bytes"`
	TotalCommands int64                   `json:"total_commands"`
	UnknownJobs   int                     `json:"unknown_jobs"`
	ByStatus      map[model.JobStatus]int `json:"by_status"`
	BySource      map[string]int          `json:"by_source"`
}
