// internal/repository/memory_repository.go
package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"escpos-service/internal/model"
)

// memoryJobRepository keeps jobs in process memory when no database is
// configured. Jobs beyond capacity evict the oldest
type memoryJobRepository struct {
	mutex    sync.RWMutex
	jobs     map[uuid.UUID]*model.DecodeJob
	order    []uuid.UUID
	capacity int
}

// NewMemoryJobRepository creates an in-memory job repository holding at
// most capacity jobs
func NewMemoryJobRepository(capacity int) JobRepository {
	if capacity <= 0 {
		capacity = 1000
	}
	return &memoryJobRepository{
		jobs:     make(map[uuid.UUID]*model.DecodeJob),
		capacity: capacity,
	}
}

func (r *memoryJobRepository) Create(ctx context.Context, job *model.DecodeJob) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.jobs[job.ID]; exists {
		return fmt.Errorf("failed to create job: duplicate id %s", job.ID)
	}

	stored := *job
	r.jobs[job.ID] = &stored
	r.order = append(r.order, job.ID)

	for len(r.order) > r.capacity {
		delete(r.jobs, r.order[0])
		r.order = r.order[1:]
	}
	return nil
}

func (r *memoryJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.DecodeJob, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	out := *job
	out.Raw = nil
	return &out, nil
}

func (r *memoryJobRepository) GetRaw(ctx context.Context, id uuid.UUID) ([]byte, model.RawEncoding, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	return job.Raw, job.RawEncoding, nil
}

func (r *memoryJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.jobs[id]; !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	delete(r.jobs, id)
	r.compact()
	return nil
}

// compact drops ids from order that are no longer stored
func (r *memoryJobRepository) compact() {
	kept := r.order[:0]
	for _, id := range r.order {
		if _, ok := r.jobs[id]; ok {
			kept = append(kept, id)
		}
	}
	r.order = kept
}

func (r *memoryJobRepository) matching(filter *JobFilter) []*model.DecodeJob {
	out := []*model.DecodeJob{}
	for _, id := range r.order {
		job := r.jobs[id]
		if filter.Matches(job) {
			view := *job
			view.Raw = nil
			out = append(out, &view)
		}
	}
	return out
}

func (r *memoryJobRepository) List(ctx context.Context, filter *JobFilter) ([]*model.DecodeJob, int, error) {
	filter.Normalize()

	r.mutex.RLock()
	jobs := r.matching(filter)
	r.mutex.RUnlock()

	sort.SliceStable(jobs, func(i, j int) bool {
		if filter.SortOrder == "asc" {
			return jobs[i].CreatedAt.Before(jobs[j].CreatedAt)
		}
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})

	total := len(jobs)
	start := (filter.Page - 1) * filter.PerPage
	if start >= total {
		return []*model.DecodeJob{}, total, nil
	}
	end := start + filter.PerPage
	if end > total {
		end = total
	}
	return jobs[start:end], total, nil
}

func (r *memoryJobRepository) GetJobStats(ctx context.Context, filter *JobFilter) (*JobStats, error) {
	r.mutex.RLock()
	jobs := r.matching(filter)
	r.mutex.RUnlock()

	stats := &JobStats{
		ByStatus: make(map[model.JobStatus]int),
		BySource: make(map[string]int),
	}
	for _, job := range jobs {
		stats.TotalJobs++
		stats.TotalBytes += int64(job.ByteCount)
		stats.TotalCommands += int64(job.CommandCount)
		if job.HasUnknown() {
			stats.UnknownJobs++
		}
		stats.ByStatus[job.Status]++
		stats.BySource[job.Source]++
	}
	return stats, nil
}

func (r *memoryJobRepository) DeleteOlderThan(ctx context.Context, olderThan time.Time) (int64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var deleted int64
	for id, job := range r.jobs {
		if job.CreatedAt.Before(olderThan) {
			delete(r.jobs, id)
			deleted++
		}
	}
	r.compact()
	return deleted, nil
}
