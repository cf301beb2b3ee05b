// internal/repository/memory_repository_test.go
package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"escpos-service/internal/model"
)

func newJob(source string, status model.JobStatus, created time.Time) *model.DecodeJob {
	return &model.DecodeJob{
		ID:           uuid.New(),
		Source:       source,
		SourceType:   model.SourceTypeAPI,
		TableName:    "escpos",
		Status:       status,
		ByteCount:    10,
		CommandCount: 3,
		Raw:          []byte{0x1b, 0x40},
		CreatedAt:    created,
	}
}

func TestMemoryJobRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryJobRepository(10)
	job := newJob("api", model.JobStatusDecoded, time.Now())

	require.NoError(t, repo.Create(ctx, job))
	assert.Error(t, repo.Create(ctx, job))

	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.Source, got.Source)
	assert.Nil(t, got.Raw)

	raw, enc, err := repo.GetRaw(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1b, 0x40}, raw)
	assert.Equal(t, model.RawEncodingNone, enc)

	require.NoError(t, repo.Delete(ctx, job.ID))
	_, err = repo.GetByID(ctx, job.ID)
	assert.True(t, errors.Is(err, ErrJobNotFound))
	assert.True(t, errors.Is(repo.Delete(ctx, job.ID), ErrJobNotFound))
}

func TestMemoryJobRepositoryListAndStats(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryJobRepository(10)
	base := time.Now().Add(-time.Hour)

	for i := 0; i < 5; i++ {
		status := model.JobStatusDecoded
		if i%2 == 1 {
			status = model.JobStatusPartial
		}
		job := newJob("till-1", status, base.Add(time.Duration(i)*time.Minute))
		if status == model.JobStatusPartial {
			job.UnknownCount = 1
		}
		require.NoError(t, repo.Create(ctx, job))
	}
	require.NoError(t, repo.Create(ctx, newJob("till-2", model.JobStatusEmpty, base)))

	source := "till-1"
	jobs, total, err := repo.List(ctx, &JobFilter{Source: &source, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, jobs, 2)
	assert.True(t, jobs[0].CreatedAt.After(jobs[1].CreatedAt))

	jobs, _, err = repo.List(ctx, &JobFilter{Source: &source, PerPage: 2, Page: 3})
	require.NoError(t, err)
	assert.Len(t, jobs, 1)

	stats, err := repo.GetJobStats(ctx, &JobFilter{})
	require.NoError(t, err)
	assert.Equal(t, 6, stats.TotalJobs)
	assert.Equal(t, 2, stats.UnknownJobs)
	assert.Equal(t, 3, stats.ByStatus[model.JobStatusDecoded])
	assert.Equal(t, 1, stats.BySource["till-2"])
}

func TestMemoryJobRepositoryEvictionAndCleanup(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryJobRepository(3)
	old := newJob("a", model.JobStatusDecoded, time.Now().Add(-48*time.Hour))
	require.NoError(t, repo.Create(ctx, old))

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, newJob("a", model.JobStatusDecoded, time.Now())))
	}
	_, err := repo.GetByID(ctx, old.ID)
	assert.True(t, errors.Is(err, ErrJobNotFound))

	require.NoError(t, repo.Create(ctx, newJob("a", model.JobStatusDecoded, time.Now().Add(-72*time.Hour))))
	deleted, err := repo.DeleteOlderThan(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, total, err := repo.List(ctx, &JobFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}
