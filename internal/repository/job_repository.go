// internal/repository/job_repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"escpos-service/internal/database"
	"escpos-service/internal/model"
	"escpos-service/internal/utils"
)

// jobRepository implements JobRepository on postgres
type jobRepository struct {
	db       *database.DB
	logger   *zap.Logger
	queryLog *utils.ServiceLogger
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *database.DB, logger *zap.Logger) JobRepository {
	return &jobRepository{
		db:       db,
		logger:   logger,
		queryLog: utils.NewServiceLogger(logger, "job-repository"),
	}
}

const jobColumns = `id, source, source_type, table_name, status, byte_count,
			   command_count, unknown_count, text_preview, paper_length_mm,
			   summary, raw_encoding, duration_ms, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*model.DecodeJob, error) {
	job := &model.DecodeJob{}
	err := row.Scan(
		&job.ID, &job.Source, &job.SourceType, &job.TableName, &job.Status,
		&job.ByteCount, &job.CommandCount, &job.UnknownCount, &job.TextPreview,
		&job.PaperLengthMM, &job.Summary, &job.RawEncoding, &job.DurationMs,
		&job.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return job, nil
}

// Create stores a decoded job
func (r *jobRepository) Create(ctx context.Context, job *model.DecodeJob) error {
	query := `
		INSERT INTO decode_jobs (
			id, source, source_type, table_name, status, byte_count,
			command_count, unknown_count, text_preview, paper_length_mm,
			summary, raw_encoding, raw, duration_ms, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.Source, job.SourceType, job.TableName, job.Status,
		job.ByteCount, job.CommandCount, job.UnknownCount, job.TextPreview,
		job.PaperLengthMM, job.Summary, job.RawEncoding, job.Raw,
		job.DurationMs, job.CreatedAt,
	)

	if err != nil {
		utils.LogError(r.logger, "Failed to create job", err, zap.String("job_id", job.ID.String()))
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// GetByID retrieves a job by ID
func (r *jobRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.DecodeJob, error) {
	query := `SELECT ` + jobColumns + ` FROM decode_jobs WHERE id = $1`

	job, err := scanJob(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return job, nil
}

// GetRaw returns the stored bytes of a job and how they are encoded
func (r *jobRepository) GetRaw(ctx context.Context, id uuid.UUID) ([]byte, model.RawEncoding, error) {
	query := `SELECT raw, raw_encoding FROM decode_jobs WHERE id = $1`

	var raw []byte
	var encoding model.RawEncoding
	err := r.db.QueryRowContext(ctx, query, id).Scan(&raw, &encoding)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", fmt.Errorf("%w: %s", ErrJobNotFound, id)
		}
		return nil, "", fmt.Errorf("failed to get job raw bytes: %w", err)
	}

	return raw, encoding, nil
}

// Delete removes a job
func (r *jobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM decode_jobs WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}

	return nil
}

// whereClause builds the WHERE clause shared by List and GetJobStats
func whereClause(filter *JobFilter) (string, []interface{}) {
	whereConditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter.Source != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("source = $%d", argIndex))
		args = append(args, *filter.Source)
		argIndex++
	}

	if filter.SourceType != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("source_type = $%d", argIndex))
		args = append(args, *filter.SourceType)
		argIndex++
	}

	if filter.Status != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	if filter.StartDate != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("created_at >= $%d", argIndex))
		args = append(args, *filter.StartDate)
		argIndex++
	}

	if filter.EndDate != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("created_at <= $%d", argIndex))
		args = append(args, *filter.EndDate)
	}

	if len(whereConditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(whereConditions, " AND "), args
}

// List retrieves jobs with filtering and pagination
func (r *jobRepository) List(ctx context.Context, filter *JobFilter) ([]*model.DecodeJob, int, error) {
	filter.Normalize()
	whereSQL, args := whereClause(filter)

	// Count total records
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM decode_jobs %s", whereSQL)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	offset := (filter.Page - 1) * filter.PerPage
	query := fmt.Sprintf(`
		SELECT %s
		FROM decode_jobs %s
		ORDER BY created_at %s
		LIMIT $%d OFFSET $%d
	`, jobColumns, whereSQL, strings.ToUpper(filter.SortOrder), len(args)+1, len(args)+2)
	args = append(args, filter.PerPage, offset)

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, args...)
	r.queryLog.LogDatabaseQuery(query, time.Since(start), err)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []*model.DecodeJob{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate jobs: %w", err)
	}

	return jobs, total, nil
}

// GetJobStats aggregates jobs matching the filter
func (r *jobRepository) GetJobStats(ctx context.Context, filter *JobFilter) (*JobStats, error) {
	whereSQL, args := whereClause(filter)

	query := fmt.Sprintf(`
		SELECT status, source, COUNT(*), COALESCE(SUM(byte_count), 0),
			   COALESCE(SUM(command_count), 0), COUNT(*) FILTER (WHERE unknown_count > 0)
		FROM decode_jobs %s
		GROUP BY status, source
	`, whereSQL)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get job stats: %w", err)
	}
	defer rows.Close()

	stats := &JobStats{
		ByStatus: make(map[model.JobStatus]int),
		BySource: make(map[string]int),
	}
	for rows.Next() {
		var (
			status   model.JobStatus
			source   string
			count    int
			bytes    int64
			commands int64
			unknown  int
		)
		if err := rows.Scan(&status, &source, &count, &bytes, &commands, &unknown); err != nil {
			return nil, fmt.Errorf("failed to scan job stats: %w", err)
		}
		stats.TotalJobs += count
		stats.TotalBytes += bytes
		stats.TotalCommands += commands
		stats.UnknownJobs += unknown
		stats.ByStatus[status] += count
		stats.BySource[source] += count
	}

	return stats, rows.Err()
}

// DeleteOlderThan removes jobs created before olderThan
func (r *jobRepository) DeleteOlderThan(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `DELETE FROM decode_jobs WHERE created_at < $1`

	result, err := r.db.ExecContext(ctx, query, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old jobs: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	r.logger.Info("Deleted old jobs",
		zap.Int64("rows_deleted", rowsAffected),
		zap.Time("older_than", olderThan),
	)

	return rowsAffected, nil
}
