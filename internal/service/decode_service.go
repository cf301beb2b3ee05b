// internal/service/decode_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"escpos-service/internal/config"
	"escpos-service/internal/escpos"
	"escpos-service/internal/model"
	"escpos-service/internal/repository"
	"escpos-service/internal/utils"
)

var (
	// ErrEmptyPayload is returned for a decode request without bytes
	ErrEmptyPayload = errors.New("payload is empty")
	// ErrPayloadTooLarge is returned when a payload exceeds decoder.max_payload_bytes
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrUnknownTable is returned for a table name nobody registered
	ErrUnknownTable = errors.New("unknown command table")
)

const textPreviewRunes = 200

var mmPerInch = decimal.RequireFromString("25.4")

// JobPublisher forwards decoded jobs to an external system
type JobPublisher interface {
	PublishJob(ctx context.Context, result *model.DecodeResult) error
}

// DecodeService turns raw printer streams into decode jobs
type DecodeService struct {
	jobRepo   repository.JobRepository
	eventRepo repository.EventRepository
	eventBus  *EventBus
	publisher JobPublisher
	config    *config.Config
	logger    *utils.ServiceLogger
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
}

// NewDecodeService creates a new decode service instance. eventRepo and
// publisher may be nil
func NewDecodeService(
	jobRepo repository.JobRepository,
	eventRepo repository.EventRepository,
	eventBus *EventBus,
	publisher JobPublisher,
	config *config.Config,
	logger *zap.Logger,
) (*DecodeService, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &DecodeService{
		jobRepo:   jobRepo,
		eventRepo: eventRepo,
		eventBus:  eventBus,
		publisher: publisher,
		config:    config,
		logger:    utils.NewServiceLogger(logger, "decode-service"),
		encoder:   encoder,
		decoder:   decoder,
	}, nil
}

// Close releases the compression codecs
func (ds *DecodeService) Close() {
	ds.encoder.Close()
	ds.decoder.Close()
}

// DecodeRequest represents one buffer to decode
type DecodeRequest struct {
	Data       []byte
	Table      string
	Source     string
	SourceType model.SourceType
	Persist    bool
}

// Decode tokenizes and interprets a buffer and records the job
func (ds *DecodeService) Decode(ctx context.Context, req *DecodeRequest) (*model.DecodeResult, error) {
	if len(req.Data) == 0 {
		return nil, ErrEmptyPayload
	}
	if limit := ds.config.Decoder.MaxPayloadBytes; limit > 0 && len(req.Data) > limit {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrPayloadTooLarge, len(req.Data), limit)
	}

	tableName := req.Table
	if tableName == "" {
		tableName = ds.config.Decoder.DefaultTable
	}
	table, err := escpos.LookupTable(tableName)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, tableName)
	}

	source := req.Source
	if source == "" {
		source = "api"
	}
	sourceType := req.SourceType
	if sourceType == "" {
		sourceType = model.SourceTypeAPI
	}

	job := &model.DecodeJob{
		ID:         uuid.New(),
		Source:     source,
		SourceType: sourceType,
		TableName:  table.Name(),
		ByteCount:  len(req.Data),
		CreatedAt:  time.Now(),
	}

	jobLogger := utils.NewJobLogger(ds.logger.Logger, job.ID.String(), source)
	jobLogger.Start(zap.Int("bytes", len(req.Data)), zap.String("table", table.Name()))

	started := time.Now()
	commands := escpos.Parse(table, req.Data)
	events, summary := escpos.NewInterpreter(nil).Run(commands)
	job.DurationMs = int(time.Since(started).Milliseconds())

	ds.fillJob(job, summary)
	if ds.config.Decoder.StoreRaw {
		if err := ds.attachRaw(job, req.Data); err != nil {
			jobLogger.Error(err)
			return nil, err
		}
	}

	result := &model.DecodeResult{
		Job:      job,
		Commands: CommandViews(commands, events),
		Events:   events,
		Summary:  summary,
	}

	if req.Persist && ds.jobRepo != nil {
		if err := ds.jobRepo.Create(ctx, job); err != nil {
			jobLogger.Error(err)
			return nil, fmt.Errorf("failed to store job: %w", err)
		}
	}

	ds.announce(ctx, result)

	jobLogger.Success(
		zap.Int("commands", job.CommandCount),
		zap.Int("unknown", job.UnknownCount),
		zap.String("status", string(job.Status)),
	)
	return result, nil
}

func (ds *DecodeService) fillJob(job *model.DecodeJob, summary escpos.Summary) {
	job.CommandCount = summary.Commands
	job.UnknownCount = summary.Unknown
	job.TextPreview = preview(summary.Text, textPreviewRunes)
	job.PaperLengthMM = PaperLengthMM(summary.PaperDots, summary.DPI)

	switch {
	case summary.Commands == 0:
		job.Status = model.JobStatusEmpty
	case summary.Unknown > 0:
		job.Status = model.JobStatusPartial
	default:
		job.Status = model.JobStatusDecoded
	}

	// Summary goes to JSONB without the full text
	trimmed := summary
	trimmed.Text = ""
	if b, err := json.Marshal(trimmed); err == nil {
		var obj model.JSONObject
		if json.Unmarshal(b, &obj) == nil {
			job.Summary = obj
		}
	}
}

func (ds *DecodeService) attachRaw(job *model.DecodeJob, data []byte) error {
	if !ds.config.Decoder.CompressRaw {
		job.Raw = append([]byte(nil), data...)
		job.RawEncoding = model.RawEncodingNone
		return nil
	}
	job.Raw = ds.encoder.EncodeAll(data, make([]byte, 0, len(data)/2))
	job.RawEncoding = model.RawEncodingZstd
	return nil
}

// announce publishes the job to the event bus, the event journal and the
// external publisher. Failures are logged, never returned
func (ds *DecodeService) announce(ctx context.Context, result *model.DecodeResult) {
	job := result.Job
	data := model.JSONObject{
		"job_id":          job.ID.String(),
		"status":          string(job.Status),
		"byte_count":      job.ByteCount,
		"command_count":   job.CommandCount,
		"unknown_count":   job.UnknownCount,
		"paper_length_mm": job.PaperLengthMM.String(),
		"text_preview":    job.TextPreview,
	}
	ds.emit(ctx, model.NewJobEvent(model.EventJobDecoded, job.Source, &job.ID, data))

	if job.HasUnknown() {
		ds.emit(ctx, model.NewJobEvent(model.EventUnknownSequences, job.Source, &job.ID, model.JSONObject{
			"unknown_count": job.UnknownCount,
			"unknown_bytes": result.Summary.UnknownBytes,
		}))
	}

	if ds.publisher != nil {
		if err := ds.publisher.PublishJob(ctx, result); err != nil {
			ds.logger.Warn("Failed to publish job", zap.String("job_id", job.ID.String()), zap.Error(err))
		}
	}
}

func (ds *DecodeService) emit(ctx context.Context, event *model.JobEvent) {
	if ds.eventBus != nil {
		ds.eventBus.Publish(event)
	}
	if ds.eventRepo != nil {
		if err := ds.eventRepo.Create(ctx, event); err != nil {
			ds.logger.Warn("Failed to store event",
				zap.String("event_type", string(event.EventType)),
				zap.Error(err),
			)
		}
	}
}

// GetJob retrieves a stored job
func (ds *DecodeService) GetJob(ctx context.Context, id uuid.UUID) (*model.DecodeJob, error) {
	return ds.jobRepo.GetByID(ctx, id)
}

// GetRaw returns the original bytes of a stored job
func (ds *DecodeService) GetRaw(ctx context.Context, id uuid.UUID) ([]byte, error) {
	raw, encoding, err := ds.jobRepo.GetRaw(ctx, id)
	if err != nil {
		return nil, err
	}

	switch encoding {
	case model.RawEncodingNone:
		return raw, nil
	case model.RawEncodingZstd:
		out, err := ds.decoder.DecodeAll(raw, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress job bytes: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported raw encoding: %s", encoding)
	}
}

// Redecode runs a stored job through the decoder again, optionally with a
// different table. The result is not persisted
func (ds *DecodeService) Redecode(ctx context.Context, id uuid.UUID, table string) (*model.DecodeResult, error) {
	job, err := ds.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	raw, err := ds.GetRaw(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("job %s has no stored bytes", id)
	}
	if table == "" {
		table = job.TableName
	}
	return ds.Decode(ctx, &DecodeRequest{
		Data:       raw,
		Table:      table,
		Source:     job.Source,
		SourceType: job.SourceType,
	})
}

// ListJobs lists stored jobs
func (ds *DecodeService) ListJobs(ctx context.Context, filter *repository.JobFilter) ([]*model.DecodeJob, *PaginationResult, error) {
	filter.Normalize()
	jobs, total, err := ds.jobRepo.List(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	pagination := &PaginationResult{
		Total:      total,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
		TotalPages: (total + filter.PerPage - 1) / filter.PerPage,
	}

	return jobs, pagination, nil
}

// DeleteJob removes a stored job
func (ds *DecodeService) DeleteJob(ctx context.Context, id uuid.UUID) error {
	if err := ds.jobRepo.Delete(ctx, id); err != nil {
		return err
	}
	ds.emit(ctx, model.NewJobEvent(model.EventJobDeleted, "api", &id, nil))
	ds.logger.Info("Job deleted", zap.String("job_id", id.String()))
	return nil
}

// GetStats aggregates stored jobs
func (ds *DecodeService) GetStats(ctx context.Context, filter *repository.JobFilter) (*repository.JobStats, error) {
	return ds.jobRepo.GetJobStats(ctx, filter)
}

// RecentEvents returns the newest journal entries, if a journal is configured
func (ds *DecodeService) RecentEvents(ctx context.Context, limit int) ([]*model.JobEvent, error) {
	if ds.eventRepo == nil {
		return []*model.JobEvent{}, nil
	}
	return ds.eventRepo.ListRecent(ctx, limit)
}

// Cleanup deletes jobs older than the retention window
func (ds *DecodeService) Cleanup(ctx context.Context) (int64, error) {
	retention := ds.config.Decoder.JobRetention
	if retention <= 0 {
		return 0, nil
	}

	deleted, err := ds.jobRepo.DeleteOlderThan(ctx, time.Now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("failed to clean up jobs: %w", err)
	}
	if deleted > 0 {
		ds.emit(ctx, model.NewJobEvent(model.EventJobsCleanedUp, "cleanup", nil, model.JSONObject{
			"deleted": deleted,
		}))
	}
	return deleted, nil
}

// StartCleanup runs Cleanup every decoder.cleanup_interval until ctx ends
func (ds *DecodeService) StartCleanup(ctx context.Context) {
	interval := ds.config.Decoder.CleanupInterval
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := ds.Cleanup(ctx); err != nil {
				ds.logger.Error("Job cleanup failed", zap.Error(err))
			}
		}
	}
}

// PaperLengthMM converts fed dots to millimetres, rounded to 0.01 mm
func PaperLengthMM(dots, dpi int) decimal.Decimal {
	if dots <= 0 || dpi <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(dots)).
		Mul(mmPerInch).
		Div(decimal.NewFromInt(int64(dpi))).
		Round(2)
}

// preview drops control characters other than newline and tab, which the
// job store's TEXT and JSONB columns cannot hold, and cuts s to n runes
func preview(s string, n int) string {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || !unicode.IsControl(r) {
			return r
		}
		return -1
	}, s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// CommandViews renders parsed commands for the API
func CommandViews(commands []*escpos.Command, events []escpos.Event) []model.CommandView {
	views := make([]model.CommandView, len(commands))
	offset := 0
	for i, cmd := range commands {
		view := model.CommandView{
			Index:       i,
			Offset:      offset,
			Name:        cmd.Name,
			Category:    cmd.Category.String(),
			PayloadKind: cmd.Kind.String(),
			Prefix:      fmt.Sprintf("% x", cmd.Prefix),
			Payload:     fmt.Sprintf("% x", cmd.Payload),
		}
		if sc, ok := cmd.Handler().(*escpos.Subcommand); ok && sc.Nested() != nil {
			view.Nested = sc.Nested().Name
		}
		if i < len(events) {
			view.Description = events[i].Description
		}
		views[i] = view
		offset += cmd.Len()
	}
	return views
}

// PaginationResult represents pagination information
type PaginationResult struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
}
