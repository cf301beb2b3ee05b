// internal/service/decode_service_test.go
package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"escpos-service/internal/config"
	"escpos-service/internal/model"
	"escpos-service/internal/repository"
)

type recordingPublisher struct {
	mutex   sync.Mutex
	results []*model.DecodeResult
	err     error
}

func (p *recordingPublisher) PublishJob(ctx context.Context, result *model.DecodeResult) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.results = append(p.results, result)
	return p.err
}

func (p *recordingPublisher) count() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return len(p.results)
}

func testConfig() *config.Config {
	return &config.Config{
		Decoder: config.DecoderConfig{
			DefaultTable:    "escpos",
			MaxPayloadBytes: 1 << 20,
			StoreRaw:        true,
			CompressRaw:     true,
			JobRetention:    time.Hour,
		},
		Capture: config.CaptureConfig{
			IdleGap:    30 * time.Millisecond,
			MaxJobSize: 1 << 16,
		},
	}
}

func newTestDecodeService(t *testing.T, cfg *config.Config) (*DecodeService, repository.JobRepository, *recordingPublisher, *EventBus) {
	t.Helper()
	repo := repository.NewMemoryJobRepository(100)
	pub := &recordingPublisher{}
	bus := NewEventBus(zap.NewNop())
	ds, err := NewDecodeService(repo, nil, bus, pub, cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(ds.Close)
	return ds, repo, pub, bus
}

var receipt = []byte("\x1b@\x1ba\x01STORE\n\x1ba\x00Item 1.00\n\x1bd\x03\x1dV\x00")

func TestDecodeReceipt(t *testing.T) {
	ds, _, pub, _ := newTestDecodeService(t, testConfig())

	result, err := ds.Decode(context.Background(), &DecodeRequest{Data: receipt})
	require.NoError(t, err)

	job := result.Job
	assert.Equal(t, model.JobStatusDecoded, job.Status)
	assert.Equal(t, "api", job.Source)
	assert.Equal(t, model.SourceTypeAPI, job.SourceType)
	assert.Equal(t, "escpos", job.TableName)
	assert.Equal(t, len(receipt), job.ByteCount)
	assert.Equal(t, len(result.Commands), job.CommandCount)
	assert.Zero(t, job.UnknownCount)
	assert.Contains(t, job.TextPreview, "STORE")
	assert.Equal(t, model.RawEncodingZstd, job.RawEncoding)
	assert.NotContains(t, job.Summary, "text")

	first := result.Commands[0]
	assert.Equal(t, "INITIALIZE", first.Name)
	assert.Equal(t, "1b 40", first.Prefix)
	assert.Equal(t, 0, first.Offset)
	assert.Equal(t, 2, result.Commands[1].Offset)

	last := result.Commands[len(result.Commands)-1]
	assert.Equal(t, "CUT", last.Name)

	assert.Equal(t, 1, pub.count())
}

func TestDecodePersistAndRaw(t *testing.T) {
	ds, _, _, _ := newTestDecodeService(t, testConfig())
	ctx := context.Background()

	result, err := ds.Decode(ctx, &DecodeRequest{Data: receipt, Persist: true, Source: "till-1", SourceType: model.SourceTypeTCP})
	require.NoError(t, err)

	stored, err := ds.GetJob(ctx, result.Job.ID)
	require.NoError(t, err)
	assert.Equal(t, "till-1", stored.Source)

	raw, err := ds.GetRaw(ctx, result.Job.ID)
	require.NoError(t, err)
	assert.Equal(t, receipt, raw)

	again, err := ds.Redecode(ctx, result.Job.ID, "")
	require.NoError(t, err)
	assert.Equal(t, result.Job.CommandCount, again.Job.CommandCount)
	assert.NotEqual(t, result.Job.ID, again.Job.ID)

	jobs, page, err := ds.ListJobs(ctx, &repository.JobFilter{})
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
	assert.Equal(t, 1, page.TotalPages)

	require.NoError(t, ds.DeleteJob(ctx, result.Job.ID))
	_, err = ds.GetJob(ctx, result.Job.ID)
	assert.True(t, errors.Is(err, repository.ErrJobNotFound))
}

func TestDecodeUncompressedRaw(t *testing.T) {
	cfg := testConfig()
	cfg.Decoder.CompressRaw = false
	ds, _, _, _ := newTestDecodeService(t, cfg)

	result, err := ds.Decode(context.Background(), &DecodeRequest{Data: receipt, Persist: true})
	require.NoError(t, err)
	assert.Equal(t, model.RawEncodingNone, result.Job.RawEncoding)

	raw, err := ds.GetRaw(context.Background(), result.Job.ID)
	require.NoError(t, err)
	assert.Equal(t, receipt, raw)
}

func TestDecodeErrors(t *testing.T) {
	cfg := testConfig()
	cfg.Decoder.MaxPayloadBytes = 4
	ds, _, pub, _ := newTestDecodeService(t, cfg)
	ctx := context.Background()

	_, err := ds.Decode(ctx, &DecodeRequest{})
	assert.ErrorIs(t, err, ErrEmptyPayload)

	_, err = ds.Decode(ctx, &DecodeRequest{Data: receipt})
	assert.ErrorIs(t, err, ErrPayloadTooLarge)

	_, err = ds.Decode(ctx, &DecodeRequest{Data: []byte("ab"), Table: "star"})
	assert.ErrorIs(t, err, ErrUnknownTable)

	assert.Zero(t, pub.count())
}

func TestDecodeUnknownSequences(t *testing.T) {
	ds, _, _, bus := newTestDecodeService(t, testConfig())
	events := bus.Subscribe(model.EventUnknownSequences)
	go bus.Start()
	defer bus.Stop()

	result, err := ds.Decode(context.Background(), &DecodeRequest{Data: []byte("A\x1b\xffB")})
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusPartial, result.Job.Status)
	assert.True(t, result.Job.HasUnknown())

	select {
	case ev := <-events:
		assert.Equal(t, result.Job.ID, *ev.JobID)
		assert.Equal(t, "WARNING", ev.Severity)
	case <-time.After(time.Second):
		t.Fatal("no UNKNOWN_SEQUENCES event")
	}
}

func TestPublisherFailureDoesNotFailDecode(t *testing.T) {
	ds, _, pub, _ := newTestDecodeService(t, testConfig())
	pub.err = errors.New("broker down")

	_, err := ds.Decode(context.Background(), &DecodeRequest{Data: receipt})
	assert.NoError(t, err)
}

func TestCleanup(t *testing.T) {
	ds, repo, _, _ := newTestDecodeService(t, testConfig())
	ctx := context.Background()

	old := &model.DecodeJob{ID: uuid.New(), Source: "a", CreatedAt: time.Now().Add(-2 * time.Hour)}
	require.NoError(t, repo.Create(ctx, old))
	_, err := ds.Decode(ctx, &DecodeRequest{Data: receipt, Persist: true})
	require.NoError(t, err)

	deleted, err := ds.Cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	stats, err := ds.GetStats(ctx, &repository.JobFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalJobs)
}

func TestPaperLengthMM(t *testing.T) {
	tests := []struct {
		dots, dpi int
		want      string
	}{
		{180, 180, "25.4"},
		{360, 360, "25.4"},
		{100, 180, "14.11"},
		{0, 180, "0"},
		{100, 0, "0"},
	}
	for _, tt := range tests {
		got := PaperLengthMM(tt.dots, tt.dpi)
		assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "%d dots at %d dpi: got %s", tt.dots, tt.dpi, got)
	}
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "héllo", preview("héllo", 10))
	assert.Equal(t, "hé", preview("héllo", 2))
	assert.Equal(t, "a\tb\nc", preview("\x00a\tb\x07\nc\x7f", 10))
	assert.Equal(t, "OK", preview("\x00\x00\x00OK!", 2))
}

func TestDecodeStripsControlBytesFromPreview(t *testing.T) {
	ds, repo, _, bus := newTestDecodeService(t, testConfig())
	events := bus.Subscribe(model.EventJobDecoded)
	go bus.Start()
	defer bus.Stop()

	result, err := ds.Decode(context.Background(), &DecodeRequest{Data: []byte("\x1b@\x00\x00OK\n"), Persist: true})
	require.NoError(t, err)

	assert.NotContains(t, result.Job.TextPreview, "\x00")
	assert.Equal(t, "OK\n", result.Job.TextPreview)

	stored, err := repo.GetByID(context.Background(), result.Job.ID)
	require.NoError(t, err)
	assert.Equal(t, "OK\n", stored.TextPreview)

	select {
	case ev := <-events:
		assert.Equal(t, "OK\n", ev.Data["text_preview"])
	case <-time.After(time.Second):
		t.Fatal("no job event published")
	}
}
