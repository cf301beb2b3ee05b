// internal/service/capture_service.go
package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"escpos-service/internal/config"
	"escpos-service/internal/model"
	"escpos-service/internal/protocol"
	"escpos-service/internal/utils"
)

const (
	captureReadSize     = 4096
	captureRetryDelay   = 5 * time.Second
	captureFlushTimeout = 10 * time.Second
)

// SourceFactory builds a capture source from configuration
type SourceFactory func(cfg config.CaptureSource, logger *zap.Logger) (protocol.CaptureSource, error)

// CaptureService reads print jobs from configured ports and decodes them
type CaptureService struct {
	decoder    *DecodeService
	eventBus   *EventBus
	config     *config.CaptureConfig
	newSource  SourceFactory
	logger     *zap.Logger
	runners    []*captureRunner
	wg         sync.WaitGroup
	cancel     context.CancelFunc
	retryDelay time.Duration
	mutex      sync.Mutex
}

// captureRunner owns one source and its job buffer
type captureRunner struct {
	cfg     config.CaptureSource
	source  protocol.CaptureSource
	logger  *utils.CaptureLogger
	mutex   sync.RWMutex
	info    model.CaptureSourceInfo
	buffer  []byte
	lastRx  time.Time
	service *CaptureService
}

// NewCaptureService creates a capture service. A nil factory uses
// protocol.NewCaptureSource
func NewCaptureService(
	decoder *DecodeService,
	eventBus *EventBus,
	cfg *config.CaptureConfig,
	factory SourceFactory,
	logger *zap.Logger,
) *CaptureService {
	if factory == nil {
		factory = protocol.NewCaptureSource
	}
	return &CaptureService{
		decoder:    decoder,
		eventBus:   eventBus,
		config:     cfg,
		newSource:  factory,
		logger:     logger.With(zap.String("service", "capture-service")),
		retryDelay: captureRetryDelay,
	}
}

// Start launches one reader goroutine per configured source
func (cs *CaptureService) Start(ctx context.Context) error {
	cs.mutex.Lock()
	defer cs.mutex.Unlock()

	if cs.cancel != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	cs.cancel = cancel

	for _, srcCfg := range cs.config.Sources {
		source, err := cs.newSource(srcCfg, cs.logger)
		if err != nil {
			cancel()
			cs.cancel = nil
			cs.runners = nil
			return err
		}

		runner := &captureRunner{
			cfg:     srcCfg,
			source:  source,
			logger:  utils.NewCaptureLogger(cs.logger, srcCfg.Name, string(source.Type())),
			service: cs,
			info: model.CaptureSourceInfo{
				Name:    srcCfg.Name,
				Type:    source.Type(),
				Address: source.Address(),
				Table:   srcCfg.Table,
			},
		}
		cs.runners = append(cs.runners, runner)

		cs.wg.Add(1)
		go func() {
			defer cs.wg.Done()
			runner.run(runCtx)
		}()
	}

	cs.logger.Info("Capture started", zap.Int("sources", len(cs.runners)))
	return nil
}

// Stop cancels every reader, flushes pending bytes and waits
func (cs *CaptureService) Stop() {
	cs.mutex.Lock()
	cancel := cs.cancel
	cs.cancel = nil
	cs.mutex.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	cs.wg.Wait()
	cs.logger.Info("Capture stopped")
}

// Sources reports the state of every configured source
func (cs *CaptureService) Sources() []model.CaptureSourceInfo {
	cs.mutex.Lock()
	runners := cs.runners
	cs.mutex.Unlock()

	infos := make([]model.CaptureSourceInfo, 0, len(runners))
	for _, r := range runners {
		infos = append(infos, r.snapshot())
	}
	return infos
}

func (r *captureRunner) snapshot() model.CaptureSourceInfo {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	info := r.info
	info.Address = r.source.Address()
	return info
}

func (r *captureRunner) update(fn func(info *model.CaptureSourceInfo)) {
	r.mutex.Lock()
	fn(&r.info)
	r.mutex.Unlock()
}

func (r *captureRunner) publish(eventType model.EventType, data model.JSONObject) {
	if r.service.eventBus != nil {
		r.service.eventBus.Publish(model.NewJobEvent(eventType, r.cfg.Name, nil, data))
	}
}

// run opens the source and reads until ctx ends, reopening after errors
func (r *captureRunner) run(ctx context.Context) {
	defer r.source.Close()

	for ctx.Err() == nil {
		if err := r.source.Open(ctx); err != nil {
			r.logger.LogConnection("open", err)
			r.update(func(info *model.CaptureSourceInfo) { info.LastError = err.Error() })
			r.publish(model.EventCaptureError, model.JSONObject{"error": err.Error()})
			if !r.sleep(ctx) {
				return
			}
			continue
		}

		r.logger.LogConnection("open", nil)
		r.update(func(info *model.CaptureSourceInfo) {
			info.Running = true
			info.LastError = ""
		})
		r.publish(model.EventCaptureStarted, model.JSONObject{"address": r.source.Address()})

		err := r.readLoop(ctx)
		r.flush("stopped")
		r.source.Close()
		r.update(func(info *model.CaptureSourceInfo) { info.Running = false })
		r.publish(model.EventCaptureStopped, nil)

		if err == nil || ctx.Err() != nil {
			return
		}
		r.logger.LogConnection("read", err)
		r.update(func(info *model.CaptureSourceInfo) { info.LastError = err.Error() })
		r.publish(model.EventCaptureError, model.JSONObject{"error": err.Error()})
		if !r.sleep(ctx) {
			return
		}
	}
}

func (r *captureRunner) sleep(ctx context.Context) bool {
	timer := time.NewTimer(r.service.retryDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// readLoop accumulates bytes into jobs. It returns nil when ctx ends and
// the read error otherwise
func (r *captureRunner) readLoop(ctx context.Context) error {
	idleGap := r.service.config.IdleGap
	maxJob := r.service.config.MaxJobSize

	for {
		data, err := r.source.Read(ctx, captureReadSize)
		if ctx.Err() != nil {
			return nil
		}

		if len(data) > 0 {
			r.buffer = append(r.buffer, data...)
			r.lastRx = time.Now()
			r.update(func(info *model.CaptureSourceInfo) { info.BytesSeen += int64(len(data)) })
			if maxJob > 0 && len(r.buffer) >= maxJob {
				r.flush("max_size")
			}
		}

		switch {
		case errors.Is(err, io.EOF):
			r.flush("connection_closed")
		case err != nil:
			return err
		case len(data) == 0 && len(r.buffer) > 0 && idleGap > 0 && time.Since(r.lastRx) >= idleGap:
			r.flush("idle")
		}
	}
}

// flush hands the buffered bytes to the decoder as one job
func (r *captureRunner) flush(reason string) {
	if len(r.buffer) == 0 {
		return
	}
	data := r.buffer
	r.buffer = nil
	r.logger.LogJobCaptured(len(data), reason)

	ctx, cancel := context.WithTimeout(context.Background(), captureFlushTimeout)
	defer cancel()

	result, err := r.service.decoder.Decode(ctx, &DecodeRequest{
		Data:       data,
		Table:      r.cfg.Table,
		Source:     r.cfg.Name,
		SourceType: r.source.Type(),
		Persist:    true,
	})
	if err != nil {
		r.logger.Error("Failed to decode captured job", zap.Error(err))
		r.update(func(info *model.CaptureSourceInfo) { info.LastError = err.Error() })
		return
	}

	now := result.Job.CreatedAt
	r.update(func(info *model.CaptureSourceInfo) {
		info.JobsSeen++
		info.LastJobAt = &now
	})
}
