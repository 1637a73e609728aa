package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/career-pilot/internal/models"
	"alfredoptarigan/career-pilot/internal/repositories"
)

// HistoryRecorder appends analysis history off the request path. Failures
// are logged and never reach the caller.
type HistoryRecorder interface {
	Start(ctx context.Context)
	Stop()
	Record(record *models.AnalysisHistory) bool
}

const historyWriteTimeout = 10 * time.Second

type historyRecorder struct {
	repo        repositories.AnalysisRepository
	publisher   EventPublisher
	queue       chan *models.AnalysisHistory
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once
	log         *zap.Logger

	// guards enqueueing against Stop so no record lands after the drain
	mu      sync.RWMutex
	stopped bool
}

func NewHistoryRecorder(
	repo repositories.AnalysisRepository,
	publisher EventPublisher,
	queueSize int,
	concurrency int,
	log *zap.Logger,
) HistoryRecorder {
	return &historyRecorder{
		repo:        repo,
		publisher:   publisher,
		queue:       make(chan *models.AnalysisHistory, queueSize),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
		log:         log.Named("history"),
	}
}

// Start implements HistoryRecorder.
func (w *historyRecorder) Start(ctx context.Context) {
	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.process(ctx, i+1)
	}
	w.log.Info("history recorder started", zap.Int("workers", w.concurrency))
}

// Stop drains queued records and waits for the workers to exit.
func (w *historyRecorder) Stop() {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		w.stopped = true
		w.mu.Unlock()
		close(w.stopChan)
	})
	w.wg.Wait()
	w.log.Info("history recorder stopped")
}

// Record queues a record without blocking. It reports false when the record
// was dropped.
func (w *historyRecorder) Record(record *models.AnalysisHistory) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		w.log.Warn("recorder stopped, dropping analysis record", zap.String("file", record.ResumeFileName))
		return false
	}

	select {
	case w.queue <- record:
		return true
	default:
		w.log.Warn("history queue full, dropping analysis record", zap.String("file", record.ResumeFileName))
		return false
	}
}

func (w *historyRecorder) process(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			w.drain(ctx, workerID)
			return
		case record := <-w.queue:
			w.persist(ctx, workerID, record)
		}
	}
}

func (w *historyRecorder) drain(ctx context.Context, workerID int) {
	for {
		select {
		case record := <-w.queue:
			w.persist(ctx, workerID, record)
		default:
			return
		}
	}
}

func (w *historyRecorder) persist(ctx context.Context, workerID int, record *models.AnalysisHistory) {
	// detached from the request; bounded instead
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), historyWriteTimeout)
	defer cancel()

	if err := w.repo.Append(writeCtx, record); err != nil {
		w.log.Error("failed to append analysis history",
			zap.Int("worker", workerID),
			zap.String("file", record.ResumeFileName),
			zap.Error(err),
		)
		return
	}

	if err := w.publisher.PublishAnalysisCompleted(writeCtx, record); err != nil {
		w.log.Warn("failed to publish analysis event",
			zap.Int("worker", workerID),
			zap.String("analysis_id", record.ID.String()),
			zap.Error(err),
		)
		return
	}

	w.log.Debug("analysis history recorded", zap.Int("worker", workerID), zap.String("analysis_id", record.ID.String()))
}
