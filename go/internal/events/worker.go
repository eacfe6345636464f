package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

type WorkerConfig struct {
	QueueSize  int
	MaxRetries int
	RetryDelay time.Duration
	Clock      clockwork.Clock // nil selects the real clock
}

func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		QueueSize:  256,
		MaxRetries: 3,
		RetryDelay: 500 * time.Millisecond,
	}
}

// Worker publishes events off the caller's goroutine so a slow broker never
// stalls the session loop. Events are dropped when the queue is full.
type Worker struct {
	publisher Publisher
	config    WorkerConfig
	queue     chan Event

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewWorker(publisher Publisher, cfg WorkerConfig) *Worker {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultWorkerConfig().QueueSize
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	return &Worker{
		publisher: publisher,
		config:    cfg,
		queue:     make(chan Event, cfg.QueueSize),
	}
}

// Start runs the publish loop until ctx is cancelled or Stop is called
func (w *Worker) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.run(ctx)
	log.Info().Int("queue_size", w.config.QueueSize).Msg("event worker started")
}

// Stop closes the queue and waits for queued events to be flushed
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()
	w.wg.Wait()
	log.Info().Msg("event worker stopped")
}

// Enqueue hands an event to the worker without blocking
func (w *Worker) Enqueue(event Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	select {
	case w.queue <- event:
	default:
		log.Warn().
			Str("event_id", event.ID).
			Str("event_type", string(event.Type)).
			Msg("event queue full, dropping event")
	}
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.queue:
			if !ok {
				return
			}
			if err := w.publishWithRetry(ctx, event); err != nil {
				log.Error().
					Err(err).
					Str("event_id", event.ID).
					Str("event_type", string(event.Type)).
					Msg("failed to publish event")
			}
		}
	}
}

func (w *Worker) publishWithRetry(ctx context.Context, event Event) error {
	var lastErr error

	for attempt := 0; attempt <= w.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-w.config.Clock.After(w.config.RetryDelay * time.Duration(attempt)):
			}
		}

		if err := w.publisher.Publish(ctx, event); err != nil {
			lastErr = err
			log.Warn().
				Err(err).
				Str("event_id", event.ID).
				Int("attempt", attempt+1).
				Msg("failed to publish event, retrying")
			continue
		}

		return nil
	}

	return fmt.Errorf("failed after %d attempts: %w", w.config.MaxRetries+1, lastErr)
}
