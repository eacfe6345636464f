package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu       sync.Mutex
	failures int
	events   []Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failures > 0 {
		p.failures--
		return errors.New("broker unavailable")
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) published() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

func newEvent(t *testing.T, typ EventType, payload interface{}) Event {
	t.Helper()
	ev, err := New(uuid.New(), typ, payload, time.Now())
	require.NoError(t, err)
	return ev
}

func TestWorker_FlushesOnStop(t *testing.T) {
	pub := &recordingPublisher{}
	w := NewWorker(pub, WorkerConfig{QueueSize: 8, RetryDelay: time.Millisecond})
	w.Start(context.Background())

	for i := 0; i < 3; i++ {
		w.Enqueue(newEvent(t, EventTypeTimerTick, TimerTickPayload{Round: 1, TimeRemainingSec: 3 - i}))
	}
	w.Stop()

	got := pub.published()
	require.Len(t, got, 3)
	assert.Equal(t, EventTypeTimerTick, got[0].Type)

	w.Enqueue(newEvent(t, EventTypeTimeUp, TimeUpPayload{Round: 1}))
	w.Stop()
	assert.Len(t, pub.published(), 3, "enqueue after stop is dropped")
}

func (p *recordingPublisher) remainingFailures() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failures
}

// waitForRetry blocks until the worker sleeps on the clock, then advances it by d
func waitForRetry(t *testing.T, clock *clockwork.FakeClock, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(d)
}

func TestWorker_RetriesFailedPublish(t *testing.T) {
	clock := clockwork.NewFakeClock()
	pub := &recordingPublisher{failures: 2}
	w := NewWorker(pub, WorkerConfig{QueueSize: 4, MaxRetries: 3, RetryDelay: time.Second, Clock: clock})
	w.Start(context.Background())

	w.Enqueue(newEvent(t, EventTypeRoundStarted, RoundStartedPayload{Round: 1, TeamName: "A"}))

	// backoff grows linearly with the attempt number
	waitForRetry(t, clock, time.Second)
	waitForRetry(t, clock, 2*time.Second)

	require.Eventually(t, func() bool { return len(pub.published()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, pub.remainingFailures())
	w.Stop()
}

func TestWorker_GivesUpAfterMaxRetries(t *testing.T) {
	clock := clockwork.NewFakeClock()
	pub := &recordingPublisher{failures: 10}
	w := NewWorker(pub, WorkerConfig{QueueSize: 4, MaxRetries: 2, RetryDelay: time.Second, Clock: clock})
	w.Start(context.Background())

	w.Enqueue(newEvent(t, EventTypeTimeUp, TimeUpPayload{Round: 1}))
	waitForRetry(t, clock, time.Second)
	waitForRetry(t, clock, 2*time.Second)
	w.Stop()

	assert.Empty(t, pub.published())
	assert.Equal(t, 7, pub.remainingFailures(), "one attempt plus two retries")
}

func TestWorker_CancelStopsRetrying(t *testing.T) {
	clock := clockwork.NewFakeClock()
	pub := &recordingPublisher{failures: 10}
	w := NewWorker(pub, WorkerConfig{QueueSize: 4, MaxRetries: 5, RetryDelay: time.Second, Clock: clock})
	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	w.Enqueue(newEvent(t, EventTypeTimeUp, TimeUpPayload{Round: 1}))

	blockCtx, blockCancel := context.WithTimeout(context.Background(), time.Second)
	defer blockCancel()
	require.NoError(t, clock.BlockUntilContext(blockCtx, 1))
	cancel()
	w.Stop()

	assert.Empty(t, pub.published())
	assert.Equal(t, 9, pub.remainingFailures())
}

func TestParsePayload(t *testing.T) {
	ev := newEvent(t, EventTypeRoundResolved, RoundResolvedPayload{Round: 2, TeamName: "B", Result: "SUCCESS", Score: 3})

	parsed, err := ParsePayload(ev)
	require.NoError(t, err)
	payload, ok := parsed.(*RoundResolvedPayload)
	require.True(t, ok)
	assert.Equal(t, 3, payload.Score)
	assert.Equal(t, "B", payload.TeamName)

	unknown, err := ParsePayload(Event{Type: "Nope", Data: []byte(`{}`)})
	require.NoError(t, err)
	assert.Nil(t, unknown)
}
