package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/teamquiz/go/internal/events"
	"github.com/mcdev12/teamquiz/go/internal/models"
)

type fakeGateway struct {
	mu        sync.Mutex
	fetches   int
	submits   []string
	prompt    models.Prompt
	fetchErr  error
	submitErr error
	total     int
	release   chan struct{} // when set, FetchPrompt waits for it
}

func (g *fakeGateway) FetchPrompt(ctx context.Context) (models.Prompt, error) {
	g.mu.Lock()
	g.fetches++
	release, prompt, err := g.release, g.prompt, g.fetchErr
	g.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return models.Prompt{}, ctx.Err()
		}
	}
	return prompt, err
}

func (g *fakeGateway) SubmitPrompt(ctx context.Context, text string) (models.SubmitPromptResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.submits = append(g.submits, text)
	if g.submitErr != nil {
		return models.SubmitPromptResponse{}, g.submitErr
	}
	g.total++
	total := g.total
	return models.SubmitPromptResponse{Prompt: text, TotalPrompts: &total}, nil
}

func (g *fakeGateway) fetchCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fetches
}

func (g *fakeGateway) submitted() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.submits...)
}

type recordingSink struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingSink) Enqueue(ev events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingSink) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []events.EventType{}
	for _, ev := range r.events {
		out = append(out, ev.Type)
	}
	return out
}

func intPtr(v int) *int { return &v }

type harness struct {
	s     *Session
	gw    *fakeGateway
	sink  *recordingSink
	clock *clockwork.FakeClock
	ctx   context.Context
}

func newHarness(t *testing.T, teams ...string) *harness {
	t.Helper()
	clock := clockwork.NewFakeClock()
	gw := &fakeGateway{prompt: models.Prompt{Text: "A fruit you peel", TotalPrompts: intPtr(20), TimerSeconds: intPtr(3)}, total: 20}
	sink := &recordingSink{}
	s := New(context.Background(), gw, sink, Config{DefaultTimerSeconds: 5, InitialPromptCount: 20, Clock: clock})
	t.Cleanup(s.Close)

	h := &harness{s: s, gw: gw, sink: sink, clock: clock, ctx: context.Background()}
	for _, name := range teams {
		_, err := s.AddTeam(h.ctx, name)
		require.NoError(t, err)
	}
	return h
}

func (h *harness) state(t *testing.T) Snapshot {
	t.Helper()
	snap, err := h.s.State(h.ctx)
	require.NoError(t, err)
	return snap
}

func (h *harness) waitFor(t *testing.T, desc string, cond func(Snapshot) bool) Snapshot {
	t.Helper()
	var last Snapshot
	require.Eventually(t, func() bool {
		last = h.state(t)
		return cond(last)
	}, time.Second, 5*time.Millisecond, desc)
	return last
}

func (h *harness) startRound(t *testing.T) Snapshot {
	t.Helper()
	_, err := h.s.RequestPrompt(h.ctx)
	require.NoError(t, err)
	return h.waitFor(t, "prompt delivered", func(s Snapshot) bool { return s.CanReportResult })
}

// tick advances the fake clock one second once the countdown ticker is armed
func (h *harness) tick(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, h.clock.BlockUntilContext(ctx, 1))
	h.clock.Advance(time.Second)
}

func scores(s Snapshot) []int {
	out := []int{}
	for _, t := range s.Teams {
		out = append(out, t.Score)
	}
	return out
}

func TestSession_TwoTeamScenario(t *testing.T) {
	h := newHarness(t, "A", "B")

	snap := h.startRound(t)
	assert.Equal(t, models.RoundStateActive, snap.State)
	require.NotNil(t, snap.Owner)
	assert.Equal(t, "A", snap.Owner.Name)
	assert.Equal(t, "A fruit you peel", snap.Prompt)
	assert.Equal(t, "03", snap.Timer)

	snap, err := h.s.ReportResult(h.ctx, models.RoundResultSuccess)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, scores(snap))
	assert.Equal(t, 1, snap.Cursor)
	assert.Equal(t, models.RoundStateIdle, snap.State)
	assert.Equal(t, "--", snap.Timer)

	snap = h.startRound(t)
	assert.Equal(t, "B", snap.Owner.Name)

	snap, err = h.s.ReportResult(h.ctx, models.RoundResultFail)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, scores(snap))
	assert.Equal(t, 0, snap.Cursor)
	assert.Equal(t, models.RoundStateIdle, snap.State)

	assert.Equal(t, []events.EventType{
		events.EventTypeTeamAdded,
		events.EventTypeTeamAdded,
		events.EventTypeRoundStarted,
		events.EventTypePromptDelivered,
		events.EventTypeRoundResolved,
		events.EventTypeRoundStarted,
		events.EventTypePromptDelivered,
		events.EventTypeRoundResolved,
	}, h.sink.types())
}

func TestSession_DoubleRequestIssuesOneFetch(t *testing.T) {
	h := newHarness(t, "A", "B")
	h.gw.release = make(chan struct{})

	_, err := h.s.RequestPrompt(h.ctx)
	require.NoError(t, err)
	snap, err := h.s.RequestPrompt(h.ctx)
	require.ErrorIs(t, err, models.ErrRoundInProgress)
	assert.Equal(t, models.RoundStateActive, snap.State)
	assert.False(t, snap.CanRequestPrompt)
	assert.False(t, snap.CanReportResult)

	close(h.gw.release)
	snap = h.waitFor(t, "prompt delivered", func(s Snapshot) bool { return s.CanReportResult })

	_, err = h.s.RequestPrompt(h.ctx)
	require.ErrorIs(t, err, models.ErrRoundInProgress)

	assert.Equal(t, 1, h.gw.fetchCount())
	assert.Equal(t, []int{0, 0}, scores(snap))
	assert.Equal(t, 0, snap.Cursor)
}

func TestSession_RequestWithEmptyRoster(t *testing.T) {
	h := newHarness(t)

	snap, err := h.s.RequestPrompt(h.ctx)
	require.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, models.RoundStateIdle, snap.State)
	assert.Equal(t, models.ToneError, snap.Status.Tone)
	assert.Equal(t, 0, h.gw.fetchCount())
}

func TestSession_FetchFailureReturnsToIdle(t *testing.T) {
	h := newHarness(t, "A", "B")
	h.gw.fetchErr = fmt.Errorf("fetch: %w", models.ErrGatewayFailure)

	_, err := h.s.RequestPrompt(h.ctx)
	require.NoError(t, err)
	snap := h.waitFor(t, "round reverted", func(s Snapshot) bool {
		return s.State == models.RoundStateIdle && s.Round == 1
	})

	assert.True(t, snap.CanRequestPrompt)
	assert.False(t, snap.CanReportResult)
	assert.Equal(t, "--", snap.Timer)
	assert.Equal(t, 0, snap.Cursor)
	assert.Equal(t, []int{0, 0}, scores(snap))
	assert.Equal(t, models.ToneError, snap.Status.Tone)
	assert.Contains(t, h.sink.types(), events.EventTypePromptFailed)

	h.gw.mu.Lock()
	h.gw.fetchErr = nil
	h.gw.mu.Unlock()
	snap = h.startRound(t)
	assert.Equal(t, "A", snap.Owner.Name)
}

func TestSession_RemoveTeamDuringRound(t *testing.T) {
	h := newHarness(t, "A", "B")
	before := h.startRound(t)

	snap, err := h.s.RemoveTeam(h.ctx, 1)
	require.ErrorIs(t, err, models.ErrRoundInProgress)
	assert.Equal(t, before.Teams, snap.Teams)
	assert.Equal(t, before.Cursor, snap.Cursor)
	assert.Equal(t, models.RoundStateActive, snap.State)
}

func TestSession_RemoveOutOfRangeIsSilent(t *testing.T) {
	h := newHarness(t, "A")
	before := h.state(t)

	snap, err := h.s.RemoveTeam(h.ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, before.Version, snap.Version)
	assert.Len(t, snap.Teams, 1)
}

func TestSession_ReportWhileIdleIsSilent(t *testing.T) {
	h := newHarness(t, "A")
	before := h.state(t)

	snap, err := h.s.ReportResult(h.ctx, models.RoundResultSuccess)
	require.ErrorIs(t, err, models.ErrIdleAction)
	assert.Equal(t, before.Version, snap.Version)
	assert.Equal(t, before.Status, snap.Status)
	assert.Equal(t, []int{0}, scores(snap))
}

func TestSession_TimerExpiryKeepsRoundActive(t *testing.T) {
	h := newHarness(t, "A", "B")
	h.startRound(t)

	for want := 2; want >= 1; want-- {
		h.tick(t)
		expected := fmt.Sprintf("%02d", want)
		h.waitFor(t, "timer "+expected, func(s Snapshot) bool { return s.Timer == expected })
	}
	h.tick(t)
	snap := h.waitFor(t, "time up", func(s Snapshot) bool { return s.Timer == "00" })

	assert.Equal(t, models.RoundStateActive, snap.State)
	assert.True(t, snap.CanReportResult)
	assert.Equal(t, models.ToneDone, snap.Status.Tone)

	snap, err := h.s.ReportResult(h.ctx, models.RoundResultSuccess)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, scores(snap))
	assert.Equal(t, 1, snap.Cursor)
	assert.Equal(t, "--", snap.Timer)
	assert.Contains(t, h.sink.types(), events.EventTypeTimeUp)
}

func TestSession_SubmitPrompt(t *testing.T) {
	h := newHarness(t, "A")

	snap, err := h.s.SubmitPrompt(h.ctx, " ab ")
	require.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, models.ToneError, snap.SaveStatus.Tone)
	assert.Empty(t, h.gw.submitted())

	_, err = h.s.SubmitPrompt(h.ctx, "  A board game classic ")
	require.NoError(t, err)
	snap = h.waitFor(t, "prompt saved", func(s Snapshot) bool { return s.SaveStatus.Tone == models.ToneDone })
	assert.Equal(t, 21, snap.PromptCount)
	assert.Equal(t, []string{"A board game classic"}, h.gw.submitted())
	assert.Contains(t, h.sink.types(), events.EventTypePromptSubmitted)
}

func TestSession_SubmitPromptHonoursConfiguredMinimum(t *testing.T) {
	gw := &fakeGateway{total: 20}
	s := New(context.Background(), gw, &recordingSink{}, Config{MinPromptLength: 10, Clock: clockwork.NewFakeClock()})
	t.Cleanup(s.Close)

	snap, err := s.SubmitPrompt(context.Background(), "short one")
	require.ErrorIs(t, err, models.ErrValidation)
	assert.Equal(t, "Prompt is too short.", snap.SaveStatus.Message)
	assert.Empty(t, gw.submitted())
}

func TestSession_SubmitPromptDuplicate(t *testing.T) {
	h := newHarness(t, "A")
	snap := h.startRound(t)
	h.gw.mu.Lock()
	h.gw.submitErr = fmt.Errorf("submit: %w", models.ErrDuplicate)
	h.gw.mu.Unlock()

	_, err := h.s.SubmitPrompt(h.ctx, "A fruit you peel")
	require.NoError(t, err)
	got := h.waitFor(t, "save failed", func(s Snapshot) bool { return s.SaveStatus.Tone == models.ToneError })

	assert.Equal(t, "Prompt already exists.", got.SaveStatus.Message)
	assert.Equal(t, snap.State, got.State)
	assert.Equal(t, snap.PromptCount, got.PromptCount)
}

func TestSession_SubscribersReceiveSnapshots(t *testing.T) {
	h := newHarness(t)
	out := make(chan Snapshot, 8)
	require.NoError(t, h.s.Subscribe("viewer", out))

	first := <-out
	assert.Empty(t, first.Teams)

	_, err := h.s.AddTeam(h.ctx, "A")
	require.NoError(t, err)

	select {
	case next := <-out:
		assert.Equal(t, first.Version+1, next.Version)
		require.Len(t, next.Teams, 1)
		assert.Equal(t, "A", next.Teams[0].Name)
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for snapshot")
	}

	h.s.Close()
	_, ok := <-out
	assert.False(t, ok, "outbox is closed on shutdown")

	_, err = h.s.AddTeam(h.ctx, "B")
	require.ErrorIs(t, err, ErrClosed)
}

func TestSession_SlowSubscriberIsDropped(t *testing.T) {
	h := newHarness(t)
	out := make(chan Snapshot, 1)
	require.NoError(t, h.s.Subscribe("slow", out))

	_, err := h.s.AddTeam(h.ctx, "A")
	require.NoError(t, err)

	<-out // initial snapshot
	_, ok := <-out
	assert.False(t, ok, "slow subscriber is closed instead of blocking the loop")
}

func TestSession_SubscribeAfterClose(t *testing.T) {
	// the inbox stays buffered after the loop exits, so repeat to cover both select branches
	for i := 0; i < 50; i++ {
		h := newHarness(t)
		h.s.Close()

		out := make(chan Snapshot, 1)
		err := h.s.Subscribe(fmt.Sprintf("late-%d", i), out)
		require.ErrorIs(t, err, ErrClosed)

		select {
		case _, ok := <-out:
			t.Fatalf("outbox of a rejected subscription was used (ok=%v)", ok)
		default:
		}
	}
}

func TestSession_SubscribeRacingClose(t *testing.T) {
	for i := 0; i < 50; i++ {
		h := newHarness(t)
		out := make(chan Snapshot, 1)

		errCh := make(chan error, 1)
		go func() { errCh <- h.s.Subscribe("racer", out) }()
		h.s.Close()

		if err := <-errCh; err != nil {
			require.ErrorIs(t, err, ErrClosed)
			continue
		}
		// accepted subscriptions are always closed by shutdown
		require.Eventually(t, func() bool {
			for {
				select {
				case _, ok := <-out:
					if !ok {
						return true
					}
				default:
					return false
				}
			}
		}, time.Second, 5*time.Millisecond)
	}
}

func TestSession_DoneClosesOnClose(t *testing.T) {
	h := newHarness(t, "A")

	select {
	case <-h.s.Done():
		t.Fatalf("session stopped before Close")
	default:
	}

	h.s.Close()

	select {
	case <-h.s.Done():
	case <-time.After(time.Second):
		t.Fatalf("Done not closed after Close")
	}
	_, err := h.s.State(context.Background())
	require.ErrorIs(t, err, ErrClosed)
}
