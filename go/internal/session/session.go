package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/teamquiz/go/internal/countdown"
	"github.com/mcdev12/teamquiz/go/internal/events"
	"github.com/mcdev12/teamquiz/go/internal/models"
	"github.com/mcdev12/teamquiz/go/internal/round"
)

// ErrClosed is returned by calls made after the session shut down
var ErrClosed = errors.New("session closed")

// PromptGateway is the external prompt pool the session talks to
type PromptGateway interface {
	FetchPrompt(ctx context.Context) (models.Prompt, error)
	SubmitPrompt(ctx context.Context, text string) (models.SubmitPromptResponse, error)
}

// EventSink receives domain events. It must not block.
type EventSink interface {
	Enqueue(event events.Event)
}

// Snapshot is the versioned state pushed to viewers
type Snapshot struct {
	SessionID string `json:"session_id"`
	Version   int    `json:"version"`
	round.Snapshot
}

// Config holds session settings
type Config struct {
	DefaultTimerSeconds int
	InitialPromptCount  int
	MinPromptLength     int // shortest prompt accepted for submission
	InboxSize           int
	Clock               clockwork.Clock
}

// Session owns one quiz game. All state lives on the loop goroutine.
type Session struct {
	id        uuid.UUID
	inbox     chan Msg
	machine   *round.Machine
	countdown *countdown.Countdown
	gateway   PromptGateway
	sink      EventSink
	clock     clockwork.Clock

	version int
	clients map[string]chan Snapshot

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a session and starts its loop
func New(parent context.Context, gateway PromptGateway, sink EventSink, cfg Config) *Session {
	ctx, cancel := context.WithCancel(parent)
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.InboxSize <= 0 {
		cfg.InboxSize = 64
	}

	s := &Session{
		id:      uuid.New(),
		inbox:   make(chan Msg, cfg.InboxSize),
		gateway: gateway,
		sink:    sink,
		clock:   cfg.Clock,
		clients: make(map[string]chan Snapshot),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	s.countdown = countdown.New(cfg.Clock, func(t countdown.Tick) {
		s.post(timerTick{tick: t})
	})
	s.machine = round.NewMachine(s.countdown, cfg.DefaultTimerSeconds, cfg.InitialPromptCount, cfg.MinPromptLength)

	go s.loop()

	log.Info().
		Str("session_id", s.id.String()).
		Int("default_timer_sec", cfg.DefaultTimerSeconds).
		Msg("session started")
	return s
}

// ID returns the session id
func (s *Session) ID() uuid.UUID { return s.id }

// Done is closed when the loop has exited
func (s *Session) Done() <-chan struct{} { return s.done }

// Close stops the loop, cancels the countdown and closes all subscriber outboxes
func (s *Session) Close() {
	s.cancel()
	<-s.done
}

func (s *Session) loop() {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			s.shutdown()
			return

		case m := <-s.inbox:
			s.dispatch(m)
		}
	}
}

func (s *Session) dispatch(m Msg) {
	switch msg := m.(type) {
	case AddTeam:
		s.reply(msg.Reply, s.handleAddTeam(msg))
	case RemoveTeam:
		s.reply(msg.Reply, s.handleRemoveTeam(msg))
	case RequestPrompt:
		s.reply(msg.Reply, s.handleRequestPrompt())
	case ReportResult:
		s.reply(msg.Reply, s.handleReportResult(msg))
	case SubmitPrompt:
		s.reply(msg.Reply, s.handleSubmitPrompt(msg))

	case promptFetched:
		s.handlePromptFetched(msg)
	case promptSaved:
		s.handlePromptSaved(msg)
	case timerTick:
		s.handleTimerTick(msg)

	case Subscribe:
		s.clients[msg.ClientID] = msg.Outbox
		select {
		case msg.Outbox <- s.snapshot():
		default:
		}
		msg.Reply <- nil
	case Unsubscribe:
		if ch, ok := s.clients[msg.ClientID]; ok {
			close(ch)
			delete(s.clients, msg.ClientID)
		}
	case GetState:
		msg.Reply <- s.snapshot()
	}
}

// post delivers background completions into the loop
func (s *Session) post(m Msg) {
	select {
	case s.inbox <- m:
	case <-s.ctx.Done():
	}
}

func (s *Session) reply(ch chan Reply, err error) {
	if ch == nil {
		return
	}
	ch <- Reply{Snapshot: s.snapshot(), Err: err}
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{
		SessionID: s.id.String(),
		Version:   s.version,
		Snapshot:  s.machine.Snapshot(),
	}
}

// changed bumps the version and pushes the new snapshot to every subscriber
func (s *Session) changed() {
	s.version++
	snap := s.snapshot()
	for id, ch := range s.clients {
		select {
		case ch <- snap:
		default:
			// Client is slow/full - drop them.
			log.Warn().Str("client_id", id).Msg("subscriber too slow, dropping")
			close(ch)
			delete(s.clients, id)
		}
	}
}

func (s *Session) emit(eventType events.EventType, payload interface{}) {
	if s.sink == nil {
		return
	}
	ev, err := events.New(s.id, eventType, payload, s.clock.Now())
	if err != nil {
		log.Error().Err(err).Str("event_type", string(eventType)).Msg("failed to build event")
		return
	}
	s.sink.Enqueue(ev)
}

func (s *Session) shutdown() {
	s.countdown.Stop()
	for id, ch := range s.clients {
		close(ch) // Tell client no more snapshots
		delete(s.clients, id)
	}
	s.cancel()
	log.Info().Str("session_id", s.id.String()).Int("version", s.version).Msg("session stopped")
}

// send posts a command and waits for its reply
func (s *Session) send(ctx context.Context, m Msg, reply chan Reply) (Snapshot, error) {
	select {
	case s.inbox <- m:
	case <-s.done:
		return Snapshot{}, ErrClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}

	select {
	case r := <-reply:
		return r.Snapshot, r.Err
	case <-s.done:
		return Snapshot{}, ErrClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// AddTeam adds a team to the roster
func (s *Session) AddTeam(ctx context.Context, name string) (Snapshot, error) {
	reply := make(chan Reply, 1)
	return s.send(ctx, AddTeam{Name: name, Reply: reply}, reply)
}

// RemoveTeam removes the team at index
func (s *Session) RemoveTeam(ctx context.Context, index int) (Snapshot, error) {
	reply := make(chan Reply, 1)
	return s.send(ctx, RemoveTeam{Index: index, Reply: reply}, reply)
}

// RequestPrompt opens a round; the prompt arrives asynchronously
func (s *Session) RequestPrompt(ctx context.Context) (Snapshot, error) {
	reply := make(chan Reply, 1)
	return s.send(ctx, RequestPrompt{Reply: reply}, reply)
}

// ReportResult resolves the active round
func (s *Session) ReportResult(ctx context.Context, result models.RoundResult) (Snapshot, error) {
	reply := make(chan Reply, 1)
	return s.send(ctx, ReportResult{Result: result, Reply: reply}, reply)
}

// SubmitPrompt validates and submits a new prompt to the pool
func (s *Session) SubmitPrompt(ctx context.Context, text string) (Snapshot, error) {
	reply := make(chan Reply, 1)
	return s.send(ctx, SubmitPrompt{Text: text, Reply: reply}, reply)
}

// State returns the current snapshot
func (s *Session) State(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	select {
	case s.inbox <- GetState{Reply: reply}:
	case <-s.done:
		return Snapshot{}, ErrClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-s.done:
		return Snapshot{}, ErrClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Subscribe registers outbox for snapshot pushes. The current snapshot is
// sent immediately. Once Subscribe returns nil the session closes outbox on
// Unsubscribe or shutdown; on ErrClosed the outbox was never registered.
func (s *Session) Subscribe(clientID string, outbox chan Snapshot) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}

	reply := make(chan error, 1)
	select {
	case s.inbox <- Subscribe{ClientID: clientID, Outbox: outbox, Reply: reply}:
	case <-s.done:
		return ErrClosed
	}

	select {
	case err := <-reply:
		return err
	case <-s.done:
		// the loop may have registered the outbox just before stopping
		select {
		case err := <-reply:
			return err
		default:
			return ErrClosed
		}
	}
}

// Unsubscribe removes a subscriber
func (s *Session) Unsubscribe(clientID string) {
	select {
	case s.inbox <- Unsubscribe{ClientID: clientID}:
	case <-s.done:
	}
}

func (s *Session) now() time.Time {
	return s.clock.Now()
}
