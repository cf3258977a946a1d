package chatview

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mkondo/teamlink/internal/apperr"
	"github.com/mkondo/teamlink/internal/models"
)

type fakeStream struct {
	mu        sync.Mutex
	history   []models.ChatMessage
	sendErr   error
	sent      []models.ChatMessage
	markReads int
	clock     clockwork.Clock
}

func (f *fakeStream) ListMessages(ctx context.Context, threadID, callerUserID uuid.UUID) ([]models.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ChatMessage(nil), f.history...), nil
}

func (f *fakeStream) Send(ctx context.Context, threadID, senderUserID, senderTeamID uuid.UUID, body string) (*models.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	msg := models.ChatMessage{
		ID:           uuid.New(),
		ThreadID:     threadID,
		SenderUserID: &senderUserID,
		SenderTeamID: &senderTeamID,
		Body:         body,
		CreatedAt:    f.clock.Now(),
	}
	f.sent = append(f.sent, msg)
	return &msg, nil
}

func (f *fakeStream) MarkRead(ctx context.Context, threadID, callerUserID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markReads++
	return nil
}

func (f *fakeStream) markReadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.markReads
}

type fakeSub struct {
	events chan models.ChatMessage
	once   sync.Once
	closed bool
}

func (s *fakeSub) Events() <-chan models.ChatMessage { return s.events }

func (s *fakeSub) Close() error {
	s.once.Do(func() {
		s.closed = true
		close(s.events)
	})
	return nil
}

type fakeFeed struct {
	sub *fakeSub
}

func (f *fakeFeed) Subscribe(ctx context.Context, threadID uuid.UUID) (Subscription, error) {
	return f.sub, nil
}

type clientFixture struct {
	client *ThreadClient
	stream *fakeStream
	sub    *fakeSub
	clock  *clockwork.FakeClock
	userID uuid.UUID
	peerID uuid.UUID
}

func newClientFixture(t *testing.T, history ...models.ChatMessage) *clientFixture {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC))
	userID, teamID := uuid.New(), uuid.New()
	stream := &fakeStream{history: history, clock: clock}
	sub := &fakeSub{events: make(chan models.ChatMessage, 8)}
	threadID := uuid.New()

	client, err := Open(context.Background(), stream, &fakeFeed{sub: sub}, clock, threadID, userID, teamID)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return &clientFixture{client: client, stream: stream, sub: sub, clock: clock, userID: userID, peerID: uuid.New()}
}

// waitFor polls until cond holds; the consume loop runs on its own
// goroutine so state changes are not immediate.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not reached")
}

func (f *clientFixture) peerMessage(body string, at time.Time) models.ChatMessage {
	peerTeam := uuid.New()
	return models.ChatMessage{
		ID:           uuid.New(),
		ThreadID:     f.client.threadID,
		SenderUserID: &f.peerID,
		SenderTeamID: &peerTeam,
		Body:         body,
		CreatedAt:    at,
	}
}

func TestOpenLoadsHistoryAndMarksRead(t *testing.T) {
	at := time.Date(2026, 9, 12, 9, 0, 0, 0, time.UTC)
	seed := models.ChatMessage{ID: uuid.New(), Body: "earlier", CreatedAt: at}

	f := newClientFixture(t, seed)
	msgs := f.client.Messages()
	if len(msgs) != 1 || msgs[0].ID != seed.ID.String() {
		t.Errorf("history not loaded: %+v", msgs)
	}
	if got := f.stream.markReadCount(); got != 1 {
		t.Errorf("markRead calls = %d, want 1 on open", got)
	}
}

func TestInboundEventDedup(t *testing.T) {
	f := newClientFixture(t)
	msg := f.peerMessage("hi", f.clock.Now())

	// At-least-once delivery: the same event arrives twice.
	f.sub.events <- msg
	f.sub.events <- msg
	waitFor(t, func() bool { return len(f.client.Messages()) == 1 })

	// Give the duplicate a chance to be processed, then recheck.
	waitFor(t, func() bool { return f.stream.markReadCount() >= 2 })
	if got := len(f.client.Messages()); got != 1 {
		t.Errorf("duplicate event rendered: %d messages", got)
	}
}

func TestInboundForeignMessageAdvancesReadPosition(t *testing.T) {
	f := newClientFixture(t)

	f.sub.events <- f.peerMessage("from the other side", f.clock.Now())
	waitFor(t, func() bool { return f.stream.markReadCount() == 2 })

	// The client's own message echoed back must not trigger markRead.
	own := f.peerMessage("mine", f.clock.Now())
	own.SenderUserID = &f.userID
	f.sub.events <- own
	waitFor(t, func() bool { return len(f.client.Messages()) == 2 })
	if got := f.stream.markReadCount(); got != 2 {
		t.Errorf("markRead calls = %d, want 2 (own echo should not advance)", got)
	}
}

func TestOptimisticSendReconciles(t *testing.T) {
	f := newClientFixture(t)

	msg, err := f.client.Send(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	msgs := f.client.Messages()
	if len(msgs) != 1 {
		t.Fatalf("len(messages) = %d, want 1", len(msgs))
	}
	if msgs[0].ID != msg.ID.String() || msgs[0].Pending {
		t.Errorf("provisional entry not replaced: %+v", msgs[0])
	}

	// The push feed now delivers the same message; no duplicate may
	// appear once both the send response and the event have arrived.
	// The sentinel guarantees the echoed event has been processed.
	f.sub.events <- *msg
	f.sub.events <- f.peerMessage("sentinel", f.clock.Now())
	waitFor(t, func() bool { return len(f.client.Messages()) == 2 })

	var copies int
	for _, m := range f.client.Messages() {
		if m.ID == msg.ID.String() {
			copies++
		}
	}
	if copies != 1 {
		t.Errorf("send response plus event produced %d copies, want 1", copies)
	}
}

func TestOptimisticSendFailureRestoresDraft(t *testing.T) {
	f := newClientFixture(t)
	f.stream.sendErr = errors.New("connection reset")

	if _, err := f.client.Send(context.Background(), "hello"); err == nil {
		t.Fatal("Send should fail")
	}
	if got := len(f.client.Messages()); got != 0 {
		t.Errorf("failed send left %d entries visible, want 0", got)
	}
	if f.client.Draft() != "hello" {
		t.Errorf("draft = %q, want the unsent text restored", f.client.Draft())
	}
}

func TestSendBlankBody(t *testing.T) {
	f := newClientFixture(t)
	if _, err := f.client.Send(context.Background(), "  \n"); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("blank send = %v, want validation error", err)
	}
	if got := len(f.client.Messages()); got != 0 {
		t.Errorf("blank send rendered %d entries", got)
	}
}

func TestCloseReleasesSubscription(t *testing.T) {
	f := newClientFixture(t)
	if err := f.client.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !f.sub.closed {
		t.Error("subscription not released on Close")
	}

	// Events observed after release must not mutate the view or the
	// read position.
	before := f.stream.markReadCount()
	f.client.handleEvent(context.Background(), f.peerMessage("late", f.clock.Now()))
	if got := len(f.client.Messages()); got != 0 {
		t.Errorf("post-close event mutated the view: %d entries", got)
	}
	if got := f.stream.markReadCount(); got != before {
		t.Errorf("post-close event advanced read position")
	}
}
