package chatview

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mkondo/teamlink/internal/apperr"
	"github.com/mkondo/teamlink/internal/models"
)

// Stream is the server surface the client consumes.
type Stream interface {
	ListMessages(ctx context.Context, threadID, callerUserID uuid.UUID) ([]models.ChatMessage, error)
	Send(ctx context.Context, threadID, senderUserID, senderTeamID uuid.UUID, body string) (*models.ChatMessage, error)
	MarkRead(ctx context.Context, threadID, callerUserID uuid.UUID) error
}

// Feed hands out per-thread push subscriptions.
type Feed interface {
	Subscribe(ctx context.Context, threadID uuid.UUID) (Subscription, error)
}

// Subscription delivers newly created messages for one thread. Events
// is closed after Close returns; delivery is at-least-once and arrival
// order is not authoritative.
type Subscription interface {
	Events() <-chan models.ChatMessage
	Close() error
}

// ThreadClient drives one open thread: it loads history, follows the
// push feed, tracks the read position, and performs optimistic sends.
type ThreadClient struct {
	stream Stream
	clock  clockwork.Clock

	threadID uuid.UUID
	userID   uuid.UUID
	teamID   uuid.UUID

	mu     sync.Mutex
	view   *View
	draft  string
	seq    int
	closed bool

	sub    Subscription
	cancel context.CancelFunc
	done   chan struct{}
}

// Open loads the thread's full history, subscribes to its push feed,
// and marks the thread read. The returned client keeps consuming feed
// events until Close is called.
func Open(ctx context.Context, stream Stream, feed Feed, clock clockwork.Clock, threadID, userID, teamID uuid.UUID) (*ThreadClient, error) {
	history, err := stream.ListMessages(ctx, threadID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load thread history: %w", err)
	}

	sub, err := feed.Subscribe(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to thread: %w", err)
	}

	if err := stream.MarkRead(ctx, threadID, userID); err != nil {
		sub.Close()
		return nil, fmt.Errorf("failed to mark thread read: %w", err)
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	c := &ThreadClient{
		stream:   stream,
		clock:    clock,
		threadID: threadID,
		userID:   userID,
		teamID:   teamID,
		view:     NewView(),
		sub:      sub,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	for _, m := range history {
		c.view.Merge(FromModel(m))
	}

	go c.consume(loopCtx)
	return c, nil
}

func (c *ThreadClient) consume(ctx context.Context) {
	defer close(c.done)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.sub.Events():
			if !ok {
				return
			}
			c.handleEvent(ctx, msg)
		}
	}
}

func (c *ThreadClient) handleEvent(ctx context.Context, msg models.ChatMessage) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	merged := c.view.Merge(FromModel(msg))
	c.mu.Unlock()
	if !merged {
		return
	}

	// A message from the other side advances the read position without
	// waiting for an explicit user action.
	if msg.SenderUserID == nil || *msg.SenderUserID != c.userID {
		if err := c.stream.MarkRead(ctx, c.threadID, c.userID); err != nil {
			log.Warn().Err(err).Str("threadId", c.threadID.String()).Msg("failed to advance read position")
		}
	}
}

// Send performs an optimistic send: a provisional entry appears in the
// view immediately, is replaced by the authoritative message on
// success, and on failure is removed with the typed text restored to
// the draft so the user can retry.
func (c *ThreadClient) Send(ctx context.Context, body string) (*models.ChatMessage, error) {
	if strings.TrimSpace(body) == "" {
		return nil, apperr.Validation("message body must not be blank")
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, apperr.Validation("thread view is closed")
	}
	c.seq++
	localID := fmt.Sprintf("%s%d", LocalIDPrefix, c.seq)
	c.view.Merge(Message{
		ID:           localID,
		ThreadID:     c.threadID,
		SenderUserID: c.userID,
		SenderTeamID: c.teamID,
		Body:         body,
		CreatedAt:    c.clock.Now(),
		Pending:      true,
	})
	c.draft = ""
	c.mu.Unlock()

	msg, err := c.stream.Send(ctx, c.threadID, c.userID, c.teamID, body)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.Remove(localID)
	if err != nil {
		c.draft = body
		return nil, err
	}
	// Merge tolerates the push feed having delivered the same message
	// already; either way exactly one copy remains visible.
	c.view.Merge(FromModel(*msg))
	return msg, nil
}

// Messages returns the current ordered view.
func (c *ThreadClient) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view.Messages()
}

// Draft returns the unsent input text, restored after a failed send.
func (c *ThreadClient) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// SetDraft records the user's in-progress input.
func (c *ThreadClient) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = text
}

// Close releases the push subscription. No event delivered after Close
// mutates the view.
func (c *ThreadClient) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	err := c.sub.Close()
	<-c.done
	return err
}
