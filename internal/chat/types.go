package chat

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mkondo/teamlink/internal/models"
)

// OpenThreadRequest asks for the direct thread between two teams,
// creating it if absent.
type OpenThreadRequest struct {
	TeamAID uuid.UUID `json:"team_a_id"`
	TeamBID uuid.UUID `json:"team_b_id"`
}

// SendMessageRequest is the payload for posting to a thread.
type SendMessageRequest struct {
	TeamID uuid.UUID `json:"team_id"`
	Body   string    `json:"body"`
}

// MembershipOutcome tags the result of the upsert-or-noop membership
// repair: the row was either created now or already existed. Both are
// success.
type MembershipOutcome string

const (
	MembershipCreated MembershipOutcome = "CREATED"
	MembershipExisted MembershipOutcome = "ALREADY_EXISTED"
)

// Event types carried through the outbox to the gateway.
const (
	EventTypeMessagePosted = "MessagePosted"
)

// Envelope is the wire form of a chat event, written to the outbox and
// published verbatim to the event stream.
type Envelope struct {
	EventID   string          `json:"eventId"`
	EventType string          `json:"eventType"`
	ThreadID  string          `json:"threadId"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// MessagePostedPayload is the payload of a MessagePosted event.
type MessagePostedPayload struct {
	Message models.ChatMessage `json:"message"`
}
