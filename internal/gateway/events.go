package gateway

import (
	"encoding/json"
	"time"

	"github.com/mkondo/teamlink/internal/models"
)

// ThreadEvent is the frame pushed to WebSocket clients watching a
// thread.
type ThreadEvent struct {
	ID        string          `json:"id"`        // Event UUID
	ThreadID  string          `json:"thread_id"` // Thread UUID
	Type      EventType       `json:"type"`      // Event type
	Timestamp time.Time       `json:"timestamp"` // Event creation time
	Data      json.RawMessage `json:"data"`      // Event-specific payload
}

// EventType represents the type of thread event
type EventType string

const (
	EventTypeMessagePosted EventType = "MessagePosted"
)

// MessagePostedData is the payload carried by a MessagePosted frame.
type MessagePostedData struct {
	Message models.ChatMessage `json:"message"`
}

// ParseEventPayload parses event data into the appropriate payload struct
func ParseEventPayload(event *ThreadEvent) (interface{}, error) {
	switch event.Type {
	case EventTypeMessagePosted:
		var payload MessagePostedData
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return nil, err
		}
		return payload, nil
	default:
		return nil, nil // Unknown event type
	}
}
