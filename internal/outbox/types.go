package outbox

import "github.com/google/uuid"

// Event is one chat outbox row headed for the event stream. Payload is
// the JSON document written in the same transaction as the message.
type Event struct {
	ID        uuid.UUID
	ThreadID  uuid.UUID
	EventType string
	Payload   []byte
}
