// Package chatview implements the consumer side of the message stream:
// an ordered, deduplicated view of a thread's messages fed by history
// loads, send responses, and the push feed, plus optimistic sending.
package chatview

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mkondo/teamlink/internal/models"
)

// LocalIDPrefix tags provisional entries rendered before the server
// confirms a send. Server-assigned identifiers are UUIDs and can never
// collide with it.
const LocalIDPrefix = "local-"

// Message is a view entry. ID is a string rather than a uuid.UUID so
// provisional entries can carry a synthetic identifier.
type Message struct {
	ID           string
	ThreadID     uuid.UUID
	SenderUserID uuid.UUID
	SenderTeamID uuid.UUID
	Body         string
	CreatedAt    time.Time
	Pending      bool
}

// FromModel converts a server message into a view entry.
func FromModel(m models.ChatMessage) Message {
	out := Message{
		ID:        m.ID.String(),
		ThreadID:  m.ThreadID,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
	}
	if m.SenderUserID != nil {
		out.SenderUserID = *m.SenderUserID
	}
	if m.SenderTeamID != nil {
		out.SenderTeamID = *m.SenderTeamID
	}
	return out
}

// IsLocalID reports whether id names a provisional entry.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, LocalIDPrefix)
}

// View is the ordered-and-deduplicated sink. History loads, send
// responses and push events all merge into it; entries with an already
// known identifier are skipped so at-least-once delivery never renders
// a message twice. Ordering is by creation time with the identifier as
// tiebreak. View is not safe for concurrent use; callers serialize.
type View struct {
	entries []Message
	known   map[string]bool
}

func NewView() *View {
	return &View{known: make(map[string]bool)}
}

// Merge inserts msg in order. It returns false and leaves the view
// unchanged when an entry with the same identifier is already present.
func (v *View) Merge(msg Message) bool {
	if v.known[msg.ID] {
		return false
	}
	v.known[msg.ID] = true
	idx := sort.Search(len(v.entries), func(i int) bool {
		return less(msg, v.entries[i])
	})
	v.entries = append(v.entries, Message{})
	copy(v.entries[idx+1:], v.entries[idx:])
	v.entries[idx] = msg
	return true
}

// Remove drops the entry with the given identifier, if present.
func (v *View) Remove(id string) bool {
	if !v.known[id] {
		return false
	}
	delete(v.known, id)
	for i, e := range v.entries {
		if e.ID == id {
			v.entries = append(v.entries[:i], v.entries[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether an entry with the identifier is present.
func (v *View) Contains(id string) bool {
	return v.known[id]
}

// Messages returns the current ordered view as a copy.
func (v *View) Messages() []Message {
	return append([]Message(nil), v.entries...)
}

func (v *View) Len() int {
	return len(v.entries)
}

func less(a, b Message) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
