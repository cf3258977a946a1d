package models

import (
	"time"

	"github.com/google/uuid"
)

// ThreadKind defines the kind of a chat thread.
type ThreadKind string

const (
	// ThreadKindDirect is the single persistent conversation between one
	// unordered pair of teams.
	ThreadKindDirect ThreadKind = "DIRECT"
)

// ChatThread is a conversation between two teams. TeamLowID/TeamHighID
// hold the unordered pair in normalized order (smaller UUID string first)
// so the pair maps to exactly one row.
type ChatThread struct {
	ID         uuid.UUID  `json:"id"`
	Kind       ThreadKind `json:"kind"`
	TeamLowID  uuid.UUID  `json:"team_low_id"`
	TeamHighID uuid.UUID  `json:"team_high_id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// HasTeam reports whether teamID is one of the thread's participants.
func (t *ChatThread) HasTeam(teamID uuid.UUID) bool {
	return t.TeamLowID == teamID || t.TeamHighID == teamID
}

// ChatMembership ties a user (acting for a team) to a thread and carries
// their read position.
type ChatMembership struct {
	ThreadID   uuid.UUID  `json:"thread_id"`
	UserID     uuid.UUID  `json:"user_id"`
	TeamID     uuid.UUID  `json:"team_id"`
	Role       string     `json:"role,omitempty"`
	LastReadAt *time.Time `json:"last_read_at,omitempty"`
}

// ChatMessage is one immutable message in a thread. Ordering is by
// CreatedAt with ID as tiebreak.
type ChatMessage struct {
	ID           uuid.UUID  `json:"id"`
	ThreadID     uuid.UUID  `json:"thread_id"`
	SenderUserID *uuid.UUID `json:"sender_user_id,omitempty"` // nil for system messages
	SenderTeamID *uuid.UUID `json:"sender_team_id,omitempty"`
	Body         string     `json:"body"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NormalizePair orders two team IDs so that (A,B) and (B,A) produce the
// same (low, high) pair. UUID strings are compared lexicographically.
func NormalizePair(a, b uuid.UUID) (low, high uuid.UUID) {
	if a.String() <= b.String() {
		return a, b
	}
	return b, a
}
