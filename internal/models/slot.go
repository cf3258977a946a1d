package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchSlot is a host team's published date/time window offered for a
// practice match. Slots are immutable once created.
type MatchSlot struct {
	ID           uuid.UUID  `json:"id"`
	OwnerUserID  uuid.UUID  `json:"owner_user_id"`
	HostTeamID   uuid.UUID  `json:"host_team_id"`
	Date         string     `json:"date"`       // YYYY-MM-DD
	StartTime    string     `json:"start_time"` // HH:MM or HH:MM:SS
	EndTime      string     `json:"end_time"`
	VenueID      *uuid.UUID `json:"venue_id,omitempty"`
	LocationText string     `json:"location_text,omitempty"`
	Category     string     `json:"category,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
