package slots

import (
	"github.com/google/uuid"
	"github.com/mkondo/teamlink/internal/models"
)

// CreateSlotRequest is the payload for publishing an availability window.
type CreateSlotRequest struct {
	HostTeamID   uuid.UUID  `json:"host_team_id"`
	Date         string     `json:"date"`       // YYYY-MM-DD
	StartTime    string     `json:"start_time"` // HH:MM or HH:MM:SS
	EndTime      string     `json:"end_time"`
	VenueID      *uuid.UUID `json:"venue_id,omitempty"`
	LocationText string     `json:"location_text,omitempty"`
	Category     string     `json:"category,omitempty"`
}

// SlotSummary is a slot plus its only derived state: whether any
// non-cancelled request targets it. Computed from request data, never
// stored.
type SlotSummary struct {
	models.MatchSlot
	HasRequest bool `json:"has_request"`
}
