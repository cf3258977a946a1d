package requests

import "github.com/google/uuid"

// SubmitRequest is the payload for bidding on a slot.
type SubmitRequest struct {
	SlotID uuid.UUID `json:"slot_id"`
	TeamID uuid.UUID `json:"team_id"`
}
