package models

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus defines the status of a match request.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusAccepted  RequestStatus = "ACCEPTED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusCancelled RequestStatus = "CANCELLED"
)

// Active reports whether the status still blocks a re-request for the
// same slot. Rejected and cancelled requests may be re-submitted.
func (s RequestStatus) Active() bool {
	return s == RequestStatusPending || s == RequestStatusAccepted
}

// Terminal reports whether no further transition is defined from s.
func (s RequestStatus) Terminal() bool {
	return s != RequestStatusPending
}

// MatchRequest is a challenger team's bid to fill a specific slot.
type MatchRequest struct {
	ID          uuid.UUID     `json:"id"`
	SlotID      uuid.UUID     `json:"slot_id"`
	TeamID      uuid.UUID     `json:"team_id"`
	UserID      uuid.UUID     `json:"user_id"`
	Status      RequestStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}
