package models

import "github.com/google/uuid"

// User is the authenticated account a session resolves to. Account
// management itself lives in the auth collaborator.
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}
