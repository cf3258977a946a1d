package models

import "github.com/google/uuid"

// Venue is a ground a slot can point at. Read-only in this service.
type Venue struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Prefecture     string    `json:"prefecture,omitempty"`
	City           string    `json:"city,omitempty"`
	Address        string    `json:"address,omitempty"`
	HasCarParking  bool      `json:"has_car_parking"`
	HasBikeParking bool      `json:"has_bike_parking"`
	Note           string    `json:"note,omitempty"`
}
