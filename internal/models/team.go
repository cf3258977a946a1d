package models

import (
	"time"

	"github.com/google/uuid"
)

// BicycleParking describes whether spectators can park bicycles at the
// team's home ground.
type BicycleParking string

const (
	BicycleParkingAvailable   BicycleParking = "AVAILABLE"
	BicycleParkingUnavailable BicycleParking = "UNAVAILABLE"
	BicycleParkingUnknown     BicycleParking = "UNKNOWN"
)

// DefaultSkillLevel is assumed when a team has not reported a level.
const DefaultSkillLevel = 5

// Team represents a club team looking for practice matches.
type Team struct {
	ID             uuid.UUID      `json:"id"`
	OwnerUserID    uuid.UUID      `json:"owner_user_id"`
	Name           string         `json:"name"`
	Prefecture     string         `json:"prefecture,omitempty"`
	City           string         `json:"city,omitempty"`
	Neighborhood   string         `json:"neighborhood,omitempty"`
	Categories     []string       `json:"categories,omitempty"`
	SkillLevel     *int           `json:"skill_level,omitempty"` // 1-10 self reported
	HasGround      bool           `json:"has_ground"`
	BicycleParking BicycleParking `json:"bicycle_parking"`
	KitPrimary     string         `json:"kit_primary,omitempty"`
	KitSecondary   string         `json:"kit_secondary,omitempty"`
	RosterByGrade  map[string]int `json:"roster_by_grade,omitempty"`
	DesiredDates   []string       `json:"desired_dates,omitempty"` // YYYY-MM-DD
	Note           string         `json:"note,omitempty"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Category returns the team's primary category tag, or "" if none is set.
func (t *Team) Category() string {
	if len(t.Categories) == 0 {
		return ""
	}
	return t.Categories[0]
}

// Level returns the self-reported skill level, defaulting when absent.
func (t *Team) Level() int {
	if t.SkillLevel == nil {
		return DefaultSkillLevel
	}
	return *t.SkillLevel
}

// Location joins the free-text location fields into one display string.
func (t *Team) Location() string {
	s := t.Prefecture
	if t.City != "" {
		if s != "" {
			s += " "
		}
		s += t.City
	}
	if t.Neighborhood != "" {
		if s != "" {
			s += " "
		}
		s += t.Neighborhood
	}
	return s
}

// WantsDate reports whether date (YYYY-MM-DD) is on the team's desired list.
func (t *Team) WantsDate(date string) bool {
	for _, d := range t.DesiredDates {
		if d == date {
			return true
		}
	}
	return false
}
