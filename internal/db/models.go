package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

// Row types mirror table shapes; domain conversion happens in the
// repositories.

type Team struct {
	ID             uuid.UUID
	OwnerUserID    uuid.UUID
	Name           string
	Prefecture     sql.NullString
	City           sql.NullString
	Neighborhood   sql.NullString
	Categories     []string
	SkillLevel     sql.NullInt32
	HasGround      bool
	BicycleParking string
	KitPrimary     sql.NullString
	KitSecondary   sql.NullString
	RosterByGrade  pqtype.NullRawMessage
	DesiredDates   pqtype.NullRawMessage
	Note           sql.NullString
	UpdatedAt      time.Time
}

type Venue struct {
	ID             uuid.UUID
	Name           string
	Prefecture     sql.NullString
	City           sql.NullString
	Address        sql.NullString
	HasCarParking  bool
	HasBikeParking bool
	Note           sql.NullString
}

type MatchSlot struct {
	ID           uuid.UUID
	OwnerUserID  uuid.UUID
	HostTeamID   uuid.UUID
	SlotDate     time.Time
	StartTime    string
	EndTime      string
	VenueID      uuid.NullUUID
	LocationText sql.NullString
	Category     sql.NullString
	CreatedAt    time.Time
}

type MatchRequest struct {
	ID        uuid.UUID
	SlotID    uuid.UUID
	TeamID    uuid.UUID
	UserID    uuid.UUID
	Status    string
	CreatedAt time.Time
}

type ChatThread struct {
	ID         uuid.UUID
	Kind       string
	TeamLowID  uuid.UUID
	TeamHighID uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ChatMembership struct {
	ThreadID   uuid.UUID
	UserID     uuid.UUID
	TeamID     uuid.UUID
	Role       sql.NullString
	LastReadAt sql.NullTime
}

type ChatMessage struct {
	ID           uuid.UUID
	ThreadID     uuid.UUID
	SenderUserID uuid.NullUUID
	SenderTeamID uuid.NullUUID
	Body         string
	CreatedAt    time.Time
}

type ChatOutboxEvent struct {
	ID        uuid.UUID
	ThreadID  uuid.UUID
	EventType string
	Payload   []byte
	CreatedAt time.Time
	SentAt    sql.NullTime
}
