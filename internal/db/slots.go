package db

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const createMatchSlot = `
INSERT INTO match_slots (id, owner_user_id, host_team_id, slot_date, start_time,
                         end_time, venue_id, location_text, category)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, owner_user_id, host_team_id, slot_date, start_time, end_time,
          venue_id, location_text, category, created_at
`

type CreateMatchSlotParams struct {
	ID           uuid.UUID
	OwnerUserID  uuid.UUID
	HostTeamID   uuid.UUID
	SlotDate     time.Time
	StartTime    string
	EndTime      string
	VenueID      uuid.NullUUID
	LocationText string
	Category     string
}

func (q *Queries) CreateMatchSlot(ctx context.Context, arg CreateMatchSlotParams) (MatchSlot, error) {
	row := q.db.QueryRowContext(ctx, createMatchSlot,
		arg.ID,
		arg.OwnerUserID,
		arg.HostTeamID,
		arg.SlotDate,
		arg.StartTime,
		arg.EndTime,
		arg.VenueID,
		arg.LocationText,
		arg.Category,
	)
	return scanMatchSlot(row)
}

const getMatchSlot = `
SELECT id, owner_user_id, host_team_id, slot_date, start_time, end_time,
       venue_id, location_text, category, created_at
FROM match_slots
WHERE id = $1
`

func (q *Queries) GetMatchSlot(ctx context.Context, id uuid.UUID) (MatchSlot, error) {
	return scanMatchSlot(q.db.QueryRowContext(ctx, getMatchSlot, id))
}

const listMatchSlotsInRange = `
SELECT id, owner_user_id, host_team_id, slot_date, start_time, end_time,
       venue_id, location_text, category, created_at
FROM match_slots
WHERE slot_date >= $1 AND slot_date <= $2
ORDER BY slot_date, start_time
`

type ListMatchSlotsInRangeParams struct {
	FromDate time.Time
	ToDate   time.Time
}

func (q *Queries) ListMatchSlotsInRange(ctx context.Context, arg ListMatchSlotsInRangeParams) ([]MatchSlot, error) {
	rows, err := q.db.QueryContext(ctx, listMatchSlotsInRange, arg.FromDate, arg.ToDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MatchSlot
	for rows.Next() {
		var s MatchSlot
		if err := rows.Scan(
			&s.ID,
			&s.OwnerUserID,
			&s.HostTeamID,
			&s.SlotDate,
			&s.StartTime,
			&s.EndTime,
			&s.VenueID,
			&s.LocationText,
			&s.Category,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMatchSlot(row rowScanner) (MatchSlot, error) {
	var s MatchSlot
	err := row.Scan(
		&s.ID,
		&s.OwnerUserID,
		&s.HostTeamID,
		&s.SlotDate,
		&s.StartTime,
		&s.EndTime,
		&s.VenueID,
		&s.LocationText,
		&s.Category,
		&s.CreatedAt,
	)
	return s, err
}
