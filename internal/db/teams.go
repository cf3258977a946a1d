package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const getTeam = `
SELECT id, owner_user_id, name, prefecture, city, neighborhood, categories,
       skill_level, has_ground, bicycle_parking, kit_primary, kit_secondary,
       roster_by_grade, desired_dates, note, updated_at
FROM teams
WHERE id = $1
`

func (q *Queries) GetTeam(ctx context.Context, id uuid.UUID) (Team, error) {
	row := q.db.QueryRowContext(ctx, getTeam, id)
	var t Team
	err := row.Scan(
		&t.ID,
		&t.OwnerUserID,
		&t.Name,
		&t.Prefecture,
		&t.City,
		&t.Neighborhood,
		pq.Array(&t.Categories),
		&t.SkillLevel,
		&t.HasGround,
		&t.BicycleParking,
		&t.KitPrimary,
		&t.KitSecondary,
		&t.RosterByGrade,
		&t.DesiredDates,
		&t.Note,
		&t.UpdatedAt,
	)
	return t, err
}

const listTeams = `
SELECT id, owner_user_id, name, prefecture, city, neighborhood, categories,
       skill_level, has_ground, bicycle_parking, kit_primary, kit_secondary,
       roster_by_grade, desired_dates, note, updated_at
FROM teams
ORDER BY name
`

func (q *Queries) ListTeams(ctx context.Context) ([]Team, error) {
	rows, err := q.db.QueryContext(ctx, listTeams)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Team
	for rows.Next() {
		var t Team
		if err := rows.Scan(
			&t.ID,
			&t.OwnerUserID,
			&t.Name,
			&t.Prefecture,
			&t.City,
			&t.Neighborhood,
			pq.Array(&t.Categories),
			&t.SkillLevel,
			&t.HasGround,
			&t.BicycleParking,
			&t.KitPrimary,
			&t.KitSecondary,
			&t.RosterByGrade,
			&t.DesiredDates,
			&t.Note,
			&t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const listTeamsByOwner = `
SELECT id, owner_user_id, name, prefecture, city, neighborhood, categories,
       skill_level, has_ground, bicycle_parking, kit_primary, kit_secondary,
       roster_by_grade, desired_dates, note, updated_at
FROM teams
WHERE owner_user_id = $1
ORDER BY name
`

func (q *Queries) ListTeamsByOwner(ctx context.Context, ownerUserID uuid.UUID) ([]Team, error) {
	rows, err := q.db.QueryContext(ctx, listTeamsByOwner, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Team
	for rows.Next() {
		var t Team
		if err := rows.Scan(
			&t.ID,
			&t.OwnerUserID,
			&t.Name,
			&t.Prefecture,
			&t.City,
			&t.Neighborhood,
			pq.Array(&t.Categories),
			&t.SkillLevel,
			&t.HasGround,
			&t.BicycleParking,
			&t.KitPrimary,
			&t.KitSecondary,
			&t.RosterByGrade,
			&t.DesiredDates,
			&t.Note,
			&t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const getVenue = `
SELECT id, name, prefecture, city, address, has_car_parking, has_bike_parking, note
FROM venues
WHERE id = $1
`

func (q *Queries) GetVenue(ctx context.Context, id uuid.UUID) (Venue, error) {
	row := q.db.QueryRowContext(ctx, getVenue, id)
	var v Venue
	err := row.Scan(
		&v.ID,
		&v.Name,
		&v.Prefecture,
		&v.City,
		&v.Address,
		&v.HasCarParking,
		&v.HasBikeParking,
		&v.Note,
	)
	return v, err
}
