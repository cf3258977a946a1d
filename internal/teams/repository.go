package teams

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mkondo/teamlink/internal/apperr"
	"github.com/mkondo/teamlink/internal/db"
	"github.com/mkondo/teamlink/internal/models"
	"github.com/mkondo/teamlink/internal/sqlutil"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	GetTeam(ctx context.Context, id uuid.UUID) (db.Team, error)
	ListTeams(ctx context.Context) ([]db.Team, error)
	ListTeamsByOwner(ctx context.Context, ownerUserID uuid.UUID) ([]db.Team, error)
	GetVenue(ctx context.Context, id uuid.UUID) (db.Venue, error)
}

// Repository implements team read access. Team mutation belongs to the
// account service; this service only reads.
type Repository struct {
	queries Querier
}

// NewRepository creates a new teams repository
func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

// GetTeam retrieves a team by ID
func (r *Repository) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	team, err := r.queries.GetTeam(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.Validation("team not found")
		}
		if db.IsUnavailable(err) {
			return nil, apperr.Transient("store unavailable", err)
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return r.dbTeamToModel(team)
}

// ListTeams retrieves all teams
func (r *Repository) ListTeams(ctx context.Context) ([]models.Team, error) {
	rows, err := r.queries.ListTeams(ctx)
	if err != nil {
		if db.IsUnavailable(err) {
			return nil, apperr.Transient("store unavailable", err)
		}
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return r.dbTeamsToModels(rows)
}

// ListTeamsByOwner retrieves the teams owned by a user
func (r *Repository) ListTeamsByOwner(ctx context.Context, ownerUserID uuid.UUID) ([]models.Team, error) {
	rows, err := r.queries.ListTeamsByOwner(ctx, ownerUserID)
	if err != nil {
		if db.IsUnavailable(err) {
			return nil, apperr.Transient("store unavailable", err)
		}
		return nil, fmt.Errorf("failed to list teams by owner: %w", err)
	}
	return r.dbTeamsToModels(rows)
}

// GetVenue retrieves a venue by ID
func (r *Repository) GetVenue(ctx context.Context, id uuid.UUID) (*models.Venue, error) {
	v, err := r.queries.GetVenue(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.Validation("venue not found")
		}
		if db.IsUnavailable(err) {
			return nil, apperr.Transient("store unavailable", err)
		}
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}
	return &models.Venue{
		ID:             v.ID,
		Name:           v.Name,
		Prefecture:     sqlutil.FromSqlString(v.Prefecture, ""),
		City:           sqlutil.FromSqlString(v.City, ""),
		Address:        sqlutil.FromSqlString(v.Address, ""),
		HasCarParking:  v.HasCarParking,
		HasBikeParking: v.HasBikeParking,
		Note:           sqlutil.FromSqlString(v.Note, ""),
	}, nil
}

func (r *Repository) dbTeamToModel(t db.Team) (*models.Team, error) {
	team := &models.Team{
		ID:             t.ID,
		OwnerUserID:    t.OwnerUserID,
		Name:           t.Name,
		Prefecture:     sqlutil.FromSqlString(t.Prefecture, ""),
		City:           sqlutil.FromSqlString(t.City, ""),
		Neighborhood:   sqlutil.FromSqlString(t.Neighborhood, ""),
		Categories:     t.Categories,
		SkillLevel:     sqlutil.FromSqlInt32(t.SkillLevel),
		HasGround:      t.HasGround,
		BicycleParking: models.BicycleParking(t.BicycleParking),
		KitPrimary:     sqlutil.FromSqlString(t.KitPrimary, ""),
		KitSecondary:   sqlutil.FromSqlString(t.KitSecondary, ""),
		Note:           sqlutil.FromSqlString(t.Note, ""),
		UpdatedAt:      t.UpdatedAt,
	}

	if t.RosterByGrade.Valid {
		if err := json.Unmarshal(t.RosterByGrade.RawMessage, &team.RosterByGrade); err != nil {
			return nil, fmt.Errorf("failed to unmarshal roster for team %s: %w", t.ID, err)
		}
	}
	if t.DesiredDates.Valid {
		if err := json.Unmarshal(t.DesiredDates.RawMessage, &team.DesiredDates); err != nil {
			return nil, fmt.Errorf("failed to unmarshal desired dates for team %s: %w", t.ID, err)
		}
	}
	return team, nil
}

func (r *Repository) dbTeamsToModels(rows []db.Team) ([]models.Team, error) {
	teams := make([]models.Team, 0, len(rows))
	for _, row := range rows {
		t, err := r.dbTeamToModel(row)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *t)
	}
	return teams, nil
}
