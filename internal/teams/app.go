package teams

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/mkondo/teamlink/internal/apperr"
	"github.com/mkondo/teamlink/internal/models"
	"github.com/mkondo/teamlink/internal/scoring"
)

// TeamRepository defines what the app layer needs from the repository
type TeamRepository interface {
	GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
	ListTeamsByOwner(ctx context.Context, ownerUserID uuid.UUID) ([]models.Team, error)
	GetVenue(ctx context.Context, id uuid.UUID) (*models.Venue, error)
}

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidDate reports whether s is a zero-padded YYYY-MM-DD date string.
func ValidDate(s string) bool {
	return dateRe.MatchString(s)
}

// App handles team reads and match building.
type App struct {
	repo TeamRepository
}

// NewApp creates a new teams App
func NewApp(repo TeamRepository) *App {
	return &App{repo: repo}
}

// GetTeam retrieves a team by ID
func (a *App) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	return a.repo.GetTeam(ctx, id)
}

// ListTeams retrieves all teams
func (a *App) ListTeams(ctx context.Context) ([]models.Team, error) {
	return a.repo.ListTeams(ctx)
}

// ListTeamsByOwner retrieves the caller's teams
func (a *App) ListTeamsByOwner(ctx context.Context, ownerUserID uuid.UUID) ([]models.Team, error) {
	return a.repo.ListTeamsByOwner(ctx, ownerUserID)
}

// GetVenue retrieves a venue by ID
func (a *App) GetVenue(ctx context.Context, id uuid.UUID) (*models.Venue, error) {
	return a.repo.GetVenue(ctx, id)
}

// BuildMatches scores every pair of teams that want to play on date and
// returns them ranked.
func (a *App) BuildMatches(ctx context.Context, date string) ([]scoring.Pair, error) {
	if !ValidDate(date) {
		return nil, apperr.Validation("date must be YYYY-MM-DD")
	}
	teams, err := a.repo.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams for matching: %w", err)
	}
	return scoring.BuildMatches(teams, date), nil
}
