package slots

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/mkondo/teamlink/internal/apperr"
	"github.com/mkondo/teamlink/internal/models"
	"github.com/rs/zerolog/log"
)

// SlotRepository defines what the app layer needs from the repository
type SlotRepository interface {
	CreateSlot(ctx context.Context, ownerUserID uuid.UUID, req CreateSlotRequest) (*models.MatchSlot, error)
	GetSlot(ctx context.Context, id uuid.UUID) (*models.MatchSlot, error)
	ListSlots(ctx context.Context, from, to string) ([]models.MatchSlot, error)
	RequestedSlotIDs(ctx context.Context, slotIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

// TeamReader resolves team ownership for the create precondition.
type TeamReader interface {
	GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
}

var timeRe = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)

// App handles slot business logic. Slots have no state machine; creation
// and reads are the whole surface.
type App struct {
	repo  SlotRepository
	teams TeamReader
}

// NewApp creates a new slots App
func NewApp(repo SlotRepository, teams TeamReader) *App {
	return &App{repo: repo, teams: teams}
}

// CreateSlot validates and publishes an availability window.
func (a *App) CreateSlot(ctx context.Context, ownerUserID uuid.UUID, req CreateSlotRequest) (*models.MatchSlot, error) {
	if err := a.validateCreateSlotRequest(req); err != nil {
		return nil, err
	}

	host, err := a.teams.GetTeam(ctx, req.HostTeamID)
	if err != nil {
		return nil, fmt.Errorf("host team lookup failed: %w", err)
	}
	if host.OwnerUserID != ownerUserID {
		return nil, apperr.Authorization("only the team owner can publish slots")
	}

	slot, err := a.repo.CreateSlot(ctx, ownerUserID, req)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("slot_id", slot.ID.String()).
		Str("host_team_id", slot.HostTeamID.String()).
		Str("date", slot.Date).
		Msg("slot published")
	return slot, nil
}

// GetSlot retrieves a slot by ID
func (a *App) GetSlot(ctx context.Context, id uuid.UUID) (*models.MatchSlot, error) {
	return a.repo.GetSlot(ctx, id)
}

// ListSlots returns slots in the date range together with their derived
// has-request flag.
func (a *App) ListSlots(ctx context.Context, from, to string) ([]SlotSummary, error) {
	if from == "" || to == "" {
		return nil, apperr.Validation("from and to dates are required")
	}
	if from > to {
		return nil, apperr.Validation("from date is after to date")
	}

	slots, err := a.repo.ListSlots(ctx, from, to)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(slots))
	for i, s := range slots {
		ids[i] = s.ID
	}
	requested, err := a.repo.RequestedSlotIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]SlotSummary, len(slots))
	for i, s := range slots {
		summaries[i] = SlotSummary{MatchSlot: s, HasRequest: requested[s.ID]}
	}
	return summaries, nil
}

// CountByDate aggregates slots per date for calendar rendering. Pure.
func CountByDate(slots []SlotSummary) map[string]int {
	counts := make(map[string]int, len(slots))
	for _, s := range slots {
		counts[s.Date]++
	}
	return counts
}

func (a *App) validateCreateSlotRequest(req CreateSlotRequest) error {
	if req.HostTeamID == uuid.Nil {
		return apperr.Validation("host_team_id is required")
	}
	if req.Date == "" {
		return apperr.Validation("date is required")
	}
	if req.StartTime == "" || req.EndTime == "" {
		return apperr.Validation("start_time and end_time are required")
	}
	if !timeRe.MatchString(req.StartTime) || !timeRe.MatchString(req.EndTime) {
		return apperr.Validation("times must be HH:MM or HH:MM:SS")
	}
	// Zero-padded 24h clock strings compare lexicographically.
	if req.EndTime <= req.StartTime {
		return apperr.Validation("end_time must be after start_time")
	}
	return nil
}
