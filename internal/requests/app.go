package requests

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mkondo/teamlink/internal/apperr"
	"github.com/mkondo/teamlink/internal/models"
	"github.com/rs/zerolog/log"
)

// RequestRepository defines what the app layer needs from the repository
type RequestRepository interface {
	CreateRequest(ctx context.Context, slotID, teamID, userID uuid.UUID) (*models.MatchRequest, error)
	GetRequest(ctx context.Context, id uuid.UUID) (*models.MatchRequest, error)
	TransitionFromPending(ctx context.Context, id uuid.UUID, status models.RequestStatus) (*models.MatchRequest, error)
	ListRequestsBySlot(ctx context.Context, slotID uuid.UUID) ([]models.MatchRequest, error)
	ListRequestsByUser(ctx context.Context, userID uuid.UUID) ([]models.MatchRequest, error)
}

// SlotReader resolves slots for ownership checks.
type SlotReader interface {
	GetSlot(ctx context.Context, id uuid.UUID) (*models.MatchSlot, error)
}

// TeamReader resolves teams for ownership checks.
type TeamReader interface {
	GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
}

// App is the negotiation state machine: PENDING moves to exactly one of
// ACCEPTED, REJECTED or CANCELLED; all three are terminal.
type App struct {
	repo  RequestRepository
	slots SlotReader
	teams TeamReader
}

// NewApp creates a new requests App
func NewApp(repo RequestRepository, slots SlotReader, teams TeamReader) *App {
	return &App{repo: repo, slots: slots, teams: teams}
}

// Submit creates a pending request against a slot on behalf of
// requesterTeamID. Self-requests are rejected; a duplicate active request
// surfaces as a conflict the caller should treat as informational.
func (a *App) Submit(ctx context.Context, slotID, requesterTeamID, requesterUserID uuid.UUID) (*models.MatchRequest, error) {
	if slotID == uuid.Nil || requesterTeamID == uuid.Nil {
		return nil, apperr.Validation("slot_id and team_id are required")
	}

	slot, err := a.slots.GetSlot(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("slot lookup failed: %w", err)
	}
	if slot.OwnerUserID == requesterUserID {
		return nil, apperr.Domain("cannot request own slot")
	}

	team, err := a.teams.GetTeam(ctx, requesterTeamID)
	if err != nil {
		return nil, fmt.Errorf("team lookup failed: %w", err)
	}
	if team.OwnerUserID != requesterUserID {
		return nil, apperr.Authorization("caller does not own the requesting team")
	}

	req, err := a.repo.CreateRequest(ctx, slotID, requesterTeamID, requesterUserID)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("request_id", req.ID.String()).
		Str("slot_id", slotID.String()).
		Str("team_id", requesterTeamID.String()).
		Msg("match request submitted")
	return req, nil
}

// Accept resolves a pending request in the challenger's favor. Only the
// slot owner may call it.
func (a *App) Accept(ctx context.Context, requestID, callerUserID uuid.UUID) (*models.MatchRequest, error) {
	return a.resolve(ctx, requestID, callerUserID, models.RequestStatusAccepted)
}

// Reject resolves a pending request against the challenger. Only the
// slot owner may call it.
func (a *App) Reject(ctx context.Context, requestID, callerUserID uuid.UUID) (*models.MatchRequest, error) {
	return a.resolve(ctx, requestID, callerUserID, models.RequestStatusRejected)
}

// resolve re-asserts slot ownership here even though the store enforces
// it too: accept/reject are the only writes with cross-entity
// authorization logic.
func (a *App) resolve(ctx context.Context, requestID, callerUserID uuid.UUID, status models.RequestStatus) (*models.MatchRequest, error) {
	req, err := a.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	slot, err := a.slots.GetSlot(ctx, req.SlotID)
	if err != nil {
		return nil, fmt.Errorf("slot lookup failed: %w", err)
	}
	if slot.OwnerUserID != callerUserID {
		return nil, apperr.Authorization("only the slot owner can resolve requests")
	}

	// Re-resolving an already resolved request is a conflict, not a
	// no-op: duplicate downstream side effects must not fire twice.
	if req.Status != models.RequestStatusPending {
		return nil, apperr.Conflict("request already resolved")
	}

	updated, err := a.repo.TransitionFromPending(ctx, requestID, status)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("request_id", requestID.String()).
		Str("status", string(status)).
		Msg("match request resolved")
	return updated, nil
}

// Cancel withdraws a pending request. Only the original requester may
// cancel, and only while the request is still pending; withdrawing from
// a confirmed match is a different action not modeled here.
func (a *App) Cancel(ctx context.Context, requestID, callerUserID uuid.UUID) (*models.MatchRequest, error) {
	req, err := a.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.UserID != callerUserID {
		return nil, apperr.Authorization("only the requester can cancel")
	}
	if req.Status != models.RequestStatusPending {
		return nil, apperr.Conflict("request already resolved")
	}

	updated, err := a.repo.TransitionFromPending(ctx, requestID, models.RequestStatusCancelled)
	if err != nil {
		return nil, err
	}

	log.Info().Str("request_id", requestID.String()).Msg("match request cancelled")
	return updated, nil
}

// GetRequest retrieves a request by ID
func (a *App) GetRequest(ctx context.Context, id uuid.UUID) (*models.MatchRequest, error) {
	return a.repo.GetRequest(ctx, id)
}

// ListRequestsBySlot lists requests for a slot; only the slot owner may
// see the full list.
func (a *App) ListRequestsBySlot(ctx context.Context, slotID, callerUserID uuid.UUID) ([]models.MatchRequest, error) {
	slot, err := a.slots.GetSlot(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("slot lookup failed: %w", err)
	}
	if slot.OwnerUserID != callerUserID {
		return nil, apperr.Authorization("only the slot owner can list its requests")
	}
	return a.repo.ListRequestsBySlot(ctx, slotID)
}

// ListRequestsByUser lists the caller's own requests.
func (a *App) ListRequestsByUser(ctx context.Context, userID uuid.UUID) ([]models.MatchRequest, error) {
	return a.repo.ListRequestsByUser(ctx, userID)
}
