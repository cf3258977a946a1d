package requests

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mkondo/teamlink/internal/apperr"
	"github.com/mkondo/teamlink/internal/db"
	"github.com/mkondo/teamlink/internal/models"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	CreateMatchRequest(ctx context.Context, arg db.CreateMatchRequestParams) (db.MatchRequest, error)
	GetMatchRequest(ctx context.Context, id uuid.UUID) (db.MatchRequest, error)
	UpdateMatchRequestStatusFromPending(ctx context.Context, arg db.UpdateMatchRequestStatusFromPendingParams) (db.MatchRequest, error)
	ListMatchRequestsBySlot(ctx context.Context, slotID uuid.UUID) ([]db.MatchRequest, error)
	ListMatchRequestsByUser(ctx context.Context, userID uuid.UUID) ([]db.MatchRequest, error)
}

// Repository implements request data access operations
type Repository struct {
	queries Querier
}

// NewRepository creates a new requests repository
func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

// CreateRequest inserts a pending request. The partial unique index on
// active requests turns a duplicate into a conflict here.
func (r *Repository) CreateRequest(ctx context.Context, slotID, teamID, userID uuid.UUID) (*models.MatchRequest, error) {
	req, err := r.queries.CreateMatchRequest(ctx, db.CreateMatchRequestParams{
		ID:     uuid.New(),
		SlotID: slotID,
		TeamID: teamID,
		UserID: userID,
	})
	if err != nil {
		if db.IsUniqueViolation(err, db.ActiveRequestConstraint) {
			return nil, apperr.Conflict("already requested")
		}
		if db.IsForeignKeyViolation(err) {
			return nil, apperr.Validation("slot or team does not exist")
		}
		if db.IsUnavailable(err) {
			return nil, apperr.Transient("store unavailable", err)
		}
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return r.dbRequestToModel(req), nil
}

// GetRequest retrieves a request by ID
func (r *Repository) GetRequest(ctx context.Context, id uuid.UUID) (*models.MatchRequest, error) {
	req, err := r.queries.GetMatchRequest(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.Validation("request not found")
		}
		if db.IsUnavailable(err) {
			return nil, apperr.Transient("store unavailable", err)
		}
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return r.dbRequestToModel(req), nil
}

// TransitionFromPending moves a request to a terminal status iff it is
// still pending. Under a concurrent race exactly one caller wins; the
// loser gets a conflict.
func (r *Repository) TransitionFromPending(ctx context.Context, id uuid.UUID, status models.RequestStatus) (*models.MatchRequest, error) {
	req, err := r.queries.UpdateMatchRequestStatusFromPending(ctx, db.UpdateMatchRequestStatusFromPendingParams{
		ID:     id,
		Status: string(status),
	})
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.Conflict("request already resolved")
		}
		if db.IsUnavailable(err) {
			return nil, apperr.Transient("store unavailable", err)
		}
		return nil, fmt.Errorf("failed to update request status: %w", err)
	}
	return r.dbRequestToModel(req), nil
}

// ListRequestsBySlot retrieves all requests targeting a slot
func (r *Repository) ListRequestsBySlot(ctx context.Context, slotID uuid.UUID) ([]models.MatchRequest, error) {
	rows, err := r.queries.ListMatchRequestsBySlot(ctx, slotID)
	if err != nil {
		if db.IsUnavailable(err) {
			return nil, apperr.Transient("store unavailable", err)
		}
		return nil, fmt.Errorf("failed to list requests by slot: %w", err)
	}
	return r.dbRequestsToModels(rows), nil
}

// ListRequestsByUser retrieves a user's own requests, newest first
func (r *Repository) ListRequestsByUser(ctx context.Context, userID uuid.UUID) ([]models.MatchRequest, error) {
	rows, err := r.queries.ListMatchRequestsByUser(ctx, userID)
	if err != nil {
		if db.IsUnavailable(err) {
			return nil, apperr.Transient("store unavailable", err)
		}
		return nil, fmt.Errorf("failed to list requests by user: %w", err)
	}
	return r.dbRequestsToModels(rows), nil
}

func (r *Repository) dbRequestToModel(req db.MatchRequest) *models.MatchRequest {
	return &models.MatchRequest{
		ID:        req.ID,
		SlotID:    req.SlotID,
		TeamID:    req.TeamID,
		UserID:    req.UserID,
		Status:    models.RequestStatus(req.Status),
		CreatedAt: req.CreatedAt,
	}
}

func (r *Repository) dbRequestsToModels(rows []db.MatchRequest) []models.MatchRequest {
	out := make([]models.MatchRequest, len(rows))
	for i, row := range rows {
		out[i] = *r.dbRequestToModel(row)
	}
	return out
}
