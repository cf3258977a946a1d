package slots

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mkondo/teamlink/internal/apperr"
	"github.com/mkondo/teamlink/internal/db"
	"github.com/mkondo/teamlink/internal/models"
	"github.com/mkondo/teamlink/internal/sqlutil"
)

const dateLayout = "2006-01-02"

// Querier defines what the repository needs from the database layer
type Querier interface {
	CreateMatchSlot(ctx context.Context, arg db.CreateMatchSlotParams) (db.MatchSlot, error)
	GetMatchSlot(ctx context.Context, id uuid.UUID) (db.MatchSlot, error)
	ListMatchSlotsInRange(ctx context.Context, arg db.ListMatchSlotsInRangeParams) ([]db.MatchSlot, error)
	ListActiveRequestSlotIDs(ctx context.Context, slotIDs []uuid.UUID) ([]uuid.UUID, error)
}

// Repository implements slot data access operations
type Repository struct {
	queries Querier
}

// NewRepository creates a new slots repository
func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

// CreateSlot inserts a new slot owned by ownerUserID.
func (r *Repository) CreateSlot(ctx context.Context, ownerUserID uuid.UUID, req CreateSlotRequest) (*models.MatchSlot, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, apperr.Validation("date must be YYYY-MM-DD")
	}

	slot, err := r.queries.CreateMatchSlot(ctx, db.CreateMatchSlotParams{
		ID:           uuid.New(),
		OwnerUserID:  ownerUserID,
		HostTeamID:   req.HostTeamID,
		SlotDate:     date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		VenueID:      sqlutil.ToNullUUID(req.VenueID),
		LocationText: req.LocationText,
		Category:     req.Category,
	})
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, apperr.Validation("host team or venue does not exist")
		}
		if db.IsUnavailable(err) {
			return nil, apperr.Transient("store unavailable", err)
		}
		return nil, fmt.Errorf("failed to create slot: %w", err)
	}
	return r.dbSlotToModel(slot), nil
}

// GetSlot retrieves a slot by ID
func (r *Repository) GetSlot(ctx context.Context, id uuid.UUID) (*models.MatchSlot, error) {
	slot, err := r.queries.GetMatchSlot(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.Validation("slot not found")
		}
		if db.IsUnavailable(err) {
			return nil, apperr.Transient("store unavailable", err)
		}
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}
	return r.dbSlotToModel(slot), nil
}

// ListSlots retrieves slots in [from, to], ordered by date then start
// time.
func (r *Repository) ListSlots(ctx context.Context, from, to string) ([]models.MatchSlot, error) {
	fromDate, err := time.Parse(dateLayout, from)
	if err != nil {
		return nil, apperr.Validation("from date must be YYYY-MM-DD")
	}
	toDate, err := time.Parse(dateLayout, to)
	if err != nil {
		return nil, apperr.Validation("to date must be YYYY-MM-DD")
	}

	rows, err := r.queries.ListMatchSlotsInRange(ctx, db.ListMatchSlotsInRangeParams{
		FromDate: fromDate,
		ToDate:   toDate,
	})
	if err != nil {
		if db.IsUnavailable(err) {
			return nil, apperr.Transient("store unavailable", err)
		}
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}

	slots := make([]models.MatchSlot, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, *r.dbSlotToModel(row))
	}
	return slots, nil
}

// RequestedSlotIDs returns the subset of slotIDs with at least one
// non-cancelled request.
func (r *Repository) RequestedSlotIDs(ctx context.Context, slotIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	if len(slotIDs) == 0 {
		return map[uuid.UUID]bool{}, nil
	}
	ids, err := r.queries.ListActiveRequestSlotIDs(ctx, slotIDs)
	if err != nil {
		if db.IsUnavailable(err) {
			return nil, apperr.Transient("store unavailable", err)
		}
		return nil, fmt.Errorf("failed to list requested slots: %w", err)
	}
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (r *Repository) dbSlotToModel(s db.MatchSlot) *models.MatchSlot {
	return &models.MatchSlot{
		ID:           s.ID,
		OwnerUserID:  s.OwnerUserID,
		HostTeamID:   s.HostTeamID,
		Date:         s.SlotDate.Format(dateLayout),
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		VenueID:      sqlutil.FromNullUUID(s.VenueID),
		LocationText: sqlutil.FromSqlString(s.LocationText, ""),
		Category:     sqlutil.FromSqlString(s.Category, ""),
		CreatedAt:    s.CreatedAt,
	}
}
