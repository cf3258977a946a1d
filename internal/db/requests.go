package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ActiveRequestConstraint is the partial unique index enforcing at most
// one PENDING/ACCEPTED request per (slot, user).
const ActiveRequestConstraint = "match_requests_active_per_slot_user"

const createMatchRequest = `
INSERT INTO match_requests (id, slot_id, team_id, user_id, status)
VALUES ($1, $2, $3, $4, 'PENDING')
RETURNING id, slot_id, team_id, user_id, status, created_at
`

type CreateMatchRequestParams struct {
	ID     uuid.UUID
	SlotID uuid.UUID
	TeamID uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) CreateMatchRequest(ctx context.Context, arg CreateMatchRequestParams) (MatchRequest, error) {
	row := q.db.QueryRowContext(ctx, createMatchRequest,
		arg.ID,
		arg.SlotID,
		arg.TeamID,
		arg.UserID,
	)
	return scanMatchRequest(row)
}

const getMatchRequest = `
SELECT id, slot_id, team_id, user_id, status, created_at
FROM match_requests
WHERE id = $1
`

func (q *Queries) GetMatchRequest(ctx context.Context, id uuid.UUID) (MatchRequest, error) {
	return scanMatchRequest(q.db.QueryRowContext(ctx, getMatchRequest, id))
}

// updateMatchRequestStatusFromPending is the single-row conditional update
// behind accept/reject/cancel. Matching zero rows means the request was
// already resolved by a concurrent caller.
const updateMatchRequestStatusFromPending = `
UPDATE match_requests
SET status = $2
WHERE id = $1 AND status = 'PENDING'
RETURNING id, slot_id, team_id, user_id, status, created_at
`

type UpdateMatchRequestStatusFromPendingParams struct {
	ID     uuid.UUID
	Status string
}

func (q *Queries) UpdateMatchRequestStatusFromPending(ctx context.Context, arg UpdateMatchRequestStatusFromPendingParams) (MatchRequest, error) {
	row := q.db.QueryRowContext(ctx, updateMatchRequestStatusFromPending, arg.ID, arg.Status)
	return scanMatchRequest(row)
}

const listMatchRequestsBySlot = `
SELECT id, slot_id, team_id, user_id, status, created_at
FROM match_requests
WHERE slot_id = $1
ORDER BY created_at, id
`

func (q *Queries) ListMatchRequestsBySlot(ctx context.Context, slotID uuid.UUID) ([]MatchRequest, error) {
	rows, err := q.db.QueryContext(ctx, listMatchRequestsBySlot, slotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMatchRequests(rows)
}

const listMatchRequestsByUser = `
SELECT id, slot_id, team_id, user_id, status, created_at
FROM match_requests
WHERE user_id = $1
ORDER BY created_at DESC, id
`

func (q *Queries) ListMatchRequestsByUser(ctx context.Context, userID uuid.UUID) ([]MatchRequest, error) {
	rows, err := q.db.QueryContext(ctx, listMatchRequestsByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMatchRequests(rows)
}

const listActiveRequestSlotIDs = `
SELECT DISTINCT slot_id
FROM match_requests
WHERE slot_id = ANY($1::uuid[]) AND status <> 'CANCELLED'
`

// ListActiveRequestSlotIDs returns the subset of slot IDs that have at
// least one non-cancelled request.
func (q *Queries) ListActiveRequestSlotIDs(ctx context.Context, slotIDs []uuid.UUID) ([]uuid.UUID, error) {
	rows, err := q.db.QueryContext(ctx, listActiveRequestSlotIDs, pq.Array(slotIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanMatchRequest(row rowScanner) (MatchRequest, error) {
	var r MatchRequest
	err := row.Scan(
		&r.ID,
		&r.SlotID,
		&r.TeamID,
		&r.UserID,
		&r.Status,
		&r.CreatedAt,
	)
	return r, err
}

func collectMatchRequests(rows *sql.Rows) ([]MatchRequest, error) {
	var items []MatchRequest
	for rows.Next() {
		var r MatchRequest
		if err := rows.Scan(
			&r.ID,
			&r.SlotID,
			&r.TeamID,
			&r.UserID,
			&r.Status,
			&r.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}
