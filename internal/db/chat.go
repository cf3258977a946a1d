package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// DirectThreadConstraint is the unique index on the normalized team pair.
const DirectThreadConstraint = "chat_threads_direct_pair"

// insertDirectThread relies on ON CONFLICT DO NOTHING so that concurrent
// first-contact attempts are a benign race: exactly one insert wins and
// the loser sees no row returned.
const insertDirectThread = `
INSERT INTO chat_threads (id, kind, team_low_id, team_high_id)
VALUES ($1, 'DIRECT', $2, $3)
ON CONFLICT (team_low_id, team_high_id, kind) DO NOTHING
RETURNING id, kind, team_low_id, team_high_id, created_at, updated_at
`

type InsertDirectThreadParams struct {
	ID         uuid.UUID
	TeamLowID  uuid.UUID
	TeamHighID uuid.UUID
}

// InsertDirectThread attempts to create the thread for a normalized pair.
// ok is false when the pair already had a thread.
func (q *Queries) InsertDirectThread(ctx context.Context, arg InsertDirectThreadParams) (ChatThread, bool, error) {
	row := q.db.QueryRowContext(ctx, insertDirectThread, arg.ID, arg.TeamLowID, arg.TeamHighID)
	t, err := scanChatThread(row)
	if err == sql.ErrNoRows {
		return ChatThread{}, false, nil
	}
	if err != nil {
		return ChatThread{}, false, err
	}
	return t, true, nil
}

const getDirectThreadByPair = `
SELECT id, kind, team_low_id, team_high_id, created_at, updated_at
FROM chat_threads
WHERE team_low_id = $1 AND team_high_id = $2 AND kind = 'DIRECT'
`

func (q *Queries) GetDirectThreadByPair(ctx context.Context, teamLowID, teamHighID uuid.UUID) (ChatThread, error) {
	return scanChatThread(q.db.QueryRowContext(ctx, getDirectThreadByPair, teamLowID, teamHighID))
}

const getChatThread = `
SELECT id, kind, team_low_id, team_high_id, created_at, updated_at
FROM chat_threads
WHERE id = $1
`

func (q *Queries) GetChatThread(ctx context.Context, id uuid.UUID) (ChatThread, error) {
	return scanChatThread(q.db.QueryRowContext(ctx, getChatThread, id))
}

const listThreadsByTeam = `
SELECT id, kind, team_low_id, team_high_id, created_at, updated_at
FROM chat_threads
WHERE team_low_id = $1 OR team_high_id = $1
ORDER BY updated_at DESC
`

func (q *Queries) ListThreadsByTeam(ctx context.Context, teamID uuid.UUID) ([]ChatThread, error) {
	rows, err := q.db.QueryContext(ctx, listThreadsByTeam, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ChatThread
	for rows.Next() {
		var t ChatThread
		if err := rows.Scan(&t.ID, &t.Kind, &t.TeamLowID, &t.TeamHighID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const touchChatThread = `
UPDATE chat_threads SET updated_at = now() WHERE id = $1
`

func (q *Queries) TouchChatThread(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, touchChatThread, id)
	return err
}

const upsertChatMembership = `
INSERT INTO chat_memberships (thread_id, user_id, team_id, role)
VALUES ($1, $2, $3, $4)
ON CONFLICT (thread_id, user_id) DO NOTHING
RETURNING thread_id
`

type UpsertChatMembershipParams struct {
	ThreadID uuid.UUID
	UserID   uuid.UUID
	TeamID   uuid.UUID
	Role     string
}

// UpsertChatMembership inserts a membership row if absent. created is
// false when the row already existed; that is a benign outcome, not an
// error.
func (q *Queries) UpsertChatMembership(ctx context.Context, arg UpsertChatMembershipParams) (created bool, err error) {
	var threadID uuid.UUID
	err = q.db.QueryRowContext(ctx, upsertChatMembership,
		arg.ThreadID,
		arg.UserID,
		arg.TeamID,
		arg.Role,
	).Scan(&threadID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

const getChatMembership = `
SELECT thread_id, user_id, team_id, role, last_read_at
FROM chat_memberships
WHERE thread_id = $1 AND user_id = $2
`

func (q *Queries) GetChatMembership(ctx context.Context, threadID, userID uuid.UUID) (ChatMembership, error) {
	row := q.db.QueryRowContext(ctx, getChatMembership, threadID, userID)
	var m ChatMembership
	err := row.Scan(&m.ThreadID, &m.UserID, &m.TeamID, &m.Role, &m.LastReadAt)
	return m, err
}

const listChatMemberships = `
SELECT thread_id, user_id, team_id, role, last_read_at
FROM chat_memberships
WHERE thread_id = $1
`

func (q *Queries) ListChatMemberships(ctx context.Context, threadID uuid.UUID) ([]ChatMembership, error) {
	rows, err := q.db.QueryContext(ctx, listChatMemberships, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ChatMembership
	for rows.Next() {
		var m ChatMembership
		if err := rows.Scan(&m.ThreadID, &m.UserID, &m.TeamID, &m.Role, &m.LastReadAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

const updateMembershipLastRead = `
UPDATE chat_memberships
SET last_read_at = $3
WHERE thread_id = $1 AND user_id = $2
`

type UpdateMembershipLastReadParams struct {
	ThreadID   uuid.UUID
	UserID     uuid.UUID
	LastReadAt time.Time
}

func (q *Queries) UpdateMembershipLastRead(ctx context.Context, arg UpdateMembershipLastReadParams) error {
	res, err := q.db.ExecContext(ctx, updateMembershipLastRead, arg.ThreadID, arg.UserID, arg.LastReadAt)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

const insertChatMessage = `
INSERT INTO chat_messages (id, thread_id, sender_user_id, sender_team_id, body)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, thread_id, sender_user_id, sender_team_id, body, created_at
`

type InsertChatMessageParams struct {
	ID           uuid.UUID
	ThreadID     uuid.UUID
	SenderUserID uuid.NullUUID
	SenderTeamID uuid.NullUUID
	Body         string
}

func (q *Queries) InsertChatMessage(ctx context.Context, arg InsertChatMessageParams) (ChatMessage, error) {
	row := q.db.QueryRowContext(ctx, insertChatMessage,
		arg.ID,
		arg.ThreadID,
		arg.SenderUserID,
		arg.SenderTeamID,
		arg.Body,
	)
	var m ChatMessage
	err := row.Scan(&m.ID, &m.ThreadID, &m.SenderUserID, &m.SenderTeamID, &m.Body, &m.CreatedAt)
	return m, err
}

const listChatMessages = `
SELECT id, thread_id, sender_user_id, sender_team_id, body, created_at
FROM chat_messages
WHERE thread_id = $1
ORDER BY created_at, id
`

func (q *Queries) ListChatMessages(ctx context.Context, threadID uuid.UUID) ([]ChatMessage, error) {
	rows, err := q.db.QueryContext(ctx, listChatMessages, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ChatMessage
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.ID, &m.ThreadID, &m.SenderUserID, &m.SenderTeamID, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func scanChatThread(row *sql.Row) (ChatThread, error) {
	var t ChatThread
	err := row.Scan(&t.ID, &t.Kind, &t.TeamLowID, &t.TeamHighID, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}
