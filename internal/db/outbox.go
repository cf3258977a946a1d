package db

import (
	"context"

	"github.com/google/uuid"
)

// The insert trigger on chat_outbox issues NOTIFY chat_outbox_events with
// the row id, see schema.sql. The relay LISTENs on that channel and falls
// back to FetchUnsentChatOutbox polling.

const insertChatOutbox = `
INSERT INTO chat_outbox (id, thread_id, event_type, payload)
VALUES ($1, $2, $3, $4)
`

type InsertChatOutboxParams struct {
	ID        uuid.UUID
	ThreadID  uuid.UUID
	EventType string
	Payload   []byte
}

func (q *Queries) InsertChatOutbox(ctx context.Context, arg InsertChatOutboxParams) error {
	_, err := q.db.ExecContext(ctx, insertChatOutbox,
		arg.ID,
		arg.ThreadID,
		arg.EventType,
		arg.Payload,
	)
	return err
}

const fetchChatOutboxByID = `
SELECT id, thread_id, event_type, payload, created_at, sent_at
FROM chat_outbox
WHERE id = $1
`

func (q *Queries) FetchChatOutboxByID(ctx context.Context, id uuid.UUID) (ChatOutboxEvent, error) {
	row := q.db.QueryRowContext(ctx, fetchChatOutboxByID, id)
	var e ChatOutboxEvent
	err := row.Scan(&e.ID, &e.ThreadID, &e.EventType, &e.Payload, &e.CreatedAt, &e.SentAt)
	return e, err
}

const fetchUnsentChatOutbox = `
SELECT id, thread_id, event_type, payload, created_at, sent_at
FROM chat_outbox
WHERE sent_at IS NULL
ORDER BY created_at
LIMIT $1
`

func (q *Queries) FetchUnsentChatOutbox(ctx context.Context, limit int32) ([]ChatOutboxEvent, error) {
	rows, err := q.db.QueryContext(ctx, fetchUnsentChatOutbox, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ChatOutboxEvent
	for rows.Next() {
		var e ChatOutboxEvent
		if err := rows.Scan(&e.ID, &e.ThreadID, &e.EventType, &e.Payload, &e.CreatedAt, &e.SentAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

const markChatOutboxSent = `
UPDATE chat_outbox SET sent_at = now() WHERE id = $1
`

func (q *Queries) MarkChatOutboxSent(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.ExecContext(ctx, markChatOutboxSent, id)
	return err
}
