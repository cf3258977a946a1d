package chat

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mkondo/teamlink/internal/apperr"
	"github.com/mkondo/teamlink/internal/db"
	"github.com/mkondo/teamlink/internal/models"
	"github.com/mkondo/teamlink/internal/sqlutil"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	InsertDirectThread(ctx context.Context, arg db.InsertDirectThreadParams) (db.ChatThread, bool, error)
	GetDirectThreadByPair(ctx context.Context, teamLowID, teamHighID uuid.UUID) (db.ChatThread, error)
	GetChatThread(ctx context.Context, id uuid.UUID) (db.ChatThread, error)
	ListThreadsByTeam(ctx context.Context, teamID uuid.UUID) ([]db.ChatThread, error)
	UpsertChatMembership(ctx context.Context, arg db.UpsertChatMembershipParams) (bool, error)
	GetChatMembership(ctx context.Context, threadID, userID uuid.UUID) (db.ChatMembership, error)
	ListChatMemberships(ctx context.Context, threadID uuid.UUID) ([]db.ChatMembership, error)
	UpdateMembershipLastRead(ctx context.Context, arg db.UpdateMembershipLastReadParams) error
	ListChatMessages(ctx context.Context, threadID uuid.UUID) ([]db.ChatMessage, error)
}

// Repository implements chat data access. It holds the raw connection as
// well because message sends run in a transaction with the outbox write.
type Repository struct {
	queries Querier
	dbConn  *sql.DB
}

// NewRepository creates a new chat repository
func NewRepository(querier Querier, dbConn *sql.DB) *Repository {
	return &Repository{
		queries: querier,
		dbConn:  dbConn,
	}
}

// GetOrCreateDirectThread resolves the one thread for a normalized team
// pair, inserting it if absent. The unique index on the pair makes the
// concurrent first-contact race safe: the losing insert just falls
// through to the read.
func (r *Repository) GetOrCreateDirectThread(ctx context.Context, teamLowID, teamHighID uuid.UUID) (*models.ChatThread, error) {
	thread, created, err := r.queries.InsertDirectThread(ctx, db.InsertDirectThreadParams{
		ID:         uuid.New(),
		TeamLowID:  teamLowID,
		TeamHighID: teamHighID,
	})
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, apperr.Validation("team does not exist")
		}
		if db.IsUnavailable(err) {
			return nil, apperr.Transient("store unavailable", err)
		}
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}
	if created {
		return r.dbThreadToModel(thread), nil
	}

	existing, err := r.queries.GetDirectThreadByPair(ctx, teamLowID, teamHighID)
	if err != nil {
		if db.IsUnavailable(err) {
			return nil, apperr.Transient("store unavailable", err)
		}
		return nil, fmt.Errorf("failed to load existing thread: %w", err)
	}
	return r.dbThreadToModel(existing), nil
}

// GetThread retrieves a thread by ID
func (r *Repository) GetThread(ctx context.Context, id uuid.UUID) (*models.ChatThread, error) {
	thread, err := r.queries.GetChatThread(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.Validation("thread not found")
		}
		if db.IsUnavailable(err) {
			return nil, apperr.Transient("store unavailable", err)
		}
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}
	return r.dbThreadToModel(thread), nil
}

// ListThreadsByTeam retrieves a team's threads, most recently active
// first.
func (r *Repository) ListThreadsByTeam(ctx context.Context, teamID uuid.UUID) ([]models.ChatThread, error) {
	rows, err := r.queries.ListThreadsByTeam(ctx, teamID)
	if err != nil {
		if db.IsUnavailable(err) {
			return nil, apperr.Transient("store unavailable", err)
		}
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	threads := make([]models.ChatThread, len(rows))
	for i, row := range rows {
		threads[i] = *r.dbThreadToModel(row)
	}
	return threads, nil
}

// EnsureMembership inserts a membership row if absent and reports which
// of the two benign outcomes happened.
func (r *Repository) EnsureMembership(ctx context.Context, threadID, userID, teamID uuid.UUID) (MembershipOutcome, error) {
	created, err := r.queries.UpsertChatMembership(ctx, db.UpsertChatMembershipParams{
		ThreadID: threadID,
		UserID:   userID,
		TeamID:   teamID,
		Role:     "member",
	})
	if err != nil {
		if db.IsUnavailable(err) {
			return "", apperr.Transient("store unavailable", err)
		}
		return "", fmt.Errorf("failed to ensure membership: %w", err)
	}
	if created {
		return MembershipCreated, nil
	}
	return MembershipExisted, nil
}

// GetMembership retrieves the caller's membership row, or an
// authorization error when they are not in the thread.
func (r *Repository) GetMembership(ctx context.Context, threadID, userID uuid.UUID) (*models.ChatMembership, error) {
	m, err := r.queries.GetChatMembership(ctx, threadID, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.Authorization("not a member of this thread")
		}
		if db.IsUnavailable(err) {
			return nil, apperr.Transient("store unavailable", err)
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return r.dbMembershipToModel(m), nil
}

// ListMemberships retrieves all membership rows of a thread
func (r *Repository) ListMemberships(ctx context.Context, threadID uuid.UUID) ([]models.ChatMembership, error) {
	rows, err := r.queries.ListChatMemberships(ctx, threadID)
	if err != nil {
		if db.IsUnavailable(err) {
			return nil, apperr.Transient("store unavailable", err)
		}
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	out := make([]models.ChatMembership, len(rows))
	for i, row := range rows {
		out[i] = *r.dbMembershipToModel(row)
	}
	return out, nil
}

// UpdateLastRead sets the membership's read position.
func (r *Repository) UpdateLastRead(ctx context.Context, threadID, userID uuid.UUID, at time.Time) error {
	err := r.queries.UpdateMembershipLastRead(ctx, db.UpdateMembershipLastReadParams{
		ThreadID:   threadID,
		UserID:     userID,
		LastReadAt: at,
	})
	if err != nil {
		if db.IsNotFound(err) {
			return apperr.Authorization("not a member of this thread")
		}
		if db.IsUnavailable(err) {
			return apperr.Transient("store unavailable", err)
		}
		return fmt.Errorf("failed to update read position: %w", err)
	}
	return nil
}

// CreateMessage persists a message and its MessagePosted outbox event in
// one transaction, and bumps the thread's activity timestamp. The relay
// picks the event up via NOTIFY after commit.
func (r *Repository) CreateMessage(ctx context.Context, threadID, senderUserID, senderTeamID uuid.UUID, body string) (*models.ChatMessage, error) {
	var msg db.ChatMessage
	err := sqlutil.Run(ctx, r.dbConn, db.NewTx, func(q *db.Queries) error {
		var err error
		msg, err = q.InsertChatMessage(ctx, db.InsertChatMessageParams{
			ID:           uuid.New(),
			ThreadID:     threadID,
			SenderUserID: uuid.NullUUID{UUID: senderUserID, Valid: true},
			SenderTeamID: uuid.NullUUID{UUID: senderTeamID, Valid: true},
			Body:         body,
		})
		if err != nil {
			return fmt.Errorf("insert message: %w", err)
		}

		payload, err := json.Marshal(MessagePostedPayload{Message: *dbMessageToModel(msg)})
		if err != nil {
			return fmt.Errorf("marshal event payload: %w", err)
		}
		if err := q.InsertChatOutbox(ctx, db.InsertChatOutboxParams{
			ID:        uuid.New(),
			ThreadID:  threadID,
			EventType: EventTypeMessagePosted,
			Payload:   payload,
		}); err != nil {
			return fmt.Errorf("insert outbox event: %w", err)
		}

		if err := q.TouchChatThread(ctx, threadID); err != nil {
			return fmt.Errorf("touch thread: %w", err)
		}
		return nil
	})
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, apperr.Validation("thread does not exist")
		}
		if db.IsUnavailable(err) {
			return nil, apperr.Transient("store unavailable", err)
		}
		return nil, err
	}
	return dbMessageToModel(msg), nil
}

// ListMessages retrieves a thread's history in creation order.
func (r *Repository) ListMessages(ctx context.Context, threadID uuid.UUID) ([]models.ChatMessage, error) {
	rows, err := r.queries.ListChatMessages(ctx, threadID)
	if err != nil {
		if db.IsUnavailable(err) {
			return nil, apperr.Transient("store unavailable", err)
		}
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	out := make([]models.ChatMessage, len(rows))
	for i, row := range rows {
		out[i] = *dbMessageToModel(row)
	}
	return out, nil
}

func (r *Repository) dbThreadToModel(t db.ChatThread) *models.ChatThread {
	return &models.ChatThread{
		ID:         t.ID,
		Kind:       models.ThreadKind(t.Kind),
		TeamLowID:  t.TeamLowID,
		TeamHighID: t.TeamHighID,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func (r *Repository) dbMembershipToModel(m db.ChatMembership) *models.ChatMembership {
	return &models.ChatMembership{
		ThreadID:   m.ThreadID,
		UserID:     m.UserID,
		TeamID:     m.TeamID,
		Role:       sqlutil.FromSqlString(m.Role, ""),
		LastReadAt: sqlutil.FromSqlTime(m.LastReadAt),
	}
}

func dbMessageToModel(m db.ChatMessage) *models.ChatMessage {
	return &models.ChatMessage{
		ID:           m.ID,
		ThreadID:     m.ThreadID,
		SenderUserID: sqlutil.FromNullUUID(m.SenderUserID),
		SenderTeamID: sqlutil.FromNullUUID(m.SenderTeamID),
		Body:         m.Body,
		CreatedAt:    m.CreatedAt,
	}
}
