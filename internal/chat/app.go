package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mkondo/teamlink/internal/apperr"
	"github.com/mkondo/teamlink/internal/models"
	"github.com/rs/zerolog/log"
)

// ChatRepository defines what the app layer needs from the repository
type ChatRepository interface {
	GetOrCreateDirectThread(ctx context.Context, teamLowID, teamHighID uuid.UUID) (*models.ChatThread, error)
	GetThread(ctx context.Context, id uuid.UUID) (*models.ChatThread, error)
	ListThreadsByTeam(ctx context.Context, teamID uuid.UUID) ([]models.ChatThread, error)
	EnsureMembership(ctx context.Context, threadID, userID, teamID uuid.UUID) (MembershipOutcome, error)
	GetMembership(ctx context.Context, threadID, userID uuid.UUID) (*models.ChatMembership, error)
	UpdateLastRead(ctx context.Context, threadID, userID uuid.UUID, at time.Time) error
	CreateMessage(ctx context.Context, threadID, senderUserID, senderTeamID uuid.UUID, body string) (*models.ChatMessage, error)
	ListMessages(ctx context.Context, threadID uuid.UUID) ([]models.ChatMessage, error)
}

// TeamReader resolves team owners so both sides of a new thread get
// their membership row.
type TeamReader interface {
	GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
}

// App handles thread registry and message stream logic. Any two teams
// may open a thread; nothing here depends on the request lifecycle.
type App struct {
	repo  ChatRepository
	teams TeamReader
	clock clockwork.Clock
}

// NewApp creates a new chat App
func NewApp(repo ChatRepository, teams TeamReader, clock clockwork.Clock) *App {
	return &App{repo: repo, teams: teams, clock: clock}
}

// GetOrCreateDirectThread returns the single direct thread for the
// unordered pair (teamA, teamB), creating it and both membership rows on
// first contact. Idempotent and safe when both sides call at once.
func (a *App) GetOrCreateDirectThread(ctx context.Context, callerUserID, teamAID, teamBID uuid.UUID) (*models.ChatThread, error) {
	if teamAID == uuid.Nil || teamBID == uuid.Nil {
		return nil, apperr.Validation("both team ids are required")
	}
	if teamAID == teamBID {
		return nil, apperr.Domain("a team cannot open a thread with itself")
	}

	teamA, err := a.teams.GetTeam(ctx, teamAID)
	if err != nil {
		return nil, fmt.Errorf("team lookup failed: %w", err)
	}
	teamB, err := a.teams.GetTeam(ctx, teamBID)
	if err != nil {
		return nil, fmt.Errorf("team lookup failed: %w", err)
	}
	if teamA.OwnerUserID != callerUserID && teamB.OwnerUserID != callerUserID {
		return nil, apperr.Authorization("caller owns neither team")
	}

	low, high := models.NormalizePair(teamAID, teamBID)
	thread, err := a.repo.GetOrCreateDirectThread(ctx, low, high)
	if err != nil {
		return nil, err
	}

	// Membership repair runs on every call, not only on creation, so a
	// half-initialized thread heals on the next open.
	for _, t := range []*models.Team{teamA, teamB} {
		outcome, err := a.repo.EnsureMembership(ctx, thread.ID, t.OwnerUserID, t.ID)
		if err != nil {
			return nil, err
		}
		if outcome == MembershipCreated {
			log.Debug().
				Str("thread_id", thread.ID.String()).
				Str("team_id", t.ID.String()).
				Msg("thread membership created")
		}
	}
	return thread, nil
}

// ListThreads lists the threads a team participates in; the caller must
// own the team.
func (a *App) ListThreads(ctx context.Context, callerUserID, teamID uuid.UUID) ([]models.ChatThread, error) {
	team, err := a.teams.GetTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("team lookup failed: %w", err)
	}
	if team.OwnerUserID != callerUserID {
		return nil, apperr.Authorization("caller does not own this team")
	}
	return a.repo.ListThreadsByTeam(ctx, teamID)
}

// Send appends a message to a thread. The sender must be a member;
// empty bodies never reach the store.
func (a *App) Send(ctx context.Context, threadID, senderUserID, senderTeamID uuid.UUID, body string) (*models.ChatMessage, error) {
	if strings.TrimSpace(body) == "" {
		return nil, apperr.Validation("message body is empty")
	}

	member, err := a.repo.GetMembership(ctx, threadID, senderUserID)
	if err != nil {
		return nil, err
	}
	if member.TeamID != senderTeamID {
		return nil, apperr.Authorization("sender does not act for that team in this thread")
	}

	msg, err := a.repo.CreateMessage(ctx, threadID, senderUserID, senderTeamID, body)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("thread_id", threadID.String()).
		Str("message_id", msg.ID.String()).
		Msg("message sent")
	return msg, nil
}

// ListMessages returns the full ordered history of a thread the caller
// belongs to.
func (a *App) ListMessages(ctx context.Context, threadID, callerUserID uuid.UUID) ([]models.ChatMessage, error) {
	if _, err := a.repo.GetMembership(ctx, threadID, callerUserID); err != nil {
		return nil, err
	}
	return a.repo.ListMessages(ctx, threadID)
}

// MarkRead advances the caller's read position to now.
func (a *App) MarkRead(ctx context.Context, threadID, callerUserID uuid.UUID) error {
	return a.repo.UpdateLastRead(ctx, threadID, callerUserID, a.clock.Now())
}

// Membership exposes the caller's membership row; the gateway uses it to
// authorize subscriptions.
func (a *App) Membership(ctx context.Context, threadID, userID uuid.UUID) (*models.ChatMembership, error) {
	return a.repo.GetMembership(ctx, threadID, userID)
}
