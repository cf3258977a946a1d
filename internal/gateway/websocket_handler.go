package gateway

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mkondo/teamlink/internal/apperr"
	"github.com/mkondo/teamlink/internal/models"
)

// SessionResolver turns a bearer token into a user.
type SessionResolver interface {
	CurrentUser(ctx context.Context, token string) (*models.User, error)
}

// MembershipChecker verifies that a user belongs to a thread before the
// feed is opened. Denial surfaces as an authorization error.
type MembershipChecker interface {
	Membership(ctx context.Context, threadID, userID uuid.UUID) (*models.ChatMembership, error)
}

// WebSocketHandler handles WebSocket upgrade requests for thread feeds
type WebSocketHandler struct {
	connectionManager *ConnectionManager
	sessions          SessionResolver
	memberships       MembershipChecker
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(cm *ConnectionManager, sessions SessionResolver, memberships MembershipChecker) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
		sessions:          sessions,
		memberships:       memberships,
	}
}

// HandleThreadConnection handles WebSocket connections for one thread.
// The thread feed is member-only: the caller's token is resolved and
// their membership row checked before the upgrade.
func (h *WebSocketHandler) HandleThreadConnection(w http.ResponseWriter, r *http.Request) {
	threadIDStr := r.URL.Query().Get("thread_id")
	if threadIDStr == "" {
		http.Error(w, "thread_id is required", http.StatusBadRequest)
		return
	}

	threadID, err := uuid.Parse(threadIDStr)
	if err != nil {
		http.Error(w, "invalid thread_id format", http.StatusBadRequest)
		return
	}

	// Browsers cannot set headers on WebSocket dials, so the token may
	// arrive as a query parameter instead.
	token := r.URL.Query().Get("token")
	if token == "" {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	if token == "" {
		http.Error(w, "missing credentials", http.StatusUnauthorized)
		return
	}

	user, err := h.sessions.CurrentUser(r.Context(), token)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	if _, err := h.memberships.Membership(r.Context(), threadID, user.ID); err != nil {
		if apperr.Is(err, apperr.KindAuthorization) {
			http.Error(w, "not a member of this thread", http.StatusForbidden)
			return
		}
		log.Error().
			Err(err).
			Str("thread_id", threadID.String()).
			Str("user_id", user.ID.String()).
			Msg("failed to check thread membership")
		http.Error(w, "failed to check membership", http.StatusInternalServerError)
		return
	}

	if err := h.connectionManager.UpgradeConnection(w, r, user.ID.String(), threadID); err != nil {
		log.Error().
			Err(err).
			Str("thread_id", threadID.String()).
			Str("user_id", user.ID.String()).
			Msg("failed to upgrade WebSocket connection")
		return
	}
}

// HandleConnectionStats returns statistics about active connections
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	stats := h.connectionManager.GetConnectionStats()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	w.Write([]byte("{"))
	w.Write([]byte("\"total_connections\":" + strconv.Itoa(stats["total_connections"].(int)) + ","))
	w.Write([]byte("\"active_threads\":" + strconv.Itoa(stats["active_threads"].(int))))
	w.Write([]byte("}"))
}

// RegisterRoutes registers WebSocket routes with an HTTP mux
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws/chat", h.HandleThreadConnection)
	mux.HandleFunc("/ws/stats", h.HandleConnectionStats)
}
