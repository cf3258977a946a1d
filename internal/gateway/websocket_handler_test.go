package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/mkondo/teamlink/internal/apperr"
	"github.com/mkondo/teamlink/internal/models"
)

type fakeSessions struct {
	users map[string]*models.User
}

func (f *fakeSessions) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	u, ok := f.users[token]
	if !ok {
		return nil, apperr.Authorization("unknown session")
	}
	return u, nil
}

type fakeMemberships struct {
	members map[uuid.UUID]map[uuid.UUID]bool // threadID -> userID
}

func (f *fakeMemberships) Membership(ctx context.Context, threadID, userID uuid.UUID) (*models.ChatMembership, error) {
	if !f.members[threadID][userID] {
		return nil, apperr.Authorization("not a member of this thread")
	}
	return &models.ChatMembership{ThreadID: threadID, UserID: userID}, nil
}

func TestHandleThreadConnectionRejections(t *testing.T) {
	user := &models.User{ID: uuid.New()}
	threadID := uuid.New()
	otherThread := uuid.New()

	h := NewWebSocketHandler(
		NewConnectionManager(DefaultConnectionConfig()),
		&fakeSessions{users: map[string]*models.User{"good-token": user}},
		&fakeMemberships{members: map[uuid.UUID]map[uuid.UUID]bool{
			threadID: {user.ID: true},
		}},
	)

	tests := []struct {
		name       string
		target     string
		wantStatus int
	}{
		{
			name:       "missing thread id",
			target:     "/ws/chat?token=good-token",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed thread id",
			target:     "/ws/chat?thread_id=nope&token=good-token",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing token",
			target:     "/ws/chat?thread_id=" + threadID.String(),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown token",
			target:     "/ws/chat?thread_id=" + threadID.String() + "&token=bad-token",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not a member",
			target:     "/ws/chat?thread_id=" + otherThread.String() + "&token=good-token",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "member but not a websocket handshake",
			target:     "/ws/chat?thread_id=" + threadID.String() + "&token=good-token",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			h.HandleThreadConnection(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
