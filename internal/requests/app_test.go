package requests

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mkondo/teamlink/internal/apperr"
	"github.com/mkondo/teamlink/internal/models"
)

// fakeRepo mimics the store's conditional-update semantics: transitions
// only apply to rows still in PENDING, and the partial unique index on
// active requests turns duplicates into conflicts.
type fakeRepo struct {
	requests map[uuid.UUID]*models.MatchRequest
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{requests: make(map[uuid.UUID]*models.MatchRequest)}
}

func (f *fakeRepo) CreateRequest(ctx context.Context, slotID, teamID, userID uuid.UUID) (*models.MatchRequest, error) {
	for _, r := range f.requests {
		if r.SlotID == slotID && r.UserID == userID && r.Status.Active() {
			return nil, apperr.Conflict("already requested")
		}
	}
	req := &models.MatchRequest{
		ID:     uuid.New(),
		SlotID: slotID,
		TeamID: teamID,
		UserID: userID,
		Status: models.RequestStatusPending,
	}
	f.requests[req.ID] = req
	return req, nil
}

func (f *fakeRepo) GetRequest(ctx context.Context, id uuid.UUID) (*models.MatchRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, apperr.Validation("request not found")
	}
	cp := *req
	return &cp, nil
}

func (f *fakeRepo) TransitionFromPending(ctx context.Context, id uuid.UUID, status models.RequestStatus) (*models.MatchRequest, error) {
	req, ok := f.requests[id]
	if !ok || req.Status != models.RequestStatusPending {
		return nil, apperr.Conflict("request already resolved")
	}
	req.Status = status
	cp := *req
	return &cp, nil
}

func (f *fakeRepo) ListRequestsBySlot(ctx context.Context, slotID uuid.UUID) ([]models.MatchRequest, error) {
	var out []models.MatchRequest
	for _, r := range f.requests {
		if r.SlotID == slotID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListRequestsByUser(ctx context.Context, userID uuid.UUID) ([]models.MatchRequest, error) {
	var out []models.MatchRequest
	for _, r := range f.requests {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

type fakeSlots struct {
	slots map[uuid.UUID]*models.MatchSlot
}

func (f *fakeSlots) GetSlot(ctx context.Context, id uuid.UUID) (*models.MatchSlot, error) {
	s, ok := f.slots[id]
	if !ok {
		return nil, apperr.Validation("slot not found")
	}
	return s, nil
}

type fakeTeams struct {
	teams map[uuid.UUID]*models.Team
}

func (f *fakeTeams) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	t, ok := f.teams[id]
	if !ok {
		return nil, apperr.Validation("team not found")
	}
	return t, nil
}

type fixture struct {
	app       *App
	repo      *fakeRepo
	slotID    uuid.UUID
	hostUser  uuid.UUID
	guestUser uuid.UUID
	guestTeam uuid.UUID
}

func newFixture() *fixture {
	hostUser := uuid.New()
	guestUser := uuid.New()
	hostTeam := uuid.New()
	guestTeam := uuid.New()
	slotID := uuid.New()

	repo := newFakeRepo()
	app := NewApp(repo,
		&fakeSlots{slots: map[uuid.UUID]*models.MatchSlot{
			slotID: {ID: slotID, OwnerUserID: hostUser, HostTeamID: hostTeam},
		}},
		&fakeTeams{teams: map[uuid.UUID]*models.Team{
			hostTeam:  {ID: hostTeam, OwnerUserID: hostUser},
			guestTeam: {ID: guestTeam, OwnerUserID: guestUser},
		}},
	)
	return &fixture{
		app:       app,
		repo:      repo,
		slotID:    slotID,
		hostUser:  hostUser,
		guestUser: guestUser,
		guestTeam: guestTeam,
	}
}

func (f *fixture) submit(t *testing.T) *models.MatchRequest {
	t.Helper()
	req, err := f.app.Submit(context.Background(), f.slotID, f.guestTeam, f.guestUser)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return req
}

func TestSubmit(t *testing.T) {
	f := newFixture()
	req := f.submit(t)
	if req.Status != models.RequestStatusPending {
		t.Errorf("initial status = %s, want PENDING", req.Status)
	}
}

func TestSubmitOwnSlot(t *testing.T) {
	f := newFixture()
	_, err := f.app.Submit(context.Background(), f.slotID, f.guestTeam, f.hostUser)
	if !apperr.Is(err, apperr.KindDomain) {
		t.Errorf("self-request = %v, want domain error", err)
	}
}

func TestSubmitDuplicateActive(t *testing.T) {
	f := newFixture()
	f.submit(t)
	_, err := f.app.Submit(context.Background(), f.slotID, f.guestTeam, f.guestUser)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("duplicate submit = %v, want conflict", err)
	}
	if len(f.repo.requests) != 1 {
		t.Errorf("duplicate submit created a row: %d requests", len(f.repo.requests))
	}
}

func TestSubmitNotTeamOwner(t *testing.T) {
	f := newFixture()
	_, err := f.app.Submit(context.Background(), f.slotID, f.guestTeam, uuid.New())
	if !apperr.Is(err, apperr.KindAuthorization) {
		t.Errorf("submit for someone else's team = %v, want authorization error", err)
	}
}

func TestResubmitAfterRejection(t *testing.T) {
	f := newFixture()
	req := f.submit(t)
	if _, err := f.app.Reject(context.Background(), req.ID, f.hostUser); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if _, err := f.app.Submit(context.Background(), f.slotID, f.guestTeam, f.guestUser); err != nil {
		t.Errorf("re-submit after rejection = %v, want success", err)
	}
}

func TestAcceptThenRejectConflicts(t *testing.T) {
	f := newFixture()
	req := f.submit(t)

	accepted, err := f.app.Accept(context.Background(), req.ID, f.hostUser)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	if accepted.Status != models.RequestStatusAccepted {
		t.Errorf("status = %s, want ACCEPTED", accepted.Status)
	}

	if _, err := f.app.Reject(context.Background(), req.ID, f.hostUser); !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("reject after accept = %v, want conflict", err)
	}
	if _, err := f.app.Accept(context.Background(), req.ID, f.hostUser); !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("re-accept = %v, want conflict (no duplicate side effects)", err)
	}
	if _, err := f.app.Cancel(context.Background(), req.ID, f.guestUser); !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("cancel after accept = %v, want conflict", err)
	}
}

func TestResolveAuthorization(t *testing.T) {
	f := newFixture()
	req := f.submit(t)

	if _, err := f.app.Accept(context.Background(), req.ID, f.guestUser); !apperr.Is(err, apperr.KindAuthorization) {
		t.Errorf("accept by requester = %v, want authorization error", err)
	}
	if _, err := f.app.Cancel(context.Background(), req.ID, f.hostUser); !apperr.Is(err, apperr.KindAuthorization) {
		t.Errorf("cancel by slot owner = %v, want authorization error", err)
	}
}

func TestCancelPending(t *testing.T) {
	f := newFixture()
	req := f.submit(t)

	cancelled, err := f.app.Cancel(context.Background(), req.ID, f.guestUser)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != models.RequestStatusCancelled {
		t.Errorf("status = %s, want CANCELLED", cancelled.Status)
	}

	// Cancellation frees the slot for a fresh request.
	if _, err := f.app.Submit(context.Background(), f.slotID, f.guestTeam, f.guestUser); err != nil {
		t.Errorf("re-submit after cancel = %v, want success", err)
	}
}

// TestConcurrentResolveExactlyOneWinner simulates the race the
// conditional update exists for: the app-level status precheck passed
// for both callers, but only one row transition can win.
func TestConcurrentResolveExactlyOneWinner(t *testing.T) {
	f := newFixture()
	req := f.submit(t)

	// Both sides read PENDING, then race the conditional update.
	if _, err := f.repo.TransitionFromPending(context.Background(), req.ID, models.RequestStatusAccepted); err != nil {
		t.Fatalf("first transition: %v", err)
	}
	_, err := f.repo.TransitionFromPending(context.Background(), req.ID, models.RequestStatusRejected)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("losing transition = %v, want conflict", err)
	}

	got, _ := f.repo.GetRequest(context.Background(), req.ID)
	if got.Status != models.RequestStatusAccepted {
		t.Errorf("final status = %s, want ACCEPTED", got.Status)
	}
}
