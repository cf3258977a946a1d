package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mkondo/teamlink/internal/apperr"
	"github.com/mkondo/teamlink/internal/models"
)

// fakeRepo reproduces the store guarantees the app relies on: a unique
// normalized pair per direct thread and upsert-or-noop memberships.
type fakeRepo struct {
	threads     map[[2]uuid.UUID]*models.ChatThread
	memberships map[uuid.UUID]map[uuid.UUID]*models.ChatMembership // threadID -> userID
	messages    map[uuid.UUID][]models.ChatMessage
	now         time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		threads:     make(map[[2]uuid.UUID]*models.ChatThread),
		memberships: make(map[uuid.UUID]map[uuid.UUID]*models.ChatMembership),
		messages:    make(map[uuid.UUID][]models.ChatMessage),
		now:         time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC),
	}
}

func (f *fakeRepo) GetOrCreateDirectThread(ctx context.Context, low, high uuid.UUID) (*models.ChatThread, error) {
	key := [2]uuid.UUID{low, high}
	if t, ok := f.threads[key]; ok {
		cp := *t
		return &cp, nil
	}
	t := &models.ChatThread{
		ID:         uuid.New(),
		Kind:       models.ThreadKindDirect,
		TeamLowID:  low,
		TeamHighID: high,
		CreatedAt:  f.now,
		UpdatedAt:  f.now,
	}
	f.threads[key] = t
	cp := *t
	return &cp, nil
}

func (f *fakeRepo) GetThread(ctx context.Context, id uuid.UUID) (*models.ChatThread, error) {
	for _, t := range f.threads {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, apperr.Validation("thread not found")
}

func (f *fakeRepo) ListThreadsByTeam(ctx context.Context, teamID uuid.UUID) ([]models.ChatThread, error) {
	var out []models.ChatThread
	for _, t := range f.threads {
		if t.HasTeam(teamID) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeRepo) EnsureMembership(ctx context.Context, threadID, userID, teamID uuid.UUID) (MembershipOutcome, error) {
	if f.memberships[threadID] == nil {
		f.memberships[threadID] = make(map[uuid.UUID]*models.ChatMembership)
	}
	if _, ok := f.memberships[threadID][userID]; ok {
		return MembershipExisted, nil
	}
	f.memberships[threadID][userID] = &models.ChatMembership{
		ThreadID: threadID,
		UserID:   userID,
		TeamID:   teamID,
	}
	return MembershipCreated, nil
}

func (f *fakeRepo) GetMembership(ctx context.Context, threadID, userID uuid.UUID) (*models.ChatMembership, error) {
	m, ok := f.memberships[threadID][userID]
	if !ok {
		return nil, apperr.Authorization("not a member of this thread")
	}
	cp := *m
	return &cp, nil
}

func (f *fakeRepo) UpdateLastRead(ctx context.Context, threadID, userID uuid.UUID, at time.Time) error {
	m, ok := f.memberships[threadID][userID]
	if !ok {
		return apperr.Authorization("not a member of this thread")
	}
	m.LastReadAt = &at
	return nil
}

func (f *fakeRepo) CreateMessage(ctx context.Context, threadID, senderUserID, senderTeamID uuid.UUID, body string) (*models.ChatMessage, error) {
	msg := models.ChatMessage{
		ID:           uuid.New(),
		ThreadID:     threadID,
		SenderUserID: &senderUserID,
		SenderTeamID: &senderTeamID,
		Body:         body,
		CreatedAt:    f.now,
	}
	f.messages[threadID] = append(f.messages[threadID], msg)
	return &msg, nil
}

func (f *fakeRepo) ListMessages(ctx context.Context, threadID uuid.UUID) ([]models.ChatMessage, error) {
	return append([]models.ChatMessage(nil), f.messages[threadID]...), nil
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
	app     *App
	repo    *fakeRepo
	clock   *clockwork.FakeClock
	userA   uuid.UUID
	userB   uuid.UUID
	teamA   uuid.UUID
	teamB   uuid.UUID
}

func newFixture() *fixture {
	userA, userB := uuid.New(), uuid.New()
	teamA, teamB := uuid.New(), uuid.New()
	repo := newFakeRepo()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC))
	app := NewApp(repo, &fakeTeams{teams: map[uuid.UUID]*models.Team{
		teamA: {ID: teamA, OwnerUserID: userA},
		teamB: {ID: teamB, OwnerUserID: userB},
	}}, clock)
	return &fixture{app: app, repo: repo, clock: clock, userA: userA, userB: userB, teamA: teamA, teamB: teamB}
}

func (f *fixture) open(t *testing.T, caller uuid.UUID) *models.ChatThread {
	t.Helper()
	thread, err := f.app.GetOrCreateDirectThread(context.Background(), caller, f.teamA, f.teamB)
	if err != nil {
		t.Fatalf("GetOrCreateDirectThread: %v", err)
	}
	return thread
}

func TestGetOrCreateDirectThreadIdempotent(t *testing.T) {
	f := newFixture()

	// Both sides click "chat" with the pair in opposite order.
	t1 := f.open(t, f.userA)
	t2, err := f.app.GetOrCreateDirectThread(context.Background(), f.userB, f.teamB, f.teamA)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	if t1.ID != t2.ID {
		t.Errorf("pair resolved to two threads: %s vs %s", t1.ID, t2.ID)
	}
	if len(f.repo.threads) != 1 {
		t.Errorf("thread rows = %d, want 1", len(f.repo.threads))
	}
}

func TestGetOrCreateDirectThreadMemberships(t *testing.T) {
	f := newFixture()
	thread := f.open(t, f.userA)

	for _, u := range []uuid.UUID{f.userA, f.userB} {
		if _, err := f.app.Membership(context.Background(), thread.ID, u); err != nil {
			t.Errorf("membership for %s missing: %v", u, err)
		}
	}
}

func TestGetOrCreateDirectThreadValidation(t *testing.T) {
	f := newFixture()

	if _, err := f.app.GetOrCreateDirectThread(context.Background(), f.userA, uuid.Nil, f.teamB); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("nil team = %v, want validation error", err)
	}
	if _, err := f.app.GetOrCreateDirectThread(context.Background(), f.userA, f.teamA, f.teamA); !apperr.Is(err, apperr.KindDomain) {
		t.Errorf("self thread = %v, want domain error", err)
	}
	if _, err := f.app.GetOrCreateDirectThread(context.Background(), uuid.New(), f.teamA, f.teamB); !apperr.Is(err, apperr.KindAuthorization) {
		t.Errorf("unrelated caller = %v, want authorization error", err)
	}
}

func TestSend(t *testing.T) {
	f := newFixture()
	thread := f.open(t, f.userA)

	msg, err := f.app.Send(context.Background(), thread.ID, f.userA, f.teamA, "hello")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if msg.Body != "hello" {
		t.Errorf("body = %q", msg.Body)
	}

	history, err := f.app.ListMessages(context.Background(), thread.ID, f.userB)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(history) != 1 || history[0].ID != msg.ID {
		t.Errorf("history = %+v", history)
	}
}

func TestSendValidation(t *testing.T) {
	f := newFixture()
	thread := f.open(t, f.userA)

	for _, body := range []string{"", "   ", "\n\t"} {
		if _, err := f.app.Send(context.Background(), thread.ID, f.userA, f.teamA, body); !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("Send(%q) = %v, want validation error", body, err)
		}
	}
	if got := len(f.repo.messages[thread.ID]); got != 0 {
		t.Errorf("blank bodies persisted: %d messages", got)
	}
}

func TestSendNonMember(t *testing.T) {
	f := newFixture()
	thread := f.open(t, f.userA)

	stranger := uuid.New()
	if _, err := f.app.Send(context.Background(), thread.ID, stranger, f.teamA, "hi"); !apperr.Is(err, apperr.KindAuthorization) {
		t.Errorf("stranger send = %v, want authorization error", err)
	}
	// A member cannot send on behalf of the other side's team.
	if _, err := f.app.Send(context.Background(), thread.ID, f.userA, f.teamB, "hi"); !apperr.Is(err, apperr.KindAuthorization) {
		t.Errorf("wrong-team send = %v, want authorization error", err)
	}
}

func TestMarkRead(t *testing.T) {
	f := newFixture()
	thread := f.open(t, f.userA)

	f.clock.Advance(42 * time.Minute)
	if err := f.app.MarkRead(context.Background(), thread.ID, f.userA); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}

	m, err := f.app.Membership(context.Background(), thread.ID, f.userA)
	if err != nil {
		t.Fatalf("Membership: %v", err)
	}
	if m.LastReadAt == nil || !m.LastReadAt.Equal(f.clock.Now()) {
		t.Errorf("last_read_at = %v, want %v", m.LastReadAt, f.clock.Now())
	}

	if err := f.app.MarkRead(context.Background(), thread.ID, uuid.New()); !apperr.Is(err, apperr.KindAuthorization) {
		t.Error("MarkRead by non-member should be an authorization error")
	}
}

func TestListThreadsAuthorization(t *testing.T) {
	f := newFixture()
	f.open(t, f.userA)

	threads, err := f.app.ListThreads(context.Background(), f.userA, f.teamA)
	if err != nil {
		t.Fatalf("ListThreads: %v", err)
	}
	if len(threads) != 1 {
		t.Errorf("len(threads) = %d, want 1", len(threads))
	}

	if _, err := f.app.ListThreads(context.Background(), f.userB, f.teamA); !apperr.Is(err, apperr.KindAuthorization) {
		t.Errorf("ListThreads for foreign team = %v, want authorization error", err)
	}
}

func TestNormalizePair(t *testing.T) {
	a := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	b := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	l1, h1 := models.NormalizePair(a, b)
	l2, h2 := models.NormalizePair(b, a)
	if l1 != l2 || h1 != h2 {
		t.Errorf("normalization not order independent: (%s,%s) vs (%s,%s)", l1, h1, l2, h2)
	}
	if strings.Compare(l1.String(), h1.String()) >= 0 {
		t.Errorf("pair not normalized: %s >= %s", l1, h1)
	}
}
