package slots

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mkondo/teamlink/internal/apperr"
	"github.com/mkondo/teamlink/internal/models"
)

type fakeRepo struct {
	slots     []models.MatchSlot
	requested map[uuid.UUID]bool
	created   []CreateSlotRequest
}

func (f *fakeRepo) CreateSlot(ctx context.Context, ownerUserID uuid.UUID, req CreateSlotRequest) (*models.MatchSlot, error) {
	f.created = append(f.created, req)
	return &models.MatchSlot{
		ID:          uuid.New(),
		OwnerUserID: ownerUserID,
		HostTeamID:  req.HostTeamID,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	}, nil
}

func (f *fakeRepo) GetSlot(ctx context.Context, id uuid.UUID) (*models.MatchSlot, error) {
	for _, s := range f.slots {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, apperr.Validation("slot not found")
}

func (f *fakeRepo) ListSlots(ctx context.Context, from, to string) ([]models.MatchSlot, error) {
	var out []models.MatchSlot
	for _, s := range f.slots {
		if s.Date >= from && s.Date <= to {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) RequestedSlotIDs(ctx context.Context, slotIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	return f.requested, nil
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

func newTestApp(repo *fakeRepo, owner uuid.UUID, teamID uuid.UUID) *App {
	return NewApp(repo, &fakeTeams{teams: map[uuid.UUID]*models.Team{
		teamID: {ID: teamID, OwnerUserID: owner},
	}})
}

func TestCreateSlotValidation(t *testing.T) {
	owner := uuid.New()
	teamID := uuid.New()
	app := newTestApp(&fakeRepo{}, owner, teamID)

	valid := CreateSlotRequest{
		HostTeamID: teamID,
		Date:       "2026-09-12",
		StartTime:  "09:00",
		EndTime:    "11:00",
	}

	tests := []struct {
		name string
		mut  func(*CreateSlotRequest)
		want apperr.Kind
	}{
		{"ok", nil, ""},
		{"missing team", func(r *CreateSlotRequest) { r.HostTeamID = uuid.Nil }, apperr.KindValidation},
		{"missing date", func(r *CreateSlotRequest) { r.Date = "" }, apperr.KindValidation},
		{"missing start", func(r *CreateSlotRequest) { r.StartTime = "" }, apperr.KindValidation},
		{"bad time format", func(r *CreateSlotRequest) { r.StartTime = "9am" }, apperr.KindValidation},
		{"end before start", func(r *CreateSlotRequest) { r.EndTime = "08:00" }, apperr.KindValidation},
		{"seconds accepted", func(r *CreateSlotRequest) { r.StartTime = "09:00:00"; r.EndTime = "11:00:00" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			if tt.mut != nil {
				tt.mut(&req)
			}
			_, err := app.CreateSlot(context.Background(), owner, req)
			if got := apperr.KindOf(err); got != tt.want {
				t.Errorf("CreateSlot kind = %q, want %q (err: %v)", got, tt.want, err)
			}
		})
	}
}

func TestCreateSlotOwnership(t *testing.T) {
	owner := uuid.New()
	teamID := uuid.New()
	app := newTestApp(&fakeRepo{}, owner, teamID)

	req := CreateSlotRequest{
		HostTeamID: teamID,
		Date:       "2026-09-12",
		StartTime:  "09:00",
		EndTime:    "11:00",
	}
	_, err := app.CreateSlot(context.Background(), uuid.New(), req)
	if !apperr.Is(err, apperr.KindAuthorization) {
		t.Errorf("CreateSlot by non-owner = %v, want authorization error", err)
	}
}

func TestListSlotsDerivedState(t *testing.T) {
	hot := models.MatchSlot{ID: uuid.New(), Date: "2026-09-12", StartTime: "09:00"}
	cold := models.MatchSlot{ID: uuid.New(), Date: "2026-09-13", StartTime: "10:00"}
	repo := &fakeRepo{
		slots:     []models.MatchSlot{hot, cold},
		requested: map[uuid.UUID]bool{hot.ID: true},
	}
	app := newTestApp(repo, uuid.New(), uuid.New())

	got, err := app.ListSlots(context.Background(), "2026-09-01", "2026-09-30")
	if err != nil {
		t.Fatalf("ListSlots: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if !got[0].HasRequest || got[1].HasRequest {
		t.Errorf("derived has_request wrong: %+v", got)
	}
}

func TestListSlotsRangeValidation(t *testing.T) {
	app := newTestApp(&fakeRepo{}, uuid.New(), uuid.New())
	if _, err := app.ListSlots(context.Background(), "", "2026-09-30"); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("missing from: got %v", err)
	}
	if _, err := app.ListSlots(context.Background(), "2026-10-01", "2026-09-30"); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("inverted range: got %v", err)
	}
}

func TestCountByDate(t *testing.T) {
	mk := func(date string) SlotSummary {
		return SlotSummary{MatchSlot: models.MatchSlot{ID: uuid.New(), Date: date}}
	}
	counts := CountByDate([]SlotSummary{mk("2026-09-12"), mk("2026-09-12"), mk("2026-09-14")})
	if counts["2026-09-12"] != 2 || counts["2026-09-14"] != 1 || len(counts) != 2 {
		t.Errorf("CountByDate = %v", counts)
	}
}
