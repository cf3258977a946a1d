package scoring

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mkondo/teamlink/internal/models"
)

func level(n int) *int { return &n }

func team(mut func(*models.Team)) models.Team {
	t := models.Team{
		ID:   uuid.New(),
		Name: "test",
	}
	if mut != nil {
		mut(&t)
	}
	return t
}

func TestScoreScenario(t *testing.T) {
	// U-12 vs U-12, levels 5 and 6, overlapping location text, both in
	// blue kits.
	a := team(func(t *models.Team) {
		t.Categories = []string{"U-12"}
		t.SkillLevel = level(5)
		t.Prefecture = "Setagaya"
		t.KitPrimary = "blue"
	})
	b := team(func(t *models.Team) {
		t.Categories = []string{"U-12"}
		t.SkillLevel = level(6)
		t.Prefecture = "Setagaya-ku"
		t.KitPrimary = "Blue"
	})

	got := Score(&a, &b)
	if got.Value != 6 {
		t.Errorf("Score value = %d, want 6 (3 category + 2 gap + 2 location - 1 kit)", got.Value)
	}
	if len(got.Reasons) != 4 {
		t.Errorf("len(Reasons) = %d, want 4: %v", len(got.Reasons), got.Reasons)
	}
}

func TestScoreSymmetric(t *testing.T) {
	a := team(func(t *models.Team) {
		t.Categories = []string{"U-10"}
		t.SkillLevel = level(3)
		t.City = "Nakano"
		t.HasGround = true
		t.KitPrimary = "red"
	})
	b := team(func(t *models.Team) {
		t.Categories = []string{"U-12"}
		t.SkillLevel = level(8)
		t.City = "Suginami"
		t.KitPrimary = "white"
	})

	ab := Score(&a, &b)
	ba := Score(&b, &a)
	if ab.Value != ba.Value {
		t.Errorf("asymmetric score: %d vs %d", ab.Value, ba.Value)
	}
	if len(ab.Reasons) != len(ba.Reasons) {
		t.Errorf("asymmetric reasons: %v vs %v", ab.Reasons, ba.Reasons)
	}
}

func TestScoreRules(t *testing.T) {
	tests := []struct {
		name        string
		a, b        func(*models.Team)
		wantValue   int
		wantReasons int
	}{
		{
			name:        "missing levels default to 5 and count as gap zero",
			a:           nil,
			b:           nil,
			wantValue:   3,
			wantReasons: 1,
		},
		{
			name: "gap of three earns nothing",
			a:    func(t *models.Team) { t.SkillLevel = level(2) },
			b:    func(t *models.Team) { t.SkillLevel = level(5) },
		},
		{
			name: "category match is case sensitive",
			a: func(t *models.Team) {
				t.Categories = []string{"u-12"}
				t.SkillLevel = level(1)
			},
			b: func(t *models.Team) {
				t.Categories = []string{"U-12"}
				t.SkillLevel = level(10)
			},
		},
		{
			name: "empty categories never match each other",
			a:    func(t *models.Team) { t.SkillLevel = level(1) },
			b:    func(t *models.Team) { t.SkillLevel = level(10) },
		},
		{
			name: "ground availability on either side",
			a: func(t *models.Team) {
				t.HasGround = true
				t.SkillLevel = level(1)
			},
			b:           func(t *models.Team) { t.SkillLevel = level(10) },
			wantValue:   2,
			wantReasons: 1,
		},
		{
			name: "empty kit colors do not clash",
			a:    func(t *models.Team) { t.SkillLevel = level(1) },
			b:    func(t *models.Team) { t.SkillLevel = level(10) },
		},
		{
			name: "blank locations do not overlap",
			a: func(t *models.Team) {
				t.Prefecture = "   "
				t.SkillLevel = level(1)
			},
			b: func(t *models.Team) {
				t.Prefecture = "Tokyo"
				t.SkillLevel = level(10)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := team(tt.a), team(tt.b)
			got := Score(&a, &b)
			if got.Value != tt.wantValue {
				t.Errorf("Score value = %d, want %d (%v)", got.Value, tt.wantValue, got.Reasons)
			}
			if len(got.Reasons) != tt.wantReasons {
				t.Errorf("len(Reasons) = %d, want %d: %v", len(got.Reasons), tt.wantReasons, got.Reasons)
			}
		})
	}
}

func TestBuildMatches(t *testing.T) {
	const date = "2026-09-12"
	strong1 := team(func(t *models.Team) {
		t.Name = "strong1"
		t.Categories = []string{"U-12"}
		t.SkillLevel = level(5)
		t.DesiredDates = []string{date}
	})
	strong2 := team(func(t *models.Team) {
		t.Name = "strong2"
		t.Categories = []string{"U-12"}
		t.SkillLevel = level(5)
		t.DesiredDates = []string{date}
	})
	weak := team(func(t *models.Team) {
		t.Name = "weak"
		t.Categories = []string{"U-15"}
		t.SkillLevel = level(1)
		t.DesiredDates = []string{date}
	})
	otherDay := team(func(t *models.Team) {
		t.Name = "otherday"
		t.Categories = []string{"U-12"}
		t.SkillLevel = level(5)
		t.DesiredDates = []string{"2026-09-13"}
	})

	pairs := BuildMatches([]models.Team{strong1, weak, strong2, otherDay}, date)
	if len(pairs) != 3 {
		t.Fatalf("len(pairs) = %d, want 3 (otherday filtered out)", len(pairs))
	}
	if pairs[0].TeamA.Name != "strong1" || pairs[0].TeamB.Name != "strong2" {
		t.Errorf("best pair = (%s, %s), want (strong1, strong2)", pairs[0].TeamA.Name, pairs[0].TeamB.Name)
	}
	for i := 1; i < len(pairs); i++ {
		if pairs[i].Result.Value > pairs[i-1].Result.Value {
			t.Errorf("pairs not sorted descending at %d", i)
		}
	}
}

func TestBuildMatchesStableTiebreak(t *testing.T) {
	const date = "2026-09-12"
	mk := func(name string) models.Team {
		return team(func(t *models.Team) {
			t.Name = name
			t.SkillLevel = level(5)
			t.DesiredDates = []string{date}
		})
	}
	a, b, c := mk("a"), mk("b"), mk("c")

	pairs := BuildMatches([]models.Team{a, b, c}, date)
	want := [][2]string{{"a", "b"}, {"a", "c"}, {"b", "c"}}
	for i, w := range want {
		if pairs[i].TeamA.Name != w[0] || pairs[i].TeamB.Name != w[1] {
			t.Errorf("pair %d = (%s, %s), want (%s, %s)",
				i, pairs[i].TeamA.Name, pairs[i].TeamB.Name, w[0], w[1])
		}
	}
}
