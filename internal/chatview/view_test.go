package chatview

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mkondo/teamlink/internal/models"
)

func entry(id string, at time.Time) Message {
	return Message{ID: id, Body: "m-" + id, CreatedAt: at}
}

func TestViewMergeIdempotent(t *testing.T) {
	v := NewView()
	base := time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC)
	m := entry("a", base)

	if !v.Merge(m) {
		t.Fatal("first merge should insert")
	}
	if v.Merge(m) {
		t.Error("second merge of the same identifier should be skipped")
	}
	if v.Len() != 1 {
		t.Errorf("len = %d, want 1", v.Len())
	}
}

func TestViewOrdering(t *testing.T) {
	v := NewView()
	base := time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC)

	// Arrival order deliberately scrambled; the view sorts by creation
	// time with identifier as tiebreak.
	v.Merge(entry("c", base.Add(2*time.Second)))
	v.Merge(entry("b", base.Add(time.Second)))
	v.Merge(entry("e", base.Add(3*time.Second)))
	v.Merge(entry("d", base.Add(3*time.Second)))
	v.Merge(entry("a", base))

	want := []string{"a", "b", "c", "d", "e"}
	got := v.Messages()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("messages[%d].ID = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestViewRemove(t *testing.T) {
	v := NewView()
	base := time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC)
	v.Merge(entry("a", base))
	v.Merge(entry("b", base.Add(time.Second)))

	if !v.Remove("a") {
		t.Error("Remove of a present entry should report true")
	}
	if v.Remove("a") {
		t.Error("Remove of an absent entry should report false")
	}
	if v.Contains("a") || !v.Contains("b") {
		t.Errorf("unexpected membership after remove")
	}
	// A removed identifier can be re-merged.
	if !v.Merge(entry("a", base)) {
		t.Error("re-merge after remove should insert")
	}
}

func TestIsLocalID(t *testing.T) {
	if !IsLocalID(LocalIDPrefix + "1") {
		t.Error("prefixed id should be local")
	}
	if IsLocalID(uuid.New().String()) {
		t.Error("uuid should not be local")
	}
}

func TestFromModel(t *testing.T) {
	user, team := uuid.New(), uuid.New()
	m := models.ChatMessage{
		ID:           uuid.New(),
		ThreadID:     uuid.New(),
		SenderUserID: &user,
		SenderTeamID: &team,
		Body:         "hello",
		CreatedAt:    time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC),
	}
	got := FromModel(m)
	if got.ID != m.ID.String() || got.SenderUserID != user || got.SenderTeamID != team || got.Body != "hello" {
		t.Errorf("FromModel = %+v", got)
	}
	if got.Pending {
		t.Error("server messages are never pending")
	}
}
