package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("missing date"), KindValidation},
		{"conflict", Conflict("already requested"), KindConflict},
		{"wrapped transient", Transient("store unavailable", errors.New("dial tcp")), KindTransient},
		{"double wrapped", fmt.Errorf("submit: %w", Domain("cannot request own slot")), KindDomain},
		{"plain error", errors.New("boom"), Kind("")},
		{"nil", nil, Kind("")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Transient("store unavailable", cause)
	if !errors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
}

func TestMessage(t *testing.T) {
	err := fmt.Errorf("accept: %w", Conflict("request already resolved"))
	if got := Message(err, "fallback"); got != "request already resolved" {
		t.Errorf("Message() = %q", got)
	}
	if got := Message(errors.New("raw"), "fallback"); got != "fallback" {
		t.Errorf("Message() fallback = %q", got)
	}
}
