package simerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsMatchesKind(t *testing.T) {
	err := Wrap(ConfigError, "elite_ratio out of range", fmt.Errorf("got 1.4"))
	if !Is(err, ConfigError) {
		t.Fatalf("expected Is to match ConfigError")
	}
	if Is(err, UnknownAgent) {
		t.Fatalf("did not expect Is to match UnknownAgent")
	}
}

func TestErrorsIsSentinel(t *testing.T) {
	err := New(UnknownAgent, "agent gen_3_7 not in cohort")
	if !errors.Is(err, UnknownAgentErr) {
		t.Fatalf("expected errors.Is to match UnknownAgentErr sentinel")
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(PersistenceFailure, "save_agent failed", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected Unwrap chain to reach cause")
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		InvalidGenome:       "invalid_genome",
		DuplicateConnection: "duplicate_connection",
		SelfConnection:      "self_connection",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
