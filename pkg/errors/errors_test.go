package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeReferential, "edge %s -> %s: unknown target", "1", "7")

	if err.Code != ErrCodeReferential {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeReferential)
	}

	if err.Message != "edge 1 -> 7: unknown target" {
		t.Errorf("Message = %v, want %v", err.Message, "edge 1 -> 7: unknown target")
	}

	expected := "REFERENTIAL: edge 1 -> 7: unknown target"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("exit status 1")
	err := Wrap(ErrCodeCollaborator, cause, "run spqr")

	if err.Code != ErrCodeCollaborator {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeCollaborator)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "COLLABORATOR: run spqr: exit status 1"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeCorruptLayout, "odd coordinate count"),
			code:     ErrCodeCorruptLayout,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeCorruptLayout, "test"),
			code:     ErrCodeReferential,
			expected: false,
		},
		{
			name:     "outer code of wrapped error",
			err:      Wrap(ErrCodeCollaborator, New(ErrCodeCorruptLayout, "inner"), "outer"),
			code:     ErrCodeCollaborator,
			expected: true,
		},
		{
			name:     "inner code of wrapped error",
			err:      Wrap(ErrCodeCollaborator, New(ErrCodeCorruptLayout, "inner"), "outer"),
			code:     ErrCodeCorruptLayout,
			expected: true,
		},
		{
			name:     "through fmt.Errorf",
			err:      fmt.Errorf("layout component 3: %w", New(ErrCodeCorruptLayout, "inner")),
			code:     ErrCodeCorruptLayout,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeEmptyInput, "n50 of nothing")); got != ErrCodeEmptyInput {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeEmptyInput)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"malformed candidate", New(ErrCodeMalformedCandidate, "line 3"), false},
		{"referential", New(ErrCodeReferential, "unknown node"), true},
		{"corrupt layout", New(ErrCodeCorruptLayout, "odd"), true},
		{"plain", errors.New("boom"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fatal(tt.err); got != tt.want {
				t.Errorf("Fatal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	err := Wrap(ErrCodeInvalidInput, New(ErrCodeReferential, "unknown node 7"), "read graph.gfa")
	want := "read graph.gfa: unknown node 7"
	if got := UserMessage(err); got != want {
		t.Errorf("UserMessage() = %q, want %q", got, want)
	}

	plain := errors.New("plain")
	if got := UserMessage(plain); got != "plain" {
		t.Errorf("UserMessage(plain) = %q, want %q", got, "plain")
	}
}
