package domain

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestTruncateAnchor(t *testing.T) {
	tests := []struct {
		name   string
		anchor string
		max    int
		want   string
	}{
		{name: "short anchor is quoted", anchor: "X = 1\n", max: 60, want: `"X = 1\n"`},
		{name: "long anchor is cut", anchor: "abcdefgh", max: 3, want: `"abc"...`},
		{name: "multibyte runes stay intact", anchor: "ñandú-ñandú", max: 5, want: `"ñandú"...`},
		{name: "non-positive max disables truncation", anchor: "abcdef", max: 0, want: `"abcdef"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateAnchor(tt.anchor, tt.max); got != tt.want {
				t.Errorf("TruncateAnchor() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPatchError_Is(t *testing.T) {
	err := error(&PatchError{
		Kind:  ErrAnchorNotFound,
		Index: 1,
		Rule:  Rule{Name: "imports", Anchor: "FOO_BAR", Message: "Expected import block not found"},
		Path:  "a.ts",
	})

	if !errors.Is(err, ErrAnchorNotFound) {
		t.Fatalf("errors.Is(err, ErrAnchorNotFound) = false")
	}
	if errors.Is(err, ErrAmbiguousAnchor) {
		t.Fatalf("errors.Is(err, ErrAmbiguousAnchor) = true")
	}

	msg := err.Error()
	for _, want := range []string{"anchor not found", "a.ts", "rule 2 (imports)", `"FOO_BAR"`, "Expected import block not found"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
}

func TestPatchError_AmbiguousReportsCount(t *testing.T) {
	err := &PatchError{Kind: ErrAmbiguousAnchor, Index: 0, Rule: Rule{Anchor: "x"}, Count: 3}
	if !strings.Contains(err.Error(), "matched 3 times") {
		t.Errorf("Error() = %q, want count", err.Error())
	}
}

func TestNewIOError_UnwrapsCause(t *testing.T) {
	err := NewIOError("missing.txt", &fs.PathError{Op: "open", Path: "missing.txt", Err: fs.ErrNotExist})

	if !errors.Is(err, ErrIO) {
		t.Error("errors.Is(err, ErrIO) = false")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is(err, fs.ErrNotExist) = false")
	}
	var pathErr *fs.PathError
	if !errors.As(err, &pathErr) {
		t.Error("errors.As(err, *fs.PathError) = false")
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{in: "", want: PolicyFirst},
		{in: "first", want: PolicyFirst},
		{in: " Unique ", want: PolicyUnique},
		{in: "all", want: PolicyAll},
		{in: "last", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidRule) {
				t.Errorf("ParsePolicy(%q) error = %v, want ErrInvalidRule", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePolicy(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRule_Validate(t *testing.T) {
	if err := (Rule{Anchor: ""}).Validate(); !errors.Is(err, ErrInvalidRule) {
		t.Errorf("empty anchor: error = %v, want ErrInvalidRule", err)
	}
	if err := (Rule{Anchor: "a", Policy: "sometimes"}).Validate(); !errors.Is(err, ErrInvalidRule) {
		t.Errorf("bad policy: error = %v, want ErrInvalidRule", err)
	}
	if err := (Rule{Anchor: "a"}).Validate(); err != nil {
		t.Errorf("valid rule: unexpected error %v", err)
	}
}

func TestRule_EffectivePolicy(t *testing.T) {
	tests := []struct {
		policy Policy
		want   Policy
	}{
		{policy: "", want: PolicyFirst},
		{policy: "Unique", want: PolicyUnique},
		{policy: " all ", want: PolicyAll},
		{policy: "never", want: "never"},
	}

	for _, tt := range tests {
		if got := (Rule{Anchor: "a", Policy: tt.policy}).EffectivePolicy(); got != tt.want {
			t.Errorf("EffectivePolicy(%q) = %q, want %q", tt.policy, got, tt.want)
		}
	}
}
