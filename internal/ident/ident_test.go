package ident

import (
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
)

var idPattern = regexp.MustCompile(`^[0-9a-f]{32}-al$`)

var (
	knownValid         = strings.Repeat("0", 32) + Suffix
	knownInvalidHex    = strings.Repeat("z", 32) + Suffix
	knownInvalidSuffix = strings.Repeat("0", 32) + "-zz"
)

func TestNew(t *testing.T) {
	id := New()

	if !idPattern.MatchString(id) {
		t.Fatalf("New() = %q, does not match %s", id, idPattern)
	}

	hex, suffix := Split(id)
	if suffix != Suffix {
		t.Errorf("suffix = %q, want %q", suffix, Suffix)
	}
	if _, err := uuid.Parse(hex); err != nil {
		t.Errorf("hex part %q is not a UUID: %v", hex, err)
	}
	if Validate(id) != Valid {
		t.Errorf("Validate(New()) = %v, want valid", Validate(id))
	}
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for range 1000 {
		id := New()
		if seen[id] {
			t.Fatalf("New() repeated %q", id)
		}
		seen[id] = true
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  Validity
	}{
		{"valid", knownValid, Valid},
		{"invalid hex", knownInvalidHex, Invalid},
		{"invalid suffix", knownInvalidSuffix, Invalid},
		{"absent", "", Absent},
		{"uppercase hex", strings.Repeat("A", 32) + Suffix, Invalid},
		{"dashed uuid", "00000000-0000-0000-0000-000000000000" + Suffix, Invalid},
		{"short hex", strings.Repeat("0", 31) + Suffix, Invalid},
		{"long hex", strings.Repeat("0", 33) + Suffix, Invalid},
		{"suffix only", Suffix, Invalid},
		{"shorter than suffix", "a", Invalid},
		{"no suffix", strings.Repeat("0", 35), Invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Validate(tt.value); got != tt.want {
				t.Errorf("Validate(%q) = %v, want %v", tt.value, got, tt.want)
			}
			if got := IsValid(tt.value); got != (tt.want == Valid) {
				t.Errorf("IsValid(%q) = %v", tt.value, got)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	hex, suffix := Split(knownValid)
	if hex != strings.Repeat("0", 32) || suffix != "-al" {
		t.Errorf("Split() = %q, %q", hex, suffix)
	}

	hex, suffix = Split("a")
	if hex != "" || suffix != "a" {
		t.Errorf("Split(short) = %q, %q", hex, suffix)
	}
}

func TestFromLinkName(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{knownValid + ".flac", knownValid, true},
		{knownValid + ".mp3", knownValid, true},
		{knownValid, knownValid, true},
		{knownInvalidHex + ".flac", "", false},
		{knownValid + "x.flac", "", false},
		{"song.flac", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromLinkName(tt.name)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("FromLinkName(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestValidityString(t *testing.T) {
	if Absent.String() != "absent" || Invalid.String() != "invalid" || Valid.String() != "valid" {
		t.Errorf("unexpected Validity strings: %s %s %s", Absent, Invalid, Valid)
	}
}
