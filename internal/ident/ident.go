// Package ident generates and validates audiolink identifiers.
//
// An identifier is the 32 lowercase hex digits of a random 128-bit value
// followed by the literal suffix "-al". Other tools name files by it, so
// the format is a case-sensitive, exact-match contract.
package ident

import (
	"strings"

	"github.com/google/uuid"
)

// Suffix terminates every identifier.
const Suffix = "-al"

// HexLength is the number of hex digits before the suffix.
const HexLength = 32

// Length is the total identifier length.
const Length = HexLength + len(Suffix)

// Validity is the outcome of validating a possibly absent identifier.
type Validity int

const (
	// Absent means there was no identifier to judge.
	Absent Validity = iota
	// Invalid means the value does not follow the identifier format.
	Invalid
	// Valid means the value is a well-formed identifier.
	Valid
)

func (v Validity) String() string {
	switch v {
	case Absent:
		return "absent"
	case Valid:
		return "valid"
	default:
		return "invalid"
	}
}

// New returns a fresh identifier derived from a random (version 4) UUID.
// It panics only if the system random source fails, as uuid.New does.
func New() string {
	u := uuid.New()
	// uuid.UUID is a [16]byte; hex-encode without dashes.
	return strings.ReplaceAll(u.String(), "-", "") + Suffix
}

// Validate classifies value. The empty string is Absent.
func Validate(value string) Validity {
	if value == "" {
		return Absent
	}
	hex, suffix := Split(value)
	if suffix != Suffix || len(hex) != HexLength {
		return Invalid
	}
	for i := 0; i < len(hex); i++ {
		c := hex[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return Invalid
		}
	}
	if _, err := uuid.Parse(hex); err != nil {
		return Invalid
	}
	return Valid
}

// IsValid reports whether value is a well-formed identifier.
func IsValid(value string) bool {
	return Validate(value) == Valid
}

// Split separates value into the part before the suffix and the
// suffix-length tail. Values shorter than the suffix yield ("", value).
func Split(value string) (hex, suffix string) {
	if len(value) < len(Suffix) {
		return "", value
	}
	n := len(value) - len(Suffix)
	return value[:n], value[n:]
}

// FromLinkName extracts the identifier from a link file name such as
// "<id>.flac". It reports false if the stem is not a valid identifier.
func FromLinkName(name string) (string, bool) {
	if len(name) < Length {
		return "", false
	}
	id := name[:Length]
	rest := name[Length:]
	if rest != "" && (rest[0] != '.' || strings.ContainsAny(rest, "/\\")) {
		return "", false
	}
	if !IsValid(id) {
		return "", false
	}
	return id, true
}
