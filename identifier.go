package audiolink

import "github.com/simonhull/audiolink/internal/ident"

// IDSuffix terminates every identifier.
const IDSuffix = ident.Suffix

// Validity is the outcome of ValidateID.
type Validity = ident.Validity

// Validity values.
const (
	IDAbsent  = ident.Absent
	IDInvalid = ident.Invalid
	IDValid   = ident.Valid
)

// NewID returns a fresh identifier: 32 lowercase hex digits of a random
// 128-bit value followed by "-al".
func NewID() string {
	return ident.New()
}

// ValidateID classifies value. The empty string means no identifier and
// yields IDAbsent rather than IDInvalid.
func ValidateID(value string) Validity {
	return ident.Validate(value)
}

// IsValidID reports whether value is a well-formed identifier.
func IsValidID(value string) bool {
	return ident.IsValid(value)
}

// SplitID separates value into its hex part and suffix.
func SplitID(value string) (hex, suffix string) {
	return ident.Split(value)
}
