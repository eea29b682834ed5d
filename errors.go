package audiolink

import (
	"github.com/simonhull/audiolink/internal/types"
)

// UnsupportedFormatError is an alias to types.UnsupportedFormatError.
// Returned when a file is not a FLAC or MP3 file, or its extension does
// not match its content.
type UnsupportedFormatError = types.UnsupportedFormatError

// CorruptedFileError is an alias to types.CorruptedFileError.
type CorruptedFileError = types.CorruptedFileError

// IOError is an alias to types.IOError.
type IOError = types.IOError

// InvalidIdentifierError is an alias to types.InvalidIdentifierError.
type InvalidIdentifierError = types.InvalidIdentifierError

// MissingIdentifierError is an alias to types.MissingIdentifierError.
type MissingIdentifierError = types.MissingIdentifierError

// LinkAlreadyExistsError is an alias to types.LinkAlreadyExistsError.
type LinkAlreadyExistsError = types.LinkAlreadyExistsError

// LinkCreationFailedError is an alias to types.LinkCreationFailedError.
type LinkCreationFailedError = types.LinkCreationFailedError

// Warning is an alias to types.Warning.
type Warning = types.Warning
