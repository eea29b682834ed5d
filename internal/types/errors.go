package types

import "fmt"

// UnsupportedFormatError is returned when a file is not a recognized audio
// container, or is one for which no tag accessor is registered.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// CorruptedFileError is returned when a tag container's structure is invalid.
type CorruptedFileError struct {
	Path   string
	Reason string
	Offset int64
}

func (e *CorruptedFileError) Error() string {
	return fmt.Sprintf("%s: corrupted file at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// IOError is returned when a media file cannot be opened, read or written.
type IOError struct {
	Err  error
	Path string
	Op   string // "open", "read", "write", ...
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// InvalidIdentifierError is returned when a caller-supplied identifier
// fails validation.
type InvalidIdentifierError struct {
	Value string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid identifier %q", e.Value)
}

// MissingIdentifierError is returned when an operation needs an
// identifier that the file does not carry.
type MissingIdentifierError struct {
	Path string
}

func (e *MissingIdentifierError) Error() string {
	return fmt.Sprintf("%s: no identifier set", e.Path)
}

// LinkAlreadyExistsError is returned when the link location is occupied.
type LinkAlreadyExistsError struct {
	Source string
	Link   string
}

func (e *LinkAlreadyExistsError) Error() string {
	return fmt.Sprintf("link %s already exists (source %s)", e.Link, e.Source)
}

// LinkCreationFailedError is returned when a freshly created link does not
// share device and inode with its source.
type LinkCreationFailedError struct {
	Err    error
	Source string
	Link   string
}

func (e *LinkCreationFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("link %s -> %s: %v", e.Link, e.Source, e.Err)
	}
	return fmt.Sprintf("link %s does not resolve to %s", e.Link, e.Source)
}

func (e *LinkCreationFailedError) Unwrap() error {
	return e.Err
}

// Warning represents a non-fatal issue encountered while decoding a tag
// container.
type Warning struct {
	Stage   string // "metadata", "frame", "comment"
	Message string
	Offset  int64
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", w.Stage, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}
