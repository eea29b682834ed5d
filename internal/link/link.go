// Package link creates, validates and removes the identifier-named
// hardlinks that mirror tagged media files.
//
// A link is valid only when it shares device and inode with its source.
// Content is never compared. Nothing is cached: every check stats the
// filesystem again.
package link

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/simonhull/audiolink/internal/types"
)

var errNoInodes = errors.New("device and inode identity is not available on this platform")

// fileID is the filesystem identity of a path.
type fileID struct {
	dev uint64
	ino uint64
}

// State describes what occupies a link location.
type State int

const (
	// Absent means nothing exists at the link location.
	Absent State = iota
	// Present means the location is a hardlink of the source.
	Present
	// Stale means the location is occupied by something else.
	Stale
)

func (s State) String() string {
	switch s {
	case Absent:
		return "absent"
	case Present:
		return "present"
	default:
		return "stale"
	}
}

// IsValid reports whether source and link both exist and resolve to the
// same device and inode. Any stat failure yields false.
func IsValid(source, link string) bool {
	a, err := identify(source)
	if errors.Is(err, errNoInodes) {
		return sameFileFallback(source, link)
	}
	if err != nil {
		return false
	}
	b, err := identify(link)
	if err != nil {
		return false
	}
	return a == b
}

// sameFileFallback is used where identify cannot produce inode numbers.
func sameFileFallback(source, link string) bool {
	si, err := os.Stat(source)
	if err != nil {
		return false
	}
	li, err := os.Stat(link)
	if err != nil {
		return false
	}
	return os.SameFile(si, li)
}

// Path joins dir and name into the link location.
func Path(dir, name string) string {
	return filepath.Join(dir, name)
}

// Status reports what occupies dir/name relative to source.
func Status(source, dir, name string) State {
	dest := Path(dir, name)
	if _, err := os.Lstat(dest); err != nil {
		return Absent
	}
	if IsValid(source, dest) {
		return Present
	}
	return Stale
}

// Manager performs link operations, logging each change.
type Manager struct {
	logger *slog.Logger
}

// NewManager returns a Manager. A nil logger discards output.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{logger: logger}
}

// Create hardlinks source at dir/name and returns the link path.
//
// An existing entry at the location is an error even when it already is
// a hardlink of source; callers that want to refresh must Delete first.
// If the new entry does not resolve to source's inode it is removed and
// a *types.LinkCreationFailedError is returned.
func (m *Manager) Create(source, dir, name string) (string, error) {
	dest := Path(dir, name)

	if _, err := os.Lstat(dest); err == nil {
		return "", &types.LinkAlreadyExistsError{Source: source, Link: dest}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("stat link %s: %w", dest, err)
	}

	if err := os.Link(source, dest); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", &types.LinkAlreadyExistsError{Source: source, Link: dest}
		}
		return "", &types.LinkCreationFailedError{Source: source, Link: dest, Err: err}
	}

	if !IsValid(source, dest) {
		_ = os.Remove(dest) //nolint:errcheck // Best effort cleanup of a link that points elsewhere
		return "", &types.LinkCreationFailedError{Source: source, Link: dest}
	}

	m.logger.Debug("link created", "source", source, "link", dest)
	return dest, nil
}

// Delete removes dir/name. A missing entry is not an error.
func (m *Manager) Delete(dir, name string) error {
	dest := Path(dir, name)
	if err := os.Remove(dest); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove link %s: %w", dest, err)
	}
	m.logger.Debug("link removed", "link", dest)
	return nil
}
