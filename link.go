package audiolink

import "github.com/simonhull/audiolink/internal/link"

// LinkState describes what occupies a link location.
type LinkState = link.State

// LinkState values.
const (
	LinkAbsent  = link.Absent
	LinkPresent = link.Present
	LinkStale   = link.Stale
)

// LinkIsValid reports whether linkPath is a hardlink of source: both
// exist and share device and inode. It never returns an error; any stat
// failure yields false.
func LinkIsValid(source, linkPath string) bool {
	return link.IsValid(source, linkPath)
}
