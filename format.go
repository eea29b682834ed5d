package audiolink

import (
	"io"

	"github.com/simonhull/audiolink/internal/registry"
	"github.com/simonhull/audiolink/internal/types"
)

// Format is an alias to types.Format.
type Format = types.Format

// Re-export all format constants.
const (
	FormatUnknown = types.FormatUnknown
	FormatFLAC    = types.FormatFLAC
	FormatMP3     = types.FormatMP3
	FormatM4A     = types.FormatM4A
	FormatOgg     = types.FormatOgg
	FormatOpus    = types.FormatOpus
	FormatWAV     = types.FormatWAV
	FormatAIFF    = types.FormatAIFF
)

// DetectFormat is a wrapper around types.DetectFormat.
//
// Detection recognizes more containers than can carry an identifier; use
// SupportedFormats to see which ones Open accepts.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	return types.DetectFormat(r, size, path)
}

// SupportedFormats returns the formats whose tags can hold an identifier.
func SupportedFormats() []Format {
	return registry.Formats()
}

// IsSupportedPath reports whether path has the extension of a supported
// format. Content is not inspected.
func IsSupportedPath(path string) bool {
	for _, f := range SupportedFormats() {
		if f.MatchesExtension(path) {
			return true
		}
	}
	return false
}
