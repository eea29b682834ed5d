package types

import (
	"io"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/simonhull/audiolink/internal/binary"
)

// Format represents the detected audio container format.
type Format int

const (
	// FormatUnknown represents an unknown or unsupported format.
	FormatUnknown Format = iota
	// FormatFLAC represents FLAC audio files (Vorbis comment tags).
	FormatFLAC
	// FormatMP3 represents MP3 audio files (ID3v2 tags).
	FormatMP3
	// FormatM4A represents M4A/MP4 audio files.
	FormatM4A
	// FormatOgg represents Ogg Vorbis audio files.
	FormatOgg
	// FormatOpus represents Opus audio files.
	FormatOpus
	// FormatWAV represents WAV audio files.
	FormatWAV
	// FormatAIFF represents AIFF audio files.
	FormatAIFF
)

var formatNames = map[Format]string{
	FormatUnknown: "Unknown",
	FormatFLAC:    "FLAC",
	FormatMP3:     "MP3",
	FormatM4A:     "M4A",
	FormatOgg:     "Ogg Vorbis",
	FormatOpus:    "Opus",
	FormatWAV:     "WAV",
	FormatAIFF:    "AIFF",
}

// String returns the display name of the format.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "Format(" + strconv.Itoa(int(f)) + ")"
}

// Extensions returns the file extensions accepted for this format.
func (f Format) Extensions() []string {
	switch f {
	case FormatFLAC:
		return []string{".flac"}
	case FormatMP3:
		return []string{".mp3"}
	case FormatM4A:
		return []string{".m4a", ".m4b", ".mp4"}
	case FormatOgg:
		return []string{".ogg", ".oga"}
	case FormatOpus:
		return []string{".opus"}
	case FormatWAV:
		return []string{".wav"}
	case FormatAIFF:
		return []string{".aiff", ".aif"}
	default:
		return nil
	}
}

// MatchesExtension reports whether path carries one of the format's
// extensions. The comparison ignores case.
func (f Format) MatchesExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext != "" && slices.Contains(f.Extensions(), ext)
}

// DetectFormat determines the audio format by examining magic bytes.
//
// Detection only looks at the leading signature; it does not validate
// the container structure.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) { //nolint:gocyclo // One branch per signature
	if size < 4 {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "file too small",
		}
	}

	sr := binary.NewSafeReader(r, size, path)

	magic := make([]byte, 4)
	if err := sr.ReadAt(magic, 0, "file magic bytes"); err != nil {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "failed to read file header",
		}
	}

	switch {
	case string(magic) == "fLaC":
		return FormatFLAC, nil
	case string(magic[:3]) == "ID3":
		return FormatMP3, nil
	case magic[0] == 0xFF && magic[1]&0xE0 == 0xE0 && magic[1]&0x06 != 0:
		// Bare MPEG audio frame sync, no ID3v2 tag yet. Layer bits 00 mark
		// ADTS AAC, which shares the sync pattern.
		return FormatMP3, nil
	case string(magic) == "OggS":
		return detectOggCodec(sr, size), nil
	}

	if size >= 12 {
		tag := make([]byte, 4)
		if err := sr.ReadAt(tag, 8, "container brand"); err == nil {
			switch {
			case string(magic) == "RIFF" && string(tag) == "WAVE":
				return FormatWAV, nil
			case string(magic) == "FORM" && (string(tag) == "AIFF" || string(tag) == "AIFC"):
				return FormatAIFF, nil
			}
		}
	}

	if size >= 8 {
		atomType := make([]byte, 4)
		if err := sr.ReadAt(atomType, 4, "ftyp atom type"); err == nil && string(atomType) == "ftyp" {
			return FormatM4A, nil
		}
	}

	return FormatUnknown, &UnsupportedFormatError{
		Path:   path,
		Reason: "unrecognized file signature",
	}
}

// detectOggCodec peeks into the first Ogg page to tell Opus from Vorbis.
func detectOggCodec(sr *binary.SafeReader, size int64) Format {
	// 27 byte page header, segment table, then the codec magic
	if size < 36 {
		return FormatOgg
	}
	segCount, err := binary.Read[uint8](sr, 26, "segment count")
	if err != nil {
		return FormatOgg
	}
	packetOffset := int64(27 + int(segCount))
	if packetOffset+8 > size {
		return FormatOgg
	}
	codecMagic := make([]byte, 8)
	if err := sr.ReadAt(codecMagic, packetOffset, "codec magic"); err == nil && string(codecMagic) == "OpusHead" {
		return FormatOpus
	}
	return FormatOgg
}
