// Package mp3 reads and rewrites ID3v2 tags at the head of MP3 files.
//
// Custom fields, the identifier among them, are stored in TXXX frames
// keyed by their description. All other frames are carried through
// verbatim.
package mp3

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"

	binutil "github.com/simonhull/audiolink/internal/binary"
	"github.com/simonhull/audiolink/internal/registry"
	"github.com/simonhull/audiolink/internal/types"
)

const (
	headerSize = 10
	// defaultPadding is reserved when a tag is created or has to grow.
	defaultPadding = 2048
	// maxTagSize is the largest body a 28-bit synchsafe size can describe.
	maxTagSize = 1<<28 - 1
)

// Header flags
const (
	flagUnsynchronisation = 0x80
	flagExtendedHeader    = 0x40
	flagFooter            = 0x10
)

// ID3v2.4 frame format flags
const (
	frameFlagGrouping   = 0x0040
	frameFlagCompressed = 0x0008
	frameFlagEncrypted  = 0x0004
	frameFlagUnsync     = 0x0002
	frameFlagDataLength = 0x0001
)

// ID3v2.3 frame format flags
const (
	frameFlagV3Compressed = 0x0080
	frameFlagV3Encrypted  = 0x0040
	frameFlagV3Grouping   = 0x0020
)

// ID3v2Frame represents a single ID3v2 frame
type ID3v2Frame struct {
	ID    string // 4-character frame ID (e.g., "TIT2", "TXXX")
	Data  []byte // Frame body
	Flags uint16 // Frame flags
}

// tag implements registry.Container for ID3v2.
type tag struct {
	path     string
	frames   []ID3v2Frame
	// rest holds the frame data after the first frame that could not be
	// parsed. It is written back after the known frames.
	rest     []byte
	warnings []types.Warning
	region   int64
	version  byte // major version: 3 or 4
	present  bool
}

// codec implements registry.Codec for MP3 files.
type codec struct{}

// Decode parses the ID3v2 tag at the start of the file, if any.
func (codec) Decode(r io.ReaderAt, size int64, path string) (registry.Container, error) { //nolint:gocyclo // Header, extended header and frame walk
	sr := binutil.NewSafeReader(r, size, path)
	t := &tag{path: path, version: 4}

	buf := make([]byte, headerSize)
	if size < headerSize || sr.ReadAt(buf, 0, "ID3v2 header") != nil || string(buf[0:3]) != "ID3" {
		// Bare MPEG stream, no tag yet
		return t, nil
	}

	version := buf[3]
	flags := buf[5]
	bodySize := decodeSynchsafe(buf[6:10])

	if version != 3 && version != 4 {
		return nil, &types.UnsupportedFormatError{
			Path:   path,
			Reason: fmt.Sprintf("unsupported ID3v2 version: 2.%d", version),
		}
	}

	body, err := sr.Bytes(headerSize, int64(bodySize), "ID3v2 tag body")
	if err != nil {
		return nil, &types.CorruptedFileError{
			Path:   path,
			Offset: headerSize,
			Reason: fmt.Sprintf("tag size %d exceeds file: %v", bodySize, err),
		}
	}

	t.version = version
	t.present = true
	t.region = headerSize + int64(bodySize)
	if version == 4 && flags&flagFooter != 0 {
		t.region += headerSize
	}

	if version == 3 && flags&flagUnsynchronisation != 0 {
		body = resync(body)
	}

	offset := 0
	if flags&flagExtendedHeader != 0 {
		if len(body) < 4 {
			return nil, &types.CorruptedFileError{Path: path, Offset: headerSize, Reason: "truncated extended header"}
		}
		if version == 4 {
			offset = int(decodeSynchsafe(body[0:4]))
		} else {
			offset = int(binary.BigEndian.Uint32(body[0:4])) + 4
		}
	}

	for offset+headerSize <= len(body) {
		// Padding (null bytes) ends the frame list
		if body[offset] == 0 {
			break
		}

		frameID := string(body[offset : offset+4])
		if !validFrameID(frameID) {
			t.warnings = append(t.warnings, types.Warning{
				Stage:   "frame",
				Message: fmt.Sprintf("invalid frame ID %q, rest of tag left unparsed", frameID),
				Offset:  headerSize + int64(offset),
			})
			t.rest = unparsed(body[offset:])
			break
		}

		start := offset + headerSize
		frameSize := int(binary.BigEndian.Uint32(body[offset+4 : offset+8]))
		if version == 4 {
			// Some writers (older iTunes) store plain integers in v2.4
			// frame sizes. Take the reading that lands on a frame boundary.
			if synchsafe := int(decodeSynchsafe(body[offset+4 : offset+8])); synchsafe != frameSize &&
				(atBoundary(body, start+synchsafe) || !atBoundary(body, start+frameSize)) {
				frameSize = synchsafe
			}
		}
		frameFlags := binary.BigEndian.Uint16(body[offset+8 : offset+10])

		if frameSize < 0 || start+frameSize > len(body) {
			t.warnings = append(t.warnings, types.Warning{
				Stage:   "frame",
				Message: fmt.Sprintf("frame %s overruns tag (%d bytes), rest of tag left unparsed", frameID, frameSize),
				Offset:  headerSize + int64(offset),
			})
			t.rest = unparsed(body[offset:])
			break
		}

		data := slices.Clone(body[start : start+frameSize])
		if version == 4 && (frameFlags&frameFlagUnsync != 0 || flags&flagUnsynchronisation != 0) {
			data = resync(data)
			frameFlags &^= frameFlagUnsync
		}

		t.frames = append(t.frames, ID3v2Frame{ID: frameID, Flags: frameFlags, Data: data})
		offset = start + frameSize
	}

	return t, nil
}

// Get returns the value of the first TXXX frame whose description matches key.
func (t *tag) Get(key string) (string, bool) {
	for _, f := range t.frames {
		if desc, value, ok := t.userText(f); ok && strings.EqualFold(desc, key) {
			return value, true
		}
	}
	return "", false
}

// Set replaces every TXXX frame described by key with one new frame.
func (t *tag) Set(key, value string) {
	t.Delete(key)
	t.frames = append(t.frames, ID3v2Frame{
		ID:   "TXXX",
		Data: encodeText(t.version, strings.ToUpper(key), value),
	})
}

// Delete removes every TXXX frame described by key.
func (t *tag) Delete(key string) bool {
	n := len(t.frames)
	t.frames = slices.DeleteFunc(t.frames, func(f ID3v2Frame) bool {
		desc, _, ok := t.userText(f)
		return ok && strings.EqualFold(desc, key)
	})
	return len(t.frames) != n
}

// Fields yields TXXX frames as (description, value), other text frames
// as (frame ID, text) and remaining frames as (frame ID, size summary).
func (t *tag) Fields() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, f := range t.frames {
			key, value := f.ID, fmt.Sprintf("[%d bytes]", len(f.Data))
			if desc, v, ok := t.userText(f); ok {
				key, value = desc, v
			} else if text, ok := t.text(f); ok {
				value = text
			}
			if !yield(key, value) {
				return
			}
		}
	}
}

func (t *tag) Present() bool             { return t.present }
func (t *tag) Region() int64             { return t.region }
func (t *tag) Warnings() []types.Warning { return t.warnings }

// Encode renders the tag in its original major version. The footer and
// extended header are not carried over; padding fills the original
// region when the frames fit. Unparsed trailing frame data follows the
// known frames byte for byte.
func (t *tag) Encode() ([]byte, error) {
	var frames bytes.Buffer
	sw := binutil.NewSafeWriter(&frames)
	for _, f := range t.frames {
		if len(f.Data) > maxTagSize {
			return nil, fmt.Errorf("%s: frame %s too large", t.path, f.ID)
		}
		_ = sw.WriteString(f.ID)
		if t.version == 4 {
			_ = sw.WriteBytes(encodeSynchsafe(uint32(len(f.Data))))
		} else {
			_ = binutil.Write(sw, uint32(len(f.Data)))
		}
		_ = binutil.Write(sw, f.Flags)
		_ = sw.WriteBytes(f.Data)
	}
	_ = sw.WriteBytes(t.rest)
	if err := sw.Err(); err != nil {
		return nil, err
	}

	padding := t.region - headerSize - int64(frames.Len())
	if !t.present || padding < 0 {
		padding = defaultPadding
	}
	bodySize := int64(frames.Len()) + padding
	if bodySize > maxTagSize {
		return nil, fmt.Errorf("%s: ID3v2 tag too large (%d bytes)", t.path, bodySize)
	}

	out := make([]byte, 0, headerSize+bodySize)
	out = append(out, 'I', 'D', '3', t.version, 0, 0)
	out = append(out, encodeSynchsafe(uint32(bodySize))...)
	out = append(out, frames.Bytes()...)
	out = append(out, make([]byte, padding)...)
	return out, nil
}

// payload strips per-frame prefixes and reports false for frames whose
// body cannot be read as plain text.
func (t *tag) payload(f ID3v2Frame) ([]byte, bool) {
	data := f.Data
	if t.version == 4 {
		if f.Flags&(frameFlagCompressed|frameFlagEncrypted) != 0 {
			return nil, false
		}
		if f.Flags&frameFlagGrouping != 0 {
			if len(data) < 1 {
				return nil, false
			}
			data = data[1:]
		}
		if f.Flags&frameFlagDataLength != 0 {
			if len(data) < 4 {
				return nil, false
			}
			data = data[4:]
		}
	} else {
		if f.Flags&(frameFlagV3Compressed|frameFlagV3Encrypted) != 0 {
			return nil, false
		}
		if f.Flags&frameFlagV3Grouping != 0 {
			if len(data) < 1 {
				return nil, false
			}
			data = data[1:]
		}
	}
	return data, len(data) > 0
}

// userText decodes a TXXX frame: [encoding][description\0][value]
func (t *tag) userText(f ID3v2Frame) (desc, value string, ok bool) {
	if f.ID != "TXXX" {
		return "", "", false
	}
	data, ok := t.payload(f)
	if !ok || len(data) < 2 {
		return "", "", false
	}

	encoding := data[0]
	rest := data[1:]
	nullIdx := findNullTerminator(rest, encoding)
	if nullIdx < 0 {
		return decodeText(rest, encoding), "", true
	}

	desc = decodeText(rest[:nullIdx], encoding)
	value = decodeText(rest[nullIdx+terminatorSize(encoding):], encoding)
	// ID3v2.4 separates multiple values with terminators; keep the first.
	if i := strings.IndexByte(value, 0); i >= 0 {
		value = value[:i]
	}
	return desc, value, true
}

// text decodes a standard text frame (TIT2, TPE1, ...).
func (t *tag) text(f ID3v2Frame) (string, bool) {
	if !strings.HasPrefix(f.ID, "T") {
		return "", false
	}
	data, ok := t.payload(f)
	if !ok {
		return "", false
	}
	return strings.ReplaceAll(decodeText(data[1:], data[0]), "\x00", "/"), true
}

// unparsed copies the undecodable tail of a tag body, dropping trailing
// padding so the rewrite can size its own.
func unparsed(b []byte) []byte {
	return slices.Clone(bytes.TrimRight(b, "\x00"))
}

// atBoundary reports whether pos is where a frame may end: the end of the
// body, the start of padding or the start of another frame.
func atBoundary(body []byte, pos int) bool {
	switch {
	case pos == len(body):
		return true
	case pos < 0 || pos > len(body):
		return false
	case body[pos] == 0:
		return true
	}
	return pos+4 <= len(body) && validFrameID(string(body[pos:pos+4]))
}

func validFrameID(id string) bool {
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return len(id) == 4
}

// decodeSynchsafe decodes a synchsafe integer (7 bits per byte)
func decodeSynchsafe(b []byte) uint32 {
	if len(b) != 4 {
		return 0
	}
	return uint32(b[0]&0x7F)<<21 |
		uint32(b[1]&0x7F)<<14 |
		uint32(b[2]&0x7F)<<7 |
		uint32(b[3]&0x7F)
}

// encodeSynchsafe encodes the low 28 bits of v as a synchsafe integer.
func encodeSynchsafe(v uint32) []byte {
	return []byte{
		byte(v>>21) & 0x7F,
		byte(v>>14) & 0x7F,
		byte(v>>7) & 0x7F,
		byte(v) & 0x7F,
	}
}

// resync reverses unsynchronisation: every 0xFF 0x00 pair becomes 0xFF.
func resync(data []byte) []byte {
	return bytes.ReplaceAll(data, []byte{0xFF, 0x00}, []byte{0xFF})
}

// init registers the MP3 codec
func init() {
	registry.Register(types.FormatMP3, codec{})
}
