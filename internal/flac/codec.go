// Package flac reads and rewrites the metadata block chain of FLAC files.
//
// The identifier lives in the VORBIS_COMMENT block. Every other block is
// carried through byte for byte; PADDING is absorbed and re-emitted so a
// rewrite can usually reuse the original metadata region in place.
package flac

import (
	"bytes"
	"fmt"
	"io"
	"iter"

	"github.com/simonhull/audiolink/internal/binary"
	"github.com/simonhull/audiolink/internal/registry"
	"github.com/simonhull/audiolink/internal/types"
	"github.com/simonhull/audiolink/internal/vorbis"
)

// Metadata block types
const (
	blockTypeStreamInfo    = 0
	blockTypePadding       = 1
	blockTypeVorbisComment = 4
)

const (
	// maxBlockLength is the largest length a 24-bit block header can carry.
	maxBlockLength = 1<<24 - 1
	// defaultPadding is appended when a rewrite has to grow the metadata region.
	defaultPadding = 4096
)

type block struct {
	data []byte
	typ  uint8
}

// container implements registry.Container for FLAC files.
type container struct {
	comments *vorbis.Comments
	path     string
	blocks   []block // non-padding blocks in file order, parsed comment block excluded
	warnings []types.Warning
	region   int64
	// commentAt is the index in blocks before which the comment block is
	// emitted, or -1 to emit it right after STREAMINFO.
	commentAt int
	present   bool
}

// codec implements registry.Codec for FLAC files.
type codec struct{}

// Decode parses the metadata block chain.
func (codec) Decode(r io.ReaderAt, size int64, path string) (registry.Container, error) { //nolint:gocyclo // Sequential block walk
	sr := binary.NewSafeReader(r, size, path)

	magic := make([]byte, 4)
	if err := sr.ReadAt(magic, 0, "FLAC magic bytes"); err != nil {
		return nil, fmt.Errorf("read FLAC magic: %w", err)
	}
	if string(magic) != "fLaC" {
		return nil, &types.CorruptedFileError{
			Path:   path,
			Offset: 0,
			Reason: "invalid FLAC magic bytes",
		}
	}

	c := &container{path: path, commentAt: -1}

	offset := int64(4) // After "fLaC"
	for {
		header, err := binary.Read[uint32](sr, offset, "metadata block header")
		if err != nil {
			return nil, &types.CorruptedFileError{
				Path:   path,
				Offset: offset,
				Reason: "metadata block chain ends without a last-block flag",
			}
		}

		isLast := (header >> 31) == 1
		blockType := uint8((header >> 24) & 0x7F)
		blockLength := int64(header & maxBlockLength)
		offset += 4

		if len(c.blocks) == 0 && !c.present && blockType != blockTypeStreamInfo {
			return nil, &types.CorruptedFileError{
				Path:   path,
				Offset: offset - 4,
				Reason: "first metadata block is not STREAMINFO",
			}
		}

		switch blockType {
		case blockTypePadding:
			// Absorbed; Encode sizes a fresh padding block.

		case blockTypeVorbisComment:
			data, err := sr.Bytes(offset, blockLength, "VORBIS_COMMENT block")
			if err != nil {
				return nil, err
			}
			if c.present {
				// Only the first block is read; later ones are written back as is.
				c.warnings = append(c.warnings, types.Warning{
					Stage:   "metadata",
					Message: "duplicate VORBIS_COMMENT block left unparsed",
					Offset:  offset,
				})
				c.blocks = append(c.blocks, block{typ: blockType, data: data})
				break
			}
			comments, warnings, err := vorbis.Parse(data, path)
			if err != nil {
				return nil, &types.CorruptedFileError{
					Path:   path,
					Offset: offset,
					Reason: fmt.Sprintf("invalid VORBIS_COMMENT block: %v", err),
				}
			}
			c.comments = comments
			c.warnings = append(c.warnings, warnings...)
			c.commentAt = len(c.blocks)
			c.present = true

		default:
			data, err := sr.Bytes(offset, blockLength, fmt.Sprintf("metadata block type %d", blockType))
			if err != nil {
				return nil, err
			}
			c.blocks = append(c.blocks, block{typ: blockType, data: data})
		}

		offset += blockLength
		if isLast {
			break
		}
	}

	c.region = offset
	return c, nil
}

func (c *container) Get(key string) (string, bool) {
	if c.comments == nil {
		return "", false
	}
	return c.comments.Get(key)
}

func (c *container) Set(key, value string) {
	if c.comments == nil {
		c.comments = vorbis.New()
	}
	c.comments.Set(key, value)
}

func (c *container) Delete(key string) bool {
	if c.comments == nil {
		return false
	}
	return c.comments.Delete(key)
}

func (c *container) Fields() iter.Seq2[string, string] {
	if c.comments == nil {
		return func(func(string, string) bool) {}
	}
	return c.comments.All()
}

func (c *container) Present() bool             { return c.present }
func (c *container) Region() int64             { return c.region }
func (c *container) Warnings() []types.Warning { return c.warnings }

// Encode renders "fLaC" and the block chain. The chain is padded to fill
// the original region exactly when it fits, otherwise it grows by
// defaultPadding.
func (c *container) Encode() ([]byte, error) {
	ordered := make([]block, 0, len(c.blocks)+2)
	commentAt := c.commentAt
	if commentAt < 0 {
		commentAt = 1 // after STREAMINFO
	}
	for i, b := range c.blocks {
		if i == commentAt && c.comments != nil {
			ordered = append(ordered, block{typ: blockTypeVorbisComment, data: c.comments.Bytes()})
		}
		ordered = append(ordered, b)
	}
	if commentAt >= len(c.blocks) && c.comments != nil {
		ordered = append(ordered, block{typ: blockTypeVorbisComment, data: c.comments.Bytes()})
	}

	used := int64(4)
	for _, b := range ordered {
		if len(b.data) > maxBlockLength {
			return nil, fmt.Errorf("%s: metadata block type %d too large (%d bytes)", c.path, b.typ, len(b.data))
		}
		used += 4 + int64(len(b.data))
	}

	switch avail := c.region - used; {
	case avail == 0:
	case avail >= 4 && avail-4 <= maxBlockLength:
		ordered = append(ordered, block{typ: blockTypePadding, data: make([]byte, avail-4)})
	default:
		ordered = append(ordered, block{typ: blockTypePadding, data: make([]byte, defaultPadding)})
	}

	var buf bytes.Buffer
	sw := binary.NewSafeWriter(&buf)
	_ = sw.WriteString("fLaC")
	for i, b := range ordered {
		head := b.typ & 0x7F
		if i == len(ordered)-1 {
			head |= 0x80
		}
		_ = binary.Write(sw, head)
		_ = sw.WriteUint24(uint32(len(b.data)))
		_ = sw.WriteBytes(b.data)
	}
	return buf.Bytes(), sw.Err()
}

// init registers the FLAC codec
func init() {
	registry.Register(types.FormatFLAC, codec{})
}
