// Package vorbis encodes and decodes Vorbis comment blocks.
//
// Vorbis comments are used by both FLAC and Ogg Vorbis. The layout is a
// little-endian length-prefixed vendor string followed by a counted list
// of length-prefixed UTF-8 "KEY=VALUE" strings.
package vorbis

import (
	"bytes"
	"fmt"
	"iter"
	"strings"

	"github.com/simonhull/audiolink/internal/binary"
	"github.com/simonhull/audiolink/internal/types"
)

// DefaultVendor is written when a new comment block is created.
const DefaultVendor = "audiolink"

// Comment is a single KEY=VALUE entry.
type Comment struct {
	Key   string
	Value string
}

// entry is a stored comment. Strings that are not KEY=VALUE are kept in
// raw and written back unchanged.
type entry struct {
	Comment
	raw       string
	malformed bool
}

// Comments is an ordered, mutable Vorbis comment list.
type Comments struct {
	Vendor  string
	entries []entry
}

// New returns an empty comment list with the default vendor string.
func New() *Comments {
	return &Comments{Vendor: DefaultVendor}
}

// Parse decodes a Vorbis comment block body.
//
// Malformed entries (missing '=') produce a warning and are kept opaque:
// lookups ignore them, Bytes writes them back. A truncated block is an
// error.
func Parse(data []byte, path string) (*Comments, []types.Warning, error) {
	sr := binary.NewSafeReader(bytes.NewReader(data), int64(len(data)), path)
	var warnings []types.Warning

	vendorLength, err := binary.ReadLE[uint32](sr, 0, "vendor string length")
	if err != nil {
		return nil, nil, err
	}
	offset := int64(4)

	vendor, err := sr.Bytes(offset, int64(vendorLength), "vendor string")
	if err != nil {
		return nil, nil, err
	}
	offset += int64(vendorLength)

	count, err := binary.ReadLE[uint32](sr, offset, "number of comments")
	if err != nil {
		return nil, nil, err
	}
	offset += 4

	c := &Comments{Vendor: string(vendor)}
	for i := uint32(0); i < count; i++ {
		length, err := binary.ReadLE[uint32](sr, offset, "comment length")
		if err != nil {
			return nil, nil, fmt.Errorf("read comment %d length: %w", i, err)
		}
		offset += 4

		raw, err := sr.Bytes(offset, int64(length), fmt.Sprintf("comment %d", i))
		if err != nil {
			return nil, nil, fmt.Errorf("read comment %d: %w", i, err)
		}
		offset += int64(length)

		key, value, err := SplitComment(string(raw))
		if err != nil {
			warnings = append(warnings, types.Warning{
				Stage:   "comment",
				Message: fmt.Sprintf("invalid Vorbis comment kept as is: %s", err),
				Offset:  offset,
			})
			c.entries = append(c.entries, entry{raw: string(raw), malformed: true})
			continue
		}
		c.entries = append(c.entries, entry{Comment: Comment{Key: key, Value: value}})
	}

	return c, warnings, nil
}

// SplitComment splits a "KEY=VALUE" string at the first '='.
func SplitComment(comment string) (key, value string, err error) {
	key, value, ok := strings.Cut(comment, "=")
	if !ok {
		return "", "", fmt.Errorf("missing '=' in comment: %s", comment)
	}
	if key == "" {
		return "", "", fmt.Errorf("empty key in comment: %s", comment)
	}
	return key, value, nil
}

// Get returns the first value stored under key. Field names are
// case-insensitive.
func (c *Comments) Get(key string) (string, bool) {
	for _, e := range c.entries {
		if !e.malformed && strings.EqualFold(e.Key, key) {
			return e.Value, true
		}
	}
	return "", false
}

// Set removes every entry named key and appends a single key=value entry.
// The key is stored upper-cased, the conventional spelling.
func (c *Comments) Set(key, value string) {
	c.Delete(key)
	c.entries = append(c.entries, entry{Comment: Comment{Key: strings.ToUpper(key), Value: value}})
}

// Delete removes every entry named key and reports whether any existed.
func (c *Comments) Delete(key string) bool {
	n := len(c.entries)
	kept := c.entries[:0]
	for _, e := range c.entries {
		if e.malformed || !strings.EqualFold(e.Key, key) {
			kept = append(kept, e)
		}
	}
	c.entries = kept
	return len(kept) != n
}

// All iterates over well-formed entries in stored order.
func (c *Comments) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, e := range c.entries {
			if e.malformed {
				continue
			}
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Len returns the number of well-formed entries.
func (c *Comments) Len() int {
	n := 0
	for _, e := range c.entries {
		if !e.malformed {
			n++
		}
	}
	return n
}

// Bytes encodes the comment list as a Vorbis comment block body.
func (c *Comments) Bytes() []byte {
	var buf bytes.Buffer
	sw := binary.NewSafeWriter(&buf)

	_ = binary.WriteLE(sw, uint32(len(c.Vendor)))
	_ = sw.WriteString(c.Vendor)
	_ = binary.WriteLE(sw, uint32(len(c.entries)))
	for _, e := range c.entries {
		s := e.raw
		if !e.malformed {
			s = e.Key + "=" + e.Value
		}
		_ = binary.WriteLE(sw, uint32(len(s)))
		_ = sw.WriteString(s)
	}

	// bytes.Buffer writes cannot fail
	return buf.Bytes()
}
