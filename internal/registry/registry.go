// Package registry maps audio formats to the tag codecs that can read and
// rewrite their metadata containers.
package registry

import (
	"io"
	"iter"
	"maps"
	"slices"

	"github.com/simonhull/audiolink/internal/types"
)

// Container is a decoded, mutable tag container for a single file.
//
// Mutations only touch the in-memory copy; callers persist them by
// writing Encode() over the first Region() bytes of the original file.
type Container interface {
	// Get returns the first value stored under key. Keys match case-insensitively.
	Get(key string) (string, bool)
	// Set replaces every value stored under key with value.
	Set(key, value string)
	// Delete removes key and reports whether anything was removed.
	Delete(key string) bool
	// Fields iterates over every key/value pair in file order.
	Fields() iter.Seq2[string, string]
	// Present reports whether the file carried a container when decoded.
	Present() bool
	// Region is the length of the metadata prefix in the original file.
	Region() int64
	// Encode renders the metadata prefix that replaces the original region.
	Encode() ([]byte, error)
	// Warnings returns non-fatal issues found while decoding.
	Warnings() []types.Warning
}

// Codec decodes a format's tag container.
type Codec interface {
	Decode(r io.ReaderAt, size int64, path string) (Container, error)
}

// codecs maps formats to their codecs.
var codecs = make(map[types.Format]Codec)

// Register registers a codec for a format.
// This is called by format packages during initialization (init functions).
func Register(format types.Format, codec Codec) {
	codecs[format] = codec
}

// Get returns the codec for a given format.
// Returns nil if no codec is registered for the format.
func Get(format types.Format) Codec {
	return codecs[format]
}

// Formats returns the registered formats in ascending order.
func Formats() []types.Format {
	return slices.Sorted(maps.Keys(codecs))
}
