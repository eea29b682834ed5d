// Package tag reads and writes the identifier field of an audio file's
// metadata container, dispatching to the codec registered for the
// file's format.
package tag

import (
	"fmt"
	"io"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/simonhull/audiolink/internal/flac" // registers the FLAC codec
	_ "github.com/simonhull/audiolink/internal/mp3"  // registers the MP3 codec
	"github.com/simonhull/audiolink/internal/registry"
	"github.com/simonhull/audiolink/internal/types"
)

// IdentifierKey names the custom field holding the identifier: a Vorbis
// comment in FLAC, the description of a TXXX frame in MP3.
const IdentifierKey = "AUDIOLINK_ID"

// Tag is the decoded metadata container of one file.
//
// No file handle is held between calls; every write reopens the file.
type Tag struct {
	container registry.Container
	logger    *slog.Logger
	path      string
	opts      Options
	format    types.Format
	// stale is set when a failed write left the container out of step
	// with the file; the next write re-reads it first.
	stale     bool
}

// Options configures how tags are read and persisted.
type Options struct {
	// Logger receives debug events for writes. Nil discards them.
	Logger *slog.Logger
	// BackupSuffix, when set, copies the file to path+BackupSuffix before
	// each write.
	BackupSuffix string
	// PreserveModTime restores the original modification time after writes.
	PreserveModTime bool
	// Strict fails reads that produced decoding warnings.
	Strict bool
}

// Read opens path, detects its format and decodes its tag container.
//
// It returns *types.IOError if the file cannot be opened or stat'ed and
// *types.UnsupportedFormatError if the content is not a supported audio
// container or the extension does not match the content.
func Read(path string, opts Options) (*Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &types.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close() //nolint:errcheck // Read-only handle

	info, err := f.Stat()
	if err != nil {
		return nil, &types.IOError{Op: "stat", Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &types.UnsupportedFormatError{Path: path, Reason: "is a directory"}
	}

	container, format, err := decode(f, info.Size(), path)
	if err != nil {
		return nil, err
	}

	if opts.Strict && len(container.Warnings()) > 0 {
		return nil, fmt.Errorf("strict parsing failed: %s", container.Warnings()[0])
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Tag{
		container: container,
		format:    format,
		path:      path,
		opts:      opts,
		logger:    logger,
	}, nil
}

func decode(r io.ReaderAt, size int64, path string) (registry.Container, types.Format, error) {
	format, err := types.DetectFormat(r, size, path)
	if err != nil {
		return nil, types.FormatUnknown, err
	}

	if !format.MatchesExtension(path) {
		return nil, format, &types.UnsupportedFormatError{
			Path:   path,
			Reason: fmt.Sprintf("extension %q does not match %s content", filepath.Ext(path), format),
		}
	}

	codec := registry.Get(format)
	if codec == nil {
		return nil, format, &types.UnsupportedFormatError{
			Path:   path,
			Reason: fmt.Sprintf("no tag accessor for format %s", format),
		}
	}

	container, err := codec.Decode(r, size, path)
	if err != nil {
		return nil, format, fmt.Errorf("decode %s: %w", format, err)
	}
	return container, format, nil
}

// Path returns the file the tag was read from.
func (t *Tag) Path() string { return t.path }

// Format returns the detected container format.
func (t *Tag) Format() types.Format { return t.format }

// Present reports whether the file carries a tag container at all. A
// file without one still reads as having no identifier, and gains a
// container on the first write.
func (t *Tag) Present() bool { return t.container.Present() }

// Warnings returns non-fatal decoding issues.
func (t *Tag) Warnings() []types.Warning { return t.container.Warnings() }

// Fields iterates over all fields of the container.
func (t *Tag) Fields() iter.Seq2[string, string] { return t.container.Fields() }

// Identifier returns the stored identifier, reporting false if the field
// is absent.
func (t *Tag) Identifier() (string, bool) {
	return t.container.Get(IdentifierKey)
}

// SetIdentifier overwrites the identifier field and persists the tag.
// No validation is done here. If the write fails the previous value is
// restored.
func (t *Tag) SetIdentifier(value string) error {
	if err := t.refresh(); err != nil {
		return err
	}
	prev, had := t.container.Get(IdentifierKey)
	t.container.Set(IdentifierKey, value)
	if err := t.save(); err != nil {
		t.rollback(prev, had)
		return err
	}
	t.logger.Debug("identifier written", "path", t.path, "id", value)
	return nil
}

// DeleteIdentifier removes the identifier field. If the field is absent
// nothing is written.
func (t *Tag) DeleteIdentifier() error {
	if err := t.refresh(); err != nil {
		return err
	}
	prev, _ := t.container.Get(IdentifierKey)
	if !t.container.Delete(IdentifierKey) {
		return nil
	}
	if err := t.save(); err != nil {
		t.rollback(prev, true)
		return err
	}
	t.logger.Debug("identifier removed", "path", t.path)
	return nil
}

// save writes the container back into the same file, keeping its inode.
// Hardlinks to the file must keep seeing the new metadata, so the file is
// never replaced by rename.
func (t *Tag) save() error { //nolint:gocyclo // Sequential file steps
	encoded, err := t.container.Encode()
	if err != nil {
		return fmt.Errorf("encode %s tag: %w", t.format, err)
	}
	region := t.container.Region()

	var modTime fs.FileInfo
	if t.opts.PreserveModTime {
		if info, err := os.Stat(t.path); err == nil {
			modTime = info
		}
	}

	if t.opts.BackupSuffix != "" {
		if err := copyFile(t.path, t.path+t.opts.BackupSuffix); err != nil {
			return &types.IOError{Op: "backup", Path: t.path, Err: err}
		}
	}

	f, err := os.OpenFile(t.path, os.O_RDWR, 0)
	if err != nil {
		return &types.IOError{Op: "write", Path: t.path, Err: err}
	}
	defer f.Close() //nolint:errcheck // Closed explicitly on the success path

	if int64(len(encoded)) == region {
		if _, err := f.WriteAt(encoded, 0); err != nil {
			return &types.IOError{Op: "write", Path: t.path, Err: err}
		}
	} else if err := rewrite(f, encoded, region); err != nil {
		return &types.IOError{Op: "write", Path: t.path, Err: err}
	}

	if err := f.Sync(); err != nil {
		return &types.IOError{Op: "sync", Path: t.path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &types.IOError{Op: "close", Path: t.path, Err: err}
	}

	if modTime != nil {
		_ = os.Chtimes(t.path, modTime.ModTime(), modTime.ModTime()) //nolint:errcheck // Non-fatal: tag was written
	}

	return t.reload()
}

// rewrite replaces the first region bytes of f with header when the sizes
// differ. The new content is staged in a temp file next to f and copied
// back through f's own handle, then f is truncated to the new length.
func rewrite(f *os.File, header []byte, region int64) error {
	info, err := f.Stat()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.Name()), ".audiolink-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = tmp.Close()           //nolint:errcheck // Best effort cleanup
		_ = os.Remove(tmp.Name()) //nolint:errcheck // Best effort cleanup
	}()

	if _, err := tmp.Write(header); err != nil {
		return fmt.Errorf("stage header: %w", err)
	}
	if _, err := io.Copy(tmp, io.NewSectionReader(f, region, info.Size()-region)); err != nil {
		return fmt.Errorf("stage audio data: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}

	size, err := tmp.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := io.Copy(f, tmp); err != nil {
		return fmt.Errorf("copy staged content: %w", err)
	}
	return f.Truncate(size)
}

// rollback undoes an unsaved identifier change. The file is re-read when
// possible; otherwise the old value is put back in memory and the tag is
// marked stale.
func (t *Tag) rollback(prev string, had bool) {
	if err := t.reload(); err == nil {
		return
	}
	if had {
		t.container.Set(IdentifierKey, prev)
	} else {
		t.container.Delete(IdentifierKey)
	}
	t.stale = true
}

// refresh re-reads a stale container before it is modified again.
func (t *Tag) refresh() error {
	if !t.stale {
		return nil
	}
	return t.reload()
}

// reload re-decodes the container from disk so later writes start from
// the persisted layout.
func (t *Tag) reload() error {
	f, err := os.Open(t.path)
	if err != nil {
		return &types.IOError{Op: "open", Path: t.path, Err: err}
	}
	defer f.Close() //nolint:errcheck // Read-only handle

	info, err := f.Stat()
	if err != nil {
		return &types.IOError{Op: "stat", Path: t.path, Err: err}
	}
	container, _, err := decode(f, info.Size(), t.path)
	if err != nil {
		return fmt.Errorf("re-read after write: %w", err)
	}
	t.container = container
	t.stale = false
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck // Read-only handle

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close() //nolint:errcheck // Already failing
		return err
	}
	if err := out.Sync(); err != nil {
		_ = out.Close() //nolint:errcheck // Already failing
		return err
	}
	return out.Close()
}
