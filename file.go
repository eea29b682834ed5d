package audiolink

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/audiolink/internal/ident"
	"github.com/simonhull/audiolink/internal/link"
	"github.com/simonhull/audiolink/internal/tag"
)

// File binds a path to the identifier stored in that file's tag.
//
// The identifier is read once by Open and cached; every change made
// through File is written to disk before the method returns. File does
// not notice if the file is moved or retagged by someone else. Open a
// new File to pick up external changes.
//
// File holds no open handle, so there is nothing to close.
type File struct {
	tag    *tag.Tag
	links  *link.Manager
	logger *slog.Logger
	id     string
}

// Open reads the tag of the file at path.
//
// Supported formats: FLAC, MP3 (ID3v2.3 and ID3v2.4)
//
// A file without a tag container opens fine: it simply has no
// identifier, and the first write creates the container.
//
// Example:
//
//	file, err := audiolink.Open("song.flac")
//	if err != nil {
//		return err
//	}
//	if !file.HasID() {
//		id, err := file.SetNewID()
//		...
//	}
func Open(path string, opts ...Option) (*File, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	t, err := tag.Read(path, options.tagOptions())
	if err != nil {
		return nil, err
	}

	id, _ := t.Identifier()
	return &File{
		tag:    t,
		links:  link.NewManager(options.logger),
		logger: options.logger,
		id:     id,
	}, nil
}

// OpenContext checks ctx before opening. Opening itself is a short local
// read and is not interruptible.
func OpenContext(ctx context.Context, path string, opts ...Option) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Open(path, opts...)
}

// OpenMany opens multiple audio files concurrently.
//
// Files are read in parallel using up to runtime.NumCPU() goroutines.
// Results are returned in the same order as the input paths. If any file
// fails to open, the first error is returned and no files are.
//
// Example:
//
//	files, err := audiolink.OpenMany(ctx, paths...)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, f := range files {
//		fmt.Printf("%s: %s\n", f.Path(), f.ID())
//	}
func OpenMany(ctx context.Context, paths ...string) ([]*File, error) {
	return OpenManyWith(ctx, paths, nil)
}

// OpenManyWith is OpenMany with options applied to every file.
func OpenManyWith(ctx context.Context, paths []string, opts []Option) ([]*File, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*File, len(paths))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			file, err := Open(path, opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = file
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Path returns the path the file was opened from.
func (f *File) Path() string { return f.tag.Path() }

// Format returns the detected container format.
func (f *File) Format() Format { return f.tag.Format() }

// HasTag reports whether the file carries a tag container. A file can
// have a container but no identifier; ID is empty in both cases.
func (f *File) HasTag() bool { return f.tag.Present() }

// Warnings returns non-fatal issues found while decoding the tag.
func (f *File) Warnings() []Warning { return f.tag.Warnings() }

// Fields iterates over every field of the tag container, the identifier
// included.
func (f *File) Fields() iter.Seq2[string, string] { return f.tag.Fields() }

// ID returns the cached identifier, or "" if the file has none.
func (f *File) ID() string { return f.id }

// HasID reports whether the file carries an identifier.
func (f *File) HasID() bool { return f.id != "" }

// LinkName returns the identifier followed by the file's own extension,
// e.g. "<id>.flac".
func (f *File) LinkName() (string, error) {
	if f.id == "" {
		return "", &MissingIdentifierError{Path: f.Path()}
	}
	return f.id + filepath.Ext(f.Path()), nil
}

// LinkPath returns where the link for this file lives inside dir.
func (f *File) LinkPath(dir string) (string, error) {
	name, err := f.LinkName()
	if err != nil {
		return "", err
	}
	return link.Path(dir, name), nil
}

// SetID writes value as the identifier, replacing any existing one.
// Values that do not pass IsValidID are rejected with
// *InvalidIdentifierError before anything is written.
func (f *File) SetID(value string) error {
	if !ident.IsValid(value) {
		return &InvalidIdentifierError{Value: value}
	}
	return f.write(value)
}

// SetNewID generates a fresh identifier and writes it, replacing any
// existing one.
func (f *File) SetNewID() (string, error) {
	id := ident.New()
	if err := f.write(id); err != nil {
		return "", err
	}
	return id, nil
}

// SetIDFromLinkName restores the identifier encoded in a link file name
// such as "<id>.flac", as found in a link directory.
func (f *File) SetIDFromLinkName(name string) error {
	id, ok := ident.FromLinkName(filepath.Base(name))
	if !ok {
		return &InvalidIdentifierError{Value: name}
	}
	return f.write(id)
}

func (f *File) write(id string) error {
	if err := f.tag.SetIdentifier(id); err != nil {
		return err
	}
	previous := f.id
	f.id = id
	f.logger.Debug("identifier set", "path", f.Path(), "id", id, "previous", previous)
	return nil
}

// DeleteID removes the identifier from the tag. Deleting an absent
// identifier is a no-op.
func (f *File) DeleteID() error {
	if err := f.tag.DeleteIdentifier(); err != nil {
		return err
	}
	f.id = ""
	return nil
}

// CreateLink hardlinks the file into dir under LinkName and returns the
// link path.
//
// It fails with *MissingIdentifierError if the file has no identifier
// and with *LinkAlreadyExistsError if the name is taken, even by a valid
// link to this same file. Delete the old link first to recreate it.
func (f *File) CreateLink(dir string) (string, error) {
	name, err := f.LinkName()
	if err != nil {
		return "", err
	}
	return f.links.Create(f.Path(), dir, name)
}

// DeleteLink removes the file's link from dir. A missing link is not an
// error.
func (f *File) DeleteLink(dir string) error {
	name, err := f.LinkName()
	if err != nil {
		return err
	}
	return f.links.Delete(dir, name)
}

// LinkStatus reports whether dir holds a valid link for this file.
func (f *File) LinkStatus(dir string) (LinkState, error) {
	name, err := f.LinkName()
	if err != nil {
		return LinkAbsent, err
	}
	return link.Status(f.Path(), dir, name), nil
}
