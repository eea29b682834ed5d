package audiolink

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			name:     "unsupported format",
			err:      &UnsupportedFormatError{Path: "notes.txt", Reason: "unrecognized file signature"},
			contains: []string{"notes.txt", "unsupported format", "unrecognized file signature"},
		},
		{
			name:     "corrupted file",
			err:      &CorruptedFileError{Path: "broken.flac", Offset: 42, Reason: "invalid VORBIS_COMMENT block"},
			contains: []string{"broken.flac", "offset 42", "invalid VORBIS_COMMENT block", "corrupted file"},
		},
		{
			name:     "io",
			err:      &IOError{Op: "open", Path: "song.flac", Err: fs.ErrPermission},
			contains: []string{"open", "song.flac", "permission denied"},
		},
		{
			name:     "invalid identifier",
			err:      &InvalidIdentifierError{Value: "abc-al"},
			contains: []string{"invalid identifier", `"abc-al"`},
		},
		{
			name:     "missing identifier",
			err:      &MissingIdentifierError{Path: "song.mp3"},
			contains: []string{"song.mp3", "no identifier"},
		},
		{
			name:     "link already exists",
			err:      &LinkAlreadyExistsError{Source: "song.flac", Link: "links/x-al.flac"},
			contains: []string{"links/x-al.flac", "already exists"},
		},
		{
			name:     "link creation failed",
			err:      &LinkCreationFailedError{Source: "song.flac", Link: "links/x-al.flac"},
			contains: []string{"links/x-al.flac", "does not resolve to", "song.flac"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, substr := range tt.contains {
				if !strings.Contains(msg, substr) {
					t.Errorf("error message %q should contain %q", msg, substr)
				}
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	ioErr := &IOError{Op: "write", Path: "song.flac", Err: fs.ErrPermission}
	if !errors.Is(ioErr, fs.ErrPermission) {
		t.Error("IOError should unwrap to its cause")
	}

	linkErr := &LinkCreationFailedError{Source: "a", Link: "b", Err: fs.ErrNotExist}
	if !errors.Is(linkErr, fs.ErrNotExist) {
		t.Error("LinkCreationFailedError should unwrap to its cause")
	}
}
