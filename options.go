package audiolink

import (
	"log/slog"

	"github.com/simonhull/audiolink/internal/tag"
)

// Option configures how a File is opened and how its tag is written.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	file, err := audiolink.Open("song.flac",
//	    audiolink.WithBackup(".bak"),
//	    audiolink.WithPreserveModTime(),
//	)
type Option func(*options)

// options holds configuration for a File.
type options struct {
	logger          *slog.Logger
	backupSuffix    string // Suffix for backup file (e.g., ".bak")
	strictParsing   bool   // Fail on any warning
	preserveModTime bool   // Keep original modification time
}

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		logger: slog.New(slog.DiscardHandler),
	}
}

func (o *options) tagOptions() tag.Options {
	return tag.Options{
		Logger:          o.logger,
		BackupSuffix:    o.backupSuffix,
		PreserveModTime: o.preserveModTime,
		Strict:          o.strictParsing,
	}
}

// WithLogger routes debug events for tag writes and link changes to
// logger. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStrictParsing treats any decoding warning as a fatal error.
//
// By default, Open tolerates damaged but skippable tag entries (a
// malformed comment, an unreadable frame) and reports them through
// File.Warnings.
//
// Example:
//
//	file, err := audiolink.Open("song.flac", audiolink.WithStrictParsing())
//	// err != nil if ANY issue is encountered
func WithStrictParsing() Option {
	return func(o *options) {
		o.strictParsing = true
	}
}

// WithBackup copies the original file before each tag write.
//
// The backup file will have the specified suffix appended to the original
// filename. For example, WithBackup(".bak") will create "song.mp3.bak"
// before modifying "song.mp3". An existing backup is overwritten.
//
// The backup is a copy, never a rename: the original inode keeps serving
// its hardlinks.
func WithBackup(suffix string) Option {
	return func(o *options) {
		o.backupSuffix = suffix
	}
}

// WithPreserveModTime keeps the original file modification time across
// tag writes.
func WithPreserveModTime() Option {
	return func(o *options) {
		o.preserveModTime = true
	}
}
