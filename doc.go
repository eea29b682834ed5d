// Package audiolink gives audio files a stable, location-independent
// identity.
//
// Each file gets an identifier embedded in its own metadata tag, and a
// link directory mirrors the library with one hardlink per tagged file,
// named after the identifier. Other tools can refer to "<id>.flac" in the
// link directory and keep reaching the same file after it is moved or
// renamed, because the link shares the file's inode.
//
// # Quick Start
//
// Tagging a file and linking it:
//
//	file, err := audiolink.Open("song.flac")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if !file.HasID() {
//		if _, err := file.SetNewID(); err != nil {
//			log.Fatal(err)
//		}
//	}
//	linkPath, err := file.CreateLink("/srv/music/.links")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(linkPath) // /srv/music/.links/3f2a...c91e-al.flac
//
// # Identifiers
//
// An identifier is 32 lowercase hex digits from a random 128-bit value
// followed by "-al". The format is exact and case-sensitive:
//
//	audiolink.IsValidID("0123456789abcdef0123456789abcdef-al") // true
//	audiolink.IsValidID("0123456789ABCDEF0123456789ABCDEF-al") // false
//	audiolink.ValidateID("")                                   // IDAbsent
//
// # Supported Formats
//
//   - FLAC: Vorbis comment AUDIOLINK_ID
//   - MP3: ID3v2.3 and ID3v2.4 TXXX frame with description AUDIOLINK_ID
//
// # Writes
//
// Tag writes keep the file's inode, so existing hardlinks see the new
// tag. When the re-encoded tag fits the space of the old one (padding
// included) only that region is rewritten. Otherwise the whole file is
// staged in a temporary file and copied back over the original.
//
// # Links
//
// A link is valid when it shares device and inode with its source. Links
// are never cached: CreateLink, DeleteLink and LinkStatus stat the
// filesystem each time. CreateLink refuses to replace an existing entry,
// even a valid one.
//
// # Error Handling
//
// Errors are typed and can be inspected with errors.As:
//
//	var missing *audiolink.MissingIdentifierError
//	if errors.As(err, &missing) {
//		...
//	}
//
// Predicates (IsValidID, LinkIsValid) never return errors. DeleteID and
// DeleteLink succeed when there is nothing to delete.
//
// # Concurrency
//
// Operations are synchronous and hold no file handles between calls.
// Nothing guards against two processes changing the same file or link
// directory at once.
package audiolink
