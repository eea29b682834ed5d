//go:build !unix

package link

import "os"

// identify is unsupported off unix; IsValid falls back to os.SameFile.
func identify(path string) (fileID, error) {
	if _, err := os.Stat(path); err != nil {
		return fileID{}, err
	}
	return fileID{}, errNoInodes
}
