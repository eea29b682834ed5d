//go:build unix

package link

import "golang.org/x/sys/unix"

// identify returns the (device, inode) pair path resolves to. Symlinks
// are followed, matching how consumers open the link.
func identify(path string) (fileID, error) {
	var stat unix.Stat_t
	if err := unix.Stat(path, &stat); err != nil {
		return fileID{}, err
	}
	return fileID{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}, nil
}
