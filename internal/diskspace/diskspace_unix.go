//go:build !windows

package diskspace

import "golang.org/x/sys/unix"

func availableBytes(dir string) (int64, bool) {
	var stat unix.Statfs_t
	if err := unix.Statfs(dir, &stat); err != nil {
		// network and virtual filesystems
		return 0, false
	}
	return int64(stat.Bavail) * int64(stat.Bsize), true
}
