//go:build linux

package importlog

import (
	"os"

	"golang.org/x/sys/unix"
)

// readahead hints the kernel that the file will be read sequentially once.
// Best effort; scanning works the same without it.
func readahead(f *os.File) {
	_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
}
