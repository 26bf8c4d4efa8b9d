//go:build !linux

package importlog

import "os"

// readahead is a no-op on platforms without fadvise.
func readahead(_ *os.File) {}
