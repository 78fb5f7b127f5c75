package backupservice

import (
	"github.com/shirou/gopsutil/v4/disk"
)

// FreeSpace reports the free bytes on the filesystem holding path.
func FreeSpace(path string) (uint64, error) {
	return freeSpace(path)
}

// diskFree is swapped out in tests.
var diskFree = freeSpace

func freeSpace(path string) (uint64, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return 0, err
	}
	return usage.Free, nil
}
