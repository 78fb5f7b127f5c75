package backupservice

import (
	"os"
	"path/filepath"
	"sort"
)

// fileInfo holds the path and modTime of a snapshot file.
type fileInfo struct {
	path    string
	modTime int64
}

// CleanupSnapshots deletes the oldest timestamped snapshots of base in dir,
// keeping only the most recent `keep`. The current snapshot (excludePath)
// is never deleted.
func CleanupSnapshots(dir, base string, keep int, excludePath string) error {
	matches, err := filepath.Glob(filepath.Join(dir, "*_"+base))
	if err != nil {
		return err
	}

	var allFiles []fileInfo
	for _, p := range matches {
		fi, err := os.Stat(p)
		if err != nil {
			continue
		}
		allFiles = append(allFiles, fileInfo{path: p, modTime: fi.ModTime().UnixNano()})
	}

	if len(allFiles) <= keep {
		return nil
	}

	// Newest first
	sort.Slice(allFiles, func(i, j int) bool {
		return allFiles[i].modTime > allFiles[j].modTime
	})

	keepSet := make(map[string]struct{})
	kept := 0
	for _, fi := range allFiles {
		if fi.path == excludePath || kept < keep {
			keepSet[fi.path] = struct{}{}
			kept++
		}
	}

	for _, fi := range allFiles {
		if _, ok := keepSet[fi.path]; ok {
			continue
		}
		if err := os.Remove(fi.path); err != nil {
			return &IOError{Op: "remove old snapshot", Path: fi.path, Err: err}
		}
	}

	return nil
}
