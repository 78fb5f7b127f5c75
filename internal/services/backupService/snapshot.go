// Package backupservice copies the chat-history database into the
// local backup directory.
package backupservice

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/owui-tools/chatbak/internal/config"
)

// getTimestamp returns a filename-safe timestamp
func getTimestamp() string {
	return time.Now().Format("2006-01-02_15-04-05")
}

// SnapshotName returns the destination filename for a snapshot of dbPath.
// The default is the database's own basename, overwritten on each run so
// that an unchanged database produces an unchanged backup tree. With
// timestamping enabled each run gets its own file.
func SnapshotName(dbPath string, timestamped bool) string {
	base := filepath.Base(dbPath)
	if !timestamped {
		return base
	}
	return fmt.Sprintf("%s_%s", getTimestamp(), base)
}

// Snapshot copies the database at cfg.DbPath into cfg.BackupPath and
// returns the path of the new snapshot. The source is only ever opened
// for reading. In timestamped mode old snapshots beyond cfg.KeepSnapshots
// are removed afterwards.
func Snapshot(cfg *config.BackupConfig) (string, error) {
	srcInfo, err := os.Stat(cfg.DbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &IOError{Op: "stat", Path: cfg.DbPath, Err: ErrSourceMissing}
		}
		return "", &IOError{Op: "stat", Path: cfg.DbPath, Err: err}
	}

	// 0750 = owner rwx, group rx, others none
	if err := os.MkdirAll(cfg.BackupPath, 0750); err != nil {
		return "", &IOError{Op: "create backup dir", Path: cfg.BackupPath, Err: err}
	}

	if free, err := diskFree(cfg.BackupPath); err == nil && free < uint64(srcInfo.Size()) {
		return "", &IOError{Op: "check space", Path: cfg.BackupPath, Err: ErrInsufficientSpace}
	}

	dest := filepath.Join(cfg.BackupPath, SnapshotName(cfg.DbPath, cfg.TimestampSnapshots))

	if cfg.SafeCopy {
		err = safeCopy(cfg.DbPath, dest)
	} else {
		err = byteCopy(cfg.DbPath, dest)
	}
	if err != nil {
		return "", err
	}

	if cfg.TimestampSnapshots && cfg.KeepSnapshots > 0 {
		if err := CleanupSnapshots(cfg.BackupPath, filepath.Base(cfg.DbPath), cfg.KeepSnapshots, dest); err != nil {
			return "", err
		}
	}

	return dest, nil
}

// byteCopy copies src to dest byte for byte.
func byteCopy(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return &IOError{Op: "open", Path: src, Err: err}
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0640)
	if err != nil {
		return &IOError{Op: "create", Path: dest, Err: err}
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return &IOError{Op: "copy", Path: dest, Err: err}
	}

	if err := out.Sync(); err != nil {
		out.Close()
		return &IOError{Op: "sync", Path: dest, Err: err}
	}

	return out.Close()
}

// safeCopy snapshots src through SQLite's VACUUM INTO, which takes a read
// lock and produces a consistent database even while OpenWebUI is writing.
func safeCopy(src, dest string) error {
	// VACUUM INTO refuses to overwrite
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return &IOError{Op: "remove", Path: dest, Err: err}
	}

	db, err := sql.Open("sqlite3", "file:"+src+"?mode=ro")
	if err != nil {
		return &IOError{Op: "open database", Path: src, Err: err}
	}
	defer db.Close()

	if _, err := db.Exec("VACUUM INTO ?", dest); err != nil {
		return &IOError{Op: "vacuum into", Path: dest, Err: err}
	}

	return nil
}
