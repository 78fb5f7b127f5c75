// Package tool is the host-facing surface of chatbak: one entry point
// that takes a resolved configuration and returns a single
// human-readable status. The CLI commands are thin adapters over it.
package tool

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/owui-tools/chatbak/internal/config"
	backupservice "github.com/owui-tools/chatbak/internal/services/backupService"
	exportservice "github.com/owui-tools/chatbak/internal/services/exportService"
	gitservice "github.com/owui-tools/chatbak/internal/services/gitService"
)

// Result is the outcome of one backup invocation.
type Result struct {
	RunID         string
	SnapshotPath  string
	ChatsExported int
	Committed     bool
	Pushed        bool
	Err           error
}

// Failed reports whether the run stopped on an error.
func (r Result) Failed() bool {
	return r.Err != nil
}

// String renders the one-line status the host shows the user.
// Every outcome, success or failure, comes through here; raw errors
// never escape to the caller.
func (r Result) String() string {
	if r.Err != nil {
		// A commit that never reached the remote needs operator attention.
		if r.Committed && !r.Pushed {
			return fmt.Sprintf("backup %s failed: changes were committed locally but the push failed: %v", r.RunID, r.Err)
		}
		return fmt.Sprintf("backup %s failed: %v", r.RunID, r.Err)
	}

	msg := fmt.Sprintf("backup %s succeeded: snapshot written to %s", r.RunID, r.SnapshotPath)
	if r.ChatsExported > 0 {
		msg += fmt.Sprintf(", %d chats exported", r.ChatsExported)
	}
	switch {
	case r.Pushed && r.Committed:
		msg += ", synced to remote"
	case r.Pushed && !r.Committed:
		msg += ", remote already up to date"
	}
	return msg
}

// Run performs one backup invocation: validate -> snapshot ->
// export (optional) -> sync (optional). Linear, no retries; the first
// failure ends the run.
func Run(cfg *config.BackupConfig) Result {
	res := Result{RunID: uuid.NewString()[:8]}

	// The whole config is validated before any filesystem work, so a
	// push misconfiguration is caught before a snapshot is written.
	if err := cfg.Validate(cfg.AutoPush); err != nil {
		res.Err = err
		return res
	}

	snapshot, err := backupservice.Snapshot(cfg)
	if err != nil {
		res.Err = err
		return res
	}
	res.SnapshotPath = snapshot

	if cfg.ExportMarkdown {
		exporter, err := exportservice.NewExporter(cfg.DbPath)
		if err != nil {
			res.Err = err
			return res
		}
		n, err := exporter.Export(cfg.BackupPath, cfg.UserID)
		exporter.Close()
		if err != nil {
			res.Err = err
			return res
		}
		res.ChatsExported = n
	}

	if !cfg.AutoPush {
		return res
	}

	sync := gitservice.NewSynchronizer(
		cfg.BackupPath,
		cfg.GithubRepo,
		gitservice.Credentials{Token: cfg.GithubToken, SSHKeyPath: cfg.GitSSHKeyPath},
		cfg.GitProxy,
	)

	committed, pushed, err := sync.Sync(gitservice.SyncMessage(time.Now()))
	res.Committed = committed
	res.Pushed = pushed
	if err != nil {
		res.Err = err
	}

	return res
}
