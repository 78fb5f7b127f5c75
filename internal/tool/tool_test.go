package tool

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owui-tools/chatbak/internal/config"
	backupservice "github.com/owui-tools/chatbak/internal/services/backupService"
	gitservice "github.com/owui-tools/chatbak/internal/services/gitService"
)

func fixtureDB(t *testing.T, content []byte) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "webui.db")
	require.NoError(t, os.WriteFile(dbPath, content, 0o640))
	return dbPath
}

func bareRemote(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "remote.git")
	_, err := git.PlainInit(dir, true)
	require.NoError(t, err)
	return dir
}

func TestRunWithoutPush(t *testing.T) {
	dbPath := fixtureDB(t, []byte("db-bytes"))
	backupPath := filepath.Join(t.TempDir(), "backup")

	cfg := &config.BackupConfig{
		DbPath:     dbPath,
		BackupPath: backupPath,
		AutoPush:   false,
	}

	res := Run(cfg)
	require.False(t, res.Failed(), "run failed: %v", res.Err)

	got, err := os.ReadFile(res.SnapshotPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("db-bytes"), got)

	// auto_push=false must mean zero git activity
	assert.NoDirExists(t, filepath.Join(backupPath, ".git"))
	assert.False(t, res.Committed)
	assert.False(t, res.Pushed)

	assert.Contains(t, res.String(), "succeeded")
	assert.Contains(t, res.String(), res.SnapshotPath)
}

func TestRunMissingDatabase(t *testing.T) {
	backupPath := filepath.Join(t.TempDir(), "backup")
	cfg := &config.BackupConfig{
		DbPath:     filepath.Join(t.TempDir(), "nope.db"),
		BackupPath: backupPath,
		AutoPush:   false,
	}

	res := Run(cfg)
	require.True(t, res.Failed())

	var ioErr *backupservice.IOError
	assert.True(t, errors.As(res.Err, &ioErr))
	assert.Contains(t, res.String(), "failed")
	assert.NoDirExists(t, backupPath)
}

func TestRunValidatesBeforeCopying(t *testing.T) {
	dbPath := fixtureDB(t, []byte("db-bytes"))
	backupPath := filepath.Join(t.TempDir(), "backup")

	// auto_push on but no remote configured: must fail before any IO
	cfg := &config.BackupConfig{
		DbPath:     dbPath,
		BackupPath: backupPath,
		AutoPush:   true,
	}

	res := Run(cfg)
	require.True(t, res.Failed())

	var cfgErr *config.ConfigError
	require.True(t, errors.As(res.Err, &cfgErr))
	assert.Equal(t, "github_repo", cfgErr.Field)

	assert.NoDirExists(t, backupPath, "no snapshot may be written when validation fails")
}

func TestRunFullSync(t *testing.T) {
	dbPath := fixtureDB(t, []byte("db-bytes"))
	backupPath := filepath.Join(t.TempDir(), "backup")
	remote := bareRemote(t)

	cfg := &config.BackupConfig{
		DbPath:     dbPath,
		BackupPath: backupPath,
		GithubRepo: remote,
		AutoPush:   true,
	}

	res := Run(cfg)
	require.False(t, res.Failed(), "run failed: %v", res.Err)
	assert.True(t, res.Committed)
	assert.True(t, res.Pushed)
	assert.Contains(t, res.String(), "synced to remote")

	remoteRepo, err := git.PlainOpen(remote)
	require.NoError(t, err)
	ref, err := remoteRepo.Reference(plumbing.NewBranchReferenceName(gitservice.DefaultBranch), true)
	require.NoError(t, err)

	commit, err := remoteRepo.CommitObject(ref.Hash())
	require.NoError(t, err)
	assert.Contains(t, commit.Message, "Sync automatically at ")

	t.Run("second run leaves the remote unchanged", func(t *testing.T) {
		res2 := Run(cfg)
		require.False(t, res2.Failed(), "run failed: %v", res2.Err)
		assert.False(t, res2.Committed, "identical snapshot must not create a commit")
		assert.True(t, res2.Pushed)
		assert.Contains(t, res2.String(), "remote already up to date")

		after, err := remoteRepo.Reference(plumbing.NewBranchReferenceName(gitservice.DefaultBranch), true)
		require.NoError(t, err)
		assert.Equal(t, ref.Hash(), after.Hash())
	})

	t.Run("changed database produces a new commit", func(t *testing.T) {
		require.NoError(t, os.WriteFile(dbPath, []byte("new-db-bytes"), 0o640))

		res3 := Run(cfg)
		require.False(t, res3.Failed(), "run failed: %v", res3.Err)
		assert.True(t, res3.Committed)
		assert.True(t, res3.Pushed)

		after, err := remoteRepo.Reference(plumbing.NewBranchReferenceName(gitservice.DefaultBranch), true)
		require.NoError(t, err)
		assert.NotEqual(t, ref.Hash(), after.Hash())
	})
}

func TestRunPushFailureAfterCommit(t *testing.T) {
	dbPath := fixtureDB(t, []byte("db-bytes"))
	backupPath := filepath.Join(t.TempDir(), "backup")

	cfg := &config.BackupConfig{
		DbPath:     dbPath,
		BackupPath: backupPath,
		GithubRepo: filepath.Join(t.TempDir(), "missing.git"),
		AutoPush:   true,
	}

	res := Run(cfg)
	require.True(t, res.Failed())
	assert.True(t, res.Committed)
	assert.False(t, res.Pushed)
	assert.Contains(t, res.String(), "committed locally but the push failed")

	// The snapshot itself still exists
	assert.FileExists(t, filepath.Join(backupPath, "webui.db"))
}

func TestResultRunIDInStatus(t *testing.T) {
	dbPath := fixtureDB(t, []byte("db-bytes"))
	cfg := &config.BackupConfig{
		DbPath:     dbPath,
		BackupPath: filepath.Join(t.TempDir(), "backup"),
		AutoPush:   false,
	}

	res := Run(cfg)
	require.False(t, res.Failed())
	assert.Len(t, res.RunID, 8)
	assert.Contains(t, res.String(), res.RunID)
}
