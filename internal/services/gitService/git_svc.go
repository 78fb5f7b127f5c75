// Package gitservice binds the backup directory to a remote Git
// repository and pushes snapshots to it. All credentials and proxy
// settings are scoped to a single invocation; nothing is written to
// global Git configuration.
package gitservice

import (
	"errors"
	"fmt"
	"time"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// DefaultBranch is the branch snapshots are committed and pushed to.
const DefaultBranch = "main"

var mainRefSpec = gitconfig.RefSpec(
	fmt.Sprintf("refs/heads/%s:refs/heads/%s", DefaultBranch, DefaultBranch),
)

// Credentials selects how a push authenticates: a token for HTTPS
// remotes, or a private key file for SSH remotes.
type Credentials struct {
	Token      string
	SSHKeyPath string
}

// Synchronizer turns a directory into a working tree bound to one remote
// and syncs it. Create one per invocation with NewSynchronizer.
type Synchronizer struct {
	path      string
	remoteURL string
	creds     Credentials
	proxy     string

	repo *git.Repository
}

func NewSynchronizer(path, remoteURL string, creds Credentials, proxy string) *Synchronizer {
	return &Synchronizer{
		path:      path,
		remoteURL: remoteURL,
		creds:     creds,
		proxy:     proxy,
	}
}

// SyncMessage is the commit message for a sync at time t.
func SyncMessage(t time.Time) string {
	return "Sync automatically at " + t.Format("2006-01-02 15:04")
}

// EnsureRepo opens the working tree at the synchronizer's path,
// initializing it first if needed, and points origin at the configured
// remote URL. A repointed origin is overwritten on every call.
func (s *Synchronizer) EnsureRepo() error {
	repo, err := git.PlainOpen(s.path)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		repo, err = git.PlainInitWithOptions(s.path, &git.PlainInitOptions{
			InitOptions: git.InitOptions{
				DefaultBranch: plumbing.NewBranchReferenceName(DefaultBranch),
			},
		})
		if err != nil {
			return &SyncError{Op: "init", Err: err}
		}
	} else if err != nil {
		return &SyncError{Op: "open", Err: err}
	}

	if err := repo.DeleteRemote(git.DefaultRemoteName); err != nil && !errors.Is(err, git.ErrRemoteNotFound) {
		return &SyncError{Op: "remove remote", Err: err}
	}
	if _, err := repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: git.DefaultRemoteName,
		URLs: []string{s.remoteURL},
	}); err != nil {
		return &SyncError{Op: "add remote", Err: err}
	}

	s.repo = repo
	return nil
}

// CommitAll stages everything in the working tree and commits it.
// Returns false with no error when there is nothing to commit.
func (s *Synchronizer) CommitAll(message string) (bool, error) {
	if s.repo == nil {
		if err := s.EnsureRepo(); err != nil {
			return false, err
		}
	}

	wt, err := s.repo.Worktree()
	if err != nil {
		return false, &SyncError{Op: "worktree", Err: err}
	}

	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return false, &SyncError{Op: "add", Err: err}
	}

	status, err := wt.Status()
	if err != nil {
		return false, &SyncError{Op: "status", Err: err}
	}
	if status.IsClean() {
		return false, nil
	}

	_, err = wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "chatbak",
			Email: "chatbak@localhost",
			When:  time.Now(),
		},
	})
	if err != nil {
		return false, &SyncError{Op: "commit", Err: err}
	}

	return true, nil
}

// Push sends the default branch to origin using this invocation's
// credentials and proxy. Returns nil when the remote is already up to
// date. There are no retries; on failure the local commit stays behind
// for the operator.
func (s *Synchronizer) Push() error {
	if s.repo == nil {
		if err := s.EnsureRepo(); err != nil {
			return err
		}
	}

	auth, err := s.authMethod()
	if err != nil {
		return err
	}

	err = s.repo.Push(&git.PushOptions{
		RemoteName:   git.DefaultRemoteName,
		RefSpecs:     []gitconfig.RefSpec{mainRefSpec},
		Auth:         auth,
		ProxyOptions: s.proxyOptions(),
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	if err != nil {
		return &SyncError{Op: "push", Err: err}
	}

	return nil
}

// Sync runs the full ensure -> commit -> push sequence and reports
// whether a commit was created and whether it reached the remote.
func (s *Synchronizer) Sync(message string) (committed bool, pushed bool, err error) {
	if err := s.EnsureRepo(); err != nil {
		return false, false, err
	}

	committed, err = s.CommitAll(message)
	if err != nil {
		return false, false, err
	}

	if err := s.Push(); err != nil {
		return committed, false, err
	}

	return committed, true, nil
}
