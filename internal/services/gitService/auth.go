package gitservice

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// authMethod builds the transport auth for this invocation only.
// HTTPS remotes use the token as a basic-auth password, SSH remotes use
// the configured private key file. With neither set, go-git falls back
// to its defaults (ssh-agent, default keys).
func (s *Synchronizer) authMethod() (transport.AuthMethod, error) {
	if strings.HasPrefix(s.remoteURL, "http://") || strings.HasPrefix(s.remoteURL, "https://") {
		if s.creds.Token == "" {
			return nil, nil
		}
		// GitHub accepts any username when a PAT is the password
		return &githttp.BasicAuth{Username: "git", Password: s.creds.Token}, nil
	}

	if s.creds.SSHKeyPath == "" {
		return nil, nil
	}

	keys, err := gitssh.NewPublicKeysFromFile("git", s.creds.SSHKeyPath, "")
	if err != nil {
		return nil, &SyncError{Op: "read ssh key", Err: fmt.Errorf("%w: %v", ErrSSHKeyMissing, err)}
	}
	return keys, nil
}

func (s *Synchronizer) proxyOptions() transport.ProxyOptions {
	if s.proxy == "" {
		return transport.ProxyOptions{}
	}
	return transport.ProxyOptions{URL: s.proxy}
}

// RemoteHost extracts the hostname from a remote URL in HTTPS, ssh:// or
// scp-like (git@host:user/repo.git) form. Used by preflight checks.
func RemoteHost(remote string) (string, error) {
	if strings.Contains(remote, "://") {
		u, err := url.Parse(remote)
		if err != nil {
			return "", fmt.Errorf("invalid remote URL %q: %w", remote, err)
		}
		if u.Hostname() == "" {
			return "", fmt.Errorf("invalid remote URL %q: no host", remote)
		}
		return u.Hostname(), nil
	}

	// scp-like: [user@]host:path
	if at := strings.Index(remote, "@"); at >= 0 {
		rest := remote[at+1:]
		if colon := strings.Index(rest, ":"); colon > 0 {
			return rest[:colon], nil
		}
	}

	return "", fmt.Errorf("invalid remote URL %q", remote)
}

// IsHTTPRemote reports whether the remote is HTTP(S) rather than SSH.
func IsHTTPRemote(remote string) bool {
	return strings.HasPrefix(remote, "http://") || strings.HasPrefix(remote, "https://")
}
