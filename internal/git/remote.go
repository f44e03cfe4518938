package git

import (
	"fmt"
	"net/url"
	"strings"
)

// RemoteInfo identifies a hosted repository behind a remote URL
type RemoteInfo struct {
	Hostname string
	Owner    string
	Repo     string
}

// ParseRemoteURL extracts host, owner and repository name from an HTTPS or SSH remote URL.
//
//	https://github.com/owner/repo.git
//	ssh://git@github.com/owner/repo.git
//	git@github.com:owner/repo.git
func ParseRemoteURL(remoteURL string) (*RemoteInfo, error) {
	raw := strings.TrimSuffix(strings.TrimSpace(remoteURL), "/")
	raw = strings.TrimSuffix(raw, ".git")

	var host, path string
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid remote URL %q: %w", remoteURL, err)
		}
		host = u.Hostname()
		path = strings.TrimPrefix(u.Path, "/")
	} else {
		// scp-like syntax: [user@]host:owner/repo
		at := strings.LastIndex(raw, "@")
		colon := strings.Index(raw, ":")
		if colon < 0 || colon < at {
			return nil, fmt.Errorf("invalid remote URL %q", remoteURL)
		}
		host = raw[at+1 : colon]
		path = raw[colon+1:]
	}

	parts := strings.Split(path, "/")
	if host == "" || len(parts) < 2 || parts[len(parts)-2] == "" || parts[len(parts)-1] == "" {
		return nil, fmt.Errorf("invalid remote URL %q", remoteURL)
	}

	return &RemoteInfo{
		Hostname: host,
		Owner:    parts[len(parts)-2],
		Repo:     parts[len(parts)-1],
	}, nil
}
