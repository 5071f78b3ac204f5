// Package gitremote derives the GitHub owner/repo of a local checkout.
package gitremote

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"regexp"
	"strings"

	"github.com/spiffcs/maintkit/internal/log"
)

// RepoNameError reports a remote that cannot be mapped to a GitHub repository.
type RepoNameError struct {
	Remote string
	Reason string
}

func (e *RepoNameError) Error() string {
	if e.Remote == "" {
		return fmt.Sprintf("cannot determine GitHub repository: %s", e.Reason)
	}
	return fmt.Sprintf("cannot determine GitHub repository from %q: %s", e.Remote, e.Reason)
}

// Repo is a GitHub repository coordinate.
type Repo struct {
	Owner string
	Name  string
}

func (r Repo) String() string {
	return r.Owner + "/" + r.Name
}

var remotePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^git@github\.com:([^/]+)/([^/]+?)(?:\.git)?/?$`),
	regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+?)(?:\.git)?/?$`),
	regexp.MustCompile(`^git://github\.com/([^/]+)/([^/]+?)(?:\.git)?/?$`),
}

// ParseRemoteURL maps an SSH, HTTPS or git:// GitHub remote to a Repo.
// A trailing ".git" and a trailing slash are accepted in any combination.
func ParseRemoteURL(remote string) (Repo, error) {
	remote = strings.TrimSpace(remote)
	for _, re := range remotePatterns {
		if m := re.FindStringSubmatch(remote); m != nil {
			return Repo{Owner: m[1], Name: m[2]}, nil
		}
	}
	return Repo{}, &RepoNameError{Remote: remote, Reason: "Unsupported Git remote URL format"}
}

// ParseRepo parses an explicit "owner/name" argument or a
// https://github.com/owner/name repository URL.
func ParseRepo(s string) (Repo, error) {
	if IsValidGitHubRepoURL(s) {
		u, _ := url.Parse(s)
		owner, name, _ := strings.Cut(strings.Trim(u.Path, "/"), "/")
		return Repo{Owner: owner, Name: name}, nil
	}
	owner, name, ok := strings.Cut(s, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repo{}, &RepoNameError{Remote: s, Reason: "expected owner/name"}
	}
	return Repo{Owner: owner, Name: name}, nil
}

// CommandRunner runs a command in dir and returns its standard output.
type CommandRunner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.Output()
}

// Detector reads the origin remote of a working tree.
type Detector struct {
	run CommandRunner
}

// NewDetector returns a Detector that shells out to git. A nil runner uses os/exec.
func NewDetector(run CommandRunner) *Detector {
	if run == nil {
		run = execRunner
	}
	return &Detector{run: run}
}

// Detect returns the repository for the origin remote of the checkout at dir.
func (d *Detector) Detect(ctx context.Context, dir string) (Repo, error) {
	out, err := d.run(ctx, dir, "git", "config", "--get", "remote.origin.url")
	if err != nil {
		log.Debug("git remote lookup failed", "dir", dir, "error", err)
		return Repo{}, &RepoNameError{Reason: fmt.Sprintf("could not read remote.origin.url in %s: %v", dir, err)}
	}
	repo, err := ParseRemoteURL(string(out))
	if err != nil {
		return Repo{}, err
	}
	log.Debug("detected repository from git remote", "repo", repo.String())
	return repo, nil
}

// IsValidGitHubRepoURL reports whether u is exactly https://github.com/<owner>/<repo>
// with an optional trailing slash.
func IsValidGitHubRepoURL(u string) bool {
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	if parsed.Scheme != "https" || parsed.Host != "github.com" {
		return false
	}
	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}
	return !strings.HasSuffix(parts[1], ".git")
}
