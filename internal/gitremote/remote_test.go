package gitremote

import (
	"context"
	"errors"
	"os/exec"
	"testing"
)

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"git@github.com:owner/repo.git", "owner/repo"},
		{"git@github.com:owner/repo", "owner/repo"},
		{"git@github.com:owner/repo.git/", "owner/repo"},
		{"git@github.com:owner/repo/", "owner/repo"},
		{"https://github.com/owner/repo.git", "owner/repo"},
		{"https://github.com/owner/repo", "owner/repo"},
		{"https://github.com/owner/repo.git/", "owner/repo"},
		{"https://github.com/owner/repo/", "owner/repo"},
		{"git://github.com/owner/repo.git", "owner/repo"},
		{"git://github.com/owner/repo", "owner/repo"},
		{"git://github.com/owner/repo.git/", "owner/repo"},
		{"git://github.com/owner/repo/", "owner/repo"},
		{"https://github.com/Company-Login/Project.Name/", "Company-Login/Project.Name"},
		{"https://github.com/Company-Login/Project.Name", "Company-Login/Project.Name"},
		{"https://github.com/owner/repo\n", "owner/repo"},
	}

	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			repo, err := ParseRemoteURL(tt.remote)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if repo.String() != tt.want {
				t.Errorf("ParseRemoteURL(%q) = %q, want %q", tt.remote, repo, tt.want)
			}
		})
	}
}

func TestParseRemoteURLInvalid(t *testing.T) {
	remotes := []string{
		"https://gitlab.com/owner/repo.git",
		"ssh://git@example.com/owner/repo.git",
		"ftp://github.com/owner/repo.git",
		"github.com/owner/repo",
		"owner/repo",
		"",
	}

	for _, remote := range remotes {
		t.Run(remote, func(t *testing.T) {
			_, err := ParseRemoteURL(remote)
			var nameErr *RepoNameError
			if !errors.As(err, &nameErr) {
				t.Fatalf("expected *RepoNameError, got %v", err)
			}
			if nameErr.Reason != "Unsupported Git remote URL format" {
				t.Errorf("unexpected reason %q", nameErr.Reason)
			}
		})
	}
}

func TestParseRepo(t *testing.T) {
	tests := []struct {
		in      string
		want    Repo
		wantErr bool
	}{
		{in: "owner/repo", want: Repo{Owner: "owner", Name: "repo"}},
		{in: "owner", wantErr: true},
		{in: "/repo", wantErr: true},
		{in: "owner/", wantErr: true},
		{in: "a/b/c", wantErr: true},
		{in: "https://github.com/owner/repo", want: Repo{Owner: "owner", Name: "repo"}},
		{in: "https://github.com/owner/repo/", want: Repo{Owner: "owner", Name: "repo"}},
		{in: "https://github.com/owner/repo.git", wantErr: true},
		{in: "https://gitlab.com/owner/repo", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRepo(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseRepo(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		err     error
		want    string
		wantErr bool
	}{
		{
			name:   "ssh remote",
			output: "git@github.com:owner/repo.git\n",
			want:   "owner/repo",
		},
		{
			name:    "unsupported remote",
			output:  "https://gitlab.com/owner/repo.git\n",
			wantErr: true,
		},
		{
			name:    "git not installed",
			err:     exec.ErrNotFound,
			wantErr: true,
		},
		{
			name:    "git command fails",
			err:     &exec.ExitError{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotArgs []string
			d := NewDetector(func(_ context.Context, _, name string, args ...string) ([]byte, error) {
				gotArgs = append([]string{name}, args...)
				return []byte(tt.output), tt.err
			})

			repo, err := d.Detect(context.Background(), ".")
			if len(gotArgs) != 4 || gotArgs[0] != "git" || gotArgs[3] != "remote.origin.url" {
				t.Errorf("unexpected command %v", gotArgs)
			}
			if tt.wantErr {
				var nameErr *RepoNameError
				if !errors.As(err, &nameErr) {
					t.Fatalf("expected *RepoNameError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if repo.String() != tt.want {
				t.Errorf("Detect() = %q, want %q", repo, tt.want)
			}
		})
	}
}

func TestDetectMissingBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := NewDetector(nil).Detect(context.Background(), t.TempDir())
	var nameErr *RepoNameError
	if !errors.As(err, &nameErr) {
		t.Fatalf("expected *RepoNameError, got %v", err)
	}
}

func TestIsValidGitHubRepoURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://github.com/user/repo", true},
		{"https://github.com/user/repo/", true},
		{"https://github.com/Company-Login/Project.Name/", true},
		{"http://github.com/user/repo", false},
		{"https://example.com/user/repo", false},
		{"https://github.com/user", false},
		{"https://github.com/user/repo/issues", false},
		{"https://github.com/", false},
		{"ftp://github.com/user/repo", false},
		{"https://github.com/user/repo.git", false},
		{"https://api.github.com/user/repo", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := IsValidGitHubRepoURL(tt.url); got != tt.want {
				t.Errorf("IsValidGitHubRepoURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}
