package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spiffcs/maintkit/internal/suggest"
)

func init() {
	color.NoColor = true
}

func TestNew(t *testing.T) {
	cmd := New()
	if cmd == nil {
		t.Fatal("New() returned nil")
	}
	if cmd.Use != "maintkit" {
		t.Errorf("expected Use to be 'maintkit', got %q", cmd.Use)
	}

	want := []string{"cache", "config", "contributors", "ratelimit", "reviews", "suggest", "version"}
	var got []string
	for _, c := range cmd.Commands() {
		got = append(got, c.Name())
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("subcommands = %v, want %v", got, want)
	}
}

func TestNewOptions(t *testing.T) {
	opts := NewOptions(
		WithRepo("owner/repo"),
		WithToken("t"),
		WithSince("30d"),
		WithFormat("text"),
		WithVerbosity(2),
		WithWorkers(4),
		WithNoCache(true),
	)
	if opts.Repo != "owner/repo" || opts.Token != "t" || opts.Since != "30d" || opts.Format != "text" ||
		opts.Verbosity != 2 || opts.Workers != 4 || !opts.NoCache {
		t.Errorf("unexpected options %+v", opts)
	}
}

func TestVersion(t *testing.T) {
	SetVersionInfo("1.0.0", "abc123", "2024-01-01")

	var out bytes.Buffer
	cmd := New()
	cmd.SetArgs([]string{"version"})
	cmd.SetOut(&out)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.HasPrefix(out.String(), "maintkit 1.0.0\n") {
		t.Errorf("unexpected version output %q", out.String())
	}
}

// isolate points config and cache lookups at a temporary home.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("GITHUB_TOKEN", "test-token")
	return dir
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := New()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func respondJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newGitHubServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/issues"):
			respondJSON(w, []map[string]interface{}{
				{"number": 1, "user": map[string]string{"login": "user1"}, "updated_at": "2023-01-01T00:00:00Z"},
			})
		case strings.HasSuffix(r.URL.Path, "/issues/1/comments"):
			respondJSON(w, []map[string]interface{}{
				{"user": map[string]string{"login": "user2"}, "updated_at": "2023-01-02T00:00:00Z"},
			})
		case strings.HasSuffix(r.URL.Path, "/pulls"):
			respondJSON(w, []interface{}{})
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Query string `json:"query"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if strings.Contains(body.Query, "discussions") {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		respondJSON(w, map[string]interface{}{
			"data": map[string]interface{}{
				"repository": map[string]interface{}{
					"pullRequests": map[string]interface{}{
						"pageInfo": map[string]interface{}{"hasNextPage": false, "endCursor": ""},
						"nodes": []map[string]interface{}{
							{"number": 2, "title": "Add feature", "reviews": map[string]interface{}{
								"nodes": []map[string]interface{}{
									{"state": "APPROVED", "submittedAt": "2023-06-01T00:00:00Z", "author": map[string]string{"login": "alice"}},
								},
							}},
							{"number": 1, "title": "Fix bug", "reviews": map[string]interface{}{"nodes": []interface{}{}}},
						},
					},
				},
			},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	t.Setenv("MAINTKIT_API_URL", server.URL+"/")
	t.Setenv("MAINTKIT_GRAPHQL_URL", server.URL+"/graphql")
	return server
}

func TestContributorsCommand(t *testing.T) {
	dir := isolate(t)
	newGitHubServer(t)
	file := filepath.Join(dir, "contributors.yaml")

	out, errOut, err := run(t, "contributors", "--repo", "owner/repo", "--file", file)
	if err != nil {
		t.Fatalf("contributors failed: %v", err)
	}

	wantYAML := `user1:
  - link_type: issues
    type: Bug reports
user2:
  - link_type: search-comments
    type: Bug reports
`
	want := "user1  # author for issue #1 (updated 2023-01-01)\n" +
		"user2  # commenter for issue #1 (updated 2023-01-02)\n" +
		"\n---\n\n\n" + wantYAML
	if out != want {
		t.Errorf("stdout =\n%q\nwant\n%q", out, want)
	}
	if !strings.Contains(errOut, "Discussions are not enabled") {
		t.Errorf("expected discussions notice on stderr, got %q", errOut)
	}

	saved, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("contributors file not written: %v", err)
	}
	if string(saved) != wantYAML {
		t.Errorf("saved file =\n%s\nwant\n%s", saved, wantYAML)
	}
}

func TestReviewsCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "other owner",
			args: []string{"reviews", "--repo", "owner/repo", "--format", "text"},
			want: "Most recent approved reviews for owner/repo:\n" +
				"PR #2: 'Add feature'\n  Approved by: alice\n  Timestamp: 2023-06-01 00:00:00+00:00\n\n",
		},
		{
			name: "repository url",
			args: []string{"reviews", "--repo", "https://github.com/owner/repo", "--format", "text"},
			want: "Most recent approved reviews for owner/repo:\n" +
				"PR #2: 'Add feature'\n  Approved by: alice\n  Timestamp: 2023-06-01 00:00:00+00:00\n\n",
		},
		{
			name: "owner approvals excluded",
			args: []string{"reviews", "--repo", "alice/repo", "--format", "text"},
			want: "Most recent approved reviews for alice/repo:\n",
		},
		{
			name: "owner approvals included",
			args: []string{"reviews", "--repo", "alice/repo", "--format", "text", "--include-owner"},
			want: "Most recent approved reviews for alice/repo:\n" +
				"PR #2: 'Add feature'\n  Approved by: alice\n  Timestamp: 2023-06-01 00:00:00+00:00\n\n",
		},
		{
			name: "since after approval",
			args: []string{"reviews", "--repo", "owner/repo", "--format", "yaml", "--since", "2023-07-01"},
			want: "[]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			newGitHubServer(t)

			out, _, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("reviews failed: %v", err)
			}
			if out != tt.want {
				t.Errorf("stdout =\n%q\nwant\n%q", out, tt.want)
			}
		})
	}
}

func TestReviewsCommandBadFormat(t *testing.T) {
	isolate(t)
	_, _, err := run(t, "reviews", "--repo", "owner/repo", "--format", "table")
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestSuggestCommand(t *testing.T) {
	dir := isolate(t)

	index := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/pypi/nonexistent/json" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"releases": {"1.0.0": [], "2.0.0": []}}`)
	}))
	defer index.Close()

	manifest := filepath.Join(dir, "pyproject.toml")
	content := "[project]\nname = \"demo\"\ndependencies = [\n    \"airium>=0.2.6\",\n    \"ruamel.yaml>=0.15.78,<0.17\",\n    \"nonexistent\",\n]\n"
	if err := os.WriteFile(manifest, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		packages    []string
		want        string
		wantErr     error
		wantSummary bool
	}{
		{name: "first unbounded", want: "::notice title=Suggested constraint::airium<=2.0.0\n", wantSummary: true},
		{name: "bounded", packages: []string{"ruamel.yaml"}, wantErr: suggest.ErrNoCandidate},
		{name: "missing from index", packages: []string{"nonexistent"}, wantErr: suggest.ErrNoReleases},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := filepath.Join(t.TempDir(), "summary.md")
			t.Setenv(suggest.SummaryEnv, summary)

			args := append([]string{"suggest", "--manifest", manifest, "--index-url", index.URL, "--no-cache"}, tt.packages...)
			out, _, err := run(t, args...)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				if out != "" {
					t.Errorf("expected no output, got %q", out)
				}
				if _, statErr := os.Stat(summary); statErr == nil {
					t.Error("summary should not be written on failure")
				}
				return
			}

			if err != nil {
				t.Fatalf("suggest failed: %v", err)
			}
			if out != tt.want {
				t.Errorf("stdout = %q, want %q", out, tt.want)
			}
			if _, statErr := os.Stat(summary); (statErr == nil) != tt.wantSummary {
				t.Errorf("summary written = %v, want %v", statErr == nil, tt.wantSummary)
			}
		})
	}
}

func TestSuggestCommandUsesCache(t *testing.T) {
	dir := isolate(t)

	hits := 0
	index := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"releases": {"3.1.0": []}}`)
	}))
	defer index.Close()

	manifest := filepath.Join(dir, "pyproject.toml")
	if err := os.WriteFile(manifest, []byte("[project]\ndependencies = [\"gql\"]\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(suggest.SummaryEnv, "")

	for i := 0; i < 2; i++ {
		out, _, err := run(t, "suggest", "--manifest", manifest, "--index-url", index.URL)
		if err != nil {
			t.Fatalf("suggest failed: %v", err)
		}
		if out != "::notice title=Suggested constraint::gql<=3.1.0\n" {
			t.Errorf("unexpected output %q", out)
		}
	}
	if hits != 1 {
		t.Errorf("expected one index request, got %d", hits)
	}

	out, _, err := run(t, "cache", "stats")
	if err != nil {
		t.Fatalf("cache stats failed: %v", err)
	}
	if !strings.Contains(out, "Total: 1") {
		t.Errorf("unexpected stats %q", out)
	}

	if _, _, err := run(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear failed: %v", err)
	}
}

func TestConfigCommands(t *testing.T) {
	dir := isolate(t)

	if _, _, err := run(t, "config", "init", "--global"); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config", "maintkit", "config.yaml")); err != nil {
		t.Fatalf("global config not created: %v", err)
	}
	if _, _, err := run(t, "config", "init", "--global"); err == nil {
		t.Error("second init should fail")
	}

	if _, _, err := run(t, "config", "set", "review_format", "text"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	out, _, err := run(t, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, "review_format: text") {
		t.Errorf("set value not shown: %q", out)
	}

	out, _, err = run(t, "config", "defaults", "-o", "json")
	if err != nil {
		t.Fatalf("config defaults failed: %v", err)
	}
	if !strings.Contains(out, `"review_format": "yaml"`) {
		t.Errorf("unexpected defaults %q", out)
	}

	if _, _, err := run(t, "config", "set", "token", "abc"); err == nil {
		t.Error("storing a token should be refused")
	}
}
