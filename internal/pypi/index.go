// Package pypi queries Python package indexes for published releases.
package pypi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/spiffcs/maintkit/internal/constants"
	"github.com/spiffcs/maintkit/internal/log"
)

const userAgent = "maintkit"

// ErrNotFound is returned when the index has no project by that name.
var ErrNotFound = errors.New("package not found in index")

// Index lists the published versions of a project.
//
//go:generate mockgen -destination mock/index.go -package mock github.com/spiffcs/maintkit/internal/pypi Index
type Index interface {
	Releases(ctx context.Context, name string) ([]string, error)
}

// NewIndex returns a simple-index client when indexURL points at a PEP 503
// "/simple" root and a JSON API client otherwise.
func NewIndex(indexURL string, httpClient *http.Client) Index {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.RequestTimeout}
	}
	if indexURL == "" {
		indexURL = constants.PyPIURL
	}
	trimmed := strings.TrimRight(indexURL, "/")
	if strings.HasSuffix(trimmed, "/simple") {
		return &SimpleClient{baseURL: trimmed, http: httpClient}
	}
	return &JSONClient{baseURL: trimmed, http: httpClient}
}

func get(ctx context.Context, client *http.Client, url, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", accept)

	log.Debug("index request", "url", url)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query package index: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("package index returned %s for %s", resp.Status, url)
	}
	return resp, nil
}

// sortVersions orders versions ascending, unparseable ones first by name.
func sortVersions(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		a, errA := ParseVersion(versions[i])
		b, errB := ParseVersion(versions[j])
		switch {
		case errA != nil && errB != nil:
			return versions[i] < versions[j]
		case errA != nil:
			return true
		case errB != nil:
			return false
		}
		return a.Compare(b) < 0
	})
}
