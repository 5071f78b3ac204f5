package pypi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/spiffcs/maintkit/internal/pyproject"
)

// JSONClient reads releases from the PyPI JSON API.
type JSONClient struct {
	baseURL string
	http    *http.Client
}

var _ Index = (*JSONClient)(nil)

type projectDocument struct {
	Releases map[string][]struct {
		Yanked bool `json:"yanked"`
	} `json:"releases"`
}

// Releases returns every published version of name in ascending order.
// Versions whose files are all yanked are left out.
func (c *JSONClient) Releases(ctx context.Context, name string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/pypi/%s/json", c.baseURL, url.PathEscape(pyproject.NormalizeName(name)))
	resp, err := get(ctx, c.http, endpoint, "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var doc projectDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", endpoint, err)
	}

	versions := make([]string, 0, len(doc.Releases))
	for version, files := range doc.Releases {
		if allYanked(files) {
			continue
		}
		versions = append(versions, version)
	}
	sortVersions(versions)
	return versions, nil
}

func allYanked(files []struct {
	Yanked bool `json:"yanked"`
}) bool {
	if len(files) == 0 {
		return false
	}
	for _, f := range files {
		if !f.Yanked {
			return false
		}
	}
	return true
}
