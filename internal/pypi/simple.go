package pypi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/spiffcs/maintkit/internal/pyproject"
)

// SimpleClient reads releases from a PEP 503 simple repository.
type SimpleClient struct {
	baseURL string
	http    *http.Client
}

var _ Index = (*SimpleClient)(nil)

var sdistSuffixes = []string{".tar.gz", ".tar.bz2", ".tar.xz", ".zip"}

// Releases returns the versions of every non-yanked distribution file
// linked from the project page, in ascending order.
func (c *SimpleClient) Releases(ctx context.Context, name string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/%s/", c.baseURL, url.PathEscape(pyproject.NormalizeName(name)))
	resp, err := get(ctx, c.http, endpoint, "text/html")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", endpoint, err)
	}

	seen := make(map[string]bool)
	var versions []string
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		if _, yanked := s.Attr("data-yanked"); yanked {
			return
		}
		filename := strings.TrimSpace(s.Text())
		if filename == "" {
			href, _ := s.Attr("href")
			filename = path.Base(strings.SplitN(href, "#", 2)[0])
		}
		if v, ok := versionFromFilename(filename); ok && !seen[v] {
			seen[v] = true
			versions = append(versions, v)
		}
	})

	sortVersions(versions)
	return versions, nil
}

// versionFromFilename extracts the version from a wheel or sdist name.
func versionFromFilename(filename string) (string, bool) {
	if strings.HasSuffix(filename, ".whl") {
		parts := strings.Split(strings.TrimSuffix(filename, ".whl"), "-")
		if len(parts) < 5 {
			return "", false
		}
		return parts[1], true
	}
	for _, suffix := range sdistSuffixes {
		if !strings.HasSuffix(filename, suffix) {
			continue
		}
		base := strings.TrimSuffix(filename, suffix)
		i := strings.LastIndex(base, "-")
		if i <= 0 || i == len(base)-1 {
			return "", false
		}
		return base[i+1:], true
	}
	return "", false
}
