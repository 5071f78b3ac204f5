// Package contributors collects and persists per-user contribution kinds.
package contributors

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spiffcs/maintkit/internal/log"
	"github.com/spiffcs/maintkit/internal/model"
	"gopkg.in/yaml.v3"
)

var loginColor = color.New(color.FgCyan, color.Bold)

// Contributors maps logins to their distinct contributions. Logins and each
// login's contributions keep first-seen order.
type Contributors struct {
	logins  []string
	byLogin map[string][]model.Contribution
	out     io.Writer
}

// New returns an empty mapping that announces new logins on out.
// A nil out discards progress lines.
func New(out io.Writer) *Contributors {
	if out == nil {
		out = io.Discard
	}
	return &Contributors{
		byLogin: make(map[string][]model.Contribution),
		out:     out,
	}
}

// Load reads a contributors file. A missing file yields an empty mapping.
func Load(path string, out io.Writer) (*Contributors, error) {
	c := New(out)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info("contributors file not found, starting empty", "path", path)
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read contributors file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse contributors file %s: %w", path, err)
	}
	log.Info("loaded contributors", "path", path, "count", c.Len())
	return c, nil
}

// Add records that login made a contribution of the kind mapped from key on
// item number, last updated at updatedAt. It returns true if the contribution
// was new. Empty logins (deleted accounts) are ignored.
func (c *Contributors) Add(login string, key model.ContributionKey, number int, updatedAt time.Time) bool {
	if login == "" {
		return false
	}
	contribution, ok := model.LookupContribution(key)
	if !ok {
		log.Warn("no contribution type for key", "key", key.String())
		return false
	}

	existing, known := c.byLogin[login]
	if !known {
		c.logins = append(c.logins, login)
		_, _ = fmt.Fprintf(c.out, "%s  # %s for %s #%d (updated %s)\n",
			loginColor.Sprint(login), key.Role, key.Endpoint.Singular(), number, updatedAt.UTC().Format("2006-01-02"))
	}
	for _, have := range existing {
		if have == contribution {
			return false
		}
	}
	c.byLogin[login] = append(existing, contribution)
	return true
}

// Contributions returns the recorded contributions for login.
func (c *Contributors) Contributions(login string) []model.Contribution {
	return append([]model.Contribution(nil), c.byLogin[login]...)
}

// Logins returns all logins in first-seen order.
func (c *Contributors) Logins() []string {
	return append([]string(nil), c.logins...)
}

// Has reports whether login has any recorded contribution.
func (c *Contributors) Has(login string) bool {
	_, ok := c.byLogin[login]
	return ok
}

// Len returns the number of logins.
func (c *Contributors) Len() int {
	return len(c.logins)
}

// MarshalYAML emits an ordered mapping of login to contribution list.
func (c *Contributors) MarshalYAML() (interface{}, error) {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, login := range c.logins {
		var list yaml.Node
		if err := list.Encode(c.byLogin[login]); err != nil {
			return nil, fmt.Errorf("encoding contributions for %s: %w", login, err)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: login},
			&list,
		)
	}
	return root, nil
}

// UnmarshalYAML reads a mapping of login to contribution list, keeping file order.
func (c *Contributors) UnmarshalYAML(node *yaml.Node) error {
	if c.byLogin == nil {
		c.byLogin = make(map[string][]model.Contribution)
	}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of login to contributions", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		login := node.Content[i].Value
		var list []model.Contribution
		if err := node.Content[i+1].Decode(&list); err != nil {
			return fmt.Errorf("contributions for %s: %w", login, err)
		}
		if _, known := c.byLogin[login]; !known {
			c.logins = append(c.logins, login)
		}
		for _, contribution := range list {
			if !containsContribution(c.byLogin[login], contribution) {
				c.byLogin[login] = append(c.byLogin[login], contribution)
			}
		}
		if c.byLogin[login] == nil {
			c.byLogin[login] = []model.Contribution{}
		}
	}
	return nil
}

func containsContribution(list []model.Contribution, want model.Contribution) bool {
	for _, have := range list {
		if have == want {
			return true
		}
	}
	return false
}

// Encode writes the mapping as YAML.
func (c *Contributors) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode contributors: %w", err)
	}
	return enc.Close()
}

// Save overwrites path with the YAML mapping.
func (c *Contributors) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create contributors file: %w", err)
	}
	if err := c.Encode(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write contributors file: %w", err)
	}
	log.Info("saved contributors", "path", path, "count", c.Len())
	return nil
}
