package pyproject

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/spiffcs/maintkit/internal/log"
	"github.com/spiffcs/maintkit/internal/model"
)

type document struct {
	Project struct {
		Name                 string              `toml:"name"`
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
}

// Manifest holds the declared requirements of a project.
type Manifest struct {
	Name         string
	Dependencies []model.Requirement
	Optional     map[string][]model.Requirement
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug("loaded manifest", "path", path, "dependencies", len(m.Dependencies), "extras", len(m.Optional))
	return m, nil
}

// Parse decodes pyproject.toml content.
func Parse(data []byte) (*Manifest, error) {
	var doc document
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	m := &Manifest{
		Name:     doc.Project.Name,
		Optional: make(map[string][]model.Requirement, len(doc.Project.OptionalDependencies)),
	}
	for _, s := range doc.Project.Dependencies {
		req, err := ParseRequirement(s)
		if err != nil {
			return nil, err
		}
		m.Dependencies = append(m.Dependencies, req)
	}
	for group, list := range doc.Project.OptionalDependencies {
		for _, s := range list {
			req, err := ParseRequirement(s)
			if err != nil {
				return nil, fmt.Errorf("optional-dependencies.%s: %w", group, err)
			}
			m.Optional[group] = append(m.Optional[group], req)
		}
	}
	return m, nil
}

// Requirements returns the main dependencies followed by each optional
// group in name order.
func (m *Manifest) Requirements() []model.Requirement {
	groups := make([]string, 0, len(m.Optional))
	for g := range m.Optional {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	all := append([]model.Requirement(nil), m.Dependencies...)
	for _, g := range groups {
		all = append(all, m.Optional[g]...)
	}
	return all
}
