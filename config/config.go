package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spiffcs/maintkit/internal/constants"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. MAINTKIT_API_URL.
const EnvPrefix = "MAINTKIT"

// Config represents the application configuration
type Config struct {
	APIURL           string        `yaml:"api_url,omitempty" json:"api_url,omitempty" envconfig:"API_URL" validate:"omitempty,url"`
	GraphQLURL       string        `yaml:"graphql_url,omitempty" json:"graphql_url,omitempty" envconfig:"GRAPHQL_URL" validate:"omitempty,url"`
	ContributorsFile string        `yaml:"contributors_file,omitempty" json:"contributors_file,omitempty" envconfig:"CONTRIBUTORS_FILE"`
	ReviewFormat     string        `yaml:"review_format,omitempty" json:"review_format,omitempty" envconfig:"REVIEW_FORMAT" validate:"omitempty,oneof=yaml text json"`
	IncludeOwner     *bool         `yaml:"include_owner,omitempty" json:"include_owner,omitempty" envconfig:"INCLUDE_OWNER"`
	Workers          int           `yaml:"workers,omitempty" json:"workers,omitempty" envconfig:"WORKERS" validate:"omitempty,min=1,max=32"`
	IndexURL         string        `yaml:"index_url,omitempty" json:"index_url,omitempty" envconfig:"INDEX_URL" validate:"omitempty,url"`
	Manifest         string        `yaml:"manifest,omitempty" json:"manifest,omitempty" envconfig:"MANIFEST"`
	CacheTTL         time.Duration `yaml:"cache_ttl,omitempty" json:"cache_ttl,omitempty" envconfig:"CACHE_TTL"`
}

// DefaultConfigDir returns the default config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".maintkit"
	}
	return filepath.Join(configDir, "maintkit")
}

// ConfigPath returns the path to the global config file
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory
func LocalConfigPath() string {
	return ".maintkit.yaml"
}

// Load loads the configuration from the global and local config files,
// a .env file in the working directory and MAINTKIT_* environment
// variables, in increasing order of precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return LoadFrom(ConfigPath(), LocalConfigPath())
}

// LoadFrom is Load with explicit config file locations. It does not read .env.
func LoadFrom(globalPath, localPath string) (*Config, error) {
	cfg := &Config{}

	global, err := readFile(globalPath)
	if err != nil {
		return nil, fmt.Errorf("global config: %w", err)
	}
	if global != nil {
		cfg = global
	}

	local, err := readFile(localPath)
	if err != nil {
		return nil, fmt.Errorf("local config: %w", err)
	}
	if local != nil {
		cfg = mergeConfig(cfg, local)
	}

	var env Config
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	cfg = mergeConfig(cfg, &env)

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a single config file without merging or defaults.
// A missing file yields an empty Config.
func LoadFile(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &Config{}
	}
	return cfg, nil
}

func readFile(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// mergeConfig merges overlay on top of base.
// Set overlay values take precedence; unset ones preserve base values.
func mergeConfig(base, overlay *Config) *Config {
	result := *base

	if overlay.APIURL != "" {
		result.APIURL = overlay.APIURL
	}
	if overlay.GraphQLURL != "" {
		result.GraphQLURL = overlay.GraphQLURL
	}
	if overlay.ContributorsFile != "" {
		result.ContributorsFile = overlay.ContributorsFile
	}
	if overlay.ReviewFormat != "" {
		result.ReviewFormat = overlay.ReviewFormat
	}
	if overlay.IncludeOwner != nil {
		v := *overlay.IncludeOwner
		result.IncludeOwner = &v
	}
	if overlay.Workers != 0 {
		result.Workers = overlay.Workers
	}
	if overlay.IndexURL != "" {
		result.IndexURL = overlay.IndexURL
	}
	if overlay.Manifest != "" {
		result.Manifest = overlay.Manifest
	}
	if overlay.CacheTTL != 0 {
		result.CacheTTL = overlay.CacheTTL
	}

	return &result
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	c.APIURL = firstNonEmpty(c.APIURL, d.APIURL)
	c.GraphQLURL = firstNonEmpty(c.GraphQLURL, d.GraphQLURL)
	c.ContributorsFile = firstNonEmpty(c.ContributorsFile, d.ContributorsFile)
	c.ReviewFormat = firstNonEmpty(c.ReviewFormat, d.ReviewFormat)
	c.IndexURL = firstNonEmpty(c.IndexURL, d.IndexURL)
	c.Manifest = firstNonEmpty(c.Manifest, d.Manifest)
	if c.IncludeOwner == nil {
		c.IncludeOwner = d.IncludeOwner
	}
	if c.Workers == 0 {
		c.Workers = d.Workers
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = d.CacheTTL
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Validate checks field constraints and reports every violation.
func (c *Config) Validate() error {
	var errs []error
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			errs = append(errs, fmt.Errorf("invalid %s: %q fails %q", fe.Field(), fmt.Sprint(fe.Value()), fe.Tag()))
		}
	}
	if c.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("invalid CacheTTL: %s is negative", c.CacheTTL))
	}
	return errors.Join(errs...)
}

// Set assigns a single key using its YAML name and value syntax.
func (c *Config) Set(key, value string) error {
	if key == "token" {
		return fmt.Errorf("tokens cannot be stored in config files for security reasons. Set the GITHUB_TOKEN environment variable instead")
	}

	var overlay Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(key + ": " + value + "\n")))
	dec.KnownFields(true)
	if err := dec.Decode(&overlay); err != nil {
		if strings.Contains(err.Error(), "not found in type") {
			return fmt.Errorf("unknown config key: %s", key)
		}
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	merged := mergeConfig(c, &overlay)
	if err := merged.Validate(); err != nil {
		return err
	}
	*c = *merged
	return nil
}

// ShouldIncludeOwner reports whether the repository owner's own approvals
// are listed by the reviews command.
func (c *Config) ShouldIncludeOwner() bool {
	return c.IncludeOwner != nil && *c.IncludeOwner
}

// Save writes the configuration to the global config file
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return SaveTo(ConfigPath(), string(data))
}

// DefaultConfig returns a fully populated config with all default values.
// This is useful for generating a complete config file template.
func DefaultConfig() *Config {
	includeOwner := false
	return &Config{
		APIURL:           constants.GitHubAPIURL,
		GraphQLURL:       constants.GitHubGraphQLURL,
		ContributorsFile: constants.ContributorsFile,
		ReviewFormat:     "yaml",
		IncludeOwner:     &includeOwner,
		Workers:          1,
		IndexURL:         constants.PyPIURL,
		Manifest:         constants.Manifest,
		CacheTTL:         constants.IndexCacheTTL,
	}
}

// ToYAML returns the config as a YAML string
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// ConfigPathInfo contains information about config file paths
type ConfigPathInfo struct {
	GlobalPath   string
	GlobalExists bool
	LocalPath    string
	LocalExists  bool
}

// GetConfigPaths returns path info for both global and local configs
func GetConfigPaths() ConfigPathInfo {
	globalPath := ConfigPath()
	localPath := LocalConfigPath()

	absLocalPath, err := filepath.Abs(localPath)
	if err != nil {
		absLocalPath = localPath
	}

	_, globalErr := os.Stat(globalPath)
	_, localErr := os.Stat(localPath)

	return ConfigPathInfo{
		GlobalPath:   globalPath,
		GlobalExists: globalErr == nil,
		LocalPath:    absLocalPath,
		LocalExists:  localErr == nil,
	}
}

// MinimalConfig returns a minimal config template with comments
func MinimalConfig() string {
	return `# maintkit configuration file
# See: maintkit config defaults  (for all available options)
# Every key can be overridden with MAINTKIT_<KEY>, e.g. MAINTKIT_REVIEW_FORMAT=text

# Output format of 'maintkit reviews': yaml, text or json
review_format: yaml

# Where 'maintkit contributors' keeps its results
contributors_file: contributors.yaml

# Concurrent comment fetches (1-32)
# workers: 4

# GitHub Enterprise endpoints (optional)
# api_url: https://github.example.com/api/v3/
# graphql_url: https://github.example.com/api/graphql

# Package index used by 'maintkit suggest' (optional)
# index_url: https://pypi.org
# cache_ttl: 1h
`
}

// SaveTo writes content to a specific path, creating directories as needed
func SaveTo(path string, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}
