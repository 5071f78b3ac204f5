package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spiffcs/maintkit/config"
	"github.com/spiffcs/maintkit/internal/cache"
	"github.com/spiffcs/maintkit/internal/log"
	"github.com/spiffcs/maintkit/internal/pypi"
	"github.com/spiffcs/maintkit/internal/pyproject"
	"github.com/spiffcs/maintkit/internal/suggest"
)

// NewCmdSuggest creates the suggest command.
func NewCmdSuggest(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "suggest [package...]",
		Aliases: []string{"suggest-constraint"},
		Short:   "Suggest an upper-bound constraint for a dependency",
		Long: `Find dependencies in pyproject.toml that have no upper version bound and
propose "<name><=<latest release>" for them.

Without arguments the first unbounded dependency is used. Each suggestion is
printed as a GitHub Actions notice and appended to $GITHUB_STEP_SUMMARY when
it is set. Nothing is printed unless every requested suggestion succeeds.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggest(cmd, o, args)
		},
	}

	cmd.Flags().StringVar(&o.Manifest, "manifest", o.Manifest, "Project manifest (default from config: pyproject.toml)")
	cmd.Flags().StringVar(&o.IndexURL, "index-url", o.IndexURL, "Package index: a JSON API root or a PEP 503 .../simple URL (default from config: https://pypi.org)")
	cmd.Flags().BoolVar(&o.NoCache, "no-cache", o.NoCache, "Always query the package index")

	return cmd
}

func runSuggest(cmd *cobra.Command, o *Options, packages []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	manifestPath := o.Manifest
	if manifestPath == "" {
		manifestPath = cfg.Manifest
	}
	indexURL := o.IndexURL
	if indexURL == "" {
		indexURL = cfg.IndexURL
	}

	manifest, err := pyproject.Load(manifestPath)
	if err != nil {
		return err
	}

	reqs := manifest.Requirements()
	if log.IsDebug() {
		declared := make([]string, 0, len(reqs))
		for _, r := range reqs {
			declared = append(declared, r.Raw)
		}
		log.Debug("declared requirements", "manifest", manifestPath, "requirements", declared)
	}

	index := pypi.NewIndex(indexURL, nil)
	if !o.NoCache {
		if c, err := openCache(cfg); err != nil {
			log.Warn("release cache unavailable", "error", err)
		} else {
			defer c.Close()
			index = pypi.NewCachedIndex(index, c, indexURL)
		}
	}

	s := suggest.New(index, cmd.OutOrStdout(), suggest.WithSummaryPath(os.Getenv(suggest.SummaryEnv)))
	_, err = s.Run(ctx, reqs, packages)
	return err
}

func openCache(cfg *config.Config) (*cache.Cache, error) {
	path, err := cache.DefaultPath()
	if err != nil {
		return nil, err
	}
	return cache.Open(path, cfg.CacheTTL)
}
