package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spiffcs/maintkit/config"
	"github.com/spiffcs/maintkit/internal/contributors"
	"github.com/spiffcs/maintkit/internal/duration"
	"github.com/spiffcs/maintkit/internal/log"
)

// NewCmdContributors creates the contributors command.
func NewCmdContributors(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contributors",
		Short: "Collect the contributors of a repository",
		Long: `Crawl the issues, pull requests and discussions of a repository and record
every author and commenter in contributors.yaml.

New logins are printed as they are found. The complete mapping is printed
after a "---" separator and written back to the contributors file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runContributors(cmd, o)
		},
	}

	addGitHubFlags(cmd, o)
	cmd.Flags().StringVarP(&o.Since, "since", "s", o.Since, "Ignore activity before this date or age (e.g., 2023-01-01, 30d, 6mo)")
	cmd.Flags().StringVarP(&o.ContributorsFile, "file", "f", o.ContributorsFile, "Contributors file (default from config: contributors.yaml)")
	cmd.Flags().IntVarP(&o.Workers, "workers", "w", o.Workers, "Concurrent comment fetches per page (default from config: 1)")

	return cmd
}

func runContributors(cmd *cobra.Command, o *Options) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	since, err := duration.ParseSince(o.Since, time.Now())
	if err != nil {
		return err
	}

	repo, err := resolveRepo(ctx, o.Repo)
	if err != nil {
		return err
	}

	client, err := newGitHubClient(ctx, cfg, o.Token)
	if err != nil {
		return err
	}

	path := o.ContributorsFile
	if path == "" {
		path = cfg.ContributorsFile
	}
	workers := o.Workers
	if workers == 0 {
		workers = cfg.Workers
	}

	store, err := contributors.Load(path, out)
	if err != nil {
		return err
	}
	log.Info("collecting contributors", "repo", repo.String(), "known", store.Len(), "since", since)

	collector := contributors.NewCollector(client, store,
		contributors.WithSince(since),
		contributors.WithWorkers(workers),
		contributors.WithStderr(cmd.ErrOrStderr()),
	)
	if err := collector.Run(ctx, repo.Owner, repo.Name); err != nil {
		return err
	}

	if _, err := fmt.Fprint(out, "\n---\n\n\n"); err != nil {
		return err
	}
	if err := store.Encode(out); err != nil {
		return err
	}
	return store.Save(path)
}
