package cmd

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spiffcs/maintkit/config"
	"github.com/spiffcs/maintkit/internal/duration"
	"github.com/spiffcs/maintkit/internal/log"
	"github.com/spiffcs/maintkit/internal/output"
	"github.com/spiffcs/maintkit/internal/reviews"
)

// NewCmdReviews creates the reviews command.
func NewCmdReviews(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Show who approved recent pull requests",
		Long: `List the first approving review of every pull request in a repository,
newest first. Approvals by the repository owner are left out unless
--include-owner is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReviews(cmd, o)
		},
	}

	addGitHubFlags(cmd, o)
	cmd.Flags().StringVarP(&o.Format, "format", "o", o.Format, "Output format: yaml, text or json (default from config: yaml)")
	cmd.Flags().BoolVar(&o.IncludeOwner, "include-owner", o.IncludeOwner, "Include approvals by the repository owner")
	cmd.Flags().StringVarP(&o.Since, "since", "s", o.Since, "Only approvals submitted at or after this date or age (e.g., 2023-01-01, 2w)")

	return cmd
}

func runReviews(cmd *cobra.Command, o *Options) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	format := output.Format(o.Format)
	if format == "" {
		format = output.Format(cfg.ReviewFormat)
	}
	includeOwner := cfg.ShouldIncludeOwner()
	if cmd.Flags().Changed("include-owner") {
		includeOwner = o.IncludeOwner
	}

	since, err := duration.ParseSince(o.Since, time.Now())
	if err != nil {
		return err
	}

	styled := format == output.FormatText && output.IsTerminal(out) && !color.NoColor
	formatter, err := output.NewFormatter(format, styled)
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

	approved, err := reviews.Collect(ctx, client, repo.Owner, repo.Name)
	if err != nil {
		return err
	}
	if !includeOwner {
		approved = reviews.ExcludeReviewer(approved, repo.Owner)
	}
	approved = reviews.Since(approved, since)
	reviews.Sort(approved)

	log.Info("approved reviews", "repo", repo.String(), "count", len(approved))
	return formatter.Format(repo.String(), approved, out)
}
