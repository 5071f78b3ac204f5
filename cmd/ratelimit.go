package cmd

import (
	"fmt"
	"io"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/spf13/cobra"
	"github.com/spiffcs/maintkit/config"
)

// NewCmdRateLimit creates the ratelimit command.
func NewCmdRateLimit(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratelimit",
		Short: "Check GitHub API rate limit status",
		Long:  `Display current GitHub API rate limit status including remaining quota and reset time.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRateLimitStatus(cmd, o)
		},
	}
	cmd.Flags().StringVar(&o.Token, "token", o.Token, "GitHub API token (default: $GITHUB_TOKEN, then the gh:github.com keyring entry)")
	return cmd
}

func runRateLimitStatus(cmd *cobra.Command, o *Options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client, err := newGitHubClient(cmd.Context(), cfg, o.Token)
	if err != nil {
		return err
	}

	limits, err := client.RateLimits(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "GitHub API Rate Limits:")
	fmt.Fprintln(out)
	printRate(out, "Core API:", limits.Core)
	printRate(out, "Search API:", limits.Search)
	printRate(out, "GraphQL:", limits.GraphQL)

	return nil
}

func printRate(w io.Writer, label string, rate *gh.Rate) {
	if rate == nil {
		return
	}
	resetIn := time.Until(rate.Reset.Time).Round(time.Second)
	if resetIn < 0 {
		resetIn = 0
	}
	fmt.Fprintf(w, "%-11s %d/%d remaining (resets in %s)\n", label, rate.Remaining, rate.Limit, resetIn)
}
