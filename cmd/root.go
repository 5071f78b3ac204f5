package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spiffcs/maintkit/config"
	"github.com/spiffcs/maintkit/internal/auth"
	"github.com/spiffcs/maintkit/internal/ghclient"
	"github.com/spiffcs/maintkit/internal/gitremote"
	"github.com/spiffcs/maintkit/internal/log"
)

// New creates the root command with all subcommands registered.
func New(opts ...Option) *cobra.Command {
	o := NewOptions(opts...)
	var profiler *Profiler

	rootCmd := &cobra.Command{
		Use:   "maintkit",
		Short: "Repository maintenance helpers",
		Long: `Tools for project maintainers: collect the contributors of a GitHub
repository, list who approved recent pull requests, and suggest upper-bound
constraints for Python dependencies.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize(o.Verbosity, cmd.ErrOrStderr())
			profiler = NewProfiler(o.CPUProfile, o.MemProfile, o.Trace)
			return profiler.Start()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if profiler != nil {
				profiler.Stop()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&o.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")
	flags.StringVar(&o.CPUProfile, "cpuprofile", "", "Write CPU profile to file")
	flags.StringVar(&o.MemProfile, "memprofile", "", "Write memory profile to file")
	flags.StringVar(&o.Trace, "trace", "", "Write execution trace to file")
	_ = flags.MarkHidden("cpuprofile")
	_ = flags.MarkHidden("memprofile")
	_ = flags.MarkHidden("trace")

	rootCmd.AddCommand(NewCmdContributors(o))
	rootCmd.AddCommand(NewCmdReviews(o))
	rootCmd.AddCommand(NewCmdSuggest(o))
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdCache())
	rootCmd.AddCommand(NewCmdRateLimit(o))
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}

// addGitHubFlags registers the repository and token flags shared by the
// commands that talk to GitHub.
func addGitHubFlags(cmd *cobra.Command, o *Options) {
	cmd.Flags().StringVar(&o.Repo, "repo", o.Repo, "Repository as owner/repo or https://github.com/owner/repo (default: the origin remote of the current directory)")
	cmd.Flags().StringVar(&o.Token, "token", o.Token, "GitHub API token (default: $GITHUB_TOKEN, then the gh:github.com keyring entry)")
}

// resolveRepo returns the --repo value or the origin remote of the working directory.
func resolveRepo(ctx context.Context, repo string) (gitremote.Repo, error) {
	if repo != "" {
		return gitremote.ParseRepo(repo)
	}
	dir, err := os.Getwd()
	if err != nil {
		return gitremote.Repo{}, fmt.Errorf("failed to get working directory: %w", err)
	}
	return gitremote.NewDetector(nil).Detect(ctx, dir)
}

// newGitHubClient resolves the token and builds a client for the configured endpoints.
func newGitHubClient(ctx context.Context, cfg *config.Config, tokenFlag string) (*ghclient.Client, error) {
	token, source, err := auth.ResolveToken(tokenFlag)
	if err != nil {
		return nil, err
	}
	log.Debug("using GitHub token", "source", source)

	return ghclient.NewClient(ctx, ghclient.Options{
		Token:      token,
		APIURL:     cfg.APIURL,
		GraphQLURL: cfg.GraphQLURL,
	})
}
