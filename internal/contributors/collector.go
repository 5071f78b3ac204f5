package contributors

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spiffcs/maintkit/internal/ghclient"
	"github.com/spiffcs/maintkit/internal/log"
	"github.com/spiffcs/maintkit/internal/model"
	"golang.org/x/sync/errgroup"
)

// DiscussionsDisabledMessage is printed when the repository has no discussions.
const DiscussionsDisabledMessage = "Discussions are not enabled for this repository. Skipping."

// GitHub is the API surface the collector needs.
type GitHub interface {
	ghclient.ItemLister
	ghclient.DiscussionLister
}

// Collector crawls a repository and records contributors.
type Collector struct {
	gh      GitHub
	store   *Contributors
	since   time.Time
	workers int
	stderr  io.Writer
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithSince ignores activity strictly older than since.
func WithSince(since time.Time) CollectorOption {
	return func(c *Collector) {
		c.since = since
	}
}

// WithWorkers sets how many comment listings are fetched concurrently per page.
func WithWorkers(workers int) CollectorOption {
	return func(c *Collector) {
		if workers > 0 {
			c.workers = workers
		}
	}
}

// WithStderr sets where notices such as disabled discussions are written.
func WithStderr(w io.Writer) CollectorOption {
	return func(c *Collector) {
		c.stderr = w
	}
}

// NewCollector returns a Collector recording into store.
func NewCollector(gh GitHub, store *Contributors, opts ...CollectorOption) *Collector {
	c := &Collector{
		gh:      gh,
		store:   store,
		workers: 1,
		stderr:  io.Discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run collects issues, pull requests and discussions for owner/repo.
func (c *Collector) Run(ctx context.Context, owner, repo string) error {
	for _, endpoint := range []model.Endpoint{model.EndpointIssues, model.EndpointPulls} {
		if err := c.CollectItems(ctx, owner, repo, endpoint); err != nil {
			return err
		}
	}
	return c.CollectDiscussions(ctx, owner, repo)
}

func (c *Collector) olderThanCutoff(t time.Time) bool {
	return !c.since.IsZero() && t.Before(c.since)
}

// CollectItems walks every page of issues or pull requests.
func (c *Collector) CollectItems(ctx context.Context, owner, repo string, endpoint model.Endpoint) error {
	page := 0
	for n := 1; ; n++ {
		log.Progress("Fetching %s page %d", endpoint, n)
		result, err := c.gh.ListItems(ctx, owner, repo, endpoint, c.since, page)
		if err != nil {
			return err
		}
		if c.pageExpired(result.Items) {
			log.Info("page older than cutoff, stopping", "endpoint", endpoint, "page", n)
			break
		}

		comments, err := c.fetchComments(ctx, owner, repo, result.Items)
		if err != nil {
			return err
		}
		for i, item := range result.Items {
			c.store.Add(item.Author, model.ContributionKey{Endpoint: endpoint, Role: model.RoleAuthor}, item.Number, item.UpdatedAt)
			for _, comment := range comments[i] {
				c.store.Add(comment.Author, model.ContributionKey{Endpoint: endpoint, Role: model.RoleCommenter}, item.Number, comment.UpdatedAt)
			}
		}

		if result.NextPage == 0 {
			break
		}
		page = result.NextPage
	}
	log.ProgressDone()
	return nil
}

// pageExpired reports whether a cutoff is set and every item predates it.
func (c *Collector) pageExpired(items []model.Item) bool {
	if c.since.IsZero() {
		return false
	}
	for _, item := range items {
		if !item.UpdatedAt.Before(c.since) {
			return false
		}
	}
	return true
}

// fetchComments returns comments indexed like items. Items older than the
// cutoff get none. With more than one worker the listings run concurrently;
// the result order never depends on completion order.
func (c *Collector) fetchComments(ctx context.Context, owner, repo string, items []model.Item) ([][]model.Comment, error) {
	comments := make([][]model.Comment, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, item := range items {
		if c.olderThanCutoff(item.UpdatedAt) {
			continue
		}
		i, number := i, item.Number
		g.Go(func() error {
			list, err := c.gh.ListComments(gctx, owner, repo, number)
			if err != nil {
				return fmt.Errorf("fetching comments for #%d: %w", number, err)
			}
			comments[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return comments, nil
}

// CollectDiscussions walks every page of discussions. Repositories without
// discussions are reported on stderr and skipped.
func (c *Collector) CollectDiscussions(ctx context.Context, owner, repo string) error {
	cursor := ""
	for n := 1; ; n++ {
		log.Progress("Fetching discussions page %d", n)
		page, err := c.gh.ListDiscussions(ctx, owner, repo, cursor)
		if ghclient.IsNotFound(err) {
			log.ProgressDone()
			_, _ = fmt.Fprintln(c.stderr, DiscussionsDisabledMessage)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to list discussions: %w", err)
		}

		expired := !c.since.IsZero()
		for _, d := range page.Discussions {
			if !c.olderThanCutoff(d.UpdatedAt) {
				expired = false
			}
		}
		if expired {
			log.Info("page older than cutoff, stopping", "endpoint", model.EndpointDiscussions, "page", n)
			break
		}

		for _, d := range page.Discussions {
			c.store.Add(d.Author, model.ContributionKey{Endpoint: model.EndpointDiscussions, Role: model.RoleAuthor}, d.Number, d.UpdatedAt)
			if c.olderThanCutoff(d.UpdatedAt) {
				continue
			}
			for _, comment := range d.Comments {
				c.store.Add(comment.Author, model.ContributionKey{Endpoint: model.EndpointDiscussions, Role: model.RoleCommenter}, d.Number, comment.UpdatedAt)
			}
		}

		if !page.HasNextPage {
			break
		}
		cursor = page.EndCursor
	}
	log.ProgressDone()
	return nil
}
