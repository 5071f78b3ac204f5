// Package ghclient provides GitHub API client functionality.
package ghclient

import (
	"context"
	"time"

	"github.com/spiffcs/maintkit/internal/model"
)

// ItemLister pages issues and pull requests and fetches their comments.
type ItemLister interface {
	ListItems(ctx context.Context, owner, repo string, endpoint model.Endpoint, since time.Time, page int) (*model.ItemPage, error)
	ListComments(ctx context.Context, owner, repo string, number int) ([]model.Comment, error)
}

// DiscussionLister pages repository discussions.
type DiscussionLister interface {
	ListDiscussions(ctx context.Context, owner, repo, cursor string) (*model.DiscussionPage, error)
}

// ReviewLister pages pull requests with their approving reviews.
type ReviewLister interface {
	ListPullRequestReviews(ctx context.Context, owner, repo, cursor string) (*model.PullRequestPage, error)
}

// Ensure Client implements the listing interfaces.
var (
	_ ItemLister       = (*Client)(nil)
	_ DiscussionLister = (*Client)(nil)
	_ ReviewLister     = (*Client)(nil)
)
