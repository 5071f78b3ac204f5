package ghclient

import (
	"context"
	"fmt"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/spiffcs/maintkit/internal/constants"
	"github.com/spiffcs/maintkit/internal/log"
	"github.com/spiffcs/maintkit/internal/model"
)

// ListItems fetches one page of issues or pull requests, most recently
// updated first. A zero since lists everything.
func (c *Client) ListItems(ctx context.Context, owner, repo string, endpoint model.Endpoint, since time.Time, page int) (*model.ItemPage, error) {
	listOpts := gh.ListOptions{PerPage: constants.RESTPageSize, Page: page}

	switch endpoint {
	case model.EndpointIssues:
		issues, resp, err := c.rest.Issues.ListByRepo(ctx, owner, repo, &gh.IssueListByRepoOptions{
			State:       "all",
			Sort:        "updated",
			Direction:   "desc",
			Since:       since,
			ListOptions: listOpts,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list issues for %s/%s: %w", owner, repo, wrapRESTError(err))
		}
		items := make([]model.Item, 0, len(issues))
		for _, issue := range issues {
			items = append(items, model.Item{
				Number:    issue.GetNumber(),
				Author:    issue.GetUser().GetLogin(),
				UpdatedAt: issue.GetUpdatedAt().Time,
			})
		}
		log.Debug("listed issues", "repo", owner+"/"+repo, "page", page, "count", len(items))
		return &model.ItemPage{Items: items, NextPage: resp.NextPage}, nil

	case model.EndpointPulls:
		pulls, resp, err := c.rest.PullRequests.List(ctx, owner, repo, &gh.PullRequestListOptions{
			State:       "all",
			Sort:        "updated",
			Direction:   "desc",
			ListOptions: listOpts,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list pulls for %s/%s: %w", owner, repo, wrapRESTError(err))
		}
		items := make([]model.Item, 0, len(pulls))
		for _, pr := range pulls {
			items = append(items, model.Item{
				Number:    pr.GetNumber(),
				Author:    pr.GetUser().GetLogin(),
				UpdatedAt: pr.GetUpdatedAt().Time,
			})
		}
		log.Debug("listed pulls", "repo", owner+"/"+repo, "page", page, "count", len(items))
		return &model.ItemPage{Items: items, NextPage: resp.NextPage}, nil
	}

	return nil, fmt.Errorf("unsupported endpoint %q", endpoint)
}

// ListComments fetches every comment on an issue or pull request.
func (c *Client) ListComments(ctx context.Context, owner, repo string, number int) ([]model.Comment, error) {
	opts := &gh.IssueListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: constants.RESTPageSize},
	}

	var comments []model.Comment
	for {
		page, resp, err := c.rest.Issues.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list comments for %s/%s#%d: %w", owner, repo, number, wrapRESTError(err))
		}
		for _, comment := range page {
			comments = append(comments, model.Comment{
				Author:    comment.GetUser().GetLogin(),
				UpdatedAt: comment.GetUpdatedAt().Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return comments, nil
}
