package ghclient

import (
	"context"
	"time"

	"github.com/shurcooL/graphql"
	"github.com/spiffcs/maintkit/internal/constants"
	"github.com/spiffcs/maintkit/internal/log"
	"github.com/spiffcs/maintkit/internal/model"
)

type actor struct {
	Login graphql.String
}

func (a *actor) login() string {
	if a == nil {
		return ""
	}
	return string(a.Login)
}

type discussionComment struct {
	UpdatedAt time.Time
	Author    *actor
}

type commentConnection struct {
	PageInfo struct {
		HasNextPage graphql.Boolean
		EndCursor   graphql.String
	}
	Nodes []discussionComment
}

func (conn commentConnection) comments() []model.Comment {
	comments := make([]model.Comment, 0, len(conn.Nodes))
	for _, node := range conn.Nodes {
		comments = append(comments, model.Comment{
			Author:    node.Author.login(),
			UpdatedAt: node.UpdatedAt,
		})
	}
	return comments
}

func cursorVar(cursor string) *graphql.String {
	if cursor == "" {
		return nil
	}
	s := graphql.String(cursor)
	return &s
}

// ListDiscussions fetches one page of discussions, most recently updated
// first, each with all of its comments. An empty cursor starts at the top.
func (c *Client) ListDiscussions(ctx context.Context, owner, repo, cursor string) (*model.DiscussionPage, error) {
	var query struct {
		Repository struct {
			Discussions struct {
				PageInfo struct {
					HasNextPage graphql.Boolean
					EndCursor   graphql.String
				}
				Nodes []struct {
					ID        graphql.ID
					Number    graphql.Int
					UpdatedAt time.Time
					Author    *actor
					Comments  commentConnection `graphql:"comments(first: $commentsFirst)"`
				}
			} `graphql:"discussions(first: $first, after: $cursor, orderBy: {field: UPDATED_AT, direction: DESC})"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	variables := map[string]interface{}{
		"owner":         graphql.String(owner),
		"name":          graphql.String(repo),
		"first":         graphql.Int(constants.GraphQLPageSize),
		"commentsFirst": graphql.Int(constants.GraphQLCommentPageSize),
		"cursor":        cursorVar(cursor),
	}

	if err := c.graphql.Query(ctx, &query, variables); err != nil {
		return nil, c.wrapGraphQLError(err)
	}

	conn := query.Repository.Discussions
	page := &model.DiscussionPage{
		HasNextPage: bool(conn.PageInfo.HasNextPage),
		EndCursor:   string(conn.PageInfo.EndCursor),
		Discussions: make([]model.Discussion, 0, len(conn.Nodes)),
	}
	for _, node := range conn.Nodes {
		d := model.Discussion{
			Number:    int(node.Number),
			Author:    node.Author.login(),
			UpdatedAt: node.UpdatedAt,
			Comments:  node.Comments.comments(),
		}
		if node.Comments.PageInfo.HasNextPage {
			rest, err := c.listDiscussionComments(ctx, node.ID, string(node.Comments.PageInfo.EndCursor))
			if err != nil {
				return nil, err
			}
			d.Comments = append(d.Comments, rest...)
		}
		page.Discussions = append(page.Discussions, d)
	}

	log.Debug("listed discussions", "repo", owner+"/"+repo, "count", len(page.Discussions), "has_next", page.HasNextPage)
	return page, nil
}

// listDiscussionComments pages the comments of discussion id from after cursor.
func (c *Client) listDiscussionComments(ctx context.Context, id graphql.ID, cursor string) ([]model.Comment, error) {
	var comments []model.Comment
	for {
		var query struct {
			Node struct {
				Discussion struct {
					Comments commentConnection `graphql:"comments(first: $commentsFirst, after: $cursor)"`
				} `graphql:"... on Discussion"`
			} `graphql:"node(id: $id)"`
		}
		variables := map[string]interface{}{
			"id":            id,
			"commentsFirst": graphql.Int(constants.GraphQLCommentPageSize),
			"cursor":        graphql.String(cursor),
		}
		if err := c.graphql.Query(ctx, &query, variables); err != nil {
			return nil, c.wrapGraphQLError(err)
		}

		conn := query.Node.Discussion.Comments
		comments = append(comments, conn.comments()...)
		log.Trace("listed discussion comments", "discussion", id, "count", len(conn.Nodes), "has_next", bool(conn.PageInfo.HasNextPage))
		if !conn.PageInfo.HasNextPage {
			return comments, nil
		}
		cursor = string(conn.PageInfo.EndCursor)
	}
}

// ListPullRequestReviews fetches one page of pull requests, newest first,
// each with its approving reviews.
func (c *Client) ListPullRequestReviews(ctx context.Context, owner, repo, cursor string) (*model.PullRequestPage, error) {
	var query struct {
		Repository struct {
			PullRequests struct {
				PageInfo struct {
					HasNextPage graphql.Boolean
					EndCursor   graphql.String
				}
				Nodes []struct {
					Number  graphql.Int
					Title   graphql.String
					Reviews struct {
						Nodes []struct {
							State       graphql.String
							SubmittedAt *time.Time
							Author      *actor
						}
					} `graphql:"reviews(first: 100, states: APPROVED)"`
				}
			} `graphql:"pullRequests(first: $first, after: $cursor, states: [OPEN, CLOSED, MERGED], orderBy: {field: CREATED_AT, direction: DESC})"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	variables := map[string]interface{}{
		"owner":  graphql.String(owner),
		"name":   graphql.String(repo),
		"first":  graphql.Int(constants.GraphQLPageSize),
		"cursor": cursorVar(cursor),
	}

	if err := c.graphql.Query(ctx, &query, variables); err != nil {
		return nil, c.wrapGraphQLError(err)
	}

	conn := query.Repository.PullRequests
	page := &model.PullRequestPage{
		HasNextPage:  bool(conn.PageInfo.HasNextPage),
		EndCursor:    string(conn.PageInfo.EndCursor),
		PullRequests: make([]model.PullRequest, 0, len(conn.Nodes)),
	}
	for _, node := range conn.Nodes {
		pr := model.PullRequest{
			Number: int(node.Number),
			Title:  string(node.Title),
		}
		for _, review := range node.Reviews.Nodes {
			// Pending reviews have no submission time; ghost users have no author.
			if review.SubmittedAt == nil || review.Author == nil {
				continue
			}
			pr.Reviews = append(pr.Reviews, model.PullRequestReview{
				Reviewer:    review.Author.login(),
				State:       string(review.State),
				SubmittedAt: *review.SubmittedAt,
			})
		}
		page.PullRequests = append(page.PullRequests, pr)
	}

	log.Debug("listed pull requests", "repo", owner+"/"+repo, "count", len(page.PullRequests), "has_next", page.HasNextPage)
	return page, nil
}
