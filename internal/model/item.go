package model

import "time"

// Item is an issue or pull request as returned by a REST listing.
type Item struct {
	Number    int
	Author    string
	UpdatedAt time.Time
}

// ItemPage is one page of a REST listing. NextPage is 0 on the last page.
type ItemPage struct {
	Items    []Item
	NextPage int
}

// Comment is a comment on an issue, pull request or discussion.
type Comment struct {
	Author    string
	UpdatedAt time.Time
}

// Discussion is a repository discussion with its first page of comments.
type Discussion struct {
	Number    int
	Author    string
	UpdatedAt time.Time
	Comments  []Comment
}

// DiscussionPage is one page of the discussions connection.
type DiscussionPage struct {
	Discussions []Discussion
	HasNextPage bool
	EndCursor   string
}

// PullRequestReview is a single review submitted on a pull request.
type PullRequestReview struct {
	Reviewer    string
	State       string
	SubmittedAt time.Time
}

// PullRequest is a pull request with its approving reviews.
type PullRequest struct {
	Number  int
	Title   string
	Reviews []PullRequestReview
}

// PullRequestPage is one page of the pullRequests connection.
type PullRequestPage struct {
	PullRequests []PullRequest
	HasNextPage  bool
	EndCursor    string
}
