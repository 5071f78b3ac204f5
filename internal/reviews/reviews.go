// Package reviews lists the first approving review of each pull request.
package reviews

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spiffcs/maintkit/internal/constants"
	"github.com/spiffcs/maintkit/internal/ghclient"
	"github.com/spiffcs/maintkit/internal/log"
	"github.com/spiffcs/maintkit/internal/model"
)

// Collect pages through every pull request of owner/repo and returns the
// first approval of each, most recent first.
func Collect(ctx context.Context, gh ghclient.ReviewLister, owner, repo string) ([]model.Review, error) {
	var reviews []model.Review
	cursor := ""
	for n := 1; ; n++ {
		log.Progress("Fetching pull requests page %d", n)
		page, err := gh.ListPullRequestReviews(ctx, owner, repo, cursor)
		if err != nil {
			return nil, fmt.Errorf("failed to list reviews for %s/%s: %w", owner, repo, err)
		}
		for _, pr := range page.PullRequests {
			first, ok := FirstApproval(pr.Reviews)
			if !ok {
				continue
			}
			reviews = append(reviews, model.Review{
				PRNumber:    pr.Number,
				PRTitle:     pr.Title,
				Reviewer:    first.Reviewer,
				SubmittedAt: first.SubmittedAt,
			})
		}
		if !page.HasNextPage {
			break
		}
		cursor = page.EndCursor
	}
	log.ProgressDone()

	Sort(reviews)
	log.Info("collected approvals", "repo", owner+"/"+repo, "count", len(reviews))
	return reviews, nil
}

// FirstApproval returns the earliest approving review. Ties on submission
// time go to the lexically smallest login.
func FirstApproval(reviews []model.PullRequestReview) (model.PullRequestReview, bool) {
	var first model.PullRequestReview
	found := false
	for _, r := range reviews {
		if !strings.EqualFold(r.State, constants.ReviewStateApproved) || r.Reviewer == "" || r.SubmittedAt.IsZero() {
			continue
		}
		if !found ||
			r.SubmittedAt.Before(first.SubmittedAt) ||
			(r.SubmittedAt.Equal(first.SubmittedAt) && r.Reviewer < first.Reviewer) {
			first = r
			found = true
		}
	}
	return first, found
}

// Sort orders reviews by submission time, newest first, then by PR number descending.
func Sort(reviews []model.Review) {
	sort.SliceStable(reviews, func(i, j int) bool {
		a, b := reviews[i], reviews[j]
		if !a.SubmittedAt.Equal(b.SubmittedAt) {
			return a.SubmittedAt.After(b.SubmittedAt)
		}
		return a.PRNumber > b.PRNumber
	})
}

// ExcludeReviewer drops reviews by login, compared case-insensitively.
func ExcludeReviewer(reviews []model.Review, login string) []model.Review {
	out := reviews[:0:0]
	for _, r := range reviews {
		if !strings.EqualFold(r.Reviewer, login) {
			out = append(out, r)
		}
	}
	return out
}

// Since drops reviews submitted strictly before cutoff. A zero cutoff keeps all.
func Since(reviews []model.Review, cutoff time.Time) []model.Review {
	if cutoff.IsZero() {
		return reviews
	}
	out := reviews[:0:0]
	for _, r := range reviews {
		if !r.SubmittedAt.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out
}
