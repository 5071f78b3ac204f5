package reviews

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/spiffcs/maintkit/internal/ghclient"
	"github.com/spiffcs/maintkit/internal/model"
)

type fakeLister struct {
	pages []model.PullRequestPage
	err   error
	calls []string
}

func (f *fakeLister) ListPullRequestReviews(_ context.Context, _, _, cursor string) (*model.PullRequestPage, error) {
	f.calls = append(f.calls, cursor)
	if f.err != nil {
		return nil, f.err
	}
	p := f.pages[len(f.calls)-1]
	return &p, nil
}

func at(hour int) time.Time {
	return time.Date(2023, 6, 1, hour, 0, 0, 0, time.UTC)
}

func approved(login string, hour int) model.PullRequestReview {
	return model.PullRequestReview{Reviewer: login, State: "APPROVED", SubmittedAt: at(hour)}
}

func TestFirstApproval(t *testing.T) {
	tests := []struct {
		name    string
		reviews []model.PullRequestReview
		want    string
		wantOK  bool
	}{
		{name: "none", wantOK: false},
		{name: "single", reviews: []model.PullRequestReview{approved("alice", 1)}, want: "alice", wantOK: true},
		{name: "earliest wins", reviews: []model.PullRequestReview{approved("late", 5), approved("early", 2)}, want: "early", wantOK: true},
		{name: "tie by login", reviews: []model.PullRequestReview{approved("zoe", 3), approved("bob", 3)}, want: "bob", wantOK: true},
		{
			name: "ignores non-approvals",
			reviews: []model.PullRequestReview{
				{Reviewer: "critic", State: "CHANGES_REQUESTED", SubmittedAt: at(0)},
				approved("alice", 4),
			},
			want:   "alice",
			wantOK: true,
		},
		{
			name:    "ignores unsubmitted",
			reviews: []model.PullRequestReview{{Reviewer: "draft", State: "APPROVED"}},
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FirstApproval(tt.reviews)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.Reviewer != tt.want {
				t.Errorf("reviewer = %q, want %q", got.Reviewer, tt.want)
			}
		})
	}
}

func TestCollect(t *testing.T) {
	lister := &fakeLister{pages: []model.PullRequestPage{
		{
			PullRequests: []model.PullRequest{
				{Number: 1, Title: "No reviews"},
				{Number: 2, Title: "Reviewed", Reviews: []model.PullRequestReview{approved("alice", 0)}},
			},
			HasNextPage: true,
			EndCursor:   "next",
		},
		{
			PullRequests: []model.PullRequest{
				{Number: 3, Title: "Newer", Reviews: []model.PullRequestReview{approved("bob", 6), approved("carol", 8)}},
			},
		},
	}}

	got, err := Collect(context.Background(), lister, "owner", "repo")
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if len(lister.calls) != 2 || lister.calls[0] != "" || lister.calls[1] != "next" {
		t.Errorf("unexpected cursors %v", lister.calls)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 reviews, got %+v", got)
	}
	if got[0].PRNumber != 3 || got[0].Reviewer != "bob" {
		t.Errorf("first review = %+v, want PR #3 by bob", got[0])
	}
	if got[1].PRNumber != 2 || got[1].Reviewer != "alice" || got[1].PRTitle != "Reviewed" {
		t.Errorf("second review = %+v, want PR #2 by alice", got[1])
	}
}

func TestCollectError(t *testing.T) {
	lister := &fakeLister{err: &ghclient.APIError{StatusCode: http.StatusUnauthorized, Message: "Bad credentials"}}

	_, err := Collect(context.Background(), lister, "owner", "repo")
	var apiErr *ghclient.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected wrapped 401 APIError, got %v", err)
	}
}

func TestSort(t *testing.T) {
	reviews := []model.Review{
		{PRNumber: 1, SubmittedAt: at(1)},
		{PRNumber: 5, SubmittedAt: at(3)},
		{PRNumber: 4, SubmittedAt: at(3)},
		{PRNumber: 2, SubmittedAt: at(2)},
	}
	Sort(reviews)

	want := []int{5, 4, 2, 1}
	for i, n := range want {
		if reviews[i].PRNumber != n {
			t.Errorf("position %d: PR #%d, want #%d", i, reviews[i].PRNumber, n)
		}
	}
}

func TestExcludeReviewer(t *testing.T) {
	reviews := []model.Review{
		{PRNumber: 2, Reviewer: "alice"},
		{PRNumber: 3, Reviewer: "Owner"},
	}

	got := ExcludeReviewer(reviews, "owner")
	if len(got) != 1 || got[0].Reviewer != "alice" {
		t.Errorf("ExcludeReviewer() = %+v", got)
	}
	if len(reviews) != 2 || reviews[1].Reviewer != "Owner" {
		t.Error("ExcludeReviewer must not modify its input")
	}
	if got := ExcludeReviewer([]model.Review{{Reviewer: "alice"}}, "alice"); len(got) != 0 {
		t.Errorf("expected owner approval to be dropped, got %+v", got)
	}
}

func TestSince(t *testing.T) {
	reviews := []model.Review{
		{PRNumber: 3, SubmittedAt: at(5)},
		{PRNumber: 2, SubmittedAt: at(3)},
		{PRNumber: 1, SubmittedAt: at(1)},
	}

	if got := Since(reviews, time.Time{}); len(got) != 3 {
		t.Errorf("zero cutoff should keep everything, got %d", len(got))
	}
	got := Since(reviews, at(3))
	if len(got) != 2 || got[1].PRNumber != 2 {
		t.Errorf("Since(at(3)) = %+v", got)
	}
}
