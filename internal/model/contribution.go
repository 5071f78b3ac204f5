// Package model contains domain types for maintkit.
// These types are independent of any external GitHub library.
package model

import "fmt"

// Endpoint is the GitHub resource an activity was observed on.
type Endpoint string

const (
	EndpointIssues      Endpoint = "issues"
	EndpointPulls       Endpoint = "pulls"
	EndpointCommits     Endpoint = "commits"
	EndpointDiscussions Endpoint = "discussions"
)

// Singular returns the endpoint name used in progress lines ("issue", "pull").
func (e Endpoint) Singular() string {
	s := string(e)
	if len(s) > 0 && s[len(s)-1] == 's' {
		return s[:len(s)-1]
	}
	return s
}

// Role describes how a user took part in an item.
type Role string

const (
	RoleAuthor    Role = "author"
	RoleCommenter Role = "commenter"
)

// ContributionKey identifies an (endpoint, role) pair.
type ContributionKey struct {
	Endpoint Endpoint
	Role     Role
}

func (k ContributionKey) String() string {
	return fmt.Sprintf("%s/%s", k.Endpoint, k.Role)
}

// Contribution is one attributable kind of contribution. Values are
// compared with == for deduplication.
type Contribution struct {
	LinkType string `yaml:"link_type" json:"link_type"`
	Type     string `yaml:"type" json:"type"`
}

// Contribution type labels.
const (
	TypeBugReports = "Bug reports"
	TypeCode       = "Code"
	TypeReviewedPR = "Reviewed Pull Requests"
)

// LookupContribution maps an (endpoint, role) pair to its contribution kind.
// The table is fixed; ok is false for pairs outside it.
func LookupContribution(key ContributionKey) (Contribution, bool) {
	switch key {
	case ContributionKey{EndpointIssues, RoleAuthor}:
		return Contribution{LinkType: "issues", Type: TypeBugReports}, true
	case ContributionKey{EndpointIssues, RoleCommenter}:
		return Contribution{LinkType: "search-comments", Type: TypeBugReports}, true
	case ContributionKey{EndpointPulls, RoleAuthor}:
		return Contribution{LinkType: "pulls-author", Type: TypeCode}, true
	case ContributionKey{EndpointPulls, RoleCommenter}:
		return Contribution{LinkType: "search-comments", Type: TypeReviewedPR}, true
	case ContributionKey{EndpointCommits, RoleAuthor}:
		return Contribution{LinkType: "commits", Type: TypeCode}, true
	case ContributionKey{EndpointDiscussions, RoleAuthor}:
		return Contribution{LinkType: "search-discussions", Type: TypeBugReports}, true
	case ContributionKey{EndpointDiscussions, RoleCommenter}:
		return Contribution{LinkType: "search-comments", Type: TypeBugReports}, true
	}
	return Contribution{}, false
}

// ContributionKeys lists every key LookupContribution knows, in table order.
func ContributionKeys() []ContributionKey {
	return []ContributionKey{
		{EndpointIssues, RoleAuthor},
		{EndpointIssues, RoleCommenter},
		{EndpointPulls, RoleAuthor},
		{EndpointPulls, RoleCommenter},
		{EndpointCommits, RoleAuthor},
		{EndpointDiscussions, RoleAuthor},
		{EndpointDiscussions, RoleCommenter},
	}
}
