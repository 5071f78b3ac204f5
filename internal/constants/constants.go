// Package constants provides a centralized location for configuration
// values and magic numbers used throughout maintkit.
package constants

import "time"

// GitHub API endpoints
const (
	// GitHubAPIURL is the default REST API base URL.
	GitHubAPIURL = "https://api.github.com/"

	// GitHubGraphQLURL is the default GraphQL endpoint.
	GitHubGraphQLURL = "https://api.github.com/graphql"

	// KeyringService is the secret-service entry holding the API token.
	KeyringService = "gh:github.com"
)

// Request constants
const (
	// RequestTimeout bounds every outgoing HTTP request.
	RequestTimeout = 10 * time.Second

	// RESTPageSize is the per_page value used when listing issues and pulls.
	RESTPageSize = 100

	// GraphQLPageSize is the number of discussions or pull requests per GraphQL page.
	GraphQLPageSize = 50

	// GraphQLCommentPageSize is the number of discussion comments per GraphQL page.
	GraphQLCommentPageSize = 100

	// RateLimitLowWatermark is the threshold below which rate limit
	// warnings are logged.
	RateLimitLowWatermark = 100
)

// Package index constants
const (
	// PyPIURL is the default package index.
	PyPIURL = "https://pypi.org"

	// IndexCacheTTL is the default lifetime of cached release listings.
	IndexCacheTTL = 1 * time.Hour

	// IndexMemoSize is the number of release listings kept in memory.
	IndexMemoSize = 128
)

// Output file defaults
const (
	// ContributorsFile is where collected contributors are persisted.
	ContributorsFile = "contributors.yaml"

	// Manifest is the default Python project manifest.
	Manifest = "pyproject.toml"

	// TruncationSuffixWidth is the width of the "..." suffix when truncating strings.
	TruncationSuffixWidth = 3

	// MaxTitleWidth bounds PR titles in the text review report.
	MaxTitleWidth = 72
)

// Review state constants
const (
	// ReviewStateApproved indicates an approving pull request review.
	ReviewStateApproved = "APPROVED"
)
