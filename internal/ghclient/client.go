package ghclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/shurcooL/graphql"
	"github.com/spiffcs/maintkit/internal/constants"
	"github.com/spiffcs/maintkit/internal/log"
	"golang.org/x/oauth2"
)

// userAgent identifies maintkit to the GitHub API.
const userAgent = "maintkit"

// loggingTransport wraps an http.RoundTripper to log requests and rate limit headers.
// It never waits or retries; quota exhaustion surfaces as an API error.
type loggingTransport struct {
	base http.RoundTripper
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return resp, err
	}
	log.Debug("github request", "method", req.Method, "url", req.URL.String(), "status", resp.StatusCode, "elapsed", time.Since(start).Round(time.Millisecond))
	if log.IsTrace() {
		log.Trace("github response headers", "url", req.URL.String(), "headers", resp.Header)
	}

	remaining, limit, resetAt := parseRateLimitHeaders(resp)
	if remaining >= 0 && limit > 0 {
		log.Trace("rate limit", "remaining", remaining, "limit", limit, "resets_at", resetAt.Format(time.RFC3339))
	}
	if remaining >= 0 && remaining <= constants.RateLimitLowWatermark {
		log.Warn("rate limit low", "remaining", remaining, "resets_at", resetAt.Format(time.RFC3339))
	}

	return resp, nil
}

// parseRateLimitHeaders extracts rate limit info from response headers.
func parseRateLimitHeaders(resp *http.Response) (remaining, limit int, resetAt time.Time) {
	remaining = -1
	limit = -1

	if remainingStr := resp.Header.Get("X-RateLimit-Remaining"); remainingStr != "" {
		if rem, err := strconv.Atoi(remainingStr); err == nil {
			remaining = rem
		}
	}

	if limitStr := resp.Header.Get("X-RateLimit-Limit"); limitStr != "" {
		if lim, err := strconv.Atoi(limitStr); err == nil {
			limit = lim
		}
	}

	if resetStr := resp.Header.Get("X-RateLimit-Reset"); resetStr != "" {
		if resetTime, err := strconv.ParseInt(resetStr, 10, 64); err == nil {
			resetAt = time.Unix(resetTime, 0)
		}
	}

	return remaining, limit, resetAt
}

// Options configures a Client.
type Options struct {
	// Token authenticates every request. Empty sends unauthenticated requests.
	Token string
	// APIURL is the REST base URL. Defaults to constants.GitHubAPIURL.
	APIURL string
	// GraphQLURL is the GraphQL endpoint. Defaults to constants.GitHubGraphQLURL.
	GraphQLURL string
	// Transport is the base round tripper. Defaults to http.DefaultTransport.
	Transport http.RoundTripper
}

// Client wraps the GitHub REST and GraphQL clients.
type Client struct {
	rest       *gh.Client
	graphql    *graphql.Client
	graphqlURL string
}

// NewClient creates a new GitHub client. Every request is bounded by
// constants.RequestTimeout.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	if opts.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		base = &oauth2.Transport{Source: oauth2.ReuseTokenSource(nil, ts), Base: base}
	}

	httpClient := &http.Client{
		Transport: &loggingTransport{base: base},
		Timeout:   constants.RequestTimeout,
	}

	apiURL := opts.APIURL
	if apiURL == "" {
		apiURL = constants.GitHubAPIURL
	}
	if !strings.HasSuffix(apiURL, "/") {
		apiURL += "/"
	}
	baseURL, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API URL %q: %w", apiURL, err)
	}

	graphqlURL := opts.GraphQLURL
	if graphqlURL == "" {
		graphqlURL = constants.GitHubGraphQLURL
	}

	rest := gh.NewClient(httpClient)
	rest.BaseURL = baseURL
	rest.UserAgent = userAgent

	log.Debug("github client ready", "api_url", baseURL.String(), "graphql_url", graphqlURL, "authenticated", opts.Token != "")

	return &Client{
		rest:       rest,
		graphql:    graphql.NewClient(graphqlURL, httpClient),
		graphqlURL: graphqlURL,
	}, nil
}

// RateLimits fetches the current GitHub API rate limit status.
func (c *Client) RateLimits(ctx context.Context) (*gh.RateLimits, error) {
	limits, _, err := c.rest.RateLimit.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limits: %w", wrapRESTError(err))
	}
	return limits, nil
}
