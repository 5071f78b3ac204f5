package ghclient

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	gh "github.com/google/go-github/v57/github"
)

// APIError is a non-successful GitHub API response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("GitHub API request failed with status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("GitHub API request to %s failed with status %d: %s", e.URL, e.StatusCode, e.Message)
}

// NotFound reports whether the resource does not exist or is disabled.
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsNotFound reports whether err is a not-found class error from either API.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.NotFound()
	}
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode == http.StatusNotFound
	}
	return isGraphQLNotFound(err.Error())
}

func isGraphQLNotFound(msg string) bool {
	return strings.Contains(msg, "Could not resolve") || strings.Contains(msg, "NOT_FOUND")
}

// wrapRESTError converts go-github response errors to *APIError.
func wrapRESTError(err error) error {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
			URL:        requestURL(ghErr.Response),
		}
	}
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) && rateErr.Response != nil {
		return &APIError{
			StatusCode: rateErr.Response.StatusCode,
			Message:    rateErr.Message,
			URL:        requestURL(rateErr.Response),
		}
	}
	return err
}

func requestURL(resp *http.Response) string {
	if resp.Request == nil || resp.Request.URL == nil {
		return ""
	}
	return resp.Request.URL.String()
}

var nonOKStatus = regexp.MustCompile(`non-200 OK status code: (\d{3})[^"]*body: "(.*)"`)

// wrapGraphQLError converts transport and GraphQL errors to *APIError where
// a status can be recovered.
func (c *Client) wrapGraphQLError(err error) error {
	msg := err.Error()
	if m := nonOKStatus.FindStringSubmatch(msg); m != nil {
		code, _ := strconv.Atoi(m[1])
		return &APIError{StatusCode: code, Message: m[2], URL: c.graphqlURL}
	}
	if isGraphQLNotFound(msg) {
		return &APIError{StatusCode: http.StatusNotFound, Message: msg, URL: c.graphqlURL}
	}
	return fmt.Errorf("GraphQL query failed: %w", err)
}
