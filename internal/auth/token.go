// Package auth resolves the GitHub API token.
package auth

import (
	"errors"
	"fmt"
	"os"

	"github.com/spiffcs/maintkit/internal/constants"
	"github.com/spiffcs/maintkit/internal/log"
	"github.com/zalando/go-keyring"
)

// ErrTokenNotFound is returned when no token is available from any source.
var ErrTokenNotFound = errors.New(`GitHub API token not found in keyring. Please set it using 'secret-tool store --label="GitHub API Token" service gh:github.com github_api_token'`)

// Source names where a token came from.
type Source string

const (
	SourceFlag    Source = "flag"
	SourceEnv     Source = "env"
	SourceKeyring Source = "keyring"
)

// EnvVar is the environment variable consulted after the flag.
const EnvVar = "GITHUB_TOKEN"

// ResolveToken returns the token from the flag value, then GITHUB_TOKEN,
// then the OS keyring entry for service gh:github.com with an empty user.
func ResolveToken(flag string) (string, Source, error) {
	if flag != "" {
		return flag, SourceFlag, nil
	}
	if token := os.Getenv(EnvVar); token != "" {
		return token, SourceEnv, nil
	}

	token, err := keyring.Get(constants.KeyringService, "")
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return "", "", ErrTokenNotFound
	case err != nil:
		log.Debug("keyring lookup failed", "service", constants.KeyringService, "error", err)
		return "", "", fmt.Errorf("%w (keyring: %v)", ErrTokenNotFound, err)
	case token == "":
		return "", "", ErrTokenNotFound
	}
	return token, SourceKeyring, nil
}
