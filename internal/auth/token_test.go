package auth

import (
	"errors"
	"testing"

	"github.com/spiffcs/maintkit/internal/constants"
	"github.com/zalando/go-keyring"
)

func TestResolveToken(t *testing.T) {
	tests := []struct {
		name       string
		flag       string
		env        string
		keyring    string
		wantToken  string
		wantSource Source
		wantErr    error
	}{
		{
			name:       "flag wins",
			flag:       "from-flag",
			env:        "from-env",
			keyring:    "from-keyring",
			wantToken:  "from-flag",
			wantSource: SourceFlag,
		},
		{
			name:       "env before keyring",
			env:        "from-env",
			keyring:    "from-keyring",
			wantToken:  "from-env",
			wantSource: SourceEnv,
		},
		{
			name:       "keyring fallback",
			keyring:    "from-keyring",
			wantToken:  "from-keyring",
			wantSource: SourceKeyring,
		},
		{
			name:    "nothing configured",
			wantErr: ErrTokenNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keyring.MockInit()
			t.Setenv(EnvVar, tt.env)
			if tt.keyring != "" {
				if err := keyring.Set(constants.KeyringService, "", tt.keyring); err != nil {
					t.Fatalf("seeding keyring: %v", err)
				}
			}

			token, source, err := ResolveToken(tt.flag)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if token != tt.wantToken {
				t.Errorf("token = %q, want %q", token, tt.wantToken)
			}
			if source != tt.wantSource {
				t.Errorf("source = %q, want %q", source, tt.wantSource)
			}
		})
	}
}

func TestErrTokenNotFoundMessage(t *testing.T) {
	want := `GitHub API token not found in keyring. Please set it using 'secret-tool store --label="GitHub API Token" service gh:github.com github_api_token'`
	if ErrTokenNotFound.Error() != want {
		t.Errorf("unexpected message %q", ErrTokenNotFound.Error())
	}
}
