package auth

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/custodia-labs/docket-cli/internal/core/domain"
	"github.com/custodia-labs/docket-cli/internal/core/ports/driven"
)

// Ensure PATProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*PATProvider)(nil)

const (
	// TokenKey is the configuration key holding the GitHub token.
	TokenKey = "github.token"

	// TokenEnv overrides the configured token.
	TokenEnv = "DOCKET_GITHUB_TOKEN"
)

// PATProvider provides a static Personal Access Token read from the
// environment or the config store. PATs don't expire and are never refreshed.
type PATProvider struct {
	config driven.ConfigStore
}

// NewPATProvider creates a token provider backed by config.
// config may be nil, in which case only the environment is consulted.
func NewPATProvider(config driven.ConfigStore) *PATProvider {
	return &PATProvider{config: config}
}

// GetToken returns the PAT. The environment takes precedence.
func (p *PATProvider) GetToken(_ context.Context) (string, error) {
	token := p.lookup()
	if token == "" {
		return "", fmt.Errorf("no token in %s or %s: %w", TokenEnv, TokenKey, domain.ErrAuthRequired)
	}
	return token, nil
}

// AuthMethod returns AuthMethodPAT.
func (p *PATProvider) AuthMethod() domain.AuthMethod {
	return domain.AuthMethodPAT
}

// IsAuthenticated returns true if a token is available.
func (p *PATProvider) IsAuthenticated() bool {
	return p.lookup() != ""
}

func (p *PATProvider) lookup() string {
	if token := strings.TrimSpace(os.Getenv(TokenEnv)); token != "" {
		return token
	}
	if p.config == nil {
		return ""
	}
	return strings.TrimSpace(p.config.GetString(TokenKey))
}
