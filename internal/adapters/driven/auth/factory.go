package auth

import (
	"os"

	"github.com/custodia-labs/docket-cli/internal/core/ports/driven"
)

// NewTokenProvider returns a PATProvider when a token is configured and a
// NullTokenProvider otherwise.
func NewTokenProvider(config driven.ConfigStore) driven.TokenProvider {
	pat := NewPATProvider(config)
	if pat.IsAuthenticated() {
		return pat
	}
	return NewNullTokenProvider()
}

// HasEnvToken reports whether the token comes from the environment, in which
// case the configured token is ignored.
func HasEnvToken() bool {
	return os.Getenv(TokenEnv) != ""
}
