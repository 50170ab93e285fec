package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/showroomhq/commission-service/internal/domain/ports"
)

// envSecretManager implements SecretManager from environment variables.
// For development only; production deployments use AWS Secrets Manager.
type envSecretManager struct {
	prefix string
}

// NewEnvSecretManager creates a secret manager backed by environment
// variables. The path "commission-service/shopify-token" maps to the
// variable SHOPIFY_TOKEN (path base, upper-snake).
func NewEnvSecretManager() ports.SecretManager {
	return &envSecretManager{}
}

// GetSecret retrieves a secret from the environment
func (m *envSecretManager) GetSecret(_ context.Context, path string) (*ports.Secret, error) {
	parts := strings.Split(path, "/")
	name := parts[len(parts)-1]
	key := strings.ToUpper(strings.ReplaceAll(name, "-", "_"))

	value, ok := os.LookupEnv(key)
	if !ok {
		return nil, fmt.Errorf("secret not found: %s (env %s)", path, key)
	}
	return &ports.Secret{Value: value, Version: "env"}, nil
}
