package ports

import "context"

// Secret represents a retrieved secret with metadata
type Secret struct {
	Value    string            // The secret value
	Version  string            // Secret version identifier
	Metadata map[string]string // Additional secret metadata
}

// SecretManager defines the port for retrieving credentials (Shopify admin
// token, Xero client secret) from a secret management service.
// Implementations handle authentication with the backend and caching.
type SecretManager interface {
	// GetSecret retrieves a secret by its path/name.
	// AWS path format: "commission-service/{name}"
	GetSecret(ctx context.Context, path string) (*Secret, error)
}
