package models

import "time"

// TokenSet holds the OAuth2 tokens for an accounting integration.
type TokenSet struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the access token needs a refresh. A small skew
// margin avoids using a token that expires mid-request.
func (t *TokenSet) Expired(now time.Time) bool {
	return !now.Add(30 * time.Second).Before(t.ExpiresAt)
}

// Integration is the stored connection state for an external provider
// (currently only "xero"). One row per provider.
type Integration struct {
	Provider   string
	TokenSet   *TokenSet // nil until the OAuth flow completes
	TenantID   string
	TenantName string
	UpdatedAt  time.Time
}

// Connected reports whether the integration can make API calls.
func (i *Integration) Connected() bool {
	return i != nil && i.TokenSet != nil && i.TenantID != ""
}
