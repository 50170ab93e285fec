package xero

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/showroomhq/commission-service/internal/domain"
	"github.com/showroomhq/commission-service/internal/domain/models"
	"github.com/showroomhq/commission-service/internal/domain/ports"
)

const (
	authorizeURL   = "https://login.xero.com/identity/connect/authorize"
	tokenURL       = "https://identity.xero.com/connect/token"
	connectionsURL = "https://api.xero.com/connections"

	// Provider key in the integrations table.
	Provider = "xero"
)

// Scopes requested during the OAuth flow.
var Scopes = []string{
	"offline_access",
	"accounting.transactions",
	"accounting.contacts",
	"accounting.settings",
}

// AuthorizeURL builds the user-facing consent URL for the OAuth flow.
func (c *Client) AuthorizeURL(state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", c.config.ClientID)
	q.Set("redirect_uri", c.config.RedirectURI)
	q.Set("scope", strings.Join(Scopes, " "))
	q.Set("state", state)
	return authorizeURL + "?" + q.Encode()
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// ExchangeCode trades an authorization code for a token set, resolves the
// first available tenant, and persists the connection.
func (c *Client) ExchangeCode(ctx context.Context, code string) error {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.config.RedirectURI)

	tokens, err := c.requestToken(ctx, form)
	if err != nil {
		return domain.WrapError(domain.ErrorCodeAccountingAPIFailure, "exchange authorization code", err)
	}

	tenantID, tenantName, err := c.firstTenant(ctx, tokens.AccessToken)
	if err != nil {
		return domain.WrapError(domain.ErrorCodeAccountingAPIFailure, "resolve tenant", err)
	}

	integ := &models.Integration{
		Provider:   Provider,
		TokenSet:   tokens,
		TenantID:   tenantID,
		TenantName: tenantName,
	}
	if err := c.integrations.Save(ctx, nil, integ); err != nil {
		return domain.WrapError(domain.ErrorCodeDatabaseError, "save integration", err)
	}

	c.logger.Info("xero connected", ports.String("tenant", tenantName))
	return nil
}

// session holds what one API call needs: a live token and the tenant.
type session struct {
	accessToken string
	tenantID    string
}

// getSession loads the stored connection, refreshing the token first when
// it is about to expire. The refreshed token set is persisted before use so
// a crash mid-call cannot strand a rotated refresh token.
func (c *Client) getSession(ctx context.Context) (*session, error) {
	integ, err := c.integrations.Get(ctx, nil, Provider)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "load integration", err)
	}
	if !integ.Connected() {
		return nil, domain.NewDomainError(domain.ErrorCodeAccountingAuthRequired, "Xero is not connected")
	}

	if integ.TokenSet.Expired(time.Now()) {
		form := url.Values{}
		form.Set("grant_type", "refresh_token")
		form.Set("refresh_token", integ.TokenSet.RefreshToken)

		tokens, err := c.requestToken(ctx, form)
		if err != nil {
			return nil, domain.WrapError(domain.ErrorCodeAccountingAuthRequired, "refresh token", err)
		}
		integ.TokenSet = tokens
		if err := c.integrations.Save(ctx, nil, integ); err != nil {
			return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "persist refreshed token", err)
		}
	}

	return &session{accessToken: integ.TokenSet.AccessToken, tenantID: integ.TenantID}, nil
}

func (c *Client) requestToken(ctx context.Context, form url.Values) (*models.TokenSet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	req.SetBasicAuth(c.config.ClientID, c.config.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}

	return &models.TokenSet{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second),
	}, nil
}

func (c *Client) firstTenant(ctx context.Context, accessToken string) (id, name string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, connectionsURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("build connections request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("connections request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("connections endpoint returned %d", resp.StatusCode)
	}

	var conns []struct {
		TenantID   string `json:"tenantId"`
		TenantName string `json:"tenantName"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&conns); err != nil {
		return "", "", fmt.Errorf("decode connections: %w", err)
	}
	if len(conns) == 0 {
		return "", "", fmt.Errorf("no Xero tenant authorized")
	}
	return conns[0].TenantID, conns[0].TenantName, nil
}
