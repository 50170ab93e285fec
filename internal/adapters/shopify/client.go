package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/showroomhq/commission-service/internal/domain/models"
	"github.com/showroomhq/commission-service/internal/domain/ports"
)

// APIVersion is the Shopify Admin GraphQL API version this client speaks.
const APIVersion = "2025-01"

// Config contains configuration for the Shopify order source
type Config struct {
	StoreDomain string // e.g. "my-store.myshopify.com"
	AccessToken string // Admin API access token
	Timeout     time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{Timeout: 30 * time.Second}
}

// Client fetches orders from the Shopify Admin GraphQL API. It implements
// ports.OrderSource.
type Client struct {
	config     *Config
	httpClient ports.HTTPClient
	logger     ports.Logger
}

// NewClient creates a new Shopify client
func NewClient(config *Config, httpClient ports.HTTPClient, logger ports.Logger) *Client {
	return &Client{
		config:     config,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Configured reports whether store domain and access token are present.
func (c *Client) Configured() bool {
	return c.config.StoreDomain != "" && c.config.AccessToken != ""
}

const ordersQuery = `
query Orders($q: String!, $cursor: String) {
  orders(first: 100, after: $cursor, query: $q, sortKey: CREATED_AT) {
    pageInfo { hasNextPage endCursor }
    edges {
      node {
        id
        name
        createdAt
        currencyCode
        lineItems(first: 250) {
          edges { node {
            id
            vendor
            sku
            quantity
            discountedTotalSet { shopMoney { amount } }
          } }
        }
        shippingLines(first: 10) {
          edges { node { priceSet { shopMoney { amount } } } }
        }
        refunds(first: 50) {
          edges { node {
            id
            createdAt
            refundLineItems(first: 250) {
              edges { node {
                quantity
                subtotalSet { shopMoney { amount } }
                lineItem { id vendor sku }
              } }
            }
          } }
        }
      }
    }
  }
}`

// FetchOrders returns every order created in [start, end). Pages are
// fetched sequentially and in page order; the full window is returned or
// an error, never a partial batch, because vendor totals are only correct
// over the complete window.
func (c *Client) FetchOrders(ctx context.Context, start, end time.Time) ([]models.Order, error) {
	query := fmt.Sprintf("created_at:>=%s AND created_at:<%s status:any",
		start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))

	var (
		out    []models.Order
		cursor *string
		pages  int
	)
	for {
		page, err := c.fetchPage(ctx, query, cursor)
		if err != nil {
			return nil, err
		}
		pages++

		for _, edge := range page.Edges {
			order, err := decodeOrder(edge.Node)
			if err != nil {
				return nil, fmt.Errorf("decode order %s: %w", edge.Node.ID, err)
			}
			out = append(out, order)
		}

		if !page.PageInfo.HasNextPage {
			break
		}
		cursor = &page.PageInfo.EndCursor
	}

	c.logger.Debug("fetched order window",
		ports.Int("orders", len(out)),
		ports.Int("pages", pages))
	return out, nil
}

func (c *Client) fetchPage(ctx context.Context, query string, cursor *string) (*gqlOrderConnection, error) {
	variables := map[string]interface{}{"q": query}
	if cursor != nil {
		variables["cursor"] = *cursor
	}

	var data struct {
		Orders gqlOrderConnection `json:"orders"`
	}
	if err := c.gql(ctx, ordersQuery, variables, &data); err != nil {
		return nil, err
	}
	return &data.Orders, nil
}

// gql executes one GraphQL request and decodes the data payload into out.
func (c *Client) gql(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(map[string]interface{}{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return fmt.Errorf("marshal graphql request: %w", err)
	}

	url := fmt.Sprintf("https://%s/admin/api/%s/graphql.json", c.config.StoreDomain, APIVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build graphql request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.config.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("shopify request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read shopify response: %w", err)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("decode shopify response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || len(envelope.Errors) > 0 {
		msg := ""
		if len(envelope.Errors) > 0 {
			msg = envelope.Errors[0].Message
		}
		return fmt.Errorf("shopify graphql error (status %d): %s", resp.StatusCode, msg)
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode shopify data: %w", err)
	}
	return nil
}
