package shopify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/showroomhq/commission-service/internal/adapters/logger"
)

// stubHTTP feeds canned GraphQL responses and records the requests made.
type stubHTTP struct {
	responses []string
	requests  []capturedRequest
}

type capturedRequest struct {
	url   string
	token string
	body  map[string]interface{}
}

func (s *stubHTTP) Do(req *http.Request) (*http.Response, error) {
	raw, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	s.requests = append(s.requests, capturedRequest{
		url:   req.URL.String(),
		token: req.Header.Get("X-Shopify-Access-Token"),
		body:  body,
	})

	i := len(s.requests) - 1
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(s.responses[i])),
		Header:     make(http.Header),
	}, nil
}

func newTestClient(t *testing.T, stub *stubHTTP) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.StoreDomain = "test-store.myshopify.com"
	cfg.AccessToken = "shpat_test"
	return NewClient(cfg, stub, logger.NewZap(zaptest.NewLogger(t)))
}

func page(hasNext bool, cursor string, orders ...string) string {
	return `{"data":{"orders":{` +
		`"pageInfo":{"hasNextPage":` + map[bool]string{true: "true", false: "false"}[hasNext] +
		`,"endCursor":"` + cursor + `"},` +
		`"edges":[` + strings.Join(orders, ",") + `]}}}`
}

func orderNode(id, vendor, amount string) string {
	return `{"node":{"id":"` + id + `","name":"#1","createdAt":"2026-08-10T00:00:00Z",` +
		`"currencyCode":"AUD","lineItems":{"edges":[{"node":{"id":"li1","vendor":"` + vendor +
		`","sku":"S","quantity":1,"discountedTotalSet":{"shopMoney":{"amount":"` + amount + `"}}}}]}}}`
}

func window() (time.Time, time.Time) {
	end := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	return end.Add(-30 * 24 * time.Hour), end
}

func TestFetchOrders_Paginates(t *testing.T) {
	stub := &stubHTTP{responses: []string{
		page(true, "cursor-1", orderNode("gid://shopify/Order/1", "A", "10.00")),
		page(false, "", orderNode("gid://shopify/Order/2", "B", "20.00")),
	}}
	client := newTestClient(t, stub)

	start, end := window()
	orders, err := client.FetchOrders(context.Background(), start, end)
	require.NoError(t, err)

	require.Len(t, orders, 2)
	assert.Equal(t, "gid://shopify/Order/1", orders[0].ID)
	assert.Equal(t, "gid://shopify/Order/2", orders[1].ID)

	// Second request carries the cursor from the first page.
	require.Len(t, stub.requests, 2)
	vars1 := stub.requests[0].body["variables"].(map[string]interface{})
	_, hasCursor := vars1["cursor"]
	assert.False(t, hasCursor)
	vars2 := stub.requests[1].body["variables"].(map[string]interface{})
	assert.Equal(t, "cursor-1", vars2["cursor"])
}

func TestFetchOrders_RequestShape(t *testing.T) {
	stub := &stubHTTP{responses: []string{page(false, "")}}
	client := newTestClient(t, stub)

	start, end := window()
	_, err := client.FetchOrders(context.Background(), start, end)
	require.NoError(t, err)

	require.Len(t, stub.requests, 1)
	req := stub.requests[0]
	assert.Equal(t, "https://test-store.myshopify.com/admin/api/2025-01/graphql.json", req.url)
	assert.Equal(t, "shpat_test", req.token)

	vars := req.body["variables"].(map[string]interface{})
	q := vars["q"].(string)
	assert.Contains(t, q, "created_at:>=2026-07-29T00:00:00Z")
	assert.Contains(t, q, "created_at:<2026-08-28T00:00:00Z")
	assert.Contains(t, q, "status:any")
}

func TestFetchOrders_GraphQLError(t *testing.T) {
	stub := &stubHTTP{responses: []string{
		`{"errors":[{"message":"Throttled"}]}`,
	}}
	client := newTestClient(t, stub)

	start, end := window()
	_, err := client.FetchOrders(context.Background(), start, end)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Throttled")
}

func TestFetchOrders_MalformedAmountFailsWindow(t *testing.T) {
	// A malformed order anywhere in the window fails the whole fetch; a
	// partial batch would silently understate vendor totals.
	stub := &stubHTTP{responses: []string{
		page(false, "",
			orderNode("gid://shopify/Order/1", "A", "10.00"),
			orderNode("gid://shopify/Order/2", "B", "not-money")),
	}}
	client := newTestClient(t, stub)

	start, end := window()
	_, err := client.FetchOrders(context.Background(), start, end)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gid://shopify/Order/2")
}

func TestConfigured(t *testing.T) {
	cfg := DefaultConfig()
	client := NewClient(cfg, &stubHTTP{}, logger.NewZap(zaptest.NewLogger(t)))
	assert.False(t, client.Configured())

	cfg.StoreDomain = "s.myshopify.com"
	assert.False(t, client.Configured())

	cfg.AccessToken = "shpat_x"
	assert.True(t, client.Configured())
}
