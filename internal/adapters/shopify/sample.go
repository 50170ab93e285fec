package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/showroomhq/commission-service/internal/domain/models"
)

// SampleSource serves orders from a local JSON file in the same edges/node
// shape the live API returns, so the boundary validation path is shared.
// It backs report generation when Shopify credentials are absent.
type SampleSource struct {
	Path string // e.g. "data/orders-30d.json"
}

// NewSampleSource creates a sample source reading from path.
func NewSampleSource(path string) *SampleSource {
	return &SampleSource{Path: path}
}

// Configured reports whether the sample file exists.
func (s *SampleSource) Configured() bool {
	if s.Path == "" {
		return false
	}
	_, err := os.Stat(s.Path)
	return err == nil
}

// FetchOrders loads and validates the whole sample file. The window bounds
// are ignored: the file is assumed to already cover the look-back window.
func (s *SampleSource) FetchOrders(_ context.Context, _, _ time.Time) ([]models.Order, error) {
	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read sample orders: %w", err)
	}

	var wireOrders []gqlOrder
	if err := json.Unmarshal(raw, &wireOrders); err != nil {
		return nil, fmt.Errorf("decode sample orders: %w", err)
	}

	out := make([]models.Order, 0, len(wireOrders))
	for _, w := range wireOrders {
		order, err := decodeOrder(w)
		if err != nil {
			return nil, fmt.Errorf("decode sample order %s: %w", w.ID, err)
		}
		out = append(out, order)
	}
	return out, nil
}
