package ports

import (
	"context"
	"time"

	"github.com/showroomhq/commission-service/internal/domain/models"
)

// OrderSource fetches the raw order batch for an aggregation window.
//
// Implementations must return the complete window before the assembler
// folds it: vendor totals are only correct once every page has been
// fetched, so paginated sources fetch pages sequentially and in page order
// and never hand back a partial window.
type OrderSource interface {
	// FetchOrders returns all orders created in [start, end).
	FetchOrders(ctx context.Context, start, end time.Time) ([]models.Order, error)

	// Configured reports whether the source has credentials to fetch live
	// data. An unconfigured source lets the assembler skip straight to the
	// sample dataset.
	Configured() bool
}
