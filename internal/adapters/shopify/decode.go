package shopify

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/showroomhq/commission-service/internal/domain/models"
)

// Wire shapes for the loose edges/node GraphQL payload. Absent collections
// decode to empty slices; a value that is present but malformed is an
// explicit ingestion error rather than a silent zero.

type gqlOrderConnection struct {
	PageInfo gqlPageInfo `json:"pageInfo"`
	Edges    []struct {
		Node gqlOrder `json:"node"`
	} `json:"edges"`
}

type gqlPageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type gqlOrder struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CreatedAt    string `json:"createdAt"`
	CurrencyCode string `json:"currencyCode"`
	LineItems    struct {
		Edges []struct {
			Node gqlLineItem `json:"node"`
		} `json:"edges"`
	} `json:"lineItems"`
	ShippingLines struct {
		Edges []struct {
			Node struct {
				PriceSet gqlMoneySet `json:"priceSet"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"shippingLines"`
	Refunds struct {
		Edges []struct {
			Node gqlRefund `json:"node"`
		} `json:"edges"`
	} `json:"refunds"`
}

type gqlLineItem struct {
	ID                 string      `json:"id"`
	Vendor             string      `json:"vendor"`
	SKU                string      `json:"sku"`
	Quantity           int32       `json:"quantity"`
	DiscountedTotalSet gqlMoneySet `json:"discountedTotalSet"`
}

type gqlRefund struct {
	ID              string `json:"id"`
	CreatedAt       string `json:"createdAt"`
	RefundLineItems struct {
		Edges []struct {
			Node gqlRefundLineItem `json:"node"`
		} `json:"edges"`
	} `json:"refundLineItems"`
}

type gqlRefundLineItem struct {
	Quantity    int32       `json:"quantity"`
	SubtotalSet gqlMoneySet `json:"subtotalSet"`
	LineItem    struct {
		ID     string `json:"id"`
		Vendor string `json:"vendor"`
		SKU    string `json:"sku"`
	} `json:"lineItem"`
}

type gqlMoneySet struct {
	ShopMoney struct {
		Amount string `json:"amount"`
	} `json:"shopMoney"`
}

// amount parses the shop-money amount, treating absent as zero.
func (m gqlMoneySet) amount() (decimal.Decimal, error) {
	if m.ShopMoney.Amount == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(m.ShopMoney.Amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("malformed amount %q: %w", m.ShopMoney.Amount, err)
	}
	return d, nil
}

// decodeOrder validates one loose wire order into the strict domain shape.
func decodeOrder(raw gqlOrder) (models.Order, error) {
	order := models.Order{
		ID:           raw.ID,
		Name:         raw.Name,
		CurrencyCode: raw.CurrencyCode,
	}

	if raw.CreatedAt != "" {
		createdAt, err := time.Parse(time.RFC3339, raw.CreatedAt)
		if err != nil {
			return order, fmt.Errorf("malformed createdAt %q: %w", raw.CreatedAt, err)
		}
		order.CreatedAt = createdAt
	}

	for _, edge := range raw.LineItems.Edges {
		li := edge.Node
		total, err := li.DiscountedTotalSet.amount()
		if err != nil {
			return order, fmt.Errorf("line item %s: %w", li.ID, err)
		}
		order.LineItems = append(order.LineItems, models.LineItem{
			ID:              li.ID,
			Vendor:          li.Vendor,
			SKU:             li.SKU,
			Quantity:        li.Quantity,
			DiscountedTotal: total,
		})
	}

	for _, edge := range raw.ShippingLines.Edges {
		amount, err := edge.Node.PriceSet.amount()
		if err != nil {
			return order, fmt.Errorf("shipping line: %w", err)
		}
		order.ShippingLines = append(order.ShippingLines, models.ShippingCharge{Amount: amount})
	}

	for _, edge := range raw.Refunds.Edges {
		rf := edge.Node
		refund := models.Refund{}
		if rf.CreatedAt != "" {
			createdAt, err := time.Parse(time.RFC3339, rf.CreatedAt)
			if err != nil {
				return order, fmt.Errorf("refund %s: malformed createdAt: %w", rf.ID, err)
			}
			refund.CreatedAt = createdAt
		}
		for _, rliEdge := range rf.RefundLineItems.Edges {
			rli := rliEdge.Node
			subtotal, err := rli.SubtotalSet.amount()
			if err != nil {
				return order, fmt.Errorf("refund %s: %w", rf.ID, err)
			}
			refund.LineItems = append(refund.LineItems, models.RefundLineItem{
				Subtotal: subtotal,
				Vendor:   rli.LineItem.Vendor,
				SKU:      rli.LineItem.SKU,
			})
		}
		order.Refunds = append(order.Refunds, refund)
	}

	return order, nil
}
