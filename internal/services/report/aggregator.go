package report

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/showroomhq/commission-service/internal/domain/models"
)

// AggregateOrders folds a batch of orders into one VendorAggregate per
// distinct vendor name. It is a pure single pass: no I/O, no shared state,
// and the result is independent of the input order sequence.
//
// Per order:
//  1. sum the shipping lines into one order shipping total
//  2. fold each line item into its vendor's units and gross, tracking the
//     vendor's gross within this order for the shipping split
//  3. fold refund line items into the vendor of the refunded line item;
//     a refund may reference a vendor with no aggregate yet (the refunded
//     order can predate the window), which creates one on demand
//  4. split the order's shipping across touched vendors in proportion to
//     their gross in this order; zero touched gross means zero shipping
//  5. record the order id against each touched vendor; refund-only vendors
//     do not count the order
//
// Results are sorted by vendor name.
func AggregateOrders(orders []models.Order) []*models.VendorAggregate {
	byVendor := make(map[string]*models.VendorAggregate)

	get := func(vendor, currency string) *models.VendorAggregate {
		agg, ok := byVendor[vendor]
		if !ok {
			agg = models.NewVendorAggregate(vendor, currency)
			byVendor[vendor] = agg
		}
		return agg
	}

	for i := range orders {
		o := &orders[i]
		orderShipping := o.ShippingTotal()

		// Gross per vendor within this order only. The shipping split must
		// not be weighted by gross carried over from other orders, or the
		// result would depend on input ordering.
		touched := make(map[string]decimal.Decimal)

		for _, li := range o.LineItems {
			vendor := models.VendorName(li.Vendor)
			agg := get(vendor, o.CurrencyCode)
			agg.Currency = o.CurrencyCode
			agg.Units += int64(li.Quantity)
			agg.Gross = agg.Gross.Add(li.DiscountedTotal)
			touched[vendor] = touched[vendor].Add(li.DiscountedTotal)
		}

		for _, rf := range o.Refunds {
			for _, rli := range rf.LineItems {
				vendor := models.VendorName(rli.Vendor)
				agg := get(vendor, o.CurrencyCode)
				agg.Refunds = agg.Refunds.Add(rli.Subtotal)
			}
		}

		touchedGross := decimal.Zero
		for _, gross := range touched {
			touchedGross = touchedGross.Add(gross)
		}

		for vendor, gross := range touched {
			agg := byVendor[vendor]
			if touchedGross.IsPositive() {
				agg.Shipping = agg.Shipping.Add(orderShipping.Mul(gross).Div(touchedGross))
			}
			agg.OrderIDs[o.ID] = struct{}{}
		}
	}

	out := make([]*models.VendorAggregate, 0, len(byVendor))
	for _, agg := range byVendor {
		out = append(out, agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Vendor < out[j].Vendor })

	return out
}
