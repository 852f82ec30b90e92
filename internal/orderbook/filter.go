package orderbook

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// FilterLarge keeps orders whose quantity is at least minQty, preserving order.
// When exclude is non-empty, orders owned by exclude are dropped as well.
func FilterLarge(orders []Order, minQty decimal.Decimal, exclude string) []Order {
	return lo.Filter(orders, func(o Order, _ int) bool {
		if exclude != "" && o.Owner == exclude {
			return false
		}
		return o.Quantity.GreaterThanOrEqual(minQty)
	})
}

// OwnedBy keeps orders placed by owner, preserving order.
func OwnedBy(orders []Order, owner string) []Order {
	return lo.Filter(orders, func(o Order, _ int) bool {
		return o.Owner == owner
	})
}

// NotOwnedBy drops orders placed by owner, preserving order.
func NotOwnedBy(orders []Order, owner string) []Order {
	return lo.Reject(orders, func(o Order, _ int) bool {
		return o.Owner == owner
	})
}
