package detector

import (
	"github.com/shopspring/decimal"

	"orderbook-alerts/internal/orderbook"
)

// ReferencePrice is the bridge-to-quote conversion rate for one cycle.
// Available is false when no bid met the size threshold; callers must skip
// cross-pair detection rather than treat Price as zero.
type ReferencePrice struct {
	Price     decimal.Decimal
	Available bool
}

// Unavailable is the zero ReferencePrice.
var Unavailable = ReferencePrice{}

// ResolveReferencePrice returns the highest bid price among bids of at least
// minQty. On equal prices the first bid in book order wins.
func ResolveReferencePrice(book orderbook.Snapshot, minQty decimal.Decimal) ReferencePrice {
	ref := Unavailable
	for _, bid := range orderbook.FilterLarge(book.Bids, minQty, "") {
		if !ref.Available || bid.Price.GreaterThan(ref.Price) {
			ref = ReferencePrice{Price: bid.Price, Available: true}
		}
	}
	return ref
}
