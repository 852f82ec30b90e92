package orderbook

import (
	"github.com/shopspring/decimal"
)

// Side identifies which half of the book an order rests on.
type Side string

const (
	Bid Side = "BID"
	Ask Side = "ASK"
)

// Pair is an ordered pair of asset identifiers (base, quote).
type Pair struct {
	Base  string
	Quote string
}

// Order is a single resting limit order as read from a snapshot.
type Order struct {
	Side     Side
	Price    decimal.Decimal
	Quantity decimal.Decimal
	Owner    string
	Pair     Pair
}

// Snapshot is the normalized view of one pair at one instant.
// Bids are sorted by price descending, asks by price ascending.
type Snapshot struct {
	Pair Pair
	Bids []Order
	Asks []Order
}

// Len reports the total number of orders in the snapshot.
func (s Snapshot) Len() int {
	return len(s.Bids) + len(s.Asks)
}
