package orderbook

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// ErrMalformedSnapshot is returned when a raw snapshot lacks the order
// collection or carries a record whose price or quantity is not a positive decimal.
var ErrMalformedSnapshot = errors.New("malformed order book snapshot")

const ordersField = "Orders"

type rawOrder struct {
	OperationType string           `json:"OperationType"`
	Price         *decimal.Decimal `json:"Price"`
	Quantity      *decimal.Decimal `json:"Quantity"`
	Owner         string           `json:"TransactorPublicKeyBase58Check"`
}

// Normalize converts a raw node response into a Snapshot. Records whose
// operation type is neither BID nor ASK are ignored. Equal prices keep their
// relative order from the response. An Orders value of null is the node's
// encoding of an empty book; only a missing field is malformed.
func Normalize(raw []byte, pair Pair) (Snapshot, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}
	rawOrders, ok := fields[ordersField]
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: missing Orders field", ErrMalformedSnapshot)
	}

	var orders []rawOrder
	if err := json.Unmarshal(rawOrders, &orders); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}

	snap := Snapshot{Pair: pair}
	for i, rec := range orders {
		side := Side(rec.OperationType)
		if side != Bid && side != Ask {
			continue
		}
		if rec.Price == nil || !rec.Price.IsPositive() {
			return Snapshot{}, fmt.Errorf("%w: order %d has invalid price", ErrMalformedSnapshot, i)
		}
		if rec.Quantity == nil || !rec.Quantity.IsPositive() {
			return Snapshot{}, fmt.Errorf("%w: order %d has invalid quantity", ErrMalformedSnapshot, i)
		}

		order := Order{
			Side:     side,
			Price:    *rec.Price,
			Quantity: *rec.Quantity,
			Owner:    rec.Owner,
			Pair:     pair,
		}
		if side == Bid {
			snap.Bids = append(snap.Bids, order)
		} else {
			snap.Asks = append(snap.Asks, order)
		}
	}

	slices.SortStableFunc(snap.Bids, func(a, b Order) int { return b.Price.Cmp(a.Price) })
	slices.SortStableFunc(snap.Asks, func(a, b Order) int { return a.Price.Cmp(b.Price) })

	return snap, nil
}
