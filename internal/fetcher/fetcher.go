package fetcher

import (
	"context"
	"encoding/json"
)

// OrderBookFetcher returns the raw resting orders between two assets.
type OrderBookFetcher interface {
	FetchOrderBook(ctx context.Context, assetA, assetB string) (json.RawMessage, error)
}
