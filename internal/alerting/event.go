package alerting

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind classifies an alert event.
type Kind string

const (
	KindCompetitor Kind = "COMPETITOR"
	KindArbitrage  Kind = "ARBITRAGE"
	KindError      Kind = "ERROR"
)

// Finding is one order that triggered an alert. ConvertedPrice is only set
// for arbitrage findings.
type Finding struct {
	Price          decimal.Decimal
	ConvertedPrice decimal.Decimal
	Quantity       decimal.Decimal
	Owner          string
}

// Event is a single detected condition handed to a Notifier.
type Event struct {
	Kind      Kind
	Pair      string
	Quote     string
	Findings  []Finding
	Message   string
	Timestamp time.Time
}

// NewErrorEvent wraps a failure description into an ERROR event.
func NewErrorEvent(pair string, err error, at time.Time) Event {
	return Event{
		Kind:      KindError,
		Pair:      pair,
		Message:   err.Error(),
		Timestamp: at,
	}
}
