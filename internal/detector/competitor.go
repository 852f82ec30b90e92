package detector

import (
	"slices"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"orderbook-alerts/internal/alerting"
	"orderbook-alerts/internal/orderbook"
)

// CompetitorReport is the outcome of a direct-pair check. TrackedFound is
// false when the tracked wallet has no ask at or above the size threshold, in
// which case no competitors are evaluated.
type CompetitorReport struct {
	TrackedFound bool
	TrackedBest  orderbook.Order
	Competitors  []orderbook.Order
}

// FindCompetitors compares the tracked wallet's cheapest large ask with the
// large asks of every other wallet and reports those priced strictly lower.
func FindCompetitors(book orderbook.Snapshot, minQty decimal.Decimal, tracked string) CompetitorReport {
	large := orderbook.FilterLarge(book.Asks, minQty, "")

	own := orderbook.OwnedBy(large, tracked)
	if len(own) == 0 {
		return CompetitorReport{}
	}

	best := lo.MinBy(own, func(a, b orderbook.Order) bool {
		return a.Price.LessThan(b.Price)
	})

	competitors := lo.Filter(orderbook.NotOwnedBy(large, tracked), func(o orderbook.Order, _ int) bool {
		return o.Price.LessThan(best.Price)
	})
	slices.SortStableFunc(competitors, func(a, b orderbook.Order) int { return a.Price.Cmp(b.Price) })

	return CompetitorReport{
		TrackedFound: true,
		TrackedBest:  best,
		Competitors:  competitors,
	}
}

// Event converts the report into a COMPETITOR alert. ok is false when
// there is nothing to report.
func (r CompetitorReport) Event(pair string, at time.Time) (alerting.Event, bool) {
	if !r.TrackedFound || len(r.Competitors) == 0 {
		return alerting.Event{}, false
	}

	findings := make([]alerting.Finding, 0, len(r.Competitors))
	for _, o := range r.Competitors {
		findings = append(findings, alerting.Finding{
			Price:    o.Price,
			Quantity: o.Quantity,
			Owner:    o.Owner,
		})
	}

	return alerting.Event{
		Kind:      alerting.KindCompetitor,
		Pair:      pair,
		Findings:  findings,
		Timestamp: at,
	}, true
}
