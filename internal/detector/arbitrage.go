package detector

import (
	"time"

	"github.com/shopspring/decimal"

	"orderbook-alerts/internal/alerting"
	"orderbook-alerts/internal/orderbook"
)

// Opportunity is a bridge-denominated ask whose quote-currency price is
// below the margin.
type Opportunity struct {
	Order     orderbook.Order
	Converted decimal.Decimal
}

// ArbitrageReport is the outcome of a cross-pair check. Skipped is true when
// the reference price was unavailable.
type ArbitrageReport struct {
	Skipped       bool
	Reference     decimal.Decimal
	Opportunities []Opportunity
}

// FindArbitrage converts every large ask from other wallets in a
// (target, bridge) book into the quote currency and keeps those priced under margin.
func FindArbitrage(book orderbook.Snapshot, minQty, margin decimal.Decimal, ref ReferencePrice, tracked string) ArbitrageReport {
	if !ref.Available {
		return ArbitrageReport{Skipped: true}
	}

	report := ArbitrageReport{Reference: ref.Price}
	for _, ask := range orderbook.FilterLarge(book.Asks, minQty, tracked) {
		converted := ask.Price.Mul(ref.Price)
		if converted.LessThan(margin) {
			report.Opportunities = append(report.Opportunities, Opportunity{Order: ask, Converted: converted})
		}
	}
	return report
}

// Event converts the report into an ARBITRAGE alert priced in quote.
func (r ArbitrageReport) Event(pair, quote string, at time.Time) (alerting.Event, bool) {
	if r.Skipped || len(r.Opportunities) == 0 {
		return alerting.Event{}, false
	}

	findings := make([]alerting.Finding, 0, len(r.Opportunities))
	for _, op := range r.Opportunities {
		findings = append(findings, alerting.Finding{
			Price:          op.Order.Price,
			ConvertedPrice: op.Converted,
			Quantity:       op.Order.Quantity,
			Owner:          op.Order.Owner,
		})
	}

	return alerting.Event{
		Kind:      alerting.KindArbitrage,
		Pair:      pair,
		Quote:     quote,
		Findings:  findings,
		Timestamp: at,
	}, true
}
