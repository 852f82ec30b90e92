package alerting

import (
	"fmt"
	"strings"
)

const ownerPrefixLen = 6

// Title returns the short headline used by push channels.
func Title(ev Event) string {
	switch ev.Kind {
	case KindCompetitor:
		return "Order competition"
	case KindArbitrage:
		return "Arbitrage opportunity"
	default:
		return "Monitor error"
	}
}

// RenderMessage builds the human-readable alert body.
func RenderMessage(ev Event) string {
	builder := strings.Builder{}
	switch ev.Kind {
	case KindCompetitor:
		builder.WriteString(fmt.Sprintf("%s low-price orders\n", ev.Pair))
		for _, f := range ev.Findings {
			builder.WriteString(fmt.Sprintf("Price: %s\n", f.Price.StringFixed(6)))
			builder.WriteString(fmt.Sprintf("Quantity: %s\n", f.Quantity.StringFixed(1)))
			builder.WriteString(fmt.Sprintf("Wallet: %s\n", shortOwner(f.Owner)))
		}
	case KindArbitrage:
		builder.WriteString(fmt.Sprintf("%s arbitrage opportunity\n", ev.Pair))
		for _, f := range ev.Findings {
			builder.WriteString(fmt.Sprintf("Price: %s %s (raw %s)\n", f.ConvertedPrice.StringFixed(4), ev.Quote, f.Price.String()))
			builder.WriteString(fmt.Sprintf("Quantity: %s\n", f.Quantity.StringFixed(1)))
			builder.WriteString(fmt.Sprintf("Wallet: %s\n", shortOwner(f.Owner)))
		}
	default:
		if ev.Pair != "" {
			builder.WriteString(fmt.Sprintf("%s check failed: ", ev.Pair))
		} else {
			builder.WriteString("Check failed: ")
		}
		builder.WriteString(ev.Message)
	}
	return strings.TrimRight(builder.String(), "\n")
}

func shortOwner(owner string) string {
	if len(owner) <= ownerPrefixLen {
		return owner
	}
	return owner[:ownerPrefixLen] + "..."
}
