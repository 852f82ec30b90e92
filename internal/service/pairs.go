package service

import (
	"github.com/shopspring/decimal"

	"orderbook-alerts/internal/config"
)

// Pair is a monitored pair with assets resolved to public keys and
// thresholds converted to decimals.
type Pair struct {
	Name              string
	Base              string
	Quote             string
	QuoteName         string
	MinQuantity       decimal.Decimal
	Margin            decimal.Decimal
	Bridge            string
	BridgeMinQuantity decimal.Decimal
}

// CrossPair reports whether arbitrage through the bridge is checked.
func (p Pair) CrossPair() bool {
	return p.Bridge != "" && p.Margin.IsPositive()
}

// PairsFromConfig resolves the configured pairs in configuration order.
func PairsFromConfig(cfg *config.Config) []Pair {
	pairs := make([]Pair, 0, len(cfg.Pairs))
	for _, pc := range cfg.Pairs {
		base := cfg.ResolveAsset(pc.Base)
		quote := cfg.ResolveAsset(pc.Quote)

		p := Pair{
			Name:        pc.Name,
			Base:        base,
			Quote:       quote,
			QuoteName:   cfg.AssetName(quote),
			MinQuantity: decimal.NewFromFloat(pc.MinQuantity),
			Margin:      decimal.NewFromFloat(pc.Margin),
		}
		if p.Name == "" {
			p.Name = cfg.AssetName(base) + "/" + p.QuoteName
		}

		if p.Margin.IsPositive() {
			bridge := pc.Bridge
			if bridge == "" {
				bridge = cfg.Bridge.Asset
			}
			p.Bridge = cfg.ResolveAsset(bridge)

			minBridge := pc.BridgeMinQuantity
			if minBridge <= 0 {
				minBridge = cfg.Bridge.MinQuantity
			}
			p.BridgeMinQuantity = decimal.NewFromFloat(minBridge)
		}

		pairs = append(pairs, p)
	}
	return pairs
}
