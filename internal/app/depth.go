package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	chart "github.com/wcharczuk/go-chart/v2"

	"orderbook-alerts/internal/detector"
	"orderbook-alerts/internal/orderbook"
	"orderbook-alerts/internal/service"
)

// DepthOptions configure the depth command.
type DepthOptions struct {
	Pair    string
	PNGPath string
}

// Depth fetches one configured pair and renders its cumulative depth as PNG.
func (a *App) Depth(ctx context.Context, opts DepthOptions) error {
	if opts.PNGPath == "" {
		return errors.New("--png must be provided")
	}

	pair, err := a.findPair(opts.Pair)
	if err != nil {
		return err
	}

	wallet, err := a.resolveWallet()
	if err != nil {
		return err
	}

	raw, err := a.newFetcher().FetchOrderBook(ctx, pair.Base, pair.Quote)
	if err != nil {
		return fmt.Errorf("fetch order book: %w", err)
	}
	book, err := orderbook.Normalize(raw, orderbook.Pair{Base: pair.Base, Quote: pair.Quote})
	if err != nil {
		return err
	}
	if book.Len() == 0 {
		a.Logger.Info().Str("pair", pair.Name).Msg("order book is empty; nothing to chart")
		return nil
	}

	report := detector.FindCompetitors(book, pair.MinQuantity, wallet)
	a.Logger.Info().
		Str("pair", pair.Name).
		Int("bids", len(book.Bids)).
		Int("asks", len(book.Asks)).
		Bool("tracked_found", report.TrackedFound).
		Int("competitors", len(report.Competitors)).
		Msg("rendering depth chart")

	return writeDepthPNG(opts.PNGPath, pair, book, report)
}

func (a *App) findPair(name string) (service.Pair, error) {
	pairs := service.PairsFromConfig(a.Config)
	if len(pairs) == 0 {
		return service.Pair{}, errors.New("no pairs configured")
	}
	if name == "" {
		return pairs[0], nil
	}
	for _, p := range pairs {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return service.Pair{}, fmt.Errorf("pair %q is not configured", name)
}

// depthSeries returns price levels and cumulative quantity for orders that
// are already in book order.
func depthSeries(orders []orderbook.Order) ([]float64, []float64) {
	prices := make([]float64, 0, len(orders))
	depth := make([]float64, 0, len(orders))
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.Quantity)
		prices = append(prices, o.Price.InexactFloat64())
		depth = append(depth, total.InexactFloat64())
	}
	return prices, depth
}

func writeDepthPNG(path string, pair service.Pair, book orderbook.Snapshot, report detector.CompetitorReport) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	var series []chart.Series
	if len(book.Bids) > 0 {
		x, y := depthSeries(book.Bids)
		series = append(series, chart.ContinuousSeries{Name: "Bids", XValues: x, YValues: y})
	}
	if len(book.Asks) > 0 {
		x, y := depthSeries(book.Asks)
		series = append(series, chart.ContinuousSeries{Name: "Asks", XValues: x, YValues: y})
	}
	if report.TrackedFound {
		best := report.TrackedBest
		series = append(series, chart.AnnotationSeries{
			Name: "Tracked best ask " + best.Price.String(),
			Annotations: []chart.Value2{{
				XValue: best.Price.InexactFloat64(),
				YValue: best.Quantity.InexactFloat64(),
				Label:  "tracked " + best.Price.StringFixed(6),
			}},
		})
	}

	priceFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.6f")
	}
	graph := chart.Chart{
		Title:  pair.Name + " depth",
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			Name:           "Price (" + pair.QuoteName + ")",
			ValueFormatter: priceFormatter,
		},
		YAxis: chart.YAxis{
			Name: "Cumulative quantity",
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
