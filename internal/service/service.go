package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"orderbook-alerts/internal/alerting"
	"orderbook-alerts/internal/config"
	"orderbook-alerts/internal/detector"
	"orderbook-alerts/internal/fetcher"
	"orderbook-alerts/internal/logging"
	"orderbook-alerts/internal/orderbook"
	"orderbook-alerts/internal/scheduler"
	"orderbook-alerts/internal/storage"
)

// Service runs the per-tick order book checks and dispatches alerts.
type Service struct {
	scheduler *scheduler.Scheduler
	fetcher   fetcher.OrderBookFetcher
	notifier  alerting.Notifier
	locker    storage.AdvisoryLocker
	lockKey   int64
	logger    zerolog.Logger

	wallet string
	pairs  []Pair
}

// New constructs the monitoring service. notifier and locker may be nil.
func New(cfg *config.Config, sched *scheduler.Scheduler, books fetcher.OrderBookFetcher, notifier alerting.Notifier, locker storage.AdvisoryLocker, wallet string, logger zerolog.Logger) *Service {
	if !cfg.Alerting.Enabled {
		notifier = nil
	}
	return &Service{
		scheduler: sched,
		fetcher:   books,
		notifier:  notifier,
		locker:    locker,
		lockKey:   cfg.Scheduler.LockKey,
		logger:    logger.With().Str("component", "service").Logger(),
		wallet:    wallet,
		pairs:     PairsFromConfig(cfg),
	}
}

// Pairs returns the resolved pairs in evaluation order.
func (s *Service) Pairs() []Pair {
	return s.pairs
}

// Run begins the polling loop.
func (s *Service) Run(ctx context.Context) error {
	if s.scheduler == nil {
		return fmt.Errorf("scheduler not configured")
	}
	return s.scheduler.Run(ctx, s.ProcessTick)
}

// ProcessTick runs one cycle under the advisory lock when one is configured.
func (s *Service) ProcessTick(ctx context.Context, tick time.Time) error {
	unlock, proceed, err := s.acquireLock(ctx)
	if err != nil {
		return err
	}
	if !proceed {
		s.logger.Info().Time("tick", tick).Msg("skip tick because cycle lock is held elsewhere")
		return nil
	}
	if unlock != nil {
		defer unlock()
	}

	s.RunCycle(ctx, tick)
	return nil
}

// RunCycle evaluates every pair in configuration order and dispatches each
// alert as soon as it is produced. A failure in one pair becomes an ERROR
// event and does not stop the remaining pairs. The emitted events are returned.
func (s *Service) RunCycle(ctx context.Context, tick time.Time) []alerting.Event {
	c := &cycle{
		svc:  s,
		tick: tick,
		refs: make(map[referenceKey]referenceResult),
	}

	for _, pair := range s.pairs {
		if ctx.Err() != nil {
			s.logger.Warn().Time("tick", tick).Msg("cycle interrupted")
			break
		}
		logger := logging.ForPair(s.logger, pair.Name)
		if err := c.evaluate(ctx, pair, logger); err != nil {
			if errors.Is(err, orderbook.ErrMalformedSnapshot) {
				logger.Warn().Err(err).Msg("malformed snapshot; pair skipped")
			} else {
				logger.Error().Err(err).Msg("pair check failed")
			}
			c.emit(ctx, alerting.NewErrorEvent(pair.Name, err, tick))
		}
	}

	s.logger.Info().Time("tick", tick).Int("pairs", len(s.pairs)).Int("alerts", len(c.events)).Msg("cycle complete")
	return c.events
}

type referenceKey struct {
	bridge string
	quote  string
	minQty string
}

type referenceResult struct {
	ref detector.ReferencePrice
	err error
}

// cycle holds state that lives for exactly one tick.
type cycle struct {
	svc    *Service
	tick   time.Time
	refs   map[referenceKey]referenceResult
	events []alerting.Event
}

func (c *cycle) evaluate(ctx context.Context, pair Pair, logger zerolog.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while checking %s: %v", pair.Name, r)
		}
	}()

	book, err := c.book(ctx, pair.Base, pair.Quote, logger)
	if err != nil {
		return err
	}

	competitors := detector.FindCompetitors(book, pair.MinQuantity, c.svc.wallet)
	switch {
	case !competitors.TrackedFound:
		logger.Info().Str("min_quantity", pair.MinQuantity.String()).Msg("no qualifying tracked order")
	case len(competitors.Competitors) == 0:
		logger.Info().Str("tracked_min_price", competitors.TrackedBest.Price.String()).Msg("no competitors found")
	}
	if ev, ok := competitors.Event(pair.Name, c.tick); ok {
		c.emit(ctx, ev)
	}

	if !pair.CrossPair() {
		return nil
	}

	ref, err := c.reference(ctx, pair, logger)
	if err != nil {
		return err
	}
	if !ref.Available {
		logger.Info().Str("bridge_min_quantity", pair.BridgeMinQuantity.String()).Msg("reference price unavailable; cross-pair check skipped")
		return nil
	}

	bridged, err := c.book(ctx, pair.Base, pair.Bridge, logger)
	if err != nil {
		return err
	}

	arb := detector.FindArbitrage(bridged, pair.MinQuantity, pair.Margin, ref, c.svc.wallet)
	if ev, ok := arb.Event(pair.Name, pair.QuoteName, c.tick); ok {
		c.emit(ctx, ev)
	} else {
		logger.Debug().Str("reference_price", ref.Price.String()).Msg("no arbitrage below margin")
	}
	return nil
}

func (c *cycle) book(ctx context.Context, base, quote string, logger zerolog.Logger) (orderbook.Snapshot, error) {
	raw, err := c.svc.fetcher.FetchOrderBook(ctx, base, quote)
	if err != nil {
		return orderbook.Snapshot{}, fmt.Errorf("fetch order book: %w", err)
	}
	book, err := orderbook.Normalize(raw, orderbook.Pair{Base: base, Quote: quote})
	if err != nil {
		return orderbook.Snapshot{}, err
	}
	logger.Debug().
		Str("base", base).
		Str("quote", quote).
		Int("orders", book.Len()).
		Int("bids", len(book.Bids)).
		Int("asks", len(book.Asks)).
		Msg("order book loaded")
	return book, nil
}

// reference resolves the bridge price at most once per (bridge, quote, size) per cycle.
func (c *cycle) reference(ctx context.Context, pair Pair, logger zerolog.Logger) (detector.ReferencePrice, error) {
	key := referenceKey{bridge: pair.Bridge, quote: pair.Quote, minQty: pair.BridgeMinQuantity.String()}
	if res, ok := c.refs[key]; ok {
		return res.ref, res.err
	}

	var res referenceResult
	book, err := c.book(ctx, pair.Bridge, pair.Quote, logger)
	if err != nil {
		res.err = fmt.Errorf("resolve reference price: %w", err)
	} else {
		res.ref = detector.ResolveReferencePrice(book, pair.BridgeMinQuantity)
	}
	c.refs[key] = res
	return res.ref, res.err
}

func (c *cycle) emit(ctx context.Context, ev alerting.Event) {
	c.events = append(c.events, ev)
	c.svc.dispatch(ctx, ev)
}

func (s *Service) dispatch(ctx context.Context, ev alerting.Event) {
	logger := s.logger.With().Str("kind", string(ev.Kind)).Str("pair", ev.Pair).Int("findings", len(ev.Findings)).Logger()
	if s.notifier == nil {
		logger.Info().Str("message", alerting.RenderMessage(ev)).Msg("alert raised (dispatch disabled)")
		return
	}
	if err := s.notifier.Notify(ctx, ev); err != nil {
		logger.Error().Err(err).Msg("alert dispatch failed")
		return
	}
	logger.Info().Msg("alert dispatched")
}

func (s *Service) acquireLock(ctx context.Context) (func(), bool, error) {
	if s.lockKey == 0 || s.locker == nil {
		return nil, true, nil
	}
	unlock, acquired, err := s.locker.TryAdvisoryLock(ctx, s.lockKey)
	if err != nil {
		return nil, false, fmt.Errorf("acquire cycle lock: %w", err)
	}
	if !acquired {
		return nil, false, nil
	}
	return unlock, true, nil
}
