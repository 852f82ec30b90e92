package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"orderbook-alerts/internal/alerting"
	"orderbook-alerts/internal/config"
	"orderbook-alerts/internal/fetcher"
	"orderbook-alerts/internal/scheduler"
	"orderbook-alerts/internal/service"
	"orderbook-alerts/internal/storage"
)

const defaultNotifyTimeout = 10 * time.Second

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newFetcher() *fetcher.Node {
	return fetcher.NewNode(fetcher.NodeOptions{
		BaseURL:   a.Config.Deso.NodeURL,
		Timeout:   a.Config.Deso.RequestTimeout,
		UserAgent: a.Config.Deso.UserAgent,
	}, a.Logger)
}

// newNotifier builds the configured channels in the order they are listed.
// It returns a nil interface when no channel is usable.
func (a *App) newNotifier() alerting.Notifier {
	cfg := a.Config.Alerting
	if !cfg.Enabled {
		return nil
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultNotifyTimeout
	}

	var channels []alerting.Notifier
	for _, name := range cfg.Channels {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "telegram":
			if cfg.Telegram.Enabled && cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
				channels = append(channels, alerting.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.APIBase, timeout, a.Logger))
			}
		case "bark":
			if cfg.Bark.Enabled && cfg.Bark.Key != "" {
				channels = append(channels, alerting.NewBarkNotifier(cfg.Bark.Key, cfg.Bark.BaseURL, timeout, a.Logger))
			}
		default:
			a.Logger.Warn().Str("channel", name).Msg("unknown alert channel ignored")
		}
	}

	multi := alerting.NewMultiNotifier(channels...)
	if multi.Len() == 0 {
		return nil
	}
	return multi
}

// openLocker connects the advisory lock only when both a DSN and a lock key are set.
func (a *App) openLocker(ctx context.Context) (*storage.Locker, error) {
	if a.Config.Database.DSN == "" || a.Config.Scheduler.LockKey == 0 {
		return nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, err
	}
	return storage.NewLocker(pool, a.Logger), nil
}

func (a *App) resolveWallet() (string, error) {
	wallet, err := fetcher.ResolveWallet(a.Config.Deso.TrackedWallet, a.Config.Deso.SeedHex, a.Config.Deso.Testnet)
	if err != nil {
		return "", fmt.Errorf("%w: %v", config.ErrFatalConfig, err)
	}
	return wallet, nil
}

func (a *App) newService(sched *scheduler.Scheduler, notifier alerting.Notifier, locker storage.AdvisoryLocker, wallet string) *service.Service {
	return service.New(a.Config, sched, a.newFetcher(), notifier, locker, wallet, a.Logger)
}

// Run executes the long-running monitoring service.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	notifier := a.newNotifier()
	if notifier == nil {
		a.Logger.Warn().Msg("no alert channel configured; alerts will only be logged")
	}

	wallet, err := a.resolveWallet()
	if err != nil {
		a.reportFatal(ctx, notifier, err)
		return err
	}

	var locker storage.AdvisoryLocker
	l, err := a.openLocker(ctx)
	if err != nil {
		return err
	}
	if l != nil {
		defer l.Close()
		locker = l
	} else {
		a.Logger.Debug().Msg("cycle lock disabled")
	}

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Scheduler.Interval,
		AlignToTick:  a.Config.Scheduler.AlignToTick,
		StartupDelay: a.Config.Scheduler.StartupDelay,
		RunOnStart:   a.Config.Scheduler.RunOnStart,
	}, a.Logger)

	svc := a.newService(sched, notifier, locker, wallet)
	a.logBanner(wallet, svc.Pairs())

	err = svc.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("service terminated with error")
		return err
	}

	a.Logger.Info().Msg("monitoring service stopped")
	return nil
}

func (a *App) logBanner(wallet string, pairs []service.Pair) {
	network := "mainnet"
	if a.Config.Deso.Testnet {
		network = "testnet"
	}
	a.Logger.Info().
		Str("wallet", wallet).
		Str("network", network).
		Str("node", a.Config.Deso.NodeURL).
		Dur("interval", a.Config.Scheduler.Interval).
		Int("pairs", len(pairs)).
		Msg("starting order book monitor")

	for _, p := range pairs {
		event := a.Logger.Info().
			Str("pair", p.Name).
			Str("min_quantity", p.MinQuantity.String())
		if p.CrossPair() {
			event = event.
				Str("margin", p.Margin.String()).
				Str("bridge", a.Config.AssetName(p.Bridge)).
				Str("bridge_min_quantity", p.BridgeMinQuantity.String())
		}
		event.Msg("monitoring pair")
	}
}

func (a *App) reportFatal(ctx context.Context, notifier alerting.Notifier, err error) {
	if notifier == nil {
		return
	}
	ev := alerting.NewErrorEvent("", err, time.Now().UTC())
	if nerr := notifier.Notify(ctx, ev); nerr != nil {
		a.Logger.Error().Err(nerr).Msg("failed to deliver fatal error alert")
	}
}

// ReportFatal makes a best-effort attempt to alert about a fatal startup
// error using whatever channels the partial configuration provides.
func ReportFatal(ctx context.Context, cfg *config.Config, logger zerolog.Logger, err error) {
	if cfg == nil {
		return
	}
	a := NewApp(cfg, logger)
	a.reportFatal(ctx, a.newNotifier(), err)
}
