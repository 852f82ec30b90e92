package config

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"orderbook-alerts/internal/logging"
)

// ErrFatalConfig marks configuration problems that must stop the process.
var ErrFatalConfig = errors.New("fatal configuration error")

// minInterval stops unit-less values from turning into a busy poll loop.
const minInterval = time.Second

const (
	mainnetNodeURL = "https://node.deso.org"
	testnetNodeURL = "https://test.deso.org"
)

// Config materialises application configuration.
type Config struct {
	App       AppConfig         `mapstructure:"app"`
	Logging   logging.Config    `mapstructure:"logging"`
	Database  DatabaseConfig    `mapstructure:"database"`
	Scheduler SchedulerConfig   `mapstructure:"scheduler"`
	Deso      DesoConfig        `mapstructure:"deso"`
	Bridge    BridgeConfig      `mapstructure:"bridge"`
	Assets    map[string]string `mapstructure:"assets"`
	Pairs     []PairConfig      `mapstructure:"pairs"`
	Alerting  AlertingConfig    `mapstructure:"alerting"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig is only used for the cross-replica cycle lock.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// SchedulerConfig governs the polling cadence.
type SchedulerConfig struct {
	Interval     time.Duration `mapstructure:"interval"`
	AlignToTick  bool          `mapstructure:"align_to_tick"`
	StartupDelay time.Duration `mapstructure:"startup_delay"`
	RunOnStart   bool          `mapstructure:"run_on_start"`
	LockKey      int64         `mapstructure:"lock_key"`
}

// DesoConfig covers node access and the tracked wallet.
type DesoConfig struct {
	NodeURL        string        `mapstructure:"node_url"`
	Testnet        bool          `mapstructure:"testnet"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
	TrackedWallet  string        `mapstructure:"tracked_wallet"`
	SeedHex        string        `mapstructure:"seed_hex"`
}

// BridgeConfig is the default bridge for pairs with a margin but no bridge of their own.
type BridgeConfig struct {
	Asset       string  `mapstructure:"asset"`
	MinQuantity float64 `mapstructure:"min_quantity"`
}

// PairConfig describes one monitored trading pair. Base, Quote and Bridge
// accept either a public key or a symbol from the assets map.
type PairConfig struct {
	Name              string  `mapstructure:"name"`
	Base              string  `mapstructure:"base"`
	Quote             string  `mapstructure:"quote"`
	MinQuantity       float64 `mapstructure:"min_quantity"`
	Margin            float64 `mapstructure:"margin"`
	Bridge            string  `mapstructure:"bridge"`
	BridgeMinQuantity float64 `mapstructure:"bridge_min_quantity"`
}

// AlertingConfig defines dispatch channels.
type AlertingConfig struct {
	Enabled        bool           `mapstructure:"enabled"`
	Channels       []string       `mapstructure:"channels"`
	RequestTimeout time.Duration  `mapstructure:"request_timeout"`
	Telegram       TelegramConfig `mapstructure:"telegram"`
	Bark           BarkConfig     `mapstructure:"bark"`
}

// TelegramConfig holds Telegram bot credentials.
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	APIBase  string `mapstructure:"api_base"`
}

// BarkConfig holds the Bark device key.
type BarkConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Key     string `mapstructure:"key"`
	BaseURL string `mapstructure:"base_url"`
}

// Load builds configuration from file, environment, and defaults. On a
// validation failure the decoded config is returned alongside the error so
// callers can still reach the alert channels.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("OBALERTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	if err := bindLegacyEnv(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Alerting.Bark.Key != "" {
		cfg.Alerting.Bark.Enabled = true
	}
	if cfg.Deso.NodeURL == "" {
		cfg.Deso.NodeURL = mainnetNodeURL
		if cfg.Deso.Testnet {
			cfg.Deso.NodeURL = testnetNodeURL
		}
	}

	if err := cfg.Validate(); err != nil {
		return &cfg, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// bindLegacyEnv keeps the variable names used by older .env deployments working.
func bindLegacyEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"deso.tracked_wallet": {"OBALERTS_DESO_TRACKED_WALLET", "TARGET_WALLET"},
		"deso.seed_hex":       {"OBALERTS_DESO_SEED_HEX", "DESO_SEED_HEX"},
		"deso.testnet":        {"OBALERTS_DESO_TESTNET", "IS_TESTNET"},
		"alerting.bark.key":   {"OBALERTS_ALERTING_BARK_KEY", "BARK_KEY"},
		"scheduler.interval":  {"OBALERTS_SCHEDULER_INTERVAL", "MONITOR_INTERVAL"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "orderbook-alerts")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("scheduler.interval", "1m")
	v.SetDefault("scheduler.align_to_tick", false)
	v.SetDefault("scheduler.startup_delay", "0s")
	v.SetDefault("scheduler.run_on_start", true)
	v.SetDefault("scheduler.lock_key", int64(0))

	v.SetDefault("deso.testnet", false)
	v.SetDefault("deso.request_timeout", "10s")
	v.SetDefault("deso.user_agent", "orderbook-alerts/1.0")

	v.SetDefault("assets", map[string]string{
		"FOCUS": "BC1YLjEayZDjAPitJJX4Boy7LsEfN3sWAkYb3hgE9kGBirztsc2re1N",
		"USDC":  "BC1YLiwTN3DbkU8VmD7F7wXcRR1tFX6jDEkLyruHD2WsH3URomimxLX",
		"OPEN":  "BC1YLj3zNA7hRAqBVkvsTeqw7oi4H6ogKiAFL1VXhZy6pYeZcZ6TDRY",
		"DESO":  "BC1YLbnP7rndL92x7DbLp6bkUpCgKmgoHgz7xEbwhgHTps3ZrXA6LtQ",
	})

	v.SetDefault("bridge.asset", "DESO")
	v.SetDefault("bridge.min_quantity", 100.0)

	v.SetDefault("pairs", []map[string]any{
		{"name": "FOCUS/USDC", "base": "FOCUS", "quote": "USDC", "min_quantity": 100000.0, "margin": 1.0},
		{"name": "OPEN/USDC", "base": "OPEN", "quote": "USDC", "min_quantity": 100.0, "margin": 1.0},
	})

	v.SetDefault("alerting.enabled", true)
	v.SetDefault("alerting.channels", []string{"bark", "telegram"})
	v.SetDefault("alerting.request_timeout", "10s")
	v.SetDefault("alerting.telegram.enabled", false)
	v.SetDefault("alerting.telegram.api_base", "https://api.telegram.org")
	v.SetDefault("alerting.bark.enabled", false)
	v.SetDefault("alerting.bark.base_url", "https://api.day.app")

	v.SetDefault("database.max_open_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "30m")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			minutesHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// minutesHookFunc reads a bare integer duration as minutes, whether it comes
// from the environment (MONITOR_INTERVAL=5) or a YAML number (interval: 5).
func minutesHookFunc() mapstructure.DecodeHookFuncType {
	durationType := reflect.TypeOf(time.Duration(0))
	return func(from, to reflect.Type, data any) (any, error) {
		if to != durationType || from == durationType {
			return data, nil
		}
		switch from.Kind() {
		case reflect.String:
			raw := strings.TrimSpace(data.(string))
			if n, err := strconv.Atoi(raw); err == nil {
				return time.Duration(n) * time.Minute, nil
			}
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return time.Duration(reflect.ValueOf(data).Int()) * time.Minute, nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return time.Duration(reflect.ValueOf(data).Uint()) * time.Minute, nil
		}
		return data, nil
	}
}

// Validate performs sanity checks; every failure wraps ErrFatalConfig.
func (c *Config) Validate() error {
	if err := c.validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrFatalConfig, err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Scheduler.Interval < minInterval {
		return fmt.Errorf("scheduler.interval must be at least %s", minInterval)
	}
	if c.Deso.TrackedWallet == "" && c.Deso.SeedHex == "" {
		return errors.New("deso.tracked_wallet or deso.seed_hex must be set")
	}
	if len(c.Pairs) == 0 {
		return errors.New("at least one pair must be configured")
	}
	for i, p := range c.Pairs {
		if p.Base == "" || p.Quote == "" {
			return fmt.Errorf("pairs[%d]: base and quote are required", i)
		}
		if p.MinQuantity <= 0 {
			return fmt.Errorf("pairs[%d]: min_quantity must be greater than zero", i)
		}
		if p.Margin < 0 {
			return fmt.Errorf("pairs[%d]: margin cannot be negative", i)
		}
		if p.Margin > 0 && p.Bridge == "" && c.Bridge.Asset == "" {
			return fmt.Errorf("pairs[%d]: margin set but no bridge asset configured", i)
		}
		if p.BridgeMinQuantity < 0 {
			return fmt.Errorf("pairs[%d]: bridge_min_quantity cannot be negative", i)
		}
	}
	if c.Bridge.MinQuantity < 0 {
		return errors.New("bridge.min_quantity cannot be negative")
	}
	if c.Alerting.Telegram.Enabled {
		if c.Alerting.Telegram.BotToken == "" {
			return errors.New("alerting.telegram.bot_token is required")
		}
		if c.Alerting.Telegram.ChatID == "" {
			return errors.New("alerting.telegram.chat_id is required")
		}
	}
	if c.Alerting.Bark.Enabled && c.Alerting.Bark.Key == "" {
		return errors.New("alerting.bark.key is required")
	}
	return nil
}

// ResolveAsset maps a symbol from the assets table to its public key. Values
// that are not known symbols are returned unchanged.
func (c *Config) ResolveAsset(ref string) string {
	if key, ok := c.Assets[strings.ToLower(ref)]; ok {
		return key
	}
	if key, ok := c.Assets[ref]; ok {
		return key
	}
	return ref
}

// AssetName returns the display symbol for a public key, falling back to
// the first six characters.
func (c *Config) AssetName(key string) string {
	for symbol, k := range c.Assets {
		if k == key {
			return strings.ToUpper(symbol)
		}
	}
	if len(key) > 6 {
		return key[:6]
	}
	return key
}
