package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWithLegacyEnv(t *testing.T) {
	t.Setenv("TARGET_WALLET", "BC1YLtracked")
	t.Setenv("MONITOR_INTERVAL", "5")
	t.Setenv("IS_TESTNET", "true")
	t.Setenv("BARK_KEY", "device")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load should succeed: %v", err)
	}
	if cfg.Deso.TrackedWallet != "BC1YLtracked" {
		t.Fatalf("tracked wallet not read from TARGET_WALLET: %q", cfg.Deso.TrackedWallet)
	}
	if cfg.Scheduler.Interval != 5*time.Minute {
		t.Fatalf("bare interval should be minutes, got %s", cfg.Scheduler.Interval)
	}
	if !cfg.Deso.Testnet || cfg.Deso.NodeURL != testnetNodeURL {
		t.Fatalf("testnet should select the test node, got %q", cfg.Deso.NodeURL)
	}
	if !cfg.Alerting.Bark.Enabled || cfg.Alerting.Bark.Key != "device" {
		t.Fatalf("bark should be enabled by BARK_KEY: %+v", cfg.Alerting.Bark)
	}
	if len(cfg.Pairs) != 2 || cfg.Pairs[0].Name != "FOCUS/USDC" || cfg.Pairs[1].MinQuantity != 100 {
		t.Fatalf("unexpected default pairs: %+v", cfg.Pairs)
	}
	if cfg.ResolveAsset("USDC") != "BC1YLiwTN3DbkU8VmD7F7wXcRR1tFX6jDEkLyruHD2WsH3URomimxLX" {
		t.Fatalf("USDC symbol should resolve to its key")
	}
	if cfg.AssetName("BC1YLbnP7rndL92x7DbLp6bkUpCgKmgoHgz7xEbwhgHTps3ZrXA6LtQ") != "DESO" {
		t.Fatalf("DESO key should map back to its symbol")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
scheduler:
  interval: 30s
deso:
  tracked_wallet: walletA
  node_url: http://localhost:17001
pairs:
  - name: AAA/BBB
    base: AAA
    quote: BBB
    min_quantity: 10
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load should succeed: %v", err)
	}
	if cfg.Scheduler.Interval != 30*time.Second {
		t.Fatalf("unexpected interval %s", cfg.Scheduler.Interval)
	}
	if cfg.Deso.NodeURL != "http://localhost:17001" {
		t.Fatalf("explicit node url should be kept, got %q", cfg.Deso.NodeURL)
	}
	if len(cfg.Pairs) != 1 || cfg.Pairs[0].Base != "AAA" || cfg.Pairs[0].Margin != 0 {
		t.Fatalf("file pairs should replace defaults: %+v", cfg.Pairs)
	}
	if cfg.ResolveAsset("AAA") != "AAA" {
		t.Fatalf("unknown symbols should pass through")
	}
}

func TestLoadMissingWalletIsFatal(t *testing.T) {
	t.Setenv("TARGET_WALLET", "")
	t.Setenv("DESO_SEED_HEX", "")
	cfg, err := Load("")
	if !errors.Is(err, ErrFatalConfig) {
		t.Fatalf("expected ErrFatalConfig, got %v", err)
	}
	if cfg == nil {
		t.Fatal("partial config should be returned for best-effort alerting")
	}
}

func TestLoadBareIntegerIntervalFromFile(t *testing.T) {
	t.Setenv("MONITOR_INTERVAL", "")
	t.Setenv("OBALERTS_SCHEDULER_INTERVAL", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
scheduler:
  interval: 5
deso:
  tracked_wallet: walletA
  request_timeout: 15s
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load should succeed: %v", err)
	}
	if cfg.Scheduler.Interval != 5*time.Minute {
		t.Fatalf("yaml integer interval should be minutes, got %s", cfg.Scheduler.Interval)
	}
	if cfg.Deso.RequestTimeout != 15*time.Second {
		t.Fatalf("unit-bearing durations must be unchanged, got %s", cfg.Deso.RequestTimeout)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Scheduler: SchedulerConfig{Interval: time.Minute},
			Deso:      DesoConfig{TrackedWallet: "w"},
			Bridge:    BridgeConfig{Asset: "DESO", MinQuantity: 100},
			Pairs:     []PairConfig{{Name: "A/B", Base: "A", Quote: "B", MinQuantity: 1, Margin: 1}},
		}
	}

	base := valid()
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := map[string]func(c *Config){
		"zero interval":    func(c *Config) { c.Scheduler.Interval = 0 },
		"tiny interval":    func(c *Config) { c.Scheduler.Interval = 5 * time.Nanosecond },
		"no wallet":        func(c *Config) { c.Deso.TrackedWallet = "" },
		"no pairs":         func(c *Config) { c.Pairs = nil },
		"missing quote":    func(c *Config) { c.Pairs[0].Quote = "" },
		"zero min qty":     func(c *Config) { c.Pairs[0].MinQuantity = 0 },
		"negative margin":  func(c *Config) { c.Pairs[0].Margin = -1 },
		"margin no bridge": func(c *Config) { c.Bridge.Asset = "" },
		"telegram no token": func(c *Config) {
			c.Alerting.Telegram = TelegramConfig{Enabled: true, ChatID: "x"}
		},
		"bark no key": func(c *Config) { c.Alerting.Bark.Enabled = true },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(&c)
			if err := c.Validate(); !errors.Is(err, ErrFatalConfig) {
				t.Fatalf("expected ErrFatalConfig, got %v", err)
			}
		})
	}

	seedOnly := valid()
	seedOnly.Deso = DesoConfig{SeedHex: "ab"}
	if err := seedOnly.Validate(); err != nil {
		t.Fatalf("seed without explicit wallet should be accepted: %v", err)
	}
}
