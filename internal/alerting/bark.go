package alerting

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// BarkNotifier pushes alerts to an iOS device through a Bark server.
type BarkNotifier struct {
	key     string
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewBarkNotifier builds a Bark channel. baseURL defaults to the public server.
func NewBarkNotifier(key, baseURL string, timeout time.Duration, logger zerolog.Logger) *BarkNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if baseURL == "" {
		baseURL = "https://api.day.app"
	}
	return &BarkNotifier{
		key:     key,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With().Str("component", "alert_bark").Logger(),
	}
}

// Notify issues GET <base>/<key>/<title>/<body>.
func (n *BarkNotifier) Notify(ctx context.Context, ev Event) error {
	endpoint := fmt.Sprintf("%s/%s/%s/%s",
		n.baseURL,
		url.PathEscape(n.key),
		url.PathEscape(Title(ev)),
		url.PathEscape(RenderMessage(ev)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create bark request: %w", err)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send bark request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bark unexpected status: %d", resp.StatusCode)
	}

	var result struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil && result.Code != 0 && result.Code != http.StatusOK {
		return fmt.Errorf("bark returned code %d: %s", result.Code, result.Message)
	}

	n.logger.Debug().Str("kind", string(ev.Kind)).Str("pair", ev.Pair).Msg("alert sent (bark)")
	return nil
}

var _ Notifier = (*BarkNotifier)(nil)
