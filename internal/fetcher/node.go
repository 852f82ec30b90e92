package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const limitOrdersPath = "/api/v0/get-dao-coin-limit-orders"

// NodeOptions parameterise the DeSo node client.
type NodeOptions struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Node reads DAO coin limit orders from a DeSo node.
type Node struct {
	opts    NodeOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewNode constructs a node client.
func NewNode(opts NodeOptions, logger zerolog.Logger) *Node {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://node.deso.org"
	}

	return &Node{
		opts:    opts,
		logger:  logger.With().Str("component", "deso_node").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

type limitOrdersRequest struct {
	DAOCoin1CreatorPublicKeyBase58Check string `json:"DAOCoin1CreatorPublicKeyBase58Check"`
	DAOCoin2CreatorPublicKeyBase58Check string `json:"DAOCoin2CreatorPublicKeyBase58Check"`
}

// FetchOrderBook returns the node's response body for the (assetA, assetB) market.
func (n *Node) FetchOrderBook(ctx context.Context, assetA, assetB string) (json.RawMessage, error) {
	if assetA == "" || assetB == "" {
		return nil, errors.New("both asset public keys are required")
	}

	body, err := json.Marshal(limitOrdersRequest{
		DAOCoin1CreatorPublicKeyBase58Check: assetA,
		DAOCoin2CreatorPublicKeyBase58Check: assetB,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+limitOrdersPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(n.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	}

	start := time.Now()
	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get limit orders: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read limit orders: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseHTTPError(resp.StatusCode, payload)
	}

	n.logger.Debug().
		Str("asset_a", assetA).
		Str("asset_b", assetB).
		Int("bytes", len(payload)).
		Dur("elapsed", time.Since(start)).
		Msg("fetched limit orders")

	return json.RawMessage(payload), nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func parseHTTPError(status int, payload []byte) error {
	var apiErr errorResponse
	if err := json.Unmarshal(payload, &apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("deso node error (%d): %s", status, apiErr.Error)
	}
	if len(payload) > 0 {
		return fmt.Errorf("deso node error (%d): %s", status, strings.TrimSpace(string(payload)))
	}
	return fmt.Errorf("deso node error (%d)", status)
}

var _ OrderBookFetcher = (*Node)(nil)
