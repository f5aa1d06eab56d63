package sportsdata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chatbet/internal/cache"
	"chatbet/internal/metrics"

	"log/slog"
)

// Client provides access to the upstream sports-data API. The upstream is
// untrusted in shape and availability: every read degrades to "no data"
// locally rather than surfacing transport errors to callers.
type Client struct {
	logger      *slog.Logger
	metrics     *metrics.Metrics
	cache       *cache.Redis
	httpClient  *http.Client
	probeClient *http.Client
	baseURL     string
	cacheTTL    time.Duration
}

// Config holds sports API client configuration.
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	ProbeTimeout time.Duration
	CacheTTL     time.Duration
}

// New creates a sports API client. redis may be nil; responses are then
// fetched fresh on every call.
func New(cfg Config, logger *slog.Logger, m *metrics.Metrics, redis *cache.Redis) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	probeTimeout := cfg.ProbeTimeout
	if probeTimeout <= 0 {
		probeTimeout = 10 * time.Second
	}
	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Client{
		logger:      logger.With("component", "sportsapi"),
		metrics:     m,
		cache:       redis,
		httpClient:  &http.Client{Timeout: timeout},
		probeClient: &http.Client{Timeout: probeTimeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		cacheTTL:    cacheTTL,
	}
}

// GetSports fetches the available sports list.
func (c *Client) GetSports(ctx context.Context) json.RawMessage {
	return c.get(ctx, "/sports", nil)
}

// GetFixtures fetches fixtures, optionally filtered server-side.
func (c *Client) GetFixtures(ctx context.Context, sport, tournament, date string) json.RawMessage {
	params := url.Values{}
	if sport != "" {
		params.Set("sport", sport)
	}
	if tournament != "" {
		params.Set("tournament", tournament)
	}
	if date != "" {
		params.Set("date", date)
	}
	return c.get(ctx, "/sports/fixtures", params)
}

// GetOdds fetches odds, optionally filtered server-side.
func (c *Client) GetOdds(ctx context.Context, sport, tournament, fixtureID string) json.RawMessage {
	params := url.Values{}
	if sport != "" {
		params.Set("sport", sport)
	}
	if tournament != "" {
		params.Set("tournament", tournament)
	}
	if fixtureID != "" {
		params.Set("fixture_id", fixtureID)
	}
	return c.get(ctx, "/sports/odds", params)
}

// IsConnected probes upstream reachability with the short timeout. Success
// is exactly an HTTP 200 on GET /sports.
func (c *Client) IsConnected(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/sports", nil)
	if err != nil {
		return false
	}
	resp, err := c.probeClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

// PlaceBet submits a simulated wager to the external collaborator. Unlike
// the read paths this returns an error: the betting flow needs to tell the
// user explicitly when placement failed.
func (c *Client) PlaceBet(ctx context.Context, fixtureID, marketType, selection string, stake float64) (*BetResult, error) {
	payload := map[string]any{
		"fixture_id":  fixtureID,
		"market_type": marketType,
		"selection":   selection,
		"stake":       stake,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal bet: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sports/bets", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues("/sports/bets", "error").Inc()
		return nil, fmt.Errorf("place bet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.metrics.UpstreamRequests.WithLabelValues("/sports/bets", "failed").Inc()
		return nil, fmt.Errorf("place bet: status=%d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read bet response: %w", err)
	}
	var result BetResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode bet response: %w", err)
	}
	c.metrics.UpstreamRequests.WithLabelValues("/sports/bets", "success").Inc()
	return &result, nil
}

// get performs a GET and returns the raw JSON body 1:1, or nil when upstream
// is unreachable, non-200, or not serving JSON. Responses are cached briefly
// when redis is configured.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) json.RawMessage {
	cacheKey := fmt.Sprintf("sportsapi:%s?%s", endpoint, params.Encode())
	var cached json.RawMessage
	if ok, err := c.cache.GetJSON(ctx, cacheKey, &cached); err != nil {
		c.logger.Warn("cache read failed", "key", cacheKey, "error", err)
	} else if ok {
		return cached
	}

	target := c.baseURL + endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		c.metrics.Errors.WithLabelValues("sportsapi").Inc()
		return nil
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		c.logger.Warn("sports api request failed", "endpoint", endpoint, "error", err)
		return nil
	}
	defer resp.Body.Close()
	c.metrics.UpstreamLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "failed").Inc()
		c.logger.Warn("sports api non-200", "endpoint", endpoint, "status", resp.StatusCode)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		return nil
	}
	if !json.Valid(body) {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "invalid").Inc()
		c.logger.Warn("sports api returned non-JSON body", "endpoint", endpoint)
		return nil
	}

	c.metrics.UpstreamRequests.WithLabelValues(endpoint, "success").Inc()
	if err := c.cache.SetJSON(ctx, cacheKey, json.RawMessage(body), c.cacheTTL); err != nil {
		c.logger.Warn("cache write failed", "key", cacheKey, "error", err)
	}
	return body
}
