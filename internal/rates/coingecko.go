package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	cb "github.com/sony/gobreaker"

	"cyclarb/internal/config"
	"cyclarb/internal/infra/cache"
	"cyclarb/internal/infra/metrics"
	"cyclarb/internal/infra/network"
)

// Client queries the CoinGecko simple/price endpoint. Responses are cached
// for a short TTL so repeated scans inside the window do not hit the API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	breaker *cb.CircuitBreaker
	limiter *network.Limiter
	logger  zerolog.Logger
}

func NewClient(cfg config.Config, c cache.Cache, logger zerolog.Logger) *Client {
	st := cb.Settings{Name: "coingecko"}
	st.Interval = 60 * time.Second
	st.Timeout = 60 * time.Second
	st.ReadyToTrip = func(counts cb.Counts) bool {
		return counts.ConsecutiveFailures >= 3
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.Rates.BaseURL, "/"),
		apiKey:  cfg.Rates.APIKey,
		http:    network.NewHTTPClient(),
		cache:   c,
		ttl:     time.Duration(cfg.Rates.CacheTTLSeconds) * time.Second,
		breaker: cb.NewCircuitBreaker(st),
		limiter: network.NewLimiter(cfg.Rates.RequestsPerSecond, cfg.Rates.Burst),
		logger:  logger,
	}
}

// SimplePrice returns quoted rates for ids against vs currencies. Sources
// the API answered with an empty object are dropped. Transport, decode and
// breaker failures return (nil, err); the caller treats nil as an empty
// rate table, never as a crash.
func (c *Client) SimplePrice(ctx context.Context, ids, vs []string) (Table, error) {
	if len(ids) == 0 || len(vs) == 0 {
		c.logger.Warn().Msg("simple price called without ids or vs currencies")
		return nil, nil
	}

	key := "simple_price:" + strings.Join(ids, ",") + "|" + strings.Join(vs, ",")
	if b, ok := c.cache.Get(key); ok {
		metrics.RateCacheHitsTotal.Inc()
		return decodeTable(b)
	}
	metrics.RateCacheMissesTotal.Inc()

	host := "api"
	if u, err := url.Parse(c.baseURL); err == nil && u.Host != "" {
		host = u.Host
	}
	if err := c.limiter.Wait(ctx, host); err != nil {
		return nil, err
	}

	start := time.Now()
	body, err := c.breaker.Execute(func() (any, error) {
		return c.fetch(ctx, ids, vs)
	})
	metrics.RateRequestSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RateFetchErrorsTotal.WithLabelValues(classify(err)).Inc()
		return nil, err
	}

	raw := body.([]byte)
	table, err := decodeTable(raw)
	if err != nil {
		metrics.RateFetchErrorsTotal.WithLabelValues("decode").Inc()
		return nil, err
	}
	c.cache.Set(key, raw, c.ttl)
	return table, nil
}

func (c *Client) fetch(ctx context.Context, ids, vs []string) ([]byte, error) {
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", strings.Join(vs, ","))
	u := c.baseURL + "/simple/price?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("simple price: unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func decodeTable(b []byte) (Table, error) {
	var t Table
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("decode simple price: %w", err)
	}
	// the API answers unsupported ids with empty objects; drop them
	for id, quotes := range t {
		if len(quotes) == 0 {
			delete(t, id)
		}
	}
	return t, nil
}

func classify(err error) string {
	switch {
	case err == nil:
		return "none"
	case err == cb.ErrOpenState || err == cb.ErrTooManyRequests:
		return "breaker"
	case strings.Contains(err.Error(), "unexpected status"):
		return "status"
	default:
		return "transport"
	}
}
