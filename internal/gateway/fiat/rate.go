// Package fiat provides the display-only ETH/INR conversion collaborator.
// Rates never participate in a lifecycle invariant.
package fiat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type RateSource interface {
	ETHToINR(ctx context.Context) (float64, error)
}

// CoinGecko fetches the spot rate from the public simple-price endpoint.
type CoinGecko struct {
	baseURL string
	client  *http.Client
}

func NewCoinGecko(baseURL string) *CoinGecko {
	return &CoinGecko{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *CoinGecko) ETHToINR(ctx context.Context) (float64, error) {
	url := c.baseURL + "/simple/price?ids=ethereum&vs_currencies=inr"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch exchange rate: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetch exchange rate: status %d", resp.StatusCode)
	}
	var body map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, err
	}
	rate, ok := body["ethereum"]["inr"]
	if !ok {
		return 0, fmt.Errorf("exchange rate missing from response")
	}
	return rate, nil
}

const rateCacheKey = "fiat:eth_inr"

// CachedRateSource memoizes the upstream rate in redis with a TTL so bursts
// of display requests don't hammer the provider.
type CachedRateSource struct {
	src RateSource
	rdb *redis.Client
	ttl time.Duration
}

func NewCachedRateSource(src RateSource, rdb *redis.Client, ttl time.Duration) *CachedRateSource {
	return &CachedRateSource{src: src, rdb: rdb, ttl: ttl}
}

func (c *CachedRateSource) ETHToINR(ctx context.Context) (float64, error) {
	if v, err := c.rdb.Get(ctx, rateCacheKey).Result(); err == nil {
		if rate, perr := strconv.ParseFloat(v, 64); perr == nil {
			return rate, nil
		}
	}
	rate, err := c.src.ETHToINR(ctx)
	if err != nil {
		return 0, err
	}
	// best-effort cache fill
	_ = c.rdb.Set(ctx, rateCacheKey, strconv.FormatFloat(rate, 'f', -1, 64), c.ttl).Err()
	return rate, nil
}

var (
	_ RateSource = (*CoinGecko)(nil)
	_ RateSource = (*CachedRateSource)(nil)
)
