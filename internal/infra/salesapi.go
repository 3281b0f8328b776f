package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// SalesTotals is the POS revenue API's answer for one (location, date).
type SalesTotals struct {
	Cash decimal.Decimal `json:"cash"`
	Card decimal.Decimal `json:"card"`
}

// SalesAPIClient queries the external point-of-sale revenue API for declared
// daily totals. The endpoint is known to be unreliable: calls go through a
// circuit breaker, successful answers are cached in Redis, and callers are
// expected to degrade to zero totals on any error — a provider outage must
// never block a register close.
type SalesAPIClient struct {
	baseURL    string
	httpClient *http.Client
	cb         *CircuitBreaker
	rdb        *redis.Client
	cacheTTL   time.Duration
}

func NewSalesAPIClient(baseURL string, rdb *redis.Client, cb *CircuitBreaker, cacheTTL time.Duration) *SalesAPIClient {
	return &SalesAPIClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cb:         cb,
		rdb:        rdb,
		cacheTTL:   cacheTTL,
	}
}

// Breaker exposes the circuit breaker for the health endpoint.
func (c *SalesAPIClient) Breaker() *CircuitBreaker { return c.cb }

// DailyTotals returns the provider's declared cash and card revenue for a
// location and date. Cached answers are served without touching the provider.
func (c *SalesAPIClient) DailyTotals(ctx context.Context, location, date string) (SalesTotals, error) {
	cacheKey := fmt.Sprintf("sales_totals:%s:%s", location, date)

	if c.rdb != nil {
		if cached, err := c.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var totals SalesTotals
			if json.Unmarshal(cached, &totals) == nil {
				return totals, nil
			}
		}
	}

	var totals SalesTotals
	err := c.cb.Execute(func() error {
		endpoint := fmt.Sprintf("%s/v1/locations/%s/sales-totals?date=%s",
			c.baseURL, url.PathEscape(location), url.QueryEscape(date))
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("sales api: create request: %w", err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("sales api: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("sales api: unexpected status %d", resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(&totals)
	})
	if err != nil {
		return SalesTotals{}, err
	}

	if c.rdb != nil {
		if data, err := json.Marshal(totals); err == nil {
			if err := c.rdb.Set(ctx, cacheKey, data, c.cacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("key", cacheKey).Msg("sales api: cache write failed")
			}
		}
	}

	return totals, nil
}
