package dexsnap

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
	drepo "github.com/Vitek192/sola-sub000/internal/domain/repository"
	"github.com/Vitek192/sola-sub000/internal/service/ratelimit"
	xhttp "github.com/Vitek192/sola-sub000/pkg/http"
)

// batchSize is the upstream per-request address limit.
const batchSize = 30

// Client implements MarketData over the DEX aggregator REST API.
type Client struct {
	baseURL string
	apiKey  string
	http    *xhttp.Client
	limiter *ratelimit.Limiter
	rps     float64
}

type Option func(*Client)

// WithAPIKey sets the aggregator API key header.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithRPS caps outbound requests per second.
func WithRPS(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.rps = rps
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = xhttp.NewClient(xhttp.WithTimeout(d)) }
}

// New creates a MarketData client against the given base URL.
func New(baseURL string, opts ...Option) drepo.MarketData {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    xhttp.NewClient(xhttp.WithTimeout(10 * time.Second)),
		limiter: ratelimit.New(),
		rps:     5,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type pairFrame struct {
	Address    string  `json:"address"`
	PriceUsd   float64 `json:"priceUsd"`
	Liquidity  float64 `json:"liquidityUsd"`
	Volume24h  float64 `json:"volume24h"`
	MarketCap  float64 `json:"marketCap"`
	Buys       int     `json:"buys"`
	Sells      int     `json:"sells"`
	Makers     int     `json:"makers"`
	BuyVolume  float64 `json:"buyVolume"`
	SellVolume float64 `json:"sellVolume"`
}

type pairsResponse struct {
	Pairs []pairFrame `json:"pairs"`
}

// Snapshots fetches current metrics for the given addresses, batching to the
// upstream limit. Unknown addresses are simply absent from the result.
func (c *Client) Snapshots(ctx context.Context, addresses []string) (map[string]models.MetricSnapshot, error) {
	out := make(map[string]models.MetricSnapshot, len(addresses))

	for start := 0; start < len(addresses); start += batchSize {
		end := start + batchSize
		if end > len(addresses) {
			end = len(addresses)
		}
		if err := c.fetchBatch(ctx, addresses[start:end], out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (c *Client) fetchBatch(ctx context.Context, batch []string, out map[string]models.MetricSnapshot) error {
	if err := c.waitForSlot(ctx); err != nil {
		return err
	}

	headers := map[string]string{}
	if c.apiKey != "" {
		headers["X-API-Key"] = c.apiKey
	}

	var resp pairsResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  http.MethodGet,
		URL:     fmt.Sprintf("%s/latest/dex/tokens/%s", c.baseURL, strings.Join(batch, ",")),
		Headers: headers,
	}, &resp)
	if err != nil {
		return fmt.Errorf("dexsnap fetch: %w", err)
	}

	for _, p := range resp.Pairs {
		if p.Address == "" {
			continue
		}
		out[p.Address] = models.MetricSnapshot{
			Price:      p.PriceUsd,
			Liquidity:  p.Liquidity,
			Volume24h:  p.Volume24h,
			MarketCap:  p.MarketCap,
			Buys:       p.Buys,
			Sells:      p.Sells,
			Makers:     p.Makers,
			BuyVolume:  p.BuyVolume,
			SellVolume: p.SellVolume,
		}
	}
	return nil
}

// waitForSlot blocks until the token bucket admits one request.
func (c *Client) waitForSlot(ctx context.Context) error {
	for !c.limiter.Allow("dexsnap", c.rps, c.rps) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
	return nil
}
