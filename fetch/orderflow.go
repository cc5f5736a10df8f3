package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Nils-Coding/orderflow-dashboard/shared"
	"github.com/tidwall/gjson"
)

const (
	// candlesPath is the candle service path appended to bare endpoints.
	candlesPath = "/candles"
	// apiKeyHeader is the authentication header for the candle service.
	apiKeyHeader = "X-API-Key"
)

// OrderflowConfig represents the configuration for the orderflow client.
type OrderflowConfig struct {
	// BaseURL is the orderflow candle service endpoint.
	BaseURL string
	// APIKey is the orderflow service API key.
	APIKey string
}

// OrderflowClient represents the orderflow candle service API client.
type OrderflowClient struct {
	cfg   *OrderflowConfig
	httpc http.Client
}

// Ensure the OrderflowClient implements the CandleFetcher interface.
var _ shared.CandleFetcher = (*OrderflowClient)(nil)

// NewOrderflowClient instantiates a new orderflow client.
func NewOrderflowClient(cfg *OrderflowConfig) *OrderflowClient {
	return &OrderflowClient{
		cfg:   cfg,
		httpc: http.Client{Timeout: time.Second * 5},
	}
}

// formURL creates the full candles url including parameters for the api.
// Endpoints with a trailing slash or a pre-included candles path are
// handled.
func (c *OrderflowClient) formURL(params string) string {
	base := strings.TrimRight(c.cfg.BaseURL, "/")
	if !strings.HasSuffix(base, candlesPath) {
		base += candlesPath
	}

	return base + "?" + params
}

// parseCandleTime coerces a server provided candle time into unix seconds.
// The service emits numeric timestamps, string timestamp forms are
// tolerated.
func parseCandleTime(result gjson.Result) int64 {
	if result.Type == gjson.String {
		ts, err := time.Parse(time.RFC3339, result.String())
		if err == nil {
			return ts.Unix()
		}
	}

	return result.Int()
}

// ParseCandlesticks parses candlesticks from the provided json data. The
// output preserves server order and length exactly, each record is copied
// field by field.
func (c *OrderflowClient) ParseCandlesticks(data []gjson.Result) []shared.Candlestick {
	candles := make([]shared.Candlestick, len(data))

	for idx := range data {
		candles[idx] = shared.Candlestick{
			Time:  parseCandleTime(data[idx].Get("time")),
			Open:  data[idx].Get("open").Float(),
			High:  data[idx].Get("high").Float(),
			Low:   data[idx].Get("low").Float(),
			Close: data[idx].Get("close").Float(),
		}
	}

	return candles
}

// FetchCandles fetches the candles described by the provided request. A
// single failed attempt fails the whole operation, retry policy is the
// caller's responsibility.
func (c *OrderflowClient) FetchCandles(ctx context.Context, req shared.CandleRequest) ([]shared.Candlestick, error) {
	params := url.Values{}
	params.Add("symbol", req.Symbol)
	params.Add("date", req.Date)
	params.Add("resolution", req.Resolution.String())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.formURL(params.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("creating candle request: %w", err)
	}
	httpReq.Header.Set(apiKeyHeader, c.cfg.APIKey)

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetching candles for %s on %s: %w", req.Symbol, req.Date, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("API Error: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	data := gjson.GetBytes(body, "data")
	if !data.IsArray() {
		return nil, fmt.Errorf("malformed candle response: missing data field")
	}

	return c.ParseCandlesticks(data.Array()), nil
}
