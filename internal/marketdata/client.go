// Package marketdata fetches current and historical prices from the external
// quote provider. The rest of the system depends only on the Client
// interface, so tests and offline runs can substitute a stub.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is the price lookup contract consumed by the background jobs.
type Client interface {
	// GetQuote returns the symbol's latest price.
	GetQuote(ctx context.Context, symbol string) (Quote, error)
	// GetDailyCloses returns up to the last `days` daily closes, oldest first.
	GetDailyCloses(ctx context.Context, symbol string, days int) ([]Bar, error)
}

// HTTPClient implements Client against the provider's chart API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a provider client. token may be empty when the
// provider endpoint requires no authentication.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// GetQuote fetches the symbol's latest price from the 5-day chart, preferring
// the meta price and falling back to the last non-zero close.
func (c *HTTPClient) GetQuote(ctx context.Context, symbol string) (Quote, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=5d", c.baseURL, symbol)
	result, err := c.query(ctx, url, symbol)
	if err != nil {
		return Quote{}, err
	}

	if result.Meta.RegularMarketPrice > 0 {
		return Quote{Symbol: symbol, Price: result.Meta.RegularMarketPrice}, nil
	}

	if len(result.Indicators.Quote) > 0 {
		closes := result.Indicators.Quote[0].Close
		for i := len(closes) - 1; i >= 0; i-- {
			if closes[i] > 0 {
				return Quote{Symbol: symbol, Price: closes[i]}, nil
			}
		}
	}
	return Quote{}, fmt.Errorf("no usable price returned for %s", symbol)
}

// GetDailyCloses fetches the symbol's recent daily closes, oldest first.
func (c *HTTPClient) GetDailyCloses(ctx context.Context, symbol string, days int) ([]Bar, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%dd", c.baseURL, symbol, days)
	result, err := c.query(ctx, url, symbol)
	if err != nil {
		return nil, err
	}

	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no price data returned for %s", symbol)
	}
	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return nil, fmt.Errorf("mismatched data lengths for %s", symbol)
	}

	bars := make([]Bar, 0, len(closes))
	for i, ts := range result.Timestamp {
		if closes[i] <= 0 {
			continue
		}
		bars = append(bars, Bar{Timestamp: ts, Close: closes[i]})
	}
	return bars, nil
}

// query executes a chart API request and unwraps the response envelope.
func (c *HTTPClient) query(ctx context.Context, url, symbol string) (chartResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return chartResult{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return chartResult{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return chartResult{}, err
	}

	var response chartResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return chartResult{}, err
	}
	if response.Chart.Error != nil {
		return chartResult{}, fmt.Errorf("provider error: %s", *response.Chart.Error)
	}
	if len(response.Chart.Result) == 0 {
		return chartResult{}, fmt.Errorf("no results returned for symbol %s", symbol)
	}
	return response.Chart.Result[0], nil
}
