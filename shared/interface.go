package shared

import "context"

// CandleFetcher defines the requirements for fetching candle data.
type CandleFetcher interface {
	// FetchCandles fetches the candles described by the provided request.
	FetchCandles(ctx context.Context, req CandleRequest) ([]Candlestick, error)
}
