package fetch

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/Nils-Coding/orderflow-dashboard/shared"
	"github.com/peterldowns/testy/assert"
	"github.com/rs/zerolog"
)

// stubFetcher serves canned candles per date and records requests.
type stubFetcher struct {
	mtx      sync.Mutex
	candles  map[string][]shared.Candlestick
	failures map[string]error
	requests []shared.CandleRequest
}

func (s *stubFetcher) FetchCandles(_ context.Context, req shared.CandleRequest) ([]shared.Candlestick, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.requests = append(s.requests, req)
	if err, ok := s.failures[req.Date]; ok {
		return nil, err
	}

	return s.candles[req.Date], nil
}

func TestNewManager(t *testing.T) {
	logger := zerolog.Nop()

	// Ensure a nil fetcher is rejected.
	_, err := NewManager(&ManagerConfig{Logger: &logger})
	assert.Error(t, err)

	// Ensure a nil logger is rejected.
	_, err = NewManager(&ManagerConfig{Fetcher: &stubFetcher{}})
	assert.Error(t, err)

	// Ensure a valid config creates a manager.
	mgr, err := NewManager(&ManagerConfig{Fetcher: &stubFetcher{}, Logger: &logger})
	assert.NoError(t, err)
	if mgr == nil {
		t.Fatal("expected a non-nil manager")
	}
}

func TestFetchRange(t *testing.T) {
	logger := zerolog.Nop()
	fetcher := &stubFetcher{
		candles: map[string][]shared.Candlestick{
			"2025-12-11": {{Time: 1, Close: 100}, {Time: 2, Close: 101}},
			"2025-12-13": {{Time: 5, Close: 104}},
		},
		failures: map[string]error{
			"2025-12-12": fmt.Errorf("API Error: 500"),
		},
	}

	mgr, err := NewManager(&ManagerConfig{Fetcher: fetcher, Logger: &logger})
	assert.NoError(t, err)

	// Ensure failed days are skipped and surviving days concatenate in
	// order.
	candles, err := mgr.FetchRange(context.Background(), "btcusdt", "2025-12-11", "2025-12-13", shared.OneMinute)
	assert.NoError(t, err)
	assert.Equal(t, len(candles), 3)
	assert.Equal(t, candles[0].Time, int64(1))
	assert.Equal(t, candles[2].Time, int64(5))

	// Ensure every day in the range was requested exactly once.
	assert.Equal(t, len(fetcher.requests), 3)
	assert.Equal(t, fetcher.requests[1].Date, "2025-12-12")
	assert.Equal(t, fetcher.requests[1].Symbol, "btcusdt")

	// Ensure an invalid range fails.
	_, err = mgr.FetchRange(context.Background(), "btcusdt", "2025-12-13", "2025-12-11", shared.OneMinute)
	assert.Error(t, err)
}
