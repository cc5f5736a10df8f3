package fetch

import (
	"context"
	"errors"
	"fmt"

	"github.com/Nils-Coding/orderflow-dashboard/shared"
	"github.com/rs/zerolog"
)

// ManagerConfig represents the configuration for the fetch manager.
type ManagerConfig struct {
	// Fetcher is the candle service client.
	Fetcher shared.CandleFetcher
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config has sane inputs.
func (cfg *ManagerConfig) Validate() error {
	var errs error

	if cfg.Fetcher == nil {
		errs = errors.Join(errs, fmt.Errorf("candle fetcher cannot be nil"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}

// Manager coordinates candle fetches spanning multiple days.
type Manager struct {
	cfg *ManagerConfig
}

// NewManager initializes a new fetch manager.
func NewManager(cfg *ManagerConfig) (*Manager, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating fetch manager config: %w", err)
	}

	return &Manager{cfg: cfg}, nil
}

// FetchRange fetches candles for each day in the provided inclusive date
// range and concatenates them in fetch order. Days that fail to fetch are
// logged and skipped.
func (m *Manager) FetchRange(ctx context.Context, symbol string, start string, end string, resolution shared.Resolution) ([]shared.Candlestick, error) {
	dates, err := shared.DateRange(start, end)
	if err != nil {
		return nil, fmt.Errorf("generating date range: %w", err)
	}

	all := make([]shared.Candlestick, 0)
	for _, date := range dates {
		req := shared.NewCandleRequest(symbol, date, resolution)
		candles, err := m.cfg.Fetcher.FetchCandles(ctx, req)
		if err != nil {
			m.cfg.Logger.Error().Msgf("fetching %s candles for %s on %s: %v",
				resolution.String(), symbol, date, err)
			continue
		}

		all = append(all, candles...)
	}

	return all, nil
}
