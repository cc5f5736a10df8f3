package widget

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Nils-Coding/orderflow-dashboard/shared"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// DefaultHeight is the fixed surface height used when none is
	// configured.
	DefaultHeight = 20
)

// State represents the widget's presentation state. Exactly one of three
// phases holds at any time: loading, ready (empty Err) or failed (set
// Err).
type State struct {
	Loading bool
	Err     string
}

// Config represents the configuration for a chart widget.
type Config struct {
	// Request describes the candles backing the widget. It is fixed for
	// the widget's lifetime and fetched exactly once per attach.
	Request shared.CandleRequest
	// Fetcher is the candle service client.
	Fetcher shared.CandleFetcher
	// NewSurface creates the widget's rendering surface.
	NewSurface SurfaceFactory
	// Observer watches the container for size changes. A nil observer
	// degrades the chart to its initial fixed size.
	Observer SizeObserver
	// Height is the fixed surface height, defaulting to DefaultHeight.
	Height int
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config has sane inputs.
func (cfg *Config) Validate() error {
	var errs error

	if err := cfg.Request.Validate(); err != nil {
		errs = errors.Join(errs, err)
	}
	if cfg.Fetcher == nil {
		errs = errors.Join(errs, fmt.Errorf("candle fetcher cannot be nil"))
	}
	if cfg.NewSurface == nil {
		errs = errors.Join(errs, fmt.Errorf("surface factory cannot be nil"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}

// Widget represents a single candlestick chart widget. It owns its chart
// surface, presentation state and resize watch exclusively, and sequences
// their lifecycle from attach to detach.
type Widget struct {
	cfg    *Config
	id     string
	logger zerolog.Logger

	mtx      sync.Mutex
	surface  ChartSurface
	series   CandleSeries
	resize   *ResizeAdapter
	state    State
	attached bool
	detached bool
}

// New initializes a new chart widget.
func New(cfg *Config) (*Widget, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating widget config: %w", err)
	}

	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}

	id := uuid.NewString()
	logger := cfg.Logger.With().Str("widget", id).Logger()

	return &Widget{
		cfg:    cfg,
		id:     id,
		logger: logger,
	}, nil
}

// ID returns the widget's instance id.
func (w *Widget) ID() string {
	return w.id
}

// State returns a snapshot of the widget's presentation state.
func (w *Widget) State() State {
	w.mtx.Lock()
	defer w.mtx.Unlock()

	return w.state
}

// Attach mounts the widget onto the provided container, creating its chart
// surface and starting the single candle fetch. A nil container is a
// precondition violation and a silent no-op. Re-attaching a widget
// instance is a no-op, a fresh instance is required to retry.
func (w *Widget) Attach(ctx context.Context, container Container) {
	if container == nil {
		w.logger.Debug().Msg("attach called without a container")
		return
	}

	w.mtx.Lock()
	if w.attached || w.detached {
		w.mtx.Unlock()
		return
	}
	w.attached = true
	w.state = State{Loading: true}

	surface, err := w.cfg.NewSurface(container, SurfaceOptions{
		Width:  container.Width(),
		Height: w.cfg.Height,
	})
	if err != nil {
		w.logger.Error().Msgf("creating chart surface: %v", err)
		w.state = State{Err: err.Error()}
		w.mtx.Unlock()
		return
	}
	w.surface = surface
	w.mtx.Unlock()

	// The fetch is the sole asynchronous boundary of the widget.
	go w.load(ctx, container)
}

// load resolves the widget's single candle fetch and drives the state to
// its terminal ready or failed phase. A detach that raced the fetch wins,
// the result is discarded without touching the disposed surface.
func (w *Widget) load(ctx context.Context, container Container) {
	candles, err := w.cfg.Fetcher.FetchCandles(ctx, w.cfg.Request)

	w.mtx.Lock()
	defer w.mtx.Unlock()

	if w.detached {
		return
	}

	switch {
	case err != nil:
		w.logger.Error().Msgf("fetching candles: %v", err)
		w.state = State{Err: err.Error()}
	default:
		series := w.surface.AddCandleSeries()
		series.SetData(candles)
		w.surface.FitVisibleRange()
		w.series = series
		w.state = State{}
	}

	// The resize watch is installed regardless of the fetch outcome.
	resize, rErr := NewResizeAdapter(&ResizeAdapterConfig{
		Container: container,
		Observer:  w.cfg.Observer,
		Surface:   w.surface,
		Logger:    &w.logger,
	})
	if rErr != nil {
		w.logger.Error().Msgf("creating resize adapter: %v", rErr)
		return
	}

	resize.Watch()
	w.resize = resize
}

// Detach tears the widget down, stopping the resize watch and disposing
// the chart surface. Detach is idempotent and must be called once per
// successful attach to release the widget's resources.
func (w *Widget) Detach() {
	w.mtx.Lock()
	if w.detached {
		w.mtx.Unlock()
		return
	}
	w.detached = true
	surface := w.surface
	resize := w.resize
	w.surface = nil
	w.series = nil
	w.resize = nil
	w.mtx.Unlock()

	if resize != nil {
		resize.Stop()
	}
	if surface != nil {
		surface.Dispose()
	}
}
