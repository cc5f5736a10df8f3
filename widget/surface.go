package widget

import "github.com/Nils-Coding/orderflow-dashboard/shared"

// Container describes an already laid out display region a widget can
// attach to.
type Container interface {
	// Width returns the container's current width.
	Width() int
}

// CandleSeries represents a candlestick data track rendered on a surface.
type CandleSeries interface {
	// SetData replaces the series data with the provided candles.
	SetData(candles []shared.Candlestick)
}

// ChartSurface represents an opaque rendering handle for a chart. A
// surface is created when a widget attaches, mutated during the widget's
// life and disposed exactly once when it detaches. No component may hold a
// reference past disposal.
type ChartSurface interface {
	// AddCandleSeries adds the primary candlestick series to the surface.
	AddCandleSeries() CandleSeries
	// FitVisibleRange fits the surface's visible range to the loaded data.
	FitVisibleRange()
	// Resize updates the surface's width.
	Resize(width int)
	// Dispose releases the resources held by the surface.
	Dispose()
}

// SurfaceOptions represents the creation options for a chart surface.
type SurfaceOptions struct {
	// Width is the initial surface width.
	Width int
	// Height is the fixed surface height.
	Height int
}

// SurfaceFactory creates a chart surface bound to the provided container.
// Any charting backend satisfying the ChartSurface capability can be
// supplied.
type SurfaceFactory func(container Container, opts SurfaceOptions) (ChartSurface, error)

// SizeObserver defines the requirements for observing container size
// changes.
type SizeObserver interface {
	// Observe registers a continuous size change watch on the provided
	// container, invoking onResize with each new width. An error reports
	// that the observation mechanism is unavailable on the host.
	Observe(container Container, onResize func(width int)) error
	// Stop deregisters the watch. It must be safe to call repeatedly.
	Stop()
}
