package widget

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// ResizeAdapterConfig represents the configuration for the resize adapter.
type ResizeAdapterConfig struct {
	// Container is the observed display region.
	Container Container
	// Observer is the host's size observation capability. A nil observer
	// degrades the chart to its initial fixed size.
	Observer SizeObserver
	// Surface is the synchronized rendering surface.
	Surface ChartSurface
	// Logger represents the widget logger.
	Logger *zerolog.Logger
}

// Validate asserts the config has sane inputs.
func (cfg *ResizeAdapterConfig) Validate() error {
	var errs error

	if cfg.Container == nil {
		errs = errors.Join(errs, fmt.Errorf("container cannot be nil"))
	}
	if cfg.Surface == nil {
		errs = errors.Join(errs, fmt.Errorf("surface cannot be nil"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}

// ResizeAdapter keeps a chart surface's width synchronized with its
// container for the lifetime of a mount.
type ResizeAdapter struct {
	cfg *ResizeAdapterConfig

	mtx     sync.Mutex
	stopped bool
}

// NewResizeAdapter initializes a new resize adapter.
func NewResizeAdapter(cfg *ResizeAdapterConfig) (*ResizeAdapter, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating resize adapter config: %w", err)
	}

	return &ResizeAdapter{cfg: cfg}, nil
}

// Watch registers the container size watch. A host without an observation
// mechanism is a reported limitation, not an error, the chart simply stays
// at its initial size.
func (r *ResizeAdapter) Watch() {
	if r.cfg.Observer == nil {
		r.cfg.Logger.Info().Msg("no size observer available, chart stays at its initial size")
		return
	}

	err := r.cfg.Observer.Observe(r.cfg.Container, r.onResize)
	if err != nil {
		r.cfg.Logger.Info().Msgf("size observation unavailable, chart stays at its initial size: %v", err)
	}
}

// onResize relays a container width change to the surface. Changes
// arriving after the adapter stopped are discarded so a disposed surface
// is never written to.
func (r *ResizeAdapter) onResize(width int) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.stopped {
		return
	}

	r.cfg.Surface.Resize(width)
}

// Stop deregisters the watch. Safe to call repeatedly.
func (r *ResizeAdapter) Stop() {
	r.mtx.Lock()
	if r.stopped {
		r.mtx.Unlock()
		return
	}
	r.stopped = true
	r.mtx.Unlock()

	if r.cfg.Observer != nil {
		r.cfg.Observer.Stop()
	}
}
