package widget

import (
	"fmt"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/rs/zerolog"
)

func TestResizeAdapterValidate(t *testing.T) {
	logger := zerolog.Nop()

	// Ensure a missing container, surface or logger is rejected.
	_, err := NewResizeAdapter(&ResizeAdapterConfig{Surface: &fakeSurface{}, Logger: &logger})
	assert.Error(t, err)
	_, err = NewResizeAdapter(&ResizeAdapterConfig{Container: &fakeContainer{}, Logger: &logger})
	assert.Error(t, err)
	_, err = NewResizeAdapter(&ResizeAdapterConfig{Container: &fakeContainer{}, Surface: &fakeSurface{}})
	assert.Error(t, err)
}

func TestResizeAdapterWatch(t *testing.T) {
	logger := zerolog.Nop()
	container := &fakeContainer{width: 800}
	surface := &fakeSurface{width: 800}
	observer := &fakeObserver{}

	adapter, err := NewResizeAdapter(&ResizeAdapterConfig{
		Container: container,
		Observer:  observer,
		Surface:   surface,
		Logger:    &logger,
	})
	assert.NoError(t, err)

	adapter.Watch()

	// Ensure width changes reach the surface while watching.
	container.SetWidth(1200)
	width, _, _ := surface.snapshot()
	assert.Equal(t, width, 1200)

	// Ensure stop halts relaying and is idempotent.
	adapter.Stop()
	adapter.Stop()
	assert.Equal(t, observer.stopCount(), 1)

	adapter.onResize(640)
	width, _, _ = surface.snapshot()
	assert.Equal(t, width, 1200)
}

func TestResizeAdapterDegradation(t *testing.T) {
	logger := zerolog.Nop()
	container := &fakeContainer{width: 800}
	surface := &fakeSurface{width: 800}

	// Ensure a missing observer degrades to fixed-size rendering.
	adapter, err := NewResizeAdapter(&ResizeAdapterConfig{
		Container: container,
		Surface:   surface,
		Logger:    &logger,
	})
	assert.NoError(t, err)
	adapter.Watch()
	adapter.Stop()

	// Ensure an unavailable observation mechanism degrades the same way.
	observer := &fakeObserver{err: fmt.Errorf("size observation unsupported")}
	adapter, err = NewResizeAdapter(&ResizeAdapterConfig{
		Container: container,
		Observer:  observer,
		Surface:   surface,
		Logger:    &logger,
	})
	assert.NoError(t, err)
	adapter.Watch()

	container.SetWidth(1200)
	width, _, _ := surface.snapshot()
	assert.Equal(t, width, 800)
}
