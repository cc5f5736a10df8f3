package chart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Nils-Coding/orderflow-dashboard/shared"
	"github.com/Nils-Coding/orderflow-dashboard/widget"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

const (
	// refreshInterval is the poll interval while the widget is loading.
	refreshInterval = time.Millisecond * 100
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#aaaaaa"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e05c5c"))
)

// AppConfig represents the configuration for the chart app.
type AppConfig struct {
	// Request describes the candles shown by the hosted widget.
	Request shared.CandleRequest
	// Fetcher is the candle service client.
	Fetcher shared.CandleFetcher
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config has sane inputs.
func (cfg *AppConfig) Validate() error {
	var errs error

	if err := cfg.Request.Validate(); err != nil {
		errs = errors.Join(errs, err)
	}
	if cfg.Fetcher == nil {
		errs = errors.Join(errs, fmt.Errorf("candle fetcher cannot be nil"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}

// refreshMsg asks the app to re-read the hosted widget's state.
type refreshMsg struct{}

// App hosts a chart widget in a terminal session. The app is both the
// widget's container and its size observer: terminal window size messages
// drive the widget's resize watch.
type App struct {
	cfg     *AppConfig
	wdgt    *widget.Widget
	surface *Surface

	mtx      sync.Mutex
	width    int
	attached bool
	onResize func(width int)
}

// Ensure the app satisfies the container and size observer capabilities.
var _ widget.Container = (*App)(nil)
var _ widget.SizeObserver = (*App)(nil)
var _ tea.Model = (*App)(nil)

// NewApp initializes a new chart app hosting a single widget.
func NewApp(cfg *AppConfig) (*App, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating app config: %w", err)
	}

	app := &App{cfg: cfg}

	wdgt, err := widget.New(&widget.Config{
		Request: cfg.Request,
		Fetcher: cfg.Fetcher,
		NewSurface: func(container widget.Container, opts widget.SurfaceOptions) (widget.ChartSurface, error) {
			surface, err := Factory(container, opts)
			if err != nil {
				return nil, err
			}

			app.surface = surface.(*Surface)
			return surface, nil
		},
		Observer: app,
		Logger:   cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating chart widget: %w", err)
	}

	app.wdgt = wdgt
	return app, nil
}

// Width returns the container's current width.
func (a *App) Width() int {
	a.mtx.Lock()
	defer a.mtx.Unlock()

	return a.width
}

// Observe registers the widget's size watch on the terminal window.
func (a *App) Observe(_ widget.Container, onResize func(width int)) error {
	a.mtx.Lock()
	defer a.mtx.Unlock()

	a.onResize = onResize
	return nil
}

// Stop deregisters the size watch. Safe to call repeatedly.
func (a *App) Stop() {
	a.mtx.Lock()
	defer a.mtx.Unlock()

	a.onResize = nil
}

// Detach tears the hosted widget down.
func (a *App) Detach() {
	a.wdgt.Detach()
}

// refresh schedules the next widget state poll.
func refresh() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return refreshMsg{}
	})
}

// Init starts the widget state poll loop.
func (a *App) Init() tea.Cmd {
	return refresh()
}

// Update processes terminal messages, mounting the widget once the first
// window size arrives and relaying width changes afterwards.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.mtx.Lock()
		a.width = msg.Width
		attached := a.attached
		a.attached = true
		onResize := a.onResize
		a.mtx.Unlock()

		if !attached {
			// The terminal region is laid out now, mount the widget.
			a.wdgt.Attach(context.Background(), a)
			return a, nil
		}
		if onResize != nil {
			onResize(msg.Width)
		}
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			a.wdgt.Detach()
			return a, tea.Quit
		}

	case refreshMsg:
		if a.wdgt.State().Loading {
			return a, refresh()
		}
		return a, nil
	}

	return a, nil
}

// View renders the widget's presentation state: a loading indicator, the
// failure message or the populated chart.
func (a *App) View() string {
	if a.Width() == 0 {
		return "connecting…"
	}

	header := headerStyle.Render(fmt.Sprintf("%s  %s  %s",
		a.cfg.Request.Symbol, a.cfg.Request.Date, a.cfg.Request.Resolution.String()))
	footer := footerStyle.Render("[q] quit")

	state := a.wdgt.State()
	switch {
	case state.Loading:
		return fmt.Sprintf("%s\n\nloading candles…\n\n%s", header, footer)
	case state.Err != "":
		return fmt.Sprintf("%s\n\n%s\n\n%s", header, errorStyle.Render(state.Err), footer)
	default:
		rendered := a.surface.Render()
		if rendered == "" {
			rendered = "\nno candles for this session\n\n"
		}
		return fmt.Sprintf("%s\n%s%s", header, rendered, footer)
	}
}
