package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Nils-Coding/orderflow-dashboard/chart"
	"github.com/Nils-Coding/orderflow-dashboard/database"
	"github.com/Nils-Coding/orderflow-dashboard/fetch"
	"github.com/Nils-Coding/orderflow-dashboard/report"
	"github.com/Nils-Coding/orderflow-dashboard/shared"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

const (
	// ChartMode runs an interactive terminal chart for a single symbol.
	ChartMode = "chart"
	// ReportMode generates a volatility report over a date range.
	ReportMode = "report"
)

// DashboardConfig represents the configuration struct for the dashboard
// service.
type DashboardConfig struct {
	// Mode selects between the chart and report modes.
	Mode string
	// Symbols represents the tracked symbols. Chart mode uses the first.
	Symbols []string
	// Resolution is the candle resolution.
	Resolution string
	// Date is the charted session date.
	Date string
	// Start is the first report date, inclusive.
	Start string
	// End is the last report date, inclusive.
	End string
	// APIBaseURL is the orderflow service endpoint.
	APIBaseURL string
	// APIKey is the orderflow service API Key.
	APIKey string
	// ReportPath is the report file destination.
	ReportPath string
	// WatchInterval regenerates the report on the provided interval when set.
	WatchInterval time.Duration
	// DatabaseEndpoint is the report run database endpoint. Optional.
	DatabaseEndpoint string
	// DatabaseUser is the report run database user.
	DatabaseUser string
	// DatabasePass is the report run database user pass.
	DatabasePass string
	// Cancel is the context cancellation function.
	Cancel context.CancelFunc
}

// Validate asserts the config sane inputs.
func (cfg *DashboardConfig) Validate() error {
	var errs error

	if len(cfg.Symbols) == 0 {
		errs = errors.Join(errs, fmt.Errorf("no symbols provided for dashboard service"))
	}
	if cfg.APIBaseURL == "" {
		errs = errors.Join(errs, fmt.Errorf("orderflow api url cannot be an empty string"))
	}
	if cfg.APIKey == "" {
		errs = errors.Join(errs, fmt.Errorf("orderflow api key cannot be an empty string"))
	}
	if cfg.Cancel == nil {
		errs = errors.Join(errs, fmt.Errorf("context cancellation function cannot be nil"))
	}
	if _, err := shared.ParseResolution(cfg.Resolution); err != nil {
		errs = errors.Join(errs, err)
	}

	switch cfg.Mode {
	case ChartMode:
		if _, err := time.Parse(shared.DateLayout, cfg.Date); err != nil {
			errs = errors.Join(errs, fmt.Errorf("parsing chart date: %w", err))
		}
	case ReportMode:
		if cfg.ReportPath == "" {
			errs = errors.Join(errs, fmt.Errorf("report output path cannot be an empty string"))
		}
		if _, err := shared.DateRange(cfg.Start, cfg.End); err != nil {
			errs = errors.Join(errs, err)
		}
	default:
		errs = errors.Join(errs, fmt.Errorf("unknown dashboard mode: %q", cfg.Mode))
	}

	return errs
}

// Dashboard represents an orderflow dashboard service.
type Dashboard struct {
	cfg       *DashboardConfig
	chartApp  *chart.App
	generator *report.Generator
	db        *database.Database
	scheduler *gocron.Scheduler
	logger    *zerolog.Logger
	wg        sync.WaitGroup
}

// NewDashboard initializes a new dashboard service.
func NewDashboard(ctx context.Context, cfg *DashboardConfig) (*Dashboard, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating dashboard config: %w", err)
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	logger := log.With().Str("service", "dashboard").Logger()

	resolution, err := shared.ParseResolution(cfg.Resolution)
	if err != nil {
		return nil, fmt.Errorf("parsing resolution: %w", err)
	}

	client := fetch.NewOrderflowClient(&fetch.OrderflowConfig{
		BaseURL: cfg.APIBaseURL,
		APIKey:  cfg.APIKey,
	})

	service := &Dashboard{
		cfg:    cfg,
		logger: &logger,
	}

	switch cfg.Mode {
	case ChartMode:
		appLogger := logger.With().Str("component", "chartapp").Logger()
		app, err := chart.NewApp(&chart.AppConfig{
			Request: shared.NewCandleRequest(cfg.Symbols[0], cfg.Date, resolution),
			Fetcher: client,
			Logger:  &appLogger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating chart app: %w", err)
		}

		service.chartApp = app
	case ReportMode:
		fetchMgrLogger := logger.With().Str("component", "fetchmanager").Logger()
		fetchMgr, err := fetch.NewManager(&fetch.ManagerConfig{
			Fetcher: client,
			Logger:  &fetchMgrLogger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating fetch manager: %w", err)
		}

		var persistRun func(ctx context.Context, summary *report.RunSummary) error
		if cfg.DatabaseEndpoint != "" {
			dbLogger := logger.With().Str("component", "database").Logger()
			db, err := database.NewDatabase(ctx, &database.DatabaseConfig{
				Endpoint: cfg.DatabaseEndpoint,
				User:     cfg.DatabaseUser,
				Pass:     cfg.DatabasePass,
				Logger:   &dbLogger,
			})
			if err != nil {
				return nil, fmt.Errorf("creating database: %w", err)
			}

			service.db = db
			persistRun = db.PersistReportRun
		}

		generatorLogger := logger.With().Str("component", "generator").Logger()
		generator, err := report.NewGenerator(&report.GeneratorConfig{
			Symbols:    cfg.Symbols,
			Start:      cfg.Start,
			End:        cfg.End,
			Fetcher:    fetchMgr,
			OutputPath: cfg.ReportPath,
			PersistRun: persistRun,
			Logger:     &generatorLogger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating report generator: %w", err)
		}

		service.generator = generator
		service.scheduler = gocron.NewScheduler(time.UTC)
	}

	return service, nil
}

// runChart drives the interactive chart session until the user quits or the
// provided context is cancelled.
func (d *Dashboard) runChart(ctx context.Context) {
	program := tea.NewProgram(d.chartApp, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		d.logger.Error().Msgf("running chart session: %v", err)
	}

	d.cfg.Cancel()
}

// runReport generates the report, then regenerates it on the configured
// watch interval until the provided context is cancelled.
func (d *Dashboard) runReport(ctx context.Context) {
	generate := func() {
		err := d.generator.Generate(ctx)
		if err != nil {
			d.logger.Error().Msgf("generating report: %v", err)
		}
	}

	generate()

	if d.cfg.WatchInterval == 0 {
		d.cfg.Cancel()
		return
	}

	_, err := d.scheduler.Every(d.cfg.WatchInterval).Do(generate)
	if err != nil {
		d.logger.Error().Msgf("scheduling report regeneration: %v", err)
		d.cfg.Cancel()
		return
	}

	d.scheduler.StartAsync()
	<-ctx.Done()
	d.scheduler.Stop()
}

// Run handles the lifecycle processes of the dashboard service.
func (d *Dashboard) Run(ctx context.Context) {
	d.wg.Add(1)

	go func() {
		switch d.cfg.Mode {
		case ChartMode:
			d.runChart(ctx)
		case ReportMode:
			d.runReport(ctx)
		}
		d.wg.Done()
	}()

	d.wg.Wait()
}
