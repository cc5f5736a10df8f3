package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/Nils-Coding/orderflow-dashboard/shared"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// windows are the rolling return windows analyzed per symbol, in minutes.
var windows = []int{5, 10, 15}

// resolutions are the candle resolutions analyzed per symbol.
var resolutions = []shared.Resolution{shared.OneMinute, shared.OneSecond}

// RangeFetcher defines the requirements for fetching candles spanning a
// date range.
type RangeFetcher interface {
	// FetchRange fetches candles for each day in the inclusive date
	// range.
	FetchRange(ctx context.Context, symbol string, start string, end string, resolution shared.Resolution) ([]shared.Candlestick, error)
}

// RunSummary summarizes one analyzed symbol, window and resolution
// combination of a report run.
type RunSummary struct {
	ID         string
	Symbol     string
	Resolution string
	Window     int
	Pumps      int
	Dumps      int
	CreatedOn  int64
}

// GeneratorConfig represents the configuration for the report generator.
type GeneratorConfig struct {
	// Symbols are the analyzed symbols.
	Symbols []string
	// Start is the first analyzed date, inclusive.
	Start string
	// End is the last analyzed date, inclusive.
	End string
	// Fetcher fetches the candle ranges backing the analysis.
	Fetcher RangeFetcher
	// OutputPath is the report file destination.
	OutputPath string
	// PersistRun stores a run summary for a completed analysis. Optional.
	PersistRun func(ctx context.Context, summary *RunSummary) error
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config has sane inputs.
func (cfg *GeneratorConfig) Validate() error {
	var errs error

	if len(cfg.Symbols) == 0 {
		errs = errors.Join(errs, fmt.Errorf("no symbols provided for report generation"))
	}
	if cfg.Fetcher == nil {
		errs = errors.Join(errs, fmt.Errorf("range fetcher cannot be nil"))
	}
	if cfg.OutputPath == "" {
		errs = errors.Join(errs, fmt.Errorf("report output path cannot be an empty string"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}
	if _, err := shared.DateRange(cfg.Start, cfg.End); err != nil {
		errs = errors.Join(errs, err)
	}

	return errs
}

// Generator produces volatility reports over a date range of candles.
type Generator struct {
	cfg *GeneratorConfig
}

// NewGenerator initializes a new report generator.
func NewGenerator(cfg *GeneratorConfig) (*Generator, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating generator config: %w", err)
	}

	return &Generator{cfg: cfg}, nil
}

// analyzeSymbol builds the report section for one symbol, or nil when the
// symbol has no data at any resolution.
func (g *Generator) analyzeSymbol(ctx context.Context, symbol string) (*SymbolSection, error) {
	candlesByResolution := make(map[shared.Resolution][]shared.Candlestick)
	for _, resolution := range resolutions {
		g.cfg.Logger.Info().Msgf("processing %s at %s resolution", symbol, resolution.String())

		candles, err := g.cfg.Fetcher.FetchRange(ctx, symbol, g.cfg.Start, g.cfg.End, resolution)
		if err != nil {
			return nil, fmt.Errorf("fetching %s range for %s: %w", resolution.String(), symbol, err)
		}

		if len(candles) == 0 {
			g.cfg.Logger.Info().Msgf("no data found for %s (%s)", symbol, resolution.String())
			continue
		}

		sort.SliceStable(candles, func(i, j int) bool {
			return candles[i].Time < candles[j].Time
		})
		candlesByResolution[resolution] = candles
	}

	if len(candlesByResolution) == 0 {
		return nil, nil
	}

	section := &SymbolSection{Symbol: symbol}
	for _, window := range windows {
		windowSection := WindowSection{Title: fmt.Sprintf("%d Minute Window", window)}

		for _, resolution := range resolutions {
			resolutionSection := ResolutionSection{Resolution: resolution.String()}

			candles := candlesByResolution[resolution]
			if len(candles) > 0 {
				n := window * resolution.BucketsPerMinute()
				counts := AnalyzeVolatility(RollingReturns(candles, n))
				if counts != nil {
					resolutionSection.Counts = counts
					resolutionSection.Chart = buildChartSVG(counts)
					g.persistRun(ctx, symbol, resolution, window, counts)
				}
			}

			windowSection.Resolutions = append(windowSection.Resolutions, resolutionSection)
		}

		section.Windows = append(section.Windows, windowSection)
	}

	return section, nil
}

// persistRun stores a run summary when a persistence hook is configured.
// Persistence failures are logged, they do not fail the report.
func (g *Generator) persistRun(ctx context.Context, symbol string, resolution shared.Resolution, window int, counts []BucketCount) {
	if g.cfg.PersistRun == nil {
		return
	}

	pumps, dumps := totals(counts)
	summary := &RunSummary{
		ID:         uuid.NewString(),
		Symbol:     symbol,
		Resolution: resolution.String(),
		Window:     window,
		Pumps:      pumps,
		Dumps:      dumps,
		CreatedOn:  time.Now().Unix(),
	}

	err := g.cfg.PersistRun(ctx, summary)
	if err != nil {
		g.cfg.Logger.Error().Msgf("persisting run summary for %s: %v", symbol, err)
	}
}

// Generate analyzes all configured symbols and writes the volatility
// report to the configured path.
func (g *Generator) Generate(ctx context.Context) error {
	sections := make([]SymbolSection, 0, len(g.cfg.Symbols))
	for _, symbol := range g.cfg.Symbols {
		section, err := g.analyzeSymbol(ctx, symbol)
		if err != nil {
			return err
		}
		if section == nil {
			continue
		}

		sections = append(sections, *section)
	}

	rendered, err := RenderHTML(sections)
	if err != nil {
		return err
	}

	err = os.WriteFile(g.cfg.OutputPath, []byte(rendered), 0o644)
	if err != nil {
		return fmt.Errorf("writing report to %s: %w", g.cfg.OutputPath, err)
	}

	g.cfg.Logger.Info().Msgf("report saved to %s", g.cfg.OutputPath)
	return nil
}
