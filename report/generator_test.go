package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Nils-Coding/orderflow-dashboard/shared"
	"github.com/peterldowns/testy/assert"
	"github.com/rs/zerolog"
)

// fakeRangeFetcher serves canned candles per symbol and resolution.
type fakeRangeFetcher struct {
	candles map[string]map[shared.Resolution][]shared.Candlestick
}

func (f *fakeRangeFetcher) FetchRange(_ context.Context, symbol string, _ string, _ string, resolution shared.Resolution) ([]shared.Candlestick, error) {
	return f.candles[symbol][resolution], nil
}

// volatileCandles builds a minute series holding a single sharp move that
// every rolling window picks up.
func volatileCandles() []shared.Candlestick {
	candles := make([]shared.Candlestick, 40)
	for idx := range candles {
		price := 100.0
		if idx >= 20 {
			// A two percent step up at the twentieth minute.
			price = 102.0
		}
		candles[idx] = shared.Candlestick{
			Time:  1700000000 + int64(idx*60),
			Open:  price,
			High:  price,
			Low:   price,
			Close: price,
		}
	}

	return candles
}

func TestGeneratorConfigValidate(t *testing.T) {
	logger := zerolog.Nop()
	fetcher := &fakeRangeFetcher{}

	tests := []struct {
		name    string
		cfg     GeneratorConfig
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: GeneratorConfig{
				Symbols:    []string{"btcusdt"},
				Start:      "2025-12-11",
				End:        "2025-12-13",
				Fetcher:    fetcher,
				OutputPath: "report.html",
				Logger:     &logger,
			},
			wantErr: false,
		},
		{
			name: "missing symbols",
			cfg: GeneratorConfig{
				Start:      "2025-12-11",
				End:        "2025-12-13",
				Fetcher:    fetcher,
				OutputPath: "report.html",
				Logger:     &logger,
			},
			wantErr: true,
		},
		{
			name: "inverted date range",
			cfg: GeneratorConfig{
				Symbols:    []string{"btcusdt"},
				Start:      "2025-12-13",
				End:        "2025-12-11",
				Fetcher:    fetcher,
				OutputPath: "report.html",
				Logger:     &logger,
			},
			wantErr: true,
		},
		{
			name: "missing output path",
			cfg: GeneratorConfig{
				Symbols: []string{"btcusdt"},
				Start:   "2025-12-11",
				End:     "2025-12-13",
				Fetcher: fetcher,
				Logger:  &logger,
			},
			wantErr: true,
		},
	}

	for _, test := range tests {
		_, err := NewGenerator(&test.cfg)
		if test.wantErr != (err != nil) {
			t.Errorf("%s: expected error %v, got %v", test.name, test.wantErr, err)
		}
	}
}

func TestGenerate(t *testing.T) {
	logger := zerolog.Nop()
	outputPath := filepath.Join(t.TempDir(), "report.html")

	fetcher := &fakeRangeFetcher{
		candles: map[string]map[shared.Resolution][]shared.Candlestick{
			"btcusdt": {shared.OneMinute: volatileCandles()},
			// ethusdt has no data at any resolution.
			"ethusdt": {},
		},
	}

	var persisted []*RunSummary
	gen, err := NewGenerator(&GeneratorConfig{
		Symbols:    []string{"btcusdt", "ethusdt"},
		Start:      "2025-12-11",
		End:        "2025-12-13",
		Fetcher:    fetcher,
		OutputPath: outputPath,
		PersistRun: func(_ context.Context, summary *RunSummary) error {
			persisted = append(persisted, summary)
			return nil
		},
		Logger: &logger,
	})
	assert.NoError(t, err)

	assert.NoError(t, gen.Generate(context.Background()))

	rendered, err := os.ReadFile(outputPath)
	assert.NoError(t, err)
	html := string(rendered)

	// Ensure the symbol with data gets its window sections rendered.
	if !strings.Contains(html, "<h2>btcusdt</h2>") {
		t.Errorf("expected a btcusdt section in the report")
	}
	for _, title := range []string{"5 Minute Window", "10 Minute Window", "15 Minute Window"} {
		if !strings.Contains(html, title) {
			t.Errorf("expected a %q section in the report", title)
		}
	}
	if !strings.Contains(html, "&gt; 2.0%") {
		t.Errorf("expected the overflow bucket in the report")
	}

	// Ensure the dataless symbol is omitted entirely.
	if strings.Contains(html, "ethusdt") {
		t.Errorf("expected no ethusdt section in the report")
	}

	// Ensure the one-second resolution reports no events for btcusdt.
	if !strings.Contains(html, "No events found.") {
		t.Errorf("expected a no-events marker for the missing resolution")
	}

	// Ensure one summary per analyzed window was persisted.
	assert.Equal(t, len(persisted), 3)
	for _, summary := range persisted {
		assert.Equal(t, summary.Symbol, "btcusdt")
		assert.Equal(t, summary.Resolution, "1m")
		if summary.Pumps == 0 {
			t.Errorf("expected pump events in the persisted summary")
		}
		if summary.ID == "" {
			t.Errorf("expected a run summary id")
		}
	}
}
