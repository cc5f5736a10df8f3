package chart

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/Nils-Coding/orderflow-dashboard/shared"
	"github.com/Nils-Coding/orderflow-dashboard/widget"
	"github.com/charmbracelet/lipgloss"
)

const (
	// yAxisWidth is the number of columns reserved for price labels.
	yAxisWidth = 11
	// candleWidth is the number of columns a single candle occupies.
	candleWidth = 2
	// timeLabelEvery is the candle interval between x-axis time labels.
	timeLabelEvery = 10
)

var (
	bullStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#26a641"))
	bearStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e05c5c"))
	wickStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	axisStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
)

// Surface is a terminal candlestick rendering surface. It satisfies the
// widget's ChartSurface capability.
type Surface struct {
	mtx      sync.Mutex
	width    int
	height   int
	candles  []shared.Candlestick
	high     float64
	low      float64
	disposed bool
}

// Ensure the surface implements the ChartSurface interface.
var _ widget.ChartSurface = (*Surface)(nil)

// NewSurface initializes a new terminal surface with the provided
// dimensions.
func NewSurface(width int, height int) *Surface {
	return &Surface{
		width:  width,
		height: height,
	}
}

// Factory adapts surface creation to the widget's surface factory
// capability.
func Factory(_ widget.Container, opts widget.SurfaceOptions) (widget.ChartSurface, error) {
	if opts.Width <= 0 {
		return nil, fmt.Errorf("surface width must be positive, got %d", opts.Width)
	}
	if opts.Height <= 0 {
		return nil, fmt.Errorf("surface height must be positive, got %d", opts.Height)
	}

	return NewSurface(opts.Width, opts.Height), nil
}

// series is the surface's candlestick data track.
type series struct {
	surface *Surface
}

// SetData replaces the series data with the provided candles.
func (s *series) SetData(candles []shared.Candlestick) {
	s.surface.setData(candles)
}

// AddCandleSeries adds the primary candlestick series to the surface.
func (s *Surface) AddCandleSeries() widget.CandleSeries {
	return &series{surface: s}
}

func (s *Surface) setData(candles []shared.Candlestick) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.disposed {
		return
	}

	s.candles = candles
}

// FitVisibleRange fits the surface's price range to the loaded candles.
func (s *Surface) FitVisibleRange() {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.disposed {
		return
	}

	s.high, s.low = shared.FetchRange(s.candles)
	if s.high == s.low {
		s.high = s.low + 1
	}
}

// Resize updates the surface's width. The height stays fixed for the
// surface's lifetime.
func (s *Surface) Resize(width int) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.disposed || width <= 0 {
		return
	}

	s.width = width
}

// Dispose releases the surface. Further mutations and renders are no-ops.
func (s *Surface) Dispose() {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.disposed = true
	s.candles = nil
}

// Width returns the surface's current width.
func (s *Surface) Width() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.width
}

// Height returns the surface's fixed height.
func (s *Surface) Height() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.height
}

// Disposed reports whether the surface has been disposed.
func (s *Surface) Disposed() bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.disposed
}

// visibleLocked returns the candles that fit in the surface at its
// current width, preferring the most recent ones.
func (s *Surface) visibleLocked() []shared.Candlestick {
	chartW := s.width - yAxisWidth
	maxCols := chartW / candleWidth
	if maxCols < 1 {
		maxCols = 1
	}

	candles := s.candles
	if len(candles) > maxCols {
		candles = candles[len(candles)-maxCols:]
	}

	return candles
}

// Render draws the surface to a styled string.
func (s *Surface) Render() string {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.disposed || len(s.candles) == 0 {
		return ""
	}

	chartH := s.height
	candles := s.visibleLocked()
	hi, lo := s.high, s.low
	if hi == lo {
		hi = lo + 1
	}

	// Build a grid of styled cells, one char each.
	cols := len(candles) * candleWidth
	grid := make([][]string, chartH)
	for row := range grid {
		grid[row] = make([]string, cols)
		for col := range grid[row] {
			grid[row][col] = " "
		}
	}

	for idx := range candles {
		renderCandle(grid, &candles[idx], idx*candleWidth, chartH, hi, lo)
	}

	// Rows with y-axis price labels.
	var b strings.Builder
	for row := 0; row < chartH; row++ {
		price := rowToPrice(row, chartH, hi, lo)
		b.WriteString(axisStyle.Render(fmt.Sprintf("%9.2f │", price)))
		b.WriteString(strings.Join(grid[row], ""))
		b.WriteByte('\n')
	}

	// X-axis separator.
	b.WriteString(axisStyle.Render(strings.Repeat("─", yAxisWidth+cols)))
	b.WriteByte('\n')

	// Time labels anchored at every tenth candle.
	b.WriteString(strings.Repeat(" ", yAxisWidth))
	skip := 0
	for idx := range candles {
		if skip > 0 {
			skip--
			continue
		}
		if idx%timeLabelEvery == 0 {
			label := time.Unix(candles[idx].Time, 0).UTC().Format("15:04")
			b.WriteString(axisStyle.Render(label))
			// The label spans more than one candle column.
			skip = (len(label) - 1) / candleWidth
			continue
		}
		b.WriteString(strings.Repeat(" ", candleWidth))
	}
	b.WriteByte('\n')

	return b.String()
}

// renderCandle paints one candle into the grid at the provided column.
func renderCandle(grid [][]string, c *shared.Candlestick, col int, chartH int, hi float64, lo float64) {
	style := bullStyle
	if c.FetchSentiment() == shared.Bearish {
		style = bearStyle
	}

	bodyTop := priceToRow(math.Max(c.Open, c.Close), chartH, hi, lo)
	bodyBot := priceToRow(math.Min(c.Open, c.Close), chartH, hi, lo)
	wickTop := priceToRow(c.High, chartH, hi, lo)
	wickBot := priceToRow(c.Low, chartH, hi, lo)

	for row := 0; row < chartH; row++ {
		inBody := row >= bodyTop && row <= bodyBot
		inWick := row >= wickTop && row <= wickBot

		var left, right string
		switch {
		case inBody:
			left = style.Render("█")
			right = style.Render("█")
		case inWick:
			left = wickStyle.Render("│")
			right = " "
		default:
			left = " "
			right = " "
		}

		if col < len(grid[row]) {
			grid[row][col] = left
		}
		if col+1 < len(grid[row]) {
			grid[row][col+1] = right
		}
	}
}

// priceToRow converts a price to a grid row, row zero being the high.
func priceToRow(price float64, chartH int, hi float64, lo float64) int {
	if hi == lo {
		return chartH / 2
	}

	row := int(math.Round((hi - price) / (hi - lo) * float64(chartH-1)))
	if row < 0 {
		row = 0
	}
	if row >= chartH {
		row = chartH - 1
	}

	return row
}

// rowToPrice is the inverse of priceToRow.
func rowToPrice(row int, chartH int, hi float64, lo float64) float64 {
	if chartH <= 1 {
		return hi
	}

	return hi - float64(row)/float64(chartH-1)*(hi-lo)
}
