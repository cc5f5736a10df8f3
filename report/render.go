package report

import (
	"fmt"
	"html/template"
	"strings"
)

const (
	// svgChartWidth and svgChartHeight bound the bar area of a bucket
	// histogram.
	svgChartWidth  = 480
	svgChartHeight = 200
	// svgLabelArea is the vertical room reserved under the bars for
	// bucket labels.
	svgLabelArea = 60
)

// svgBar is one positioned histogram bar.
type svgBar struct {
	X      int
	Y      int
	Width  int
	Height int
	Fill   string
}

// svgLabel is one positioned piece of chart text.
type svgLabel struct {
	X    int
	Y    int
	Text string
}

// chartSVG is a prepared inline histogram of pump and dump counts.
type chartSVG struct {
	Width  int
	Height int
	Bars   []svgBar
	Labels []svgLabel
}

// buildChartSVG lays out the pump/dump histogram for the provided bucket
// counts.
func buildChartSVG(counts []BucketCount) chartSVG {
	chart := chartSVG{
		Width:  svgChartWidth,
		Height: svgChartHeight + svgLabelArea,
	}

	maxCount := 1
	for idx := range counts {
		if counts[idx].Pumps > maxCount {
			maxCount = counts[idx].Pumps
		}
		if counts[idx].Dumps > maxCount {
			maxCount = counts[idx].Dumps
		}
	}

	slot := svgChartWidth / len(counts)
	barWidth := slot * 2 / 5
	for idx := range counts {
		pumpHeight := counts[idx].Pumps * svgChartHeight / maxCount
		dumpHeight := counts[idx].Dumps * svgChartHeight / maxCount

		chart.Bars = append(chart.Bars, svgBar{
			X:      idx*slot + slot/10,
			Y:      svgChartHeight - pumpHeight,
			Width:  barWidth,
			Height: pumpHeight,
			Fill:   "green",
		}, svgBar{
			X:      idx*slot + slot/2,
			Y:      svgChartHeight - dumpHeight,
			Width:  barWidth,
			Height: dumpHeight,
			Fill:   "red",
		})

		chart.Labels = append(chart.Labels, svgLabel{
			X:    idx*slot + slot/2,
			Y:    svgChartHeight + 14,
			Text: counts[idx].Label,
		})
	}

	return chart
}

// ResolutionSection is the report material for one symbol, window and
// resolution combination.
type ResolutionSection struct {
	Resolution string
	Counts     []BucketCount
	Chart      chartSVG
}

// WindowSection groups the per-resolution sections of one rolling return
// window.
type WindowSection struct {
	Title       string
	Resolutions []ResolutionSection
}

// SymbolSection groups the window sections of one symbol.
type SymbolSection struct {
	Symbol  string
	Windows []WindowSection
}

var reportTemplate = template.Must(template.New("report").Parse(`<html>
<head>
<title>Volatility Report</title>
<style>
body { font-family: sans-serif; padding: 20px; }
.chart-container { display: flex; flex-wrap: wrap; gap: 20px; }
.chart-container > div { flex: 1; min-width: 400px; }
svg { max-width: 100%; border: 1px solid #ddd; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
</style>
</head>
<body>
<h1>Volatility Analysis Report</h1>
{{- range .}}
<h2>{{.Symbol}}</h2>
{{- range .Windows}}
<h3>{{.Title}}</h3>
<div class="chart-container">
{{- range .Resolutions}}
<div>
<h4>{{.Resolution}} Resolution</h4>
{{- if .Counts}}
<table>
<tr><th>Bucket</th><th>Pumps</th><th>Dumps</th></tr>
{{- range .Counts}}
<tr><td>{{.Label}}</td><td>{{.Pumps}}</td><td>{{.Dumps}}</td></tr>
{{- end}}
</table>
<svg viewBox="0 0 {{.Chart.Width}} {{.Chart.Height}}" xmlns="http://www.w3.org/2000/svg">
{{- range .Chart.Bars}}
<rect x="{{.X}}" y="{{.Y}}" width="{{.Width}}" height="{{.Height}}" fill="{{.Fill}}"/>
{{- end}}
{{- range .Chart.Labels}}
<text x="{{.X}}" y="{{.Y}}" font-size="9" text-anchor="middle">{{.Text}}</text>
{{- end}}
</svg>
{{- else}}
<p>No events found.</p>
{{- end}}
</div>
{{- end}}
</div>
<hr>
{{- end}}
{{- end}}
</body>
</html>
`))

// RenderHTML renders the full volatility report for the provided symbol
// sections.
func RenderHTML(sections []SymbolSection) (string, error) {
	var b strings.Builder
	err := reportTemplate.Execute(&b, sections)
	if err != nil {
		return "", fmt.Errorf("rendering report template: %w", err)
	}

	return b.String(), nil
}
