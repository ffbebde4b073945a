package render

import (
	"bytes"
	"image"
	"image/png"
	"strconv"
	"sync"

	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNotSetup is returned by Chart before Setup has run.
var ErrNotSetup = errors.New("render: Setup has not been called")

var (
	setupOnce sync.Once
	setupErr  error
	chartFont *truetype.Font
)

// Setup loads the chart font. It runs once per process and must be called
// before the first Chart; later calls return the first outcome.
func Setup() error {
	setupOnce.Do(func() {
		chartFont, setupErr = chart.GetDefaultFont()
		if setupErr != nil {
			setupErr = errors.Wrap(setupErr, "load chart font")
		}
	})
	return setupErr
}

var (
	barFill   = drawing.Color{R: 102, G: 126, B: 234, A: 204}
	barStroke = drawing.Color{R: 102, G: 126, B: 234, A: 255}
)

// Chart renders bars as a PNG bar chart with a fixed 0-100 y axis.
func Chart(bars []Bar, width, height int) (image.Image, error) {
	if chartFont == nil {
		return nil, ErrNotSetup
	}
	if len(bars) == 0 {
		return nil, errors.New("render: no bars to chart")
	}

	values := make([]chart.Value, 0, len(bars))
	for _, b := range bars {
		values = append(values, chart.Value{
			Label: b.Label,
			Value: b.Value,
			Style: chart.Style{FillColor: barFill, StrokeColor: barStroke, StrokeWidth: 1},
		})
	}

	ticks := make([]chart.Tick, 0, 6)
	for v := 0; v <= 100; v += 20 {
		ticks = append(ticks, chart.Tick{Value: float64(v), Label: strconv.Itoa(v)})
	}

	graph := chart.BarChart{
		Title:      ChartTitle,
		Font:       chartFont,
		Width:      width,
		Height:     height,
		BarWidth:   barWidth(width, len(bars)),
		BarSpacing: 8,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 12, Right: 12, Bottom: 12}},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
			Ticks: ticks,
		},
		Bars: values,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, errors.Wrap(err, "render chart")
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, errors.Wrap(err, "decode chart")
	}
	return img, nil
}

func barWidth(width, n int) int {
	w := (width - 80 - 8*(n-1)) / n
	if w < 4 {
		return 4
	}
	return w
}
