package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"

	"DigitBoard/internal/raster"
	"DigitBoard/internal/render"
	"DigitBoard/internal/state"
)

const (
	chartWidth  = 480
	chartHeight = 300
)

var (
	errorRed = color.NRGBA{R: 220, G: 38, B: 38, A: 255}
	accent   = color.NRGBA{R: 102, G: 126, B: 234, A: 255}
)

// resultPanel is the right hand side of the window. Exactly one of the
// placeholder, the failure banner or the result block is visible.
type resultPanel struct {
	placeholder *widget.Label
	failure     *canvas.Text
	notice      *canvas.Text

	digit      *canvas.Text
	confidence *widget.Label
	input      *canvas.Image
	chart      *canvas.Image
	result     *fyne.Container

	root *fyne.Container
}

func newResultPanel() *resultPanel {
	r := &resultPanel{
		placeholder: widget.NewLabel(state.PlaceholderText),
		failure:     canvas.NewText("", errorRed),
		notice:      canvas.NewText("", errorRed),
		digit:       canvas.NewText("", accent),
		confidence:  widget.NewLabel(""),
		input:       &canvas.Image{},
		chart:       &canvas.Image{},
	}
	r.placeholder.Wrapping = fyne.TextWrapWord
	r.placeholder.Alignment = fyne.TextAlignCenter
	r.failure.TextStyle = fyne.TextStyle{Bold: true}
	r.digit.TextSize = 72
	r.digit.TextStyle = fyne.TextStyle{Bold: true}
	r.digit.Alignment = fyne.TextAlignCenter

	r.input.FillMode = canvas.ImageFillContain
	r.input.ScaleMode = canvas.ImageScalePixels
	r.input.SetMinSize(fyne.NewSize(raster.ModelInputSize*3, raster.ModelInputSize*3))
	r.chart.FillMode = canvas.ImageFillContain
	r.chart.SetMinSize(fyne.NewSize(chartWidth, chartHeight))

	headline := container.NewHBox(r.digit, container.NewVBox(
		widget.NewLabelWithStyle("Predicted digit", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		r.confidence,
	), container.NewVBox(widget.NewLabel("Model input"), r.input))
	r.result = container.NewVBox(r.notice, headline, r.chart)

	r.root = container.NewVBox(r.placeholder, r.failure, r.result)
	r.show(state.Cleared(), raster.Snapshot{}, false)
	return r
}

// show renders p. from is the drawing the result was predicted from.
func (r *resultPanel) show(p state.Panel, from raster.Snapshot, ok bool) {
	v := render.Describe(p)

	r.placeholder.Hide()
	r.failure.Hide()
	r.result.Hide()

	switch v.Kind {
	case state.KindResult:
		r.digit.Text = v.Digit
		r.digit.Refresh()
		r.confidence.SetText("Confidence: " + v.Confidence)

		r.notice.Text = v.Notice
		if v.Notice == "" {
			r.notice.Hide()
		} else {
			r.notice.Show()
		}
		r.notice.Refresh()

		r.input.Image = nil
		if ok {
			if im, err := from.Decode(); err == nil {
				r.input.Image = raster.Thumbnail(im, raster.ModelInputSize)
			} else {
				log.Warn().Err(err).Msg("could not decode predicted drawing")
			}
		}
		r.input.Refresh()

		r.chart.Image = nil
		if v.Bars != nil {
			im, err := render.Chart(v.Bars, chartWidth, chartHeight)
			if err != nil {
				log.Error().Err(err).Msg("could not render probability chart")
			} else {
				r.chart.Image = im
			}
		}
		r.chart.Refresh()
		r.result.Show()
	case state.KindFailed:
		r.failure.Text = v.Message
		r.failure.Refresh()
		r.failure.Show()
	default:
		r.placeholder.SetText(v.Message)
		r.placeholder.Show()
	}
	r.root.Refresh()
}
