package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DigitBoard/internal/board"
	"DigitBoard/internal/predict"
	"DigitBoard/internal/raster"
	"DigitBoard/internal/render"
	"DigitBoard/internal/state"
)

func visible(r *resultPanel) (placeholder, failure, result bool) {
	return r.placeholder.Visible(), r.failure.Visible(), r.result.Visible()
}

func TestResultPanelShowsOneState(t *testing.T) {
	test.NewTempApp(t)
	require.NoError(t, render.Setup())

	res := predict.Result{Prediction: 7, Confidence: 0.93, Probabilities: map[string]float64{"7": 0.93, "1": 0.07}}
	r := newResultPanel()

	p, f, s := visible(r)
	assert.Equal(t, []bool{true, false, false}, []bool{p, f, s}, "initial")
	assert.Equal(t, state.PlaceholderText, r.placeholder.Text)

	r.show(state.Succeeded(res), raster.Snapshot{}, false)
	p, f, s = visible(r)
	assert.Equal(t, []bool{false, false, true}, []bool{p, f, s}, "result")
	assert.Equal(t, "7", r.digit.Text)
	assert.Equal(t, "Confidence: 93.00%", r.confidence.Text)
	assert.False(t, r.notice.Visible())
	assert.NotNil(t, r.chart.Image)

	r.show(state.Failed{Message: state.FailureMessage}, raster.Snapshot{}, false)
	p, f, s = visible(r)
	assert.Equal(t, []bool{false, true, false}, []bool{p, f, s}, "failed")
	assert.Equal(t, state.FailureMessage, r.failure.Text)

	kept := state.FailedWith(state.Succeeded(res), state.FailureMessage, true)
	r.show(kept, raster.Snapshot{}, false)
	p, f, s = visible(r)
	assert.Equal(t, []bool{false, false, true}, []bool{p, f, s}, "kept")
	assert.True(t, r.notice.Visible())
	assert.Equal(t, state.FailureMessage, r.notice.Text)

	r.show(state.Cleared(), raster.Snapshot{}, false)
	p, f, s = visible(r)
	assert.Equal(t, []bool{true, false, false}, []bool{p, f, s}, "cleared")
}

func TestResultPanelShowsModelInput(t *testing.T) {
	test.NewTempApp(t)

	s := raster.New(raster.DefaultStrokeWidth)
	s.Begin(raster.Point{X: 140, Y: 140})
	s.End()
	snap, err := s.Snapshot()
	require.NoError(t, err)

	r := newResultPanel()
	r.show(state.Succeeded(predict.Result{Prediction: 1, Confidence: 0.5, Probabilities: map[string]float64{}}), snap, true)

	require.NotNil(t, r.input.Image)
	b := r.input.Image.Bounds()
	assert.Equal(t, raster.ModelInputSize, b.Dx())
	assert.Equal(t, raster.ModelInputSize, b.Dy())
	// no probabilities, no chart
	assert.Nil(t, r.chart.Image)
}

func TestToolbarBusy(t *testing.T) {
	test.NewTempApp(t)

	var predicts int
	tb := newToolbar(func() {}, func() { predicts++ }, func() {})

	test.Tap(tb.predict)
	assert.Equal(t, 1, predicts)

	tb.setBusy(true)
	assert.Equal(t, busyLabel, tb.predict.Text)
	assert.True(t, tb.predict.Disabled())
	test.Tap(tb.predict)
	assert.Equal(t, 1, predicts, "disabled button ignores taps")

	tb.setBusy(false)
	assert.Equal(t, predictLabel, tb.predict.Text)
	assert.False(t, tb.predict.Disabled())
	assert.False(t, tb.clear.Disabled())
}

func TestBoardWidgetMapsToRaster(t *testing.T) {
	test.NewTempApp(t)

	w := NewBoardWidget(board.New(nil, board.Options{}))
	w.Resize(fyne.NewSize(140, 560))

	assert.Equal(t, raster.Point{X: 140, Y: 70}, w.toRaster(fyne.NewPos(70, 140)))
	assert.Equal(t, raster.Point{X: 0, Y: 0}, w.toRaster(fyne.NewPos(0, 0)))
	assert.Equal(t, raster.Point{X: raster.Size, Y: raster.Size}, w.toRaster(fyne.NewPos(140, 560)))
}

func TestBoardWidgetDrawsStroke(t *testing.T) {
	test.NewTempApp(t)

	b := board.New(nil, board.Options{})
	w := NewBoardWidget(b)
	w.Resize(fyne.NewSize(raster.Size, raster.Size))

	var draws int
	b.OnDraw = func() { draws++ }

	at := func(x, y float32) fyne.PointEvent { return fyne.PointEvent{Position: fyne.NewPos(x, y)} }

	// a secondary click does not draw
	w.MouseDown(&desktop.MouseEvent{PointEvent: at(20, 20), Button: desktop.MouseButtonSecondary})
	assert.False(t, b.Drawing())

	w.MouseDown(&desktop.MouseEvent{PointEvent: at(60, 140), Button: desktop.MouseButtonPrimary})
	assert.True(t, b.Drawing())
	w.Dragged(&fyne.DragEvent{PointEvent: at(220, 140)})
	w.DragEnd()
	assert.False(t, b.Drawing())
	assert.Equal(t, 2, draws)

	w.Sync()
	im := b.Image()
	assert.Less(t, im.RGBAAt(140, 140).R, uint8(128), "middle of the stroke is inked")
	assert.Equal(t, uint8(255), im.RGBAAt(140, 20).R, "far from the stroke stays white")

	// moving the pointer after release must not draw
	w.MouseMoved(&desktop.MouseEvent{PointEvent: at(140, 260)})
	assert.Equal(t, 2, draws)
}
