// Package board ties the drawing surface, the prediction client and the
// result panel into the single unit the window drives.
package board

import (
	"context"
	"image"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"DigitBoard/internal/predict"
	"DigitBoard/internal/raster"
	"DigitBoard/internal/state"
)

// ErrInFlight is returned by Predict while an earlier request is outstanding.
var ErrInFlight = errors.New("prediction already in progress")

type Options struct {
	StrokeWidth float64
	// KeepOnError leaves the last result on screen when a request fails.
	KeepOnError bool
}

type Board struct {
	mu      sync.Mutex
	surface *raster.Surface
	panel   state.Panel
	last    raster.Snapshot // what the current result was predicted from

	client   predict.Predictor
	inflight *semaphore.Weighted
	pending  atomic.Bool
	opts     Options

	// OnBusy is called with true when a request starts and false when it
	// settles. The window uses it to disable the Predict button.
	OnBusy func(bool)
	// OnDraw is called after the canvas pixels changed.
	OnDraw func()
	// OnPanel is called after the result panel changed.
	OnPanel func()
}

func New(client predict.Predictor, opts Options) *Board {
	return &Board{
		surface:  raster.New(opts.StrokeWidth),
		panel:    state.Cleared(),
		client:   client,
		inflight: semaphore.NewWeighted(1),
		opts:     opts,
	}
}

func (b *Board) drew() {
	if b.OnDraw != nil {
		b.OnDraw()
	}
}

func (b *Board) panelChanged() {
	if b.OnPanel != nil {
		b.OnPanel()
	}
}

// BeginStroke starts drawing at p.
func (b *Board) BeginStroke(p raster.Point) {
	b.mu.Lock()
	b.surface.Begin(p)
	b.mu.Unlock()
	b.drew()
}

// ExtendStroke continues the current stroke to p; it is a no-op when no
// stroke is in progress.
func (b *Board) ExtendStroke(p raster.Point) {
	b.mu.Lock()
	drawing := b.surface.Drawing()
	b.surface.Extend(p)
	b.mu.Unlock()
	if drawing {
		b.drew()
	}
}

// EndStroke finishes the current stroke.
func (b *Board) EndStroke() {
	b.mu.Lock()
	b.surface.End()
	b.mu.Unlock()
}

// Drawing reports whether a stroke is in progress.
func (b *Board) Drawing() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surface.Drawing()
}

// Clear wipes the canvas and the result area.
func (b *Board) Clear() {
	b.mu.Lock()
	b.surface.Clear()
	b.panel = state.Cleared()
	b.last = raster.Snapshot{}
	b.mu.Unlock()
	b.drew()
	b.panelChanged()
}

// Panel returns what the result area should show.
func (b *Board) Panel() state.Panel {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.panel
}

// Image returns a copy of the canvas pixels.
func (b *Board) Image() *image.RGBA {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surface.Copy()
}

// Snapshot encodes the canvas as it is now.
func (b *Board) Snapshot() (raster.Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surface.Snapshot()
}

// PredictedFrom returns the snapshot behind the current result, if any.
func (b *Board) PredictedFrom() (raster.Snapshot, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last, len(b.last.PNG) > 0
}

// Busy reports whether a request is outstanding.
func (b *Board) Busy() bool { return b.pending.Load() }

func (b *Board) busy(v bool) {
	b.pending.Store(v)
	if b.OnBusy != nil {
		b.OnBusy(v)
	}
}

// Predict sends the canvas to the service and updates the panel with the
// outcome. Only one request runs at a time; a call made while another is
// outstanding returns ErrInFlight without contacting the service. Failures
// are logged and turned into the fixed user-facing message; the returned
// error is the underlying cause.
func (b *Board) Predict(ctx context.Context) (state.Panel, error) {
	if !b.inflight.TryAcquire(1) {
		return b.Panel(), ErrInFlight
	}
	defer b.inflight.Release(1)

	b.busy(true)
	defer b.busy(false)

	b.mu.Lock()
	b.panel = state.Started(b.panel)
	snap, err := b.surface.Snapshot()
	b.mu.Unlock()
	b.panelChanged()

	var res predict.Result
	if err == nil {
		res, err = b.client.Predict(ctx, snap.DataURL())
	}

	b.mu.Lock()
	if err != nil {
		log.Err(err).Msg("predict digit")
		b.panel = state.FailedWith(b.panel, state.FailureMessage, b.opts.KeepOnError)
	} else {
		log.Info().
			Int("prediction", res.Prediction).
			Float64("confidence", res.Confidence).
			Msg("predict digit")
		b.panel = state.Succeeded(res)
		b.last = snap
	}
	panel := b.panel
	b.mu.Unlock()
	b.panelChanged()

	return panel, err
}
