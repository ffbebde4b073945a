package board

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DigitBoard/internal/predict"
	"DigitBoard/internal/raster"
	"DigitBoard/internal/state"
)

const sevenBody = `{"prediction":7,"confidence":0.93,"probabilities":{"0":0.01,"1":0,"2":0.01,"3":0,"4":0,"5":0,"6":0,"7":0.93,"8":0.04,"9":0.01}}`

func newBoard(t *testing.T, h http.Handler, opts Options) *Board {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := predict.NewClient(srv.URL, srv.Client(), 0)
	require.NoError(t, err)
	return New(c, opts)
}

func respond(code int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
		_, _ = w.Write([]byte(body))
	}
}

func TestPredictSuccess(t *testing.T) {
	var image string
	b := newBoard(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req predict.Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		image = req.Image
		_, _ = w.Write([]byte(sevenBody))
	}), Options{})

	b.BeginStroke(raster.Point{X: 140, Y: 60})
	b.ExtendStroke(raster.Point{X: 140, Y: 220})
	b.EndStroke()

	panel, err := b.Predict(context.Background())
	require.NoError(t, err)

	shown, ok := panel.(state.Showing)
	require.True(t, ok)
	assert.Equal(t, 7, shown.Result.Prediction)
	assert.Equal(t, panel, b.Panel())

	sent, err := raster.ParseDataURL(image)
	require.NoError(t, err)
	from, ok := b.PredictedFrom()
	require.True(t, ok)
	assert.Equal(t, sent.PNG, from.PNG)
	assert.False(t, b.Busy())
}

func TestPredictServerErrorReenablesTrigger(t *testing.T) {
	b := newBoard(t, respond(http.StatusInternalServerError, `{"error":"Model not loaded"}`), Options{})

	var events []bool
	b.OnBusy = func(v bool) { events = append(events, v) }

	panel, err := b.Predict(context.Background())
	require.Error(t, err)

	assert.Equal(t, state.Failed{Message: state.FailureMessage}, panel)
	assert.Equal(t, []bool{true, false}, events)
	assert.False(t, b.Busy())

	// the user can retry right away
	_, err = b.Predict(context.Background())
	assert.False(t, errors.Is(err, ErrInFlight))
}

func TestPredictFailurePolicy(t *testing.T) {
	var fail atomic.Bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(sevenBody))
	})

	t.Run("clear", func(t *testing.T) {
		fail.Store(false)
		b := newBoard(t, h, Options{})
		_, err := b.Predict(context.Background())
		require.NoError(t, err)

		fail.Store(true)
		panel, err := b.Predict(context.Background())
		require.Error(t, err)
		assert.Equal(t, state.KindFailed, panel.Kind())
	})

	t.Run("keep", func(t *testing.T) {
		fail.Store(false)
		b := newBoard(t, h, Options{KeepOnError: true})
		_, err := b.Predict(context.Background())
		require.NoError(t, err)

		fail.Store(true)
		panel, err := b.Predict(context.Background())
		require.Error(t, err)
		shown, ok := panel.(state.Showing)
		require.True(t, ok)
		assert.Equal(t, 7, shown.Result.Prediction)
		assert.Equal(t, state.FailureMessage, shown.Notice)
	})
}

func TestPredictMalformedBody(t *testing.T) {
	b := newBoard(t, respond(http.StatusOK, `not json`), Options{})

	panel, err := b.Predict(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, predict.ErrMalformed))
	assert.Equal(t, state.Failed{Message: state.FailureMessage}, panel)
}

func TestDoubleActivationSendsOneRequest(t *testing.T) {
	var requests atomic.Int32
	arrived := make(chan struct{})
	release := make(chan struct{})
	b := newBoard(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		close(arrived)
		<-release
		_, _ = w.Write([]byte(sevenBody))
	}), Options{})

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = b.Predict(context.Background())
	}()

	select {
	case <-arrived:
	case <-time.After(5 * time.Second):
		t.Fatal("first request never reached the server")
	}
	assert.True(t, b.Busy())

	_, err := b.Predict(context.Background())
	assert.True(t, errors.Is(err, ErrInFlight))

	close(release)
	wg.Wait()

	require.NoError(t, firstErr)
	assert.Equal(t, int32(1), requests.Load())
	assert.False(t, b.Busy())
}

func TestClearResetsCanvasAndPanel(t *testing.T) {
	b := newBoard(t, respond(http.StatusOK, sevenBody), Options{})
	fresh := raster.New(0).Copy()

	var panels int
	b.OnPanel = func() { panels++ }

	b.BeginStroke(raster.Point{X: 20, Y: 20})
	b.ExtendStroke(raster.Point{X: 260, Y: 260})
	b.EndStroke()
	_, err := b.Predict(context.Background())
	require.NoError(t, err)

	b.Clear()

	assert.Equal(t, fresh.Pix, b.Image().Pix)
	assert.Equal(t, state.Cleared(), b.Panel())
	_, ok := b.PredictedFrom()
	assert.False(t, ok)
	// started, settled, cleared
	assert.Equal(t, 3, panels)
}

func TestExtendWithoutStrokeDoesNotNotify(t *testing.T) {
	b := New(nil, Options{})
	var changes int
	b.OnDraw = func() { changes++ }

	b.ExtendStroke(raster.Point{X: 10, Y: 10})
	assert.Zero(t, changes)
	assert.False(t, b.Drawing())

	b.BeginStroke(raster.Point{X: 10, Y: 10})
	assert.True(t, b.Drawing())
	b.ExtendStroke(raster.Point{X: 20, Y: 10})
	assert.Equal(t, 2, changes)
}
