package ui

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"DigitBoard/internal/board"
	"DigitBoard/internal/predict"
)

const (
	AppID       = "io.digitboard.app"
	WindowTitle = "AI Handwritten Digit Recognition"

	healthTimeout = 5 * time.Second
)

// RunApp opens the main window and blocks until it is closed.
func RunApp(b *board.Board, client *predict.Client) {
	a := app.NewWithID(AppID)
	w := a.NewWindow(WindowTitle)
	w.Resize(fyne.NewSize(1024, 640))

	canvasView := NewBoardWidget(b)
	results := newResultPanel()
	status := widget.NewLabel("Backend: " + client.Endpoint())

	var tools *toolbar
	tools = newToolbar(
		b.Clear,
		func() {
			tools.setBusy(true)
			go func() {
				if _, err := b.Predict(context.Background()); errors.Is(err, board.ErrInFlight) {
					log.Debug().Msg("predict ignored, request in flight")
				}
			}()
		},
		func() { exportReport(w, b) },
	)

	// Board callbacks fire from input handlers and from the predict
	// goroutine; widget updates go through fyne.Do.
	b.OnDraw = func() { fyne.Do(canvasView.Sync) }
	b.OnPanel = func() {
		fyne.Do(func() {
			from, ok := b.PredictedFrom()
			results.show(b.Panel(), from, ok)
		})
	}
	b.OnBusy = func(busy bool) {
		fyne.Do(func() { tools.setBusy(busy) })
	}

	go checkHealth(client, status)

	left := container.NewBorder(
		widget.NewLabelWithStyle("Draw a digit (0-9)", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		nil, nil, nil,
		container.NewPadded(canvasView),
	)
	right := container.NewVScroll(container.NewPadded(results.root))
	split := container.NewHSplit(left, right)
	split.Offset = 0.4

	w.SetContent(container.NewBorder(tools.root, status, nil, nil, split))
	w.ShowAndRun()
}

// checkHealth reports backend readiness in the status bar.
func checkHealth(client *predict.Client, status *widget.Label) {
	ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()

	text := "Backend: " + client.Endpoint()
	h, err := client.Health(ctx)
	switch {
	case err != nil:
		log.Warn().Err(err).Str("endpoint", client.Endpoint()).Msg("health check failed")
		text += " (unreachable)"
	case !h.Ready():
		text += fmt.Sprintf(" (%s, model not loaded)", h.Status)
	default:
		text += " (ready)"
		if info, err := client.ModelInfo(ctx); err == nil {
			text += fmt.Sprintf(" | input %s, %d params", info.InputShape, info.TotalParams)
		}
	}
	fyne.Do(func() { status.SetText(text) })
}
