package ui

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"DigitBoard/internal/board"
	"DigitBoard/internal/export"
)

// exportReport asks for a destination and writes the PDF report there.
// The report shows the drawing the current result came from, or the
// current canvas when nothing has been predicted yet.
func exportReport(w fyne.Window, b *board.Board) {
	snap, ok := b.PredictedFrom()
	if !ok {
		var err error
		if snap, err = b.Snapshot(); err != nil {
			dialog.ShowError(err, w)
			return
		}
	}
	panel := b.Panel()
	now := time.Now()

	save := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		if wc == nil {
			return // cancelled
		}
		defer wc.Close()

		if err := export.Report(wc, snap, panel, now); err != nil {
			log.Error().Err(err).Str("path", wc.URI().Path()).Msg("export failed")
			dialog.ShowError(errors.Wrap(err, "export report"), w)
			return
		}
		log.Info().Str("path", wc.URI().Path()).Msg("report exported")
	}, w)
	save.SetFileName(fmt.Sprintf("digit-%s.pdf", now.Format("20060102-150405")))
	save.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	save.Show()
}
