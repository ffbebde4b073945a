package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"

	"DigitBoard/internal/board"
	"DigitBoard/internal/raster"
)

// BoardWidget shows the drawing surface and feeds pointer and touch input
// into the board. Mouse and touch end up in the same three calls once the
// position is mapped onto the raster.
type BoardWidget struct {
	widget.BaseWidget
	board *board.Board
	image *canvas.Image
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)
var _ mobile.Touchable = (*BoardWidget)(nil)

func NewBoardWidget(b *board.Board) *BoardWidget {
	w := &BoardWidget{board: b}
	w.image = canvas.NewImageFromImage(b.Image())
	w.image.FillMode = canvas.ImageFillStretch
	w.image.ScaleMode = canvas.ImageScalePixels
	w.ExtendBaseWidget(w)
	return w
}

// Sync copies the board pixels into the displayed image. Call it on the
// fyne main goroutine.
func (w *BoardWidget) Sync() {
	w.image.Image = w.board.Image()
	w.image.Refresh()
}

// toRaster maps a widget position onto raster coordinates.
func (w *BoardWidget) toRaster(pos fyne.Position) raster.Point {
	size := w.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return raster.Point{X: float64(pos.X), Y: float64(pos.Y)}
	}
	return raster.Point{
		X: float64(pos.X) * raster.Size / float64(size.Width),
		Y: float64(pos.Y) * raster.Size / float64(size.Height),
	}
}

func (w *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		w.board.BeginStroke(w.toRaster(e.Position))
	}
}

func (w *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		w.board.EndStroke()
	}
}

func (w *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	w.board.ExtendStroke(w.toRaster(e.Position))
}

func (w *BoardWidget) MouseIn(*desktop.MouseEvent) {}

// MouseOut ends the stroke like a pointer leaving the canvas.
func (w *BoardWidget) MouseOut() { w.board.EndStroke() }

func (w *BoardWidget) Dragged(e *fyne.DragEvent) {
	w.board.ExtendStroke(w.toRaster(e.Position))
}

func (w *BoardWidget) DragEnd() { w.board.EndStroke() }

func (w *BoardWidget) TouchDown(e *mobile.TouchEvent) {
	w.board.BeginStroke(w.toRaster(e.Position))
}

func (w *BoardWidget) TouchUp(*mobile.TouchEvent)     { w.board.EndStroke() }
func (w *BoardWidget) TouchCancel(*mobile.TouchEvent) { w.board.EndStroke() }

func (w *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return &boardWidgetRenderer{widget: w}
}

type boardWidgetRenderer struct {
	widget *BoardWidget
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.widget.image}
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.widget.image.Resize(size)
	r.widget.image.Move(fyne.NewPos(0, 0))
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(raster.Size, raster.Size)
}

func (r *boardWidgetRenderer) Refresh() { r.widget.image.Refresh() }
func (r *boardWidgetRenderer) Destroy() {}
