package export

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"

	"DigitBoard/internal/raster"
	"DigitBoard/internal/render"
	"DigitBoard/internal/state"
)

// Report writes an A4 PDF describing a prediction: the drawing as sent,
// the 28x28 image the model sees, and the result panel with its bars.
func Report(w io.Writer, snap raster.Snapshot, panel state.Panel, at time.Time) error {
	p := gofpdf.New("P", "mm", "A4", "")
	p.SetTitle("Handwritten digit prediction", true)
	p.AddPage()

	p.SetFont("Helvetica", "B", 18)
	p.CellFormat(0, 10, "AI Handwritten Digit Recognition", "", 1, "L", false, 0, "")
	p.SetFont("Helvetica", "", 10)
	p.SetTextColor(110, 110, 110)
	p.CellFormat(0, 6, at.Format("2006-01-02 15:04:05"), "", 1, "L", false, 0, "")
	p.SetTextColor(0, 0, 0)
	p.Ln(4)

	if len(snap.PNG) > 0 {
		if err := addImages(p, snap); err != nil {
			return err
		}
	}

	v := render.Describe(panel)
	switch v.Kind {
	case state.KindResult:
		p.SetFont("Helvetica", "B", 14)
		p.CellFormat(0, 8, "Prediction Result", "", 1, "L", false, 0, "")
		p.SetFont("Helvetica", "B", 48)
		p.CellFormat(30, 22, v.Digit, "1", 0, "C", false, 0, "")
		p.SetFont("Helvetica", "", 14)
		p.CellFormat(0, 22, "  Confidence: "+v.Confidence, "", 1, "L", false, 0, "")
		if v.Notice != "" {
			notice(p, v.Notice)
		}
		if len(v.Bars) > 0 {
			p.Ln(4)
			bars(p, v.Bars, v.Digit)
		}
	case state.KindFailed:
		notice(p, v.Message)
	default:
		p.SetFont("Helvetica", "I", 12)
		p.MultiCell(0, 6, v.Message, "", "L", false)
	}

	if err := p.Output(w); err != nil {
		return errors.Wrap(err, "write pdf")
	}
	return nil
}

func addImages(p *gofpdf.Fpdf, snap raster.Snapshot) error {
	im, err := snap.Decode()
	if err != nil {
		return err
	}
	var thumb bytes.Buffer
	if err := png.Encode(&thumb, raster.Thumbnail(im, raster.ModelInputSize)); err != nil {
		return errors.Wrap(err, "encode thumbnail")
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader("drawing", opts, bytes.NewReader(snap.PNG))
	p.RegisterImageOptionsReader("input", opts, &thumb)
	if err := p.Error(); err != nil {
		return errors.Wrap(err, "register images")
	}

	y := p.GetY()
	p.ImageOptions("drawing", 10, y, 70, 70, false, opts, 0, "")
	p.ImageOptions("input", 90, y, 28, 28, false, opts, 0, "")
	p.SetFont("Helvetica", "", 8)
	p.SetXY(90, y+29)
	p.CellFormat(28, 4, fmt.Sprintf("%dx%d input", raster.ModelInputSize, raster.ModelInputSize), "", 0, "C", false, 0, "")
	p.SetXY(10, y+74)
	return nil
}

func notice(p *gofpdf.Fpdf, msg string) {
	p.SetFont("Helvetica", "", 11)
	p.SetFillColor(254, 226, 226)
	p.SetDrawColor(239, 68, 68)
	p.MultiCell(0, 7, msg, "1", "L", true)
	p.SetDrawColor(0, 0, 0)
}

func bars(p *gofpdf.Fpdf, bs []render.Bar, top string) {
	const (
		labelW = 8.0
		fullW  = 120.0
		rowH   = 6.0
	)
	p.SetFont("Helvetica", "B", 12)
	p.CellFormat(0, 8, render.ChartTitle, "", 1, "L", false, 0, "")
	p.SetFont("Helvetica", "", 10)
	for _, b := range bs {
		x, y := p.GetXY()
		p.CellFormat(labelW, rowH, b.Label, "", 0, "C", false, 0, "")
		p.SetFillColor(230, 232, 240)
		p.Rect(x+labelW, y+1, fullW, rowH-2, "F")
		if b.Label == top {
			p.SetFillColor(34, 197, 94)
		} else {
			p.SetFillColor(102, 126, 234)
		}
		if w := fullW * b.Value / 100; w > 0 {
			p.Rect(x+labelW, y+1, w, rowH-2, "F")
		}
		p.SetXY(x+labelW+fullW+2, y)
		p.CellFormat(20, rowH, fmt.Sprintf("%.2f%%", b.Value), "", 1, "R", false, 0, "")
	}
}
