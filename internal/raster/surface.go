// Package raster is the drawing surface: a fixed-size white canvas that
// freehand strokes are rasterized onto, and that can be snapshotted as PNG.
package raster

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"

	"github.com/fogleman/gg"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

const (
	// Size is the width and height of the canvas in pixels.
	Size = 280
	// DefaultStrokeWidth matches the pen used for MNIST-style input.
	DefaultStrokeWidth = 20.0
	// ModelInputSize is the edge of the image the prediction model consumes.
	ModelInputSize = 28
)

var (
	Background = color.White
	Ink        = color.Black
)

// Point is a position relative to the canvas origin.
type Point struct{ X, Y float64 }

// Surface owns the pixel buffer. It is not safe for concurrent use; the
// board serializes access.
type Surface struct {
	dc      *gg.Context
	width   float64
	drawing bool
	last    Point
}

// New creates a surface filled with the background and configured for
// round-capped strokes of the given width.
func New(strokeWidth float64) *Surface {
	if strokeWidth <= 0 {
		strokeWidth = DefaultStrokeWidth
	}
	s := &Surface{dc: gg.NewContext(Size, Size), width: strokeWidth}
	s.dc.SetLineWidth(strokeWidth)
	s.dc.SetLineCap(gg.LineCapRound)
	s.dc.SetLineJoin(gg.LineJoinRound)
	s.fill()
	return s
}

func (s *Surface) fill() {
	s.dc.ClearPath()
	s.dc.SetColor(Background)
	s.dc.Clear()
	s.dc.SetColor(Ink)
}

// Drawing reports whether a stroke is in progress.
func (s *Surface) Drawing() bool { return s.drawing }

// Begin starts a stroke at p and marks it with a dot so a single tap shows up.
func (s *Surface) Begin(p Point) {
	s.drawing = true
	s.dot(p)
	s.last = p
}

// Extend draws a segment from the previous point to p. It does nothing
// unless a stroke is in progress.
func (s *Surface) Extend(p Point) {
	if !s.drawing {
		return
	}
	if p == s.last {
		s.dot(p)
		return
	}
	s.dc.MoveTo(s.last.X, s.last.Y)
	s.dc.LineTo(p.X, p.Y)
	s.dc.Stroke()
	// each segment is its own path so turns keep the pen width
	s.dc.NewSubPath()
	s.dc.MoveTo(p.X, p.Y)
	s.last = p
}

// End finishes the current stroke.
func (s *Surface) End() {
	s.drawing = false
	s.dc.ClearPath()
}

// Clear resets every pixel to the background.
func (s *Surface) Clear() {
	s.drawing = false
	s.fill()
}

func (s *Surface) dot(p Point) {
	s.dc.ClearPath()
	s.dc.DrawCircle(p.X, p.Y, s.width/2)
	s.dc.Fill()
}

// Image returns the live pixel buffer. Callers must not keep it across
// mutations if they need a stable copy; use Copy for that.
func (s *Surface) Image() *image.RGBA {
	return s.dc.Image().(*image.RGBA)
}

// Copy returns a detached copy of the pixel buffer.
func (s *Surface) Copy() *image.RGBA {
	src := s.Image()
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

// Blank reports whether the canvas holds nothing but background.
func (s *Surface) Blank() bool {
	im := s.Image()
	for i := 0; i < len(im.Pix); i += 4 {
		if im.Pix[i] != 0xff || im.Pix[i+1] != 0xff || im.Pix[i+2] != 0xff {
			return false
		}
	}
	return true
}

// Snapshot encodes the current canvas.
func (s *Surface) Snapshot() (Snapshot, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.Image()); err != nil {
		return Snapshot{}, errors.Wrap(err, "encode png")
	}
	return Snapshot{PNG: buf.Bytes()}, nil
}

// Snapshot is a PNG encoding of the canvas at a point in time.
type Snapshot struct {
	PNG []byte
}

const dataURLPrefix = "data:image/png;base64,"

// DataURL returns the snapshot in the form the prediction service expects.
func (s Snapshot) DataURL() string {
	return dataURLPrefix + base64.StdEncoding.EncodeToString(s.PNG)
}

// Decode returns the snapshot as an image.
func (s Snapshot) Decode() (image.Image, error) {
	im, err := png.Decode(bytes.NewReader(s.PNG))
	if err != nil {
		return nil, errors.Wrap(err, "decode png")
	}
	return im, nil
}

// SnapshotFromImage encodes an arbitrary image, e.g. one loaded from disk.
func SnapshotFromImage(im image.Image) (Snapshot, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, im); err != nil {
		return Snapshot{}, errors.Wrap(err, "encode png")
	}
	return Snapshot{PNG: buf.Bytes()}, nil
}

// ParseDataURL is the inverse of DataURL.
func ParseDataURL(s string) (Snapshot, error) {
	if len(s) < len(dataURLPrefix) || s[:len(dataURLPrefix)] != dataURLPrefix {
		return Snapshot{}, errors.New("not a base64 png data url")
	}
	raw, err := base64.StdEncoding.DecodeString(s[len(dataURLPrefix):])
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "decode base64")
	}
	return Snapshot{PNG: raw}, nil
}

// Thumbnail scales im down to n x n, the way the digit reaches the model.
func Thumbnail(im image.Image, n uint) image.Image {
	return resize.Resize(n, n, im, resize.Bilinear)
}
