package render

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"
	"sync"

	"github.com/hailam/chessrules/internal/board"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	regularFont = sync.OnceValues(func() (*opentype.Font, error) {
		return opentype.Parse(goregular.TTF)
	})
	boldFont = sync.OnceValues(func() (*opentype.Font, error) {
		return opentype.Parse(gobold.TTF)
	})
)

// newFace returns a face of f at size pixels.
func newFace(load func() (*opentype.Font, error), size float64) (font.Face, error) {
	f, err := load()
	if err != nil {
		return nil, fmt.Errorf("render: load font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("render: font face: %w", err)
	}
	return face, nil
}

// drawLabels letters every piece disc and, if asked, the board edges.
func drawLabels(img *image.RGBA, pos *board.Position, opts Options) error {
	s := opts.SquareSize

	pieceFace, err := newFace(boldFont, float64(s)*0.45)
	if err != nil {
		return err
	}
	defer pieceFace.Close()

	for sq := board.A1; sq <= board.H8; sq++ {
		if pos.IsEmpty(sq) {
			continue
		}
		ink := blackPiece
		if pos.ColorOn(sq) == board.Black {
			ink = whitePiece
		}
		letter := strings.ToUpper(string(pos.PieceOn(sq).Char()))
		drawCentered(img, pieceFace, letter, SquareRect(sq, s, opts.Flip), ink)
	}

	if !opts.Coordinates {
		return nil
	}

	coordFace, err := newFace(regularFont, float64(s)*0.2)
	if err != nil {
		return err
	}
	defer coordFace.Close()

	pad := s / 16
	ascent := coordFace.Metrics().Ascent.Ceil()
	for i := 0; i < 8; i++ {
		// Files along the bottom row, ranks down the left column.
		fileSq := board.NewSquare(i, 0)
		rankSq := board.NewSquare(0, i)
		if opts.Flip {
			fileSq = board.NewSquare(i, 7)
			rankSq = board.NewSquare(7, i)
		}

		r := SquareRect(fileSq, s, opts.Flip)
		label := string(rune('a' + i))
		w := font.MeasureString(coordFace, label).Ceil()
		drawString(img, coordFace, label, image.Pt(r.Max.X-w-pad, r.Max.Y-pad),
			contrast(squareColor(pos, fileSq, opts), opts))

		r = SquareRect(rankSq, s, opts.Flip)
		drawString(img, coordFace, strconv.Itoa(i+1), image.Pt(r.Min.X+pad, r.Min.Y+pad+ascent),
			contrast(squareColor(pos, rankSq, opts), opts))
	}
	return nil
}

// contrast picks the board colour opposite to bg for edge labels.
func contrast(bg color.RGBA, opts Options) color.RGBA {
	if bg == opts.Light {
		return opts.Dark
	}
	return opts.Light
}

func drawCentered(img *image.RGBA, face font.Face, s string, r image.Rectangle, ink color.Color) {
	m := face.Metrics()
	w := font.MeasureString(face, s)
	center := r.Min.Add(r.Max).Div(2)

	x := fixed.I(center.X) - w/2
	y := fixed.I(center.Y) + m.CapHeight/2
	d := font.Drawer{Dst: img, Src: image.NewUniform(ink), Face: face, Dot: fixed.Point26_6{X: x, Y: y}}
	d.DrawString(s)
}

func drawString(img *image.RGBA, face font.Face, s string, baseline image.Point, ink color.Color) {
	d := font.Drawer{Dst: img, Src: image.NewUniform(ink), Face: face, Dot: fixed.P(baseline.X, baseline.Y)}
	d.DrawString(s)
}
