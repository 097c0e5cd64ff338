// Package render draws board diagrams as images.
//
// The board is first described as SVG (squares, highlights and piece
// discs), rasterised with oksvg and rasterx, and then lettered with the
// Go fonts.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"github.com/hailam/chessrules/internal/board"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

const (
	DefaultSquareSize = 64
	MinSquareSize     = 16
	MaxSquareSize     = 256
)

// Options control how a diagram is drawn. Zero values select the defaults.
type Options struct {
	SquareSize  int  // Pixels per square
	Flip        bool // Draw from Black's side
	Coordinates bool // Label files and ranks along the edges

	// Squares to tint, e.g. the last move.
	Highlight []board.Square

	Light          color.RGBA
	Dark           color.RGBA
	HighlightColor color.RGBA
	CheckColor     color.RGBA // Tint of the king square when in check
}

var (
	defaultLight     = color.RGBA{0xf0, 0xd9, 0xb5, 0xff}
	defaultDark      = color.RGBA{0xb5, 0x88, 0x63, 0xff}
	defaultHighlight = color.RGBA{0xcd, 0xd2, 0x6a, 0xff}
	defaultCheck     = color.RGBA{0xe0, 0x4f, 0x4f, 0xff}

	whitePiece = color.RGBA{0xfa, 0xfa, 0xfa, 0xff}
	blackPiece = color.RGBA{0x26, 0x26, 0x26, 0xff}
)

func (o Options) withDefaults() Options {
	if o.SquareSize == 0 {
		o.SquareSize = DefaultSquareSize
	}
	if o.Light.A == 0 {
		o.Light = defaultLight
	}
	if o.Dark.A == 0 {
		o.Dark = defaultDark
	}
	if o.HighlightColor.A == 0 {
		o.HighlightColor = defaultHighlight
	}
	if o.CheckColor.A == 0 {
		o.CheckColor = defaultCheck
	}
	return o
}

// SquareRect returns the pixel rectangle of sq on a board drawn with
// squares of the given size.
func SquareRect(sq board.Square, size int, flip bool) image.Rectangle {
	col, row := sq.File(), 7-sq.Rank()
	if flip {
		col, row = 7-col, 7-row
	}
	origin := image.Pt(col*size, row*size)
	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(size, size))}
}

// Diagram draws pos into a new image of 8x8 squares.
func Diagram(pos *board.Position, opts Options) (*image.RGBA, error) {
	opts = opts.withDefaults()
	if opts.SquareSize < MinSquareSize || opts.SquareSize > MaxSquareSize {
		return nil, fmt.Errorf("render: square size %d out of range [%d, %d]",
			opts.SquareSize, MinSquareSize, MaxSquareSize)
	}

	icon, err := oksvg.ReadIconStream(strings.NewReader(boardSVG(pos, opts)))
	if err != nil {
		return nil, fmt.Errorf("render: parse board svg: %w", err)
	}

	size := 8 * opts.SquareSize
	icon.SetTarget(0, 0, float64(size), float64(size))

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	if err := drawLabels(rgba, pos, opts); err != nil {
		return nil, err
	}
	return rgba, nil
}

// WritePNG draws pos and encodes it as PNG to w.
func WritePNG(w io.Writer, pos *board.Position, opts Options) error {
	img, err := Diagram(pos, opts)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}

// squareColor returns the fill of sq, highlights taking precedence over
// the board pattern and check over both.
func squareColor(pos *board.Position, sq board.Square, opts Options) color.RGBA {
	if pos.InCheck() && sq == pos.KingSquare[pos.SideToMove] {
		return opts.CheckColor
	}
	for _, h := range opts.Highlight {
		if h == sq {
			return opts.HighlightColor
		}
	}
	if (sq.File()+sq.Rank())%2 == 0 {
		return opts.Dark
	}
	return opts.Light
}

func boardSVG(pos *board.Position, opts Options) string {
	s := opts.SquareSize
	size := 8 * s

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		size, size, size, size)
	b.WriteByte('\n')

	for sq := board.A1; sq <= board.H8; sq++ {
		r := SquareRect(sq, s, opts.Flip)
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`,
			r.Min.X, r.Min.Y, s, s, hex(squareColor(pos, sq, opts)))
		b.WriteByte('\n')
	}

	// Pieces are discs; their letters are added after rasterising.
	radius := float64(s) * 0.38
	stroke := float64(s) / 32
	for sq := board.A1; sq <= board.H8; sq++ {
		if pos.IsEmpty(sq) {
			continue
		}
		r := SquareRect(sq, s, opts.Flip)
		fill := whitePiece
		if pos.ColorOn(sq) == board.Black {
			fill = blackPiece
		}
		fmt.Fprintf(&b, `<circle cx="%d" cy="%d" r="%.2f" fill="%s" stroke="#000000" stroke-width="%.2f"/>`,
			r.Min.X+s/2, r.Min.Y+s/2, radius, hex(fill), stroke)
		b.WriteByte('\n')
	}

	b.WriteString("</svg>\n")
	return b.String()
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
