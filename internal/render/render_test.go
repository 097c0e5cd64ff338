package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/hailam/chessrules/internal/board"
)

// near reports whether two colours differ by at most a rounding step per channel.
func near(got color.Color, want color.RGBA) bool {
	c := color.RGBAModel.Convert(got).(color.RGBA)
	diff := func(a, b uint8) int {
		if a > b {
			return int(a - b)
		}
		return int(b - a)
	}
	return diff(c.R, want.R) <= 2 && diff(c.G, want.G) <= 2 && diff(c.B, want.B) <= 2 && c.A == 0xff
}

// corner samples a pixel just inside the top-left corner of sq.
func corner(img *image.RGBA, sq board.Square, opts Options) color.Color {
	r := SquareRect(sq, opts.withDefaults().SquareSize, opts.Flip)
	return img.At(r.Min.X+2, r.Min.Y+2)
}

func TestSquareRect(t *testing.T) {
	tests := []struct {
		sq   board.Square
		flip bool
		want image.Rectangle
	}{
		{board.A1, false, image.Rect(0, 448, 64, 512)},
		{board.H1, false, image.Rect(448, 448, 512, 512)},
		{board.A8, false, image.Rect(0, 0, 64, 64)},
		{board.A1, true, image.Rect(448, 0, 512, 64)},
		{board.H8, true, image.Rect(0, 448, 64, 512)},
	}
	for _, tt := range tests {
		if got := SquareRect(tt.sq, 64, tt.flip); got != tt.want {
			t.Errorf("SquareRect(%v, flip=%v) = %v, want %v", tt.sq, tt.flip, got, tt.want)
		}
	}
}

func TestDiagramSquares(t *testing.T) {
	pos := board.NewPosition()
	img, err := Diagram(pos, Options{})
	if err != nil {
		t.Fatalf("Diagram: %v", err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, 8*DefaultSquareSize, 8*DefaultSquareSize) {
		t.Fatalf("bounds = %v", got)
	}

	tests := []struct {
		sq   board.Square
		want color.RGBA
	}{
		{board.A1, defaultDark},
		{board.H1, defaultLight},
		{board.E4, defaultLight},
		{board.D4, defaultDark},
		{board.H8, defaultDark},
	}
	for _, tt := range tests {
		if got := corner(img, tt.sq, Options{}); !near(got, tt.want) {
			t.Errorf("%v corner = %v, want %v", tt.sq, got, tt.want)
		}
	}
}

func TestDiagramPieces(t *testing.T) {
	pos := board.NewPosition()
	img, err := Diagram(pos, Options{})
	if err != nil {
		t.Fatalf("Diagram: %v", err)
	}

	// Below the letter but inside the disc.
	inDisc := func(sq board.Square) color.Color {
		r := SquareRect(sq, DefaultSquareSize, false)
		c := r.Min.Add(r.Max).Div(2)
		return img.At(c.X, c.Y+17)
	}

	if got := inDisc(board.E2); !near(got, whitePiece) {
		t.Errorf("white pawn disc = %v, want %v", got, whitePiece)
	}
	if got := inDisc(board.E8); !near(got, blackPiece) {
		t.Errorf("black king disc = %v, want %v", got, blackPiece)
	}
	if got := inDisc(board.E4); !near(got, defaultLight) {
		t.Errorf("empty e4 = %v, want board colour %v", got, defaultLight)
	}
}

func TestDiagramHighlights(t *testing.T) {
	pos := board.MustParseFEN("4k3/8/8/8/8/8/3P4/4K2r w - - 0 1")
	opts := Options{Highlight: []board.Square{board.D2, board.H1}}

	img, err := Diagram(pos, opts)
	if err != nil {
		t.Fatalf("Diagram: %v", err)
	}

	if got := corner(img, board.D2, opts); !near(got, defaultHighlight) {
		t.Errorf("d2 = %v, want highlight", got)
	}
	if got := corner(img, board.H1, opts); !near(got, defaultHighlight) {
		t.Errorf("h1 = %v, want highlight", got)
	}
	if got := corner(img, board.E1, opts); !near(got, defaultCheck) {
		t.Errorf("checked king square = %v, want %v", got, defaultCheck)
	}
	if got := corner(img, board.E8, opts); !near(got, defaultDark) && !near(got, defaultLight) {
		t.Errorf("e8 = %v, want a board colour", got)
	}
}

func TestDiagramFlip(t *testing.T) {
	pos := board.NewPosition()
	opts := Options{Flip: true, SquareSize: 32, Light: color.RGBA{255, 255, 255, 255}, Dark: color.RGBA{0, 0, 128, 255}}

	img, err := Diagram(pos, opts)
	if err != nil {
		t.Fatalf("Diagram: %v", err)
	}
	if got := img.Bounds().Dx(); got != 256 {
		t.Fatalf("width = %d, want 256", got)
	}
	// a1 is drawn top right when flipped.
	if got := img.At(256-3, 2); !near(got, opts.Dark) {
		t.Errorf("top right = %v, want a1's dark colour", got)
	}
}

func TestDiagramCoordinates(t *testing.T) {
	pos := board.NewPosition()
	plain, err := Diagram(pos, Options{})
	if err != nil {
		t.Fatalf("Diagram: %v", err)
	}
	labelled, err := Diagram(pos, Options{Coordinates: true})
	if err != nil {
		t.Fatalf("Diagram with coordinates: %v", err)
	}
	if bytes.Equal(plain.Pix, labelled.Pix) {
		t.Error("coordinates did not change the image")
	}
}

func TestDiagramSquareSize(t *testing.T) {
	for _, size := range []int{-1, MinSquareSize - 1, MaxSquareSize + 1} {
		if _, err := Diagram(board.NewPosition(), Options{SquareSize: size}); err == nil {
			t.Errorf("SquareSize %d: expected error", size)
		}
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, board.NewPosition(), Options{SquareSize: 24}); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, 192, 192) {
		t.Errorf("bounds = %v, want 192x192", got)
	}
}
