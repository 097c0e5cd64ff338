package board

import "strings"

// Color is the side a piece belongs to.
type Color uint8

const (
	White Color = iota
	Black
	NoColor
)

// Other returns the opposite side. It is only meaningful for White and Black.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c > NoColor {
		c = NoColor
	}
	return [...]string{"White", "Black", "NoColor"}[c]
}

// PieceType is the kind of a piece, independent of side.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType
)

var pieceTypeNames = [...]string{"Pawn", "Knight", "Bishop", "Rook", "Queen", "King", "None"}

func (pt PieceType) String() string {
	if pt > NoPieceType {
		pt = NoPieceType
	}
	return pieceTypeNames[pt]
}

// Char returns the lowercase FEN letter of the piece type, or a space.
func (pt PieceType) Char() byte {
	if pt >= NoPieceType {
		return ' '
	}
	return "pnbrqk"[pt]
}

// Piece is a PieceType of a given Color, packed as type + 6*color.
type Piece uint8

// NoPiece marks an empty square.
const NoPiece Piece = 12

// pieceChars lists the FEN letters in Piece order.
const pieceChars = "PNBRQKpnbrqk"

// NewPiece packs a type and a side. Out-of-range input gives NoPiece.
func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c >= NoColor {
		return NoPiece
	}
	return Piece(pt) + Piece(c)*6
}

// Type returns the PieceType of the piece.
func (p Piece) Type() PieceType {
	if p >= NoPiece {
		return NoPieceType
	}
	return PieceType(p % 6)
}

// Color returns the side of the piece.
func (p Piece) Color() Color {
	if p >= NoPiece {
		return NoColor
	}
	return Color(p / 6)
}

// String returns the FEN letter, uppercase for White. NoPiece is a space.
func (p Piece) String() string {
	if p >= NoPiece {
		return " "
	}
	return pieceChars[p : p+1]
}

// PieceFromChar returns the piece for a FEN letter, or NoPiece.
func PieceFromChar(c byte) Piece {
	i := strings.IndexByte(pieceChars, c)
	if i < 0 {
		return NoPiece
	}
	return Piece(i)
}
