package board

import (
	"fmt"
	"strings"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle reports whether side c still holds the right to castle on the
// king side or the queen side.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	right := WhiteKingSideCastle
	if !kingSide {
		right = WhiteQueenSideCastle
	}
	if c == Black {
		right <<= 2
	}
	return cr&right != 0
}

// Position is the mutable board state.
//
// Occupied holds one bitboard per side and Pieces one bitboard per piece
// type summed over both sides; a piece of side c and type pt on sq has sq
// set in exactly Occupied[c] and Pieces[pt]. Board content must only be
// changed through SetPiece and ClearSquare.
//
// Position is a plain value: Copy (or assignment) clones it.
type Position struct {
	Occupied [2]Bitboard
	Pieces   [6]Bitboard

	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // Target square for en passant, NoSquare if none
	HalfMoveClock  int    // Moves since last pawn move or capture
	FullMoveNumber int    // Maintained by the game loop, not by MakeMove

	// King positions, NoSquare for a side without a king
	KingSquare [2]Square
}

// EmptyPosition returns a position with no pieces, White to move and no rights.
func EmptyPosition() *Position {
	return &Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
		KingSquare:     [2]Square{NoSquare, NoSquare},
	}
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	return MustParseFEN(StartFEN)
}

// Copy creates a deep copy of the position.
func (p *Position) Copy() *Position {
	newPos := *p
	return &newPos
}

// AllOccupied returns the union of both sides' pieces.
func (p *Position) AllOccupied() Bitboard {
	return p.Occupied[White] | p.Occupied[Black]
}

// PiecesOf returns the bitboard of c's pieces of type pt.
func (p *Position) PiecesOf(c Color, pt PieceType) Bitboard {
	return p.Pieces[pt] & p.Occupied[c]
}

// PieceOn returns the type of the piece on sq, or NoPieceType if empty.
func (p *Position) PieceOn(sq Square) PieceType {
	bb := SquareBB(sq)
	for pt := Pawn; pt <= King; pt++ {
		if p.Pieces[pt]&bb != 0 {
			return pt
		}
	}
	return NoPieceType
}

// ColorOn returns the side owning the piece on sq, or NoColor if empty.
func (p *Position) ColorOn(sq Square) Color {
	bb := SquareBB(sq)
	switch {
	case p.Occupied[White]&bb != 0:
		return White
	case p.Occupied[Black]&bb != 0:
		return Black
	}
	return NoColor
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	return NewPiece(p.PieceOn(sq), p.ColorOn(sq))
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.AllOccupied()&SquareBB(sq) == 0
}

// SetPiece places a piece of side c and type pt on sq.
// The square must be empty; nothing is cleared first.
func (p *Position) SetPiece(c Color, pt PieceType, sq Square) {
	bb := SquareBB(sq)
	p.Occupied[c] |= bb
	p.Pieces[pt] |= bb

	if pt == King {
		p.KingSquare[c] = sq
	}
}

// ClearSquare removes whatever stands on sq. Clearing an empty square is a no-op.
func (p *Position) ClearSquare(sq Square) {
	bb := SquareBB(sq)
	p.Occupied[White] &^= bb
	p.Occupied[Black] &^= bb
	for pt := Pawn; pt <= King; pt++ {
		p.Pieces[pt] &^= bb
	}

	for c := White; c <= Black; c++ {
		if p.KingSquare[c] == sq {
			p.KingSquare[c] = NoSquare
		}
	}
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	us := p.SideToMove
	return p.IsAttacked(p.KingSquare[us], us.Other())
}

// Validate checks the board consistency invariant: piece-type bitboards are
// pairwise disjoint, the two sides are disjoint, every piece bit belongs to
// exactly one side and the king cache agrees with the king bitboards.
func (p *Position) Validate() error {
	if p.Occupied[White]&p.Occupied[Black] != 0 {
		return fmt.Errorf("%w: sides overlap on %v", ErrInvalidPosition, (p.Occupied[White] & p.Occupied[Black]).Squares())
	}

	var union Bitboard
	for pt := Pawn; pt <= King; pt++ {
		if overlap := union & p.Pieces[pt]; overlap != 0 {
			return fmt.Errorf("%w: %s bitboard overlaps another type on %v", ErrInvalidPosition, pt, overlap.Squares())
		}
		union |= p.Pieces[pt]
	}

	if union != p.AllOccupied() {
		return fmt.Errorf("%w: piece and side bitboards disagree on %v", ErrInvalidPosition, (union ^ p.AllOccupied()).Squares())
	}

	for c := White; c <= Black; c++ {
		kings := p.PiecesOf(c, King)
		if kings == 0 {
			if p.KingSquare[c] != NoSquare {
				return fmt.Errorf("%w: %s king cached on %s but absent", ErrInvalidPosition, c, p.KingSquare[c])
			}
			continue
		}
		if !kings.IsSet(p.KingSquare[c]) {
			return fmt.Errorf("%w: %s king cached on %s", ErrInvalidPosition, c, p.KingSquare[c])
		}
	}

	return nil
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.CastlingRights)
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", p.HalfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", p.FullMoveNumber)
	fmt.Fprintf(&sb, "Hash: %016x\n", p.Hash())
	return sb.String()
}
