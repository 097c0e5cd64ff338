package board

import "fmt"

// castlingLoss[sq] holds the rights lost when a move starts or ends on sq.
var castlingLoss [64]CastlingRights

func init() {
	castlingLoss[H1] = WhiteKingSideCastle
	castlingLoss[A1] = WhiteQueenSideCastle
	castlingLoss[H8] = BlackKingSideCastle
	castlingLoss[A8] = BlackQueenSideCastle
}

// MakeMove applies m to the position in place and reports whether the result
// is legal, that is whether the mover's king is not attacked afterwards.
//
// The position is always modified, also when the move turns out illegal;
// callers that explore several moves from one position apply each to a copy.
// The full move number is left to the caller.
//
// MakeMove panics if the origin square is empty.
func (p *Position) MakeMove(m Move) bool {
	us := p.SideToMove
	them := us.Other()
	from, to := m.From(), m.To()

	pt := p.PieceOn(from)
	if pt == NoPieceType {
		panic(fmt.Sprintf("board: move %s from empty square", m))
	}
	enPassant := pt == Pawn && to == p.EnPassant
	capture := !p.IsEmpty(to) || enPassant

	p.HalfMoveClock++
	if pt == Pawn || capture {
		p.HalfMoveClock = 0
	}

	p.ClearSquare(from)
	p.ClearSquare(to)
	if m.IsPromotion() {
		p.SetPiece(us, m.Promotion(), to)
	} else {
		p.SetPiece(us, pt, to)
	}

	// The pawn taken en passant stands behind the destination.
	if enPassant {
		if us == White {
			p.ClearSquare(to - 8)
		} else {
			p.ClearSquare(to + 8)
		}
	}

	p.EnPassant = NoSquare
	if pt == Pawn && (int(to)-int(from) == 16 || int(from)-int(to) == 16) {
		p.EnPassant = Square((int(from) + int(to)) / 2)
	}

	p.CastlingRights &^= castlingLoss[from] | castlingLoss[to]
	switch from {
	case E1:
		p.CastlingRights &^= WhiteKingSideCastle | WhiteQueenSideCastle
	case E8:
		p.CastlingRights &^= BlackKingSideCastle | BlackQueenSideCastle
	}

	if pt == King {
		for _, c := range castles[us] {
			if from == c.king && to == c.kingTo {
				p.ClearSquare(c.rook)
				p.SetPiece(us, Rook, c.rookTo)
				break
			}
		}
	}

	// SetPiece has already moved the king cache along with a king.
	p.SideToMove = them

	return !p.IsAttacked(p.KingSquare[us], them)
}
