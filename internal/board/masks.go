package board

// Attack mask generators. Each takes the square of the piece and a blocker
// set; the non-sliding generators ignore the blockers. Sliding masks include
// the first blocker on every ray, so callers remove their own pieces.

// MaskPawn returns the two forward diagonals of sq, taking north as forward.
// Attack detection and move generation resolve pawn direction per side and
// do not use it.
func MaskPawn(sq Square, _ Bitboard) Bitboard {
	bb := SquareBB(sq).North()
	return bb.East() | bb.West()
}

// MaskKnight returns the knight jumps from sq, each built from two shifts.
func MaskKnight(sq Square, _ Bitboard) Bitboard {
	bb := SquareBB(sq)
	n, s := bb.North(), bb.South()
	e, w := bb.East(), bb.West()

	return n.North().East() | n.North().West() |
		s.South().East() | s.South().West() |
		e.East().North() | e.East().South() |
		w.West().North() | w.West().South()
}

// MaskBishop returns the diagonal rays from sq up to the board edge or the
// first blocker, inclusive.
func MaskBishop(sq Square, blockers Bitboard) Bitboard {
	bb := SquareBB(sq)
	return ray(bb, blockers, Bitboard.NorthEast) |
		ray(bb, blockers, Bitboard.NorthWest) |
		ray(bb, blockers, Bitboard.SouthEast) |
		ray(bb, blockers, Bitboard.SouthWest)
}

// MaskRook returns the orthogonal rays from sq up to the board edge or the
// first blocker, inclusive.
func MaskRook(sq Square, blockers Bitboard) Bitboard {
	bb := SquareBB(sq)
	return ray(bb, blockers, Bitboard.North) |
		ray(bb, blockers, Bitboard.South) |
		ray(bb, blockers, Bitboard.East) |
		ray(bb, blockers, Bitboard.West)
}

// MaskQueen is the union of the bishop and rook masks.
func MaskQueen(sq Square, blockers Bitboard) Bitboard {
	return MaskBishop(sq, blockers) | MaskRook(sq, blockers)
}

// MaskKing returns the eight neighbours of sq.
func MaskKing(sq Square, _ Bitboard) Bitboard {
	bb := SquareBB(sq)
	return bb<<8 | bb>>8 |
		(bb<<7|bb>>9|bb>>1)&NotFileH |
		(bb>>7|bb<<9|bb<<1)&NotFileA
}

// ray casts one step, then extends six more times from every square that
// is not a blocker. A square holding a blocker is part of the ray but
// nothing behind it is.
func ray(bb, blockers Bitboard, step func(Bitboard) Bitboard) Bitboard {
	r := step(bb)
	for i := 0; i < 6; i++ {
		r |= step(r &^ blockers)
	}
	return r
}
