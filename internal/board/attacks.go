package board

// Pre-computed attack tables for non-sliding pieces
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard

	// pawnAttacks[c][sq] holds the squares a pawn of side c on sq attacks.
	pawnAttacks [2][64]Bitboard
)

func init() {
	for sq := A1; sq <= H8; sq++ {
		bb := SquareBB(sq)

		knightAttacks[sq] = MaskKnight(sq, Empty)
		kingAttacks[sq] = MaskKing(sq, Empty)

		pawnAttacks[White][sq] = bb.North().East() | bb.North().West()
		pawnAttacks[Black][sq] = bb.South().East() | bb.South().West()
	}
}

// IsAttacked returns true if side by has a piece that could capture on sq
// in one move. Whose turn it is and pins are ignored. Slider rays are cast
// from sq outward, which finds the same attackers as casting from them.
// NoSquare is never attacked.
func (p *Position) IsAttacked(sq Square, by Color) bool {
	if !sq.IsValid() {
		return false
	}
	them := p.Occupied[by]
	blockers := p.AllOccupied()

	// A pawn of side by attacks sq from the squares a pawn of the other
	// side on sq would attack.
	if pawnAttacks[by.Other()][sq]&p.Pieces[Pawn]&them != 0 {
		return true
	}
	if knightAttacks[sq]&p.Pieces[Knight]&them != 0 {
		return true
	}
	if MaskBishop(sq, blockers)&p.Pieces[Bishop]&them != 0 {
		return true
	}
	if MaskRook(sq, blockers)&p.Pieces[Rook]&them != 0 {
		return true
	}
	if MaskQueen(sq, blockers)&p.Pieces[Queen]&them != 0 {
		return true
	}
	return kingAttacks[sq]&p.Pieces[King]&them != 0
}

// AttackersOf returns every piece of side by attacking sq.
func (p *Position) AttackersOf(sq Square, by Color) Bitboard {
	if !sq.IsValid() {
		return Empty
	}
	blockers := p.AllOccupied()
	diagonal := p.Pieces[Bishop] | p.Pieces[Queen]
	straight := p.Pieces[Rook] | p.Pieces[Queen]

	return p.Occupied[by] & (pawnAttacks[by.Other()][sq]&p.Pieces[Pawn] |
		knightAttacks[sq]&p.Pieces[Knight] |
		MaskBishop(sq, blockers)&diagonal |
		MaskRook(sq, blockers)&straight |
		kingAttacks[sq]&p.Pieces[King])
}
