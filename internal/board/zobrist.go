package board

// Zobrist keys, drawn from a fixed-seed xorshift64* stream so hashes are
// stable between runs.
var (
	zobristPiece      [2][6][64]uint64
	zobristEnPassant  [8]uint64  // by file
	zobristCastling   [16]uint64 // by CastlingRights value
	zobristSideToMove uint64     // Black to move
)

const zobristSeed = 0x98F107A2BEEF1234

// xorshift returns the next value of the xorshift64* stream at state.
func xorshift(state *uint64) uint64 {
	*state ^= *state >> 12
	*state ^= *state << 25
	*state ^= *state >> 27
	return *state * 0x2545F4914F6CDD1D
}

func init() {
	state := uint64(zobristSeed)

	for c := range zobristPiece {
		for pt := range zobristPiece[c] {
			for sq := range zobristPiece[c][pt] {
				zobristPiece[c][pt][sq] = xorshift(&state)
			}
		}
	}
	for i := range zobristEnPassant {
		zobristEnPassant[i] = xorshift(&state)
	}
	for i := range zobristCastling {
		zobristCastling[i] = xorshift(&state)
	}
	zobristSideToMove = xorshift(&state)
}

// Hash computes the Zobrist key of the position from scratch. The clocks
// are not part of the key.
func (p *Position) Hash() uint64 {
	var hash uint64

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := p.PiecesOf(c, pt)
			for bb != 0 {
				hash ^= zobristPiece[c][pt][bb.PopLSB()]
			}
		}
	}

	if p.SideToMove == Black {
		hash ^= zobristSideToMove
	}

	hash ^= zobristCastling[p.CastlingRights&AllCastling]

	if p.EnPassant != NoSquare {
		hash ^= zobristEnPassant[p.EnPassant.File()]
	}

	return hash
}
