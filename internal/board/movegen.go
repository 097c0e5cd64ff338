package board

// PseudoLegalMoves generates every structurally valid move for the side to
// move. Moves may leave the mover's own king in check; MakeMove reports
// that. The position is not modified and the order of moves is unspecified.
func (p *Position) PseudoLegalMoves() *MoveList {
	ml := NewMoveList()
	us := p.SideToMove
	occupied := p.AllOccupied()
	own := p.Occupied[us]

	p.generatePawnMoves(ml, us, occupied)

	p.generatePieceMoves(ml, p.PiecesOf(us, Knight), own, occupied, MaskKnight)
	p.generatePieceMoves(ml, p.PiecesOf(us, Bishop), own, occupied, MaskBishop)
	p.generatePieceMoves(ml, p.PiecesOf(us, Rook), own, occupied, MaskRook)
	p.generatePieceMoves(ml, p.PiecesOf(us, Queen), own, occupied, MaskQueen)
	p.generatePieceMoves(ml, p.PiecesOf(us, King), own, occupied, MaskKing)

	p.generateCastlingMoves(ml, us, occupied)

	return ml
}

// LegalMoves returns the pseudolegal moves that do not leave the mover's
// king attacked. Each candidate is tried on a copy of the position.
func (p *Position) LegalMoves() *MoveList {
	pseudo := p.PseudoLegalMoves()
	legal := NewMoveList()
	for _, m := range pseudo.Slice() {
		child := *p
		if child.MakeMove(m) {
			legal.Add(m)
		}
	}
	return legal
}

// generatePieceMoves emits one move per destination of every piece in pieces.
func (p *Position) generatePieceMoves(ml *MoveList, pieces, own, occupied Bitboard, mask func(Square, Bitboard) Bitboard) {
	for pieces != 0 {
		from := pieces.PopLSB()
		targets := mask(from, occupied) &^ own
		for targets != 0 {
			ml.Add(NewMove(from, targets.PopLSB()))
		}
	}
}

// generatePawnMoves generates pushes, double pushes, captures (including en
// passant) and promotions for all pawns of side us.
func (p *Position) generatePawnMoves(ml *MoveList, us Color, occupied Bitboard) {
	pawns := p.PiecesOf(us, Pawn)
	empty := ^occupied
	targets := p.Occupied[us.Other()] | SquareBB(p.EnPassant)

	var push1, push2, attackW, attackE Bitboard
	var promotionRank Bitboard
	var pushDir int

	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3).North() & empty
		attackW = pawns.NorthWest() & targets
		attackE = pawns.NorthEast() & targets
		promotionRank = Rank8
		pushDir = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6).South() & empty
		attackW = pawns.SouthWest() & targets
		attackE = pawns.SouthEast() & targets
		promotionRank = Rank1
		pushDir = -8
	}

	// Single pushes
	for push1 != 0 {
		to := push1.PopLSB()
		addPawnMove(ml, Square(int(to)-pushDir), to, promotionRank)
	}

	// Double pushes never reach the promotion rank
	for push2 != 0 {
		to := push2.PopLSB()
		ml.Add(NewMove(Square(int(to)-2*pushDir), to))
	}

	// Captures toward the a-file come from one file east, and vice versa
	for attackW != 0 {
		to := attackW.PopLSB()
		addPawnMove(ml, Square(int(to)-pushDir+1), to, promotionRank)
	}
	for attackE != 0 {
		to := attackE.PopLSB()
		addPawnMove(ml, Square(int(to)-pushDir-1), to, promotionRank)
	}
}

// addPawnMove adds a pawn move, expanding it into the four promotions when
// it lands on the promotion rank.
func addPawnMove(ml *MoveList, from, to Square, promotionRank Bitboard) {
	if !promotionRank.IsSet(to) {
		ml.Add(NewMove(from, to))
		return
	}
	ml.Add(NewPromotion(from, to, Queen))
	ml.Add(NewPromotion(from, to, Rook))
	ml.Add(NewPromotion(from, to, Bishop))
	ml.Add(NewPromotion(from, to, Knight))
}

// castle describes one of the four castling moves.
type castle struct {
	kingSide bool
	king     Square
	kingTo   Square
	rook     Square
	rookTo   Square
	empty    Bitboard // squares between king and rook
	transits []Square // squares the king crosses or lands on
}

var castles = [2][2]castle{
	White: {
		{true, E1, G1, H1, F1, SquareBB(F1) | SquareBB(G1), []Square{F1, G1}},
		{false, E1, C1, A1, D1, SquareBB(D1) | SquareBB(C1) | SquareBB(B1), []Square{D1, C1}},
	},
	Black: {
		{true, E8, G8, H8, F8, SquareBB(F8) | SquareBB(G8), []Square{F8, G8}},
		{false, E8, C8, A8, D8, SquareBB(D8) | SquareBB(C8) | SquareBB(B8), []Square{D8, C8}},
	},
}

// generateCastlingMoves emits the king's two-square move for every castling
// right still held when the king is not in check, the squares between king
// and rook are empty and the king crosses no attacked square.
func (p *Position) generateCastlingMoves(ml *MoveList, us Color, occupied Bitboard) {
	them := us.Other()
	kings := p.PiecesOf(us, King)
	rooks := p.PiecesOf(us, Rook)

	for _, c := range castles[us] {
		if !p.CastlingRights.CanCastle(us, c.kingSide) {
			continue
		}
		if !kings.IsSet(c.king) || !rooks.IsSet(c.rook) {
			continue
		}
		if occupied&c.empty != 0 {
			continue
		}
		if p.IsAttacked(c.king, them) {
			// In check: neither side is available.
			return
		}
		safe := true
		for _, sq := range c.transits {
			if p.IsAttacked(sq, them) {
				safe = false
				break
			}
		}
		if safe {
			ml.Add(NewMove(c.king, c.kingTo))
		}
	}
}
