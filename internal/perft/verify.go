package perft

import (
	"github.com/dylhunn/dragontoothmg"
	"github.com/hailam/chessrules/internal/board"
)

// Mismatch is a root move whose count differs from the reference generator.
// A zero Got or Want means the move is missing on that side.
type Mismatch struct {
	Move string
	Got  uint64
	Want uint64
}

// Verify divides pos at depth and compares every root move's count with an
// independent move generator. It returns the differing moves in lexical order.
func Verify(pos *board.Position, depth int) []Mismatch {
	got := Divide(pos, depth)
	want := ReferenceDivide(pos, depth)

	union := make(map[string]uint64, len(got))
	for m := range got {
		union[m] = 0
	}
	for m := range want {
		union[m] = 0
	}

	var mismatches []Mismatch
	for _, m := range SortedMoves(union) {
		if got[m] != want[m] {
			mismatches = append(mismatches, Mismatch{Move: m, Got: got[m], Want: want[m]})
		}
	}
	return mismatches
}

// ReferenceDivide computes Divide with the dragontoothmg generator.
func ReferenceDivide(pos *board.Position, depth int) map[string]uint64 {
	result := make(map[string]uint64)
	if depth <= 0 {
		return result
	}

	b := dragontoothmg.ParseFen(pos.ToFEN())
	for _, m := range b.GenerateLegalMoves() {
		unapply := b.Apply(m)
		result[referenceMoveString(m)] = referenceCount(&b, depth-1)
		unapply()
	}
	return result
}

func referenceCount(b *dragontoothmg.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		unapply := b.Apply(m)
		nodes += referenceCount(b, depth-1)
		unapply()
	}
	return nodes
}

// referenceMoveString renders a dragontoothmg move in coordinate notation.
// Both libraries number squares a1=0 .. h8=63.
func referenceMoveString(m dragontoothmg.Move) string {
	mv := board.NewMove(board.Square(m.From()), board.Square(m.To()))
	switch m.Promote() {
	case dragontoothmg.Knight:
		mv = board.NewPromotion(mv.From(), mv.To(), board.Knight)
	case dragontoothmg.Bishop:
		mv = board.NewPromotion(mv.From(), mv.To(), board.Bishop)
	case dragontoothmg.Rook:
		mv = board.NewPromotion(mv.From(), mv.To(), board.Rook)
	case dragontoothmg.Queen:
		mv = board.NewPromotion(mv.From(), mv.To(), board.Queen)
	}
	return mv.String()
}
