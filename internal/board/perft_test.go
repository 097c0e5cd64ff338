package board

import (
	"fmt"
	"testing"
)

// perft counts the leaf nodes of the legal move tree at the given depth,
// applying every candidate to a copy of the position.
func perft(p *Position, depth int) int64 {
	if depth == 0 {
		return 1
	}

	var nodes int64
	for _, m := range p.PseudoLegalMoves().Slice() {
		child := *p
		if child.MakeMove(m) {
			nodes += perft(&child, depth-1)
		}
	}
	return nodes
}

func TestPerft(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		nodes []int64 // indexed by depth-1
		slow  int     // first depth skipped in short mode, 0 for none
	}{
		{"start", StartFEN, []int64{20, 400, 8902, 197281}, 4},
		{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -",
			[]int64{48, 2039, 97862}, 3},
		// Rook and king on the fifth rank around an en passant capture.
		{"position3", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -", []int64{14, 191, 2812, 43238}, 0},
		// exd3 would expose the king on a4 to the rook on h4.
		{"enpassant-pin", "8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1", []int64{6, 94}, 0},
	}

	for _, tt := range tests {
		pos := MustParseFEN(tt.fen)
		for i, want := range tt.nodes {
			depth := i + 1
			t.Run(fmt.Sprintf("%s/%d", tt.name, depth), func(t *testing.T) {
				if tt.slow != 0 && depth >= tt.slow && testing.Short() {
					t.Skipf("skipping depth %d in short mode", depth)
				}
				if got := perft(pos, depth); got != want {
					t.Errorf("perft(%d) = %d, want %d", depth, got, want)
				}
			})
		}
	}
}

func TestEnPassantPinnedAlongRank(t *testing.T) {
	pos := MustParseFEN("8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")

	if !pos.PseudoLegalMoves().Contains(MustParseMove("e4d3")) {
		t.Fatal("e4d3 should be generated as a pseudo-legal capture")
	}
	if pos.LegalMoves().Contains(MustParseMove("e4d3")) {
		t.Error("e4d3 should be illegal: it exposes the king on a4")
	}
}
