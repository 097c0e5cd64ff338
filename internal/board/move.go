package board

import "fmt"

// Move encodes a chess move in 16 bits:
// bits 0-5:   from square (0-63)
// bits 6-11:  to square (0-63)
// bits 12-13: promotion piece (0=Knight, 1=Bishop, 2=Rook, 3=Queen)
// bit 14:     promotion flag
//
// A move carries no side or piece type; both are read from the position
// when the move is applied.
type Move uint16

const flagPromotion Move = 1 << 14

// NoMove represents an invalid or null move.
const NoMove Move = 0

// NewMove creates a non-promoting move.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6
}

// NewPromotion creates a promotion move. promo must be Knight, Bishop, Rook or Queen.
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move(from) | Move(to)<<6 | Move(promo-Knight)<<12 | flagPromotion
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m&flagPromotion != 0
}

// Promotion returns the promotion piece type, or NoPieceType.
func (m Move) Promotion() PieceType {
	if !m.IsPromotion() {
		return NoPieceType
	}
	return PieceType((m>>12)&3) + Knight
}

// String returns the move in coordinate notation (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(m.Promotion().Char())
	}
	return s
}

// ParseMove parses coordinate notation: origin and destination squares
// followed by an optional promotion letter (n, b, r or q).
func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q: %w", ErrInvalidMove, s, err)
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q: %w", ErrInvalidMove, s, err)
	}

	if len(s) == 4 {
		return NewMove(from, to), nil
	}

	var promo PieceType
	switch s[4] {
	case 'n':
		promo = Knight
	case 'b':
		promo = Bishop
	case 'r':
		promo = Rook
	case 'q':
		promo = Queen
	default:
		return NoMove, fmt.Errorf("%w: invalid promotion piece %q", ErrInvalidMove, s[4])
	}
	return NewPromotion(from, to, promo), nil
}

// MustParseMove is like ParseMove but panics on malformed input.
func MustParseMove(s string) Move {
	m, err := ParseMove(s)
	if err != nil {
		panic(err)
	}
	return m
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// Strings returns the moves in coordinate notation.
func (ml *MoveList) Strings() []string {
	out := make([]string, ml.count)
	for i := 0; i < ml.count; i++ {
		out[i] = ml.moves[i].String()
	}
	return out
}
