package board

import "fmt"

// MoveFlag marks the special kinds of move.
type MoveFlag uint8

// Move flags (bit mask).
const (
	FlagCastle    MoveFlag = 1 << iota // king two-step, rook relocated
	FlagEnPassant                      // pawn captures the pawn beside its destination
	FlagPromotion                      // pawn replaced by Move.Promotion
)

// Move is a from/to pair plus the promoted piece and special-move flags.
// Promotion holds the signed piece code of the promoted piece, or NoPiece.
type Move struct {
	From      Square
	To        Square
	Promotion Piece
	Flags     MoveFlag
}

// NoMove represents an invalid or null move (all fields zero).
var NoMove = Move{}

// NewMove creates a normal move.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to}
}

// NewPromotion creates a promotion move to the given (signed) piece.
func NewPromotion(from, to Square, promo Piece) Move {
	return Move{From: from, To: to, Promotion: promo, Flags: FlagPromotion}
}

// NewEnPassant creates an en passant capture move.
func NewEnPassant(from, to Square) Move {
	return Move{From: from, To: to, Flags: FlagEnPassant}
}

// NewCastling creates a castling move (king's movement).
func NewCastling(from, to Square) Move {
	return Move{From: from, To: to, Flags: FlagCastle}
}

// IsNull reports whether m is the null move.
func (m Move) IsNull() bool {
	return m == NoMove
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Flags&FlagPromotion != 0
}

// IsCastling returns true if this is a castling move.
func (m Move) IsCastling() bool {
	return m.Flags&FlagCastle != 0
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Flags&FlagEnPassant != 0
}

// IsCapture returns true if this move captures a piece.
func (m Move) IsCapture(pos *Position) bool {
	if m.IsEnPassant() {
		return true
	}
	return !pos.IsEmpty(m.To)
}

// String returns the coordinate form of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m.IsNull() {
		return "0000"
	}

	s := m.From.String() + m.To.String()

	if m.IsPromotion() {
		promoChars := []byte{' ', ' ', 'n', 'b', 'r', 'q', ' '}
		s += string(promoChars[m.Promotion.Type()])
	}

	return s
}

// ParseMove resolves a coordinate move string against the legal moves of pos.
// A missing promotion suffix selects the queen promotion.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	promo := Queen
	if len(s) == 5 {
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
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
	}

	for _, m := range pos.GenerateLegalMoves() {
		if m.From != from || m.To != to {
			continue
		}
		if m.IsPromotion() && m.Promotion.Type() != promo {
			continue
		}
		return m, nil
	}

	return NoMove, fmt.Errorf("illegal move: %s", s)
}

// Undo stores the information needed to reverse a move.
// For en passant, Captured is the pawn beside the destination square.
type Undo struct {
	Captured       Piece
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
}
