package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// PieceType represents the kind of a chess piece, independent of color.
type PieceType int8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// PieceValue returns the material value of each piece type in centipawns.
// The king carries no material value.
var PieceValue = [7]int{0, 100, 320, 330, 500, 900, 0}

// Piece is a signed piece code: the magnitude is the PieceType and the sign
// is the color (positive for white, negative for black).
type Piece int8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = Piece(Pawn)
	WhiteKnight Piece = Piece(Knight)
	WhiteBishop Piece = Piece(Bishop)
	WhiteRook   Piece = Piece(Rook)
	WhiteQueen  Piece = Piece(Queen)
	WhiteKing   Piece = Piece(King)
	BlackPawn   Piece = -WhitePawn
	BlackKnight Piece = -WhiteKnight
	BlackBishop Piece = -WhiteBishop
	BlackRook   Piece = -WhiteRook
	BlackQueen  Piece = -WhiteQueen
	BlackKing   Piece = -WhiteKing
)

// NewPiece creates a Piece from PieceType and Color.
func NewPiece(pt PieceType, c Color) Piece {
	if pt <= NoPieceType || pt > King || c >= NoColor {
		return NoPiece
	}
	if c == Black {
		return -Piece(pt)
	}
	return Piece(pt)
}

// Type returns the PieceType of the piece.
func (p Piece) Type() PieceType {
	if p < 0 {
		return PieceType(-p)
	}
	return PieceType(p)
}

// Color returns the Color of the piece.
func (p Piece) Color() Color {
	switch {
	case p > 0:
		return White
	case p < 0:
		return Black
	default:
		return NoColor
	}
}

// IsWhite reports whether the piece is white.
func (p Piece) IsWhite() bool { return p > 0 }

// IsBlack reports whether the piece is black.
func (p Piece) IsBlack() bool { return p < 0 }

// Index maps a non-empty piece to a dense index 0..11 (white pawn..king,
// then black pawn..king). Used to address the Zobrist piece table.
func (p Piece) Index() int {
	if p > 0 {
		return int(p) - 1
	}
	return int(-p) + 5
}

// String returns the FEN character for the piece.
// Uppercase for white, lowercase for black.
func (p Piece) String() string {
	if p == NoPiece || p.Type() > King {
		return " "
	}
	return string("PNBRQKpnbrqk"[p.Index()])
}

// PieceFromChar converts a FEN character to a Piece.
func PieceFromChar(c byte) Piece {
	switch c {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	default:
		return NoPiece
	}
}

// Value returns the material value of the piece in centipawns.
func (p Piece) Value() int {
	return PieceValue[p.Type()]
}
