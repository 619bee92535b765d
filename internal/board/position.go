package board

import (
	"fmt"
	"strings"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// CanCastle returns true if the given side can castle in the given direction.
func (cr CastlingRights) CanCastle(c Color, kingSide bool) bool {
	if c == White {
		if kingSide {
			return cr&WhiteKingSideCastle != 0
		}
		return cr&WhiteQueenSideCastle != 0
	}
	if kingSide {
		return cr&BlackKingSideCastle != 0
	}
	return cr&BlackQueenSideCastle != 0
}

// Position represents a complete chess position.
// It is a plain value: assigning it copies the whole board.
type Position struct {
	Squares [64]Piece

	// Game state
	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // Square skipped by the last double push, NoSquare if none
	HalfMoveClock  int    // Plies since last pawn move or capture (for 50-move rule)
	FullMoveNumber int    // Full move counter, starts at 1

	// Zobrist hash, maintained incrementally by MakeMove
	Hash uint64

	// King positions (cached for check detection)
	KingSquare [2]Square
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	p := &Position{}
	p.Clear()

	backRank := [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for file, pt := range backRank {
		p.Squares[NewSquare(file, 0)] = NewPiece(pt, White)
		p.Squares[NewSquare(file, 1)] = WhitePawn
		p.Squares[NewSquare(file, 6)] = BlackPawn
		p.Squares[NewSquare(file, 7)] = NewPiece(pt, Black)
	}

	p.CastlingRights = AllCastling
	p.findKings()
	p.UpdateHash()
	return p
}

// Copy creates a deep copy of the position.
func (p *Position) Copy() *Position {
	newPos := *p
	return &newPos
}

// WhiteToMove reports whether white is the side to move.
func (p *Position) WhiteToMove() bool {
	return p.SideToMove == White
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	return p.Squares[sq]
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.Squares[sq] == NoPiece
}

// findKings locates and caches the king positions.
func (p *Position) findKings() {
	p.KingSquare = [2]Square{NoSquare, NoSquare}
	for sq := A1; sq <= H8; sq++ {
		switch p.Squares[sq] {
		case WhiteKing:
			p.KingSquare[White] = sq
		case BlackKing:
			p.KingSquare[Black] = sq
		}
	}
}

// ComputeHash computes the Zobrist hash for the position from scratch.
func (p *Position) ComputeHash() uint64 {
	var hash uint64

	for sq := A1; sq <= H8; sq++ {
		if piece := p.Squares[sq]; piece != NoPiece {
			hash ^= zobristPiece[piece.Index()][sq]
		}
	}

	if p.SideToMove == Black {
		hash ^= zobristSideToMove
	}

	// The castling key is folded in for every mask, including the empty one.
	hash ^= zobristCastling[p.CastlingRights&AllCastling]

	if p.EnPassant != NoSquare {
		hash ^= zobristEnPassant[p.EnPassant.File()]
	}

	return hash
}

// UpdateHash recomputes the stored hash from scratch.
func (p *Position) UpdateHash() {
	p.Hash = p.ComputeHash()
}

// Material returns the material balance in centipawns (positive favors white).
func (p *Position) Material() int {
	score := 0
	for _, piece := range p.Squares {
		switch {
		case piece > 0:
			score += piece.Value()
		case piece < 0:
			score -= piece.Value()
		}
	}
	return score
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.Squares[NewSquare(file, rank)]
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.CastlingRights)
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", p.HalfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", p.FullMoveNumber)
	fmt.Fprintf(&sb, "Hash: %016x\n", p.Hash)
	return sb.String()
}

// Clear resets the position to an empty board.
func (p *Position) Clear() {
	*p = Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
		KingSquare:     [2]Square{NoSquare, NoSquare},
	}
}

// Validate checks if the position is valid.
func (p *Position) Validate() error {
	kings := [2]int{}
	for sq := A1; sq <= H8; sq++ {
		piece := p.Squares[sq]
		switch piece.Type() {
		case King:
			kings[piece.Color()]++
		case Pawn:
			if r := sq.Rank(); r == 0 || r == 7 {
				return fmt.Errorf("pawns cannot be on rank 1 or 8")
			}
		}
	}

	if kings[White] != 1 {
		return fmt.Errorf("white must have exactly one king")
	}
	if kings[Black] != 1 {
		return fmt.Errorf("black must have exactly one king")
	}

	if p.InCheck(p.SideToMove.Other()) {
		return fmt.Errorf("side not to move is in check")
	}

	return nil
}
