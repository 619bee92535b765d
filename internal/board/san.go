package board

import (
	"fmt"
	"strings"
)

const sanPieceLetters = " PNBRQK"

// ToSAN converts a legal move to Standard Algebraic Notation.
func (m Move) ToSAN(pos *Position) string {
	if m.IsNull() {
		return "-"
	}

	piece := pos.PieceAt(m.From)
	if piece == NoPiece {
		return m.String() // Fallback to coordinates
	}

	if m.IsCastling() {
		s := "O-O-O"
		if m.To > m.From {
			s = "O-O"
		}
		return s + checkSuffix(pos, m)
	}

	var sb strings.Builder
	pt := piece.Type()

	if pt != Pawn {
		sb.WriteByte(sanPieceLetters[pt])
		sb.WriteString(disambiguation(pos, m, pt))
	}

	if m.IsCapture(pos) {
		if pt == Pawn {
			// Pawn captures include the file of origin
			sb.WriteByte('a' + byte(m.From.File()))
		}
		sb.WriteByte('x')
	}

	sb.WriteString(m.To.String())

	if m.IsPromotion() {
		sb.WriteByte('=')
		sb.WriteByte(sanPieceLetters[m.Promotion.Type()])
	}

	sb.WriteString(checkSuffix(pos, m))
	return sb.String()
}

// checkSuffix returns "#", "+" or "" for the position after m.
func checkSuffix(pos *Position, m Move) string {
	undo := pos.MakeMove(m)
	defer pos.UnmakeMove(m, undo)

	if !pos.Checked() {
		return ""
	}
	if !pos.HasLegalMoves() {
		return "#"
	}
	return "+"
}

// disambiguation returns the origin file, rank or square needed when another
// piece of the same type can reach the same destination.
func disambiguation(pos *Position, m Move, pt PieceType) string {
	var candidates []Square
	for _, other := range pos.GenerateLegalMoves() {
		if other.To != m.To || other.From == m.From {
			continue
		}
		if pos.PieceAt(other.From).Type() == pt {
			candidates = append(candidates, other.From)
		}
	}

	if len(candidates) == 0 {
		return ""
	}

	sameFile, sameRank := false, false
	for _, sq := range candidates {
		if sq.File() == m.From.File() {
			sameFile = true
		}
		if sq.Rank() == m.From.Rank() {
			sameRank = true
		}
	}

	if !sameFile {
		return string(rune('a' + m.From.File()))
	}
	if !sameRank {
		return string(rune('1' + m.From.Rank()))
	}
	return m.From.String()
}

// ParseSAN resolves a SAN string against the legal moves of pos.
func ParseSAN(s string, pos *Position) (Move, error) {
	s = strings.TrimSpace(s)
	san := strings.TrimRight(s, "+#!?")

	switch san {
	case "O-O", "0-0", "O-O-O", "0-0-0":
		long := len(san) == 5
		for _, m := range pos.GenerateLegalMoves() {
			if m.IsCastling() && (m.To < m.From) == long {
				return m, nil
			}
		}
		return NoMove, fmt.Errorf("castling %s is not legal", s)
	}

	// Parse promotion
	promo := NoPieceType
	if idx := strings.IndexByte(san, '='); idx >= 0 && idx+1 < len(san) {
		promo = pieceTypeFromLetter(san[idx+1])
		if promo == NoPieceType || promo == King {
			return NoMove, fmt.Errorf("invalid promotion in %s", s)
		}
		san = san[:idx]
	}

	isCapture := strings.Contains(san, "x")
	san = strings.ReplaceAll(san, "x", "")

	pt := Pawn
	if len(san) > 0 && san[0] >= 'A' && san[0] <= 'Z' {
		if pt = pieceTypeFromLetter(san[0]); pt == NoPieceType {
			return NoMove, fmt.Errorf("invalid piece in %s", s)
		}
		san = san[1:]
	}

	if len(san) < 2 {
		return NoMove, fmt.Errorf("invalid SAN: %s", s)
	}
	dest, err := ParseSquare(san[len(san)-2:])
	if err != nil {
		return NoMove, err
	}

	disambigFile, disambigRank := -1, -1
	for _, c := range san[:len(san)-2] {
		switch {
		case c >= 'a' && c <= 'h':
			disambigFile = int(c - 'a')
		case c >= '1' && c <= '8':
			disambigRank = int(c - '1')
		default:
			return NoMove, fmt.Errorf("invalid SAN: %s", s)
		}
	}

	for _, m := range pos.GenerateLegalMoves() {
		if m.To != dest || pos.PieceAt(m.From).Type() != pt {
			continue
		}
		if disambigFile >= 0 && m.From.File() != disambigFile {
			continue
		}
		if disambigRank >= 0 && m.From.Rank() != disambigRank {
			continue
		}
		if isCapture && !m.IsCapture(pos) {
			continue
		}
		if m.IsPromotion() != (promo != NoPieceType) {
			continue
		}
		if promo != NoPieceType && m.Promotion.Type() != promo {
			continue
		}
		return m, nil
	}

	return NoMove, fmt.Errorf("no legal move matches %s", s)
}

func pieceTypeFromLetter(c byte) PieceType {
	switch c {
	case 'N':
		return Knight
	case 'B':
		return Bishop
	case 'R':
		return Rook
	case 'Q':
		return Queen
	case 'K':
		return King
	}
	return NoPieceType
}

// MovesToSAN converts a sequence of moves played from pos to SAN.
func MovesToSAN(pos *Position, moves []Move) []string {
	result := make([]string, len(moves))
	p := pos.Copy()

	for i, m := range moves {
		result[i] = m.ToSAN(p)
		p.MakeMove(m)
	}

	return result
}
