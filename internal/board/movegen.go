package board

// promotionOrder is the order promotions are emitted in. Search tie-breaks
// depend on it, so it must stay stable.
var promotionOrder = [4]PieceType{Rook, Queen, Knight, Bishop}

var queenDirs = [8][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

// GenerateLegalMoves generates all legal moves for the position, in
// enumeration order. The position is left untouched.
func (p *Position) GenerateLegalMoves() []Move {
	return p.filterLegalMoves(p.GeneratePseudoLegalMoves())
}

// HasLegalMoves reports whether the side to move has at least one legal move.
func (p *Position) HasLegalMoves() bool {
	scratch := *p
	for _, m := range p.GeneratePseudoLegalMoves() {
		if scratch.isLegal(m) {
			return true
		}
	}
	return false
}

// filterLegalMoves keeps the moves that do not leave the mover in check.
func (p *Position) filterLegalMoves(moves []Move) []Move {
	scratch := *p
	legal := moves[:0]
	for _, m := range moves {
		if scratch.isLegal(m) {
			legal = append(legal, m)
		}
	}
	return legal
}

// isLegal trial-applies m and reports whether the mover's king is safe.
// The position is restored before returning.
func (p *Position) isLegal(m Move) bool {
	us := p.SideToMove
	undo := p.MakeMove(m)
	defer p.UnmakeMove(m, undo)
	return !p.InCheck(us)
}

// GeneratePseudoLegalMoves generates all pseudo-legal moves (may leave king in check).
func (p *Position) GeneratePseudoLegalMoves() []Move {
	moves := make([]Move, 0, 64)
	us := p.SideToMove

	for sq := A1; sq <= H8; sq++ {
		piece := p.Squares[sq]
		if piece == NoPiece || piece.Color() != us {
			continue
		}

		switch piece.Type() {
		case Pawn:
			moves = p.generatePawnMoves(moves, sq, us)
		case Knight:
			moves = p.generateLeaperMoves(moves, sq, us, knightOffsets)
		case Bishop:
			moves = p.generateSliderMoves(moves, sq, us, diagonals[:])
		case Rook:
			moves = p.generateSliderMoves(moves, sq, us, orthogonals[:])
		case Queen:
			moves = p.generateSliderMoves(moves, sq, us, queenDirs[:])
		case King:
			moves = p.generateLeaperMoves(moves, sq, us, kingOffsets)
			moves = p.generateCastling(moves, sq, us)
		}
	}

	return moves
}

// isEnemy reports whether target holds a piece of the opponent of us.
func isEnemy(target Piece, us Color) bool {
	return target != NoPiece && target.Color() != us
}

// generatePawnMoves generates pushes, double pushes, captures, en passant and
// promotions for the pawn on from.
func (p *Position) generatePawnMoves(moves []Move, from Square, us Color) []Move {
	r, f := from.Rank(), from.File()
	dir, startRank, promoRank := 1, 1, 6
	if us == Black {
		dir, startRank, promoRank = -1, 6, 1
	}

	rr := r + dir
	if rr < 0 || rr > 7 {
		return moves
	}

	to := NewSquare(f, rr)
	if p.Squares[to] == NoPiece {
		if r == promoRank {
			moves = appendPromotions(moves, from, to, us)
		} else {
			moves = append(moves, NewMove(from, to))
			if r == startRank {
				to2 := NewSquare(f, r+2*dir)
				if p.Squares[to2] == NoPiece {
					moves = append(moves, NewMove(from, to2))
				}
			}
		}
	}

	for _, df := range [2]int{-1, 1} {
		ff := f + df
		if ff < 0 || ff > 7 {
			continue
		}
		target := NewSquare(ff, rr)
		if isEnemy(p.Squares[target], us) {
			if r == promoRank {
				moves = appendPromotions(moves, from, target, us)
			} else {
				moves = append(moves, NewMove(from, target))
			}
		}
		if p.EnPassant != NoSquare && target == p.EnPassant {
			moves = append(moves, NewEnPassant(from, target))
		}
	}

	return moves
}

func appendPromotions(moves []Move, from, to Square, us Color) []Move {
	for _, pt := range promotionOrder {
		moves = append(moves, NewPromotion(from, to, NewPiece(pt, us)))
	}
	return moves
}

// generateLeaperMoves handles knights and the king's one-step moves.
func (p *Position) generateLeaperMoves(moves []Move, from Square, us Color, offsets [8][2]int) []Move {
	r, f := from.Rank(), from.File()
	for _, o := range offsets {
		rr, ff := r+o[0], f+o[1]
		if !onBoard(rr, ff) {
			continue
		}
		to := NewSquare(ff, rr)
		if target := p.Squares[to]; target == NoPiece || target.Color() != us {
			moves = append(moves, NewMove(from, to))
		}
	}
	return moves
}

// generateSliderMoves walks each ray until blocked, capturing an enemy blocker.
func (p *Position) generateSliderMoves(moves []Move, from Square, us Color, dirs [][2]int) []Move {
	r, f := from.Rank(), from.File()
	for _, d := range dirs {
		rr, ff := r+d[0], f+d[1]
		for onBoard(rr, ff) {
			to := NewSquare(ff, rr)
			target := p.Squares[to]
			if target == NoPiece {
				moves = append(moves, NewMove(from, to))
			} else {
				if target.Color() != us {
					moves = append(moves, NewMove(from, to))
				}
				break
			}
			rr += d[0]
			ff += d[1]
		}
	}
	return moves
}

// generateCastling emits castling as a king two-step. The king must not be in
// check, the squares between king and rook must be empty, and the squares the
// king crosses and lands on must not be attacked.
func (p *Position) generateCastling(moves []Move, from Square, us Color) []Move {
	home, rank := E1, 0
	if us == Black {
		home, rank = E8, 7
	}
	if from != home || p.CastlingRights&castleMask(us) == 0 {
		return moves
	}

	them := us.Other()
	if p.IsSquareAttacked(from, them) {
		return moves
	}

	rook := NewPiece(Rook, us)
	sq := func(file int) Square { return NewSquare(file, rank) }

	if p.CastlingRights.CanCastle(us, true) &&
		p.Squares[sq(7)] == rook &&
		p.Squares[sq(5)] == NoPiece && p.Squares[sq(6)] == NoPiece &&
		!p.IsSquareAttacked(sq(5), them) && !p.IsSquareAttacked(sq(6), them) {
		moves = append(moves, NewCastling(from, sq(6)))
	}

	if p.CastlingRights.CanCastle(us, false) &&
		p.Squares[sq(0)] == rook &&
		p.Squares[sq(1)] == NoPiece && p.Squares[sq(2)] == NoPiece && p.Squares[sq(3)] == NoPiece &&
		!p.IsSquareAttacked(sq(2), them) && !p.IsSquareAttacked(sq(3), them) {
		moves = append(moves, NewCastling(from, sq(2)))
	}

	return moves
}

// castleMask returns both castling bits of color c.
func castleMask(c Color) CastlingRights {
	if c == White {
		return WhiteKingSideCastle | WhiteQueenSideCastle
	}
	return BlackKingSideCastle | BlackQueenSideCastle
}
