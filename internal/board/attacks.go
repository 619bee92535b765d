package board

// Ray and leaper offsets as (rank, file) deltas.
var (
	knightOffsets = [8][2]int{{2, 1}, {1, 2}, {-1, 2}, {-2, 1}, {-2, -1}, {-1, -2}, {1, -2}, {2, -1}}
	kingOffsets   = [8][2]int{{1, 1}, {1, 0}, {1, -1}, {0, 1}, {0, -1}, {-1, 1}, {-1, 0}, {-1, -1}}
	diagonals     = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	orthogonals   = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
)

// IsSquareAttacked returns true if any piece of color by attacks sq.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	r, f := sq.Rank(), sq.File()

	// Pawns attack from one rank behind (from the attacker's side).
	pawnRank := r - 1
	if by == Black {
		pawnRank = r + 1
	}
	pawn := NewPiece(Pawn, by)
	for _, df := range [2]int{-1, 1} {
		if onBoard(pawnRank, f+df) && p.Squares[NewSquare(f+df, pawnRank)] == pawn {
			return true
		}
	}

	knight := NewPiece(Knight, by)
	for _, o := range knightOffsets {
		rr, ff := r+o[0], f+o[1]
		if onBoard(rr, ff) && p.Squares[NewSquare(ff, rr)] == knight {
			return true
		}
	}

	if p.slideHits(r, f, diagonals, NewPiece(Bishop, by), NewPiece(Queen, by)) {
		return true
	}
	if p.slideHits(r, f, orthogonals, NewPiece(Rook, by), NewPiece(Queen, by)) {
		return true
	}

	king := NewPiece(King, by)
	for _, o := range kingOffsets {
		rr, ff := r+o[0], f+o[1]
		if onBoard(rr, ff) && p.Squares[NewSquare(ff, rr)] == king {
			return true
		}
	}

	return false
}

// slideHits walks each ray until the first occupied square and reports
// whether that blocker is one of the two given sliders.
func (p *Position) slideHits(r, f int, dirs [4][2]int, slider, queen Piece) bool {
	for _, d := range dirs {
		rr, ff := r+d[0], f+d[1]
		for onBoard(rr, ff) {
			piece := p.Squares[NewSquare(ff, rr)]
			if piece != NoPiece {
				if piece == slider || piece == queen {
					return true
				}
				break
			}
			rr += d[0]
			ff += d[1]
		}
	}
	return false
}

// InCheck returns true if the king of color c is attacked.
func (p *Position) InCheck(c Color) bool {
	ksq := p.KingSquare[c]
	if ksq == NoSquare {
		return false
	}
	return p.IsSquareAttacked(ksq, c.Other())
}

// Checked returns true if the side to move is in check.
func (p *Position) Checked() bool {
	return p.InCheck(p.SideToMove)
}
