package board

// rookHomeRights maps each rook home square to the castling bit it guards.
var rookHomeRights = [4]struct {
	sq     Square
	rights CastlingRights
}{
	{A1, WhiteQueenSideCastle},
	{H1, WhiteKingSideCastle},
	{A8, BlackQueenSideCastle},
	{H8, BlackKingSideCastle},
}

// castleRookSquares returns the rook's origin and destination for a castling
// move whose king lands on kingTo.
func castleRookSquares(kingTo Square) (from, to Square) {
	rank := kingTo.Rank()
	if kingTo.File() == 6 {
		return NewSquare(7, rank), NewSquare(5, rank)
	}
	return NewSquare(0, rank), NewSquare(3, rank)
}

// MakeMove applies m in place and returns the data needed to undo it.
// m must have been generated for this position.
func (p *Position) MakeMove(m Move) Undo {
	undo := Undo{
		CastlingRights: p.CastlingRights,
		EnPassant:      p.EnPassant,
		HalfMoveClock:  p.HalfMoveClock,
	}

	us := p.SideToMove
	moving := p.Squares[m.From]
	captured := p.Squares[m.To]
	undo.Captured = captured

	// Hash out the mover, any victim on the destination, castling and ep keys.
	if moving != NoPiece {
		p.Hash ^= zobristPiece[moving.Index()][m.From]
	}
	if captured != NoPiece {
		p.Hash ^= zobristPiece[captured.Index()][m.To]
	}
	p.Hash ^= zobristCastling[p.CastlingRights&AllCastling]
	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}

	p.EnPassant = NoSquare

	p.Squares[m.To] = moving
	p.Squares[m.From] = NoPiece

	if m.IsEnPassant() {
		capSq := m.To - 8
		if us == Black {
			capSq = m.To + 8
		}
		undo.Captured = p.Squares[capSq]
		if undo.Captured != NoPiece {
			p.Hash ^= zobristPiece[undo.Captured.Index()][capSq]
			p.Squares[capSq] = NoPiece
		}
	}

	if moving.Type() == King {
		p.KingSquare[us] = m.To
		if m.IsCastling() {
			rookFrom, rookTo := castleRookSquares(m.To)
			rook := p.Squares[rookFrom]
			p.Squares[rookTo] = rook
			p.Squares[rookFrom] = NoPiece
			p.Hash ^= zobristPiece[rook.Index()][rookFrom]
			p.Hash ^= zobristPiece[rook.Index()][rookTo]
		}
	}

	if m.IsPromotion() {
		p.Squares[m.To] = m.Promotion
	}

	// Castling rights: the king moving clears both bits; touching a rook home
	// square (moving from it or capturing onto it) clears that bit.
	if moving.Type() == King {
		p.CastlingRights &^= castleMask(us)
	}
	for _, home := range rookHomeRights {
		if m.From == home.sq || m.To == home.sq {
			p.CastlingRights &^= home.rights
		}
	}

	if moving.Type() == Pawn {
		if d := m.To.Rank() - m.From.Rank(); d == 2 || d == -2 {
			p.EnPassant = NewSquare(m.To.File(), (m.To.Rank()+m.From.Rank())/2)
		}
	}

	if moving.Type() == Pawn || undo.Captured != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}

	if us == Black {
		p.FullMoveNumber++
	}
	p.SideToMove = us.Other()

	// Hash in the piece now on the destination, new castling and ep keys, and
	// the side-to-move key.
	if placed := p.Squares[m.To]; placed != NoPiece {
		p.Hash ^= zobristPiece[placed.Index()][m.To]
	}
	p.Hash ^= zobristCastling[p.CastlingRights&AllCastling]
	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}
	p.Hash ^= zobristSideToMove

	return undo
}

// UnmakeMove reverses m using the data returned by MakeMove.
// The hash is recomputed from scratch.
func (p *Position) UnmakeMove(m Move, undo Undo) {
	p.SideToMove = p.SideToMove.Other()
	us := p.SideToMove

	moving := p.Squares[m.To]
	if m.IsPromotion() {
		moving = NewPiece(Pawn, us)
	}

	p.Squares[m.From] = moving
	p.Squares[m.To] = undo.Captured

	if m.IsEnPassant() {
		capSq := m.To - 8
		if us == Black {
			capSq = m.To + 8
		}
		p.Squares[capSq] = undo.Captured
		p.Squares[m.To] = NoPiece
	}

	if moving.Type() == King {
		p.KingSquare[us] = m.From
		if m.IsCastling() {
			rookFrom, rookTo := castleRookSquares(m.To)
			p.Squares[rookFrom] = p.Squares[rookTo]
			p.Squares[rookTo] = NoPiece
		}
	}

	p.CastlingRights = undo.CastlingRights
	p.EnPassant = undo.EnPassant
	p.HalfMoveClock = undo.HalfMoveClock
	if us == Black {
		p.FullMoveNumber--
	}

	p.UpdateHash()
}
