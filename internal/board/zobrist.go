package board

import (
	"encoding/binary"
	"time"

	"lukechampine.com/frand"
)

// Zobrist hash keys for position hashing.
var (
	zobristPiece      [12][64]uint64 // [Piece.Index()][Square]
	zobristEnPassant  [8]uint64      // One per file
	zobristCastling   [16]uint64     // All 16 castling combinations
	zobristSideToMove uint64         // XOR when black to move
)

func init() {
	SeedZobrist(0)
}

// SeedZobrist rebuilds the key tables from a ChaCha stream.
// A zero seed draws the stream key from system entropy mixed with the wall
// clock. Hashes computed under different seeds are not comparable, so this must
// run before any position is created (and before a persisted Q-table is read).
func SeedZobrist(seed uint64) {
	var key [32]byte
	if seed == 0 {
		key = frand.Entropy256()
		clock := binary.LittleEndian.Uint64(key[24:]) ^ uint64(time.Now().UnixNano())
		binary.LittleEndian.PutUint64(key[24:], clock)
	} else {
		binary.LittleEndian.PutUint64(key[:8], seed)
	}

	rng := frand.NewCustom(key[:], 1024, 20)
	var buf [8]byte
	next := func() uint64 {
		rng.Read(buf[:])
		return binary.LittleEndian.Uint64(buf[:])
	}

	for i := range zobristPiece {
		for sq := range zobristPiece[i] {
			zobristPiece[i][sq] = next()
		}
	}

	zobristSideToMove = next()

	for i := range zobristCastling {
		zobristCastling[i] = next()
	}

	for file := range zobristEnPassant {
		zobristEnPassant[file] = next()
	}
}

// ZobristPiece returns the Zobrist key for a piece on a square.
func ZobristPiece(p Piece, sq Square) uint64 {
	return zobristPiece[p.Index()][sq]
}

// ZobristEnPassant returns the Zobrist key for an en passant file.
func ZobristEnPassant(file int) uint64 {
	return zobristEnPassant[file]
}

// ZobristCastling returns the Zobrist key for castling rights.
func ZobristCastling(cr CastlingRights) uint64 {
	return zobristCastling[cr&AllCastling]
}

// ZobristSideToMove returns the Zobrist key for side to move.
func ZobristSideToMove() uint64 {
	return zobristSideToMove
}
