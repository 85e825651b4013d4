package rules

import (
	"math/rand"
	"sync"
)

// zobristKeys holds the random keys that position hashes are built from.
type zobristKeys struct {
	piece     [64][pieceCount]uint64
	enPassant [8]uint64 // by file
	castle    [2]uint64 // by color
	side      uint64    // Black to move
}

var (
	zobrist     zobristKeys
	zobristOnce sync.Once
)

func keys() *zobristKeys {
	zobristOnce.Do(func() {
		// Fixed seed so hashes are reproducible across runs.
		rnd := rand.New(rand.NewSource(0xC0DE))
		for sq := range zobrist.piece {
			for p := range zobrist.piece[sq] {
				zobrist.piece[sq][p] = rnd.Uint64()
			}
		}
		for f := range zobrist.enPassant {
			zobrist.enPassant[f] = rnd.Uint64()
		}
		for c := range zobrist.castle {
			zobrist.castle[c] = rnd.Uint64()
		}
		zobrist.side = rnd.Uint64()
	})
	return &zobrist
}

// ComputeHash hashes the position from scratch.
func ComputeHash(b *Board, active Color) uint64 {
	z := keys()
	var h uint64
	for p := WhitePawn; p <= BlackKing; p++ {
		for bb := b.pieces[p]; bb != 0; {
			h ^= z.piece[bb.PopLSB()][p]
		}
	}
	h ^= z.flags(b)
	if active == Black {
		h ^= z.side
	}
	return h
}

// flags hashes the castling rights and en passant file of b.
func (z *zobristKeys) flags(b *Board) uint64 {
	var h uint64
	for c, ok := range b.castlingRights {
		if ok {
			h ^= z.castle[c]
		}
	}
	if b.enPassant != 0 {
		h ^= z.enPassant[b.enPassant.LSB().File()]
	}
	return h
}

// delta returns the XOR that turns the hash of before into the hash of
// after, touching only the squares whose contents changed.
func (z *zobristKeys) delta(before, after *Board) uint64 {
	var h uint64
	for p := WhitePawn; p <= BlackKing; p++ {
		for diff := before.pieces[p] ^ after.pieces[p]; diff != 0; {
			h ^= z.piece[diff.PopLSB()][p]
		}
	}
	return h ^ z.flags(before) ^ z.flags(after)
}
