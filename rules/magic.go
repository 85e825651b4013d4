package rules

import (
	"math/bits"
	"math/rand"
)

// Magic addresses one square's slice of a flat slider attack table.
type Magic struct {
	Mask      Bitboard
	Magic     uint64
	IndexBits uint8
	Offset    uint32
}

func (m *Magic) index(occ Bitboard) uint32 {
	return uint32((uint64(occ&m.Mask)*m.Magic)>>(64-m.IndexBits)) + m.Offset
}

// bishopMask is the relevant occupancy for a bishop: its empty-board rays
// without the outer ring, whose occupancy never changes the attack set.
func bishopMask(sq Square) Bitboard {
	edges := FileA | FileH | Rank1 | Rank8
	return bishopAttacksSlow(sq, 0) &^ edges
}

// rookMask is the relevant occupancy for a rook: rank and file rays without
// their final square.
func rookMask(sq Square) Bitboard {
	var mask Bitboard
	file, rank := sq.File(), sq.Rank()-1
	for f := 1; f < 7; f++ {
		if f != file {
			mask = mask.Set(NewSquare(f, rank))
		}
	}
	for r := 1; r < 7; r++ {
		if r != rank {
			mask = mask.Set(NewSquare(file, r))
		}
	}
	return mask
}

func (t *AttackTables) initMagics(seed int64) {
	rng := rand.New(rand.NewSource(seed))
	t.bishopTable = fillMagics(rng, &t.bishopMagics, bishopMask, bishopAttacksSlow)
	t.rookTable = fillMagics(rng, &t.rookMagics, rookMask, rookAttacksSlow)
}

// fillMagics finds a magic for every square and lays the per-square tables
// out back to back in one slice.
func fillMagics(rng *rand.Rand, magics *[64]Magic, mask func(Square) Bitboard, slow func(Square, Bitboard) Bitboard) []Bitboard {
	var size uint32
	for sq := Square(0); sq < 64; sq++ {
		m := &magics[sq]
		m.Mask = mask(sq)
		m.IndexBits = uint8(m.Mask.Count())
		m.Offset = size
		size += 1 << m.IndexBits
	}
	table := make([]Bitboard, size)
	for sq := Square(0); sq < 64; sq++ {
		m := &magics[sq]
		span := table[m.Offset : m.Offset+1<<m.IndexBits]
		m.Magic = findMagic(rng, sq, m.Mask, slow, span)
	}
	return table
}

// findMagic draws sparse random candidates until one maps every blocker
// subset of mask onto span without a destructive collision. span is left
// holding the attack sets for the accepted magic.
func findMagic(rng *rand.Rand, sq Square, mask Bitboard, slow func(Square, Bitboard) Bitboard, span []Bitboard) uint64 {
	n := mask.Count()
	occupancies := make([]Bitboard, 0, 1<<n)
	attacks := make([]Bitboard, 0, 1<<n)
	var subset Bitboard
	for {
		occupancies = append(occupancies, subset)
		attacks = append(attacks, slow(sq, subset))
		subset = (subset - mask) & mask
		if subset == 0 {
			break
		}
	}

	// epoch stamps let one buffer serve every attempt without clearing.
	used := make([]uint32, len(span))
	for epoch := uint32(1); ; epoch++ {
		magic := rng.Uint64() & rng.Uint64() & rng.Uint64()
		if bits.OnesCount64((uint64(mask)*magic)&0xFF00000000000000) < 6 {
			continue
		}
		ok := true
		for i, occ := range occupancies {
			idx := (uint64(occ) * magic) >> (64 - n)
			if used[idx] != epoch {
				used[idx] = epoch
				span[idx] = attacks[i]
			} else if span[idx] != attacks[i] {
				ok = false
				break
			}
		}
		if ok {
			return magic
		}
	}
}
