package rules

import (
	"math/bits"
	"strings"
)

// Bitboard is a set of squares: bit i set means square i is a member.
type Bitboard uint64

const (
	FileA Bitboard = 0x0101010101010101
	FileB Bitboard = FileA << 1
	FileG Bitboard = FileA << 6
	FileH Bitboard = FileA << 7

	Rank1 Bitboard = 0x00000000000000FF
	Rank2 Bitboard = Rank1 << 8
	Rank7 Bitboard = Rank1 << 48
	Rank8 Bitboard = Rank1 << 56

	// Wrap guards for shift-based attack generation.
	NotAFile  Bitboard = ^FileA
	NotHFile  Bitboard = ^FileH
	NotABFile Bitboard = ^(FileA | FileB)
	NotGHFile Bitboard = ^(FileG | FileH)
)

func (b Bitboard) Has(sq Square) bool { return b&(Bitboard(1)<<sq) != 0 }

func (b Bitboard) Set(sq Square) Bitboard { return b | Bitboard(1)<<sq }

func (b Bitboard) Clear(sq Square) Bitboard { return b &^ (Bitboard(1) << sq) }

func (b Bitboard) Count() int { return bits.OnesCount64(uint64(b)) }

func (b Bitboard) IsEmpty() bool { return b == 0 }

// LSB returns the lowest set square. The result is undefined for an empty set.
func (b Bitboard) LSB() Square { return Square(bits.TrailingZeros64(uint64(b))) }

// PopLSB removes and returns the lowest set square.
func (b *Bitboard) PopLSB() Square {
	sq := b.LSB()
	*b &= *b - 1
	return sq
}

// Squares lists the members in ascending order.
func (b Bitboard) Squares() []Square {
	out := make([]Square, 0, b.Count())
	for b != 0 {
		out = append(out, b.PopLSB())
	}
	return out
}

// String draws the set as an 8x8 grid with rank 8 on top.
func (b Bitboard) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		for file := 0; file < 8; file++ {
			if b.Has(NewSquare(file, rank)) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
