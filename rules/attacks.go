package rules

import "sync"

// DefaultMagicSeed seeds the magic number search of DefaultTables.
const DefaultMagicSeed = 1804289383

// AttackTables holds every precomputed attack set. A value is immutable once
// NewAttackTables returns and may be shared between goroutines.
type AttackTables struct {
	pawnPushes  [2][64]Bitboard
	pawnAttacks [2][64]Bitboard
	knight      [64]Bitboard
	king        [64]Bitboard

	bishopMagics [64]Magic
	rookMagics   [64]Magic
	bishopTable  []Bitboard
	rookTable    []Bitboard
}

var (
	defaultTables     *AttackTables
	defaultTablesOnce sync.Once
)

// DefaultTables returns the process-wide tables, built on first use.
func DefaultTables() *AttackTables {
	defaultTablesOnce.Do(func() {
		defaultTables = NewAttackTables(DefaultMagicSeed)
	})
	return defaultTables
}

// NewAttackTables builds leaper tables and searches magic numbers for both
// slider kinds using a generator seeded with seed.
func NewAttackTables(seed int64) *AttackTables {
	t := &AttackTables{}
	for sq := Square(0); sq < 64; sq++ {
		b := sq.Bitboard()
		t.pawnPushes[White][sq] = whitePawnPushes(b)
		t.pawnPushes[Black][sq] = blackPawnPushes(b)
		t.pawnAttacks[White][sq] = whitePawnAttacks(b)
		t.pawnAttacks[Black][sq] = blackPawnAttacks(b)
		t.knight[sq] = knightAttacks(b)
		t.king[sq] = kingAttacks(b)
	}
	t.initMagics(seed)
	return t
}

// ==========================
// Leaper generation
// ==========================

func whitePawnPushes(b Bitboard) Bitboard {
	single := b << 8
	return single | (b&Rank2)<<16
}

func blackPawnPushes(b Bitboard) Bitboard {
	single := b >> 8
	return single | (b&Rank7)>>16
}

func whitePawnAttacks(b Bitboard) Bitboard {
	return (b<<9)&NotAFile | (b<<7)&NotHFile
}

func blackPawnAttacks(b Bitboard) Bitboard {
	return (b>>7)&NotAFile | (b>>9)&NotHFile
}

func knightAttacks(b Bitboard) Bitboard {
	return (b<<17)&NotAFile | (b<<15)&NotHFile |
		(b<<10)&NotABFile | (b<<6)&NotGHFile |
		(b>>15)&NotAFile | (b>>17)&NotHFile |
		(b>>6)&NotABFile | (b>>10)&NotGHFile
}

func kingAttacks(b Bitboard) Bitboard {
	return b<<8 | b>>8 |
		(b<<1)&NotAFile | (b>>1)&NotHFile |
		(b<<9)&NotAFile | (b<<7)&NotHFile |
		(b>>7)&NotAFile | (b>>9)&NotHFile
}

// ==========================
// Lookups
// ==========================

// PawnPushes returns the push targets (single and, from the home rank, double)
// of a pawn of color c on sq, ignoring occupancy.
func (t *AttackTables) PawnPushes(c Color, sq Square) Bitboard { return t.pawnPushes[c&1][sq] }

// PawnAttacks returns the diagonal capture squares of a pawn of color c on sq.
func (t *AttackTables) PawnAttacks(c Color, sq Square) Bitboard { return t.pawnAttacks[c&1][sq] }

func (t *AttackTables) Knight(sq Square) Bitboard { return t.knight[sq] }

func (t *AttackTables) King(sq Square) Bitboard { return t.king[sq] }

// Bishop returns the bishop attack set from sq for the given occupancy.
func (t *AttackTables) Bishop(sq Square, occ Bitboard) Bitboard {
	return t.bishopTable[t.bishopMagics[sq].index(occ)]
}

// Rook returns the rook attack set from sq for the given occupancy.
func (t *AttackTables) Rook(sq Square, occ Bitboard) Bitboard {
	return t.rookTable[t.rookMagics[sq].index(occ)]
}

func (t *AttackTables) Queen(sq Square, occ Bitboard) Bitboard {
	return t.Bishop(sq, occ) | t.Rook(sq, occ)
}

// ==========================
// Ray walker
// ==========================

var (
	bishopDirs = [4][2]int{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
	rookDirs   = [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
)

// slidingAttacks walks each direction from sq until the board edge or the
// first blocker, which is included.
func slidingAttacks(sq Square, blockers Bitboard, dirs [4][2]int) Bitboard {
	var attacks Bitboard
	file, rank := sq.File(), sq.Rank()-1
	for _, d := range dirs {
		f, r := file+d[0], rank+d[1]
		for f >= 0 && f < 8 && r >= 0 && r < 8 {
			target := NewSquare(f, r)
			attacks = attacks.Set(target)
			if blockers.Has(target) {
				break
			}
			f += d[0]
			r += d[1]
		}
	}
	return attacks
}

func bishopAttacksSlow(sq Square, blockers Bitboard) Bitboard {
	return slidingAttacks(sq, blockers, bishopDirs)
}

func rookAttacksSlow(sq Square, blockers Bitboard) Bitboard {
	return slidingAttacks(sq, blockers, rookDirs)
}
