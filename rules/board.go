package rules

import (
	"fmt"
	"strings"
)

// Board is the piece placement plus the per-position flags that travel with
// it. It is a plain value: assigning a Board copies the whole position.
type Board struct {
	// One bitboard per Piece, indexed by Piece. Pairwise disjoint.
	pieces [pieceCount]Bitboard

	// castlingRights[color] is cleared once that side loses the right and
	// never set again.
	castlingRights [2]bool

	// Square a pawn skipped with its last double push, or empty.
	enPassant Bitboard

	tables *AttackTables
}

// NewBoard returns the standard starting position.
func NewBoard() Board {
	b := Board{castlingRights: [2]bool{true, true}}
	b.pieces[WhitePawn] = Rank2
	b.pieces[BlackPawn] = Rank7
	back := [8]PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for file, k := range back {
		b.set(NewSquare(file, 0), NewPiece(White, k))
		b.set(NewSquare(file, 7), NewPiece(Black, k))
	}
	return b
}

// EmptyBoard returns a board with no pieces and no castling rights.
func EmptyBoard() Board { return Board{} }

// Tables returns the attack tables the board evaluates moves with.
func (b *Board) Tables() *AttackTables {
	if b.tables == nil {
		return DefaultTables()
	}
	return b.tables
}

// UseTables switches the board to t. A nil t selects DefaultTables.
func (b *Board) UseTables(t *AttackTables) { b.tables = t }

// ==========================
// Primitive mutation
// ==========================

func (b *Board) set(sq Square, p Piece)   { b.pieces[p] |= sq.Bitboard() }
func (b *Board) clear(sq Square, p Piece) { b.pieces[p] &^= sq.Bitboard() }

// SetPiece places p on sq, replacing whatever stood there.
func (b *Board) SetPiece(sq Square, p Piece) {
	b.ClearSquare(sq)
	b.set(sq, p)
}

// ClearSquare empties sq.
func (b *Board) ClearSquare(sq Square) {
	mask := ^sq.Bitboard()
	for i := range b.pieces {
		b.pieces[i] &= mask
	}
}

// SetCastlingRights overrides a side's castling right during position setup.
func (b *Board) SetCastlingRights(c Color, allowed bool) { b.castlingRights[c&1] = allowed }

// SetEnPassant sets the en passant target during position setup.
func (b *Board) SetEnPassant(sq Square) { b.enPassant = sq.Bitboard() }

// movePiece relocates p from one square to another. It fails with
// ErrInvalidMove when p is not on from and with ErrKingInCheck, after
// restoring the board, when the move leaves p's own king attacked.
func (b *Board) movePiece(from, to Square, p Piece) error {
	if !b.pieces[p].Has(from) {
		return ErrInvalidMove
	}
	b.clear(from, p)
	b.set(to, p)
	if b.InCheck(p.Color()) {
		b.clear(to, p)
		b.set(from, p)
		return ErrKingInCheck
	}
	return nil
}

// capturePiece removes captured from to.
func (b *Board) capturePiece(to Square, captured Piece) error {
	if !b.pieces[captured].Has(to) {
		return ErrInvalidPiece
	}
	b.clear(to, captured)
	return nil
}

// ==========================
// Queries
// ==========================

// Bitboard returns the squares holding p.
func (b *Board) Bitboard(p Piece) Bitboard {
	if !p.Valid() {
		return 0
	}
	return b.pieces[p]
}

// PieceAt reports the piece on sq, if any.
func (b *Board) PieceAt(sq Square) (Piece, bool) {
	mask := sq.Bitboard()
	for p := WhitePawn; p <= BlackKing; p++ {
		if b.pieces[p]&mask != 0 {
			return p, true
		}
	}
	return 0, false
}

func (b *Board) WhitePieces() Bitboard { return b.Pieces(White) }

func (b *Board) BlackPieces() Bitboard { return b.Pieces(Black) }

// Pieces returns the union of c's bitboards.
func (b *Board) Pieces(c Color) Bitboard {
	base := NewPiece(c, Pawn)
	var all Bitboard
	for k := Pawn; k <= King; k++ {
		all |= b.pieces[base+Piece(k)]
	}
	return all
}

func (b *Board) AllPieces() Bitboard { return b.Pieces(White) | b.Pieces(Black) }

func (b *Board) CastlingRights(c Color) bool { return b.castlingRights[c&1] }

// EnPassant returns the current en passant target set (zero or one square).
func (b *Board) EnPassant() Bitboard { return b.enPassant }

// KingSquare returns where c's king stands.
func (b *Board) KingSquare(c Color) (Square, bool) {
	k := b.pieces[NewPiece(c, King)]
	if k == 0 {
		return 0, false
	}
	return k.LSB(), true
}

// AttackMask returns every square attacked by c's pieces in the current
// occupancy.
func (b *Board) AttackMask(c Color) Bitboard {
	t := b.Tables()
	occ := b.AllPieces()

	pawns := b.pieces[NewPiece(c, Pawn)]
	var attacks Bitboard
	if c == White {
		attacks = whitePawnAttacks(pawns)
	} else {
		attacks = blackPawnAttacks(pawns)
	}
	for bb := b.pieces[NewPiece(c, Knight)]; bb != 0; {
		attacks |= t.Knight(bb.PopLSB())
	}
	for bb := b.pieces[NewPiece(c, Bishop)] | b.pieces[NewPiece(c, Queen)]; bb != 0; {
		attacks |= t.Bishop(bb.PopLSB(), occ)
	}
	for bb := b.pieces[NewPiece(c, Rook)] | b.pieces[NewPiece(c, Queen)]; bb != 0; {
		attacks |= t.Rook(bb.PopLSB(), occ)
	}
	for bb := b.pieces[NewPiece(c, King)]; bb != 0; {
		attacks |= t.King(bb.PopLSB())
	}
	return attacks
}

// IsSquareAttacked reports whether any piece of color by attacks sq.
func (b *Board) IsSquareAttacked(sq Square, by Color) bool {
	t := b.Tables()
	occ := b.AllPieces()
	if t.PawnAttacks(by.Opposite(), sq)&b.pieces[NewPiece(by, Pawn)] != 0 {
		return true
	}
	if t.Knight(sq)&b.pieces[NewPiece(by, Knight)] != 0 {
		return true
	}
	if t.King(sq)&b.pieces[NewPiece(by, King)] != 0 {
		return true
	}
	queens := b.pieces[NewPiece(by, Queen)]
	if t.Bishop(sq, occ)&(b.pieces[NewPiece(by, Bishop)]|queens) != 0 {
		return true
	}
	return t.Rook(sq, occ)&(b.pieces[NewPiece(by, Rook)]|queens) != 0
}

// InCheck reports whether c's king is attacked by the other side.
func (b *Board) InCheck(c Color) bool {
	return b.AttackMask(c.Opposite())&b.pieces[NewPiece(c, King)] != 0
}

// Validate checks the structural invariants: disjoint piece bitboards, at
// most one king per side and an en passant target on the third or sixth rank.
func (b *Board) Validate() error {
	var seen Bitboard
	for p := WhitePawn; p <= BlackKing; p++ {
		if overlap := seen & b.pieces[p]; overlap != 0 {
			return fmt.Errorf("%s overlaps another piece on %s", p, overlap.LSB())
		}
		seen |= b.pieces[p]
	}
	for _, c := range [2]Color{White, Black} {
		if n := b.pieces[NewPiece(c, King)].Count(); n > 1 {
			return fmt.Errorf("%s has %d kings", c, n)
		}
	}
	if b.enPassant != 0 {
		if b.enPassant.Count() != 1 {
			return fmt.Errorf("en passant set has %d squares", b.enPassant.Count())
		}
		if r := b.enPassant.LSB().Rank(); r != 3 && r != 6 {
			return fmt.Errorf("en passant square %s is not on rank 3 or 6", b.enPassant.LSB())
		}
	}
	return nil
}

// String draws the position with FEN letters, rank 8 on top.
func (b *Board) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte(byte('1' + rank))
		sb.WriteByte(' ')
		for file := 0; file < 8; file++ {
			if p, ok := b.PieceAt(NewSquare(file, rank)); ok {
				sb.WriteByte(p.FENChar())
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  abcdefgh\n")
	return sb.String()
}
