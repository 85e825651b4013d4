package rules

import "golang.org/x/exp/slices"

// mover describes how one piece kind reaches squares. quiet returns the
// non-capturing destinations before the empty-target filter, capture the
// squares the piece attacks.
type mover struct {
	quiet   func(b *Board, from Square, c Color) Bitboard
	capture func(b *Board, from Square, c Color) Bitboard
}

var movers = [6]mover{
	Pawn:   {quiet: pawnQuiet, capture: pawnCapture},
	Knight: {quiet: knightTargets, capture: knightTargets},
	Bishop: {quiet: bishopTargets, capture: bishopTargets},
	Rook:   {quiet: rookTargets, capture: rookTargets},
	Queen:  {quiet: queenTargets, capture: queenTargets},
	King:   {quiet: kingTargets, capture: kingTargets},
}

func pawnQuiet(b *Board, from Square, c Color) Bitboard {
	occ := b.AllPieces()
	step := pawnStep(from, c)
	if !step.Valid() || occ.Has(step) {
		return 0
	}
	return b.Tables().PawnPushes(c, from) &^ occ
}

func pawnCapture(b *Board, from Square, c Color) Bitboard {
	return b.Tables().PawnAttacks(c, from)
}

func knightTargets(b *Board, from Square, _ Color) Bitboard { return b.Tables().Knight(from) }

func bishopTargets(b *Board, from Square, _ Color) Bitboard {
	return b.Tables().Bishop(from, b.AllPieces())
}

func rookTargets(b *Board, from Square, _ Color) Bitboard {
	return b.Tables().Rook(from, b.AllPieces())
}

func queenTargets(b *Board, from Square, _ Color) Bitboard {
	return b.Tables().Queen(from, b.AllPieces())
}

func kingTargets(b *Board, from Square, _ Color) Bitboard { return b.Tables().King(from) }

// pawnStep is the square one step forward for c, or an invalid square off
// the board.
func pawnStep(from Square, c Color) Square {
	if c == White {
		return from + 8
	}
	return from - 8
}

func lastRank(c Color) int {
	if c == White {
		return 8
	}
	return 1
}

// ==========================
// Castling geometry
// ==========================

type castleRoute struct {
	kingFrom, kingTo Square
	rookFrom, rookTo Square
	empty            Bitboard // must be vacant
	safe             []Square // king start, transit and landing squares
}

var castleRoutes = [2][2]castleRoute{
	White: {
		KingSide: {E1, G1, H1, F1, F1.Bitboard() | G1.Bitboard(), []Square{E1, F1, G1}},
		QueenSide: {E1, C1, A1, D1, B1.Bitboard() | C1.Bitboard() | D1.Bitboard(), []Square{E1, D1, C1}},
	},
	Black: {
		KingSide: {E8, G8, H8, F8, F8.Bitboard() | G8.Bitboard(), []Square{E8, F8, G8}},
		QueenSide: {E8, C8, A8, D8, B8.Bitboard() | C8.Bitboard() | D8.Bitboard(), []Square{E8, D8, C8}},
	},
}

// CastleRoute returns the king and rook squares of a castle.
func CastleRoute(c Color, side CastleSide) (kingFrom, kingTo, rookFrom, rookTo Square) {
	r := castleRoutes[c&1][side&1]
	return r.kingFrom, r.kingTo, r.rookFrom, r.rookTo
}

// isRookHome reports whether sq is one of c's rook starting squares.
func isRookHome(c Color, sq Square) bool {
	return castleRoutes[c&1][KingSide].rookFrom == sq || castleRoutes[c&1][QueenSide].rookFrom == sq
}

// revokeAfterMove clears castling rights lost by p leaving from.
func (b *Board) revokeAfterMove(p Piece, from Square) {
	switch p.Kind() {
	case King:
		b.castlingRights[p.Color()] = false
	case Rook:
		if isRookHome(p.Color(), from) {
			b.castlingRights[p.Color()] = false
		}
	}
}

// revokeAfterCapture clears the right of a side whose rook was taken at home.
func (b *Board) revokeAfterCapture(captured Piece, at Square) {
	if captured.Kind() == Rook && isRookHome(captured.Color(), at) {
		b.castlingRights[captured.Color()] = false
	}
}

// ==========================
// Operations
// ==========================

// Move plays a non-capturing move. A pawn double push records the skipped
// square as the en passant target.
func (b *Board) Move(from, to Square, p Piece) error {
	if !p.Valid() || !from.Valid() || !to.Valid() {
		return ErrInvalidRequest
	}
	if !b.pieces[p].Has(from) {
		return ErrPieceNotFound
	}
	c := p.Color()
	if from == to || !movers[p.Kind()].quiet(b, from, c).Has(to) || b.AllPieces().Has(to) {
		return ErrInvalidMove
	}
	if p.Kind() == Pawn && to.Rank() == lastRank(c) {
		return ErrInvalidPromotion
	}
	if err := b.movePiece(from, to, p); err != nil {
		return err
	}
	b.enPassant = 0
	if p.Kind() == Pawn && (int(to)-int(from) == 16 || int(from)-int(to) == 16) {
		b.enPassant = pawnStep(from, c).Bitboard()
	}
	b.revokeAfterMove(p, from)
	return nil
}

// Capture plays p from one square to another, taking captured which must be
// the enemy piece standing on to.
func (b *Board) Capture(from, to Square, p, captured Piece) error {
	if !p.Valid() || !captured.Valid() || !from.Valid() || !to.Valid() {
		return ErrInvalidRequest
	}
	if p.Color() == captured.Color() {
		return ErrInvalidCapture
	}
	actual, ok := b.PieceAt(to)
	if !ok {
		return ErrInvalidCapture
	}
	if actual != captured {
		return ErrInvalidPiece
	}
	if captured.Kind() == King {
		return ErrInvalidCapture
	}
	if !b.pieces[p].Has(from) {
		return ErrPieceNotFound
	}
	c := p.Color()
	if !movers[p.Kind()].capture(b, from, c).Has(to) {
		return ErrInvalidCapture
	}
	if p.Kind() == Pawn && to.Rank() == lastRank(c) {
		return ErrInvalidPromotion
	}
	if err := b.capturePiece(to, captured); err != nil {
		return err
	}
	if err := b.movePiece(from, to, p); err != nil {
		b.set(to, captured)
		return err
	}
	b.enPassant = 0
	b.revokeAfterMove(p, from)
	b.revokeAfterCapture(captured, to)
	return nil
}

// Castle moves king and rook together. The squares between them must be
// empty and the king may not start on, pass through or land on an attacked
// square.
func (b *Board) Castle(king Piece, side CastleSide) error {
	if !king.Valid() || king.Kind() != King {
		return ErrInvalidPiece
	}
	if side != KingSide && side != QueenSide {
		return ErrInvalidRequest
	}
	c := king.Color()
	if !b.castlingRights[c] {
		return ErrCastleRights
	}
	r := castleRoutes[c][side]
	rook := NewPiece(c, Rook)
	if !b.pieces[king].Has(r.kingFrom) || !b.pieces[rook].Has(r.rookFrom) {
		return ErrInvalidCastle
	}
	if b.AllPieces()&r.empty != 0 {
		return ErrInvalidCastle
	}
	enemy := c.Opposite()
	for _, sq := range r.safe {
		if b.IsSquareAttacked(sq, enemy) {
			return ErrInvalidCastle
		}
	}
	b.clear(r.kingFrom, king)
	b.set(r.kingTo, king)
	b.clear(r.rookFrom, rook)
	b.set(r.rookTo, rook)
	b.enPassant = 0
	b.castlingRights[c] = false
	return nil
}

// EnPassantCapture takes the pawn that just double-pushed past to.
func (b *Board) EnPassantCapture(from, to Square, p Piece) error {
	if !p.Valid() || !from.Valid() || !to.Valid() {
		return ErrInvalidRequest
	}
	if p.Kind() != Pawn {
		return ErrInvalidEnPassant
	}
	if !b.pieces[p].Has(from) {
		return ErrPieceNotFound
	}
	c := p.Color()
	if !b.enPassant.Has(to) || !b.Tables().PawnAttacks(c, from).Has(to) {
		return ErrInvalidEnPassant
	}
	victim := NewPiece(c.Opposite(), Pawn)
	behind := pawnStep(to, c.Opposite())
	if !b.pieces[victim].Has(behind) || b.AllPieces().Has(to) {
		return ErrInvalidEnPassant
	}
	b.clear(behind, victim)
	if err := b.movePiece(from, to, p); err != nil {
		b.set(behind, victim)
		return err
	}
	b.enPassant = 0
	return nil
}

var promotionKinds = []PieceKind{Knight, Bishop, Rook, Queen}

// Promote advances a pawn to the last rank and replaces it with promoted.
// An occupied target is captured first; the captured piece is returned.
func (b *Board) Promote(from, to Square, p, promoted Piece) (captured Piece, took bool, err error) {
	if !p.Valid() || !promoted.Valid() || !from.Valid() || !to.Valid() {
		return 0, false, ErrInvalidRequest
	}
	c := p.Color()
	if p.Kind() != Pawn || promoted.Color() != c || !slices.Contains(promotionKinds, promoted.Kind()) {
		return 0, false, ErrInvalidPromotion
	}
	if to.Rank() != lastRank(c) || pawnStep(from, c).Rank() != lastRank(c) {
		return 0, false, ErrInvalidPromotion
	}
	if !b.pieces[p].Has(from) {
		return 0, false, ErrPieceNotFound
	}

	if target, ok := b.PieceAt(to); ok {
		if target.Color() == c || target.Kind() == King || !pawnCapture(b, from, c).Has(to) {
			return 0, false, ErrInvalidCapture
		}
		b.clear(to, target)
		if err := b.movePiece(from, to, p); err != nil {
			b.set(to, target)
			return 0, false, err
		}
		captured, took = target, true
	} else {
		if !pawnQuiet(b, from, c).Has(to) {
			return 0, false, ErrInvalidMove
		}
		if err := b.movePiece(from, to, p); err != nil {
			return 0, false, err
		}
	}
	b.clear(to, p)
	b.set(to, promoted)
	b.enPassant = 0
	if took {
		b.revokeAfterCapture(captured, to)
	}
	return captured, took, nil
}

// Apply dispatches md to the matching operation. It returns the captured
// piece, if any.
func (b *Board) Apply(md MoveData) (captured Piece, took bool, err error) {
	switch md.Type.Kind {
	case KindMove:
		err = b.Move(md.From, md.To, md.Piece)
	case KindCapture:
		err = b.Capture(md.From, md.To, md.Piece, md.Type.Piece)
		captured, took = md.Type.Piece, err == nil
	case KindCastle:
		err = b.Castle(md.Piece, md.Type.Side)
	case KindEnPassant:
		err = b.EnPassantCapture(md.From, md.To, md.Piece)
		captured, took = md.Piece.Opposite(), err == nil
	case KindPromotion:
		captured, took, err = b.Promote(md.From, md.To, md.Piece, md.Type.Piece)
	default:
		err = ErrInvalidRequest
	}
	if err != nil {
		return 0, false, err
	}
	return captured, took, nil
}
