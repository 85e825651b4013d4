package rules

// PseudoMoves enumerates candidate moves for c: every target the movers
// table offers, classified into the five move kinds, plus both castles while
// the right is held. Candidates may still leave the king in check or fail
// the castle conditions; Board.Apply is the judge.
func PseudoMoves(b *Board, c Color) []MoveData {
	moves := make([]MoveData, 0, 64)
	own := b.Pieces(c)
	enemy := b.Pieces(c.Opposite())
	for k := Pawn; k <= King; k++ {
		p := NewPiece(c, k)
		m := movers[k]
		for bb := b.pieces[p]; bb != 0; {
			from := bb.PopLSB()
			if k == Pawn {
				moves = appendPawnMoves(moves, b, from, p, enemy)
				continue
			}
			targets := (m.quiet(b, from, c) | m.capture(b, from, c)) &^ own
			for targets != 0 {
				to := targets.PopLSB()
				moves = append(moves, NewMoveData(b, from, to, p))
			}
		}
	}
	if b.castlingRights[c] {
		king := NewPiece(c, King)
		for _, side := range [2]CastleSide{KingSide, QueenSide} {
			r := castleRoutes[c][side]
			moves = append(moves, MoveData{From: r.kingFrom, To: r.kingTo, Piece: king, Type: MoveCastle(side)})
		}
	}
	return moves
}

func appendPawnMoves(moves []MoveData, b *Board, from Square, p Piece, enemy Bitboard) []MoveData {
	c := p.Color()
	promoting := pawnStep(from, c).Valid() && pawnStep(from, c).Rank() == lastRank(c)

	for targets := pawnQuiet(b, from, c); targets != 0; {
		to := targets.PopLSB()
		if promoting {
			moves = appendPromotions(moves, from, to, p)
			continue
		}
		moves = append(moves, MoveData{From: from, To: to, Piece: p, Type: MoveQuiet()})
	}
	attacks := pawnCapture(b, from, c)
	for targets := attacks & enemy; targets != 0; {
		to := targets.PopLSB()
		if promoting {
			moves = appendPromotions(moves, from, to, p)
			continue
		}
		moves = append(moves, NewMoveData(b, from, to, p))
	}
	if attacks&b.enPassant != 0 {
		moves = append(moves, MoveData{From: from, To: b.enPassant.LSB(), Piece: p, Type: MoveEnPassant()})
	}
	return moves
}

func appendPromotions(moves []MoveData, from, to Square, p Piece) []MoveData {
	for _, k := range [4]PieceKind{Queen, Rook, Bishop, Knight} {
		moves = append(moves, MoveData{From: from, To: to, Piece: p, Type: MovePromotion(NewPiece(p.Color(), k))})
	}
	return moves
}

// isLegal probes md on a copy of b.
func isLegal(b *Board, c Color, md MoveData) bool {
	probe := *b
	if _, _, err := probe.Apply(md); err != nil {
		return false
	}
	return !probe.InCheck(c)
}

// LegalMoves filters PseudoMoves down to the moves Board.Apply accepts and
// that leave c's king safe.
func LegalMoves(b *Board, c Color) []MoveData {
	candidates := PseudoMoves(b, c)
	legal := candidates[:0]
	for _, md := range candidates {
		if isLegal(b, c, md) {
			legal = append(legal, md)
		}
	}
	return legal
}

// hasLegalMove stops at the first legal candidate.
func hasLegalMove(b *Board, c Color) bool {
	for _, md := range PseudoMoves(b, c) {
		if isLegal(b, c, md) {
			return true
		}
	}
	return false
}
