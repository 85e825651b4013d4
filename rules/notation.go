package rules

import "strings"

// SAN renders md in short algebraic notation as seen from b, the position
// before the move: "e4", "Nbd2", "exd5", "O-O", "e8=Q". Check and mate
// suffixes depend on the position after the move and are left to the caller.
func SAN(b *Board, md MoveData) string {
	if md.Type.Kind == KindCastle {
		if md.Type.Side == QueenSide {
			return "O-O-O"
		}
		return "O-O"
	}

	var sb strings.Builder
	capture := md.Type.Kind == KindCapture || md.Type.Kind == KindEnPassant || b.AllPieces().Has(md.To)
	if md.Piece.Kind() == Pawn {
		if capture {
			sb.WriteByte(byte('a' + md.From.File()))
		}
	} else {
		sb.WriteByte(md.Piece.Kind().Letter())
		sb.WriteString(disambiguation(b, md))
	}
	if capture {
		sb.WriteByte('x')
	}
	sb.WriteString(md.To.String())
	if md.Type.Kind == KindPromotion {
		sb.WriteByte('=')
		sb.WriteByte(md.Type.Piece.Kind().Letter())
	}
	return sb.String()
}

// disambiguation returns the file, rank or full square needed to tell md
// apart from other legal moves of the same piece to the same square.
func disambiguation(b *Board, md MoveData) string {
	var rivals []Square
	for _, other := range LegalMoves(b, md.Piece.Color()) {
		if other.Piece == md.Piece && other.To == md.To && other.From != md.From {
			rivals = append(rivals, other.From)
		}
	}
	if len(rivals) == 0 {
		return ""
	}
	sameFile, sameRank := false, false
	for _, sq := range rivals {
		if sq.File() == md.From.File() {
			sameFile = true
		}
		if sq.Rank() == md.From.Rank() {
			sameRank = true
		}
	}
	switch {
	case !sameFile:
		return string(rune('a' + md.From.File()))
	case !sameRank:
		return string(rune('0' + md.From.Rank()))
	default:
		return md.From.String()
	}
}
