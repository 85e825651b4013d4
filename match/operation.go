package match

import (
	"fmt"

	"github.com/Nirajsah/microchess/rules"
)

// OpKind names an operation a player can submit.
type OpKind string

const (
	OpMakeMove      OpKind = "make_move"
	OpCapturePiece  OpKind = "capture_piece"
	OpPawnPromotion OpKind = "pawn_promotion"
	OpCastle        OpKind = "castle"
	OpEnPassant     OpKind = "en_passant"
	OpResign        OpKind = "resign"
)

// Operation is a player request as it arrives on the wire. Squares use
// algebraic names and pieces two-character codes ("wP", "bQ").
type Operation struct {
	Kind          OpKind `json:"kind"`
	From          string `json:"from,omitempty"`
	To            string `json:"to,omitempty"`
	Piece         string `json:"piece,omitempty"`
	CapturedPiece string `json:"captured_piece,omitempty"`
	PromotedPiece string `json:"promoted_piece,omitempty"`
	Side          string `json:"side,omitempty"`
}

// decode turns the request into a move for the side c on board b. A plain
// make_move onto an occupied square is read as a capture, a pawn stepping
// diagonally onto the en passant target as an en passant capture and a king
// jumping two files from its home square as a castle.
func (op Operation) decode(b *rules.Board, c rules.Color) (rules.MoveData, error) {
	if op.Kind == OpCastle {
		side, err := rules.ParseCastleSide(op.Side)
		if err != nil {
			return rules.MoveData{}, err
		}
		from, to, _, _ := rules.CastleRoute(c, side)
		return rules.MoveData{From: from, To: to, Piece: rules.NewPiece(c, rules.King), Type: rules.MoveCastle(side)}, nil
	}

	from, err := rules.ParseSquare(op.From)
	if err != nil {
		return rules.MoveData{}, err
	}
	to, err := rules.ParseSquare(op.To)
	if err != nil {
		return rules.MoveData{}, err
	}
	piece, err := rules.ParsePiece(op.Piece)
	if err != nil {
		return rules.MoveData{}, err
	}
	if piece.Color() != c {
		return rules.MoveData{}, fmt.Errorf("%w: %s belongs to the opponent", rules.ErrInvalidPiece, piece)
	}
	md := rules.MoveData{From: from, To: to, Piece: piece}

	switch op.Kind {
	case OpMakeMove:
		md = rules.NewMoveData(b, from, to, piece)
		switch {
		case piece.Kind() == rules.Pawn && from.File() != to.File() && b.EnPassant().Has(to):
			md.Type = rules.MoveEnPassant()
		case piece.Kind() == rules.King && from.File() == 4 && (to.File() == 6 || to.File() == 2) && from.Rank() == to.Rank():
			side := rules.KingSide
			if to.File() == 2 {
				side = rules.QueenSide
			}
			md.Type = rules.MoveCastle(side)
		}
	case OpCapturePiece:
		captured, err := rules.ParsePiece(op.CapturedPiece)
		if err != nil {
			return rules.MoveData{}, err
		}
		md.Type = rules.MoveCapture(captured)
	case OpPawnPromotion:
		promoted, err := rules.ParsePiece(op.PromotedPiece)
		if err != nil {
			return rules.MoveData{}, err
		}
		md.Type = rules.MovePromotion(promoted)
	case OpEnPassant:
		md.Type = rules.MoveEnPassant()
	default:
		return rules.MoveData{}, fmt.Errorf("%w: %q", ErrUnknownOp, op.Kind)
	}
	return md, nil
}
