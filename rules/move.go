package rules

import "fmt"

// MoveKind tags the variant held by a MoveType.
type MoveKind uint8

const (
	KindMove MoveKind = iota
	KindCapture
	KindCastle
	KindEnPassant
	KindPromotion
)

func (k MoveKind) String() string {
	switch k {
	case KindMove:
		return "move"
	case KindCapture:
		return "capture"
	case KindCastle:
		return "castle"
	case KindEnPassant:
		return "en_passant"
	case KindPromotion:
		return "promotion"
	}
	return fmt.Sprintf("MoveKind(%d)", uint8(k))
}

// MoveType is a closed variant. Build it with MoveQuiet, MoveCapture,
// MoveCastle, MoveEnPassant or MovePromotion; Piece is the captured piece
// for KindCapture and the new piece for KindPromotion, Side is only read for
// KindCastle.
type MoveType struct {
	Kind  MoveKind
	Piece Piece
	Side  CastleSide
}

func MoveQuiet() MoveType                { return MoveType{Kind: KindMove} }
func MoveCapture(captured Piece) MoveType { return MoveType{Kind: KindCapture, Piece: captured} }
func MoveCastle(side CastleSide) MoveType { return MoveType{Kind: KindCastle, Side: side} }
func MoveEnPassant() MoveType            { return MoveType{Kind: KindEnPassant} }
func MovePromotion(to Piece) MoveType    { return MoveType{Kind: KindPromotion, Piece: to} }

func (mt MoveType) String() string {
	switch mt.Kind {
	case KindCapture:
		return "capture(" + mt.Piece.String() + ")"
	case KindCastle:
		return "castle(" + mt.Side.String() + ")"
	case KindPromotion:
		return "promotion(" + mt.Piece.String() + ")"
	}
	return mt.Kind.String()
}

// MoveData is a fully described move request.
type MoveData struct {
	From  Square
	To    Square
	Piece Piece
	Type  MoveType
}

// NewMoveData classifies a plain from/to request on b: an occupied target
// becomes a capture of the piece standing there.
func NewMoveData(b *Board, from, to Square, piece Piece) MoveData {
	md := MoveData{From: from, To: to, Piece: piece, Type: MoveQuiet()}
	if captured, ok := b.PieceAt(to); ok {
		md.Type = MoveCapture(captured)
	}
	return md
}

// String renders the move in long algebraic form, e.g. "e2e4" or "e7e8q".
func (md MoveData) String() string {
	s := md.From.String() + md.To.String()
	if md.Type.Kind == KindPromotion {
		s += string(md.Type.Piece.Kind().Letter() + 'a' - 'A')
	}
	return s
}
