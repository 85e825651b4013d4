package rules

// ChessError is the closed set of failures the rules engine reports. Values
// are comparable so callers can match them with errors.Is.
type ChessError uint8

const (
	ErrPieceNotFound ChessError = iota + 1
	ErrInvalidPiece
	ErrInvalidMove
	ErrInvalidCapture
	ErrInvalidPromotion
	ErrInvalidCastle
	ErrInvalidEnPassant
	ErrInvalidRequest
	ErrCastleRights
	ErrKingInCheck
	ErrCheckmate
	ErrStalemate
)

var chessErrorText = [...]string{
	ErrPieceNotFound:    "piece not found",
	ErrInvalidPiece:     "invalid piece",
	ErrInvalidMove:      "invalid move",
	ErrInvalidCapture:   "invalid capture",
	ErrInvalidPromotion: "invalid promotion",
	ErrInvalidCastle:    "invalid castle",
	ErrInvalidEnPassant: "invalid en passant",
	ErrInvalidRequest:   "invalid request",
	ErrCastleRights:     "castle rights not available",
	ErrKingInCheck:      "king in check",
	ErrCheckmate:        "checkmate",
	ErrStalemate:        "stalemate",
}

func (e ChessError) Error() string {
	if int(e) < len(chessErrorText) && chessErrorText[e] != "" {
		return chessErrorText[e]
	}
	return "unknown chess error"
}
