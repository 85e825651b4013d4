package rules

import "fmt"

// Color identifies a side.
type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Opposite returns the other side.
func (c Color) Opposite() Color { return c ^ 1 }

// Index returns 0 for White and 1 for Black.
func (c Color) Index() int { return int(c & 1) }

func (c Color) String() string {
	if c == Black {
		return "black"
	}
	return "white"
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Color) UnmarshalText(text []byte) error {
	switch string(text) {
	case "white", "w":
		*c = White
	case "black", "b":
		*c = Black
	default:
		return fmt.Errorf("%w: color %q", ErrInvalidRequest, text)
	}
	return nil
}

// PieceKind is a colorless piece type.
type PieceKind uint8

const (
	Pawn PieceKind = iota
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindLetters = [6]byte{'P', 'N', 'B', 'R', 'Q', 'K'}

// Letter returns the upper-case algebraic letter of the kind.
func (k PieceKind) Letter() byte { return kindLetters[k%6] }

// Piece is one of the twelve (color, kind) combinations. White pieces come
// first, so Index() doubles as the bitboard slot on the board.
type Piece uint8

const (
	WhitePawn Piece = iota
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
)

const pieceCount = 12

// NewPiece combines a side and a kind.
func NewPiece(c Color, k PieceKind) Piece { return Piece(c.Index()*6 + int(k)) }

func (p Piece) Color() Color {
	if p >= BlackPawn {
		return Black
	}
	return White
}

func (p Piece) Kind() PieceKind { return PieceKind(p % 6) }

func (p Piece) Index() int { return int(p) }

// Opposite returns the same kind for the other side.
func (p Piece) Opposite() Piece { return NewPiece(p.Color().Opposite(), p.Kind()) }

// Valid reports whether p names one of the twelve pieces.
func (p Piece) Valid() bool { return p < pieceCount }

// FENChar returns the FEN letter: upper case for White, lower case for Black.
func (p Piece) FENChar() byte {
	ch := p.Kind().Letter()
	if p.Color() == Black {
		ch += 'a' - 'A'
	}
	return ch
}

// String returns the two-character code used by the operation surface, e.g. "wP".
func (p Piece) String() string {
	if !p.Valid() {
		return "??"
	}
	side := byte('w')
	if p.Color() == Black {
		side = 'b'
	}
	return string([]byte{side, p.Kind().Letter()})
}

func (p Piece) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, ErrInvalidPiece
	}
	return []byte(p.String()), nil
}

func (p *Piece) UnmarshalText(text []byte) error {
	v, err := ParsePiece(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePiece decodes a two-character piece code such as "wP" or "bK".
func ParsePiece(s string) (Piece, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPiece, s)
	}
	var c Color
	switch s[0] {
	case 'w':
		c = White
	case 'b':
		c = Black
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPiece, s)
	}
	k, ok := kindFromLetter(s[1])
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPiece, s)
	}
	return NewPiece(c, k), nil
}

func kindFromLetter(ch byte) (PieceKind, bool) {
	if ch >= 'a' && ch <= 'z' {
		ch -= 'a' - 'A'
	}
	for k, l := range kindLetters {
		if l == ch {
			return PieceKind(k), true
		}
	}
	return 0, false
}

// pieceFromFEN maps a FEN placement letter to a piece.
func pieceFromFEN(ch byte) (Piece, bool) {
	k, ok := kindFromLetter(ch)
	if !ok {
		return 0, false
	}
	if ch >= 'a' && ch <= 'z' {
		return NewPiece(Black, k), true
	}
	return NewPiece(White, k), true
}

// Square indexes the board: a1 = 0, b1 = 1, ..., h8 = 63.
type Square uint8

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

// NewSquare builds a square from a 0-based file and a 0-based rank.
func NewSquare(file, rank int) Square { return Square(rank*8 + file) }

// Rank returns the 1-based rank (1..8).
func (s Square) Rank() int { return int(s)/8 + 1 }

// File returns the 0-based file (0 = a).
func (s Square) File() int { return int(s) % 8 }

func (s Square) Valid() bool { return s < 64 }

// Bitboard returns the single-bit set for s.
func (s Square) Bitboard() Bitboard { return Bitboard(1) << s }

func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return string([]byte{byte('a' + s.File()), byte('0' + s.Rank())})
}

func (s Square) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Square) UnmarshalText(text []byte) error {
	v, err := ParseSquare(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSquare decodes an algebraic square name such as "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return 0, fmt.Errorf("%w: square %q", ErrInvalidRequest, s)
	}
	return NewSquare(int(s[0]-'a'), int(s[1]-'1')), nil
}

// CastleSide selects the king-side (short) or queen-side (long) castle.
type CastleSide uint8

const (
	KingSide CastleSide = iota
	QueenSide
)

func (cs CastleSide) String() string {
	if cs == QueenSide {
		return "queen_side"
	}
	return "king_side"
}

// ParseCastleSide accepts the names used by the operation surface.
func ParseCastleSide(s string) (CastleSide, error) {
	switch s {
	case "king_side", "KingSide", "king", "O-O", "short":
		return KingSide, nil
	case "queen_side", "QueenSide", "queen", "O-O-O", "long":
		return QueenSide, nil
	}
	return 0, fmt.Errorf("%w: castle side %q", ErrInvalidRequest, s)
}
