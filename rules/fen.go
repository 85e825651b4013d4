package rules

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN reads the placement, side to move, castling and en passant
// fields of a FEN string. Move counters, when present, are ignored. A side
// keeps its castling right when either of its letters is present.
func ParseFEN(fen string) (Board, Color, error) {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return Board{}, White, errors.New("invalid FEN: empty")
	}

	var b Board
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return Board{}, White, fmt.Errorf("invalid FEN: %d ranks", len(ranks))
	}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(row); j++ {
			ch := row[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			p, ok := pieceFromFEN(ch)
			if !ok {
				return Board{}, White, fmt.Errorf("invalid FEN: piece %q", ch)
			}
			if file > 7 {
				return Board{}, White, fmt.Errorf("invalid FEN: rank %d too long", rank+1)
			}
			b.set(NewSquare(file, rank), p)
			file++
		}
		if file != 8 {
			return Board{}, White, fmt.Errorf("invalid FEN: rank %d has %d files", rank+1, file)
		}
	}

	active := White
	if len(fields) > 1 {
		switch fields[1] {
		case "w":
		case "b":
			active = Black
		default:
			return Board{}, White, fmt.Errorf("invalid FEN: side %q", fields[1])
		}
	}

	if len(fields) > 2 && fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K', 'Q':
				b.castlingRights[White] = true
			case 'k', 'q':
				b.castlingRights[Black] = true
			default:
				return Board{}, White, fmt.Errorf("invalid FEN: castling %q", fields[2])
			}
		}
	}

	if len(fields) > 3 && fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return Board{}, White, fmt.Errorf("invalid FEN: en passant %q", fields[3])
		}
		b.enPassant = sq.Bitboard()
	}

	if err := b.Validate(); err != nil {
		return Board{}, White, fmt.Errorf("invalid FEN: %w", err)
	}
	return b, active, nil
}

// ToFEN writes the position with active to move and zero counters.
func (b *Board) ToFEN(active Color) string {
	return b.fen(active, 0, 1)
}

func (b *Board) fen(active Color, halfmove, fullmove uint32) string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p, ok := b.PieceAt(NewSquare(file, rank))
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(p.FENChar())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	if active == Black {
		sb.WriteString(" b ")
	} else {
		sb.WriteString(" w ")
	}

	castling := b.castlingField()
	if castling == "" {
		castling = "-"
	}
	sb.WriteString(castling)

	if b.enPassant != 0 {
		sb.WriteByte(' ')
		sb.WriteString(b.enPassant.LSB().String())
	} else {
		sb.WriteString(" -")
	}

	sb.WriteByte(' ')
	sb.WriteString(strconv.FormatUint(uint64(halfmove), 10))
	sb.WriteByte(' ')
	sb.WriteString(strconv.FormatUint(uint64(fullmove), 10))
	return sb.String()
}

// castlingField lists the castles still reachable: a side's right plus its
// king and the matching rook on their home squares.
func (b *Board) castlingField() string {
	var out []byte
	for _, c := range [2]Color{White, Black} {
		if !b.castlingRights[c] {
			continue
		}
		for _, side := range [2]CastleSide{KingSide, QueenSide} {
			r := castleRoutes[c][side]
			if !b.pieces[NewPiece(c, King)].Has(r.kingFrom) || !b.pieces[NewPiece(c, Rook)].Has(r.rookFrom) {
				continue
			}
			ch := byte('K')
			if side == QueenSide {
				ch = 'Q'
			}
			if c == Black {
				ch += 'a' - 'A'
			}
			out = append(out, ch)
		}
	}
	return string(out)
}
