package rules

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// GameState is the lifecycle of a game. Every state but InPlay is terminal.
type GameState uint8

const (
	InPlay GameState = iota
	Checkmate
	Stalemate
	Draw
	Resign
)

var gameStateNames = [...]string{
	InPlay:    "in_play",
	Checkmate: "checkmate",
	Stalemate: "stalemate",
	Draw:      "draw",
	Resign:    "resign",
}

func (s GameState) String() string {
	if int(s) < len(gameStateNames) {
		return gameStateNames[s]
	}
	return fmt.Sprintf("GameState(%d)", uint8(s))
}

func (s GameState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *GameState) UnmarshalText(text []byte) error {
	for i, name := range gameStateNames {
		if name == string(text) {
			*s = GameState(i)
			return nil
		}
	}
	return fmt.Errorf("%w: game state %q", ErrInvalidRequest, text)
}

// MoveRecord pairs the texts of one full move. Black is nil until Black
// has replied.
type MoveRecord struct {
	White *string `json:"white"`
	Black *string `json:"black"`
}

// Game tracks a position together with its history, counters and the
// repetition table.
type Game struct {
	board          Board
	active         Color
	moves          []MoveRecord
	capturedPieces []Piece
	state          GameState
	currentHash    uint64
	positionCount  map[uint64]uint32
	halfmoveClock  uint32
	fullmoveCount  uint32
}

// Option configures a new Game.
type Option func(*Game)

// WithTables makes the game evaluate moves with t instead of DefaultTables.
func WithTables(t *AttackTables) Option {
	return func(g *Game) { g.board.UseTables(t) }
}

// NewGame starts a game from the standard position with White to move.
func NewGame(opts ...Option) *Game {
	return newGame(NewBoard(), White, opts)
}

// NewGameFromFEN starts a game from a FEN position. Move counters in the
// FEN are not read; both start from zero.
func NewGameFromFEN(fen string, opts ...Option) (*Game, error) {
	b, active, err := ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	return newGame(b, active, opts), nil
}

func newGame(b Board, active Color, opts []Option) *Game {
	g := &Game{
		board:         b,
		active:        active,
		positionCount: make(map[uint64]uint32),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.currentHash = ComputeHash(&g.board, active)
	g.positionCount[g.currentHash] = 1
	return g
}

// ==========================
// Accessors
// ==========================

// Board returns a copy of the current position.
func (g *Game) Board() Board { return g.board }

func (g *Game) Active() Color { return g.active }

func (g *Game) State() GameState { return g.state }

func (g *Game) Hash() uint64 { return g.currentHash }

func (g *Game) HalfmoveClock() uint32 { return g.halfmoveClock }

// FullmoveCount is the number of moves White has made.
func (g *Game) FullmoveCount() uint32 { return g.fullmoveCount }

// Moves returns the paired move history.
func (g *Game) Moves() []MoveRecord { return slices.Clone(g.moves) }

// CapturedPieces lists captured pieces in capture order.
func (g *Game) CapturedPieces() []Piece { return slices.Clone(g.capturedPieces) }

// PositionCount returns how many times the position with hash h has been
// recorded.
func (g *Game) PositionCount(h uint64) uint32 { return g.positionCount[h] }

// FEN renders the position with the game's counters.
func (g *Game) FEN() string {
	full := g.fullmoveCount + 1
	if g.active == Black {
		full = g.fullmoveCount
	}
	return g.board.fen(g.active, g.halfmoveClock, full)
}

// Clone returns an independent copy of the game.
func (g *Game) Clone() *Game {
	cp := *g
	cp.moves = slices.Clone(g.moves)
	cp.capturedPieces = slices.Clone(g.capturedPieces)
	cp.positionCount = maps.Clone(g.positionCount)
	return &cp
}

// ==========================
// Moves
// ==========================

// MakeMove validates and applies one move for the side to move. On error
// the game is unchanged. It does not switch turns; see SwitchPlayerTurn.
func (g *Game) MakeMove(from, to Square, piece Piece, mt MoveType) error {
	switch g.state {
	case InPlay:
	case Checkmate:
		return ErrCheckmate
	case Stalemate:
		return ErrStalemate
	default:
		return ErrInvalidRequest
	}
	if !from.Valid() || !to.Valid() || !piece.Valid() {
		return ErrInvalidRequest
	}
	if piece.Color() != g.active {
		return ErrInvalidPiece
	}

	next := g.board
	captured, took, err := next.Apply(MoveData{From: from, To: to, Piece: piece, Type: mt})
	if err != nil {
		return err
	}

	g.currentHash ^= keys().delta(&g.board, &next)
	g.board = next
	if took {
		g.capturedPieces = append(g.capturedPieces, captured)
	}
	if took || piece.Kind() == Pawn {
		g.halfmoveClock = 0
	} else {
		g.halfmoveClock++
	}
	return nil
}

// SwitchPlayerTurn hands the move to the other side.
func (g *Game) SwitchPlayerTurn() {
	g.active = g.active.Opposite()
	if g.active == Black {
		g.fullmoveCount++
	}
	g.currentHash ^= keys().side
}

// CreateMoveString appends text to the history for color. A White move
// opens a new pair; a Black move fills the open pair or, if there is none,
// opens one of its own.
func (g *Game) CreateMoveString(c Color, text string) {
	s := text
	if c == White {
		g.moves = append(g.moves, MoveRecord{White: &s})
		return
	}
	if n := len(g.moves); n > 0 && g.moves[n-1].Black == nil {
		g.moves[n-1].Black = &s
		return
	}
	g.moves = append(g.moves, MoveRecord{Black: &s})
}

// CheckThreefoldRepetition records one more occurrence of the current
// position. It reports true exactly when the count reaches three.
func (g *Game) CheckThreefoldRepetition() bool {
	g.positionCount[g.currentHash]++
	return g.positionCount[g.currentHash] == 3
}

// Check50MoveRule reports whether fifty moves per side have passed without
// a pawn move or a capture.
func (g *Game) Check50MoveRule() bool { return g.halfmoveClock >= 100 }

// IsCheckmate reports whether the side to move is mated. When that side is
// not in check but has no legal move the game becomes a stalemate and the
// result is false. Neither the board nor the hash is touched.
func (g *Game) IsCheckmate() bool {
	c := g.active
	if !g.board.InCheck(c) {
		if g.state == InPlay && !hasLegalMove(&g.board, c) {
			g.state = Stalemate
		}
		return false
	}
	if hasLegalMove(&g.board, c) {
		return false
	}
	if g.state == InPlay {
		g.state = Checkmate
	}
	return true
}

// LegalMoves lists every legal move of the side to move.
func (g *Game) LegalMoves() []MoveData { return LegalMoves(&g.board, g.active) }

// Resign ends an ongoing game by resignation.
func (g *Game) Resign() error {
	if g.state != InPlay {
		return ErrInvalidRequest
	}
	g.state = Resign
	return nil
}

// DeclareDraw ends an ongoing game as drawn.
func (g *Game) DeclareDraw() error {
	if g.state != InPlay {
		return ErrInvalidRequest
	}
	g.state = Draw
	return nil
}
