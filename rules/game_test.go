package rules_test

import (
	"errors"
	"testing"

	"github.com/Nirajsah/microchess/rules"
)

// play makes a move that must succeed and hands the turn over.
func play(t *testing.T, g *rules.Game, from, to rules.Square, p rules.Piece, mt rules.MoveType) {
	t.Helper()
	if err := g.MakeMove(from, to, p, mt); err != nil {
		t.Fatalf("%s %s-%s (%s): %v", p, from, to, mt, err)
	}
	g.SwitchPlayerTurn()
}

func quiet(t *testing.T, g *rules.Game, from, to rules.Square, p rules.Piece) {
	t.Helper()
	play(t, g, from, to, p, rules.MoveQuiet())
}

func gameFromFEN(t *testing.T, fen string) *rules.Game {
	t.Helper()
	g, err := rules.NewGameFromFEN(fen)
	if err != nil {
		t.Fatalf("NewGameFromFEN(%q): %v", fen, err)
	}
	return g
}

// boardOf returns an addressable copy of the game's position.
func boardOf(g *rules.Game) *rules.Board {
	b := g.Board()
	return &b
}

type snapshot struct {
	fen      string
	hash     uint64
	captured int
	moves    int
	state    rules.GameState
}

func snap(g *rules.Game) snapshot {
	return snapshot{g.FEN(), g.Hash(), len(g.CapturedPieces()), len(g.Moves()), g.State()}
}

func TestDoublePushSetsEnPassantAndSwitchesTurn(t *testing.T) {
	g := rules.NewGame()
	quiet(t, g, rules.E2, rules.E4, rules.WhitePawn)

	b := g.Board()
	if b.EnPassant() != rules.E3.Bitboard() {
		t.Fatalf("en passant = %v, want e3", b.EnPassant().Squares())
	}
	if g.Active() != rules.Black {
		t.Fatalf("active = %s, want black", g.Active())
	}
	if p, ok := b.PieceAt(rules.E4); !ok || p != rules.WhitePawn {
		t.Fatalf("e4 holds %v %v", p, ok)
	}
	if g.FullmoveCount() != 1 || g.HalfmoveClock() != 0 {
		t.Fatalf("counters full=%d half=%d", g.FullmoveCount(), g.HalfmoveClock())
	}
	want := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	if got := g.FEN(); got != want {
		t.Fatalf("FEN = %q, want %q", got, want)
	}
}

func TestIllegalKnightMoveLeavesGameUntouched(t *testing.T) {
	g := rules.NewGame()
	before := snap(g)
	err := g.MakeMove(rules.G1, rules.G5, rules.WhiteKnight, rules.MoveQuiet())
	if !errors.Is(err, rules.ErrInvalidMove) {
		t.Fatalf("g1-g5 error = %v, want ErrInvalidMove", err)
	}
	if snap(g) != before || g.Active() != rules.White {
		t.Fatalf("failed move mutated the game")
	}
}

func TestRejectedRequests(t *testing.T) {
	g := rules.NewGame()
	before := snap(g)
	cases := []struct {
		name string
		from rules.Square
		to   rules.Square
		p    rules.Piece
		mt   rules.MoveType
		want error
	}{
		{"opponent piece", rules.E7, rules.E5, rules.BlackPawn, rules.MoveQuiet(), rules.ErrInvalidPiece},
		{"empty origin", rules.E4, rules.E5, rules.WhitePawn, rules.MoveQuiet(), rules.ErrPieceNotFound},
		{"king not there", rules.E2, rules.E3, rules.WhiteKing, rules.MoveQuiet(), rules.ErrPieceNotFound},
		{"onto own piece", rules.B1, rules.D2, rules.WhiteKnight, rules.MoveQuiet(), rules.ErrInvalidMove},
		{"capture own", rules.B1, rules.D2, rules.WhiteKnight, rules.MoveCapture(rules.WhitePawn), rules.ErrInvalidCapture},
		{"capture empty", rules.G1, rules.F3, rules.WhiteKnight, rules.MoveCapture(rules.BlackPawn), rules.ErrInvalidCapture},
		{"bishop through pawn", rules.C1, rules.G5, rules.WhiteBishop, rules.MoveQuiet(), rules.ErrInvalidMove},
		{"out of range", rules.Square(64), rules.E4, rules.WhitePawn, rules.MoveQuiet(), rules.ErrInvalidRequest},
		{"bad piece", rules.E2, rules.E4, rules.Piece(12), rules.MoveQuiet(), rules.ErrInvalidRequest},
		{"castle blocked", rules.E1, rules.G1, rules.WhiteKing, rules.MoveCastle(rules.KingSide), rules.ErrInvalidCastle},
		{"castle with queen", rules.D1, rules.G1, rules.WhiteQueen, rules.MoveCastle(rules.KingSide), rules.ErrInvalidPiece},
		{"no en passant", rules.E2, rules.D3, rules.WhitePawn, rules.MoveEnPassant(), rules.ErrInvalidEnPassant},
		{"promote knight", rules.B1, rules.C3, rules.WhiteKnight, rules.MovePromotion(rules.WhiteQueen), rules.ErrInvalidPromotion},
	}
	for _, tc := range cases {
		if err := g.MakeMove(tc.from, tc.to, tc.p, tc.mt); !errors.Is(err, tc.want) {
			t.Fatalf("%s: error = %v, want %v", tc.name, err, tc.want)
		}
		if snap(g) != before {
			t.Fatalf("%s: rejected move mutated the game", tc.name)
		}
	}
}

func TestCaptureDeclaredPieceMustMatch(t *testing.T) {
	g := rules.NewGame()
	quiet(t, g, rules.E2, rules.E4, rules.WhitePawn)
	quiet(t, g, rules.D7, rules.D5, rules.BlackPawn)

	err := g.MakeMove(rules.E4, rules.D5, rules.WhitePawn, rules.MoveCapture(rules.BlackKnight))
	if !errors.Is(err, rules.ErrInvalidPiece) {
		t.Fatalf("wrong declared piece error = %v", err)
	}
	err = g.MakeMove(rules.E4, rules.E5, rules.WhitePawn, rules.MoveCapture(rules.BlackPawn))
	if !errors.Is(err, rules.ErrInvalidCapture) {
		t.Fatalf("capture on empty square error = %v", err)
	}
	play(t, g, rules.E4, rules.D5, rules.WhitePawn, rules.MoveCapture(rules.BlackPawn))
	if got := g.CapturedPieces(); len(got) != 1 || got[0] != rules.BlackPawn {
		t.Fatalf("captured = %v", got)
	}
	if g.HalfmoveClock() != 0 {
		t.Fatalf("capture should reset the halfmove clock")
	}
}

func TestPinnedPieceCannotMove(t *testing.T) {
	g := gameFromFEN(t, "4k3/4r3/8/8/8/8/4N3/4K3 w - - 0 1")
	before := snap(g)
	err := g.MakeMove(rules.E2, rules.C3, rules.WhiteKnight, rules.MoveQuiet())
	if !errors.Is(err, rules.ErrKingInCheck) {
		t.Fatalf("pinned knight error = %v, want ErrKingInCheck", err)
	}
	if snap(g) != before {
		t.Fatalf("rolled back move left traces")
	}
}

func TestCastling(t *testing.T) {
	t.Run("kingside", func(t *testing.T) {
		g := gameFromFEN(t, "4k3/8/8/8/8/8/8/4K2R w K - 0 1")
		play(t, g, rules.E1, rules.G1, rules.WhiteKing, rules.MoveCastle(rules.KingSide))
		b := g.Board()
		if p, _ := b.PieceAt(rules.G1); p != rules.WhiteKing {
			t.Fatalf("king not on g1")
		}
		if p, _ := b.PieceAt(rules.F1); p != rules.WhiteRook {
			t.Fatalf("rook not on f1")
		}
		if b.CastlingRights(rules.White) {
			t.Fatalf("castling right survived castling")
		}
		if g.HalfmoveClock() != 1 {
			t.Fatalf("castle should count toward the halfmove clock")
		}
	})

	t.Run("through attacked square", func(t *testing.T) {
		g := gameFromFEN(t, "4kr2/8/8/8/8/8/8/4K2R w K - 0 1")
		err := g.MakeMove(rules.E1, rules.G1, rules.WhiteKing, rules.MoveCastle(rules.KingSide))
		if !errors.Is(err, rules.ErrInvalidCastle) {
			t.Fatalf("error = %v, want ErrInvalidCastle", err)
		}
		if !boardOf(g).CastlingRights(rules.White) {
			t.Fatalf("failed castle cleared the right")
		}
	})

	t.Run("out of check", func(t *testing.T) {
		g := gameFromFEN(t, "4r1k1/8/8/8/8/8/8/4K2R w K - 0 1")
		err := g.MakeMove(rules.E1, rules.G1, rules.WhiteKing, rules.MoveCastle(rules.KingSide))
		if !errors.Is(err, rules.ErrInvalidCastle) {
			t.Fatalf("error = %v, want ErrInvalidCastle", err)
		}
	})

	t.Run("queenside with b1 attacked", func(t *testing.T) {
		g := gameFromFEN(t, "1r2k3/8/8/8/8/8/8/R3K3 w Q - 0 1")
		play(t, g, rules.E1, rules.C1, rules.WhiteKing, rules.MoveCastle(rules.QueenSide))
		b := g.Board()
		if p, _ := b.PieceAt(rules.C1); p != rules.WhiteKing {
			t.Fatalf("king not on c1")
		}
		if p, _ := b.PieceAt(rules.D1); p != rules.WhiteRook {
			t.Fatalf("rook not on d1")
		}
	})

	t.Run("without right", func(t *testing.T) {
		g := gameFromFEN(t, "4k3/8/8/8/8/8/8/4K2R w - - 0 1")
		err := g.MakeMove(rules.E1, rules.G1, rules.WhiteKing, rules.MoveCastle(rules.KingSide))
		if !errors.Is(err, rules.ErrCastleRights) {
			t.Fatalf("error = %v, want ErrCastleRights", err)
		}
	})

	t.Run("black kingside", func(t *testing.T) {
		g := gameFromFEN(t, "r3k2r/8/8/8/8/8/8/4K3 b kq - 0 1")
		play(t, g, rules.E8, rules.G8, rules.BlackKing, rules.MoveCastle(rules.KingSide))
		b := g.Board()
		if p, _ := b.PieceAt(rules.F8); p != rules.BlackRook {
			t.Fatalf("rook not on f8")
		}
	})
}

func TestCastlingRightsNeverReturn(t *testing.T) {
	g := gameFromFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	quiet(t, g, rules.E1, rules.F1, rules.WhiteKing)
	quiet(t, g, rules.H8, rules.H7, rules.BlackRook)
	quiet(t, g, rules.F1, rules.E1, rules.WhiteKing)
	quiet(t, g, rules.H7, rules.H8, rules.BlackRook)
	b := g.Board()
	if b.CastlingRights(rules.White) || b.CastlingRights(rules.Black) {
		t.Fatalf("rights restored after pieces returned home")
	}
	err := g.MakeMove(rules.E1, rules.G1, rules.WhiteKing, rules.MoveCastle(rules.KingSide))
	if !errors.Is(err, rules.ErrCastleRights) {
		t.Fatalf("error = %v, want ErrCastleRights", err)
	}
}

func TestRookCapturedAtHomeRevokesRight(t *testing.T) {
	g := gameFromFEN(t, "r3k2r/8/8/8/8/8/6B1/4K3 w kq - 0 1")
	play(t, g, rules.G2, rules.A8, rules.WhiteBishop, rules.MoveCapture(rules.BlackRook))
	if boardOf(g).CastlingRights(rules.Black) {
		t.Fatalf("capturing the a8 rook should revoke black's right")
	}
}

func TestEnPassant(t *testing.T) {
	const fen = "4k3/8/8/8/3p4/8/4P3/4K3 w - - 0 1"

	t.Run("immediate", func(t *testing.T) {
		g := gameFromFEN(t, fen)
		quiet(t, g, rules.E2, rules.E4, rules.WhitePawn)
		play(t, g, rules.D4, rules.E3, rules.BlackPawn, rules.MoveEnPassant())
		b := g.Board()
		if _, ok := b.PieceAt(rules.E4); ok {
			t.Fatalf("captured pawn still on e4")
		}
		if p, _ := b.PieceAt(rules.E3); p != rules.BlackPawn {
			t.Fatalf("capturing pawn not on e3")
		}
		if got := g.CapturedPieces(); len(got) != 1 || got[0] != rules.WhitePawn {
			t.Fatalf("captured = %v", got)
		}
		if b.EnPassant() != 0 {
			t.Fatalf("en passant target survived the capture")
		}
	})

	t.Run("expires after one ply", func(t *testing.T) {
		g := gameFromFEN(t, fen)
		quiet(t, g, rules.E2, rules.E4, rules.WhitePawn)
		quiet(t, g, rules.E8, rules.D8, rules.BlackKing)
		if boardOf(g).EnPassant() != 0 {
			t.Fatalf("en passant target still set after an unrelated move")
		}
		quiet(t, g, rules.E1, rules.F1, rules.WhiteKing)
		err := g.MakeMove(rules.D4, rules.E3, rules.BlackPawn, rules.MoveEnPassant())
		if !errors.Is(err, rules.ErrInvalidEnPassant) {
			t.Fatalf("stale en passant error = %v, want ErrInvalidEnPassant", err)
		}
	})

	t.Run("horizontal pin", func(t *testing.T) {
		g := gameFromFEN(t, "8/8/8/8/k2p3R/8/4P3/4K3 w - - 0 1")
		quiet(t, g, rules.E2, rules.E4, rules.WhitePawn)
		err := g.MakeMove(rules.D4, rules.E3, rules.BlackPawn, rules.MoveEnPassant())
		if !errors.Is(err, rules.ErrKingInCheck) {
			t.Fatalf("en passant exposing the king: error = %v", err)
		}
	})
}

func TestPromotion(t *testing.T) {
	const fen = "1n2k3/P7/8/8/8/8/8/4K3 w - - 0 1"

	g := gameFromFEN(t, fen)
	bad := []struct {
		to   rules.Square
		mt   rules.MoveType
		want error
	}{
		{rules.A8, rules.MoveQuiet(), rules.ErrInvalidPromotion},
		{rules.A8, rules.MovePromotion(rules.WhiteKing), rules.ErrInvalidPromotion},
		{rules.A8, rules.MovePromotion(rules.WhitePawn), rules.ErrInvalidPromotion},
		{rules.A8, rules.MovePromotion(rules.BlackQueen), rules.ErrInvalidPromotion},
		{rules.B8, rules.MoveCapture(rules.BlackKnight), rules.ErrInvalidPromotion},
	}
	for _, tc := range bad {
		if err := g.MakeMove(rules.A7, tc.to, rules.WhitePawn, tc.mt); !errors.Is(err, tc.want) {
			t.Fatalf("a7-%s %s: error = %v, want %v", tc.to, tc.mt, err, tc.want)
		}
	}

	play(t, g, rules.A7, rules.A8, rules.WhitePawn, rules.MovePromotion(rules.WhiteQueen))
	b := g.Board()
	if p, _ := b.PieceAt(rules.A8); p != rules.WhiteQueen {
		t.Fatalf("a8 should hold a white queen")
	}
	if b.Bitboard(rules.WhitePawn) != 0 {
		t.Fatalf("pawn not removed")
	}

	g = gameFromFEN(t, fen)
	play(t, g, rules.A7, rules.B8, rules.WhitePawn, rules.MovePromotion(rules.WhiteKnight))
	b = g.Board()
	if p, _ := b.PieceAt(rules.B8); p != rules.WhiteKnight {
		t.Fatalf("b8 should hold a white knight")
	}
	if got := g.CapturedPieces(); len(got) != 1 || got[0] != rules.BlackKnight {
		t.Fatalf("captured = %v", got)
	}
	if g.HalfmoveClock() != 0 {
		t.Fatalf("promotion should reset the halfmove clock")
	}
}

func TestFoolsMate(t *testing.T) {
	g := rules.NewGame()
	quiet(t, g, rules.F2, rules.F3, rules.WhitePawn)
	quiet(t, g, rules.E7, rules.E5, rules.BlackPawn)
	quiet(t, g, rules.G2, rules.G4, rules.WhitePawn)
	quiet(t, g, rules.D8, rules.H4, rules.BlackQueen)

	if !boardOf(g).InCheck(rules.White) {
		t.Fatalf("expected white in check")
	}
	hash, fen := g.Hash(), g.FEN()
	if !g.IsCheckmate() {
		t.Fatalf("expected checkmate")
	}
	if !g.IsCheckmate() {
		t.Fatalf("second IsCheckmate call disagreed")
	}
	if g.State() != rules.Checkmate {
		t.Fatalf("state = %s", g.State())
	}
	if g.Hash() != hash || g.FEN() != fen {
		t.Fatalf("IsCheckmate mutated the position")
	}
	err := g.MakeMove(rules.E1, rules.F2, rules.WhiteKing, rules.MoveQuiet())
	if !errors.Is(err, rules.ErrCheckmate) {
		t.Fatalf("move after mate: error = %v", err)
	}
}

func TestCheckWithEscapeIsNotMate(t *testing.T) {
	g := gameFromFEN(t, "4k3/8/8/8/8/8/3q4/4K3 w - - 0 1")
	if g.IsCheckmate() {
		t.Fatalf("king can capture the queen")
	}
	if g.State() != rules.InPlay {
		t.Fatalf("state = %s", g.State())
	}
}

func TestStalemate(t *testing.T) {
	g := gameFromFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if g.IsCheckmate() {
		t.Fatalf("stalemate reported as checkmate")
	}
	if g.State() != rules.Stalemate {
		t.Fatalf("state = %s, want stalemate", g.State())
	}
	if g.IsCheckmate() || g.State() != rules.Stalemate {
		t.Fatalf("second probe changed the verdict")
	}
	err := g.MakeMove(rules.H8, rules.G8, rules.BlackKing, rules.MoveQuiet())
	if !errors.Is(err, rules.ErrStalemate) {
		t.Fatalf("move after stalemate: error = %v", err)
	}
}

func TestThreefoldRepetition(t *testing.T) {
	g := rules.NewGame()
	start := g.Hash()
	cycle := []struct {
		from, to rules.Square
		p        rules.Piece
	}{
		{rules.G1, rules.F3, rules.WhiteKnight},
		{rules.G8, rules.F6, rules.BlackKnight},
		{rules.F3, rules.G1, rules.WhiteKnight},
		{rules.F6, rules.G8, rules.BlackKnight},
	}
	var hits []int
	ply := 0
	for round := 0; round < 3; round++ {
		for _, m := range cycle {
			quiet(t, g, m.from, m.to, m.p)
			ply++
			if g.CheckThreefoldRepetition() {
				hits = append(hits, ply)
			}
		}
	}
	if g.Hash() != start {
		t.Fatalf("knight shuffle did not restore the starting hash")
	}
	// the start position hits three at ply 8; the positions after each knight
	// move hit three during the last round. The fourth occurrence at ply 12 is
	// not reported again.
	want := []int{8, 9, 10, 11}
	if len(hits) != len(want) {
		t.Fatalf("threefold reported at plies %v, want %v", hits, want)
	}
	for i := range want {
		if hits[i] != want[i] {
			t.Fatalf("threefold reported at plies %v, want %v", hits, want)
		}
	}
	if got := g.PositionCount(start); got != 4 {
		t.Fatalf("start position counted %d times, want 4", got)
	}
}

func TestFiftyMoveRule(t *testing.T) {
	g := gameFromFEN(t, "4k3/8/8/8/8/8/7P/R3K3 w - - 0 1")
	for i := 0; i < 25; i++ {
		quiet(t, g, rules.A1, rules.A2, rules.WhiteRook)
		quiet(t, g, rules.E8, rules.D8, rules.BlackKing)
		quiet(t, g, rules.A2, rules.A1, rules.WhiteRook)
		if i == 24 {
			if g.Check50MoveRule() {
				t.Fatalf("fifty-move rule fired at halfmove %d", g.HalfmoveClock())
			}
		}
		quiet(t, g, rules.D8, rules.E8, rules.BlackKing)
	}
	if g.HalfmoveClock() != 100 || !g.Check50MoveRule() {
		t.Fatalf("halfmove clock %d, rule %v", g.HalfmoveClock(), g.Check50MoveRule())
	}
	quiet(t, g, rules.H2, rules.H3, rules.WhitePawn)
	if g.HalfmoveClock() != 0 || g.Check50MoveRule() {
		t.Fatalf("pawn move did not reset the clock")
	}
}

func TestHashTranspositions(t *testing.T) {
	a := rules.NewGame()
	quiet(t, a, rules.G1, rules.F3, rules.WhiteKnight)
	quiet(t, a, rules.G8, rules.F6, rules.BlackKnight)
	quiet(t, a, rules.B1, rules.C3, rules.WhiteKnight)
	quiet(t, a, rules.B8, rules.C6, rules.BlackKnight)

	b := rules.NewGame()
	quiet(t, b, rules.B1, rules.C3, rules.WhiteKnight)
	quiet(t, b, rules.B8, rules.C6, rules.BlackKnight)
	quiet(t, b, rules.G1, rules.F3, rules.WhiteKnight)
	quiet(t, b, rules.G8, rules.F6, rules.BlackKnight)

	if a.Hash() != b.Hash() {
		t.Fatalf("transposed move orders hash differently")
	}
	board := a.Board()
	if a.Hash() != rules.ComputeHash(&board, a.Active()) {
		t.Fatalf("incremental hash drifted from full computation")
	}

	// same placement, different side to move
	c := gameFromFEN(t, a.FEN())
	d := gameFromFEN(t, "r1bqkb1r/pppppppp/2n2n2/8/8/2N2N2/PPPPPPPP/R1BQKB1R b KQkq - 4 3")
	if c.Hash() == d.Hash() {
		t.Fatalf("side to move not part of the hash")
	}
	if c.Hash() != a.Hash() {
		t.Fatalf("game from FEN hashes differently than the played game")
	}
}

func TestMoveStringPairing(t *testing.T) {
	g := rules.NewGame()
	g.CreateMoveString(rules.White, "e4")
	g.CreateMoveString(rules.Black, "e5")
	g.CreateMoveString(rules.White, "Nf3")
	moves := g.Moves()
	if len(moves) != 2 {
		t.Fatalf("got %d records", len(moves))
	}
	if *moves[0].White != "e4" || *moves[0].Black != "e5" {
		t.Fatalf("first pair = %v/%v", *moves[0].White, *moves[0].Black)
	}
	if *moves[1].White != "Nf3" || moves[1].Black != nil {
		t.Fatalf("second pair wrong")
	}

	h := rules.NewGame()
	h.CreateMoveString(rules.Black, "e5")
	if moves := h.Moves(); len(moves) != 1 || moves[0].White != nil || *moves[0].Black != "e5" {
		t.Fatalf("black-first record wrong")
	}
}

func TestResignAndDraw(t *testing.T) {
	g := rules.NewGame()
	if err := g.Resign(); err != nil {
		t.Fatalf("Resign: %v", err)
	}
	if g.State() != rules.Resign {
		t.Fatalf("state = %s", g.State())
	}
	if err := g.MakeMove(rules.E2, rules.E4, rules.WhitePawn, rules.MoveQuiet()); !errors.Is(err, rules.ErrInvalidRequest) {
		t.Fatalf("move after resign: error = %v", err)
	}
	if err := g.DeclareDraw(); err == nil {
		t.Fatalf("terminal state overwritten")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := rules.NewGame()
	quiet(t, g, rules.E2, rules.E4, rules.WhitePawn)
	g.CreateMoveString(rules.White, "e4")
	cp := g.Clone()
	quiet(t, cp, rules.E7, rules.E5, rules.BlackPawn)
	cp.CreateMoveString(rules.Black, "e5")
	cp.CheckThreefoldRepetition()

	if g.Active() != rules.Black || g.Moves()[0].Black != nil {
		t.Fatalf("clone shares state with the original")
	}
	if g.PositionCount(cp.Hash()) != 0 {
		t.Fatalf("clone shares the repetition table")
	}
}
