package match

import "github.com/Nirajsah/microchess/rules"

// Rules is the part of *rules.Game a turn drives.
type Rules interface {
	Board() rules.Board
	Active() rules.Color
	State() rules.GameState
	MakeMove(from, to rules.Square, piece rules.Piece, mt rules.MoveType) error
	SwitchPlayerTurn()
	CheckThreefoldRepetition() bool
	Check50MoveRule() bool
	IsCheckmate() bool
	CreateMoveString(c rules.Color, text string)
	DeclareDraw() error
}

// playTurn applies md and runs the bookkeeping of a completed move, each
// step exactly once: turn switch, repetition count, fifty-move check, mate
// and stalemate detection and the history entry. A rejected move runs none
// of it.
func playTurn(g Rules, md rules.MoveData) (rules.GameState, error) {
	before := g.Board()
	text := rules.SAN(&before, md)
	mover := g.Active()

	if err := g.MakeMove(md.From, md.To, md.Piece, md.Type); err != nil {
		return g.State(), err
	}
	g.SwitchPlayerTurn()
	repeated := g.CheckThreefoldRepetition()
	fifty := g.Check50MoveRule()
	mate := g.IsCheckmate()

	after := g.Board()
	switch {
	case mate:
		text += "#"
	case after.InCheck(g.Active()):
		text += "+"
	}
	g.CreateMoveString(mover, text)

	if g.State() == rules.InPlay && (repeated || fifty) {
		if err := g.DeclareDraw(); err != nil {
			return g.State(), err
		}
	}
	return g.State(), nil
}
