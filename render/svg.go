// Package render draws board positions as SVG.
package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/Nirajsah/microchess/rules"
)

// Options controls the drawing. Zero values select the defaults.
type Options struct {
	SquareSize int
	Light      string
	Dark       string
	// Flip draws the board from Black's side.
	Flip bool
	// Highlight squares, e.g. the last move.
	Highlight []rules.Square
	// Mark the king of the side in check.
	CheckedKing bool
	Active      rules.Color
	Title       string
}

const (
	defaultSquareSize = 60
	defaultLight      = "#f0d9b5"
	defaultDark       = "#b58863"
	highlightColor    = "#cdd26a"
	checkColor        = "#e06666"
)

var glyphs = [12]string{
	rules.WhitePawn:   "♙",
	rules.WhiteKnight: "♘",
	rules.WhiteBishop: "♗",
	rules.WhiteRook:   "♖",
	rules.WhiteQueen:  "♕",
	rules.WhiteKing:   "♔",
	rules.BlackPawn:   "♟",
	rules.BlackKnight: "♞",
	rules.BlackBishop: "♝",
	rules.BlackRook:   "♜",
	rules.BlackQueen:  "♛",
	rules.BlackKing:   "♚",
}

// Glyph returns the Unicode chess symbol of p.
func Glyph(p rules.Piece) string {
	if !p.Valid() {
		return ""
	}
	return glyphs[p]
}

// Board writes b to w as a standalone SVG document.
func Board(w io.Writer, b *rules.Board, opts Options) error {
	size := opts.SquareSize
	if size <= 0 {
		size = defaultSquareSize
	}
	light, dark := opts.Light, opts.Dark
	if light == "" {
		light = defaultLight
	}
	if dark == "" {
		dark = defaultDark
	}
	marked := make(map[rules.Square]string, len(opts.Highlight)+1)
	for _, sq := range opts.Highlight {
		marked[sq] = highlightColor
	}
	if opts.CheckedKing {
		if sq, ok := b.KingSquare(opts.Active); ok && b.InCheck(opts.Active) {
			marked[sq] = checkColor
		}
	}

	canvas := svg.New(w)
	canvas.Start(size*8, size*8)
	if opts.Title != "" {
		canvas.Title(opts.Title)
	}
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			sq := rules.NewSquare(file, rank)
			x, y := file*size, (7-rank)*size
			if opts.Flip {
				x, y = (7-file)*size, rank*size
			}
			fill := dark
			if (file+rank)%2 == 1 {
				fill = light
			}
			if c, ok := marked[sq]; ok {
				fill = c
			}
			canvas.Rect(x, y, size, size, "fill:"+fill)
			if p, ok := b.PieceAt(sq); ok {
				style := fmt.Sprintf("font-size:%dpx;text-anchor:middle;dominant-baseline:central", size*3/4)
				canvas.Text(x+size/2, y+size/2, Glyph(p), style)
			}
		}
	}
	canvas.End()
	return nil
}
