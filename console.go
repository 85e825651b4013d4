package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Nirajsah/microchess/match"
	"github.com/Nirajsah/microchess/rules"
)

// console reads one command per line and runs it against the current game.
type console struct {
	svc   *match.Service
	out   io.Writer
	game  string
	white string
}

func newConsole(svc *match.Service, out io.Writer) *console {
	return &console{svc: svc, out: out}
}

var errQuit = errors.New("quit")

func (c *console) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 || strings.HasPrefix(tokens[0], "#") {
			continue
		}
		err := c.handle(ctx, strings.ToLower(tokens[0]), tokens[1:])
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

func (c *console) handle(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "quit", "exit":
		return errQuit
	case "help":
		fmt.Fprintln(c.out, "start <white> <black> | move <player> <from> <to> <piece> | capture <player> <from> <to> <piece> <captured>")
		fmt.Fprintln(c.out, "promote <player> <from> <to> <piece> <promoted> | castle <player> <king|queen> | enpassant <player> <from> <to> <piece>")
		fmt.Fprintln(c.out, "resign <player> | fen | board | moves | history | captured | time | leaderboard | svg <player> <file> | quit")
		return nil
	case "start":
		if len(args) != 2 {
			return fmt.Errorf("usage: start <white> <black>")
		}
		id, err := c.svc.StartGame(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		c.game, c.white = id, args[0]
		fmt.Fprintf(c.out, "game %s\n", id)
		return nil
	case "leaderboard":
		for _, ps := range c.svc.Leaderboard() {
			fmt.Fprintf(c.out, "%s played %d won %d lost %d drew %d rate %.2f\n",
				ps.PlayerID, ps.GamesPlayed, ps.Wins, ps.Losses, ps.Draws, ps.WinRate)
		}
		return nil
	}

	if c.game == "" {
		return fmt.Errorf("no game; use start first")
	}
	if op, player, ok, err := parseOperation(cmd, args); ok {
		if err != nil {
			return err
		}
		state, err := c.svc.Execute(ctx, c.game, player, time.Now(), op)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "ok %s\n", state)
		return nil
	}
	return c.query(ctx, cmd, args)
}

// parseOperation maps a command onto a player operation. ok is false when
// cmd is not an operation.
func parseOperation(cmd string, args []string) (op match.Operation, player string, ok bool, err error) {
	arity := map[string]int{
		"move":      4,
		"capture":   5,
		"promote":   5,
		"castle":    2,
		"enpassant": 4,
		"resign":    1,
	}
	n, ok := arity[cmd]
	if !ok {
		return op, "", false, nil
	}
	if len(args) != n {
		return op, "", true, fmt.Errorf("%s takes %d arguments", cmd, n)
	}
	player = args[0]
	switch cmd {
	case "move":
		op = match.Operation{Kind: match.OpMakeMove, From: args[1], To: args[2], Piece: args[3]}
	case "capture":
		op = match.Operation{Kind: match.OpCapturePiece, From: args[1], To: args[2], Piece: args[3], CapturedPiece: args[4]}
	case "promote":
		op = match.Operation{Kind: match.OpPawnPromotion, From: args[1], To: args[2], Piece: args[3], PromotedPiece: args[4]}
	case "castle":
		op = match.Operation{Kind: match.OpCastle, Side: args[1]}
	case "enpassant":
		op = match.Operation{Kind: match.OpEnPassant, From: args[1], To: args[2], Piece: args[3]}
	case "resign":
		op = match.Operation{Kind: match.OpResign}
	}
	return op, player, true, nil
}

func (c *console) query(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "fen", "board", "history":
		player := ""
		if len(args) > 0 {
			player = args[0]
		}
		data, err := c.gameData(ctx, player)
		if err != nil {
			return err
		}
		switch cmd {
		case "fen":
			fmt.Fprintln(c.out, data.Board)
		case "board":
			fen := strings.SplitN(data.Board, " ;", 2)[0]
			b, _, err := rules.ParseFEN(fen)
			if err != nil {
				return err
			}
			fmt.Fprint(c.out, b.String())
			fmt.Fprintf(c.out, "%s to move, %s\n", data.PlayerTurn, data.GameState)
		case "history":
			for i, r := range data.Moves {
				black := ""
				if r.Black != nil {
					black = *r.Black
				}
				fmt.Fprintf(c.out, "%d. %s %s\n", i+1, *r.White, black)
			}
		}
		return nil
	case "moves":
		moves, err := c.svc.LegalMoves(ctx, c.game)
		if err != nil {
			return err
		}
		texts := make([]string, len(moves))
		for i, md := range moves {
			texts[i] = md.String()
		}
		fmt.Fprintln(c.out, strings.Join(texts, " "))
		return nil
	case "captured":
		pieces, err := c.svc.CapturedPieces(ctx, c.game)
		if err != nil {
			return err
		}
		texts := make([]string, len(pieces))
		for i, p := range pieces {
			texts[i] = p.String()
		}
		fmt.Fprintln(c.out, strings.Join(texts, " "))
		return nil
	case "time":
		left, err := c.svc.TimeLeft(ctx, c.game)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "white %s black %s\n", left.White.Round(time.Second), left.Black.Round(time.Second))
		return nil
	case "svg":
		if len(args) != 2 {
			return fmt.Errorf("usage: svg <player> <file>")
		}
		f, err := os.Create(args[1])
		if err != nil {
			return err
		}
		if err := c.svc.BoardSVG(ctx, c.game, args[0], f); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "wrote %s\n", args[1])
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd)
}

// gameData views the game from player's seat, or from White's when player
// is empty.
func (c *console) gameData(ctx context.Context, player string) (match.GameData, error) {
	if player == "" {
		player = c.white
	}
	return c.svc.GameData(ctx, c.game, player)
}
