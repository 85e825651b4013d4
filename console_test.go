package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/Nirajsah/microchess/match"
)

func runScript(t *testing.T, script string) string {
	t.Helper()
	var out bytes.Buffer
	svc := match.NewService(match.DefaultConfig(), match.NewMemoryStore(), zaptest.NewLogger(t))
	if err := newConsole(svc, &out).run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String()
}

func TestConsoleFoolsMate(t *testing.T) {
	out := runScript(t, `
# fool's mate
start alice bob
move alice f2 f3 wP
move bob e7 e5 bP
move alice g2 g4 wP
move bob d8 h4 bQ
history
fen
leaderboard
quit
move alice e2 e4 wP
`)
	for _, want := range []string{
		"ok checkmate",
		"1. f3 e5\n2. g4 Qh4#\n",
		"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3 ;wK\n",
		"bob played 1 won 1 lost 0 drew 0 rate 1.00\n",
		"alice played 1 won 0 lost 1 drew 0 rate 0.00\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "game is over") {
		t.Fatalf("commands after quit were run:\n%s", out)
	}
}

func TestConsoleErrors(t *testing.T) {
	out := runScript(t, `
fen
start alice
start alice bob
move bob e7 e5 bP
move alice e2 e4
castle alice sideways
teleport
`)
	for _, want := range []string{
		"error: no game; use start first",
		"error: usage: start <white> <black>",
		"error: not your turn",
		"error: move takes 4 arguments",
		"error: invalid request: castle side \"sideways\"",
		"error: unknown command \"teleport\"",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestConsoleQueries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.svg")
	out := runScript(t, `
start alice bob
move alice e2 e4 wP
move bob d7 d5 bP
capture alice e4 d5 wP bP
captured
board
time
svg bob `+path+`
`)
	for _, want := range []string{
		"bP\n",
		"5 ...P....\n",
		"black to move, in_play\n",
		"white 15m0s black 15m0s\n",
		"wrote " + path,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %q:\n%s", want, out)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if !bytes.Contains(data, []byte("alice vs bob")) {
		t.Fatalf("svg lacks title:\n%s", data)
	}
}
