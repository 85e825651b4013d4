package match

import (
	"sort"

	"github.com/Nirajsah/microchess/rules"
)

// PlayerStats is one row of the leaderboard.
type PlayerStats struct {
	PlayerID    string  `json:"player_id"`
	GamesPlayed uint32  `json:"games_played"`
	Wins        uint32  `json:"wins"`
	Losses      uint32  `json:"losses"`
	Draws       uint32  `json:"draws"`
	WinRate     float32 `json:"win_rate"`
}

func (ps *PlayerStats) record(win, loss bool) {
	ps.GamesPlayed++
	switch {
	case win:
		ps.Wins++
	case loss:
		ps.Losses++
	default:
		ps.Draws++
	}
	ps.WinRate = float32(ps.Wins) / float32(ps.GamesPlayed)
}

// outcome returns the winner and loser of a finished match; both are empty
// for a drawn game.
func outcome(m *Match) (winner, loser string) {
	switch m.Game.State() {
	case rules.Checkmate:
		loser = m.Players[m.Game.Active()]
	case rules.Resign:
		loser = m.Loser
	default:
		return "", ""
	}
	return m.Opponent(loser), loser
}

// leaderboard sorts by win rate, then wins, then id.
func leaderboard(stats map[string]*PlayerStats) []PlayerStats {
	rows := make([]PlayerStats, 0, len(stats))
	for _, ps := range stats {
		rows = append(rows, *ps)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].WinRate != rows[j].WinRate {
			return rows[i].WinRate > rows[j].WinRate
		}
		if rows[i].Wins != rows[j].Wins {
			return rows[i].Wins > rows[j].Wins
		}
		return rows[i].PlayerID < rows[j].PlayerID
	})
	return rows
}
