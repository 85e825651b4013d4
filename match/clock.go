package match

import (
	"time"

	"github.com/Nirajsah/microchess/rules"
)

// Clock is a chess clock for two players.
type Clock struct {
	TimeLeft         [2]time.Duration `json:"time_left"`
	Increment        time.Duration    `json:"increment"`
	CurrentTurnStart time.Time        `json:"current_turn_start"`
	BlockDelay       time.Duration    `json:"block_delay"`
}

// PlayerTime is the remaining time of both players.
type PlayerTime struct {
	White time.Duration `json:"white"`
	Black time.Duration `json:"black"`
}

// NewClock starts White's clock at now.
func NewClock(now time.Time, cfg Config) Clock {
	return Clock{
		TimeLeft:         [2]time.Duration{cfg.StartTime, cfg.StartTime},
		Increment:        cfg.Increment,
		CurrentTurnStart: now,
		BlockDelay:       cfg.BlockDelay,
	}
}

// MakeMove charges player for the time since the turn started, adds the
// increment and starts the opponent's turn.
func (c *Clock) MakeMove(now time.Time, player rules.Color) {
	i := player.Index()
	left := c.TimeLeft[i] - c.elapsed(now)
	if left < 0 {
		left = 0
	}
	c.TimeLeft[i] = left + c.Increment
	c.CurrentTurnStart = now
}

// TimedOut reports whether player, who is on move, has used up their time.
func (c *Clock) TimedOut(now time.Time, player rules.Color) bool {
	return c.elapsed(now) >= c.TimeLeft[player.Index()]
}

// Remaining returns player's time as of now, counting the running turn
// when player is on move.
func (c *Clock) Remaining(now time.Time, player, active rules.Color) time.Duration {
	left := c.TimeLeft[player.Index()]
	if player == active {
		left -= c.elapsed(now)
	}
	if left < 0 {
		return 0
	}
	return left
}

// Left returns the stored time of both players.
func (c *Clock) Left() PlayerTime {
	return PlayerTime{White: c.TimeLeft[rules.White], Black: c.TimeLeft[rules.Black]}
}

func (c *Clock) elapsed(now time.Time) time.Duration {
	d := now.Sub(c.CurrentTurnStart)
	if d < 0 {
		return 0
	}
	return d
}
