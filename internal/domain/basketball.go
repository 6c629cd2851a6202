package domain

import "time"

// Game is one regular-season game with its final score.
type Game struct {
	Date    time.Time
	Home    string
	Away    string
	HomePts int64
	AwayPts int64
}

// Margin is the home score minus the away score.
func (g Game) Margin() int64 {
	return g.HomePts - g.AwayPts
}

// Total is the combined points scored.
func (g Game) Total() int64 {
	return g.HomePts + g.AwayPts
}

// HomeWin reports whether the home team won.
func (g Game) HomeWin() bool {
	return g.Margin() > 0
}
