package history

import (
	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/internal/simulator"
	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/pkg/oddsmath"
)

// Replay is a finite outcome source over historical games.
type Replay struct {
	games []Game
	pos   int
}

// NewReplay builds a replay in the given order.
func NewReplay(games []Game) *Replay {
	return &Replay{games: games}
}

// Next returns the next bettable game as a priced draw. Games whose odds cannot be priced
// or that are not home favourites are skipped.
func (r *Replay) Next() (simulator.Draw, bool) {
	for r.pos < len(r.games) {
		g := r.games[r.pos]
		r.pos++

		if g.HomeOdds >= 0 {
			continue
		}
		if _, err := oddsmath.AmericanToDecimal(g.HomeOdds); err != nil {
			continue
		}

		outcome := simulator.Loss
		if g.HomeWon() {
			outcome = simulator.Win
		}
		return simulator.Draw{Outcome: outcome, Price: g.HomeOdds}, true
	}

	return simulator.Draw{}, false
}

// Reset rewinds to the first game.
func (r *Replay) Reset() {
	r.pos = 0
}
