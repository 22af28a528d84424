package simulator

import "github.com/shopspring/decimal"

var two = decimal.NewFromInt(2)

// SizeStake returns the wager for the upcoming game. The wager never exceeds bankroll,
// and a bankroll at or below zero sizes no wager at all.
func SizeStake(strategy Strategy, state StrategyState, bankroll, unit decimal.Decimal) decimal.Decimal {
	if !bankroll.IsPositive() {
		return decimal.Zero
	}

	wager := unit
	if strategy == StrategyMartingale {
		// unit × 2^streak, stopping once it already covers the bankroll
		for i := 0; i < state.Streak && wager.LessThan(bankroll); i++ {
			wager = wager.Mul(two)
		}
	}

	return decimal.Min(wager, bankroll)
}

// Advance returns the state for the next game once this game's outcome is known.
func Advance(strategy Strategy, state StrategyState, outcome Outcome) StrategyState {
	if strategy != StrategyMartingale {
		return StrategyState{}
	}
	if outcome == Win {
		return StrategyState{Streak: 0}
	}
	return StrategyState{Streak: state.Streak + 1}
}
