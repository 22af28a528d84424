package simulator

import (
	"github.com/shopspring/decimal"
)

// Strategy selects how the stake for each game is sized.
type Strategy string

const (
	StrategyFlat       Strategy = "flat"
	StrategyMartingale Strategy = "martingale"
)

// Valid reports whether s is a supported staking strategy.
func (s Strategy) Valid() bool {
	return s == StrategyFlat || s == StrategyMartingale
}

// Source selects where game outcomes come from.
type Source string

const (
	SourceSynthetic  Source = "synthetic"  // seeded Bernoulli draws at even money
	SourceHistorical Source = "historical" // replayed NBA home favourites
)

// Valid reports whether s is a supported outcome source.
func (s Source) Valid() bool {
	return s == SourceSynthetic || s == SourceHistorical
}

// Outcome is the result of a single game from the bettor's side.
type Outcome int

const (
	Loss Outcome = iota
	Win
)

func (o Outcome) String() string {
	if o == Win {
		return "win"
	}
	return "loss"
}

// Status is the state of a run. Bankrupt and Completed are terminal.
type Status string

const (
	StatusRunning   Status = "running"
	StatusBankrupt  Status = "bankrupt"
	StatusCompleted Status = "completed"
)

// SimulationConfig is a validated set of run parameters. Callers own it; the simulator only reads it.
type SimulationConfig struct {
	StartingBankroll decimal.Decimal
	WagerUnit        decimal.Decimal
	Strategy         Strategy
	Source           Source

	// MaxGames overrides the simulator's default game cap when > 0.
	MaxGames int

	// Seed makes synthetic runs reproducible. Nil means a fresh seed per run.
	Seed *uint64
}

// Draw is one outcome plus the price the wager was taken at.
type Draw struct {
	Outcome Outcome
	Price   int // American odds; oddsmath.EvenMoney for 1:1
}

// GameResult records one settled game.
type GameResult struct {
	Index         int
	Wager         decimal.Decimal
	Outcome       Outcome
	Price         int
	BankrollAfter decimal.Decimal
}

// Trajectory is the ordered, append-only record of a run.
type Trajectory []GameResult

// SimulationOutcome is everything a finished run hands back to its caller.
type SimulationOutcome struct {
	Trajectory   Trajectory
	FinalBalance decimal.Decimal
	Status       Status
	Seed         uint64
}

// StrategyState is threaded through a run between games.
// Streak counts consecutive losses since the last win and is ignored by flat staking.
type StrategyState struct {
	Streak int
}
