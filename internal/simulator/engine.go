// Package simulator runs staking strategies against a stream of game outcomes and
// reports the bankroll trajectory.
package simulator

import (
	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/pkg/oddsmath"
	"github.com/shopspring/decimal"
)

// DefaultMaxGames caps a run when neither the simulator nor the config sets a limit.
const DefaultMaxGames = 100

// Simulator drives game-by-game runs. It holds no per-run state and is safe for concurrent use.
type Simulator struct {
	maxGames int
}

// New creates a simulator whose runs stop after maxGames games unless the config overrides it.
func New(maxGames int) *Simulator {
	if maxGames <= 0 {
		maxGames = DefaultMaxGames
	}
	return &Simulator{maxGames: maxGames}
}

// MaxGames returns the default game cap.
func (s *Simulator) MaxGames() int {
	return s.maxGames
}

// Run plays games from src until the bankroll is gone or the game cap is reached.
// A finite source that runs dry also ends the run. cfg must already be validated.
func (s *Simulator) Run(cfg SimulationConfig, src OutcomeSource) SimulationOutcome {
	limit := s.maxGames
	if cfg.MaxGames > 0 {
		limit = cfg.MaxGames
	}

	bankroll := cfg.StartingBankroll
	state := StrategyState{}
	trajectory := make(Trajectory, 0, limit)
	status := StatusRunning

	for status == StatusRunning {
		if !bankroll.IsPositive() {
			status = StatusBankrupt
			break
		}
		if len(trajectory) >= limit {
			status = StatusCompleted
			break
		}

		wager := SizeStake(cfg.Strategy, state, bankroll, cfg.WagerUnit)
		draw, ok := src.Next()
		if !ok {
			status = StatusCompleted
			break
		}

		bankroll = settle(bankroll, wager, draw)
		trajectory = append(trajectory, GameResult{
			Index:         len(trajectory) + 1,
			Wager:         wager,
			Outcome:       draw.Outcome,
			Price:         draw.Price,
			BankrollAfter: bankroll,
		})
		state = Advance(cfg.Strategy, state, draw.Outcome)
	}

	out := SimulationOutcome{
		Trajectory:   trajectory,
		FinalBalance: FinalBalance(trajectory, cfg.StartingBankroll),
		Status:       status,
	}
	if seeded, ok := src.(interface{ Seed() uint64 }); ok {
		out.Seed = seeded.Seed()
	}
	return out
}

// settle applies one game's result to the bankroll.
func settle(bankroll, wager decimal.Decimal, draw Draw) decimal.Decimal {
	if draw.Outcome == Loss {
		return bankroll.Sub(wager)
	}

	profit, err := oddsmath.WinProfit(wager, draw.Price)
	if err != nil {
		// sources only emit validated prices; an unpriceable draw pays even money
		profit = wager
	}
	return bankroll.Add(profit)
}
