// Package serializer projects finished simulation runs onto the wire models.
package serializer

import (
	"encoding/json"
	"math"

	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/internal/simulator"
	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/pkg/models"
	"github.com/shopspring/decimal"
)

// Serialize builds the response for a run. It performs no validation.
func Serialize(runID string, cfg simulator.SimulationConfig, out simulator.SimulationOutcome, sum simulator.Summary) models.SimulationResponse {
	history := make([]models.HistoryPoint, len(out.Trajectory))
	for i, g := range out.Trajectory {
		history[i] = models.HistoryPoint{
			Game:     g.Index,
			Bankroll: Amount(g.BankrollAfter),
		}
	}

	resp := models.SimulationResponse{
		RunID:         runID,
		Strategy:      string(cfg.Strategy),
		Source:        string(cfg.Source),
		Status:        string(out.Status),
		History:       history,
		FinalBalance:  Amount(out.FinalBalance),
		NetProfitLoss: Amount(sum.NetProfitLoss),
		Bankrupt:      sum.IsBankrupt,
		Summary: models.SummaryResponse{
			StartingBankroll: Amount(cfg.StartingBankroll),
			BetSize:          Amount(cfg.WagerUnit),
			GamesPlayed:      sum.GamesPlayed,
			Wins:             sum.Wins,
			Losses:           sum.Losses,
			WinRate:          math.Round(sum.WinRate*10000) / 10000,
			PeakBankroll:     Amount(sum.PeakBankroll),
			LowestBankroll:   Amount(sum.LowestBankroll),
			LargestWager:     Amount(sum.LargestWager),
			TotalWagered:     Amount(sum.TotalWagered),
		},
	}

	if cfg.Source == simulator.SourceSynthetic {
		seed := out.Seed
		resp.Seed = &seed
	}

	return resp
}

// GameEvent projects a single game for streaming.
func GameEvent(g simulator.GameResult) models.GameEvent {
	return models.GameEvent{
		Game:     g.Index,
		Bankroll: Amount(g.BankrollAfter),
		Wager:    Amount(g.Wager),
		Outcome:  g.Outcome.String(),
		Price:    g.Price,
	}
}

// Amount renders money as an exact JSON number with at most two decimals.
func Amount(d decimal.Decimal) json.Number {
	return json.Number(d.Round(2).String())
}
