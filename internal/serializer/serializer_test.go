package serializer_test

import (
	"encoding/json"
	"testing"

	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/internal/serializer"
	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/internal/simulator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialize_WireShape(t *testing.T) {
	cfg := simulator.SimulationConfig{
		StartingBankroll: decimal.NewFromInt(1000),
		WagerUnit:        decimal.NewFromInt(50),
		Strategy:         simulator.StrategyMartingale,
		Source:           simulator.SourceSynthetic,
	}
	out := simulator.New(100).Run(cfg, simulator.Outcomes(simulator.Loss, simulator.Loss, simulator.Win))
	sum := simulator.Summarize(out.Trajectory, cfg.StartingBankroll)

	resp := serializer.Serialize("run-1", cfg, out, sum)

	body, err := json.Marshal(resp)
	require.NoError(t, err)

	var wire struct {
		History []struct {
			Game     int     `json:"game"`
			Bankroll float64 `json:"bankroll"`
		} `json:"history"`
		FinalBalance  float64 `json:"final_balance"`
		NetProfitLoss float64 `json:"net_profit_loss"`
		Bankrupt      bool    `json:"bankrupt"`
		Status        string  `json:"status"`
		Seed          *uint64 `json:"seed"`
	}
	require.NoError(t, json.Unmarshal(body, &wire))

	require.Len(t, wire.History, 3)
	assert.Equal(t, 1, wire.History[0].Game)
	assert.Equal(t, 950.0, wire.History[0].Bankroll)
	assert.Equal(t, 3, wire.History[2].Game)
	assert.Equal(t, 1050.0, wire.History[2].Bankroll)
	assert.Equal(t, 1050.0, wire.FinalBalance)
	assert.Equal(t, 50.0, wire.NetProfitLoss)
	assert.False(t, wire.Bankrupt)
	assert.Equal(t, "completed", wire.Status)
	assert.NotNil(t, wire.Seed)
}

func TestSerialize_EmptyHistoryIsArray(t *testing.T) {
	cfg := simulator.SimulationConfig{
		StartingBankroll: decimal.NewFromInt(10),
		WagerUnit:        decimal.NewFromInt(1),
		Strategy:         simulator.StrategyFlat,
		Source:           simulator.SourceHistorical,
	}
	out := simulator.New(10).Run(cfg, simulator.Outcomes())

	body, err := json.Marshal(serializer.Serialize("run-2", cfg, out, simulator.Summarize(out.Trajectory, cfg.StartingBankroll)))
	require.NoError(t, err)

	assert.Contains(t, string(body), `"history":[]`)
	assert.Contains(t, string(body), `"final_balance":10`)
	assert.NotContains(t, string(body), `"seed"`)
}

func TestAmount_IsUnquotedNumber(t *testing.T) {
	body, err := json.Marshal(map[string]json.Number{"v": serializer.Amount(decimal.RequireFromString("1078.785"))})
	require.NoError(t, err)

	assert.Equal(t, `{"v":1078.79}`, string(body))
}
