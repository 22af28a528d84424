package simulator_test

import (
	"testing"

	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/internal/simulator"
	"github.com/stretchr/testify/assert"
)

func TestSizeStake(t *testing.T) {
	tests := []struct {
		name     string
		strategy simulator.Strategy
		streak   int
		bankroll string
		unit     string
		want     string
	}{
		{"flat full unit", simulator.StrategyFlat, 0, "1000", "50", "50"},
		{"flat ignores streak", simulator.StrategyFlat, 5, "1000", "50", "50"},
		{"flat clipped", simulator.StrategyFlat, 0, "30", "50", "30"},
		{"martingale base", simulator.StrategyMartingale, 0, "1000", "50", "50"},
		{"martingale after 3 losses", simulator.StrategyMartingale, 3, "1000", "50", "400"},
		{"martingale capped", simulator.StrategyMartingale, 5, "1000", "50", "1000"},
		{"martingale huge streak stays bounded", simulator.StrategyMartingale, 10000, "750.25", "0.01", "750.25"},
		{"empty bankroll", simulator.StrategyMartingale, 2, "0", "50", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := simulator.SizeStake(tt.strategy, simulator.StrategyState{Streak: tt.streak}, d(tt.bankroll), d(tt.unit))
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestAdvance(t *testing.T) {
	state := simulator.StrategyState{}

	state = simulator.Advance(simulator.StrategyMartingale, state, simulator.Loss)
	state = simulator.Advance(simulator.StrategyMartingale, state, simulator.Loss)
	assert.Equal(t, 2, state.Streak)

	state = simulator.Advance(simulator.StrategyMartingale, state, simulator.Win)
	assert.Equal(t, 0, state.Streak)

	assert.Equal(t, simulator.StrategyState{}, simulator.Advance(simulator.StrategyFlat, simulator.StrategyState{Streak: 3}, simulator.Loss))
}
