package oddsmath_test

import (
	"math"
	"testing"

	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/pkg/oddsmath"
	"github.com/shopspring/decimal"
)

func TestAmericanToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		american int
		want     float64
	}{
		{"Positive odds +100", 100, 2.0},
		{"Positive odds +150", 150, 2.5},
		{"Negative odds -110", -110, 1.909090909},
		{"Negative odds -200", -200, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := oddsmath.AmericanToDecimal(tt.american)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if math.Abs(got-tt.want) > 0.0001 {
				t.Errorf("AmericanToDecimal(%d) = %f, want %f", tt.american, got, tt.want)
			}
		})
	}
}

func TestAmericanToDecimal_Invalid(t *testing.T) {
	for _, american := range []int{0, 50, -99} {
		if _, err := oddsmath.AmericanToDecimal(american); err == nil {
			t.Errorf("AmericanToDecimal(%d) expected error", american)
		}
	}
}

func TestImpliedProbability(t *testing.T) {
	got, err := oddsmath.AmericanToImpliedProbability(-110)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-0.5238) > 0.001 {
		t.Errorf("AmericanToImpliedProbability(-110) = %f, want 0.5238", got)
	}
}

func TestWinProfit(t *testing.T) {
	tests := []struct {
		name     string
		stake    string
		american int
		want     string
	}{
		{"Even money", "50", oddsmath.EvenMoney, "50"},
		{"Favorite -110", "110", -110, "100"},
		{"Favorite -150", "50", -150, "33.33"},
		{"Underdog +150", "100", 150, "150"},
		{"Underdog +125 cents", "10.10", 125, "12.63"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := oddsmath.WinProfit(decimal.RequireFromString(tt.stake), tt.american)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("WinProfit(%s, %d) = %s, want %s", tt.stake, tt.american, got, tt.want)
			}
		})
	}
}

func TestEvenMoneyWinProbability(t *testing.T) {
	p, err := oddsmath.EvenMoneyWinProbability(-110, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(p-0.477273) > 0.00001 {
		t.Errorf("EvenMoneyWinProbability(-110, 0.5) = %f, want 0.477273", p)
	}
	if math.Abs(oddsmath.HouseEdge(p)-0.045455) > 0.00001 {
		t.Errorf("HouseEdge(%f) = %f, want 0.045455", p, oddsmath.HouseEdge(p))
	}
}

func TestEvenMoneyWinProbability_PlusMoneyFavorsBettor(t *testing.T) {
	p, err := oddsmath.EvenMoneyWinProbability(110, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p <= 0.5 {
		t.Errorf("expected +110 on a fair game to favor the bettor, got p=%f", p)
	}
}
