package oddsmath

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// EvenMoney is the price sentinel for a bet that pays 1:1.
// American odds are never 0, so the zero value is free to mean "even money".
const EvenMoney = 0

var hundred = decimal.NewFromInt(100)

// AmericanToDecimal converts American odds to decimal odds
// American +150 → Decimal 2.50
// American -150 → Decimal 1.67
func AmericanToDecimal(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("invalid American odds: cannot be 0")
	}
	if american > -100 && american < 100 {
		return 0, fmt.Errorf("invalid American odds %d: magnitude must be >= 100", american)
	}

	if american > 0 {
		return (float64(american) / 100.0) + 1.0, nil
	}

	return (100.0 / float64(-american)) + 1.0, nil
}

// AmericanToImpliedProbability converts American odds directly to implied probability
// -110 → 0.5238
// +150 → 0.40
func AmericanToImpliedProbability(american int) (float64, error) {
	dec, err := AmericanToDecimal(american)
	if err != nil {
		return 0, err
	}

	return 1.0 / dec, nil
}

// WinProfit returns the profit (stake excluded) paid on a winning stake at the given price,
// rounded to cents. EvenMoney pays the stake back as profit.
//
// -110 on $110 → $100
// +150 on $100 → $150
func WinProfit(stake decimal.Decimal, american int) (decimal.Decimal, error) {
	if american == EvenMoney {
		return stake, nil
	}
	if _, err := AmericanToDecimal(american); err != nil {
		return decimal.Zero, err
	}

	if american > 0 {
		return stake.Mul(decimal.NewFromInt(int64(american))).Div(hundred).Round(2), nil
	}

	return stake.Mul(hundred).Div(decimal.NewFromInt(int64(-american))).Round(2), nil
}
