package oddsmath

import "fmt"

// ExpectedValue calculates expected value in dollars of a stake at the offered price
// EV$ = (WinProb × WinAmount) - (LoseProb × StakeAmount)
func ExpectedValue(stake float64, offeredOdds int, winProbability float64) (float64, error) {
	if winProbability <= 0 || winProbability >= 1 {
		return 0, fmt.Errorf("win probability must be between 0 and 1")
	}

	dec, err := AmericanToDecimal(offeredOdds)
	if err != nil {
		return 0, err
	}

	winAmount := stake * (dec - 1.0)
	return (winProbability * winAmount) - ((1.0 - winProbability) * stake), nil
}

// EvenMoneyWinProbability returns the win probability p of an even-money bet whose expected
// value matches a game with the given fair probability priced at offeredOdds.
//
// An even-money bet returns EV = 2p - 1 per unit, so p = (1 + EV) / 2.
//
// Example:
// Fair 50/50 game priced at -110: EV = -0.04545
// p = 0.47727
func EvenMoneyWinProbability(offeredOdds int, fairProbability float64) (float64, error) {
	ev, err := ExpectedValue(1.0, offeredOdds, fairProbability)
	if err != nil {
		return 0, fmt.Errorf("error calculating expected value: %w", err)
	}

	p := (1.0 + ev) / 2.0
	if p <= 0 || p >= 1 {
		return 0, fmt.Errorf("price %+d yields degenerate win probability %.4f", offeredOdds, p)
	}

	return p, nil
}

// HouseEdge returns the house's edge per unit staked for an even-money bet won with probability p
// 0.47727 → 0.04545 (4.55%)
func HouseEdge(p float64) float64 {
	return 1.0 - 2.0*p
}
