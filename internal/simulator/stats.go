package simulator

import "github.com/shopspring/decimal"

// Summary is the authoritative set of figures derived from a trajectory.
type Summary struct {
	FinalBalance   decimal.Decimal
	NetProfitLoss  decimal.Decimal
	IsBankrupt     bool
	GamesPlayed    int
	Wins           int
	Losses         int
	WinRate        float64
	PeakBankroll   decimal.Decimal
	LowestBankroll decimal.Decimal
	LargestWager   decimal.Decimal
	TotalWagered   decimal.Decimal
}

// FinalBalance is the last recorded bankroll, or the starting bankroll for an empty trajectory.
func FinalBalance(t Trajectory, startingBankroll decimal.Decimal) decimal.Decimal {
	if len(t) == 0 {
		return startingBankroll
	}
	return t[len(t)-1].BankrollAfter
}

// Summarize derives the run statistics. It does not modify t.
func Summarize(t Trajectory, startingBankroll decimal.Decimal) Summary {
	final := FinalBalance(t, startingBankroll)

	s := Summary{
		FinalBalance:   final,
		NetProfitLoss:  final.Sub(startingBankroll),
		IsBankrupt:     !final.IsPositive(),
		GamesPlayed:    len(t),
		PeakBankroll:   startingBankroll,
		LowestBankroll: startingBankroll,
		LargestWager:   decimal.Zero,
		TotalWagered:   decimal.Zero,
	}

	for _, g := range t {
		if g.Outcome == Win {
			s.Wins++
		} else {
			s.Losses++
		}
		s.PeakBankroll = decimal.Max(s.PeakBankroll, g.BankrollAfter)
		s.LowestBankroll = decimal.Min(s.LowestBankroll, g.BankrollAfter)
		s.LargestWager = decimal.Max(s.LargestWager, g.Wager)
		s.TotalWagered = s.TotalWagered.Add(g.Wager)
	}

	if s.GamesPlayed > 0 {
		s.WinRate = float64(s.Wins) / float64(s.GamesPlayed)
	}

	return s
}
