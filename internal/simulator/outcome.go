package simulator

import (
	"math/rand/v2"

	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/pkg/oddsmath"
)

// OutcomeSource yields one draw per game. ok is false once a finite source is exhausted.
type OutcomeSource interface {
	Next() (d Draw, ok bool)
}

// Bernoulli is an infinite sequence of independent even-money draws won with probability p.
// It is not safe for concurrent use; every run builds its own.
type Bernoulli struct {
	p    float64
	seed uint64
	rng  *rand.Rand
}

// NewBernoulli creates a generator. A nil seed picks one from the runtime source;
// the chosen seed is kept so the sequence can be replayed.
func NewBernoulli(p float64, seed *uint64) *Bernoulli {
	var s uint64
	if seed != nil {
		s = *seed
	} else {
		s = rand.Uint64()
	}

	b := &Bernoulli{p: p, seed: s}
	b.Reset()
	return b
}

// Next draws the next outcome.
func (b *Bernoulli) Next() (Draw, bool) {
	outcome := Loss
	if b.rng.Float64() < b.p {
		outcome = Win
	}
	return Draw{Outcome: outcome, Price: oddsmath.EvenMoney}, true
}

// Reset restarts the sequence from its first draw.
func (b *Bernoulli) Reset() {
	b.rng = rand.New(rand.NewPCG(b.seed, b.seed^0x9e3779b97f4a7c15))
}

// Seed returns the seed in use.
func (b *Bernoulli) Seed() uint64 {
	return b.seed
}

// Sequence replays a fixed list of draws, then reports exhaustion.
type Sequence struct {
	draws []Draw
	pos   int
}

// NewSequence builds a finite source from draws.
func NewSequence(draws ...Draw) *Sequence {
	return &Sequence{draws: draws}
}

// Outcomes builds an even-money Sequence from bare outcomes.
func Outcomes(outcomes ...Outcome) *Sequence {
	draws := make([]Draw, len(outcomes))
	for i, o := range outcomes {
		draws[i] = Draw{Outcome: o, Price: oddsmath.EvenMoney}
	}
	return NewSequence(draws...)
}

// Next returns the next draw in order.
func (s *Sequence) Next() (Draw, bool) {
	if s.pos >= len(s.draws) {
		return Draw{}, false
	}
	d := s.draws[s.pos]
	s.pos++
	return d, true
}

// Reset rewinds to the first draw.
func (s *Sequence) Reset() {
	s.pos = 0
}
