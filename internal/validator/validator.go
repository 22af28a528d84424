// Package validator turns raw simulation request parameters into a SimulationConfig.
package validator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/XavierBriggs/fortuna/services/bankroll-simulator/internal/simulator"
	"github.com/shopspring/decimal"
)

// Defaults applied when a parameter is omitted, matching the web client's initial form.
const (
	DefaultStartCash = "1000"
	DefaultBetSize   = "50"
	DefaultStrategy  = simulator.StrategyFlat
)

// DefaultMaxAmount caps start_cash and bet_size unless WithMaxAmount overrides it.
var DefaultMaxAmount = decimal.NewFromInt(1_000_000_000)

// Bounds on a raw amount, checked before any arithmetic touches it.
const (
	maxAmountLength = 32
	minExponent     = -10
	maxExponent     = 12
)

// Wire names of the request parameters.
const (
	FieldStartCash = "start_cash"
	FieldBetSize   = "bet_size"
	FieldStrategy  = "strategy"
	FieldMaxGames  = "max_games"
	FieldSeed      = "seed"
	FieldSource    = "source"
)

// ErrInvalidParameter is matched by every validation failure via errors.Is.
var ErrInvalidParameter = errors.New("invalid parameter")

// InvalidParameterError names the offending field.
type InvalidParameterError struct {
	Field  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidParameter) match.
func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

func invalid(field, format string, args ...interface{}) error {
	return &InvalidParameterError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Raw holds request parameters exactly as received. Empty strings mean "not supplied".
type Raw struct {
	StartCash string
	BetSize   string
	Strategy  string
	MaxGames  string
	Seed      string
	Source    string
}

// Validator checks raw parameters against the service's game limits.
type Validator struct {
	defaultMaxGames int
	maxGamesLimit   int
	maxAmount       decimal.Decimal
}

// New creates a validator. max_games defaults to defaultMaxGames and may not exceed maxGamesLimit.
func New(defaultMaxGames, maxGamesLimit int) *Validator {
	if maxGamesLimit < defaultMaxGames {
		maxGamesLimit = defaultMaxGames
	}
	return &Validator{
		defaultMaxGames: defaultMaxGames,
		maxGamesLimit:   maxGamesLimit,
		maxAmount:       DefaultMaxAmount,
	}
}

// WithMaxAmount sets the largest accepted start_cash or bet_size.
func (v *Validator) WithMaxAmount(max decimal.Decimal) *Validator {
	if max.IsPositive() {
		v.maxAmount = max
	}
	return v
}

// Validate normalizes raw and returns a config, or an *InvalidParameterError for the first bad field.
// It has no side effects.
func (v *Validator) Validate(raw Raw) (simulator.SimulationConfig, error) {
	var cfg simulator.SimulationConfig

	start, err := v.parseAmount(FieldStartCash, raw.StartCash, DefaultStartCash)
	if err != nil {
		return cfg, err
	}

	unit, err := v.parseAmount(FieldBetSize, raw.BetSize, DefaultBetSize)
	if err != nil {
		return cfg, err
	}

	strategy := simulator.Strategy(normalize(raw.Strategy, string(DefaultStrategy)))
	if !strategy.Valid() {
		return cfg, invalid(FieldStrategy, "must be one of flat, martingale (got %q)", raw.Strategy)
	}

	maxGames := v.defaultMaxGames
	if s := strings.TrimSpace(raw.MaxGames); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return cfg, invalid(FieldMaxGames, "must be an integer (got %q)", raw.MaxGames)
		}
		if n < 1 || n > v.maxGamesLimit {
			return cfg, invalid(FieldMaxGames, "must be between 1 and %d", v.maxGamesLimit)
		}
		maxGames = n
	}

	var seed *uint64
	if s := strings.TrimSpace(raw.Seed); s != "" {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return cfg, invalid(FieldSeed, "must be an unsigned 64-bit integer (got %q)", raw.Seed)
		}
		seed = &n
	}

	source := simulator.Source(normalize(raw.Source, string(simulator.SourceSynthetic)))
	if !source.Valid() {
		return cfg, invalid(FieldSource, "must be one of synthetic, historical (got %q)", raw.Source)
	}

	if unit.GreaterThan(start) {
		return cfg, invalid(FieldBetSize, "must not exceed start_cash (%s > %s)", unit, start)
	}

	return simulator.SimulationConfig{
		StartingBankroll: start,
		WagerUnit:        unit,
		Strategy:         strategy,
		Source:           source,
		MaxGames:         maxGames,
		Seed:             seed,
	}, nil
}

// parseAmount parses a positive money amount no larger than maxAmount and rounds it to cents.
// Length and exponent are bounded before Round, whose cost grows with the exponent.
func (v *Validator) parseAmount(field, raw, fallback string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		s = fallback
	}
	if len(s) > maxAmountLength {
		return decimal.Zero, invalid(field, "must be at most %d characters", maxAmountLength)
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, invalid(field, "must be a number (got %q)", raw)
	}
	if exp := amount.Exponent(); exp < minExponent || exp > maxExponent {
		return decimal.Zero, invalid(field, "must be a plain amount in dollars and cents (got %q)", raw)
	}

	amount = amount.Round(2)
	if !amount.IsPositive() {
		return decimal.Zero, invalid(field, "must be greater than 0")
	}
	if amount.GreaterThan(v.maxAmount) {
		return decimal.Zero, invalid(field, "must not exceed %s", v.maxAmount)
	}

	return amount, nil
}

func normalize(raw, fallback string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return fallback
	}
	return s
}
