package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Slip validation failures, surfaced verbatim to the user. The checks run in
// a fixed order and the first failure wins.
var (
	ErrInvalidStake       = errors.New("stake must be greater than zero")
	ErrNoSelections       = errors.New("bet slip has no selections")
	ErrDuplicateFixture   = errors.New("a combo bet cannot carry two selections on the same fixture")
	ErrBettingClosed      = errors.New("betting is closed for a selected fixture")
	ErrBelowMinimumBet    = errors.New("stake is below the league minimum bet")
	ErrAboveMaximumBet    = errors.New("stake is above the league maximum bet")
	ErrInsufficientBudget = errors.New("stake exceeds your weekly budget")
)

// SlipSelection is one leg of a submitted bet slip
type SlipSelection struct {
	FixtureID int64           `json:"fixture_id" binding:"required"`
	HomeTeam  string          `json:"home_team"`
	AwayTeam  string          `json:"away_team"`
	Market    string          `json:"market" binding:"required"`
	Selection string          `json:"selection" binding:"required"`
	Odds      decimal.Decimal `json:"odds" binding:"required"`
	KickoffAt time.Time       `json:"kickoff_at" binding:"required"`
}

// SlipInput is everything ValidateSlip needs, gathered by the caller
type SlipInput struct {
	Stake      decimal.Decimal
	Selections []SlipSelection
	MinBet     decimal.Decimal
	MaxBet     *decimal.Decimal // nil when the league has no maximum
	Budget     decimal.Decimal
	Cutoff     time.Duration
	LiveView   bool // live-matches context skips the cutoff gate
	Now        time.Time
}

// ValidateSlip applies the bet-slip gates strictly in order; the first
// failing check aborts. Every submission path shares this one function so
// the rules cannot drift between entry points.
func ValidateSlip(in SlipInput) error {
	// 1. Stake present and positive
	if !in.Stake.IsPositive() {
		return ErrInvalidStake
	}

	// 2. At least one selection
	if len(in.Selections) == 0 {
		return ErrNoSelections
	}

	// 3. Combo slips must not repeat a fixture
	if len(in.Selections) > 1 {
		seen := make(map[int64]bool, len(in.Selections))
		for _, sel := range in.Selections {
			if seen[sel.FixtureID] {
				return ErrDuplicateFixture
			}
			seen[sel.FixtureID] = true
		}
	}

	// 4. Cutoff window, evaluated against wall-clock time at submission.
	// The boundary is inclusive: now == kickoff-cutoff is already frozen.
	if !in.LiveView {
		for _, sel := range in.Selections {
			freeze := sel.KickoffAt.Add(-in.Cutoff)
			if !in.Now.Before(freeze) {
				return fmt.Errorf("%w: %s vs %s", ErrBettingClosed, sel.HomeTeam, sel.AwayTeam)
			}
		}
	}

	// 5. League minimum bet
	if in.Stake.LessThan(in.MinBet) {
		return fmt.Errorf("%w (minimum %s)", ErrBelowMinimumBet, in.MinBet.String())
	}

	// 6. League maximum bet, skipped when none is configured
	if in.MaxBet != nil && in.Stake.GreaterThan(*in.MaxBet) {
		return fmt.Errorf("%w (maximum %s)", ErrAboveMaximumBet, in.MaxBet.String())
	}

	// 7. Weekly budget
	if in.Stake.GreaterThan(in.Budget) {
		return ErrInsufficientBudget
	}

	return nil
}
