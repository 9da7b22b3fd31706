package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bet statuses
const (
	BetStatusPending   = "pending"
	BetStatusWon       = "won"
	BetStatusLost      = "lost"
	BetStatusCancelled = "cancelled"
)

// Bet types
const (
	BetTypeSimple = "simple"
	BetTypeCombo  = "combo"
)

// Selection statuses
const (
	SelectionStatusPending = "pending"
	SelectionStatusWon     = "won"
	SelectionStatusLost    = "lost"
	SelectionStatusVoid    = "void"
)

// Bet represents a wager placed by a profile. Combo bets carry multiple
// selections settled as one unit; the stored odds are the product of the leg
// odds, computed at placement time.
type Bet struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	ProfileID  uint             `gorm:"index;not null" json:"profile_id"`
	Profile    *Profile         `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
	LeagueID   uint             `gorm:"index;not null" json:"league_id"`
	Week       int              `gorm:"not null" json:"week"`
	Type       string           `gorm:"size:20;not null" json:"type"` // simple, combo
	Stake      decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"stake"`
	Odds       decimal.Decimal  `gorm:"type:decimal(12,4);not null" json:"odds"`
	Status     string           `gorm:"size:20;default:pending;index" json:"status"`
	Payout     *decimal.Decimal `gorm:"type:decimal(12,2)" json:"payout,omitempty"`
	Selections []BetSelection   `gorm:"foreignKey:BetID" json:"selections,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	SettledAt  *time.Time       `json:"settled_at,omitempty"`
}

// TableName specifies the table name for Bet model
func (Bet) TableName() string {
	return "bets"
}

// BetSelection is one leg of a bet. Market and Selection are the upstream
// provider's free-text names as shown to the user at placement time.
type BetSelection struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	BetID     uint            `gorm:"index;not null" json:"bet_id"`
	FixtureID int64           `gorm:"index;not null" json:"fixture_id"`
	HomeTeam  string          `gorm:"size:100" json:"home_team"`
	AwayTeam  string          `gorm:"size:100" json:"away_team"`
	Market    string          `gorm:"size:100;not null" json:"market"`
	Selection string          `gorm:"size:100;not null" json:"selection"`
	Odds      decimal.Decimal `gorm:"type:decimal(12,4);not null" json:"odds"`
	KickoffAt time.Time       `gorm:"not null" json:"kickoff_at"`
	Status    string          `gorm:"size:20;default:pending" json:"status"`
}

// TableName specifies the table name for BetSelection model
func (BetSelection) TableName() string {
	return "bet_selections"
}

// MatchResult records the final score of a fixture, entered by an admin or a
// result import. Settlement grades pending selections against it.
type MatchResult struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FixtureID  int64     `gorm:"uniqueIndex;not null" json:"fixture_id"`
	HomeGoals  int       `gorm:"not null" json:"home_goals"`
	AwayGoals  int       `gorm:"not null" json:"away_goals"`
	RecordedAt time.Time `json:"recorded_at"`
}

// TableName specifies the table name for MatchResult model
func (MatchResult) TableName() string {
	return "match_results"
}
