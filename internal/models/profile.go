package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Profile roles
const (
	RolePlayer = "player"
	RoleAdmin  = "admin"
)

// Profile represents a player's membership in a league. The weekly budget is
// debited on bet placement and credited on payout and on weekly reset; it is
// never mutated outside those paths except by administrative override.
type Profile struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Username        string          `gorm:"size:50;uniqueIndex;not null" json:"username"`
	PasswordHash    string          `gorm:"size:100;not null" json:"-"`
	LeagueID        uint            `gorm:"index;not null" json:"league_id"`
	League          *League         `gorm:"foreignKey:LeagueID" json:"league,omitempty"`
	Role            string          `gorm:"size:20;default:player" json:"role"`
	WeeklyBudget    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"weekly_budget"`
	TotalPoints     decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total_points"`
	BlocksAvailable int             `gorm:"default:0" json:"blocks_available"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName specifies the table name for Profile model
func (Profile) TableName() string {
	return "profiles"
}

// WeeklyPerformance is a per-week snapshot of a profile, written when the
// league week is advanced.
type WeeklyPerformance struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	ProfileID  uint            `gorm:"index;not null" json:"profile_id"`
	LeagueID   uint            `gorm:"index;not null" json:"league_id"`
	Week       int             `gorm:"not null" json:"week"`
	Points     decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"points"`
	BudgetLeft decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"budget_left"`
	CreatedAt  time.Time       `json:"created_at"`
}

// TableName specifies the table name for WeeklyPerformance model
func (WeeklyPerformance) TableName() string {
	return "weekly_performance"
}
