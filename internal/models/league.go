package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// League types
const (
	LeagueTypeFree    = "free"
	LeagueTypePremium = "premium"
)

// Budget reset policies
const (
	ResetPolicyWeekly = "weekly"
	ResetPolicyManual = "manual"
)

// League represents a betting league. The week counter and the weekly budget
// are the unit of temporal partitioning for betting activity.
type League struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	Name         string           `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Type         string           `gorm:"size:20;default:free;not null" json:"type"` // free, premium
	MinBet       decimal.Decimal  `gorm:"type:decimal(12,2);default:0" json:"min_bet"`
	MaxBet       *decimal.Decimal `gorm:"type:decimal(12,2)" json:"max_bet,omitempty"` // nil = no maximum
	WeeklyBudget decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"weekly_budget"`
	ResetPolicy  string           `gorm:"size:20;default:weekly" json:"reset_policy"`
	CurrentWeek  int              `gorm:"default:1;not null" json:"current_week"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// TableName specifies the table name for League model
func (League) TableName() string {
	return "leagues"
}

// IsPremium reports whether premium features (match blocks, live betting) are
// available in this league.
func (l *League) IsPremium() bool {
	return l.Type == LeagueTypePremium
}
